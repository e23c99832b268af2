// Package mux provides the tmux transport primitives harbor is built on.
//
// This package is pure transport: it injects keystrokes and captures
// rendered pane content without interpreting any of it. Access decisions
// and response extraction live in other packages.
package mux

import "context"

// Multiplexer abstracts the terminal multiplexer operations harbor needs.
// The production implementation shells out to tmux on a dedicated socket;
// tests substitute a scripted fake.
type Multiplexer interface {
	// SendLiteral injects text as literal keystrokes into the target pane,
	// followed by an Enter keypress.
	SendLiteral(ctx context.Context, target, text string) error

	// Capture returns the last lines of the target pane's rendered buffer
	// (scrollback plus visible area), escape sequences included. Purely
	// observational; never blocks waiting for new output.
	Capture(ctx context.Context, target string, lines int) (string, error)

	// NewSession creates a detached session whose first window runs in dir
	// with the given name, and returns the index tmux assigned to that
	// window. Entries in env are set in the pane's environment (tmux -e
	// flags). The index is not necessarily zero: the server honors the
	// user's base-index option.
	NewSession(ctx context.Context, session, windowName, dir string, env map[string]string) (int, error)

	// NewWindow appends a window named windowName running in dir, with env
	// set in the pane's environment, and returns the assigned window index.
	NewWindow(ctx context.Context, session, windowName, dir string, env map[string]string) (int, error)

	// HasSession reports whether the session exists on this socket.
	HasSession(ctx context.Context, session string) (bool, error)

	// KillSession terminates the session and all its windows.
	KillSession(ctx context.Context, session string) error

	// Attach replaces or connects the current terminal to the session.
	Attach(session string) error
}
