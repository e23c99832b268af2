package mux

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"
)

// Tmux implements Multiplexer against a dedicated tmux socket (-L), so
// harbor sessions never collide with the user's own tmux server.
type Tmux struct {
	socket string
}

// NewTmux creates a tmux transport bound to the given socket name.
func NewTmux(socket string) *Tmux {
	return &Tmux{socket: socket}
}

// Socket returns the socket name this transport is bound to.
func (t *Tmux) Socket() string {
	return t.socket
}

// SendLiteral injects text as literal keystrokes followed by Enter.
// The -l flag makes tmux treat the text as literal characters rather than
// key names, so command text containing tmux's own special characters
// cannot break out of the injection.
func (t *Tmux) SendLiteral(ctx context.Context, target, text string) error {
	if _, err := t.run(ctx, "send-keys", "-t", target, "-l", text); err != nil {
		return fmt.Errorf("tmux send-keys -t %s: %w", target, err)
	}
	if _, err := t.run(ctx, "send-keys", "-t", target, "Enter"); err != nil {
		return fmt.Errorf("tmux send-keys -t %s Enter: %w", target, err)
	}
	return nil
}

// Capture returns the last lines of the pane's buffer, escape sequences
// included (-e). -S -N extends the capture into scrollback.
func (t *Tmux) Capture(ctx context.Context, target string, lines int) (string, error) {
	out, err := t.run(ctx, "capture-pane", "-t", target, "-p", "-e", "-S", fmt.Sprintf("-%d", lines))
	if err != nil {
		return "", fmt.Errorf("tmux capture-pane -t %s: %w", target, err)
	}
	return out, nil
}

// NewSession creates a detached session with a named first window and
// returns the window's index. -P -F prints the index tmux chose, which
// follows the server's base-index option rather than starting at zero.
func (t *Tmux) NewSession(ctx context.Context, session, windowName, dir string, env map[string]string) (int, error) {
	args := []string{"new-session", "-d", "-P", "-F", "#{window_index}", "-s", session, "-n", windowName, "-c", dir}
	args = append(args, envFlags(env)...)
	out, err := t.run(ctx, args...)
	if err != nil {
		return 0, fmt.Errorf("tmux new-session %s: %w", session, err)
	}
	return parseWindowIndex(out)
}

// NewWindow appends a named window to the session and returns its index.
func (t *Tmux) NewWindow(ctx context.Context, session, windowName, dir string, env map[string]string) (int, error) {
	args := []string{"new-window", "-t", session + ":", "-P", "-F", "#{window_index}", "-n", windowName, "-c", dir}
	args = append(args, envFlags(env)...)
	out, err := t.run(ctx, args...)
	if err != nil {
		return 0, fmt.Errorf("tmux new-window %s: %w", windowName, err)
	}
	return parseWindowIndex(out)
}

// parseWindowIndex parses the -P -F '#{window_index}' output.
func parseWindowIndex(out string) (int, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, fmt.Errorf("parsing tmux window index %q: %w", strings.TrimSpace(out), err)
	}
	return idx, nil
}

// HasSession reports whether the session exists on this socket. tmux exits
// non-zero both when the session is missing and when no server runs on the
// socket; both mean "not running" here.
func (t *Tmux) HasSession(ctx context.Context, session string) (bool, error) {
	cmd := exec.CommandContext(ctx, "tmux", "-L", t.socket, "has-session", "-t", session)
	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return false, nil
		}
		return false, fmt.Errorf("tmux has-session %s: %w", session, err)
	}
	return true, nil
}

// KillSession terminates the session and all its windows.
func (t *Tmux) KillSession(ctx context.Context, session string) error {
	if _, err := t.run(ctx, "kill-session", "-t", session); err != nil {
		return fmt.Errorf("tmux kill-session %s: %w", session, err)
	}
	return nil
}

// Attach connects the current terminal to the session. Attach hands the
// terminal over to tmux, so stdio is wired through directly.
func (t *Tmux) Attach(session string) error {
	cmd := exec.Command("tmux", "-L", t.socket, "attach-session", "-t", session)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("tmux attach-session %s: %w", session, err)
	}
	return nil
}

// run executes a tmux command on this socket and returns its stdout.
func (t *Tmux) run(ctx context.Context, args ...string) (string, error) {
	full := append([]string{"-L", t.socket}, args...)
	cmd := exec.CommandContext(ctx, "tmux", full...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}

// envFlags renders env as tmux -e KEY=VALUE flags in deterministic order.
func envFlags(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	flags := make([]string, 0, len(env)*2)
	for _, k := range keys {
		flags = append(flags, "-e", fmt.Sprintf("%s=%s", k, env[k]))
	}
	return flags
}
