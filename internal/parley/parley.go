// Package parley implements the marker-delimited request/response protocol
// over a pane's terminal buffer.
//
// A parley wraps the injected command between two echoed marker lines
// carrying a per-call random token, waits a fixed dwell, captures the pane's
// scrollback, and extracts the region between the markers. The protocol
// works against any program that echoes its input and prints to the same
// terminal; the cost is that it is timing-based and best-effort, not exact.
// There is no mutual exclusion: concurrent parleys against one target can
// interleave and corrupt each other's regions.
package parley

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harborctl/harbor/internal/mux"
)

// Protocol timing. These are unconditional sleeps, not polls: the design
// assumes the callee finishes within the dwell window and accepts truncated
// results otherwise.
const (
	// StartSettle lets the shell echo the start marker before the command is
	// injected, guarding against interleaving during a prompt redraw.
	StartSettle = 100 * time.Millisecond
	// EndSettle lets the shell echo the end marker before capture.
	EndSettle = 200 * time.Millisecond
	// DefaultDwell is the wait between injecting the command and the end
	// marker.
	DefaultDwell = 3 * time.Second
	// CaptureLines is the scrollback window searched for markers. Output
	// beyond it is lost to the protocol.
	CaptureLines = 500
)

// NoOutput is returned when a parley ran but the extracted region was empty,
// so callers can tell "ran, produced nothing" from a transport failure.
const NoOutput = "(no output)"

// Outcome says how an Exchange obtained its response.
type Outcome string

const (
	// OutcomeExtracted: both markers found, region extracted.
	OutcomeExtracted Outcome = "extracted"
	// OutcomeFallback: markers absent, raw trimmed capture returned.
	OutcomeFallback Outcome = "fallback"
	// OutcomeEmpty: markers found but the region was empty; NoOutput
	// returned.
	OutcomeEmpty Outcome = "empty"
)

const (
	startPrefix = "<<<HARBOR_START_"
	endPrefix   = "<<<HARBOR_END_"
	markerClose = ">>>"
)

// NewToken returns an 8-character random correlation token. Short enough to
// type in a marker line, random enough not to collide with prior tokens
// still in the 500-line capture window.
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// StartMarker returns the start marker text for a token.
func StartMarker(token string) string {
	return startPrefix + token + markerClose
}

// EndMarker returns the end marker text for a token.
func EndMarker(token string) string {
	return endPrefix + token + markerClose
}

// markerEcho builds the shell command that prints a marker. The marker is
// single-quoted so the target shell does not treat <<< as a herestring.
func markerEcho(marker string) string {
	return fmt.Sprintf("echo '%s'", marker)
}

// Exchanger runs the parley protocol over a Multiplexer. The zero-value
// timing hooks use real sleeps and random tokens; tests override them.
type Exchanger struct {
	Mux mux.Multiplexer

	// Sleep is called for the settle delays and the dwell. Defaults to
	// time.Sleep.
	Sleep func(time.Duration)
	// Token produces the per-call correlation token. Defaults to NewToken.
	Token func() string
}

// Exchange injects command into target, dwells, and returns the
// marker-delimited response. When the markers cannot be found in the capture
// (output scrolled past the window, or the pane's program swallowed the
// keystrokes) it degrades to the raw trimmed capture rather than failing,
// so the caller always gets something observable.
func (e *Exchanger) Exchange(ctx context.Context, target, command string, dwell time.Duration) (string, Outcome, error) {
	sleep := e.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	newToken := e.Token
	if newToken == nil {
		newToken = NewToken
	}
	if dwell <= 0 {
		dwell = DefaultDwell
	}

	token := newToken()

	if err := e.Mux.SendLiteral(ctx, target, markerEcho(StartMarker(token))); err != nil {
		return "", "", err
	}
	sleep(StartSettle)

	if err := e.Mux.SendLiteral(ctx, target, command); err != nil {
		return "", "", err
	}
	sleep(dwell)

	if err := e.Mux.SendLiteral(ctx, target, markerEcho(EndMarker(token))); err != nil {
		return "", "", err
	}
	sleep(EndSettle)

	capture, err := e.Mux.Capture(ctx, target, CaptureLines)
	if err != nil {
		return "", "", err
	}

	outcome := OutcomeExtracted
	result, ok := Extract(capture, token, command)
	if !ok {
		result = strings.TrimSpace(capture)
		outcome = OutcomeFallback
	}
	if result == "" {
		result = NoOutput
		outcome = OutcomeEmpty
	}
	return result, outcome, nil
}
