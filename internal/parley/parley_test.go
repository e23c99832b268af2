package parley

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

// fakePane simulates an interactive shell pane: injected commands are
// echoed with a prompt, echo commands print their argument, and other
// commands print whatever the scripted program says.
type fakePane struct {
	lines     []string          // terminal buffer
	responses map[string]string // command -> printed output ("" prints nothing)
	sendErr   error
	captures  int
}

func (f *fakePane) SendLiteral(ctx context.Context, target, text string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.lines = append(f.lines, "$ "+text)
	if arg, ok := strings.CutPrefix(text, "echo '"); ok {
		f.lines = append(f.lines, strings.TrimSuffix(arg, "'"))
		return nil
	}
	if out, ok := f.responses[text]; ok {
		if out != "" {
			f.lines = append(f.lines, strings.Split(out, "\n")...)
		}
	}
	return nil
}

func (f *fakePane) Capture(ctx context.Context, target string, lines int) (string, error) {
	f.captures++
	buf := f.lines
	if len(buf) > lines {
		buf = buf[len(buf)-lines:]
	}
	return strings.Join(buf, "\n") + "\n", nil
}

func (f *fakePane) NewSession(ctx context.Context, session, windowName, dir string, env map[string]string) (int, error) {
	return 0, nil
}

func (f *fakePane) NewWindow(ctx context.Context, session, windowName, dir string, env map[string]string) (int, error) {
	return 0, nil
}

func (f *fakePane) HasSession(ctx context.Context, session string) (bool, error) { return true, nil }
func (f *fakePane) KillSession(ctx context.Context, session string) error        { return nil }
func (f *fakePane) Attach(session string) error                                  { return nil }

// newExchanger wires a fakePane with instant sleeps and a fixed token.
func newExchanger(pane *fakePane, token string) (*Exchanger, *[]time.Duration) {
	var slept []time.Duration
	return &Exchanger{
		Mux:   pane,
		Sleep: func(d time.Duration) { slept = append(slept, d) },
		Token: func() string { return token },
	}, &slept
}

func TestExchangeRoundTrip(t *testing.T) {
	pane := &fakePane{responses: map[string]string{"echo X": "X"}}
	ex, slept := newExchanger(pane, "abcd1234")

	got, outcome, err := ex.Exchange(context.Background(), "dev:1", "echo X", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if got != "X" {
		t.Errorf("Exchange() = %q, want %q", got, "X")
	}
	if outcome != OutcomeExtracted {
		t.Errorf("outcome = %q, want %q", outcome, OutcomeExtracted)
	}

	// Settle, dwell, settle — in that order.
	want := []time.Duration{StartSettle, time.Second, EndSettle}
	if len(*slept) != len(want) {
		t.Fatalf("sleeps: got %v, want %v", *slept, want)
	}
	for i := range want {
		if (*slept)[i] != want[i] {
			t.Errorf("sleep %d: got %v, want %v", i, (*slept)[i], want[i])
		}
	}
}

func TestExchangeDeterministicProgram(t *testing.T) {
	pane := &fakePane{responses: map[string]string{"add 2 3": "5"}}
	ex, _ := newExchanger(pane, "abcd1234")

	got, _, err := ex.Exchange(context.Background(), "dev:1", "add 2 3", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if got != "5" {
		t.Errorf("Exchange() = %q, want %q", got, "5")
	}
}

func TestExchangeMultilineResponse(t *testing.T) {
	pane := &fakePane{responses: map[string]string{"ls": "a.txt\nb.txt"}}
	ex, _ := newExchanger(pane, "abcd1234")

	got, _, err := ex.Exchange(context.Background(), "dev:1", "ls", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if got != "a.txt\nb.txt" {
		t.Errorf("Exchange() = %q, want %q", got, "a.txt\nb.txt")
	}
}

func TestExchangeIgnoresPriorScrollback(t *testing.T) {
	pane := &fakePane{responses: map[string]string{"echo X": "X"}}
	// Prior scrollback, including a stale parley from an older token.
	pane.lines = []string{
		"$ make build",
		"build ok",
		"$ echo '" + StartMarker("older999") + "'",
		StartMarker("older999"),
		"$ true",
		"$ echo '" + EndMarker("older999") + "'",
		EndMarker("older999"),
	}
	ex, _ := newExchanger(pane, "abcd1234")

	got, _, err := ex.Exchange(context.Background(), "dev:1", "echo X", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if got != "X" {
		t.Errorf("Exchange() = %q, want %q", got, "X")
	}
}

func TestExchangeEmptyOutputSentinel(t *testing.T) {
	pane := &fakePane{responses: map[string]string{"true": ""}}
	ex, _ := newExchanger(pane, "abcd1234")

	got, outcome, err := ex.Exchange(context.Background(), "dev:1", "true", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if got != NoOutput {
		t.Errorf("Exchange() = %q, want %q", got, NoOutput)
	}
	if outcome != OutcomeEmpty {
		t.Errorf("outcome = %q, want %q", outcome, OutcomeEmpty)
	}
}

// swallowingPane models a pane whose program consumes keystrokes without
// echoing them (e.g. a full-screen TUI): markers never appear.
type swallowingPane struct {
	fakePane
}

func (s *swallowingPane) SendLiteral(ctx context.Context, target, text string) error {
	return nil
}

func TestExchangeFallbackWhenMarkersSwallowed(t *testing.T) {
	pane := &swallowingPane{}
	pane.lines = []string{"some tui chrome", "status bar"}
	var slept []time.Duration
	ex := &Exchanger{
		Mux:   pane,
		Sleep: func(d time.Duration) { slept = append(slept, d) },
		Token: func() string { return "abcd1234" },
	}

	got, outcome, err := ex.Exchange(context.Background(), "dev:1", "echo X", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if outcome != OutcomeFallback {
		t.Errorf("outcome = %q, want %q", outcome, OutcomeFallback)
	}
	if got != "some tui chrome\nstatus bar" {
		t.Errorf("Exchange() = %q, want raw capture", got)
	}
}

func TestExchangeSendErrorPropagates(t *testing.T) {
	wantErr := errors.New("window gone")
	pane := &fakePane{sendErr: wantErr}
	ex, _ := newExchanger(pane, "abcd1234")

	_, _, err := ex.Exchange(context.Background(), "dev:1", "echo X", time.Second)
	if !errors.Is(err, wantErr) {
		t.Errorf("Exchange() error = %v, want %v", err, wantErr)
	}
}

func TestExchangeDefaultDwell(t *testing.T) {
	pane := &fakePane{responses: map[string]string{"echo X": "X"}}
	ex, slept := newExchanger(pane, "abcd1234")

	if _, _, err := ex.Exchange(context.Background(), "dev:1", "echo X", 0); err != nil {
		t.Fatal(err)
	}
	if (*slept)[1] != DefaultDwell {
		t.Errorf("dwell: got %v, want %v", (*slept)[1], DefaultDwell)
	}
}

func TestExtract(t *testing.T) {
	token := "abcd1234"

	tests := []struct {
		name    string
		capture string
		command string
		want    string
		wantOK  bool
	}{
		{
			name: "command echo stripped from response",
			capture: strings.Join([]string{
				"$ echo '" + StartMarker(token) + "'",
				StartMarker(token),
				"$ echo X",
				"X",
				"$ echo '" + EndMarker(token) + "'",
				EndMarker(token),
			}, "\n"),
			command: "echo X",
			want:    "X",
			wantOK:  true,
		},
		{
			name: "blank lines dropped",
			capture: strings.Join([]string{
				"$ echo '" + StartMarker(token) + "'",
				StartMarker(token),
				"",
				"5",
				"",
				"$ echo '" + EndMarker(token) + "'",
			}, "\n"),
			command: "add 2 3",
			want:    "5",
			wantOK:  true,
		},
		{
			name: "stale end marker from older token does not terminate",
			capture: strings.Join([]string{
				"$ echo '" + StartMarker(token) + "'",
				StartMarker(token),
				EndMarker("older999"),
				"real output",
				"$ echo '" + EndMarker(token) + "'",
			}, "\n"),
			command: "run",
			want:    EndMarker("older999") + "\nreal output",
			wantOK:  true,
		},
		{
			name: "residual marker echo for another token dropped",
			capture: strings.Join([]string{
				"$ echo '" + StartMarker(token) + "'",
				"$ echo '" + StartMarker("older999") + "'",
				"output",
				"$ echo '" + EndMarker(token) + "'",
			}, "\n"),
			command: "run",
			want:    "output",
			wantOK:  true,
		},
		{
			name: "response ending with the command text kept",
			capture: strings.Join([]string{
				"$ echo '" + StartMarker(token) + "'",
				StartMarker(token),
				"$ status",
				"service status",
				"$ echo '" + EndMarker(token) + "'",
			}, "\n"),
			command: "status",
			want:    "service status",
			wantOK:  true,
		},
		{
			name: "prompt-prefixed command echo dropped",
			capture: strings.Join([]string{
				"$ echo '" + StartMarker(token) + "'",
				StartMarker(token),
				"user@host:~/repl> status",
				"ok",
				"$ echo '" + EndMarker(token) + "'",
			}, "\n"),
			command: "status",
			want:    "ok",
			wantOK:  true,
		},
		{
			name:    "markers absent",
			capture: "just\nsome\noutput",
			command: "run",
			wantOK:  false,
		},
		{
			name: "start without end",
			capture: strings.Join([]string{
				"$ echo '" + StartMarker(token) + "'",
				StartMarker(token),
				"output that never ended",
			}, "\n"),
			command: "run",
			wantOK:  false,
		},
		{
			name: "empty region",
			capture: strings.Join([]string{
				"$ echo '" + StartMarker(token) + "'",
				StartMarker(token),
				"$ echo '" + EndMarker(token) + "'",
			}, "\n"),
			command: "true",
			want:    "",
			wantOK:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.capture, token, tt.command)
			if ok != tt.wantOK {
				t.Fatalf("Extract() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewToken(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		token := NewToken()
		if len(token) != 8 {
			t.Fatalf("token length: got %d, want 8: %q", len(token), token)
		}
		if seen[token] {
			t.Fatalf("duplicate token after %d draws: %q", i, token)
		}
		seen[token] = true
	}
}

func TestMarkers(t *testing.T) {
	if got, want := StartMarker("ff001122"), "<<<HARBOR_START_ff001122>>>"; got != want {
		t.Errorf("StartMarker: got %q, want %q", got, want)
	}
	if got, want := EndMarker("ff001122"), "<<<HARBOR_END_ff001122>>>"; got != want {
		t.Errorf("EndMarker: got %q, want %q", got, want)
	}
	if got, want := markerEcho(StartMarker("ff001122")), fmt.Sprintf("echo '%s'", StartMarker("ff001122")); got != want {
		t.Errorf("markerEcho: got %q, want %q", got, want)
	}
}
