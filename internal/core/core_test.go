package core

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/harborctl/harbor/internal/access"
	"github.com/harborctl/harbor/internal/model"
	"github.com/harborctl/harbor/internal/mux"
	"github.com/harborctl/harbor/internal/registry"
)

// fakeMux is a scripted multiplexer: Capture returns the queued captures in
// order, SendLiteral records what was sent.
type fakeMux struct {
	sent     []string
	captures []string
	lines    []int
	sessions map[string]bool
}

func (f *fakeMux) SendLiteral(ctx context.Context, target, text string) error {
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeMux) Capture(ctx context.Context, target string, lines int) (string, error) {
	f.lines = append(f.lines, lines)
	if len(f.captures) == 0 {
		return "", nil
	}
	out := f.captures[0]
	f.captures = f.captures[1:]
	return out, nil
}

func (f *fakeMux) NewSession(ctx context.Context, session, windowName, dir string, env map[string]string) (int, error) {
	return 0, nil
}

func (f *fakeMux) NewWindow(ctx context.Context, session, windowName, dir string, env map[string]string) (int, error) {
	return 0, nil
}

func (f *fakeMux) HasSession(ctx context.Context, session string) (bool, error) {
	if f.sessions == nil {
		return true, nil
	}
	return f.sessions[session], nil
}

func (f *fakeMux) KillSession(ctx context.Context, session string) error { return nil }
func (f *fakeMux) Attach(session string) error                           { return nil }

func chtemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func saveTestRegistry(t *testing.T) *model.SessionInfo {
	t.Helper()
	info := &model.SessionInfo{
		SessionName: "dev",
		SocketName:  "harbor-dev",
		Services: map[string]model.ServiceEntry{
			"repl": {Window: 0, Target: "dev:0"},
			"web":  {Window: 1, Target: "dev:1", CanAccess: []string{"repl"}},
			"api":  {Window: 2, Target: "dev:2"},
		},
	}
	if err := registry.Save(info); err != nil {
		t.Fatal(err)
	}
	return info
}

func newTestCore(fake *fakeMux) *Core {
	return &Core{
		NewMux: func(socket string) mux.Multiplexer { return fake },
		Sleep:  func(time.Duration) {},
	}
}

func TestHailSendsToTarget(t *testing.T) {
	chtemp(t)
	saveTestRegistry(t)
	fake := &fakeMux{}

	if err := newTestCore(fake).Hail(context.Background(), "repl", "make test"); err != nil {
		t.Fatal(err)
	}
	if len(fake.sent) != 1 || fake.sent[0] != "make test" {
		t.Errorf("sent: %v", fake.sent)
	}
}

func TestHailNoSession(t *testing.T) {
	chtemp(t)
	err := newTestCore(&fakeMux{}).Hail(context.Background(), "repl", "ls")
	if !errors.Is(err, registry.ErrNoSession) {
		t.Errorf("error = %v, want ErrNoSession", err)
	}
}

func TestHailDenied(t *testing.T) {
	chtemp(t)
	saveTestRegistry(t)
	t.Setenv(access.EnvService, "web")
	fake := &fakeMux{}

	err := newTestCore(fake).Hail(context.Background(), "api", "ls")
	var denied *access.DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("error = %v, want DeniedError", err)
	}
	if len(fake.sent) != 0 {
		t.Error("denied hail must not touch the multiplexer")
	}
}

func TestSurveyUnknownService(t *testing.T) {
	chtemp(t)
	saveTestRegistry(t)

	_, err := newTestCore(&fakeMux{}).Survey(context.Background(), "nope", 0)
	var unknown *registry.UnknownServiceError
	if !errors.As(err, &unknown) {
		t.Fatalf("error = %v, want UnknownServiceError", err)
	}
}

func TestSurveyDefaultLines(t *testing.T) {
	chtemp(t)
	saveTestRegistry(t)
	fake := &fakeMux{captures: []string{"log line"}}

	out, err := newTestCore(fake).Survey(context.Background(), "repl", 0)
	if err != nil {
		t.Fatal(err)
	}
	if out != "log line" {
		t.Errorf("capture: got %q", out)
	}
	if len(fake.lines) != 1 || fake.lines[0] != DefaultCaptureLines {
		t.Errorf("lines: got %v, want [%d]", fake.lines, DefaultCaptureLines)
	}
}

func TestParleyRoundTrip(t *testing.T) {
	chtemp(t)
	saveTestRegistry(t)
	pane := &scriptedPane{}
	c := newTestCore(&fakeMux{})
	c.NewMux = func(socket string) mux.Multiplexer { return pane }

	out, err := c.Parley(context.Background(), "repl", "version", 0)
	if err != nil {
		t.Fatal(err)
	}
	if out != "1.2.3" {
		t.Errorf("parley: got %q, want %q", out, "1.2.3")
	}
}

// scriptedPane builds a plausible tmux transcript out of what was sent,
// answering "version" with "1.2.3".
type scriptedPane struct {
	lines []string
}

func (p *scriptedPane) SendLiteral(ctx context.Context, target, text string) error {
	p.lines = append(p.lines, "$ "+text)
	if strings.HasPrefix(text, "echo '") {
		p.lines = append(p.lines, strings.TrimSuffix(strings.TrimPrefix(text, "echo '"), "'"))
	}
	if text == "version" {
		p.lines = append(p.lines, "1.2.3")
	}
	return nil
}

func (p *scriptedPane) Capture(ctx context.Context, target string, lines int) (string, error) {
	return strings.Join(p.lines, "\n"), nil
}

func (p *scriptedPane) NewSession(ctx context.Context, session, windowName, dir string, env map[string]string) (int, error) {
	return 0, nil
}

func (p *scriptedPane) NewWindow(ctx context.Context, session, windowName, dir string, env map[string]string) (int, error) {
	return 0, nil
}

func (p *scriptedPane) HasSession(ctx context.Context, session string) (bool, error) {
	return true, nil
}

func (p *scriptedPane) KillSession(ctx context.Context, session string) error { return nil }
func (p *scriptedPane) Attach(session string) error                           { return nil }

func TestWhoamiNoSession(t *testing.T) {
	chtemp(t)
	out, err := newTestCore(&fakeMux{}).Whoami(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No harbor session") {
		t.Errorf("whoami without session: %q", out)
	}
}

func TestContextListsServices(t *testing.T) {
	chtemp(t)
	saveTestRegistry(t)
	t.Setenv(access.EnvService, "web")

	out, err := newTestCore(&fakeMux{}).SessionContext(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"repl", "web", "api"} {
		if !strings.Contains(out, want) {
			t.Errorf("context missing %q", want)
		}
	}
}

func TestContextDropsStaleRegistry(t *testing.T) {
	chtemp(t)
	saveTestRegistry(t)
	fake := &fakeMux{sessions: map[string]bool{}} // session is gone

	out, err := newTestCore(fake).SessionContext(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No harbor session") {
		t.Errorf("stale session should render the no-session doc, got %q", out)
	}
	if info, _ := registry.Load(); info != nil {
		t.Error("stale registry should be deleted")
	}
}
