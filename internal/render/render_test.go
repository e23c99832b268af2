package render

import (
	"strings"
	"testing"
	"time"

	"github.com/harborctl/harbor/internal/model"
)

func testInfo() *model.SessionInfo {
	return &model.SessionInfo{
		SessionName: "dev",
		SocketName:  "harbor-dev",
		StartedAt:   time.Date(2026, 8, 24, 9, 30, 0, 0, time.UTC),
		Services: map[string]model.ServiceEntry{
			"repl": {Window: 1, Target: "dev:1"},
			"web":  {Window: 2, Target: "dev:2", CanAccess: []string{"repl"}},
		},
	}
}

func TestWhoami(t *testing.T) {
	tests := []struct {
		name     string
		info     *model.SessionInfo
		caller   string
		contains []string
	}{
		{
			name:     "no session",
			info:     nil,
			contains: []string{"No harbor session running", "harbor launch"},
		},
		{
			name:     "outside pane",
			info:     testInfo(),
			caller:   "",
			contains: []string{"Session: dev (socket harbor-dev)", "outside any harbor pane (full access)"},
		},
		{
			name:     "registered caller",
			info:     testInfo(),
			caller:   "web",
			contains: []string{"web (can access: repl)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Whoami(tt.info, tt.caller)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Whoami() missing %q in:\n%s", want, got)
				}
			}
		})
	}
}

func TestContextNoSession(t *testing.T) {
	got := Context(nil, "")
	for _, want := range []string{"No harbor session is running", "harbor launch"} {
		if !strings.Contains(got, want) {
			t.Errorf("Context(nil) missing %q in:\n%s", want, got)
		}
	}
}

func TestContextTable(t *testing.T) {
	got := Context(testInfo(), "web")

	// Rows follow window order: repl (window 1) before web (window 2).
	replIdx := strings.Index(got, "| repl |")
	webIdx := strings.Index(got, "| web |")
	if replIdx < 0 || webIdx < 0 {
		t.Fatalf("missing table rows in:\n%s", got)
	}
	if replIdx > webIdx {
		t.Error("rows not ordered by window index")
	}

	if !strings.Contains(got, "| repl | 1 | dev:1 | ✓ |") {
		t.Errorf("web should see ✓ for repl:\n%s", got)
	}
	if !strings.Contains(got, "| web | 2 | dev:2 | (you) |") {
		t.Errorf("caller's own row should read (you):\n%s", got)
	}
}

func TestContextDeniedIndicator(t *testing.T) {
	got := Context(testInfo(), "repl")

	if !strings.Contains(got, "| web | 2 | dev:2 | ✗ |") {
		t.Errorf("repl should see ✗ for web:\n%s", got)
	}
	if !strings.Contains(got, "| repl | 1 | dev:1 | (you) |") {
		t.Errorf("caller's own row should read (you):\n%s", got)
	}
}

func TestContextOutsideCallerSeesAllAllowed(t *testing.T) {
	got := Context(testInfo(), "")

	if !strings.Contains(got, "| repl | 1 | dev:1 | ✓ |") || !strings.Contains(got, "| web | 2 | dev:2 | ✓ |") {
		t.Errorf("outside caller should see ✓ everywhere:\n%s", got)
	}
}

func TestContextUsageDocs(t *testing.T) {
	got := Context(testInfo(), "")
	for _, want := range []string{"harbor hail", "harbor survey", "harbor parley", "canAccess"} {
		if !strings.Contains(got, want) {
			t.Errorf("Context() missing usage doc %q", want)
		}
	}
}

func TestRenderedDocsEndInSingleNewline(t *testing.T) {
	// Callers print these with fmt.Print; a missing or doubled trailing
	// newline would mangle the terminal output.
	docs := map[string]string{
		"whoami":             Whoami(testInfo(), "web"),
		"whoami no session":  Whoami(nil, ""),
		"context":            Context(testInfo(), "web"),
		"context no session": Context(nil, ""),
	}
	for name, doc := range docs {
		if !strings.HasSuffix(doc, "\n") || strings.HasSuffix(doc, "\n\n") {
			t.Errorf("%s should end in exactly one newline, got %q", name, doc[len(doc)-2:])
		}
	}
}

func TestContextDeterministic(t *testing.T) {
	a := Context(testInfo(), "web")
	b := Context(testInfo(), "web")
	if a != b {
		t.Error("Context() is not deterministic")
	}
}
