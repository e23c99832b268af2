// Package render formats session state for humans and automation agents.
// Pure formatting: deterministic output, no side effects.
package render

import (
	"fmt"
	"strings"

	"github.com/harborctl/harbor/internal/access"
	"github.com/harborctl/harbor/internal/model"
)

// Whoami returns a short plain-text summary of the session and the caller's
// standing in it.
func Whoami(info *model.SessionInfo, caller string) string {
	var b strings.Builder
	if info == nil {
		b.WriteString("No harbor session running.\n")
		b.WriteString("Start one with: harbor launch\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Session: %s (socket %s)\n", info.SessionName, info.SocketName)
	fmt.Fprintf(&b, "You are: %s\n", access.Describe(info, caller))
	return b.String()
}

// Context returns the full markdown document for a session: metadata, a
// service table with per-row access indicators relative to the caller, and
// usage documentation for the transport commands. Agents are the primary
// audience.
func Context(info *model.SessionInfo, caller string) string {
	if info == nil {
		return noSessionDoc
	}

	var b strings.Builder
	b.WriteString("# Harbor Session\n\n")
	fmt.Fprintf(&b, "- Session: `%s`\n", info.SessionName)
	fmt.Fprintf(&b, "- Socket: `%s`\n", info.SocketName)
	fmt.Fprintf(&b, "- Started: %s\n", info.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "- You are: %s\n", access.Describe(info, caller))
	b.WriteString("\n## Services\n\n")
	b.WriteString("| Service | Window | Target | Access |\n")
	b.WriteString("|---------|--------|--------|--------|\n")

	for _, name := range info.ServiceNames() {
		entry := info.Services[name]
		fmt.Fprintf(&b, "| %s | %d | %s | %s |\n",
			name, entry.Window, entry.Target, accessIndicator(info, caller, name))
	}

	b.WriteString(usageDoc)
	return b.String()
}

// accessIndicator renders the caller-relative access column: (you) for the
// caller's own row, ✓/✗ for everything else.
func accessIndicator(info *model.SessionInfo, caller, target string) string {
	if caller != "" && caller == target {
		return "(you)"
	}
	if access.Check(info, caller, target) == nil {
		return "✓"
	}
	return "✗"
}

const noSessionDoc = `# Harbor Session

No harbor session is running.

Start one from a harbor project directory:

` + "```" + `
harbor launch
` + "```" + `

Then re-run ` + "`harbor context`" + ` to see the service table and
inter-pane messaging commands.
`

const usageDoc = `
## Messaging

- ` + "`harbor hail <service> <command>`" + ` — type a command into the
  service's pane and press Enter. Fire-and-forget; nothing is read back.
- ` + "`harbor survey <service> [-n lines]`" + ` — print the last lines of
  the service's terminal buffer. Read-only.
- ` + "`harbor parley <service> <command> [-t timeoutMs]`" + ` — run a
  command in the service's pane and wait for its output. Waits the full
  timeout before reading; slow commands need a larger timeout.

Access between panes follows each service's canAccess list in harbor.json.
A ✗ above means the call will be refused from your pane.
`
