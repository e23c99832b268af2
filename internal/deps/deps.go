// Package deps probes for the external tools harbor shells out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Dependency is one external tool harbor needs at runtime.
type Dependency struct {
	Name        string
	Probe       []string // command + args that exit zero when installed
	InstallURL  string
	RequiredFor string
}

var (
	// Tmux is required by every session and transport command.
	Tmux = Dependency{
		Name:        "tmux",
		Probe:       []string{"tmux", "-V"},
		InstallURL:  "https://github.com/tmux/tmux/wiki/Installing",
		RequiredFor: "terminal multiplexing",
	}
	// Caddy is only needed when the generated Caddyfile is used.
	Caddy = Dependency{
		Name:        "caddy",
		Probe:       []string{"caddy", "version"},
		InstallURL:  "https://caddyserver.com/docs/install",
		RequiredFor: "reverse proxy functionality",
	}
)

// Installed reports whether the dependency's probe command succeeds.
func (d Dependency) Installed() bool {
	if _, err := exec.LookPath(d.Probe[0]); err != nil {
		return false
	}
	return exec.Command(d.Probe[0], d.Probe[1:]...).Run() == nil
}

// Check returns an error naming every missing dependency with install
// instructions.
func Check(required ...Dependency) error {
	var missing []string
	for _, dep := range required {
		if !dep.Installed() {
			missing = append(missing, fmt.Sprintf("%s (required for %s): %s",
				dep.Name, dep.RequiredFor, dep.InstallURL))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required dependencies:\n  %s", strings.Join(missing, "\n  "))
	}
	return nil
}
