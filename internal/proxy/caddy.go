// Package proxy generates the Caddyfile that fronts harbor services.
package proxy

import (
	"fmt"
	"os"
	"strings"

	"github.com/harborctl/harbor/internal/model"
)

// File is the generated reverse-proxy configuration file name.
const File = "Caddyfile"

// Render builds the Caddyfile content for the configured services. Services
// without a port or subdomain are left out.
func Render(cfg model.Config) string {
	var b strings.Builder
	for _, svc := range cfg.Services {
		if svc.Port == 0 || svc.Subdomain == "" {
			continue
		}
		fmt.Fprintf(&b, "%s.%s {\n", svc.Subdomain, cfg.Domain)
		fmt.Fprintf(&b, "  reverse_proxy localhost:%d\n", svc.Port)
		b.WriteString("}\n\n")
	}
	return b.String()
}

// Write renders the Caddyfile and writes it to the current directory.
func Write(cfg model.Config) error {
	if err := os.WriteFile(File, []byte(Render(cfg)), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", File, err)
	}
	return nil
}
