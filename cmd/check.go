package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harborctl/harbor/internal/deps"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that harbor's external tools are installed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, dep := range []deps.Dependency{deps.Tmux, deps.Caddy} {
			if dep.Installed() {
				logger.Info("found", "tool", dep.Name)
			} else {
				logger.Warn("missing", "tool", dep.Name, "needed for", dep.RequiredFor, "install", dep.InstallURL)
			}
		}
		// Only tmux is a hard requirement; caddy matters once the
		// generated Caddyfile is actually served.
		return deps.Check(deps.Tmux)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
