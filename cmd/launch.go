package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harborctl/harbor/internal/config"
	"github.com/harborctl/harbor/internal/deps"
	"github.com/harborctl/harbor/internal/launcher"
	"github.com/harborctl/harbor/internal/mux"
	"github.com/harborctl/harbor/internal/registry"
)

var (
	launchSession string
	launchDetach  bool
)

var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Start all services in a shared tmux session",
	Long: `Create a detached tmux session on a harbor-owned socket with one
window per configured service, start each service's command in its window,
and attach. Each pane carries its service identity in HARBOR_SERVICE.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := deps.Check(deps.Tmux); err != nil {
			return err
		}

		cfg, err := config.Read()
		if err != nil {
			return err
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}

		if info, err := activeSession(cmd.Context()); err == nil && info != nil {
			return fmt.Errorf("session %q is already running; 'harbor attach' to join it or 'harbor stop' first", info.SessionName)
		}

		m := mux.NewTmux(registry.SocketName(launchSession))
		l := &launcher.Launcher{Mux: m, Log: logger}
		info, err := l.Start(cmd.Context(), launchSession, cfg)
		if err != nil {
			return err
		}
		logger.Info("session launched", "session", info.SessionName, "services", len(info.Services))

		if launchDetach {
			logger.Info("running detached; 'harbor attach' to join")
			return nil
		}
		return m.Attach(info.SessionName)
	},
}

func init() {
	launchCmd.Flags().StringVarP(&launchSession, "session", "s", defaultSessionName(), "tmux session name")
	launchCmd.Flags().BoolVarP(&launchDetach, "detach", "d", false, "do not attach after launching")
	rootCmd.AddCommand(launchCmd)
}
