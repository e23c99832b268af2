package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harborctl/harbor/internal/launcher"
	"github.com/harborctl/harbor/internal/mux"
	"github.com/harborctl/harbor/internal/registry"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running session and all its services",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := registry.Load()
		if err != nil {
			return err
		}
		if info == nil {
			return registry.ErrNoSession
		}

		l := &launcher.Launcher{Mux: mux.NewTmux(info.SocketName), Log: logger}
		if err := l.Stop(cmd.Context(), info); err != nil {
			return err
		}
		logger.Info("session stopped", "session", info.SessionName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
