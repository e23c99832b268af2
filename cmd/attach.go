package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harborctl/harbor/internal/mux"
)

var attachCmd = &cobra.Command{
	Use:   "attach",
	Short: "Attach the terminal to the running session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := activeSession(cmd.Context())
		if err != nil {
			return err
		}
		return mux.NewTmux(info.SocketName).Attach(info.SessionName)
	},
}

func init() {
	rootCmd.AddCommand(attachCmd)
}
