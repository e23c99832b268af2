package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var hailCmd = &cobra.Command{
	Use:   "hail <service> <command...>",
	Short: "Send a command to a service's pane without waiting",
	Long: `Type a command into the target service's pane and press Enter, without
waiting for any output. The command text is injected literally, so quotes
and shell metacharacters arrive unmodified.

From inside a service pane, the target must be on your service's canAccess
list in harbor.json.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		service := args[0]
		command := strings.Join(args[1:], " ")

		if err := newCore().Hail(cmd.Context(), service, command); err != nil {
			return err
		}
		logger.Info("hailed", "service", service, "command", command)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hailCmd)
}
