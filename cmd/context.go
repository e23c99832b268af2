package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Describe the session for agents and humans",
	Long: `Print a markdown document describing the running session: every
service, its window, its tmux target, and whether the caller may message
it. Paste it into an agent's context or read it yourself.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := newCore().SessionContext(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(contextCmd)
}
