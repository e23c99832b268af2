package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var parleyTimeoutMs int

var parleyCmd = &cobra.Command{
	Use:   "parley <service> <command...>",
	Short: "Run a command in a service's pane and return its output",
	Long: `Run a command in the target service's pane and print just that
command's output, isolated from everything else in the pane by unique
shell markers. The command is given a fixed window (-t, milliseconds) to
produce output before capture; slower commands get truncated output, and
output that cannot be delimited falls back to the raw capture.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		service := args[0]
		command := strings.Join(args[1:], " ")
		timeout := time.Duration(parleyTimeoutMs) * time.Millisecond

		out, err := newCore().Parley(cmd.Context(), service, command, timeout)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	parleyCmd.Flags().IntVarP(&parleyTimeoutMs, "timeout", "t", 3000, "milliseconds to let the command run before capturing")
	rootCmd.AddCommand(parleyCmd)
}
