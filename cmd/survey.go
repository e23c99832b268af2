package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harborctl/harbor/internal/core"
)

var surveyLines int

var surveyCmd = &cobra.Command{
	Use:   "survey <service>",
	Short: "Capture a service's terminal buffer",
	Long: `Print the most recent lines of the target service's terminal buffer,
scrollback included, exactly as rendered. Purely observational: nothing is
typed into the pane.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := newCore().Survey(cmd.Context(), args[0], surveyLines)
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, out)
		return nil
	},
}

func init() {
	surveyCmd.Flags().IntVarP(&surveyLines, "lines", "n", core.DefaultCaptureLines, "number of buffer lines to capture")
	rootCmd.AddCommand(surveyCmd)
}
