package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harborctl/harbor/internal/config"
	"github.com/harborctl/harbor/internal/proxy"
)

var moorCmd = &cobra.Command{
	Use:   "moor",
	Short: "Regenerate the Caddyfile from the configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Read()
		if err != nil {
			return err
		}
		if err := proxy.Write(cfg); err != nil {
			return err
		}
		logger.Info("wrote proxy configuration", "file", proxy.File)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(moorCmd)
}
