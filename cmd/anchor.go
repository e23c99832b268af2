package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harborctl/harbor/internal/config"
	"github.com/harborctl/harbor/internal/discover"
	"github.com/harborctl/harbor/internal/model"
	"github.com/harborctl/harbor/internal/proxy"
)

var anchorPath string

var anchorCmd = &cobra.Command{
	Use:   "anchor",
	Short: "Initialize harbor in this directory",
	Long: `Scan for service projects, write an initial harbor.json, and generate
the Caddyfile. Refuses to run when a configuration already exists; use
dock to add services to an existing one.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.Exists() {
			return fmt.Errorf("harbor is already anchored here; run 'harbor dock' to add services")
		}

		services, err := discover.Scan(anchorPath, nil)
		if err != nil {
			return err
		}
		if len(services) == 0 {
			logger.Warn("no service projects found; writing an empty configuration", "path", anchorPath)
		}

		cfg := newConfig(services)
		if err := config.Write(cfg); err != nil {
			return err
		}
		if err := proxy.Write(cfg); err != nil {
			return err
		}

		for _, svc := range cfg.Services {
			logger.Info("added service", "service", svc.Name, "command", svc.Command)
		}
		logger.Info("anchored", "config", config.FileJSON, "proxy", proxy.File)
		logger.Info("fill in ports and canAccess lists, then run 'harbor launch'")
		return nil
	},
}

// newConfig builds the initial configuration around the discovered services.
func newConfig(services []model.DevService) model.Config {
	return model.Config{
		Services: services,
		Domain:   "localhost",
	}
}

func init() {
	anchorCmd.Flags().StringVarP(&anchorPath, "path", "p", ".", "directory to scan for services")
	rootCmd.AddCommand(anchorCmd)
}
