package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harborctl/harbor/internal/config"
	"github.com/harborctl/harbor/internal/discover"
	"github.com/harborctl/harbor/internal/proxy"
	"github.com/harborctl/harbor/internal/ui"
)

var (
	dockPath   string
	dockSelect bool
)

var dockCmd = &cobra.Command{
	Use:   "dock",
	Short: "Discover and add services to the configuration",
	Long: `Scan for service projects not yet in harbor.json and add them.
With --select, an interactive picker lets you choose which discovered
services to keep and edit their inferred start commands.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Read()
		if err != nil {
			if errors.Is(err, config.ErrNotFound) {
				return fmt.Errorf("no harbor configuration here; run 'harbor anchor' first")
			}
			return err
		}

		existing := make(map[string]bool, len(cfg.Services))
		for _, svc := range cfg.Services {
			existing[svc.Name] = true
		}

		found, err := discover.Scan(dockPath, existing)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			logger.Info("no new services found", "path", dockPath)
			return nil
		}

		if dockSelect {
			found, err = ui.SelectServices(found)
			if err != nil {
				return err
			}
			if len(found) == 0 {
				logger.Info("nothing selected")
				return nil
			}
		}

		cfg.Services = append(cfg.Services, found...)
		if err := config.Write(cfg); err != nil {
			return err
		}
		if err := proxy.Write(cfg); err != nil {
			return err
		}

		for _, svc := range found {
			logger.Info("docked service", "service", svc.Name, "command", svc.Command)
		}
		return nil
	},
}

func init() {
	dockCmd.Flags().StringVarP(&dockPath, "path", "p", ".", "directory to scan for services")
	dockCmd.Flags().BoolVar(&dockSelect, "select", false, "interactively pick services and edit commands")
	rootCmd.AddCommand(dockCmd)
}
