package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harborctl/harbor/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve harbor operations over MCP on stdio",
	Long: `Run a Model Context Protocol server exposing hail, survey, parley and
harbor_context as tools, so MCP clients (coding agents) can talk to the
session's services. The same access rules apply as on the CLI.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("serving MCP on stdio")
		return mcpserver.NewServer(version, newCore()).Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
