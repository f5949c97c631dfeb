package cmd

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"booklog/internal/cli"
	"booklog/internal/log"
	booklogmcp "booklog/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve read-only reading-log tools over MCP (stdio)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cat, res, err := cli.OpenCatalog(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer res.Close()

		s := booklogmcp.NewServer(cat, version, logger)
		logger.WithComponent(log.ComponentMCP).Info("Serving MCP over stdio", "version", version)
		if err := server.ServeStdio(s); err != nil {
			return fmt.Errorf("booklog mcp: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
