package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	mcpserver "github.com/academydays/hubby/internal/mcp"
	"github.com/academydays/hubby/internal/source"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the event programme as tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// stdout belongs to the protocol; the logger writes to stderr.
		logger, err := newLogger()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer logger.Sync()

		loader := source.NewLoader(cfg, logger)
		res := loader.Load(cmd.Context())
		if res.Degraded() {
			logger.Warn("knowledge base unavailable", zap.Error(res.Err))
		}

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "hubby MCP server started on stdio (source=%s, days=%d)\n", res.Origin, len(res.Doc.Days))

		srv := mcpserver.NewServer(cfg, loader)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
