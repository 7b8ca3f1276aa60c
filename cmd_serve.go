package main

import (
	"log/slog"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/anatolykoptev/go_summarize/internal/engine"
	"github.com/anatolykoptev/go_summarize/internal/summaryserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server",
		Long: `Run the HTTP MCP server exposing summarize_url and fetch_url_content.

Listens on MCP_PORT (default 8892). Metrics are served alongside the MCP endpoint.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(*cobra.Command, []string) error {
	mcpPort := env.Str("MCP_PORT", "8892")
	slog.Info("starting go_summarize",
		slog.String("port", mcpPort),
		slog.String("model", engine.Cfg.LLMModel),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_summarize",
		Version: version,
	}, nil)

	summaryserver.RegisterTools(server, newPipeline())
	slog.Info("tools registered", slog.Int("count", summaryserver.ToolCount))

	return mcpserver.Run(server, mcpserver.Config{
		Name:         "go_summarize",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	})
}
