package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bobmcallan/gong-mcp/internal/common"
	"github.com/bobmcallan/gong-mcp/internal/config"
	"github.com/bobmcallan/gong-mcp/internal/gong"
	"github.com/bobmcallan/gong-mcp/internal/server"
	"github.com/bobmcallan/gong-mcp/internal/tools"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

const instructions = "This server provides access to the Gong API. All tools correspond to operations defined in the Gong OpenAPI specification."

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		httpMode bool
		port     int
		host     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the Gong tools (stdio by default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, files, err := opts.loadConfig(port, host)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			logger := common.NewLoggerFromConfig(cfg.Logging)
			logger.Info().
				Str("config_files", fmt.Sprintf("%v", files)).
				Bool("http", httpMode).
				Msg("configuration loaded")

			mcpSrv, table := newMCPServer(cfg, logger)
			logger.Info().Int("tools", table.Len()).Str("version", config.GetVersion()).Msg("tools registered")

			if !httpMode {
				// stdout carries the protocol; diagnostics stay on stderr.
				return mcpserver.ServeStdio(mcpSrv)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(cfg.Server, mcpSrv, logger).Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&httpMode, "http", false, "Serve streamable HTTP instead of stdio")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP port (overrides config)")
	cmd.Flags().StringVar(&host, "host", "", "HTTP host (overrides config)")
	return cmd
}

// newMCPServer wires the Gong client, the tool table and the MCP server.
func newMCPServer(cfg *config.Config, logger *common.Logger) (*mcpserver.MCPServer, *tools.Table) {
	client := gong.NewClient(cfg.Gong.BaseURL, cfg.Credentials, logger, gong.WithTimeout(cfg.Gong.GetTimeout()))
	table := tools.NewGongTable(client, logger)
	logger.Info().Str("base_url", client.BaseURL()).Bool("authorized", client.Authorization() != "").Msg("gong client ready")

	mcpSrv := mcpserver.NewMCPServer(
		cfg.Server.Name,
		config.GetVersion(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithInstructions(instructions),
	)
	table.Install(mcpSrv)
	return mcpSrv, table
}
