package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jokedex/internal/metrics"
	mcpTransport "github.com/kailas-cloud/jokedex/internal/transport/mcp"
	"github.com/kailas-cloud/jokedex/internal/version"
)

var flagMCPAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the joke tools over the Model Context Protocol",
	Long: `Expose search, ranking, sampling and generation as MCP tools.
Serves over stdin/stdout unless --addr (or mcp.addr in the config file) is set,
in which case it listens for server-sent events on that address.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&flagMCPAddr, "addr", "", "Listen address for the SSE transport, e.g. :8081")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	metrics.RegisterQueryMetrics()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx, "")
	if err != nil {
		return err
	}
	defer a.Close()

	srv := mcpTransport.NewServer("jokedex", version.Version, a.query, a.generators, a.logger).
		WithDefaultTopN(a.topN())

	addr := a.cfg.MCP.Addr
	if cmd.Flags().Changed("addr") {
		addr = flagMCPAddr
	}
	if addr == "" {
		a.logger.Info("Serving MCP over stdio", zap.Int("datasets", a.store.Len()))
		return srv.ServeStdio()
	}

	a.logger.Info("Serving MCP over SSE", zap.String("addr", addr), zap.Int("datasets", a.store.Len()))
	if err := srv.NewSSEServer(addr).Start(addr); err != nil {
		return fmt.Errorf("serve sse: %w", err)
	}
	return nil
}
