// File: cmd/serve.go
package cmd

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sgrimault/webharvest/internal/browser"
	"github.com/sgrimault/webharvest/internal/mcp"
	"github.com/sgrimault/webharvest/internal/observability"
	"github.com/sgrimault/webharvest/internal/tools"
)

// newServeCmd creates and configures the `serve` command.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serves the tool protocol over stdin/stdout",
		Long: `Serves the line-delimited JSON tool protocol: requests are read from
stdin, one per line, and responses are written to stdout. All logging goes
to stderr so stdout stays a clean protocol channel.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			manager := browser.NewManager(cfg, logger)
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				if err := manager.Shutdown(shutdownCtx); err != nil {
					logger.Warn("Error during browser manager shutdown", zap.Error(err))
				}
			}()

			service := tools.NewService(tools.NewRegistry(manager, logger), logger)
			server := mcp.NewServer(service, Version, logger)

			return server.Serve(ctx, os.Stdin, os.Stdout)
		},
	}
}
