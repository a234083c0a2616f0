package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lukman83/giftlist-preview/internal/api"
	mcpserver "github.com/lukman83/giftlist-preview/mcp"
	"github.com/spf13/cobra"
)

var serveHTTPCmd = &cobra.Command{
	Use:   "serve-http",
	Short: "Start the preview HTTP API",
	Long:  "Serve GET /api/preview, /healthz and the MCP endpoint at /mcp over HTTP.",
	RunE:  runServeHTTP,
}

func init() {
	serveHTTPCmd.Flags().String("port", "", "HTTP port (default from $PORT or 8080)")
	serveHTTPCmd.Flags().Bool("no-mcp", false, "Do not mount the MCP endpoint")
	rootCmd.AddCommand(serveHTTPCmd)
}

func runServeHTTP(cmd *cobra.Command, args []string) error {
	svc, logger, err := buildService()
	if err != nil {
		return err
	}
	defer logger.Sync()

	port := cfg.HTTPPort
	if p, _ := cmd.Flags().GetString("port"); p != "" {
		port = p
	}

	deps := api.Deps{Previewer: svc, Logger: logger}
	if noMCP, _ := cmd.Flags().GetBool("no-mcp"); !noMCP {
		deps.MCP = mcpserver.NewHTTPHandler(svc, cfg.APIKey)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf(":%s", port)
	return api.Serve(ctx, addr, api.NewRouter(deps), logger)
}
