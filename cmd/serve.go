package cmd

import (
	"fmt"

	mcpserver "github.com/lukman83/giftlist-preview/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP stdio server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	svc, logger, err := buildService()
	if err != nil {
		return err
	}
	defer logger.Sync()

	fmt.Fprintln(cmd.ErrOrStderr(), "Starting giftlist preview MCP server on stdio...")

	if err := mcpserver.Serve(svc); err != nil {
		logger.Error("MCP server error", zap.Error(err))
		return err
	}
	return nil
}
