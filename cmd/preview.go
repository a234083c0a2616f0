package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lukman83/giftlist-preview/internal/preview"
	"github.com/lukman83/giftlist-preview/internal/ui"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview [url]...",
	Short: "Fetch product links and print their previews",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().String("format", "json", "Output format: json, table")
	previewCmd.Flags().Int("concurrency", 0, "Parallel fetches for multiple URLs (default from $GIFTLIST_MAX_CONCURRENT or 4)")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "json" && format != "table" {
		return fmt.Errorf("unknown format %q", format)
	}
	if n, _ := cmd.Flags().GetInt("concurrency"); n > 0 {
		cfg.MaxConcurrent = n
	}

	svc, logger, err := buildService()
	if err != nil {
		return err
	}
	defer logger.Sync()

	spin := ui.NewSpinner(os.Stderr)
	spin.Start(fmt.Sprintf("Previewing %d link(s)...", len(args)))
	ctx := preview.WithProgress(context.Background(), spin.Update)
	previews := svc.PreviewMany(ctx, args)
	spin.Stop()

	switch format {
	case "table":
		printPreviewsTable(os.Stdout, previews)
	default:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if len(previews) == 1 {
			return enc.Encode(previews[0])
		}
		return enc.Encode(previews)
	}

	return nil
}
