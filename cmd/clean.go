package cmd

import (
	"fmt"

	"github.com/lukman83/giftlist-preview/internal/preview"
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [url]...",
	Short: "Strip tracking parameters from URLs",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	for _, raw := range args {
		cleaned, err := preview.CleanTrackingParams(raw)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cleaned)
	}
	return nil
}
