package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/lukman83/giftlist-preview/config"
	"github.com/lukman83/giftlist-preview/internal/egress"
	"github.com/lukman83/giftlist-preview/internal/httputil"
	"github.com/lukman83/giftlist-preview/internal/logging"
	"github.com/lukman83/giftlist-preview/internal/preview"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:          "giftlist",
	Short:        "Giftlist link preview - CLI, HTTP API & MCP server",
	Long:         "Extracts title, image and price from product links added to family wish lists.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().Duration("fetch-timeout", 0, "Per-fetch timeout (default from $GIFTLIST_FETCH_TIMEOUT or 8s)")
	rootCmd.PersistentFlags().Duration("hard-deadline", 0, "Hard cap on a whole preview (default from $GIFTLIST_HARD_DEADLINE or 9s)")
	rootCmd.PersistentFlags().Bool("respect-robots", false, "Honor robots.txt before fetching")
	rootCmd.PersistentFlags().StringSlice("proxy", nil, "Proxy URL(s) to rotate through")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: json, console")
}

func initConfig() {
	cfg = config.DefaultConfig()
	cfg.LoadFromEnv()

	// Override from flags
	flags := rootCmd.PersistentFlags()
	if v, _ := flags.GetDuration("fetch-timeout"); v > 0 {
		cfg.FetchTimeout = v
	}
	if v, _ := flags.GetDuration("hard-deadline"); v > 0 {
		cfg.HardDeadline = v
	}
	if flags.Changed("respect-robots") {
		cfg.RespectRobots, _ = flags.GetBool("respect-robots")
	}
	if v, _ := flags.GetStringSlice("proxy"); len(v) > 0 {
		cfg.ProxyURLs = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := flags.GetString("log-format"); v != "" {
		cfg.LogFormat = v
	}
}

// buildHTTPClient creates the egress-wrapped HTTP client from config.
func buildHTTPClient() (*http.Client, error) {
	providers, err := egress.ParseProxyList(cfg.ProxyURLs)
	if err != nil {
		return nil, err
	}

	robotsClient := httputil.NewHTTPClient(httputil.NewBaseTransport(), cfg.FetchTimeout)
	transport := &egress.Transport{
		Base:        httputil.NewBaseTransport(),
		Robots:      egress.NewRobotsChecker(robotsClient, cfg.RespectRobots),
		Proxy:       egress.NewProxyRotator(providers),
		RateLimiter: egress.NewLimiter(cfg.RatePerSecond, cfg.RateBurst),
	}

	return httputil.NewHTTPClient(transport, cfg.FetchTimeout), nil
}

// buildService wires the preview service and its logger from config.
func buildService() (*preview.Service, *zap.Logger, error) {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	requested := cfg.HardDeadline
	if cfg.ClampDeadlines() {
		logger.Warn("hard deadline must exceed fetch timeout; raised",
			zap.Duration("requested", requested),
			zap.Duration("fetch_timeout", cfg.FetchTimeout),
			zap.Duration("hard_deadline", cfg.HardDeadline))
	}
	client, err := buildHTTPClient()
	if err != nil {
		return nil, nil, err
	}

	fetcher := preview.NewFetcher(client, preview.FetcherConfig{
		UserAgent:    cfg.UserAgent,
		MaxBodyBytes: cfg.MaxBodyBytes,
	})
	svc := preview.NewService(fetcher, logger, preview.Options{
		FetchTimeout:  cfg.FetchTimeout,
		HardDeadline:  cfg.HardDeadline,
		MaxConcurrent: cfg.MaxConcurrent,
	})
	return svc, logger, nil
}
