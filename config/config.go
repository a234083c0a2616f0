package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lukman83/giftlist-preview/internal/httputil"
	"github.com/lukman83/giftlist-preview/internal/preview"
)

// Config holds all application configuration.
type Config struct {
	// Preview
	FetchTimeout  time.Duration
	HardDeadline  time.Duration
	UserAgent     string
	MaxBodyBytes  int64
	MaxConcurrent int

	// Outbound
	RespectRobots bool
	RatePerSecond float64
	RateBurst     int
	ProxyURLs     []string

	// HTTP server
	HTTPPort string
	APIKey   string

	// Logging
	LogLevel  string
	LogFormat string // "json", "console"
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		FetchTimeout:  preview.DefaultFetchTimeout,
		HardDeadline:  preview.DefaultHardDeadline,
		UserAgent:     httputil.DefaultUserAgent,
		MaxBodyBytes:  preview.DefaultMaxBodyBytes,
		MaxConcurrent: preview.DefaultMaxConcurrent,
		RespectRobots: false,
		RatePerSecond: 5.0,
		RateBurst:     10,
		HTTPPort:      "8080",
		LogLevel:      "info",
		LogFormat:     "json",
	}
}

// LoadFromEnv loads .env file (if present) then overrides config from environment variables.
// Unparsable values are ignored and the current value kept.
func (c *Config) LoadFromEnv() {
	// Auto-load .env file; silently ignored if missing
	_ = godotenv.Load()

	if v := os.Getenv("GIFTLIST_FETCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.FetchTimeout = d
		}
	}
	if v := os.Getenv("GIFTLIST_HARD_DEADLINE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.HardDeadline = d
		}
	}
	if v := os.Getenv("GIFTLIST_USER_AGENT"); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv("GIFTLIST_MAX_BODY_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.MaxBodyBytes = n
		}
	}
	if v := os.Getenv("GIFTLIST_MAX_CONCURRENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxConcurrent = n
		}
	}
	if v := os.Getenv("GIFTLIST_RESPECT_ROBOTS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.RespectRobots = b
		}
	}
	if v := os.Getenv("GIFTLIST_RATE_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RatePerSecond = f
		}
	}
	if v := os.Getenv("GIFTLIST_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateBurst = n
		}
	}
	if v := os.Getenv("GIFTLIST_PROXIES"); v != "" {
		c.ProxyURLs = splitList(v)
	}
	if v := os.Getenv("PORT"); v != "" {
		c.HTTPPort = v
	}
	if v := os.Getenv("GIFTLIST_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("GIFTLIST_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("GIFTLIST_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
}

// deadlineMargin is how far HardDeadline is kept above FetchTimeout.
const deadlineMargin = time.Second

// ClampDeadlines raises HardDeadline to FetchTimeout+1s when it does not
// exceed FetchTimeout, so the fetch timeout can still fire first.
// It reports whether the value was changed.
func (c *Config) ClampDeadlines() bool {
	if c.FetchTimeout <= 0 || c.HardDeadline > c.FetchTimeout {
		return false
	}
	c.HardDeadline = c.FetchTimeout + deadlineMargin
	return true
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
