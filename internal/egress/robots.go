package egress

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

const maxRobotsBytes = 512 << 10

// RobotsChecker caches and checks robots.txt rules per origin.
type RobotsChecker struct {
	rules    map[string]*robotstxt.RobotsData
	expiry   map[string]time.Time
	mu       sync.RWMutex
	client   *http.Client
	cacheTTL time.Duration
	enabled  bool
}

// NewRobotsChecker creates a new robots.txt checker. client must not use a
// Transport that itself consults the checker.
func NewRobotsChecker(client *http.Client, enabled bool) *RobotsChecker {
	return &RobotsChecker{
		rules:    make(map[string]*robotstxt.RobotsData),
		expiry:   make(map[string]time.Time),
		client:   client,
		cacheTTL: 1 * time.Hour,
		enabled:  enabled,
	}
}

// IsAllowed checks if u may be fetched by userAgent. Requests for
// robots.txt itself, and origins whose robots.txt cannot be fetched, are allowed.
func (r *RobotsChecker) IsAllowed(ctx context.Context, userAgent string, u *url.URL) (bool, error) {
	if !r.enabled || u.Path == "/robots.txt" {
		return true, nil
	}

	origin := u.Scheme + "://" + u.Host
	data, err := r.getRobots(ctx, origin)
	if err != nil {
		return true, nil
	}

	return data.TestAgent(u.EscapedPath(), userAgent), nil
}

func (r *RobotsChecker) getRobots(ctx context.Context, origin string) (*robotstxt.RobotsData, error) {
	r.mu.RLock()
	data, ok := r.rules[origin]
	exp := r.expiry[origin]
	r.mu.RUnlock()

	if ok && time.Now().Before(exp) {
		return data, nil
	}

	// Fetched without holding the lock; concurrent misses for one origin
	// may both fetch, and the last write wins.
	data, err := r.fetch(ctx, origin)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.rules[origin] = data
	r.expiry[origin] = time.Now().Add(r.cacheTTL)
	r.mu.Unlock()
	return data, nil
}

func (r *RobotsChecker) fetch(ctx context.Context, origin string) (*robotstxt.RobotsData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build robots.txt request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBytes))
	if err != nil {
		return nil, fmt.Errorf("read robots.txt: %w", err)
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}
	return data, nil
}
