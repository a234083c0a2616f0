package egress

import (
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// ErrRobotsDisallowed is returned when robots.txt forbids fetching a URL.
var ErrRobotsDisallowed = errors.New("blocked by robots.txt")

// Transport is an http.RoundTripper applying the outbound pipeline:
// RobotsCheck → RateLimiter → Proxy → Send. Each redirect hop passes through it.
type Transport struct {
	Base        http.RoundTripper
	Robots      *RobotsChecker
	Proxy       *ProxyRotator
	RateLimiter *rate.Limiter
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	// 1. Check robots.txt
	if t.Robots != nil {
		allowed, err := t.Robots.IsAllowed(req.Context(), req.Header.Get("User-Agent"), req.URL)
		if err == nil && !allowed {
			return nil, fmt.Errorf("%w: %s", ErrRobotsDisallowed, req.URL.Path)
		}
	}

	// 2. Wait for rate limiter token
	if t.RateLimiter != nil {
		if err := t.RateLimiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	// 3. Route through proxy if configured
	transport := t.Base
	if t.Proxy != nil {
		transport = t.Proxy.Next().Transport()
	}
	if transport == nil {
		transport = http.DefaultTransport
	}

	return transport.RoundTrip(req)
}

// NewLimiter returns a limiter for rps requests per second, or nil when
// rps is not positive (unlimited).
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}
