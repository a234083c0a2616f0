package egress

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// ProxyProvider abstracts a proxy backend.
type ProxyProvider interface {
	Transport() http.RoundTripper
	Name() string
}

// ProxyRotator cycles through multiple proxy providers.
type ProxyRotator struct {
	providers []ProxyProvider
	mu        sync.Mutex
	idx       int
}

// NewProxyRotator creates a rotator from a list of providers.
// Returns nil if no providers are given.
func NewProxyRotator(providers []ProxyProvider) *ProxyRotator {
	if len(providers) == 0 {
		return nil
	}
	return &ProxyRotator{providers: providers}
}

// Next returns the next proxy provider in round-robin order.
func (p *ProxyRotator) Next() ProxyProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	provider := p.providers[p.idx%len(p.providers)]
	p.idx++
	return provider
}

// HTTPProxyProvider routes through a single HTTP(S) or SOCKS5 proxy URL.
type HTTPProxyProvider struct {
	proxyURL  *url.URL
	transport http.RoundTripper
	once      sync.Once
}

// NewHTTPProxyProvider validates rawURL and returns a provider for it.
func NewHTTPProxyProvider(rawURL string) (*HTTPProxyProvider, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("parse proxy url: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "socks5":
	default:
		return nil, fmt.Errorf("proxy %q: unsupported scheme %q", u.Redacted(), u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("proxy %q: missing host", u.Redacted())
	}
	return &HTTPProxyProvider{proxyURL: u}, nil
}

// Name returns the proxy URL with any password masked.
func (h *HTTPProxyProvider) Name() string { return h.proxyURL.Redacted() }

func (h *HTTPProxyProvider) Transport() http.RoundTripper {
	h.once.Do(func() {
		h.transport = &http.Transport{
			Proxy:               http.ProxyURL(h.proxyURL),
			MaxIdleConnsPerHost: 4,
		}
	})
	return h.transport
}

// ParseProxyList builds providers from proxy URLs, skipping blanks.
func ParseProxyList(urls []string) ([]ProxyProvider, error) {
	var providers []ProxyProvider
	for _, raw := range urls {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		p, err := NewHTTPProxyProvider(raw)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, nil
}
