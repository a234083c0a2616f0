package httputil

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/andybalholm/brotli"
)

const maxRedirects = 10

// NewHTTPClient creates an HTTP client for page fetches.
// An optional RoundTripper (e.g. egress.Transport) can be injected.
func NewHTTPClient(transport http.RoundTripper, timeout time.Duration) *http.Client {
	if transport == nil {
		transport = NewBaseTransport()
	}
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
}

// NewBaseTransport returns the pooled transport used underneath any wrappers.
func NewBaseTransport() *http.Transport {
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 8 * time.Second,
	}
}

// ReadBody reads and decompresses an HTTP response body, keeping at most
// limit decoded bytes when limit > 0. Anything past the limit is discarded.
func ReadBody(resp *http.Response, limit int64) ([]byte, error) {
	var reader io.Reader
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "br":
		reader = brotli.NewReader(resp.Body)
	default:
		reader = resp.Body
	}
	if limit > 0 {
		reader = io.LimitReader(reader, limit)
	}

	body, err := io.ReadAll(reader)
	// A body cut short after some bytes arrived is still worth parsing.
	if err != nil && len(body) > 0 && errors.Is(err, io.ErrUnexpectedEOF) {
		return body, nil
	}
	return body, err
}
