package preview

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/lukman83/giftlist-preview/internal/httputil"
	"golang.org/x/net/html/charset"
)

// DefaultMaxBodyBytes caps how much of a page is read for extraction.
const DefaultMaxBodyBytes int64 = 2 << 20

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Code)
}

// Page is a fetched HTML page.
type Page struct {
	URL         *url.URL // final location after redirects
	ContentType string
	Body        []byte // decoded to UTF-8
}

type FetcherConfig struct {
	UserAgent    string
	MaxBodyBytes int64
}

// Fetcher issues the single GET behind every preview.
type Fetcher struct {
	client  *http.Client
	headers http.Header
	maxBody int64
}

func NewFetcher(client *http.Client, cfg FetcherConfig) *Fetcher {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Fetcher{
		client:  client,
		headers: httputil.PreviewHeaders(cfg.UserAgent),
		maxBody: cfg.MaxBodyBytes,
	}
}

// Fetch performs one GET without retries. Non-2xx statuses return *StatusError.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range f.headers {
		req.Header[k] = v
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, URL: pageURL}
	}

	raw, err := httputil.ReadBody(resp, f.maxBody)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	body, err := toUTF8(raw, contentType)
	if err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}

	final := resp.Request.URL
	if final == nil {
		final = req.URL
	}

	return &Page{URL: final, ContentType: contentType, Body: body}, nil
}

// toUTF8 transcodes body using the charset from contentType or the
// document's own <meta charset> declaration.
func toUTF8(body []byte, contentType string) ([]byte, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		// Unknown charset label: parse the bytes as they are.
		return body, nil
	}
	return io.ReadAll(r)
}
