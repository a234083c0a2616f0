package httputil

import "net/http"

// DefaultUserAgent identifies preview fetches to the sites being previewed.
const DefaultUserAgent = "Mozilla/5.0 (compatible; GiftlistPreview/1.0; link preview for shared wish-list items)"

// PreviewHeaders returns the fixed headers sent with every page fetch.
func PreviewHeaders(userAgent string) http.Header {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	h := http.Header{}
	h.Set("User-Agent", userAgent)
	h.Set("Accept", "text/html,application/xhtml+xml")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	// Set explicitly, so net/http will not decompress; ReadBody does.
	h.Set("Accept-Encoding", "gzip, br")
	return h
}
