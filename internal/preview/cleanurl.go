package preview

import (
	"fmt"
	"net/url"
	"strings"
)

// trackingParams are marketing/click-tracking query keys dropped from shared links.
var trackingParams = map[string]struct{}{
	"fbclid":       {},
	"gclid":        {},
	"dclid":        {},
	"msclkid":      {},
	"igshid":       {},
	"mc_cid":       {},
	"mc_eid":       {},
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
}

// CleanTrackingParams strips tracking query parameters from rawURL.
// Remaining parameters keep their order and original encoding; path and
// fragment are untouched. Input that is not an absolute URL is an error.
func CleanTrackingParams(rawURL string) (string, error) {
	u, err := parseAbsolute(rawURL)
	if err != nil {
		return "", err
	}
	if u.RawQuery == "" {
		return u.String(), nil
	}

	// url.Values re-sorts keys on Encode, so filter the raw pairs instead.
	pairs := strings.Split(u.RawQuery, "&")
	kept := pairs[:0]
	for _, pair := range pairs {
		key, _, _ := strings.Cut(pair, "=")
		if k, err := url.QueryUnescape(key); err == nil {
			key = k
		}
		if _, drop := trackingParams[key]; drop {
			continue
		}
		kept = append(kept, pair)
	}
	u.RawQuery = strings.Join(kept, "&")

	return u.String(), nil
}

func parseAbsolute(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse url %q: not an absolute URL", rawURL)
	}
	return u, nil
}

// hostFallback derives a display title from a URL's host, without a leading "www.".
func hostFallback(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return strings.TrimSpace(rawURL)
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
