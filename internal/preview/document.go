package preview

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// document is the subset of a parsed HTML page the cascades read from.
type document struct {
	meta   map[string]string // lowercased property/name -> first non-empty content
	title  string
	jsonLD []string // raw ld+json script bodies in source order
}

// parseDocument parses HTML and indexes meta tags, <title> and JSON-LD scripts.
func parseDocument(r io.Reader) (*document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	d := &document{meta: make(map[string]string)}

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		key, ok := s.Attr("property")
		if !ok || strings.TrimSpace(key) == "" {
			key, ok = s.Attr("name")
		}
		if !ok {
			return
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			return
		}
		if _, seen := d.meta[key]; seen {
			return
		}
		content, _ := s.Attr("content")
		if content = collapseSpace(content); content != "" {
			d.meta[key] = content
		}
	})

	d.title = collapseSpace(doc.Find("title").First().Text())

	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		typ, _ := s.Attr("type")
		if !strings.EqualFold(strings.TrimSpace(typ), "application/ld+json") {
			return
		}
		if body := strings.TrimSpace(s.Text()); body != "" {
			d.jsonLD = append(d.jsonLD, body)
		}
	})

	return d, nil
}

// metaContent returns the content of the first non-empty meta tag named key.
func (d *document) metaContent(key string) string {
	return d.meta[strings.ToLower(key)]
}

// collapseSpace collapses runs of whitespace to a single space and trims.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
