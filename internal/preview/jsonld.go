package preview

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
)

// jsonLDOffer is the price found on a schema.org Product's offers.
type jsonLDOffer struct {
	Price    float64
	Currency string
}

// findJSONLDOffer scans ld+json blocks in source order and returns the first
// Product node whose offers carry a parseable price. Malformed blocks are skipped.
func findJSONLDOffer(blocks []string) (jsonLDOffer, bool) {
	for _, block := range blocks {
		data, ok := decodeJSONLD(block)
		if !ok {
			continue
		}
		for _, node := range jsonLDNodes(data) {
			if !isProductNode(node) {
				continue
			}
			if offer, ok := offerPrice(node["offers"]); ok {
				return offer, true
			}
		}
	}
	return jsonLDOffer{}, false
}

func decodeJSONLD(block string) (any, bool) {
	dec := json.NewDecoder(strings.NewReader(block))
	// Keep numeric literals as written so "19.90" and 19.90 parse alike.
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, false
	}
	// Anything after the first value makes the block malformed.
	if err := dec.Decode(new(json.RawMessage)); !errors.Is(err, io.EOF) {
		return nil, false
	}
	return data, true
}

// jsonLDNodes flattens a document (object or array, with optional @graph)
// into candidate nodes, preserving order.
func jsonLDNodes(data any) []map[string]any {
	var nodes []map[string]any
	var add func(v any)
	add = func(v any) {
		switch t := v.(type) {
		case map[string]any:
			nodes = append(nodes, t)
			if graph, ok := t["@graph"].([]any); ok {
				for _, g := range graph {
					add(g)
				}
			}
		case []any:
			for _, item := range t {
				add(item)
			}
		}
	}
	add(data)
	return nodes
}

func isProductNode(node map[string]any) bool {
	switch t := node["@type"].(type) {
	case string:
		return strings.Contains(strings.ToLower(t), "product")
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), "product") {
				return true
			}
		}
	}
	return false
}

func offerPrice(v any) (jsonLDOffer, bool) {
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return jsonLDOffer{}, false
		}
		v = list[0]
	}
	offer, ok := v.(map[string]any)
	if !ok {
		return jsonLDOffer{}, false
	}

	raw := scalarString(offer["price"])
	if raw == "" {
		raw = scalarString(offer["lowPrice"])
	}
	price, ok := ParsePriceString(raw)
	if !ok {
		return jsonLDOffer{}, false
	}
	return jsonLDOffer{
		Price:    price,
		Currency: strings.ToUpper(strings.TrimSpace(scalarString(offer["priceCurrency"]))),
	}, true
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		// Exponent forms would lose the "e" in ParsePriceString.
		if strings.ContainsAny(t.String(), "eE") {
			if f, err := t.Float64(); err == nil {
				return strconv.FormatFloat(f, 'f', -1, 64)
			}
		}
		return t.String()
	default:
		return ""
	}
}
