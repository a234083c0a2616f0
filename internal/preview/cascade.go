package preview

import (
	"net/url"
	"strings"

	"github.com/lukman83/giftlist-preview/internal/models"
)

type titleTier struct {
	source models.TitleSource
	pick   func(*document) string
}

type imageTier struct {
	source models.ImageSource
	pick   func(*document) string
}

func fromMeta(key string) func(*document) string {
	return func(d *document) string { return d.metaContent(key) }
}

var titleTiers = []titleTier{
	{models.TitleOG, fromMeta("og:title")},
	{models.TitleTwitter, fromMeta("twitter:title")},
	{models.TitleTag, func(d *document) string { return d.title }},
}

var imageTiers = []imageTier{
	{models.ImageOG, fromMeta("og:image")},
	{models.ImageTwitter, fromMeta("twitter:image")},
}

var descriptionKeys = []string{"og:description", "twitter:description", "description"}

// Tried in order until one parses.
var priceMetaKeys = []string{
	"product:price:amount",
	"og:price:amount",
	"product:price",
	"og:price",
	"twitter:data1",
}

var currencyMetaKeys = []string{"product:price:currency", "og:price:currency"}

// extract runs every cascade over d. pageURL is the fetched page location
// used to resolve relative images; cleanURL is what the result reports.
func extract(d *document, pageURL *url.URL, cleanURL string) *models.Preview {
	p := &models.Preview{
		URL: cleanURL,
		Source: models.Source{
			Title: models.TitleFallback,
			Image: models.ImageNone,
			Price: models.PriceNone,
		},
	}

	p.Title = hostFallback(cleanURL)
	for _, tier := range titleTiers {
		if v := tier.pick(d); v != "" {
			p.Title, p.Source.Title = v, tier.source
			break
		}
	}

	for _, tier := range imageTiers {
		if v := tier.pick(d); v != "" {
			img := resolveReference(pageURL, v)
			p.Image, p.Source.Image = &img, tier.source
			break
		}
	}

	for _, key := range descriptionKeys {
		if v := d.metaContent(key); v != "" {
			p.Description = v
			break
		}
	}
	p.SiteName = d.metaContent("og:site_name")

	extractPrice(d, p)

	return p
}

func extractPrice(d *document, p *models.Preview) {
	var currency string
	for _, key := range currencyMetaKeys {
		if v := d.metaContent(key); v != "" {
			currency = strings.ToUpper(v)
			break
		}
	}

	if price, ok := metaPrice(d); ok {
		p.Price, p.Source.Price = &price, models.PriceMeta
	} else if offer, ok := findJSONLDOffer(d.jsonLD); ok {
		p.Price, p.Source.Price = &offer.Price, models.PriceJSONLD
		if offer.Currency != "" {
			currency = offer.Currency
		}
	}

	if currency != "" {
		p.Currency = &currency
	}
}

func metaPrice(d *document) (float64, bool) {
	for _, key := range priceMetaKeys {
		if price, ok := ParsePriceString(d.metaContent(key)); ok {
			return price, true
		}
	}
	return 0, false
}

// resolveReference makes ref absolute against base, returning ref unchanged
// when either side cannot be parsed.
func resolveReference(base *url.URL, ref string) string {
	if base == nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(r).String()
}
