package preview

import (
	"net/url"
	"strings"
	"testing"

	"github.com/lukman83/giftlist-preview/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extractHTML(t *testing.T, pageURL, body string) *models.Preview {
	t.Helper()

	base, err := url.Parse(pageURL)
	require.NoError(t, err)
	doc, err := parseDocument(strings.NewReader(body))
	require.NoError(t, err)
	return extract(doc, base, pageURL)
}

func TestExtract_TitleCascade(t *testing.T) {
	tests := []struct {
		name       string
		html       string
		wantTitle  string
		wantSource models.TitleSource
	}{
		{
			name:       "og title only",
			html:       `<html><head><meta property="og:title" content="Nice Mug"></head></html>`,
			wantTitle:  "Nice Mug",
			wantSource: models.TitleOG,
		},
		{
			name: "og beats twitter and title",
			html: `<html><head><title>Page</title>
				<meta name="twitter:title" content="Tweet Mug">
				<meta property="og:title" content="OG Mug"></head></html>`,
			wantTitle:  "OG Mug",
			wantSource: models.TitleOG,
		},
		{
			name: "twitter beats title",
			html: `<html><head><title>Page</title>
				<meta name="twitter:title" content="Tweet Mug"></head></html>`,
			wantTitle:  "Tweet Mug",
			wantSource: models.TitleTwitter,
		},
		{
			name:       "title tag whitespace collapsed",
			html:       "<html><head><title>\n  Cozy   Blanket \t| Shop\n</title></head></html>",
			wantTitle:  "Cozy Blanket | Shop",
			wantSource: models.TitleTag,
		},
		{
			name:       "empty og falls through",
			html:       `<html><head><meta property="og:title" content="   "><title>Real</title></head></html>`,
			wantTitle:  "Real",
			wantSource: models.TitleTag,
		},
		{
			name:       "attribute order and case",
			html:       `<html><head><META CONTENT="Upper Mug" PROPERTY="OG:Title"></head></html>`,
			wantTitle:  "Upper Mug",
			wantSource: models.TitleOG,
		},
		{
			name:       "no signals uses host",
			html:       `<html><head></head><body><h1>Hello</h1></body></html>`,
			wantTitle:  "shop.com",
			wantSource: models.TitleFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := extractHTML(t, "https://www.shop.com/item", tt.html)
			assert.Equal(t, tt.wantTitle, p.Title)
			assert.Equal(t, tt.wantSource, p.Source.Title)
		})
	}
}

func TestExtract_ImageCascade(t *testing.T) {
	tests := []struct {
		name       string
		html       string
		wantImage  string
		wantSource models.ImageSource
	}{
		{
			name:       "relative og image resolved",
			html:       `<meta property="og:image" content="/img/a.jpg">`,
			wantImage:  "https://shop.com/img/a.jpg",
			wantSource: models.ImageOG,
		},
		{
			name:       "absolute twitter image",
			html:       `<meta name="twitter:image" content="https://cdn.shop.com/b.png">`,
			wantImage:  "https://cdn.shop.com/b.png",
			wantSource: models.ImageTwitter,
		},
		{
			name:       "og beats twitter",
			html:       `<meta name="twitter:image" content="/t.png"><meta property="og:image" content="/o.png">`,
			wantImage:  "https://shop.com/o.png",
			wantSource: models.ImageOG,
		},
		{
			name:       "protocol-relative",
			html:       `<meta property="og:image" content="//cdn.shop.com/c.jpg">`,
			wantImage:  "https://cdn.shop.com/c.jpg",
			wantSource: models.ImageOG,
		},
		{
			name:       "unparsable reference kept raw",
			html:       `<meta property="og:image" content="http://[bad">`,
			wantImage:  "http://[bad",
			wantSource: models.ImageOG,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := extractHTML(t, "https://shop.com/item", "<html><head>"+tt.html+"</head></html>")
			require.NotNil(t, p.Image)
			assert.Equal(t, tt.wantImage, *p.Image)
			assert.Equal(t, tt.wantSource, p.Source.Image)
		})
	}

	t.Run("img tags are not scraped", func(t *testing.T) {
		p := extractHTML(t, "https://shop.com/item", `<html><body><img src="/x.jpg"></body></html>`)
		assert.Nil(t, p.Image)
		assert.Equal(t, models.ImageNone, p.Source.Image)
	})
}

func TestExtract_PriceMeta(t *testing.T) {
	html := `<html><head>
		<meta property="og:price:currency" content="usd">
		<meta property="product:price:amount" content="n/a">
		<meta property="og:price:amount" content="1,234.56">
		<meta name="twitter:data1" content="$5.00">
	</head></html>`

	p := extractHTML(t, "https://shop.com/item", html)
	require.NotNil(t, p.Price)
	assert.InDelta(t, 1234.56, *p.Price, 1e-9)
	require.NotNil(t, p.Currency)
	assert.Equal(t, "USD", *p.Currency)
	assert.Equal(t, models.PriceMeta, p.Source.Price)
}

func TestExtract_PriceTwitterData(t *testing.T) {
	p := extractHTML(t, "https://shop.com/item", `<meta name="twitter:data1" content="$19.99">`)
	require.NotNil(t, p.Price)
	assert.InDelta(t, 19.99, *p.Price, 1e-9)
	assert.Nil(t, p.Currency)
	assert.Equal(t, models.PriceMeta, p.Source.Price)
}

func TestExtract_PriceJSONLD(t *testing.T) {
	html := `<html><head>
		<script type="application/ld+json">{"@type":"Product","offers":{"price":"19.990","priceCurrency":"CLP"}}</script>
	</head></html>`

	p := extractHTML(t, "https://shop.com/item", html)
	require.NotNil(t, p.Price)
	assert.Equal(t, 19990.0, *p.Price)
	require.NotNil(t, p.Currency)
	assert.Equal(t, "CLP", *p.Currency)
	assert.Equal(t, models.PriceJSONLD, p.Source.Price)
}

func TestExtract_JSONLDCurrencyOverridesMetaOnlyWhenPresent(t *testing.T) {
	html := `<html><head>
		<meta property="product:price:currency" content="eur">
		<script type="application/ld+json">{"@type":"Product","offers":{"price":12}}</script>
	</head></html>`

	p := extractHTML(t, "https://shop.com/item", html)
	require.NotNil(t, p.Price)
	assert.Equal(t, 12.0, *p.Price)
	require.NotNil(t, p.Currency)
	assert.Equal(t, "EUR", *p.Currency)
}

func TestExtract_NoPrice(t *testing.T) {
	p := extractHTML(t, "https://shop.com/item", `<html><head><title>Thing</title></head></html>`)
	assert.Nil(t, p.Price)
	assert.Nil(t, p.Currency)
	assert.Equal(t, models.PriceNone, p.Source.Price)
	assert.Equal(t, "https://shop.com/item", p.URL)
}

func TestExtract_DescriptionAndSiteName(t *testing.T) {
	html := `<html><head>
		<meta name="description" content="plain">
		<meta property="og:description" content="  Soft,   warm  ">
		<meta property="og:site_name" content="Blanket Co">
	</head></html>`

	p := extractHTML(t, "https://shop.com/item", html)
	assert.Equal(t, "Soft, warm", p.Description)
	assert.Equal(t, "Blanket Co", p.SiteName)
}
