package models

// TitleSource tags which tier of the title cascade produced Preview.Title.
type TitleSource string

const (
	TitleOG       TitleSource = "og"
	TitleTwitter  TitleSource = "twitter"
	TitleTag      TitleSource = "title"
	TitleFallback TitleSource = "fallback"
)

// ImageSource tags which tier of the image cascade produced Preview.Image.
type ImageSource string

const (
	ImageOG      ImageSource = "og"
	ImageTwitter ImageSource = "twitter"
	ImageNone    ImageSource = "none"
)

// PriceSource tags where Preview.Price came from.
type PriceSource string

const (
	PriceMeta   PriceSource = "meta"
	PriceJSONLD PriceSource = "jsonld"
	PriceNone   PriceSource = "none"
)

type Source struct {
	Title TitleSource `json:"title"`
	Image ImageSource `json:"image"`
	Price PriceSource `json:"price"`
}

// Preview is the link preview built for a single URL.
// Nil pointer fields serialize as JSON null.
type Preview struct {
	Title       string   `json:"title"`
	Image       *string  `json:"image"`
	Price       *float64 `json:"price"`
	Currency    *string  `json:"currency"`
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	SiteName    string   `json:"siteName,omitempty"`
	Source      Source   `json:"source"`
}

// HasPrice reports whether a price was extracted.
func (p *Preview) HasPrice() bool {
	return p.Price != nil
}
