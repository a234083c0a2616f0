package cmd

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/lukman83/giftlist-preview/internal/models"
	"github.com/mattn/go-runewidth"
)

const titleWidth = 60

// printPreviewsTable prints previews in a human-friendly card layout.
func printPreviewsTable(w io.Writer, previews []*models.Preview) {
	for i, p := range previews {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, " %d. %s  [%s]\n", i+1, runewidth.Truncate(p.Title, titleWidth, "..."), p.Source.Title)

		priceLine := "    Price: "
		if p.Price != nil {
			currency := ""
			if p.Currency != nil {
				currency = *p.Currency
			}
			priceLine += formatPrice(*p.Price, currency) + fmt.Sprintf("  [%s]", p.Source.Price)
		} else {
			priceLine += "-"
		}
		if p.SiteName != "" {
			priceLine += "  |  Shop: " + p.SiteName
		}
		fmt.Fprintln(w, priceLine)

		if p.Image != nil {
			fmt.Fprintf(w, "    Image: %s  [%s]\n", *p.Image, p.Source.Image)
		}
		fmt.Fprintf(w, "    %s\n", p.URL)
	}
}

// formatPrice formats a price as "CLP 19,990" or "USD 1,234.56".
func formatPrice(price float64, currency string) string {
	neg := price < 0
	price = math.Abs(price)

	intPart, fracPart, _ := strings.Cut(strconv.FormatFloat(price, 'f', 2, 64), ".")
	var parts []string
	for len(intPart) > 3 {
		parts = append([]string{intPart[len(intPart)-3:]}, parts...)
		intPart = intPart[:len(intPart)-3]
	}
	parts = append([]string{intPart}, parts...)
	out := strings.Join(parts, ",")
	if fracPart != "00" {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	if currency != "" {
		out = currency + " " + out
	}
	return out
}
