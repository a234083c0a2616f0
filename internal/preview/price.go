package preview

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var nonPriceChars = regexp.MustCompile(`[^0-9.,]`)

// ParsePriceString turns a loosely formatted price ("$1,234.56", "1.234,56 €")
// into a number. The later of the last '.' or ',' is the decimal point only
// when exactly two characters follow it; otherwise every separator is a
// thousands separator. The bool is false when nothing numeric remains.
func ParsePriceString(raw string) (float64, bool) {
	s := nonPriceChars.ReplaceAllString(raw, "")
	if s == "" {
		return 0, false
	}

	sep := max(strings.LastIndex(s, "."), strings.LastIndex(s, ","))

	var normalized string
	if sep >= 0 && len(s)-sep-1 == 2 {
		normalized = stripSeparators(s[:sep]) + "." + s[sep+1:]
	} else {
		normalized = stripSeparators(s)
	}
	if normalized == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(normalized, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func stripSeparators(s string) string {
	return strings.NewReplacer(".", "", ",", "").Replace(s)
}
