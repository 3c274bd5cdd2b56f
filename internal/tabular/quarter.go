package tabular

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// numericPrefix matches the leading number of a cleaned cell. Anything after
// it is ignored, so "1.5 pts" parses as 1.5.
var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// invisibles are stripped from numeric cells in addition to unicode spaces.
var invisibles = strings.NewReplacer(
	"\u200b", "", // zero width space
	"\u200c", "", // zero width non-joiner
	"\u200d", "", // zero width joiner
	"\u2060", "", // word joiner
	"\ufeff", "", // stray BOM
)

// ParseQuarter parses a cost cell and rounds it to the nearest 0.25.
//
// Empty cells, "-" and an em dash (U+2014) are zero. When both ',' and '.'
// appear, whichever comes last is the decimal point and the other is a
// thousands separator. A lone ',' is always a decimal point, so "1,234"
// reads as 1.234 (then 1.25). Negative, non-finite and unparseable values
// clamp to zero.
func ParseQuarter(s string) float64 {
	s = invisibles.Replace(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.Is(unicode.Zs, r) {
			return -1
		}
		return r
	}, s)

	switch s {
	case "", "-", "\u2014":
		return 0
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		s = strings.ReplaceAll(s, ",", ".")
	}

	m := numericPrefix.FindString(s)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	q := math.Round(v*4) / 4
	if math.IsInf(q, 0) {
		return 0
	}
	return q
}

// FormatCost renders a cost the way the exporter writes it: shortest
// representation, no exponent, '.' as decimal point.
func FormatCost(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
