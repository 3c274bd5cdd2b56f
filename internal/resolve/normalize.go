package resolve

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds a label into its comparison key: lowercase, decomposed,
// stripped of combining marks, whitespace and separators, and finally of
// anything outside [a-z0-9].
//
//	Normalize("Dr. Ratio")  == "drratio"
//	Normalize("Pokémon")    == "pokemon"
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsSpace(r) || unicode.Is(unicode.Z, r) {
			continue
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// fold is the exact-match key: trimmed and lowercased, nothing else.
func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
