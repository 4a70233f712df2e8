package enums

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold reduces a wire code to a comparison key: trimmed, case-folded and
// stripped of combining accents, so "Occupée", "occupee" and " OCCUPÉE "
// all fold to the same key.
func Fold(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), cases.Fold(), norm.NFC)
	folded, _, err := transform.String(t, trimmed)
	if err != nil {
		return strings.ToLower(trimmed)
	}
	return strings.Join(strings.Fields(folded), " ")
}

// Equal reports whether two wire codes denote the same value.
func Equal(a, b string) bool {
	return Fold(a) == Fold(b)
}
