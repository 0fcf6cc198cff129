package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var deaccent = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify lowers the input, strips accents and collapses every run of
// non-alphanumeric characters into a single dash. Returns "" when nothing
// usable remains.
func Slugify(input string) string {
	s, _, err := transform.String(deaccent, input)
	if err != nil {
		s = input
	}
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	lastDash := true // suppress leading dash
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
