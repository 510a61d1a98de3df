package product

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slug lower-cases s, drops accents and joins its words with dashes.
func Slug(s string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(s) {
		if !unicode.Is(unicode.Mn, r) {
			b.WriteRune(r)
		}
	}
	fields := strings.FieldsFunc(strings.ToLower(b.String()), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, "-")
}

// FileName names an output of a product render, e.g.
// "acme-tee-print-front-full". kind is "mockup" or "print".
func FileName(productID, kind, placement string) string {
	parts := []string{}
	for _, p := range []string{productID, kind, placement} {
		if s := Slug(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "-")
}
