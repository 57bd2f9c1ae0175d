// Package slug turns display names into URL-safe ASCII identifiers.
//
// Breed names, seller names and elevage names routinely carry French
// accents ("Élevage de l'Atlas"); From strips them down to lowercase
// ASCII so callers can append their own uniqueness suffix.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reNonSlug = regexp.MustCompile(`[^a-z0-9-]+`)
	reHyphens = regexp.MustCompile(`-{2,}`)
)

// From lowercases s, replaces accented letters with their base letter and
// everything else non-alphanumeric with hyphens, then collapses hyphen
// runs. The result may be empty when s holds no usable characters.
func From(s string) string {
	// NFD splits accented letters into base letter + combining mark, then
	// the marks (category Mn) are dropped.
	deaccent := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	result, _, _ := transform.String(deaccent, s)

	result = strings.ToLower(result)
	result = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '-'
	}, result)

	// Letters outside a-z (ß, œ) survive the mapping above and are swept
	// out here together with any leftover punctuation.
	result = reNonSlug.ReplaceAllString(result, "-")
	result = reHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}
