// Package slug turns titles into URL-safe path segments.
package slug

import (
	"regexp"
	"strings"

	gosimple "github.com/gosimple/slug"
)

const delimiter = "-"

var (
	nonSlugChars   = regexp.MustCompile(`[^a-z0-9]+`)
	validSlugShape = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// Make lower-cases text, transliterates it to ASCII and joins the remaining
// alphanumeric runs with "-". Punctuation-only input yields "".
func Make(text string) string {
	s := gosimple.MakeLang(text, "en")
	s = nonSlugChars.ReplaceAllString(strings.ToLower(s), delimiter)
	return strings.Trim(s, delimiter)
}

// Valid reports whether s is already in canonical slug form.
func Valid(s string) bool {
	return validSlugShape.MatchString(s)
}
