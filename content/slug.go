package content

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	reSlugStrip  = regexp.MustCompile(`[^a-z0-9 -]`)
	reSlugSpaces = regexp.MustCompile(`\s+`)
	reSlugDashes = regexp.MustCompile(`-+`)

	slugSeparators = strings.NewReplacer("·", "-", "/", "-", "_", "-", ",", "-", ":", "-", ";", "-")
)

// Slugify normalizes s into a URL path segment. It is used for tag buckets
// and for legacy title-derived post slugs, so its output must stay stable:
//
//	"Open Source" -> "open-source"
//	"Ça va, señor" -> "ca-va-senor"
//
// Slugify is idempotent.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.TrimSpace(s)
	s = transliterate(s)
	s = slugSeparators.Replace(s)
	s = reSlugStrip.ReplaceAllString(s, "")
	s = reSlugSpaces.ReplaceAllString(s, "-")
	return reSlugDashes.ReplaceAllString(s, "-")
}

// transliterate drops combining marks after canonical decomposition, which
// maps accented Latin letters onto their ASCII base (à -> a, ñ -> n, ç -> c).
func transliterate(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
