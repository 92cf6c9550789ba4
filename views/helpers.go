package views

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/eringen/engblog/content"
)

// FormatDate renders a publication date the way listings show it. Undated
// posts render as an empty string.
func FormatDate(t time.Time, locale string) string {
	if t.IsZero() {
		return ""
	}
	switch strings.ToLower(locale) {
	case "en-gb", "de-de", "fr-fr", "es-es", "it-it", "nl-nl":
		return t.Format("2 January 2006")
	default:
		return t.Format("January 2, 2006")
	}
}

// TrimString shortens s to at most n runes, cutting at a word boundary and
// appending an ellipsis when anything was removed.
func TrimString(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	cut := string([]rune(s)[:n])
	if i := strings.LastIndexByte(cut, ' '); i > n/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "..."
}

// TagClass returns CSS classes for a tag pill, with active variant.
func TagClass(active bool) string {
	if active {
		return "tag tag-active"
	}
	return "tag"
}

// tagHref links a tag label to its listing page.
func tagHref(tag string) string {
	return "/tags/" + content.Slugify(tag) + "/"
}

func pageHref(page int) string {
	if page <= 1 {
		return "/"
	}
	return "/blog/page/" + strconv.Itoa(page) + "/"
}

// postHref is the public path of a post; slugs may contain "/".
func postHref(p content.Post) string {
	return p.Link() + "/"
}
