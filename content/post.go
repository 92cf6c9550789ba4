// Package content holds the blog's content model and the index that answers
// every listing and lookup query the site needs: posts sorted by date, posts by
// author or tag, tag and author counts, and pagination.
//
// An Index is built from an immutable Snapshot. It never mutates after
// construction, so a single Index may be shared by any number of goroutines.
package content

import "time"

// DefaultAuthor is the author bucket for posts that list no authors.
const DefaultAuthor = "default"

// Origins identify which Source produced a record.
const (
	OriginDir  = "dir"
	OriginDB   = "db"
	OriginFeed = "feed"
)

// Post is a single blog entry.
type Post struct {
	ID           string
	Slug         string
	Title        string
	Summary      string
	Date         time.Time // zero when the post has no date
	Lastmod      time.Time
	Draft        bool
	Authors      []string // author slugs, in display order
	Tags         []string // free text, slugified on aggregation
	Images       []string
	Layout       string
	CanonicalURL string

	// Body is the raw Markdown/MDX body. HTML is set instead for records whose
	// source already delivers sanitized HTML (syndicated entries).
	Body string
	HTML string

	// Byline is a free-text author name for records without author slugs.
	Byline string
	Origin string
}

// Link returns the site-relative URL of the post.
func (p Post) Link() string {
	return "/blog/" + p.Slug
}

// HasDate reports whether the post carries a publication date.
func (p Post) HasDate() bool {
	return !p.Date.IsZero()
}

// Updated returns Lastmod when set, Date otherwise.
func (p Post) Updated() time.Time {
	if !p.Lastmod.IsZero() {
		return p.Lastmod
	}
	return p.Date
}

// TagSlugs returns the slugified tags of p, in order, without duplicates.
// Tags that slugify to nothing are dropped.
func (p Post) TagSlugs() []string {
	seen := make(map[string]struct{}, len(p.Tags))
	out := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		s := Slugify(t)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Author is a contributor profile.
type Author struct {
	Slug          string
	Name          string
	Avatar        string
	Occupation    string
	Company       string
	Email         string
	Twitter       string
	LinkedIn      string
	GitHub        string
	StackOverflow string
	URL           string
	Body          string
	Origin        string
}

// Link returns the site-relative URL of the author page.
func (a Author) Link() string {
	return "/about/" + a.Slug
}

// Snapshot is the full, already-validated content of the site at one point
// in time.
type Snapshot struct {
	Posts   []Post
	Authors []Author
}

// TagCount is one entry of a tag listing.
type TagCount struct {
	Slug  string
	Count int
}

// AuthorCount is one entry of an author listing. Name falls back to the slug
// when no Author record matches.
type AuthorCount struct {
	Slug  string
	Name  string
	Count int
}
