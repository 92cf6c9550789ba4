package content

import (
	"slices"
	"sort"
	"strings"
)

// Index answers read-only queries over one Snapshot.
type Index struct {
	posts   []Post // non-draft, date descending, stable
	bySlug  map[string]int
	authors []Author // name ascending, case-insensitive
	byID    map[string]int
}

// NewIndex builds an Index over snap. The snapshot's slices are copied, so
// later changes by the caller do not leak into the index.
func NewIndex(snap Snapshot) *Index {
	ix := &Index{
		bySlug: make(map[string]int),
		byID:   make(map[string]int),
	}

	for _, p := range snap.Posts {
		if p.Draft {
			continue
		}
		ix.posts = append(ix.posts, p)
	}
	sort.SliceStable(ix.posts, func(i, j int) bool {
		return ix.posts[i].Date.After(ix.posts[j].Date)
	})
	for i, p := range ix.posts {
		if _, ok := ix.bySlug[p.Slug]; !ok {
			ix.bySlug[p.Slug] = i
		}
	}

	ix.authors = slices.Clone(snap.Authors)
	sort.SliceStable(ix.authors, func(i, j int) bool {
		return strings.ToLower(ix.authors[i].Name) < strings.ToLower(ix.authors[j].Name)
	})
	for i, a := range ix.authors {
		if _, ok := ix.byID[a.Slug]; !ok {
			ix.byID[a.Slug] = i
		}
	}
	return ix
}

// ListPosts returns every non-draft post, newest first. Undated posts sort
// last; posts with equal dates keep their snapshot order.
func (ix *Index) ListPosts() []Post {
	return slices.Clone(ix.posts)
}

// GetPost returns the non-draft post whose slug equals slug exactly.
func (ix *Index) GetPost(slug string) (Post, bool) {
	i, ok := ix.bySlug[slug]
	if !ok {
		return Post{}, false
	}
	return ix.posts[i], true
}

// ListAuthors returns all authors ordered by name.
func (ix *Index) ListAuthors() []Author {
	return slices.Clone(ix.authors)
}

// GetAuthor returns the author with the given slug.
func (ix *Index) GetAuthor(slug string) (Author, bool) {
	i, ok := ix.byID[slug]
	if !ok {
		return Author{}, false
	}
	return ix.authors[i], true
}

// PostsByAuthor returns the posts listing authorSlug, newest first.
func (ix *Index) PostsByAuthor(authorSlug string) []Post {
	var out []Post
	for _, p := range ix.posts {
		if slices.Contains(p.Authors, authorSlug) {
			out = append(out, p)
		}
	}
	return out
}

// PostsByTag returns the posts carrying a tag that slugifies to tagSlug,
// newest first.
func (ix *Index) PostsByTag(tagSlug string) []Post {
	if tagSlug == "" {
		return nil
	}
	var out []Post
	for _, p := range ix.posts {
		for _, t := range p.Tags {
			if Slugify(t) == tagSlug {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// TagCounts maps every tag slug to the number of non-draft posts carrying
// it. A post tagged with two variants of one slug counts once.
func (ix *Index) TagCounts() map[string]int {
	counts := make(map[string]int)
	for _, p := range ix.posts {
		for _, s := range p.TagSlugs() {
			counts[s]++
		}
	}
	return counts
}

// AuthorCounts maps every author slug to its post count. Posts without
// authors are counted under DefaultAuthor.
func (ix *Index) AuthorCounts() map[string]AuthorCount {
	counts := make(map[string]AuthorCount)
	for _, p := range ix.posts {
		authors := p.Authors
		if len(authors) == 0 {
			authors = []string{DefaultAuthor}
		}
		for _, slug := range authors {
			c, ok := counts[slug]
			if !ok {
				c = AuthorCount{Slug: slug, Name: slug}
				if a, found := ix.GetAuthor(slug); found && a.Name != "" {
					c.Name = a.Name
				}
			}
			c.Count++
			counts[slug] = c
		}
	}
	return counts
}

// Neighbors returns the posts around slug in ListPosts order: newer is the
// post listed before it, older the one listed after. Either may be nil.
func (ix *Index) Neighbors(slug string) (newer, older *Post) {
	i, ok := ix.bySlug[slug]
	if !ok {
		return nil, nil
	}
	if i > 0 {
		p := ix.posts[i-1]
		newer = &p
	}
	if i < len(ix.posts)-1 {
		p := ix.posts[i+1]
		older = &p
	}
	return newer, older
}

// SortTagCounts orders counts for display: count descending, then slug.
func SortTagCounts(counts map[string]int) []TagCount {
	out := make([]TagCount, 0, len(counts))
	for slug, n := range counts {
		out = append(out, TagCount{Slug: slug, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Slug < out[j].Slug
	})
	return out
}

// SortAuthorCounts orders counts for display: count descending, then slug.
func SortAuthorCounts(counts map[string]AuthorCount) []AuthorCount {
	out := make([]AuthorCount, 0, len(counts))
	for _, c := range counts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Slug < out[j].Slug
	})
	return out
}
