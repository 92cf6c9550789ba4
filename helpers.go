package engblog

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/eringen/engblog/content"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// RelatedPosts returns up to limit posts sharing at least one tag with
// current, ordered by the number of shared tags and then by the input order.
func RelatedPosts(current content.Post, posts []content.Post, limit int) []content.Post {
	tagSet := make(map[string]struct{})
	for _, t := range current.TagSlugs() {
		tagSet[t] = struct{}{}
	}
	if len(tagSet) == 0 {
		return nil
	}

	type scored struct {
		post   content.Post
		shared int
	}
	var candidates []scored
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		n := 0
		for _, t := range p.TagSlugs() {
			if _, ok := tagSet[t]; ok {
				n++
			}
		}
		if n > 0 {
			candidates = append(candidates, scored{p, n})
		}
	}
	// stable insertion sort; candidate lists are short
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].shared > candidates[j-1].shared; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	related := make([]content.Post, len(candidates))
	for i, c := range candidates {
		related[i] = c.post
	}
	return related
}

// PathEscape escapes each segment of a slug for use in a URL path.
func PathEscape(s string) string {
	parts := strings.Split(s, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema using SiteConfig.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        cfg.Name,
		"url":         BuildURL(cfg.URL),
		"description": cfg.Description,
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	return marshalJsonLD(data)
}

// BlogPostingJsonLD returns a JSON-LD string for a BlogPosting schema.
// Authors are the resolved author records of the post.
func BlogPostingJsonLD(post content.Post, authors []content.Author, cfg SiteConfig) string {
	postURL := BuildURL(cfg.URL, "blog", post.Slug)
	if post.CanonicalURL != "" {
		postURL = post.CanonicalURL
	}
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "BlogPosting",
		"headline":    post.Title,
		"description": post.Summary,
		"url":         postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if post.HasDate() {
		data["datePublished"] = post.Date.Format(time.RFC3339)
		data["dateModified"] = post.Updated().Format(time.RFC3339)
	}
	var people []map[string]string
	for _, a := range authors {
		people = append(people, map[string]string{
			"@type": "Person",
			"name":  a.Name,
			"url":   BuildURL(cfg.URL, "about", a.Slug),
		})
	}
	switch {
	case len(people) > 0:
		data["author"] = people
	case cfg.Author != "":
		data["author"] = map[string]string{"@type": "Person", "name": cfg.Author}
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		}
	}
	if len(post.Images) > 0 {
		data["image"] = post.Images
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	return marshalJsonLD(data)
}

// PersonJsonLD returns a JSON-LD string for an author profile.
func PersonJsonLD(a content.Author, cfg SiteConfig) string {
	data := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Person",
		"name":     a.Name,
		"url":      BuildURL(cfg.URL, "about", a.Slug),
	}
	if a.Occupation != "" {
		data["jobTitle"] = a.Occupation
	}
	if a.Company != "" {
		data["worksFor"] = map[string]string{"@type": "Organization", "name": a.Company}
	}
	if same := FilterEmpty([]string{a.GitHub, a.Twitter, a.LinkedIn, a.StackOverflow, a.URL}); len(same) > 0 {
		data["sameAs"] = same
	}
	return marshalJsonLD(data)
}

func marshalJsonLD(data map[string]any) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
