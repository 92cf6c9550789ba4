// Package syndication turns an external RSS or Atom feed into blog posts so
// that syndicated articles are listed, tagged and served next to local ones.
package syndication

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"github.com/eringen/engblog/content"
)

// Source loads posts from a remote feed. It implements content.Source.
type Source struct {
	url        string
	sitePrefix string
	parser     *gofeed.Parser
	logger     *slog.Logger
	strict     *bluemonday.Policy
	ugc        *bluemonday.Policy
}

// Option configures a Source.
type Option func(*Source)

// WithSitePrefix strips prefix from item links before deriving slugs, so an
// item linking to prefix+"engineering/post-1" gets slug "engineering/post-1".
func WithSitePrefix(prefix string) Option {
	return func(s *Source) { s.sitePrefix = prefix }
}

// WithHTTPClient sets the client used to fetch the feed.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Source) { s.parser.Client = c }
}

// WithLogger sets the logger for skipped items.
func WithLogger(l *slog.Logger) Option {
	return func(s *Source) { s.logger = l }
}

// New returns a Source reading feedURL.
func New(feedURL string, opts ...Option) *Source {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConnsPerHost: 2,
		},
	}
	ugc := bluemonday.UGCPolicy()
	ugc.AllowImages()
	ugc.RequireNoReferrerOnLinks(true)

	s := &Source{
		url:    feedURL,
		parser: parser,
		logger: slog.Default(),
		strict: bluemonday.StrictPolicy(),
		ugc:    ugc,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches and converts the feed.
func (s *Source) Load(ctx context.Context) (content.Snapshot, error) {
	feed, err := s.parser.ParseURLWithContext(s.url, ctx)
	if err != nil {
		return content.Snapshot{}, fmt.Errorf("syndication: fetch %s: %w", s.url, err)
	}
	return content.Snapshot{Posts: s.Posts(feed)}, nil
}

// Posts converts feed items into posts, in feed order. Items without a
// usable slug or repeating an earlier slug are skipped.
func (s *Source) Posts(feed *gofeed.Feed) []content.Post {
	seen := make(map[string]struct{})
	posts := make([]content.Post, 0, len(feed.Items))
	for _, item := range feed.Items {
		p := s.post(item)
		if p.Slug == "" || p.Title == "" {
			s.logger.Warn("syndication: skipping item", "link", item.Link, "title", item.Title)
			continue
		}
		if _, dup := seen[p.Slug]; dup {
			s.logger.Debug("syndication: duplicate item", "slug", p.Slug)
			continue
		}
		seen[p.Slug] = struct{}{}
		posts = append(posts, p)
	}
	return posts
}

func (s *Source) post(item *gofeed.Item) content.Post {
	id := item.GUID
	if id == "" {
		id = item.Link
	}
	html := item.Content
	if html == "" {
		html = item.Description
	}
	p := content.Post{
		ID:           id,
		Slug:         s.slug(item),
		Title:        strings.TrimSpace(item.Title),
		Summary:      strings.TrimSpace(s.strict.Sanitize(item.Description)),
		Tags:         append([]string(nil), item.Categories...),
		CanonicalURL: item.Link,
		HTML:         s.ugc.Sanitize(html),
		Origin:       content.OriginFeed,
	}
	if item.PublishedParsed != nil {
		p.Date = item.PublishedParsed.UTC()
	}
	if item.UpdatedParsed != nil {
		p.Lastmod = item.UpdatedParsed.UTC()
	}
	if item.Image != nil && item.Image.URL != "" {
		p.Images = []string{item.Image.URL}
	}
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		p.Byline = item.Authors[0].Name
	}
	return p
}

func (s *Source) slug(item *gofeed.Item) string {
	link := strings.TrimSpace(item.Link)
	var rel string
	switch {
	case s.sitePrefix != "" && strings.HasPrefix(link, s.sitePrefix):
		rel = strings.TrimPrefix(link, s.sitePrefix)
	case link != "":
		if u, err := url.Parse(link); err == nil {
			rel = u.Path
		}
	}
	rel = strings.Trim(rel, "/")
	if i := strings.IndexAny(rel, "?#"); i >= 0 {
		rel = rel[:i]
	}
	if slug := content.SlugFromPath(rel); slug != "" {
		return slug
	}
	return content.Slugify(item.Title)
}
