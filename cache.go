package engblog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/a-h/templ"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/eringen/engblog/content"
	"github.com/eringen/engblog/markdown"
)

// IndexCache holds the current content index and rebuilds it from its source
// when the TTL expires or after Invalidate. A failed rebuild keeps serving
// the previous index.
type IndexCache struct {
	mu      sync.RWMutex
	index   *content.Index
	fetched time.Time
	stale   bool
	ttl     time.Duration
	source  content.Source
	logger  *slog.Logger

	bodies *lru.Cache[string, string]
}

// bodyCacheSize bounds the number of rendered post and author bodies kept.
const bodyCacheSize = 512

// NewIndexCache creates an IndexCache backed by src.
func NewIndexCache(src content.Source, ttl time.Duration, logger *slog.Logger) *IndexCache {
	if logger == nil {
		logger = slog.Default()
	}
	bodies, _ := lru.New[string, string](bodyCacheSize)
	return &IndexCache{source: src, ttl: ttl, logger: logger, bodies: bodies}
}

func (c *IndexCache) valid() bool {
	return c.index != nil && !c.stale && time.Since(c.fetched) < c.ttl
}

// Invalidate marks the index stale so the next read rebuilds it.
func (c *IndexCache) Invalidate() {
	c.mu.Lock()
	c.stale = true
	c.mu.Unlock()
}

func (c *IndexCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	start := time.Now()
	snap, err := c.source.Load(ctx)
	if err != nil {
		if c.index == nil {
			return err
		}
		// Retry after another TTL or the next Invalidate.
		c.logger.Error("content reload failed, serving previous index", "error", err)
		c.fetched = time.Now()
		c.stale = false
		return nil
	}
	c.index = content.NewIndex(snap)
	c.fetched = time.Now()
	c.stale = false
	c.bodies.Purge()
	c.logger.Info("content index built",
		"posts", len(snap.Posts), "authors", len(snap.Authors), "duration", time.Since(start))
	return nil
}

// Index returns a fresh-enough index. It tries a read lock first; only takes
// a write lock if a reload is needed.
func (c *IndexCache) Index(ctx context.Context) (*content.Index, error) {
	c.mu.RLock()
	if c.valid() {
		ix := c.index
		c.mu.RUnlock()
		return ix, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	return c.index, nil
}

// Body returns the rendered HTML of a post. Syndicated posts carry sanitized
// HTML already; Markdown bodies are rendered once per index generation.
func (c *IndexCache) Body(p content.Post) (templ.Component, error) {
	if p.HTML != "" {
		return templ.Raw(p.HTML), nil
	}
	return c.markdown(p.Origin+":post:"+p.ID, p.Body)
}

// Bio returns the rendered biography of an author.
func (c *IndexCache) Bio(a content.Author) (templ.Component, error) {
	return c.markdown(a.Origin+":author:"+a.Slug, a.Body)
}

func (c *IndexCache) markdown(key, source string) (templ.Component, error) {
	if html, ok := c.bodies.Get(key); ok {
		return templ.Raw(html), nil
	}
	html, err := markdown.Render(source)
	if err != nil {
		return nil, err
	}
	c.bodies.Add(key, html)
	return templ.Raw(html), nil
}
