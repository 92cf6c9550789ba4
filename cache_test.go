package engblog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/eringen/engblog/content"
)

// countingSource returns a snapshot with one post per load, titled by the
// load number, or fail when set.
type countingSource struct {
	loads atomic.Int32
	fail  atomic.Bool
}

func (s *countingSource) Load(ctx context.Context) (content.Snapshot, error) {
	n := s.loads.Add(1)
	if s.fail.Load() {
		return content.Snapshot{}, errors.New("source down")
	}
	return content.Snapshot{Posts: []content.Post{{
		ID:    "p",
		Slug:  "p",
		Title: "load " + string(rune('0'+n)),
		Body:  "*v" + string(rune('0'+n)) + "*",
	}}}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIndexCacheReusesIndexWithinTTL(t *testing.T) {
	src := &countingSource{}
	c := NewIndexCache(src, time.Hour, quietLogger())
	ctx := context.Background()

	first, err := c.Index(ctx)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Index(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("index rebuilt within TTL")
	}
	if n := src.loads.Load(); n != 1 {
		t.Errorf("loads = %d, want 1", n)
	}
}

func TestIndexCacheInvalidate(t *testing.T) {
	src := &countingSource{}
	c := NewIndexCache(src, time.Hour, quietLogger())
	ctx := context.Background()

	if _, err := c.Index(ctx); err != nil {
		t.Fatal(err)
	}
	c.Invalidate()
	ix, err := c.Index(ctx)
	if err != nil {
		t.Fatal(err)
	}
	p, _ := ix.GetPost("p")
	if p.Title != "load 2" {
		t.Errorf("Title = %q, want load 2", p.Title)
	}
}

func TestIndexCacheExpires(t *testing.T) {
	src := &countingSource{}
	c := NewIndexCache(src, time.Millisecond, quietLogger())
	ctx := context.Background()

	if _, err := c.Index(ctx); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := c.Index(ctx); err != nil {
		t.Fatal(err)
	}
	if n := src.loads.Load(); n != 2 {
		t.Errorf("loads = %d, want 2", n)
	}
}

func TestIndexCacheKeepsIndexOnFailure(t *testing.T) {
	src := &countingSource{}
	c := NewIndexCache(src, time.Hour, quietLogger())
	ctx := context.Background()

	before, err := c.Index(ctx)
	if err != nil {
		t.Fatal(err)
	}
	src.fail.Store(true)
	c.Invalidate()
	after, err := c.Index(ctx)
	if err != nil {
		t.Fatalf("Index after failed reload: %v", err)
	}
	if before != after {
		t.Error("failed reload replaced the index")
	}
}

func TestIndexCacheFirstLoadFailure(t *testing.T) {
	src := &countingSource{}
	src.fail.Store(true)
	c := NewIndexCache(src, time.Hour, quietLogger())
	if _, err := c.Index(context.Background()); err == nil {
		t.Fatal("expected error when no index was ever built")
	}
}

func renderString(t *testing.T, c interface {
	Render(context.Context, io.Writer) error
}) string {
	t.Helper()
	var b strings.Builder
	if err := c.Render(context.Background(), &b); err != nil {
		t.Fatal(err)
	}
	return b.String()
}

func TestIndexCacheBody(t *testing.T) {
	src := &countingSource{}
	c := NewIndexCache(src, time.Hour, quietLogger())
	ctx := context.Background()

	ix, err := c.Index(ctx)
	if err != nil {
		t.Fatal(err)
	}
	p, _ := ix.GetPost("p")
	body, err := c.Body(p)
	if err != nil {
		t.Fatal(err)
	}
	if got := renderString(t, body); !strings.Contains(got, "<em>v1</em>") {
		t.Errorf("body = %q", got)
	}

	// A rebuilt index drops bodies rendered for the previous one.
	c.Invalidate()
	ix, _ = c.Index(ctx)
	p, _ = ix.GetPost("p")
	body, _ = c.Body(p)
	if got := renderString(t, body); !strings.Contains(got, "<em>v2</em>") {
		t.Errorf("body after reload = %q", got)
	}

	html, err := c.Body(content.Post{HTML: "<p>ready</p>"})
	if err != nil {
		t.Fatal(err)
	}
	if got := renderString(t, html); got != "<p>ready</p>" {
		t.Errorf("HTML body = %q", got)
	}
}
