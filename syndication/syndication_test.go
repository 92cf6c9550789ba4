package syndication

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/engblog/content"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:dc="http://purl.org/dc/elements/1.1/">
<channel>
  <title>Vanguard</title>
  <link>http://localhost:3000/</link>
  <description>Syndicated</description>
  <item>
    <title>Scaling Ingest</title>
    <link>http://localhost:3000/engineering/scaling-ingest</link>
    <guid>urn:post:1</guid>
    <pubDate>Mon, 03 Jun 2024 10:00:00 +0000</pubDate>
    <description><![CDATA[<p>How we <b>scaled</b> ingest.</p>]]></description>
    <content:encoded><![CDATA[<p>Body</p><script>alert(1)</script>]]></content:encoded>
    <category>Infrastructure</category>
    <category>Open Source</category>
    <dc:creator>Jane Doe</dc:creator>
  </item>
  <item>
    <title>Duplicate Link</title>
    <link>http://localhost:3000/engineering/scaling-ingest</link>
  </item>
  <item>
    <title>No Link Here</title>
    <description>plain</description>
  </item>
</channel>
</rss>`

func TestPostsFromFeed(t *testing.T) {
	feed, err := gofeed.NewParser().ParseString(rssFixture)
	require.NoError(t, err)

	src := New("unused", WithSitePrefix("http://localhost:3000/"))
	posts := src.Posts(feed)
	require.Len(t, posts, 2)

	p := posts[0]
	assert.Equal(t, "urn:post:1", p.ID)
	assert.Equal(t, "engineering/scaling-ingest", p.Slug)
	assert.Equal(t, "Scaling Ingest", p.Title)
	assert.Equal(t, "How we scaled ingest.", p.Summary)
	assert.Equal(t, time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC), p.Date)
	assert.Equal(t, []string{"Infrastructure", "Open Source"}, p.Tags)
	assert.Equal(t, "Jane Doe", p.Byline)
	assert.Equal(t, content.OriginFeed, p.Origin)
	assert.Contains(t, p.HTML, "<p>Body</p>")
	assert.NotContains(t, p.HTML, "<script>")

	assert.Equal(t, "no-link-here", posts[1].Slug, "slug falls back to the title")
	assert.False(t, posts[1].HasDate())
}

func TestLoadOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssFixture))
	}))
	defer srv.Close()

	src := New(srv.URL, WithHTTPClient(srv.Client()))
	snap, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Posts, 2)
	assert.Equal(t, "engineering/scaling-ingest", snap.Posts[0].Slug, "without a prefix the URL path is used")

	ix := content.NewIndex(snap)
	assert.Equal(t, 1, ix.TagCounts()["open-source"])
}

func TestLoadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, WithHTTPClient(srv.Client())).Load(context.Background())
	assert.Error(t, err)
}
