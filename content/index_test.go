package content

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func slugs(posts []Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Slug)
	}
	return out
}

func TestListPostsOrderAndTags(t *testing.T) {
	ix := NewIndex(Snapshot{Posts: []Post{
		{Slug: "a", Title: "A", Date: day("2024-01-01"), Tags: []string{"Rust"}},
		{Slug: "b", Title: "B", Date: day("2024-06-01"), Tags: []string{"rust", "go"}},
	}})

	assert.Equal(t, []string{"b", "a"}, slugs(ix.ListPosts()))
	assert.Equal(t, map[string]int{"rust": 2, "go": 1}, ix.TagCounts())
	assert.Equal(t, []string{"b", "a"}, slugs(ix.PostsByTag("rust")))
	assert.Equal(t, []string{"b"}, slugs(ix.PostsByTag("go")))
}

func TestListPostsUndatedSortLastAndTiesStable(t *testing.T) {
	ix := NewIndex(Snapshot{Posts: []Post{
		{Slug: "undated", Title: "U"},
		{Slug: "tie-1", Title: "T1", Date: day("2023-05-05")},
		{Slug: "newest", Title: "N", Date: day("2024-05-05")},
		{Slug: "tie-2", Title: "T2", Date: day("2023-05-05")},
	}})

	got := ix.ListPosts()
	assert.Equal(t, []string{"newest", "tie-1", "tie-2", "undated"}, slugs(got))
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].Date.After(got[i-1].Date), "posts %d and %d out of order", i-1, i)
	}
}

func TestDraftsExcludedEverywhere(t *testing.T) {
	ix := NewIndex(Snapshot{
		Posts: []Post{
			{Slug: "live", Title: "Live", Date: day("2024-01-01"), Tags: []string{"go"}, Authors: []string{"jane"}},
			{Slug: "wip", Title: "WIP", Date: day("2024-02-01"), Tags: []string{"go", "secret"}, Authors: []string{"jane"}, Draft: true},
			{Slug: "orphan-draft", Title: "Orphan", Draft: true},
		},
		Authors: []Author{{Slug: "jane", Name: "Jane Doe"}},
	})

	assert.Equal(t, []string{"live"}, slugs(ix.ListPosts()))
	_, ok := ix.GetPost("wip")
	assert.False(t, ok)
	assert.Equal(t, []string{"live"}, slugs(ix.PostsByAuthor("jane")))
	assert.Equal(t, []string{"live"}, slugs(ix.PostsByTag("go")))
	assert.Empty(t, ix.PostsByTag("secret"))
	assert.Equal(t, map[string]int{"go": 1}, ix.TagCounts())

	counts := ix.AuthorCounts()
	assert.Equal(t, 1, counts["jane"].Count)
	_, hasDefault := counts[DefaultAuthor]
	assert.False(t, hasDefault, "draft without authors must not create a default bucket")
}

func TestGetPostRoundTrip(t *testing.T) {
	snap := Snapshot{Posts: []Post{
		{Slug: "one", Title: "One", Date: day("2022-01-01")},
		{Slug: "two", Title: "Two", Date: day("2023-01-01")},
		{Slug: "three", Title: "Three"},
	}}
	ix := NewIndex(snap)

	for _, p := range snap.Posts {
		got, ok := ix.GetPost(p.Slug)
		require.True(t, ok, "GetPost(%q)", p.Slug)
		assert.Equal(t, p, got)

		n := 0
		for _, listed := range ix.ListPosts() {
			if listed.Slug == p.Slug {
				n++
			}
		}
		assert.Equal(t, 1, n, "%q listed %d times", p.Slug, n)
	}
}

func TestNotFound(t *testing.T) {
	ix := NewIndex(Snapshot{
		Posts:   []Post{{Slug: "Case", Title: "Case"}},
		Authors: []Author{{Slug: "jane", Name: "Jane"}},
	})

	_, ok := ix.GetPost("nonexistent")
	assert.False(t, ok)
	_, ok = ix.GetPost("case")
	assert.False(t, ok, "slug lookup is case-sensitive")
	_, ok = ix.GetAuthor("nonexistent")
	assert.False(t, ok)
	assert.Empty(t, ix.PostsByAuthor("nonexistent"))
	assert.Empty(t, ix.PostsByTag("nonexistent"))
}

func TestEmptyIndex(t *testing.T) {
	ix := NewIndex(Snapshot{})
	assert.Empty(t, ix.ListPosts())
	assert.Empty(t, ix.ListAuthors())
	assert.Empty(t, ix.TagCounts())
	assert.Empty(t, ix.AuthorCounts())
}

func TestTagCountsCollapseVariants(t *testing.T) {
	ix := NewIndex(Snapshot{Posts: []Post{
		{Slug: "p1", Title: "1", Tags: []string{"Open Source"}},
		{Slug: "p2", Title: "2", Tags: []string{"open-source"}},
		{Slug: "p3", Title: "3", Tags: []string{"  OPEN   source "}},
		{Slug: "p4", Title: "4", Tags: []string{"Open_Source"}, Draft: true},
		{Slug: "p5", Title: "5", Tags: []string{"open"}},
	}})

	assert.Equal(t, 3, ix.TagCounts()["open-source"])
	assert.Equal(t, []string{"p1", "p2", "p3"}, slugs(ix.PostsByTag("open-source")))
}

func TestTagCountsCountPostsNotOccurrences(t *testing.T) {
	ix := NewIndex(Snapshot{Posts: []Post{
		{Slug: "p1", Title: "1", Tags: []string{"Open Source", "open-source"}},
		{Slug: "p2", Title: "2", Tags: []string{"open source"}},
	}})

	assert.Equal(t, map[string]int{"open-source": 2}, ix.TagCounts())
	assert.Len(t, ix.PostsByTag("open-source"), ix.TagCounts()["open-source"])
}

func TestTagsWithoutSlugAreSkipped(t *testing.T) {
	ix := NewIndex(Snapshot{Posts: []Post{
		{Slug: "p1", Title: "1", Tags: []string{"!!!", "go"}},
		{Slug: "p2", Title: "2", Tags: []string{"???"}},
	}})

	assert.Equal(t, map[string]int{"go": 1}, ix.TagCounts())
	assert.Empty(t, ix.PostsByTag(""))
	assert.Equal(t, []string{"go"}, ix.ListPosts()[0].TagSlugs())
}

func TestAuthorCounts(t *testing.T) {
	ix := NewIndex(Snapshot{
		Posts: []Post{
			{Slug: "p1", Title: "1", Authors: []string{"jane"}},
			{Slug: "p2", Title: "2", Authors: []string{"jane"}},
			{Slug: "p3", Title: "3"},
		},
		Authors: []Author{{Slug: "jane", Name: "Jane Doe"}},
	})

	assert.Equal(t, map[string]AuthorCount{
		"jane":        {Slug: "jane", Name: "Jane Doe", Count: 2},
		DefaultAuthor: {Slug: DefaultAuthor, Name: DefaultAuthor, Count: 1},
	}, ix.AuthorCounts())
}

func TestAuthorCountsUnknownAuthorUsesSlug(t *testing.T) {
	ix := NewIndex(Snapshot{Posts: []Post{{Slug: "p", Title: "P", Authors: []string{"ghost"}}}})
	assert.Equal(t, "ghost", ix.AuthorCounts()["ghost"].Name)
}

func TestListAuthorsSortedByNameCaseInsensitive(t *testing.T) {
	ix := NewIndex(Snapshot{Authors: []Author{
		{Slug: "z", Name: "zoe"},
		{Slug: "b", Name: "Bob"},
		{Slug: "n", Name: ""},
		{Slug: "a", Name: "alice"},
	}})

	var got []string
	for _, a := range ix.ListAuthors() {
		got = append(got, a.Slug)
	}
	assert.Equal(t, []string{"n", "a", "b", "z"}, got)

	a, ok := ix.GetAuthor("b")
	require.True(t, ok)
	assert.Equal(t, "Bob", a.Name)
}

func TestSortCounts(t *testing.T) {
	tags := SortTagCounts(map[string]int{"go": 2, "rust": 2, "zig": 5, "c": 1})
	assert.Equal(t, []TagCount{{"zig", 5}, {"go", 2}, {"rust", 2}, {"c", 1}}, tags)

	authors := SortAuthorCounts(map[string]AuthorCount{
		"b": {Slug: "b", Name: "B", Count: 1},
		"a": {Slug: "a", Name: "A", Count: 1},
		"c": {Slug: "c", Name: "C", Count: 3},
	})
	require.Len(t, authors, 3)
	assert.Equal(t, "c", authors[0].Slug)
	assert.Equal(t, "a", authors[1].Slug)
	assert.Equal(t, "b", authors[2].Slug)
}

func TestNeighbors(t *testing.T) {
	ix := NewIndex(Snapshot{Posts: []Post{
		{Slug: "old", Title: "Old", Date: day("2020-01-01")},
		{Slug: "mid", Title: "Mid", Date: day("2021-01-01")},
		{Slug: "new", Title: "New", Date: day("2022-01-01")},
	}})

	newer, older := ix.Neighbors("mid")
	require.NotNil(t, newer)
	require.NotNil(t, older)
	assert.Equal(t, "new", newer.Slug)
	assert.Equal(t, "old", older.Slug)

	newer, _ = ix.Neighbors("new")
	assert.Nil(t, newer)
	_, older = ix.Neighbors("old")
	assert.Nil(t, older)
}

func TestListPostsReturnsCopy(t *testing.T) {
	ix := NewIndex(Snapshot{Posts: []Post{{Slug: "a", Title: "A"}}})
	got := ix.ListPosts()
	got[0].Slug = "mutated"
	assert.Equal(t, "a", ix.ListPosts()[0].Slug)
}

func TestIndexConcurrentReads(t *testing.T) {
	ix := NewIndex(Snapshot{Posts: []Post{
		{Slug: "a", Title: "A", Tags: []string{"go"}, Date: day("2024-01-01")},
		{Slug: "b", Title: "B", Tags: []string{"Go"}, Date: day("2024-02-01")},
	}})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = ix.ListPosts()
				_ = ix.TagCounts()
				_ = ix.AuthorCounts()
				_, _ = ix.GetPost("a")
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 2, ix.TagCounts()["go"])
}

func TestFeedItems(t *testing.T) {
	items := FeedItems([]Post{
		{Slug: "hello", Title: "Hello", Summary: "Hi", Date: day("2024-03-01"), Tags: []string{"Go", "Web"}},
	}, "blog@example.com")

	require.Len(t, items, 1)
	assert.Equal(t, FeedItem{
		Title:       "Hello",
		Description: "Hi",
		Link:        "/blog/hello",
		PubDate:     day("2024-03-01"),
		Categories:  []string{"Go", "Web"},
		Author:      "blog@example.com",
	}, items[0])
}
