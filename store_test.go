package engblog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/eringen/engblog/content"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "blog.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
	// Reopening runs the migrations again on an existing schema.
	if err := s.ensureSchema(); err != nil {
		t.Fatalf("ensureSchema on existing db: %v", err)
	}
}

func TestSaveAndGetPost(t *testing.T) {
	s := setupTestStore(t)

	post := content.Post{
		Slug:         "test-post",
		Title:        "Test Post",
		Date:         date(2024, 1, 15),
		Tags:         []string{"Go", " testing "},
		Authors:      []string{"jane"},
		Images:       []string{"/public/uploads/a.jpg"},
		Summary:      "A test post summary",
		Body:         "# Test Content\n\nThis is test content.",
		CanonicalURL: "https://example.com/test-post",
	}
	if err := s.SavePost(post); err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}

	got, err := s.GetPost("test-post")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != post.Title {
		t.Errorf("Title = %q, want %q", got.Title, post.Title)
	}
	if !got.Date.Equal(post.Date) {
		t.Errorf("Date = %v, want %v", got.Date, post.Date)
	}
	if !got.Lastmod.IsZero() {
		t.Errorf("Lastmod = %v, want zero", got.Lastmod)
	}
	if got.Body != post.Body {
		t.Errorf("Body = %q, want %q", got.Body, post.Body)
	}
	if got.Origin != content.OriginDB {
		t.Errorf("Origin = %q, want %q", got.Origin, content.OriginDB)
	}
	if got.Link() != "/blog/test-post" {
		t.Errorf("Link = %q, want %q", got.Link(), "/blog/test-post")
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "testing" {
		t.Errorf("Tags = %v, want [go testing]", got.Tags)
	}
	if len(got.Authors) != 1 || got.Authors[0] != "jane" {
		t.Errorf("Authors = %v, want [jane]", got.Authors)
	}
	if got.CanonicalURL != post.CanonicalURL {
		t.Errorf("CanonicalURL = %q, want %q", got.CanonicalURL, post.CanonicalURL)
	}
}

func TestSavePostUpdate(t *testing.T) {
	s := setupTestStore(t)

	post := content.Post{Slug: "update-test", Title: "Original Title", Date: date(2024, 1, 1), Tags: []string{"original"}}
	if err := s.SavePost(post); err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}
	post.Title = "Updated Title"
	post.Tags = []string{"updated", "modified"}
	post.Draft = true
	if err := s.SavePost(post); err != nil {
		t.Fatalf("SavePost update failed: %v", err)
	}

	got, err := s.GetPost("update-test")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Title != "Updated Title" {
		t.Errorf("Title = %q, want %q", got.Title, "Updated Title")
	}
	if !got.Draft {
		t.Error("Draft should be true")
	}
	if len(got.Tags) != 2 {
		t.Errorf("Tags = %v, want 2 tags", got.Tags)
	}
}

func TestGetPostNotFound(t *testing.T) {
	s := setupTestStore(t)
	if _, err := s.GetPost("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListAllPostsOrder(t *testing.T) {
	s := setupTestStore(t)
	for _, p := range []content.Post{
		{Slug: "old", Title: "Old", Date: date(2023, 5, 1)},
		{Slug: "undated", Title: "Undated"},
		{Slug: "new", Title: "New", Date: date(2024, 5, 1)},
		{Slug: "draft", Title: "Draft", Date: date(2024, 1, 1), Draft: true},
	} {
		if err := s.SavePost(p); err != nil {
			t.Fatalf("SavePost(%s): %v", p.Slug, err)
		}
	}

	posts, err := s.ListAllPosts()
	if err != nil {
		t.Fatalf("ListAllPosts failed: %v", err)
	}
	want := []string{"new", "draft", "old", "undated"}
	if len(posts) != len(want) {
		t.Fatalf("got %d posts, want %d", len(posts), len(want))
	}
	for i, slug := range want {
		if posts[i].Slug != slug {
			t.Errorf("posts[%d] = %q, want %q", i, posts[i].Slug, slug)
		}
	}
}

func TestDeletePost(t *testing.T) {
	s := setupTestStore(t)
	if err := s.SavePost(content.Post{Slug: "gone", Title: "Gone"}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeletePost("gone"); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	if _, err := s.GetPost("gone"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("post still present after delete: %v", err)
	}
}

func TestAuthorCRUD(t *testing.T) {
	s := setupTestStore(t)

	for _, a := range []content.Author{
		{Slug: "zed", Name: "zed"},
		{Slug: "jane", Name: "Jane Doe", Occupation: "Engineer", GitHub: "https://github.com/jane", Body: "Hi."},
	} {
		if err := s.SaveAuthor(a); err != nil {
			t.Fatalf("SaveAuthor(%s): %v", a.Slug, err)
		}
	}

	got, err := s.GetAuthor("jane")
	if err != nil {
		t.Fatalf("GetAuthor failed: %v", err)
	}
	if got.Name != "Jane Doe" || got.Occupation != "Engineer" || got.Body != "Hi." {
		t.Errorf("GetAuthor = %+v", got)
	}

	authors, err := s.ListAuthors()
	if err != nil {
		t.Fatalf("ListAuthors failed: %v", err)
	}
	if len(authors) != 2 || authors[0].Slug != "jane" || authors[1].Slug != "zed" {
		t.Errorf("ListAuthors order = %v", authors)
	}

	if err := s.DeleteAuthor("zed"); err != nil {
		t.Fatalf("DeleteAuthor failed: %v", err)
	}
	if _, err := s.GetAuthor("zed"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("author still present after delete: %v", err)
	}
}

func TestStoreLoad(t *testing.T) {
	s := setupTestStore(t)
	if err := s.SavePost(content.Post{Slug: "a", Title: "A", Date: date(2024, 1, 1), Authors: []string{"jane"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.SavePost(content.Post{Slug: "b", Title: "B", Draft: true}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveAuthor(content.Author{Slug: "jane", Name: "Jane"}); err != nil {
		t.Fatal(err)
	}

	snap, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snap.Posts) != 2 {
		t.Fatalf("Load returned %d posts, want 2 (drafts included)", len(snap.Posts))
	}
	if len(snap.Authors) != 1 {
		t.Fatalf("Load returned %d authors, want 1", len(snap.Authors))
	}

	ix := content.NewIndex(snap)
	if _, ok := ix.GetPost("b"); ok {
		t.Error("draft post should not be indexed")
	}
	if got := ix.PostsByAuthor("jane"); len(got) != 1 || got[0].Slug != "a" {
		t.Errorf("PostsByAuthor(jane) = %v", got)
	}
}

func TestImages(t *testing.T) {
	s := setupTestStore(t)
	img := Image{Filename: "a.jpg", OriginalName: "A.png", Width: 10, Height: 5, Size: 100, UploadedAt: "2024-01-01T00:00:00Z"}
	if err := s.SaveImage(img); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	got, err := s.GetImage("a.jpg")
	if err != nil {
		t.Fatalf("GetImage failed: %v", err)
	}
	if got != img {
		t.Errorf("GetImage = %+v, want %+v", got, img)
	}
	list, err := s.ListImages()
	if err != nil || len(list) != 1 {
		t.Fatalf("ListImages = %v, %v", list, err)
	}
	if err := s.DeleteImage("a.jpg"); err != nil {
		t.Fatalf("DeleteImage failed: %v", err)
	}
	if err := s.DeleteImage("a.jpg"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second DeleteImage err = %v, want ErrNotFound", err)
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{",go,web,", []string{"go", "web"}},
		{"go, web , ,", []string{"go", "web"}},
		{",,", nil},
	}
	for _, tt := range tests {
		got := ParseTags(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("ParseTags(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseTags(%q) = %v, want %v", tt.in, got, tt.want)
				break
			}
		}
	}
}
