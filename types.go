package engblog

import (
	"github.com/a-h/templ"

	"github.com/eringen/engblog/content"
)

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string
}

// HomePage is one page of the post listing. Featured is only filled on the
// first page.
type HomePage struct {
	Meta       PageMeta
	Featured   []content.Post
	Posts      []content.Post
	Authors    map[string]content.Author
	Pagination content.Pagination
}

// PostPage is a single post with its rendered body and navigation.
type PostPage struct {
	Meta    PageMeta
	Post    content.Post
	Authors []content.Author
	Body    templ.Component
	Newer   *content.Post
	Older   *content.Post
	Related []content.Post
}

// AuthorPage is an author profile with the author's posts.
type AuthorPage struct {
	Meta   PageMeta
	Author content.Author
	Bio    templ.Component
	Posts  []content.Post
}

// TagsPage lists every tag and author with post counts, in display order.
type TagsPage struct {
	Meta    PageMeta
	Tags    []content.TagCount
	Authors []content.AuthorCount
}

// TagPage lists the posts of one tag.
type TagPage struct {
	Meta  PageMeta
	Tag   string
	Posts []content.Post
}

// AdminPage is the admin dashboard: records held in the database store.
type AdminPage struct {
	Posts     []content.Post
	Authors   []content.Author
	Message   string
	CSRFToken string
}

// Image is an uploaded image's metadata.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}

// URL returns the public path of the image.
func (i Image) URL() string {
	return "/public/" + uploadsSubdir + "/" + i.Filename
}
