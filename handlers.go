package engblog

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/engblog/content"
)

// relatedLimit caps the related posts shown under a post.
const relatedLimit = 3

func (a *App) index(c echo.Context) (*content.Index, error) {
	return a.Cache.Index(c.Request().Context())
}

func (a *App) handleHome(c echo.Context) error {
	return a.renderListing(c, 1)
}

func (a *App) handleBlogPage(c echo.Context) error {
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil || page < 1 {
		return a.notFound(c)
	}
	if page == 1 {
		return c.Redirect(http.StatusMovedPermanently, "/")
	}
	return a.renderListing(c, page)
}

func (a *App) renderListing(c echo.Context, page int) error {
	ix, err := a.index(c)
	if err != nil {
		return err
	}
	items, pg, ok := content.Paginate(ix.ListPosts(), page, a.Config.PostsPerPage)
	if !ok {
		return a.notFound(c)
	}
	var featured []content.Post
	if page == 1 && a.Config.FeaturedPosts > 0 {
		n := min(a.Config.FeaturedPosts, len(items))
		featured, items = items[:n], items[n:]
	}
	authors := make(map[string]content.Author)
	for _, au := range ix.ListAuthors() {
		authors[au.Slug] = au
	}

	meta := PageMeta{
		Title:       a.Config.Name,
		Description: a.Config.Description,
		URL:         BuildURL(a.Config.URL),
		OGType:      "website",
		Image:       a.Config.SocialBanner,
	}
	if page > 1 {
		meta.Title = a.Config.Name + " - Page " + strconv.Itoa(page)
		meta.URL = BuildURL(a.Config.URL, "blog", "page", strconv.Itoa(page))
	}
	return Render(c, a.Views.Home(HomePage{
		Meta:       meta,
		Featured:   featured,
		Posts:      items,
		Authors:    authors,
		Pagination: pg,
	}))
}

func (a *App) handlePost(c echo.Context) error {
	slug := strings.Trim(c.Param("*"), "/")
	if slug == "" {
		return c.Redirect(http.StatusMovedPermanently, "/")
	}
	ix, err := a.index(c)
	if err != nil {
		return err
	}
	post, ok := ix.GetPost(slug)
	if !ok {
		return a.notFound(c)
	}

	authorSlugs := post.Authors
	if len(authorSlugs) == 0 {
		authorSlugs = []string{content.DefaultAuthor}
	}
	var authors []content.Author
	for _, s := range authorSlugs {
		if au, ok := ix.GetAuthor(s); ok {
			authors = append(authors, au)
		} else if s != content.DefaultAuthor {
			authors = append(authors, content.Author{Slug: s, Name: s})
		}
	}

	body, err := a.Cache.Body(post)
	if err != nil {
		return err
	}
	newer, older := ix.Neighbors(post.Slug)

	meta := PageMeta{
		Title:       post.Title,
		Description: post.Summary,
		URL:         BuildURL(a.Config.URL, "blog", post.Slug),
		OGType:      "article",
		Image:       a.Config.SocialBanner,
	}
	if post.CanonicalURL != "" {
		meta.URL = post.CanonicalURL
	}
	if len(post.Images) > 0 {
		meta.Image = post.Images[0]
	}
	return Render(c, a.Views.Post(PostPage{
		Meta:    meta,
		Post:    post,
		Authors: authors,
		Body:    body,
		Newer:   newer,
		Older:   older,
		Related: RelatedPosts(post, ix.ListPosts(), relatedLimit),
	}))
}

func (a *App) handleAuthor(c echo.Context) error {
	ix, err := a.index(c)
	if err != nil {
		return err
	}
	author, ok := ix.GetAuthor(c.Param("slug"))
	if !ok {
		return a.notFound(c)
	}
	bio, err := a.Cache.Bio(author)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Author(AuthorPage{
		Meta: PageMeta{
			Title:       author.Name + " - " + a.Config.Name,
			Description: author.Occupation,
			URL:         BuildURL(a.Config.URL, "about", author.Slug),
			OGType:      "profile",
			Image:       author.Avatar,
		},
		Author: author,
		Bio:    bio,
		Posts:  ix.PostsByAuthor(author.Slug),
	}))
}

func (a *App) handleTags(c echo.Context) error {
	ix, err := a.index(c)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Tags(TagsPage{
		Meta: PageMeta{
			Title:       "Tags - " + a.Config.Name,
			Description: "Things I blog about",
			URL:         BuildURL(a.Config.URL, "tags"),
			OGType:      "website",
		},
		Tags:    content.SortTagCounts(ix.TagCounts()),
		Authors: content.SortAuthorCounts(ix.AuthorCounts()),
	}))
}

func (a *App) handleTag(c echo.Context) error {
	ix, err := a.index(c)
	if err != nil {
		return err
	}
	tag := c.Param("tag")
	posts := ix.PostsByTag(tag)
	if len(posts) == 0 {
		return a.notFound(c)
	}
	return Render(c, a.Views.Tag(TagPage{
		Meta: PageMeta{
			Title:       tag + " - " + a.Config.Name,
			Description: a.Config.Name + " " + tag + " tagged content",
			URL:         BuildURL(a.Config.URL, "tags", tag),
			OGType:      "website",
		},
		Tag:   tag,
		Posts: posts,
	}))
}

func (a *App) handleSitemap(c echo.Context) error {
	ix, err := a.index(c)
	if err != nil {
		return err
	}
	return a.renderSitemap(c, ix)
}

func (a *App) handleFeed(c echo.Context) error {
	ix, err := a.index(c)
	if err != nil {
		return err
	}
	return a.renderRSS(c, a.Config.Name, a.Config.Description, ix.ListPosts())
}

func (a *App) handleTagFeed(c echo.Context) error {
	ix, err := a.index(c)
	if err != nil {
		return err
	}
	tag := c.Param("tag")
	posts := ix.PostsByTag(tag)
	if len(posts) == 0 {
		return a.notFound(c)
	}
	return a.renderRSS(c, tag+" - "+a.Config.Name, tag+" posts", posts)
}

func (a *App) handleRobots(c echo.Context) error {
	var b strings.Builder
	b.WriteString("User-agent: *\nAllow: /\n")
	if a.Config.AdminEnabled() {
		b.WriteString("Disallow: /admin/\n")
	}
	b.WriteString("\nSitemap: " + strings.TrimSuffix(a.Config.URL, "/") + "/sitemap.xml\n")
	return c.String(http.StatusOK, b.String())
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.Config.StaticDir + "/favicon.svg")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = a.notFound(c)
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error", "method", c.Request().Method, "uri", c.Request().RequestURI, "error", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
