package engblog

import (
	"encoding/xml"

	"github.com/labstack/echo/v4"

	"github.com/eringen/engblog/content"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// buildSitemap lists the home page, every post, the tags index, every tag
// page and every author page.
func (a *App) buildSitemap(ix *content.Index) sitemapURLSet {
	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: BuildURL(base)},
	}
	for _, p := range ix.ListPosts() {
		u := sitemapURL{Loc: BuildURL(base, "blog", p.Slug)}
		if p.HasDate() {
			u.LastMod = p.Updated().Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	urls = append(urls, sitemapURL{Loc: BuildURL(base, "tags")})
	for _, tc := range content.SortTagCounts(ix.TagCounts()) {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, "tags", tc.Slug)})
	}
	for _, au := range ix.ListAuthors() {
		urls = append(urls, sitemapURL{Loc: BuildURL(base, "about", au.Slug)})
	}
	return sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
}

func (a *App) renderSitemap(c echo.Context, ix *content.Index) error {
	return renderXML(c, "application/xml; charset=utf-8", a.buildSitemap(ix))
}
