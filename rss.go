package engblog

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/engblog/content"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title          string    `xml:"title"`
	Link           string    `xml:"link"`
	Description    string    `xml:"description"`
	Language       string    `xml:"language,omitempty"`
	ManagingEditor string    `xml:"managingEditor,omitempty"`
	WebMaster      string    `xml:"webMaster,omitempty"`
	LastBuildDate  string    `xml:"lastBuildDate,omitempty"`
	Items          []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate,omitempty"`
	GUID        string   `xml:"guid"`
	Author      string   `xml:"author,omitempty"`
	Categories  []string `xml:"category"`
}

// buildRSS assembles an RSS 2.0 document for posts. The channel title and
// description are those of the site unless overridden (tag feeds).
func (a *App) buildRSS(title, description string, posts []content.Post) rssXML {
	cfg := a.Config
	editor := ""
	if cfg.Email != "" {
		editor = cfg.Email
		if cfg.Author != "" {
			editor += " (" + cfg.Author + ")"
		}
	}

	items := make([]rssItem, 0, len(posts))
	var newest time.Time
	for _, it := range content.FeedItems(posts, editor) {
		link := BuildURL(cfg.URL, it.Link)
		item := rssItem{
			Title:       it.Title,
			Link:        link,
			Description: it.Description,
			GUID:        link,
			Author:      it.Author,
			Categories:  it.Categories,
		}
		if !it.PubDate.IsZero() {
			item.PubDate = it.PubDate.Format(time.RFC1123Z)
			if it.PubDate.After(newest) {
				newest = it.PubDate
			}
		}
		items = append(items, item)
	}

	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:          title,
			Link:           BuildURL(cfg.URL),
			Description:    description,
			Language:       cfg.Language,
			ManagingEditor: editor,
			WebMaster:      editor,
			Items:          items,
		},
	}
	if !newest.IsZero() {
		feed.Channel.LastBuildDate = newest.Format(time.RFC1123Z)
	}
	return feed
}

func renderXML(c echo.Context, contentType string, v any) error {
	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().WriteHeader(http.StatusOK)
	if c.Request().Method == http.MethodHead {
		return nil
	}
	c.Response().Write([]byte(xml.Header))
	enc := xml.NewEncoder(c.Response())
	enc.Indent("", "  ")
	return enc.Encode(v)
}

func (a *App) renderRSS(c echo.Context, title, description string, posts []content.Post) error {
	return renderXML(c, "application/rss+xml; charset=utf-8", a.buildRSS(title, description, posts))
}
