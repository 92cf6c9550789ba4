// Package views is the default set of page templates for engblog, written
// with gomponents and exposed to the engine as templ components.
package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"

	"github.com/eringen/engblog"
	"github.com/eringen/engblog/analytics"
)

type site struct {
	cfg engblog.SiteConfig
}

// New returns view functions rendering pages for cfg.
func New(cfg engblog.SiteConfig) engblog.ViewFuncs {
	s := site{cfg: cfg}
	return engblog.ViewFuncs{
		Home:            s.home,
		Post:            s.post,
		Author:          s.author,
		Tags:            s.tags,
		Tag:             s.tag,
		AdminLogin:      s.adminLogin,
		AdminDashboard:  s.adminDashboard,
		AdminPostForm:   s.adminPostForm,
		AdminAuthorForm: s.adminAuthorForm,
		AdminImages:     s.adminImages,
		NotFound:        s.notFound,
		ServerError:     s.serverError,
	}
}

// component adapts a gomponents tree to templ. fn receives the render
// context so embedded templ components render with it.
func component(fn func(ctx context.Context) g.Node) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return fn(ctx).Render(w)
	})
}

// embed renders a templ component in place inside a gomponents tree.
func embed(ctx context.Context, c templ.Component) g.Node {
	if c == nil {
		return nil
	}
	return g.NodeFunc(func(w io.Writer) error {
		return c.Render(ctx, w)
	})
}

func (s site) layout(meta engblog.PageMeta, jsonLD string, children ...g.Node) g.Node {
	title := meta.Title
	if title == "" {
		title = s.cfg.Name
	}
	desc := meta.Description
	if desc == "" {
		desc = s.cfg.Description
	}
	head := []g.Node{
		Meta(Charset("utf-8")),
		Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
		TitleEl(g.Text(title)),
		Meta(Name("description"), Content(desc)),
		Meta(g.Attr("property", "og:title"), Content(title)),
		Meta(g.Attr("property", "og:description"), Content(desc)),
		Meta(g.Attr("property", "og:site_name"), Content(s.cfg.Name)),
		g.If(meta.OGType != "", Meta(g.Attr("property", "og:type"), Content(meta.OGType))),
		g.If(meta.URL != "", Meta(g.Attr("property", "og:url"), Content(meta.URL))),
		g.If(meta.URL != "", Link(Rel("canonical"), Href(meta.URL))),
		g.If(meta.Image != "", Meta(g.Attr("property", "og:image"), Content(meta.Image))),
		Meta(Name("twitter:card"), Content("summary_large_image")),
		Link(Rel("icon"), Type("image/svg+xml"), Href("/favicon.svg")),
		Link(Rel("stylesheet"), Href("/public/site.css")),
		Link(Rel("alternate"), Type("application/rss+xml"), g.Attr("title", s.cfg.Name), Href("/feed.xml")),
		g.If(jsonLD != "", Script(Type("application/ld+json"), g.Raw(jsonLD))),
	}
	head = append(head, analytics.Nodes(s.cfg.Analytics)...)

	return Doctype(
		HTML(
			Lang(langTag(s.cfg.Language)),
			Head(g.Group(head)),
			Body(
				s.header(),
				Main(Class("container"), g.Group(children)),
				s.footer(),
			),
		),
	)
}

// langTag converts an RSS language code (en-us) to an HTML lang value.
func langTag(language string) string {
	if len(language) >= 2 {
		return language[:2]
	}
	return "en"
}

func (s site) header() g.Node {
	return Header(Class("site-header container"),
		A(Class("brand"), Href("/"), g.Text(s.cfg.HeaderTitle)),
		Nav(
			A(Href("/"), g.Text("Blog")),
			A(Href("/tags/"), g.Text("Tags")),
			A(Href("/feed.xml"), g.Text("RSS")),
		),
	)
}

func (s site) footer() g.Node {
	soc := s.cfg.Social
	var links []g.Node
	for _, l := range []struct{ label, href string }{
		{"GitHub", soc.GitHub},
		{"X", soc.X},
		{"Discord", soc.Discord},
		{"YouTube", soc.YouTube},
		{"LinkedIn", soc.LinkedIn},
		{"Email", mailto(s.cfg.Email)},
	} {
		if l.href != "" {
			links = append(links, A(Href(l.href), Rel("me noopener"), g.Text(l.label)))
		}
	}
	return Footer(Class("site-footer container"),
		g.If(len(links) > 0, Nav(Class("social"), g.Group(links))),
		P(g.Textf("%s · %s", s.cfg.Author, s.cfg.Name)),
		g.If(s.cfg.Repo != "", P(A(Href(s.cfg.Repo), g.Text("Source")))),
	)
}

func mailto(email string) string {
	if email == "" {
		return ""
	}
	return "mailto:" + email
}

func (s site) notFound() templ.Component {
	return component(func(context.Context) g.Node {
		return s.layout(engblog.PageMeta{Title: "Page not found - " + s.cfg.Name}, "",
			Section(Class("error"),
				H1(g.Text("404")),
				P(g.Text("Sorry, we couldn't find this page.")),
				A(Href("/"), g.Text("Back to homepage")),
			),
		)
	})
}

func (s site) serverError() templ.Component {
	return component(func(context.Context) g.Node {
		return s.layout(engblog.PageMeta{Title: "Error - " + s.cfg.Name}, "",
			Section(Class("error"),
				H1(g.Text("500")),
				P(g.Text("Something went wrong. Please try again later.")),
			),
		)
	})
}
