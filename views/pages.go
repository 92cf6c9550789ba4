package views

import (
	"context"
	"strconv"

	"github.com/a-h/templ"
	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"

	"github.com/eringen/engblog"
	"github.com/eringen/engblog/content"
)

const summaryLength = 400

func (s site) home(page engblog.HomePage) templ.Component {
	return component(func(context.Context) g.Node {
		var intro g.Node
		if page.Pagination.Page <= 1 {
			intro = Section(Class("intro"),
				H1(g.Text(s.cfg.Name)),
				g.If(s.cfg.Description != "", P(g.Text(s.cfg.Description))),
			)
		}
		var featured g.Node
		if len(page.Featured) > 0 {
			featured = Section(Class("featured"),
				H2(g.Text("Featured")),
				Div(Class("cards"), g.Group(s.cards(page.Featured, page.Authors))),
			)
		}
		return s.layout(page.Meta, engblog.WebsiteJsonLD(s.cfg),
			intro,
			featured,
			g.If(len(page.Posts) > 0, Section(Class("latest"),
				H2(g.Text("Latest")),
				s.postList(page.Posts),
			)),
			g.If(len(page.Posts) == 0 && len(page.Featured) == 0, P(g.Text("No posts found."))),
			pagination(page.Pagination),
		)
	})
}

func (s site) cards(posts []content.Post, authors map[string]content.Author) []g.Node {
	nodes := make([]g.Node, 0, len(posts))
	for _, p := range posts {
		var byline []g.Node
		for _, slug := range p.Authors {
			name := slug
			if a, ok := authors[slug]; ok {
				name = a.Name
			}
			byline = append(byline, A(Href("/about/"+slug+"/"), g.Text(name)))
		}
		nodes = append(nodes, Article(Class("card"),
			g.If(len(p.Images) > 0, Img(Src(firstImage(p)), Alt(p.Title), g.Attr("loading", "lazy"))),
			H3(A(Href(postHref(p)), g.Text(p.Title))),
			s.dateline(p),
			g.If(len(byline) > 0, P(Class("byline"), g.Group(byline))),
			P(g.Text(TrimString(p.Summary, summaryLength))),
			tagList(p.Tags),
		))
	}
	return nodes
}

func firstImage(p content.Post) string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

func (s site) dateline(p content.Post) g.Node {
	if !p.HasDate() {
		return nil
	}
	return g.El("time", g.Attr("datetime", p.Date.Format("2006-01-02")), g.Text(FormatDate(p.Date, s.cfg.Locale)))
}

func (s site) postList(posts []content.Post) g.Node {
	items := make([]g.Node, 0, len(posts))
	for _, p := range posts {
		items = append(items, Li(Class("post-item"),
			s.dateline(p),
			Div(
				H3(A(Href(postHref(p)), g.Text(p.Title))),
				tagList(p.Tags),
				g.If(p.Summary != "", P(g.Text(TrimString(p.Summary, summaryLength)))),
				g.If(p.Origin == content.OriginFeed && p.CanonicalURL != "",
					P(Class("origin"), g.Text("Originally published at "), A(Href(p.CanonicalURL), g.Text(p.CanonicalURL)))),
			),
		))
	}
	return Ul(Class("post-list"), g.Group(items))
}

func tagList(tags []string) g.Node {
	nodes := make([]g.Node, 0, len(tags))
	for _, t := range tags {
		if content.Slugify(t) == "" {
			continue
		}
		nodes = append(nodes, A(Class(TagClass(false)), Href(tagHref(t)), g.Text(t)))
	}
	if len(nodes) == 0 {
		return nil
	}
	return Div(Class("tags"), g.Group(nodes))
}

func pagination(pg content.Pagination) g.Node {
	if pg.TotalPages <= 1 {
		return nil
	}
	return Nav(Class("pagination"),
		g.If(pg.HasPrev(), A(Rel("prev"), Href(pageHref(pg.Page-1)), g.Text("Previous"))),
		Span(g.Textf("%d of %d", pg.Page, pg.TotalPages)),
		g.If(pg.HasNext(), A(Rel("next"), Href(pageHref(pg.Page+1)), g.Text("Next"))),
	)
}

func (s site) post(page engblog.PostPage) templ.Component {
	return component(func(ctx context.Context) g.Node {
		p := page.Post
		var authors []g.Node
		for _, a := range page.Authors {
			authors = append(authors, Li(
				g.If(a.Avatar != "", Img(Class("avatar"), Src(a.Avatar), Alt(a.Name), Width("38"), Height("38"))),
				A(Href(a.Link()+"/"), g.Text(a.Name)),
			))
		}
		var related []g.Node
		for _, r := range page.Related {
			related = append(related, Li(A(Href(postHref(r)), g.Text(r.Title))))
		}
		return s.layout(page.Meta, engblog.BlogPostingJsonLD(p, page.Authors, s.cfg),
			Article(Class("post"),
				Header(
					s.dateline(p),
					H1(g.Text(p.Title)),
					g.If(len(authors) > 0, Ul(Class("authors"), g.Group(authors))),
					g.If(p.Byline != "" && len(authors) == 0, P(Class("byline"), g.Text(p.Byline))),
					tagList(p.Tags),
				),
				Div(Class("prose"), embed(ctx, page.Body)),
				g.If(p.CanonicalURL != "",
					P(Class("origin"), g.Text("Originally published at "), A(Href(p.CanonicalURL), g.Text(p.CanonicalURL)))),
				Footer(
					Nav(Class("post-nav"),
						neighbor("Previous article", page.Older),
						neighbor("Next article", page.Newer),
					),
					g.If(len(related) > 0, Section(Class("related"),
						H2(g.Text("Related posts")),
						Ul(g.Group(related)),
					)),
					A(Href("/"), g.Text("← Back to the blog")),
				),
			),
		)
	})
}

func neighbor(label string, p *content.Post) g.Node {
	if p == nil {
		return nil
	}
	return Div(
		Span(Class("label"), g.Text(label)),
		A(Href(postHref(*p)), g.Text(p.Title)),
	)
}

func (s site) author(page engblog.AuthorPage) templ.Component {
	return component(func(ctx context.Context) g.Node {
		a := page.Author
		var socials []g.Node
		for _, l := range []struct{ label, href string }{
			{"Email", mailto(a.Email)},
			{"GitHub", a.GitHub},
			{"LinkedIn", a.LinkedIn},
			{"X", a.Twitter},
			{"Stack Overflow", a.StackOverflow},
			{"Website", a.URL},
		} {
			if l.href != "" {
				socials = append(socials, A(Href(l.href), Rel("me noopener"), g.Text(l.label)))
			}
		}
		return s.layout(page.Meta, engblog.PersonJsonLD(a, s.cfg),
			Section(Class("author"),
				g.If(a.Avatar != "", Img(Class("avatar-lg"), Src(a.Avatar), Alt(a.Name), Width("192"), Height("192"))),
				H1(g.Text(a.Name)),
				g.If(a.Occupation != "", P(g.Text(a.Occupation))),
				g.If(a.Company != "", P(g.Text(a.Company))),
				g.If(len(socials) > 0, Nav(Class("social"), g.Group(socials))),
				Div(Class("prose"), embed(ctx, page.Bio)),
			),
			g.If(len(page.Posts) > 0, Section(
				H2(g.Textf("Posts by %s", a.Name)),
				s.postList(page.Posts),
			)),
		)
	})
}

func (s site) tags(page engblog.TagsPage) templ.Component {
	return component(func(context.Context) g.Node {
		tags := make([]g.Node, 0, len(page.Tags))
		for _, t := range page.Tags {
			tags = append(tags, Li(
				A(Class(TagClass(false)), Href("/tags/"+t.Slug+"/"), g.Text(t.Slug)),
				Span(Class("count"), g.Text(" ("+strconv.Itoa(t.Count)+")")),
			))
		}
		authors := make([]g.Node, 0, len(page.Authors))
		for _, a := range page.Authors {
			var name g.Node = g.Text(a.Name)
			if a.Slug != content.DefaultAuthor {
				name = A(Href("/about/"+a.Slug+"/"), g.Text(a.Name))
			}
			authors = append(authors, Li(name, Span(Class("count"), g.Text(" ("+strconv.Itoa(a.Count)+")"))))
		}
		return s.layout(page.Meta, "",
			H1(g.Text("Tags")),
			g.If(len(tags) == 0, P(g.Text("No tags found."))),
			Ul(Class("tag-cloud"), g.Group(tags)),
			g.If(len(authors) > 0, Section(
				H2(g.Text("Authors")),
				Ul(Class("author-counts"), g.Group(authors)),
			)),
		)
	})
}

func (s site) tag(page engblog.TagPage) templ.Component {
	return component(func(context.Context) g.Node {
		return s.layout(page.Meta, "",
			H1(g.Text(page.Tag)),
			P(A(Href("/tags/"+page.Tag+"/feed.xml"), g.Text("RSS feed for this tag"))),
			s.postList(page.Posts),
		)
	})
}
