package views

import (
	"context"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"

	"github.com/eringen/engblog"
	"github.com/eringen/engblog/content"
)

// adminScript sends DELETE requests for buttons carrying data-delete and
// reloads the dashboard with the response.
const adminScript = `document.addEventListener("click", function (e) {
  var b = e.target.closest("[data-delete]");
  if (!b || !confirm("Delete " + b.dataset.name + "?")) return;
  fetch(b.dataset.delete, {method: "DELETE", headers: {"X-CSRF-Token": b.dataset.csrf}})
    .then(function (r) { return r.text(); })
    .then(function (html) { document.open(); document.write(html); document.close(); });
});`

func (s site) adminLayout(title string, children ...g.Node) g.Node {
	return Doctype(
		HTML(
			Lang(langTag(s.cfg.Language)),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				Meta(Name("robots"), Content("noindex")),
				TitleEl(g.Text(title+" - "+s.cfg.Name)),
				Link(Rel("stylesheet"), Href("/public/site.css")),
			),
			Body(Class("admin"),
				Main(Class("container"), g.Group(children)),
				Script(g.Raw(adminScript)),
			),
		),
	)
}

func csrfField(token string) g.Node {
	return Input(Type("hidden"), Name("_csrf"), Value(token))
}

func deleteButton(url, name, token string) g.Node {
	return Button(Type("button"), Class("danger"),
		g.Attr("data-delete", url), g.Attr("data-name", name), g.Attr("data-csrf", token),
		g.Text("Delete"))
}

func (s site) adminLogin(showError bool, csrfToken string) templ.Component {
	return component(func(context.Context) g.Node {
		return s.adminLayout("Admin login",
			H1(g.Text("Admin")),
			g.If(showError, P(Class("error"), g.Text("Invalid password."))),
			FormEl(Method("post"), Action("/admin/login/"),
				csrfField(csrfToken),
				Label(For("password"), g.Text("Password")),
				Input(Type("password"), ID("password"), Name("password"), Required(), g.Attr("autofocus")),
				Button(Type("submit"), g.Text("Log in")),
			),
		)
	})
}

func (s site) adminDashboard(page engblog.AdminPage) templ.Component {
	return component(func(context.Context) g.Node {
		posts := make([]g.Node, 0, len(page.Posts))
		for _, p := range page.Posts {
			status := "published"
			if p.Draft {
				status = "draft"
			}
			posts = append(posts, Tr(
				Td(A(Href("/admin/post/"+p.Slug+"/"), g.Text(p.Title))),
				Td(g.Text(FormatDate(p.Date, s.cfg.Locale))),
				Td(g.Text(status)),
				Td(g.Text(strings.Join(p.Tags, ", "))),
				Td(deleteButton("/admin/post/"+p.Slug+"/", p.Title, page.CSRFToken)),
			))
		}
		authors := make([]g.Node, 0, len(page.Authors))
		for _, a := range page.Authors {
			authors = append(authors, Tr(
				Td(A(Href("/admin/author/"+a.Slug+"/"), g.Text(a.Name))),
				Td(g.Text(a.Slug)),
				Td(deleteButton("/admin/author/"+a.Slug+"/", a.Name, page.CSRFToken)),
			))
		}
		return s.adminLayout("Dashboard",
			Header(Class("admin-header"),
				H1(g.Text("Dashboard")),
				Nav(
					A(Href("/admin/post/new/"), g.Text("New post")),
					A(Href("/admin/author/new/"), g.Text("New author")),
					A(Href("/admin/images/"), g.Text("Images")),
					A(Href("/"), g.Text("View site")),
					FormEl(Method("post"), Action("/admin/logout/"), csrfField(page.CSRFToken),
						Button(Type("submit"), g.Text("Log out"))),
				),
			),
			g.If(page.Message != "", P(Class("notice"), g.Text(page.Message))),
			H2(g.Text("Posts")),
			g.If(len(posts) == 0, P(g.Text("No posts in the database yet."))),
			g.If(len(posts) > 0, Table(
				THead(Tr(Th(g.Text("Title")), Th(g.Text("Date")), Th(g.Text("Status")), Th(g.Text("Tags")), Th())),
				TBody(g.Group(posts)),
			)),
			H2(g.Text("Authors")),
			g.If(len(authors) == 0, P(g.Text("No authors in the database yet."))),
			g.If(len(authors) > 0, Table(
				THead(Tr(Th(g.Text("Name")), Th(g.Text("Slug")), Th())),
				TBody(g.Group(authors)),
			)),
		)
	})
}

func field(label, name, value string, extra ...g.Node) g.Node {
	return Div(Class("field"),
		Label(For(name), g.Text(label)),
		Input(append([]g.Node{Type("text"), ID(name), Name(name), Value(value)}, extra...)...),
	)
}

func textArea(label, name, value string, rows int) g.Node {
	return Div(Class("field"),
		Label(For(name), g.Text(label)),
		Textarea(ID(name), Name(name), Rows(strconv.Itoa(rows)), g.Text(value)),
	)
}

func (s site) adminPostForm(post content.Post, csrfToken string) templ.Component {
	return component(func(context.Context) g.Node {
		title := "New post"
		if post.Slug != "" {
			title = "Edit " + post.Title
		}
		date := ""
		if post.HasDate() {
			date = post.Date.Format("2006-01-02")
		}
		return s.adminLayout(title,
			H1(g.Text(title)),
			FormEl(Method("post"), Action("/admin/save/"),
				csrfField(csrfToken),
				field("Title", "title", post.Title, Required()),
				field("Slug", "slug", post.Slug, Placeholder("derived from the title when empty")),
				field("Date", "date", date, Placeholder("YYYY-MM-DD")),
				field("Summary", "summary", post.Summary),
				field("Tags", "tags", strings.Join(post.Tags, ", ")),
				field("Authors", "authors", strings.Join(post.Authors, ", "), Placeholder("author slugs, comma separated")),
				field("Images", "images", strings.Join(post.Images, ", ")),
				field("Canonical URL", "canonical_url", post.CanonicalURL),
				Div(Class("field"),
					Label(Input(Type("checkbox"), Name("draft"), Value("1"), g.If(post.Draft, Checked())), g.Text(" Draft")),
				),
				textArea("Content (Markdown)", "content", post.Body, 24),
				Button(Type("submit"), g.Text("Save")),
				A(Href("/admin/"), g.Text("Cancel")),
			),
		)
	})
}

func (s site) adminAuthorForm(author content.Author, csrfToken string) templ.Component {
	return component(func(context.Context) g.Node {
		title := "New author"
		if author.Slug != "" {
			title = "Edit " + author.Name
		}
		return s.adminLayout(title,
			H1(g.Text(title)),
			FormEl(Method("post"), Action("/admin/authors/save/"),
				csrfField(csrfToken),
				field("Name", "name", author.Name, Required()),
				field("Slug", "slug", author.Slug, Placeholder("derived from the name when empty")),
				field("Avatar", "avatar", author.Avatar),
				field("Occupation", "occupation", author.Occupation),
				field("Company", "company", author.Company),
				field("Email", "email", author.Email),
				field("X / Twitter", "twitter", author.Twitter),
				field("LinkedIn", "linkedin", author.LinkedIn),
				field("GitHub", "github", author.GitHub),
				field("Website", "url", author.URL),
				textArea("Bio (Markdown)", "bio", author.Body, 12),
				Button(Type("submit"), g.Text("Save")),
				A(Href("/admin/"), g.Text("Cancel")),
			),
		)
	})
}

func (s site) adminImages(images []engblog.Image, csrfToken string) templ.Component {
	return component(func(context.Context) g.Node {
		rows := make([]g.Node, 0, len(images))
		for _, img := range images {
			rows = append(rows, Tr(
				Td(Img(Src(img.URL()), Alt(img.OriginalName), Width("120"), g.Attr("loading", "lazy"))),
				Td(Code(g.Text(img.URL()))),
				Td(g.Textf("%d×%d", img.Width, img.Height)),
				Td(g.Textf("%d KB", img.Size/1024)),
				Td(deleteButton("/admin/images/"+img.Filename+"/", img.Filename, csrfToken)),
			))
		}
		return s.adminLayout("Images",
			H1(g.Text("Images")),
			FormEl(Method("post"), Action("/admin/images/upload/"), g.Attr("enctype", "multipart/form-data"),
				csrfField(csrfToken),
				Input(Type("file"), Name("image"), Accept("image/jpeg,image/png,image/gif"), Required()),
				Button(Type("submit"), g.Text("Upload")),
			),
			g.If(len(rows) == 0, P(g.Text("No images uploaded yet."))),
			g.If(len(rows) > 0, Table(TBody(g.Group(rows)))),
			A(Href("/admin/"), g.Text("Back to dashboard")),
		)
	})
}
