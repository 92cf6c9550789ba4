package engblog

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/engblog/content"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	a.Logger.Warn("admin login failed", "ip", ip)
	return RenderStatus(c, http.StatusUnauthorized, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func adminRedirect(c echo.Context, msg string) error {
	return c.Redirect(http.StatusSeeOther, "/admin/?msg="+url.QueryEscape(msg))
}

func (a *App) handleAdminPost(c echo.Context) error {
	post, err := a.Store.GetPost(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return Render(c, a.Views.AdminPostForm(post, CsrfToken(c)))
}

func (a *App) handleAdminNewPost(c echo.Context) error {
	return Render(c, a.Views.AdminPostForm(content.Post{}, CsrfToken(c)))
}

// slugTaken reports whether slug already belongs to a published post from a
// source other than the database.
func (a *App) slugTaken(c echo.Context, slug string) (bool, error) {
	ix, err := a.index(c)
	if err != nil {
		return false, err
	}
	existing, ok := ix.GetPost(slug)
	return ok && existing.Origin != content.OriginDB, nil
}

func (a *App) handleAdminSave(c echo.Context) error {
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return adminRedirect(c, "Title is required.")
	}
	slug := strings.Trim(strings.TrimSpace(c.FormValue("slug")), "/")
	if slug == "" {
		slug = content.Slugify(title)
	}
	if slug == "" {
		return adminRedirect(c, "Slug is required. Add a title or slug.")
	}
	taken, err := a.slugTaken(c, slug)
	if err != nil {
		return err
	}
	if taken {
		return adminRedirect(c, "Slug "+slug+" is already used by a content file.")
	}

	var date time.Time
	if raw := strings.TrimSpace(c.FormValue("date")); raw == "" {
		date = time.Now().UTC().Truncate(24 * time.Hour)
	} else if date, err = content.ParseDate(raw); err != nil {
		return adminRedirect(c, "Invalid date format. Use YYYY-MM-DD.")
	}
	var lastmod time.Time
	if prev, err := a.Store.GetPost(slug); err == nil && prev.HasDate() {
		lastmod = time.Now().UTC()
	}

	if err := a.Store.SavePost(content.Post{
		Slug:         slug,
		Title:        title,
		Date:         date,
		Lastmod:      lastmod,
		Tags:         ParseTags(c.FormValue("tags")),
		Authors:      ParseTags(c.FormValue("authors")),
		Images:       ParseTags(c.FormValue("images")),
		Summary:      c.FormValue("summary"),
		Body:         c.FormValue("content"),
		CanonicalURL: strings.TrimSpace(c.FormValue("canonical_url")),
		Draft:        c.FormValue("draft") != "",
	}); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "saved")
}

func (a *App) handleAdminDelete(c echo.Context) error {
	if err := a.Store.DeletePost(c.Param("slug")); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "deleted")
}

func (a *App) handleAdminAuthor(c echo.Context) error {
	author, err := a.Store.GetAuthor(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return Render(c, a.Views.AdminAuthorForm(author, CsrfToken(c)))
}

func (a *App) handleAdminNewAuthor(c echo.Context) error {
	return Render(c, a.Views.AdminAuthorForm(content.Author{}, CsrfToken(c)))
}

func (a *App) handleAdminSaveAuthor(c echo.Context) error {
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return adminRedirect(c, "Name is required.")
	}
	slug := strings.TrimSpace(c.FormValue("slug"))
	if slug == "" {
		slug = content.Slugify(name)
	}
	if slug == "" {
		return adminRedirect(c, "Slug is required. Add a name or slug.")
	}
	author := content.Author{
		Slug:       slug,
		Name:       name,
		Avatar:     strings.TrimSpace(c.FormValue("avatar")),
		Occupation: strings.TrimSpace(c.FormValue("occupation")),
		Company:    strings.TrimSpace(c.FormValue("company")),
		Email:      strings.TrimSpace(c.FormValue("email")),
		Twitter:    strings.TrimSpace(c.FormValue("twitter")),
		LinkedIn:   strings.TrimSpace(c.FormValue("linkedin")),
		GitHub:     strings.TrimSpace(c.FormValue("github")),
		URL:        strings.TrimSpace(c.FormValue("url")),
		Body:       c.FormValue("bio"),
	}
	if err := content.ValidateAuthor(author); err != nil {
		return adminRedirect(c, err.Error())
	}
	if err := a.Store.SaveAuthor(author); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "saved")
}

func (a *App) handleAdminDeleteAuthor(c echo.Context) error {
	if err := a.Store.DeleteAuthor(c.Param("slug")); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "deleted")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	posts, err := a.Store.ListAllPosts()
	if err != nil {
		return err
	}
	authors, err := a.Store.ListAuthors()
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(AdminPage{
		Posts:     posts,
		Authors:   authors,
		Message:   msg,
		CSRFToken: CsrfToken(c),
	}))
}
