// Package scaffold writes new content files and new site skeletons from
// embedded text/template files.
package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/eringen/engblog/content"
)

// Templates contains all scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS

// ErrExists is returned when the target file or directory is already there.
var ErrExists = errors.New("already exists")

var funcs = template.FuncMap{"quote": strconv.Quote}

// PostData holds the values of a new post's front matter.
type PostData struct {
	Title       string
	Slug        string // defaults to Slugify(Title)
	Description string
	Date        string // yyyy-mm-dd, defaults to today
	Tags        []string
	Authors     []string
	Draft       bool
}

// AuthorData holds the values of a new author file.
type AuthorData struct {
	Name       string
	Slug       string // defaults to Slugify(Name)
	Occupation string
	Company    string
	Email      string
	GitHub     string
}

// SiteData holds the values used by the site skeleton.
type SiteData struct {
	SiteName string
	Date     string
}

func render(name string, data any) ([]byte, error) {
	raw, err := Templates.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	tmpl, err := template.New(filepath.Base(name)).Funcs(funcs).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// writeNew creates path with data, failing with ErrExists if it is there.
func writeNew(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%s: %w", path, ErrExists)
		}
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// NewPost writes contentDir/blog/{slug}/index.md and returns its path.
func NewPost(contentDir string, d PostData) (string, error) {
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" {
		return "", content.ErrMissingTitle
	}
	if d.Slug == "" {
		d.Slug = content.Slugify(d.Title)
	}
	if d.Slug == "" {
		return "", content.ErrMissingSlug
	}
	if d.Date == "" {
		d.Date = time.Now().Format("2006-01-02")
	} else if _, err := content.ParseDate(d.Date); err != nil {
		return "", err
	}
	d.Tags = cleanList(d.Tags)
	d.Authors = cleanList(d.Authors)

	dir := filepath.Join(contentDir, content.BlogDir, filepath.FromSlash(d.Slug))
	if _, err := os.Stat(dir); err == nil {
		return "", fmt.Errorf("post %s: %w", d.Slug, ErrExists)
	}
	data, err := render("templates/post.md.tmpl", d)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "index.md")
	return path, writeNew(path, data)
}

// NewAuthor writes contentDir/authors/{slug}.md and returns its path.
func NewAuthor(contentDir string, d AuthorData) (string, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return "", content.ErrMissingName
	}
	if d.Slug == "" {
		d.Slug = content.Slugify(d.Name)
	}
	if d.Slug == "" {
		return "", content.ErrMissingSlug
	}
	data, err := render("templates/author.md.tmpl", d)
	if err != nil {
		return "", err
	}
	path := filepath.Join(contentDir, content.AuthorsDir, d.Slug+".md")
	return path, writeNew(path, data)
}

// NewSite writes the site skeleton into dir, which must not exist yet, and
// returns the created file paths.
func NewSite(dir string, d SiteData) ([]string, error) {
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("directory %s: %w", dir, ErrExists)
	}
	if d.Date == "" {
		d.Date = time.Now().Format("2006-01-02")
	}
	if d.SiteName == "" {
		d.SiteName = toTitle(filepath.Base(dir))
	}

	const root = "templates/site"
	var created []string
	err := fs.WalkDir(Templates, root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}
		rel := strings.TrimSuffix(strings.TrimPrefix(path, root+"/"), ".tmpl")
		if filepath.Base(rel) == "dotenv" {
			rel = filepath.Join(filepath.Dir(rel), ".env.example")
		}
		data, err := render(path, d)
		if err != nil {
			return err
		}
		out := filepath.Join(dir, filepath.FromSlash(rel))
		if err := writeNew(out, data); err != nil {
			return err
		}
		created = append(created, out)
		return nil
	})
	if err != nil {
		return created, err
	}
	if err := os.MkdirAll(filepath.Join(dir, "public"), 0o755); err != nil {
		return created, err
	}
	return created, nil
}

func cleanList(vals []string) []string {
	var out []string
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// toTitle converts a hyphenated or lowercase name to a title-case string.
// e.g. "my-blog" -> "My Blog", "myblog" -> "Myblog"
func toTitle(s string) string {
	parts := strings.Split(s, "-")
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
