package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/mail"
	"net/url"
	"path"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Collection directories inside a DirSource.
const (
	BlogDir    = "blog"
	AuthorsDir = "authors"
)

// DirSource reads Markdown/MDX files with YAML front-matter from an fs.FS:
// posts under blog/ (any depth) and authors under authors/.
type DirSource struct {
	FS fs.FS

	// LegacyTitleSlugs derives a missing front-matter slug from the title
	// instead of from the file path.
	LegacyTitleSlugs bool
}

// NewDirSource returns a DirSource over fsys.
func NewDirSource(fsys fs.FS) *DirSource {
	return &DirSource{FS: fsys}
}

type postMatter struct {
	Title        string   `yaml:"title"`
	Slug         string   `yaml:"slug"`
	Date         flexTime `yaml:"date"`
	Lastmod      flexTime `yaml:"lastmod"`
	Draft        bool     `yaml:"draft"`
	Summary      string   `yaml:"summary"`
	Description  string   `yaml:"description"`
	Images       flexList `yaml:"images"`
	Authors      flexList `yaml:"authors"`
	Tags         flexList `yaml:"tags"`
	Layout       string   `yaml:"layout"`
	PostLayout   string   `yaml:"postLayout"`
	CanonicalURL string   `yaml:"canonicalUrl"`
}

type authorMatter struct {
	Name          string `yaml:"name"`
	Slug          string `yaml:"slug"`
	Avatar        string `yaml:"avatar"`
	Occupation    string `yaml:"occupation"`
	Company       string `yaml:"company"`
	Email         string `yaml:"email"`
	Twitter       string `yaml:"twitter"`
	LinkedIn      string `yaml:"linkedin"`
	GitHub        string `yaml:"github"`
	StackOverflow string `yaml:"stackoverflow"`
	URL           string `yaml:"url"`
}

// Load implements Source. Every schema violation found is reported; the
// snapshot is only returned when there are none.
func (d *DirSource) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	var errs []error

	err := walkCollection(ctx, d.FS, BlogDir, func(id string, raw []byte) {
		p, err := d.parsePost(id, raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s/%s: %w", BlogDir, id, err))
			return
		}
		snap.Posts = append(snap.Posts, p)
	})
	if err != nil {
		return Snapshot{}, err
	}
	err = walkCollection(ctx, d.FS, AuthorsDir, func(id string, raw []byte) {
		a, err := parseAuthor(id, raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s/%s: %w", AuthorsDir, id, err))
			return
		}
		snap.Authors = append(snap.Authors, a)
	})
	if err != nil {
		return Snapshot{}, err
	}
	if len(errs) > 0 {
		return Snapshot{}, errors.Join(errs...)
	}
	if err := Validate(snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// walkCollection calls fn for every content file under dir in lexical order.
// A missing collection directory is an empty collection.
func walkCollection(ctx context.Context, fsys fs.FS, dir string, fn func(id string, raw []byte)) error {
	if _, err := fs.Stat(fsys, dir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fs.WalkDir(fsys, dir, func(p string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if de.IsDir() || !isContentFile(p) {
			return nil
		}
		raw, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		fn(strings.TrimPrefix(p, dir+"/"), raw)
		return nil
	})
}

func isContentFile(p string) bool {
	switch path.Ext(p) {
	case ".md", ".mdx", ".markdown":
		return true
	}
	return false
}

func (d *DirSource) parsePost(id string, raw []byte) (Post, error) {
	var fm postMatter
	body, err := SplitFrontMatter(raw, &fm)
	if err != nil {
		return Post{}, err
	}
	if strings.TrimSpace(fm.Title) == "" {
		return Post{}, ErrMissingTitle
	}
	slug := strings.TrimSpace(fm.Slug)
	if slug == "" {
		if d.LegacyTitleSlugs {
			slug = Slugify(fm.Title)
		} else {
			slug = SlugFromPath(id)
		}
	}
	summary := fm.Summary
	if summary == "" {
		summary = fm.Description
	}
	layout := fm.Layout
	if layout == "" {
		layout = fm.PostLayout
	}
	return Post{
		ID:           id,
		Slug:         slug,
		Title:        fm.Title,
		Summary:      summary,
		Date:         fm.Date.Time,
		Lastmod:      fm.Lastmod.Time,
		Draft:        fm.Draft,
		Authors:      []string(fm.Authors),
		Tags:         []string(fm.Tags),
		Images:       []string(fm.Images),
		Layout:       layout,
		CanonicalURL: fm.CanonicalURL,
		Body:         body,
		Origin:       OriginDir,
	}, nil
}

func parseAuthor(id string, raw []byte) (Author, error) {
	var fm authorMatter
	body, err := SplitFrontMatter(raw, &fm)
	if err != nil {
		return Author{}, err
	}
	slug := strings.TrimSpace(fm.Slug)
	if slug == "" {
		slug = SlugFromPath(id)
	}
	a := Author{
		Slug:          slug,
		Name:          fm.Name,
		Avatar:        fm.Avatar,
		Occupation:    fm.Occupation,
		Company:       fm.Company,
		Email:         fm.Email,
		Twitter:       fm.Twitter,
		LinkedIn:      fm.LinkedIn,
		GitHub:        fm.GitHub,
		StackOverflow: fm.StackOverflow,
		URL:           fm.URL,
		Body:          body,
		Origin:        OriginDir,
	}
	if err := ValidateAuthor(a); err != nil {
		return Author{}, err
	}
	return a, nil
}

// ValidateAuthor checks the fields an author record must carry: a name, a
// parseable email and absolute social URLs.
func ValidateAuthor(a Author) error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrMissingName
	}
	if a.Email != "" {
		if _, err := mail.ParseAddress(a.Email); err != nil {
			return fmt.Errorf("email %q: %w", a.Email, ErrInvalidEmail)
		}
	}
	for field, v := range map[string]string{
		"twitter":       a.Twitter,
		"linkedin":      a.LinkedIn,
		"github":        a.GitHub,
		"stackoverflow": a.StackOverflow,
		"url":           a.URL,
	} {
		if v != "" && !isAbsoluteURL(v) {
			return fmt.Errorf("%s %q: %w", field, v, ErrInvalidURL)
		}
	}
	return nil
}

func isAbsoluteURL(v string) bool {
	u, err := url.Parse(v)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// SlugFromPath derives a slug from a content file id such as
// "2024/hello-world/index.mdx": the extension and a trailing "index" are
// dropped and every remaining segment is slugified.
func SlugFromPath(id string) string {
	id = strings.TrimSuffix(id, path.Ext(id))
	id = strings.TrimSuffix(id, "/index")
	parts := strings.Split(id, "/")
	out := parts[:0]
	for _, p := range parts {
		if s := Slugify(p); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "/")
}

var fmDelim = []byte("---")

// SplitFrontMatter decodes the leading YAML block of raw into v and returns
// the remaining body. Content without front-matter decodes nothing.
func SplitFrontMatter(raw []byte, v any) (string, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if !bytes.HasPrefix(raw, fmDelim) {
		return string(raw), nil
	}
	rest := raw[len(fmDelim):]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 || len(bytes.TrimSpace(rest[:nl])) != 0 {
		return string(raw), nil
	}
	rest = rest[nl+1:]

	var block, body []byte
	found := false
	for {
		line := rest
		i := bytes.IndexByte(rest, '\n')
		if i >= 0 {
			line = rest[:i]
		}
		if bytes.Equal(bytes.TrimRight(line, " \t\r"), fmDelim) {
			if i >= 0 {
				body = rest[i+1:]
			}
			found = true
			break
		}
		block = append(block, line...)
		block = append(block, '\n')
		if i < 0 {
			break
		}
		rest = rest[i+1:]
	}
	if !found {
		return "", fmt.Errorf("%w: missing closing ---", ErrFrontMatter)
	}
	if err := yaml.Unmarshal(block, v); err != nil {
		return "", fmt.Errorf("%w: %w", ErrFrontMatter, err)
	}
	return strings.TrimLeft(string(body), "\r\n"), nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	"January 2, 2006",
}

// ParseDate accepts the date spellings found in front-matter. Dates without a
// zone are UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%q: %w", s, ErrInvalidDate)
}

// flexTime decodes a YAML timestamp or any string ParseDate understands.
type flexTime struct {
	time.Time
}

func (f *flexTime) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: %w", n.Line, ErrInvalidDate)
	}
	if n.Tag == "!!null" || strings.TrimSpace(n.Value) == "" {
		return nil
	}
	t, err := ParseDate(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	f.Time = t
	return nil
}

// flexList decodes either a YAML sequence of strings or a single string.
type flexList []string

func (l *flexList) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" || n.Value == "" {
			*l = nil
			return nil
		}
		*l = flexList{n.Value}
		return nil
	case yaml.SequenceNode:
		var out []string
		if err := n.Decode(&out); err != nil {
			return err
		}
		*l = out
		return nil
	}
	return fmt.Errorf("line %d: expected a string or list of strings", n.Line)
}
