package engblog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/engblog/content"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = sql.ErrNoRows

// Store wraps a SQLite database holding admin-managed posts, authors and
// uploaded image metadata. It is also a content.Source.
type Store struct {
	db *sql.DB
}

var _ content.Source = (*Store)(nil)

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the public index reload while the admin writes; busy_timeout
	// makes writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    date TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '',
    authors TEXT NOT NULL DEFAULT '',
    images TEXT NOT NULL DEFAULT '',
    summary TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT '',
    draft INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS authors (
    slug TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    avatar TEXT NOT NULL DEFAULT '',
    occupation TEXT NOT NULL DEFAULT '',
    company TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    twitter TEXT NOT NULL DEFAULT '',
    linkedin TEXT NOT NULL DEFAULT '',
    github TEXT NOT NULL DEFAULT '',
    url TEXT NOT NULL DEFAULT '',
    bio TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS images (
    filename TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at TEXT NOT NULL
);
`)
	if err != nil {
		return err
	}
	// Columns added after the first release.
	for _, stmt := range []string{
		`ALTER TABLE posts ADD COLUMN lastmod TEXT NOT NULL DEFAULT '';`,
		`ALTER TABLE posts ADD COLUMN canonical_url TEXT NOT NULL DEFAULT '';`,
	} {
		if _, err := s.db.Exec(stmt); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "duplicate column") {
				continue
			}
			return err
		}
	}
	return nil
}

const postColumns = `slug, title, date, lastmod, tags, authors, images, summary, content, draft, canonical_url`

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (content.Post, error) {
	var slug, title, date, lastmod, tags, authors, images, summary, body, canonical string
	var draft int
	if err := row.Scan(&slug, &title, &date, &lastmod, &tags, &authors, &images, &summary, &body, &draft, &canonical); err != nil {
		return content.Post{}, err
	}
	p := content.Post{
		ID:           slug,
		Slug:         slug,
		Title:        title,
		Summary:      summary,
		Draft:        draft == 1,
		Authors:      ParseTags(authors),
		Tags:         ParseTags(tags),
		Images:       ParseTags(images),
		CanonicalURL: canonical,
		Body:         body,
		Origin:       content.OriginDB,
	}
	var err error
	if p.Date, err = parseStoredTime(date); err != nil {
		return content.Post{}, fmt.Errorf("post %s: %w", slug, err)
	}
	if p.Lastmod, err = parseStoredTime(lastmod); err != nil {
		return content.Post{}, fmt.Errorf("post %s: %w", slug, err)
	}
	return p, nil
}

func (s *Store) queryPosts(ctx context.Context, query string, args ...any) ([]content.Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []content.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListAllPosts returns every post (published and drafts) ordered by date
// descending; undated posts come last.
func (s *Store) ListAllPosts() ([]content.Post, error) {
	return s.queryPosts(context.Background(), `SELECT `+postColumns+` FROM posts ORDER BY date = '', date DESC`)
}

// GetPost returns a post by slug regardless of draft status.
func (s *Store) GetPost(slug string) (content.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE slug = ?`, slug)
	return scanPost(row)
}

// SavePost upserts a post. Tags are normalized to lowercase.
func (s *Store) SavePost(p content.Post) error {
	normalizedTags := make([]string, len(p.Tags))
	for i, t := range p.Tags {
		normalizedTags[i] = strings.ToLower(strings.TrimSpace(t))
	}
	draft := 0
	if p.Draft {
		draft = 1
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Slug, p.Title, formatStoredTime(p.Date), formatStoredTime(p.Lastmod),
		joinList(normalizedTags), joinList(p.Authors), joinList(p.Images),
		p.Summary, p.Body, draft, p.CanonicalURL)
	return err
}

// DeletePost removes a post by slug.
func (s *Store) DeletePost(slug string) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE slug = ?`, slug)
	return err
}

const authorColumns = `slug, name, avatar, occupation, company, email, twitter, linkedin, github, url, bio`

func scanAuthor(row scanner) (content.Author, error) {
	var a content.Author
	err := row.Scan(&a.Slug, &a.Name, &a.Avatar, &a.Occupation, &a.Company, &a.Email,
		&a.Twitter, &a.LinkedIn, &a.GitHub, &a.URL, &a.Body)
	a.Origin = content.OriginDB
	return a, err
}

// ListAuthors returns every stored author ordered by name.
func (s *Store) ListAuthors() ([]content.Author, error) {
	return s.listAuthors(context.Background())
}

func (s *Store) listAuthors(ctx context.Context) ([]content.Author, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+authorColumns+` FROM authors ORDER BY lower(name)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []content.Author
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

// GetAuthor returns an author by slug.
func (s *Store) GetAuthor(slug string) (content.Author, error) {
	return scanAuthor(s.db.QueryRow(`SELECT `+authorColumns+` FROM authors WHERE slug = ?`, slug))
}

// SaveAuthor upserts an author.
func (s *Store) SaveAuthor(a content.Author) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO authors (`+authorColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Slug, a.Name, a.Avatar, a.Occupation, a.Company, a.Email,
		a.Twitter, a.LinkedIn, a.GitHub, a.URL, a.Body)
	return err
}

// DeleteAuthor removes an author by slug.
func (s *Store) DeleteAuthor(slug string) error {
	_, err := s.db.Exec(`DELETE FROM authors WHERE slug = ?`, slug)
	return err
}

// Load implements content.Source: every stored post and author, drafts
// included; the index drops drafts itself.
func (s *Store) Load(ctx context.Context) (content.Snapshot, error) {
	posts, err := s.queryPosts(ctx, `SELECT `+postColumns+` FROM posts`)
	if err != nil {
		return content.Snapshot{}, fmt.Errorf("store: load posts: %w", err)
	}
	authors, err := s.listAuthors(ctx)
	if err != nil {
		return content.Snapshot{}, fmt.Errorf("store: load authors: %w", err)
	}
	return content.Snapshot{Posts: posts, Authors: authors}, nil
}

// ListImages returns uploaded image metadata, newest first.
func (s *Store) ListImages() ([]Image, error) {
	rows, err := s.db.Query(`SELECT filename, original_name, width, height, size, uploaded_at FROM images ORDER BY uploaded_at DESC, filename`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.Filename, &img.OriginalName, &img.Width, &img.Height, &img.Size, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// SaveImage records metadata for an uploaded image.
func (s *Store) SaveImage(img Image) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO images (filename, original_name, width, height, size, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		img.Filename, img.OriginalName, img.Width, img.Height, img.Size, img.UploadedAt)
	return err
}

// GetImage returns image metadata by filename.
func (s *Store) GetImage(filename string) (Image, error) {
	var img Image
	err := s.db.QueryRow(`SELECT filename, original_name, width, height, size, uploaded_at FROM images WHERE filename = ?`, filename).
		Scan(&img.Filename, &img.OriginalName, &img.Width, &img.Height, &img.Size, &img.UploadedAt)
	return img, err
}

// DeleteImage removes image metadata by filename.
func (s *Store) DeleteImage(filename string) error {
	res, err := s.db.Exec(`DELETE FROM images WHERE filename = ?`, filename)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ParseTags splits a comma-delimited list (e.g. ",go,web,") into a slice,
// dropping empty entries.
func ParseTags(tagString string) []string {
	var out []string
	for _, part := range strings.Split(tagString, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// joinList stores a list with leading and trailing commas so a single entry
// can be matched with instr(col, ',x,').
func joinList(items []string) string {
	items = FilterEmpty(items)
	if len(items) == 0 {
		return ""
	}
	return "," + strings.Join(items, ",") + ","
}

func formatStoredTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseStoredTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errors.Join(content.ErrInvalidDate, err)
	}
	return t.UTC(), nil
}
