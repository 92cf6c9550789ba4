package engblog

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eringen/engblog/analytics"
	"github.com/eringen/engblog/content"
)

// SiteConfig holds all configuration for a site. It is built once at startup
// and passed explicitly to everything that renders pages or feeds.
type SiteConfig struct {
	Name         string `yaml:"title"`        // Site title (default "Blog")
	HeaderTitle  string `yaml:"header_title"` // Title shown in the page header (default Name)
	URL          string `yaml:"site_url"`     // Canonical URL (default "http://localhost:3000")
	Description  string `yaml:"description"`  // Site description for RSS and meta tags
	Author       string `yaml:"author"`       // Organization or person for JSON-LD and feeds
	Email        string `yaml:"email"`        // Feed managingEditor/webMaster and item author
	Language     string `yaml:"language"`     // RSS language (default "en-us")
	Locale       string `yaml:"locale"`       // Date formatting locale (default "en-US")
	Repo         string `yaml:"site_repo"`
	SocialBanner string `yaml:"social_banner"`
	Social       Social `yaml:"social"`

	Analytics analytics.Config `yaml:"analytics"`

	Addr         string `yaml:"addr"`          // Listen address (default ":3000")
	ContentDir   string `yaml:"content_dir"`   // Markdown content root (default "content")
	StaticDir    string `yaml:"static_dir"`    // User static assets (default "public")
	DatabasePath string `yaml:"database_path"` // SQLite path for admin-managed content (default "data/blog.db")

	SyndicationURL    string `yaml:"syndication_url"`    // External feed merged into the index
	SyndicationPrefix string `yaml:"syndication_prefix"` // Stripped from syndicated links to form slugs

	PostsPerPage     int           `yaml:"posts_per_page"`  // default 10
	FeaturedPosts    int           `yaml:"featured_posts"`  // default 3; negative disables
	IndexCacheTTL    time.Duration `yaml:"index_cache_ttl"` // default 5m
	WatchContent     bool          `yaml:"watch_content"`
	LegacyTitleSlugs bool          `yaml:"legacy_title_slugs"`

	AdminPassword string `yaml:"-"` // Enables the admin dashboard together with SessionSecret
	SessionSecret string `yaml:"-"`
	CookieSecure  bool   `yaml:"cookie_secure"`
}

// Social holds the site's social profile links.
type Social struct {
	GitHub   string `yaml:"github"`
	X        string `yaml:"x"`
	Discord  string `yaml:"discord"`
	YouTube  string `yaml:"youtube"`
	LinkedIn string `yaml:"linkedin"`
}

// Configuration errors.
var (
	ErrAdminHalfConfigured = errors.New("admin password and session secret must be set together")
	ErrInvalidPostsPerPage = errors.New("posts_per_page must be positive")
)

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.HeaderTitle == "" {
		c.HeaderTitle = c.Name
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.Language == "" {
		c.Language = "en-us"
	}
	if c.Locale == "" {
		c.Locale = "en-US"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.PostsPerPage == 0 {
		c.PostsPerPage = 10
	}
	if c.FeaturedPosts == 0 {
		c.FeaturedPosts = 3
	}
	if c.IndexCacheTTL == 0 {
		c.IndexCacheTTL = 5 * time.Minute
	}
	c.Analytics.SetDefaults()
}

// Validate reports configuration that cannot be served.
func (c SiteConfig) Validate() error {
	if (c.AdminPassword == "") != (c.SessionSecret == "") {
		return ErrAdminHalfConfigured
	}
	if c.PostsPerPage < 0 {
		return ErrInvalidPostsPerPage
	}
	return nil
}

// AdminEnabled reports whether the admin dashboard and database store are on.
func (c SiteConfig) AdminEnabled() bool {
	return c.AdminPassword != "" && c.SessionSecret != ""
}

// LoadSiteConfig reads the YAML file at path (skipped when path is empty),
// applies environment overrides and fills defaults.
func LoadSiteConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return SiteConfig{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return SiteConfig{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return SiteConfig{}, err
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return SiteConfig{}, err
	}
	return cfg, nil
}

func (c *SiteConfig) applyEnv() error {
	strs := map[string]*string{
		"SITE_NAME":            &c.Name,
		"SITE_URL":             &c.URL,
		"SITE_DESCRIPTION":     &c.Description,
		"SITE_AUTHOR":          &c.Author,
		"SITE_EMAIL":           &c.Email,
		"SITE_LANGUAGE":        &c.Language,
		"ADDR":                 &c.Addr,
		"CONTENT_DIR":          &c.ContentDir,
		"STATIC_DIR":           &c.StaticDir,
		"DATABASE_PATH":        &c.DatabasePath,
		"SYNDICATION_URL":      &c.SyndicationURL,
		"SYNDICATION_PREFIX":   &c.SyndicationPrefix,
		"ADMIN_PASSWORD":       &c.AdminPassword,
		"ADMIN_SESSION_SECRET": &c.SessionSecret,
		"PLAUSIBLE_DOMAIN":     &c.Analytics.PlausibleDomain,
		"SENTRY_DSN":           &c.Analytics.SentryDSN,
	}
	for key, dst := range strs {
		*dst = EnvOr(key, *dst)
	}

	bools := map[string]*bool{
		"COOKIE_SECURE":      &c.CookieSecure,
		"WATCH_CONTENT":      &c.WatchContent,
		"LEGACY_TITLE_SLUGS": &c.LegacyTitleSlugs,
	}
	for key, dst := range bools {
		if v := os.Getenv(key); v != "" {
			*dst = strings.EqualFold(v, "true") || v == "1"
		}
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		c.Analytics.Production = strings.EqualFold(env, "production")
	}

	if v := os.Getenv("POSTS_PER_PAGE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("POSTS_PER_PAGE %q: %w", v, ErrInvalidPostsPerPage)
		}
		c.PostsPerPage = n
	}
	if v := os.Getenv("INDEX_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("INDEX_CACHE_TTL: %w", err)
		}
		c.IndexCacheTTL = d
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.Config.StaticDir = dir
	}
}

// WithSource adds a content source after the built-in ones.
func WithSource(src content.Source) Option {
	return func(a *App) {
		a.extraSources = append(a.extraSources, src)
	}
}

// WithLogger sets the logger for background work (index reloads, watcher).
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}
