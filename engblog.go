// Package engblog is an engineering blog engine built with Go, Echo, and templ.
// It indexes posts and authors from Markdown files, an optional SQLite store
// managed through an admin dashboard, and an optional syndicated feed, and
// serves listings, tag and author pages, RSS feeds and a sitemap.
//
// Users provide their own templ (or gomponents) templates via the ViewFuncs
// struct, and engblog handles the handler logic, middleware and content
// loading.
package engblog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/engblog/content"
	"github.com/eringen/engblog/syndication"
)

// ViewFuncs holds user-provided templ components that the framework calls
// when rendering pages. This is the inversion-of-control mechanism that
// lets users own and customize all templates.
type ViewFuncs struct {
	Home            func(page HomePage) templ.Component
	Post            func(page PostPage) templ.Component
	Author          func(page AuthorPage) templ.Component
	Tags            func(page TagsPage) templ.Component
	Tag             func(page TagPage) templ.Component
	AdminLogin      func(showError bool, csrfToken string) templ.Component
	AdminDashboard  func(page AdminPage) templ.Component
	AdminPostForm   func(post content.Post, csrfToken string) templ.Component
	AdminAuthorForm func(author content.Author, csrfToken string) templ.Component
	AdminImages     func(images []Image, csrfToken string) templ.Component
	NotFound        func() templ.Component
	ServerError     func() templ.Component
}

// App is the central engblog application. It wires together the content
// sources, index cache, handlers, middleware, and user-provided templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store // nil unless the admin dashboard is enabled
	Cache  *IndexCache
	Views  ViewFuncs
	Logger *slog.Logger

	loginLimiter *LoginLimiter
	watcher      *ContentWatcher
	extraSources []content.Source
	customRoutes []func(*App)
}

// New creates a new engblog App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	e := echo.New()
	e.HideBanner = true
	a := &App{
		Config: cfg,
		Echo:   e,
		Views:  views,
		Logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Sources returns the content sources in merge order: the content
// directory, the database store, the syndicated feed, then any added with
// WithSource.
func (a *App) Sources() content.MultiSource {
	dir := content.NewDirSource(os.DirFS(a.Config.ContentDir))
	dir.LegacyTitleSlugs = a.Config.LegacyTitleSlugs
	sources := content.MultiSource{dir}
	if a.Store != nil {
		sources = append(sources, a.Store)
	}
	if a.Config.SyndicationURL != "" {
		sources = append(sources, syndication.New(a.Config.SyndicationURL,
			syndication.WithSitePrefix(a.Config.SyndicationPrefix),
			syndication.WithLogger(a.Logger),
		))
	}
	return append(sources, a.extraSources...)
}

// Init opens the store, builds the first content index, and registers
// middleware and routes. Content that fails to load is fatal here; later
// reload failures keep serving the previous index.
func (a *App) Init(ctx context.Context) error {
	if err := a.Config.Validate(); err != nil {
		return fmt.Errorf("engblog: %w", err)
	}

	if a.Config.AdminEnabled() && a.Store == nil {
		store, err := NewStore(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("engblog: init store: %w", err)
		}
		a.Store = store
	}

	a.Cache = NewIndexCache(a.Sources(), a.Config.IndexCacheTTL, a.Logger)
	if _, err := a.Cache.Index(ctx); err != nil {
		return fmt.Errorf("engblog: load content: %w", err)
	}

	if a.Config.WatchContent {
		w, err := WatchContent(a.Config.ContentDir, a.Cache.Invalidate, a.Logger)
		if err != nil {
			return fmt.Errorf("engblog: watch %s: %w", a.Config.ContentDir, err)
		}
		a.watcher = w
	}

	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start serves until the server fails. It is Serve without cancellation.
func (a *App) Start() error {
	return a.Serve(context.Background())
}

// Serve initializes the app, serves until ctx is done, then shuts down
// gracefully. Resources opened by Init are released on every return path.
func (a *App) Serve(ctx context.Context) error {
	if err := a.Init(ctx); err != nil {
		return errors.Join(err, a.Close())
	}
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("listening", "addr", a.Config.Addr, "url", a.Config.URL)
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Join(err, a.Close())
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.Shutdown(shutdownCtx)
}

// Shutdown stops the HTTP server and releases resources.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	return errors.Join(err, a.Close())
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded framework assets are served under /public/ ahead of the
	// user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/site.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	e.Static("/public", a.Config.StaticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/blog/page/:page/", a.handleBlogPage)
	e.GET("/blog/*", a.handlePost)
	e.GET("/about/:slug/", a.handleAuthor)
	e.GET("/tags/", a.handleTags)
	e.GET("/tags/:tag/", a.handleTag)
	e.GET("/tags/:tag/feed.xml", a.handleTagFeed)

	if a.Store == nil {
		return
	}
	g := e.Group("/admin", a.adminMiddleware()...)
	g.GET("/", a.handleAdmin)
	g.POST("/login/", a.handleAdminLogin)
	g.POST("/logout/", handleAdminLogout)

	auth := g.Group("", requireAdmin)
	auth.GET("/post/new/", a.handleAdminNewPost)
	auth.GET("/post/:slug/", a.handleAdminPost)
	auth.POST("/save/", a.handleAdminSave)
	auth.DELETE("/post/:slug/", a.handleAdminDelete)
	auth.GET("/author/new/", a.handleAdminNewAuthor)
	auth.GET("/author/:slug/", a.handleAdminAuthor)
	auth.POST("/authors/save/", a.handleAdminSaveAuthor)
	auth.DELETE("/author/:slug/", a.handleAdminDeleteAuthor)
	auth.GET("/images/", a.handleImageList)
	auth.POST("/images/upload/", a.handleImageUpload)
	auth.DELETE("/images/:filename/", a.handleImageDelete)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	var errs []error
	if a.watcher != nil {
		errs = append(errs, a.watcher.Close())
		a.watcher = nil
	}
	if a.loginLimiter != nil {
		a.loginLimiter.Close()
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
		a.Store = nil
	}
	return errors.Join(errs...)
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
