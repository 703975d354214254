// Package site is the FA Media web server: a server-rendered marketing site
// whose blog is backed by a headless content store.
//
// The views package supplies the markup through ViewFuncs; site owns the
// handlers, middleware, configuration and backend wiring.
package site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/famedia/site/blog"
)

// App is the central application. It wires together the content backend,
// the blog service, handlers, middleware, and the views.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Blog     *blog.Service
	Views    ViewFuncs
	Log      zerolog.Logger
	Presence Presence

	repo        blog.Repository
	closers     []io.Closer
	staticFS    fs.FS
	now         func() time.Time
	initialized bool
}

// New creates an App with the given configuration and views.
func New(cfg SiteConfig, views ViewFuncs, log zerolog.Logger, opts ...Option) *App {
	cfg.setDefaults()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	a := &App{
		Config: cfg,
		Echo:   e,
		Views:  views,
		Log:    log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init opens the content backend (unless one was injected), then installs
// middleware and routes. It is safe to call more than once.
func (a *App) Init(ctx context.Context) error {
	if a.initialized {
		return nil
	}
	if err := a.Config.Validate(); err != nil {
		return err
	}
	presence, err := NewPresence(a.Config.Presence)
	if err != nil {
		return err
	}
	a.Presence = presence

	if a.repo == nil {
		repo, err := a.openRepository(ctx)
		if err != nil {
			return err
		}
		a.repo = repo
	}
	a.Blog = blog.NewService(a.repo)

	a.setupMiddleware()
	a.setupRoutes()
	a.initialized = true
	return nil
}

// Start initializes the app and serves HTTP until ctx is canceled, then shuts
// down gracefully within Config.ShutdownTimeout.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(ctx); err != nil {
		return err
	}

	errc := make(chan error, 1)
	go func() {
		a.Log.Info().Str("addr", a.Config.Addr).Str("backend", a.Config.Content.Backend).Msg("server listening")
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	a.Log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("site: shutdown: %w", err)
	}
	a.Log.Info().Msg("server stopped")
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	if a.staticFS != nil {
		e.StaticFS("/public", a.staticFS)
	}
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/healthz", a.handleHealth)

	var listing []echo.MiddlewareFunc
	if a.Config.SearchLimit > 0 {
		limiter := NewSearchLimiter(a.Config.SearchLimit, time.Minute)
		a.closers = append(a.closers, limiter)
		listing = append(listing, limiter.Middleware)
	}

	e.GET("/", a.handleHome)
	e.GET("/blogs", a.handleListing, listing...)
	e.GET("/blogs/:slug", a.handlePost)
	e.GET("/blog", handleBlogRedirect)
}

// Close releases the backend resources opened by Init.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
