package site

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/famedia/site/blog"
	"github.com/famedia/site/portabletext"
)

// latestOnHome is how many posts the home page teaser shows.
const latestOnHome = 3

func (a *App) handleHome(c echo.Context) error {
	posts, err := a.repo.ListPosts(c.Request().Context(), blog.NewFilter("", ""))
	if err != nil {
		return err
	}
	if len(posts) > latestOnHome {
		posts = posts[:latestOnHome]
	}
	p := a.page(c, HomePageMeta(a.Config))
	p.ShowPreloader = a.consumePreloader(c)
	return Render(c, a.Views.Home(HomeData{Page: p, Latest: posts}))
}

func (a *App) handleListing(c echo.Context) error {
	f := blog.NewFilter(c.QueryParam("category"), c.QueryParam("search"))
	listing, err := a.Blog.Listing(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Listing(ListingData{
		Page:    a.page(c, ListingPageMeta(a.Config)),
		Listing: listing,
	}))
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	d, err := a.Blog.Detail(c.Request().Context(), slug)
	switch {
	case errors.Is(err, blog.ErrNotFound):
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.page(c, NotFoundPageMeta(a.Config))))
	case errors.Is(err, blog.ErrInconsistent):
		a.Log.Warn().Err(err).Str("slug", slug).Msg("post snapshot inconsistent")
		retry := int(a.Config.Content.Revalidate.Seconds())
		c.Response().Header().Set("Retry-After", strconv.Itoa(max(retry, 1)))
		c.Response().Header().Set("Cache-Control", "no-store")
		return RenderStatus(c, http.StatusServiceUnavailable, a.Views.ServerError(a.page(c, ServerErrorPageMeta(a.Config))))
	case err != nil:
		return err
	}

	meta := PostPageMeta(a.Config, d.Meta)
	if meta.Description == "" {
		meta.Description = Truncate(portabletext.PlainText(d.Post.Content), 160)
	}
	meta.JSONLD = BlogPostingJSONLD(a.Config, d.Post)
	return Render(c, a.Views.Post(PostData{
		Page:         a.page(c, meta),
		Post:         d.Post,
		AuthorOnline: a.Presence.Online(a.now()),
	}))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.repo.ListPosts(c.Request().Context(), blog.NewFilter("", ""))
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.repo.ListPosts(c.Request().Context(), blog.NewFilter("", ""))
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleRobots(c echo.Context) error {
	body := "User-agent: *\nAllow: /\n\nSitemap: " + BuildURL(a.Config.URL, "sitemap.xml") + "\n"
	return c.String(http.StatusOK, body)
}

func (a *App) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"backend": a.Config.Content.Backend,
	})
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/blogs")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		meta := NotFoundPageMeta(a.Config)
		meta.Title = "Page Not Found | " + a.Config.Name
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.page(c, meta)))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	meta := ServerErrorPageMeta(a.Config)
	switch {
	case code >= 500:
		a.Log.Error().Err(err).
			Str("method", c.Request().Method).
			Str("uri", c.Request().RequestURI).
			Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
			Msg("server error")
	case code == http.StatusTooManyRequests:
		meta.Title = "Too many requests | " + a.Config.Name
	}
	c.Response().Header().Set("Cache-Control", "no-store")
	_ = RenderStatus(c, code, a.Views.ServerError(a.page(c, meta)))
}
