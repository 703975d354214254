package site

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/famedia/site/blog"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority,omitempty"`
}

func (a *App) renderSitemap(c echo.Context, posts []blog.PostSummary) error {
	base := a.Config.URL
	var newest string
	if len(posts) > 0 {
		newest = posts[0].CreatedAt.Format(time.DateOnly)
	}
	urls := []sitemapURL{
		{Loc: BuildURL(base), ChangeFreq: "monthly", Priority: 1},
		{Loc: BuildURL(base, "blogs"), LastMod: newest, ChangeFreq: "daily", Priority: 0.8},
	}
	for _, p := range posts {
		u := sitemapURL{Loc: BuildURL(base, "blogs", p.Slug), ChangeFreq: "weekly", Priority: 0.6}
		if !p.CreatedAt.IsZero() {
			u.LastMod = p.CreatedAt.Format(time.DateOnly)
		}
		urls = append(urls, u)
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
