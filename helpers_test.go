package site

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famedia/site/blog"
)

var cfg = SiteConfig{Name: "FA Media", URL: "https://famedia.co.in"}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		expected string
	}{
		{"https://famedia.co.in", nil, "https://famedia.co.in/"},
		{"https://famedia.co.in", []string{"blogs"}, "https://famedia.co.in/blogs"},
		{"https://famedia.co.in/", []string{"blogs", "my post"}, "https://famedia.co.in/blogs/my%20post"},
		{"http://localhost:3000/site", []string{"feed.xml"}, "http://localhost:3000/site/feed.xml"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segments...); got != tt.expected {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segments, got, tt.expected)
		}
	}
}

func TestListingURL(t *testing.T) {
	assert.Equal(t, "/blogs", ListingURL("", ""))
	assert.Equal(t, "/blogs", ListingURL("all", ""))
	assert.Equal(t, "/blogs?category=UI+%26+UX", ListingURL("UI & UX", ""))
	assert.Equal(t, "/blogs?category=Design&search=go+lang", ListingURL("Design", "go lang"))
	assert.Equal(t, "/blogs?search=seo", ListingURL("all", "seo"))
}

func TestInitialsAndCapitalize(t *testing.T) {
	tests := []struct {
		name     string
		initials string
		capital  string
	}{
		{"jane doe", "JD", "Jane Doe"},
		{"  mary   ann  SMITH ", "MA", "Mary Ann Smith"},
		{"ravi", "R", "Ravi"},
		{"élodie durand", "ÉD", "Élodie Durand"},
		{"", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.initials, Initials(tt.name), "Initials(%q)", tt.name)
		assert.Equal(t, tt.capital, CapitalizeName(tt.name), "CapitalizeName(%q)", tt.name)
	}
}

func TestFormatDateAndReadTime(t *testing.T) {
	assert.Equal(t, "March 7, 2025", FormatDate(time.Date(2025, 3, 7, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", FormatDate(time.Time{}))
	assert.Equal(t, "6 min read", ReadTime(6))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "grids and…", Truncate("grids and layout systems", 12))
	assert.Equal(t, "abcdef…", Truncate("abcdefghij", 6))
	assert.Equal(t, "çüşğ…", Truncate("çüşğıö", 4))
}

func TestPostPageMeta(t *testing.T) {
	m := PostPageMeta(cfg, &blog.PostMeta{Title: "Grids", Excerpt: "On grids", Slug: "grids", Image: "https://cdn.sanity.io/x.png"})
	assert.Equal(t, "Grids | FA Media", m.Title)
	assert.Equal(t, "On grids", m.Description)
	assert.Equal(t, "https://famedia.co.in/blogs/grids", m.URL)
	assert.Equal(t, "article", m.OGType)
	assert.Equal(t, "Grids", m.SocialTitle())
	assert.Equal(t, "summary_large_image", m.TwitterCard)
	assert.Equal(t, 1200, m.ImageWidth)
	assert.Equal(t, 630, m.ImageHeight)

	noImage := PostPageMeta(cfg, &blog.PostMeta{Title: "Grids", Slug: "grids"})
	assert.Empty(t, noImage.Image)
	assert.Equal(t, "summary", noImage.TwitterCard)
	assert.Zero(t, noImage.ImageWidth)

	missing := PostPageMeta(cfg, nil)
	assert.Equal(t, "Blog Not Found | FA Media", missing.Title)
	assert.True(t, missing.NoIndex)
	assert.Equal(t, missing.Title, missing.SocialTitle())
}

func TestBlogPostingJSONLD(t *testing.T) {
	raw := BlogPostingJSONLD(cfg, &blog.PostDetail{
		PostSummary: blog.PostSummary{Title: "Grids", Slug: "grids", Author: "jane doe", Category: "Design",
			CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
		Topics: []string{"layout", "css"},
	})
	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &data))
	assert.Equal(t, "BlogPosting", data["@type"])
	assert.Equal(t, "https://famedia.co.in/blogs/grids", data["url"])
	assert.Equal(t, "2025-01-02T03:04:05Z", data["datePublished"])
	assert.Equal(t, "layout, css", data["keywords"])
	assert.Equal(t, map[string]any{"@type": "Person", "name": "Jane Doe"}, data["author"])
	assert.NotContains(t, data, "image")
}

func TestWebsiteJSONLD(t *testing.T) {
	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(WebsiteJSONLD(cfg)), &data))
	assert.Equal(t, "WebSite", data["@type"])
	assert.Equal(t, "https://famedia.co.in/", data["url"])
	assert.NotContains(t, data, "description")
}
