package site

import (
	"encoding/json"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/famedia/site/blog"
)

// BuildURL joins a base URL with path segments. Segments are escaped when
// the URL is formatted.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(append([]string{"/", u.Path}, pathSegments...)...)
	u.RawPath = ""
	return u.String()
}

// ListingURL is the site-relative listing URL for a category and search.
// The "all" category and an empty search are omitted.
func ListingURL(category, search string) string {
	q := url.Values{}
	if category != "" && category != blog.AllCategories {
		q.Set("category", category)
	}
	if search != "" {
		q.Set("search", search)
	}
	if len(q) == 0 {
		return "/blogs"
	}
	return "/blogs?" + q.Encode()
}

// Initials returns the uppercase first letters of at most the first two
// words of name.
func Initials(name string) string {
	var b strings.Builder
	for i, w := range strings.Fields(name) {
		if i == 2 {
			break
		}
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// CapitalizeName upper-cases the first letter of each word and lower-cases
// the rest, collapsing runs of whitespace.
func CapitalizeName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

// FormatDate formats t like "January 2, 2006"; the zero time yields "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2, 2006")
}

// ReadTime formats a reading time in minutes.
func ReadTime(minutes int) string {
	return strconv.Itoa(minutes) + " min read"
}

// Truncate shortens s to at most n runes, cutting at the last word boundary
// and appending an ellipsis.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)[:n]
	cut := string(r)
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

// HomePageMeta is the head metadata of the home page.
func HomePageMeta(cfg SiteConfig) PageMeta {
	return PageMeta{
		Title:       cfg.Name + " | Web Development & Design Agency",
		Description: cfg.Description,
		URL:         BuildURL(cfg.URL),
		OGType:      "website",
		TwitterCard: "summary",
		JSONLD:      WebsiteJSONLD(cfg),
	}
}

// ListingPageMeta is the head metadata of the blog listing.
func ListingPageMeta(cfg SiteConfig) PageMeta {
	return PageMeta{
		Title:       cfg.Name + " | Engineering & Design Blog",
		Description: "Insights on web development, UI systems, automation, and engineering decisions from the team at " + cfg.Name + ".",
		URL:         BuildURL(cfg.URL, "blogs"),
		OGType:      "website",
		TwitterCard: "summary",
	}
}

// NotFoundPageMeta is the fixed fallback used when a post does not exist.
func NotFoundPageMeta(cfg SiteConfig) PageMeta {
	return PageMeta{
		Title:       "Blog Not Found | " + cfg.Name,
		OGType:      "website",
		TwitterCard: "summary",
		NoIndex:     true,
	}
}

// ServerErrorPageMeta is the head metadata of the error page.
func ServerErrorPageMeta(cfg SiteConfig) PageMeta {
	return PageMeta{
		Title:   "Something went wrong | " + cfg.Name,
		OGType:  "website",
		NoIndex: true,
	}
}

// PostPageMeta derives the detail page head metadata from the lightweight
// projection. A nil meta yields NotFoundPageMeta.
func PostPageMeta(cfg SiteConfig, meta *blog.PostMeta) PageMeta {
	if meta == nil {
		return NotFoundPageMeta(cfg)
	}
	m := PageMeta{
		Title:       meta.Title + " | " + cfg.Name,
		Description: meta.Excerpt,
		URL:         BuildURL(cfg.URL, "blogs", meta.Slug),
		OGType:      "article",
		OGTitle:     meta.Title,
		TwitterCard: "summary",
	}
	if meta.Image != "" {
		m.TwitterCard = "summary_large_image"
		m.Image = meta.Image
		m.ImageAlt = meta.Title
		m.ImageWidth, m.ImageHeight = 1200, 630
	}
	return m
}

// WebsiteJSONLD returns a JSON-LD string for a WebSite schema.
func WebsiteJSONLD(cfg SiteConfig) string {
	data := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      BuildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Author,
		}
	}
	return marshalJSONLD(data)
}

// BlogPostingJSONLD returns a JSON-LD string for a BlogPosting schema.
func BlogPostingJSONLD(cfg SiteConfig, post *blog.PostDetail) string {
	postURL := BuildURL(cfg.URL, "blogs", post.Slug)
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "BlogPosting",
		"headline":    post.Title,
		"description": post.Excerpt,
		"url":         postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		},
	}
	if !post.CreatedAt.IsZero() {
		data["datePublished"] = post.CreatedAt.Format(time.RFC3339)
	}
	if post.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  CapitalizeName(post.Author),
		}
	}
	if post.TitleImage != "" {
		data["image"] = post.TitleImage
	}
	if post.Category != "" {
		data["articleSection"] = post.Category
	}
	if len(post.Topics) > 0 {
		data["keywords"] = strings.Join(post.Topics, ", ")
	}
	return marshalJSONLD(data)
}

func marshalJSONLD(data map[string]any) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
