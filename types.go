package site

import (
	"github.com/a-h/templ"

	"github.com/famedia/site/blog"
)

// PageMeta carries per-page SEO, Open Graph and Twitter card metadata into
// the document head.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	OGTitle     string
	Image       string // og:image / twitter:image, may be empty
	ImageAlt    string
	ImageWidth  int
	ImageHeight int
	TwitterCard string // "summary" or "summary_large_image"
	JSONLD      string
	NoIndex     bool
}

// Page is the chrome shared by every rendered page.
type Page struct {
	Site          SiteConfig
	Meta          PageMeta
	Path          string
	ShowPreloader bool
	Year          int
}

// HomeData feeds the home page.
type HomeData struct {
	Page
	Latest []blog.PostSummary
}

// ListingData feeds the blog listing page.
type ListingData struct {
	Page
	Listing *blog.Listing
}

// PostData feeds the blog detail page.
type PostData struct {
	Page
	Post         *blog.PostDetail
	AuthorOnline bool
}

// ViewFuncs holds the components the handlers render. Keeping them behind
// functions lets the views package own all markup.
type ViewFuncs struct {
	Home        func(HomeData) templ.Component
	Listing     func(ListingData) templ.Component
	Post        func(PostData) templ.Component
	NotFound    func(Page) templ.Component
	ServerError func(Page) templ.Component
}

// SocialTitle is the Open Graph and Twitter title, falling back to Title.
func (m PageMeta) SocialTitle() string {
	if m.OGTitle != "" {
		return m.OGTitle
	}
	return m.Title
}
