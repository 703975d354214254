// Package views renders the site pages from embedded html/template files,
// exposed to the handlers as templ components.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"github.com/a-h/templ"

	site "github.com/famedia/site"
	"github.com/famedia/site/blog"
	"github.com/famedia/site/portabletext"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed public
var publicFS embed.FS

var funcs = template.FuncMap{
	"initials":   site.Initials,
	"capitalize": site.CapitalizeName,
	"formatDate": site.FormatDate,
	"readTime":   site.ReadTime,
	"listingURL": site.ListingURL,
	"jsonld":     func(s string) template.JS { return template.JS(s) },
	"active":     isActive,
	"pillClass":  pillClass,
}

var pages = map[string]*template.Template{}

func init() {
	for _, name := range []string{"home", "listing", "detail", "notfound", "error"} {
		pages[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+name+".html",
		))
	}
}

// Funcs returns the ViewFuncs wired to the embedded templates.
func Funcs() site.ViewFuncs {
	return site.ViewFuncs{
		Home:        Home,
		Listing:     Listing,
		Post:        Post,
		NotFound:    NotFound,
		ServerError: ServerError,
	}
}

// Public returns the static assets served under /public.
func Public() fs.FS {
	sub, err := fs.Sub(publicFS, "public")
	if err != nil {
		panic(fmt.Sprintf("views: public assets: %v", err))
	}
	return sub
}

func layout(name string, data any) templ.Component {
	return templ.FromGoHTML(pages[name].Lookup("layout"), data)
}

// Home renders the landing page.
func Home(d site.HomeData) templ.Component { return layout("home", d) }

// Listing renders the blog listing page.
func Listing(d site.ListingData) templ.Component { return layout("listing", d) }

// NotFound renders the 404 page.
func NotFound(p site.Page) templ.Component { return layout("notfound", p) }

// ServerError renders the generic error page.
func ServerError(p site.Page) templ.Component { return layout("error", p) }

type postView struct {
	site.PostData
	Body template.HTML
}

// Post renders the blog detail page. The body blocks are rendered first so
// the layout can embed them as trusted HTML.
func Post(d site.PostData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var blocks []blog.Block
		if d.Post != nil {
			blocks = d.Post.Content
		}
		body, err := templ.ToGoHTML(ctx, portabletext.Render(blocks))
		if err != nil {
			return fmt.Errorf("views: render post body: %w", err)
		}
		return layout("detail", postView{PostData: d, Body: body}).Render(ctx, w)
	})
}

func isActive(current, prefix string) bool {
	if prefix == "/" {
		return current == "/"
	}
	return current == prefix || strings.HasPrefix(current, prefix+"/")
}

func pillClass(active bool) string {
	if active {
		return "pill pill-active"
	}
	return "pill"
}
