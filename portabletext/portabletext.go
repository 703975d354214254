// Package portabletext renders structured post bodies (text and image blocks)
// as HTML through a templ component.
package portabletext

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/famedia/site/blog"
)

// DefaultImageAlt is used for image blocks without alt text.
const DefaultImageAlt = "Blog image"

var blockTags = map[string]string{
	"":           "p",
	"normal":     "p",
	"h1":         "h1",
	"h2":         "h2",
	"h3":         "h3",
	"h4":         "h4",
	"blockquote": "blockquote",
}

var decorators = map[string]string{
	"strong":         "strong",
	"em":             "em",
	"code":           "code",
	"underline":      "u",
	"strike-through": "s",
}

// Render returns a templ.Component that writes blocks as HTML.
func Render(blocks []blog.Block) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		RenderBlocks(&buf, blocks)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// RenderBlocks writes the HTML representation of blocks to buf. Consecutive
// list items are grouped into <ul>/<ol> elements, nested by level. Blocks of
// unknown kind produce no output.
func RenderBlocks(buf *bytes.Buffer, blocks []blog.Block) {
	// open list tags, one per nesting level
	var lists []string

	flushLists := func(depth int) {
		for len(lists) > depth {
			buf.WriteString("</li></" + lists[len(lists)-1] + ">")
			lists = lists[:len(lists)-1]
		}
	}

	for _, b := range blocks {
		switch {
		case b.Kind == blog.KindText && b.Text != nil:
			t := b.Text
			if t.ListItem == "" {
				flushLists(0)
				writeTextBlock(buf, t)
				continue
			}
			tag := "ul"
			if t.ListItem == "number" {
				tag = "ol"
			}
			level := max(t.Level, 1)
			flushLists(level)
			if len(lists) == level && lists[level-1] != tag {
				flushLists(level - 1)
			}
			if len(lists) == level {
				buf.WriteString("</li>")
			}
			for len(lists) < level {
				buf.WriteString("<" + tag + ">")
				lists = append(lists, tag)
			}
			buf.WriteString("<li>")
			writeSpans(buf, t)
		case b.Kind == blog.KindImage && b.Image != nil:
			flushLists(0)
			writeImage(buf, b.Image)
		default:
			flushLists(0)
		}
	}
	flushLists(0)
}

func writeTextBlock(buf *bytes.Buffer, t *blog.TextBlock) {
	tag, ok := blockTags[t.Style]
	if !ok {
		tag = "p"
	}
	buf.WriteString("<" + tag + ">")
	writeSpans(buf, t)
	buf.WriteString("</" + tag + ">")
}

func writeSpans(buf *bytes.Buffer, t *blog.TextBlock) {
	defs := make(map[string]blog.MarkDef, len(t.MarkDefs))
	for _, d := range t.MarkDefs {
		defs[d.Key] = d
	}
	for _, s := range t.Children {
		buf.WriteString(FormatSpan(s, defs))
	}
}

// FormatSpan returns the escaped span text wrapped in its marks, outermost
// first. Link annotations whose href fails SafeURL are dropped and the text
// is kept.
func FormatSpan(s blog.Span, defs map[string]blog.MarkDef) string {
	text := strings.ReplaceAll(html.EscapeString(s.Text), "\n", "<br/>")
	var open, closing []string
	for _, m := range s.Marks {
		if tag, ok := decorators[m]; ok {
			open = append(open, "<"+tag+">")
			closing = append(closing, "</"+tag+">")
			continue
		}
		def, ok := defs[m]
		if !ok || def.Type != "link" {
			continue
		}
		href := SafeURL(def.Href)
		if href == "" {
			continue
		}
		attrs := `class="underline decoration-2 underline-offset-4"`
		if strings.HasPrefix(href, "http") {
			attrs += ` target="_blank" rel="noopener noreferrer"`
		}
		open = append(open, `<a href="`+href+`" `+attrs+`>`)
		closing = append(closing, "</a>")
	}
	var b strings.Builder
	for _, o := range open {
		b.WriteString(o)
	}
	b.WriteString(text)
	for i := len(closing) - 1; i >= 0; i-- {
		b.WriteString(closing[i])
	}
	return b.String()
}

func writeImage(buf *bytes.Buffer, img *blog.ImageBlock) {
	src := SafeURL(img.URL)
	if src == "" {
		return
	}
	alt := img.Alt
	if alt == "" {
		alt = DefaultImageAlt
	}
	buf.WriteString(`<figure class="my-8">`)
	buf.WriteString(`<img loading="lazy" decoding="async" width="1200" height="675" class="w-full rounded-2xl" alt="` + html.EscapeString(alt) + `" src="` + src + `"/>`)
	if img.Caption != "" {
		buf.WriteString(`<figcaption class="mt-2 text-center text-sm opacity-70">` + html.EscapeString(img.Caption) + `</figcaption>`)
	}
	buf.WriteString(`</figure>`)
}

// SafeURL validates and sanitizes a URL for use in HTML attributes.
// Relative paths, fragments and http(s)/mailto/tel URLs pass; anything else
// yields "".
func SafeURL(raw string) string {
	val := strings.TrimSpace(raw)
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}

// PlainText flattens text blocks to a single string, e.g. for a meta
// description when a post has no excerpt. Images and unknown blocks are skipped.
func PlainText(blocks []blog.Block) string {
	var parts []string
	for _, b := range blocks {
		if b.Kind != blog.KindText || b.Text == nil {
			continue
		}
		var sb strings.Builder
		for _, s := range b.Text.Children {
			sb.WriteString(s.Text)
		}
		if t := strings.TrimSpace(sb.String()); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
