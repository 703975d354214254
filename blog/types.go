// Package blog holds the read-only post model and the request-scoped query
// orchestration behind the blog listing and detail pages.
package blog

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

// PostSummary is the projection shown on listing cards and the featured slot.
type PostSummary struct {
	ID         string    `json:"_id"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	Slug       string    `json:"slug"`
	TitleImage string    `json:"titleImage"`
	Excerpt    string    `json:"excerpt"`
	ReadTime   int       `json:"readTime"`
	Author     string    `json:"author"`
	CreatedAt  time.Time `json:"_createdAt"`
}

// Link is the site-relative URL of the post detail page.
func (p PostSummary) Link() string {
	return "/blogs/" + url.PathEscape(p.Slug)
}

// PostDetail is the full document rendered on the detail page.
type PostDetail struct {
	PostSummary
	Topics     []string `json:"topics"`
	AuthorRole string   `json:"authorRole"`
	Content    []Block  `json:"content"`
}

// PostMeta is the lightweight projection used for document head tags.
type PostMeta struct {
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Slug    string `json:"slug"`
	Image   string `json:"image"`
}

// BlockKind tags a content block.
type BlockKind string

const (
	KindText  BlockKind = "block"
	KindImage BlockKind = "image"
)

// Block is one unit of a post body. Exactly one of Text or Image is set for
// the known kinds; any other kind keeps its raw JSON in Raw.
type Block struct {
	Kind  BlockKind
	Text  *TextBlock
	Image *ImageBlock
	Raw   json.RawMessage
}

// TextBlock is a rich-text paragraph, heading, quote or list item.
type TextBlock struct {
	Key      string    `json:"_key,omitempty"`
	Style    string    `json:"style,omitempty"`
	ListItem string    `json:"listItem,omitempty"`
	Level    int       `json:"level,omitempty"`
	Children []Span    `json:"children"`
	MarkDefs []MarkDef `json:"markDefs,omitempty"`
}

// Span is a run of text carrying zero or more marks. A mark is either a
// decorator name ("strong", "em", ...) or the key of a MarkDef.
type Span struct {
	Key   string   `json:"_key,omitempty"`
	Type  string   `json:"_type,omitempty"`
	Text  string   `json:"text"`
	Marks []string `json:"marks,omitempty"`
}

// MarkDef is an annotation referenced from span marks, e.g. a link.
type MarkDef struct {
	Key  string `json:"_key"`
	Type string `json:"_type"`
	Href string `json:"href,omitempty"`
}

// ImageBlock is an inline image with its resolved asset URL.
type ImageBlock struct {
	Key     string `json:"_key,omitempty"`
	URL     string `json:"url"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// NewTextBlock builds a plain paragraph block from text.
func NewTextBlock(style, text string) Block {
	return Block{Kind: KindText, Text: &TextBlock{
		Style:    style,
		Children: []Span{{Type: "span", Text: text}},
	}}
}

// NewImageBlock builds an image block.
func NewImageBlock(src, alt string) Block {
	return Block{Kind: KindImage, Image: &ImageBlock{URL: src, Alt: alt}}
}

func (b *Block) UnmarshalJSON(data []byte) error {
	var head struct {
		Type BlockKind `json:"_type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("decode block: %w", err)
	}
	*b = Block{Kind: head.Type}
	switch head.Type {
	case KindText:
		var t TextBlock
		if err := json.Unmarshal(data, &t); err != nil {
			return fmt.Errorf("decode text block: %w", err)
		}
		b.Text = &t
	case KindImage:
		var img ImageBlock
		if err := json.Unmarshal(data, &img); err != nil {
			return fmt.Errorf("decode image block: %w", err)
		}
		b.Image = &img
	default:
		b.Raw = append(json.RawMessage(nil), data...)
	}
	return nil
}

func (b Block) MarshalJSON() ([]byte, error) {
	switch {
	case b.Kind == KindText && b.Text != nil:
		return json.Marshal(struct {
			Type BlockKind `json:"_type"`
			*TextBlock
		}{b.Kind, b.Text})
	case b.Kind == KindImage && b.Image != nil:
		return json.Marshal(struct {
			Type BlockKind `json:"_type"`
			*ImageBlock
		}{b.Kind, b.Image})
	case len(b.Raw) > 0:
		return b.Raw, nil
	}
	return json.Marshal(struct {
		Type BlockKind `json:"_type"`
	}{b.Kind})
}
