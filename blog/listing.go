package blog

import "fmt"

// Listing is the joined result of the three listing reads. The featured post
// is not removed from Posts.
type Listing struct {
	Filter     Filter
	Posts      []PostSummary
	Featured   *PostSummary
	Categories []string
}

// EmptyReason explains why a listing has no posts.
type EmptyReason int

const (
	EmptyNone EmptyReason = iota
	EmptyNoPosts
	EmptySearch
	EmptyCategory
)

// Empty classifies an empty listing. A missing featured post means the store
// holds no posts at all, which wins over any active filter.
func (l *Listing) Empty() EmptyReason {
	switch {
	case len(l.Posts) > 0:
		return EmptyNone
	case l.Featured == nil:
		return EmptyNoPosts
	case l.Filter.HasSearch():
		return EmptySearch
	case l.Filter.HasCategory():
		return EmptyCategory
	}
	return EmptyNoPosts
}

// EmptyMessage is the user-facing text for the empty state, or "" when the
// listing has posts.
func (l *Listing) EmptyMessage() string {
	switch l.Empty() {
	case EmptySearch:
		msg := fmt.Sprintf("We couldn't find any posts matching %q", l.Filter.Search)
		if l.Filter.HasCategory() {
			msg += fmt.Sprintf(" in the %s category", l.Filter.Category)
		}
		return msg + "."
	case EmptyCategory:
		return fmt.Sprintf("There are no posts in the %q category yet.", l.Filter.Category)
	case EmptyNoPosts:
		return "No blog posts available at the moment."
	}
	return ""
}

// Summary describes the active filter and result count, e.g.
// `Searching for "go" in "Design" - 2 results`. It is "" without a filter.
func (l *Listing) Summary() string {
	if !l.Filter.Active() {
		return ""
	}
	var s string
	if l.Filter.HasSearch() {
		s = fmt.Sprintf("Searching for %q ", l.Filter.Search)
	}
	if l.Filter.HasCategory() {
		s += fmt.Sprintf("in %q ", l.Filter.Category)
	}
	noun := "results"
	if len(l.Posts) == 1 {
		noun = "result"
	}
	return fmt.Sprintf("%s- %d %s", s, len(l.Posts), noun)
}

// Detail is the joined result of the two detail reads.
type Detail struct {
	Slug string
	Meta *PostMeta
	Post *PostDetail
}
