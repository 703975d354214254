package blog

import "strings"

// AllCategories is the category wildcard.
const AllCategories = "all"

// Filter narrows the listing. Category is either AllCategories or an exact
// label; an empty Search means no search.
type Filter struct {
	Category string
	Search   string
}

// NewFilter builds a Filter from raw request values. The category is passed
// through verbatim except that an empty value means AllCategories; search is
// trimmed.
func NewFilter(category, search string) Filter {
	if category == "" {
		category = AllCategories
	}
	return Filter{Category: category, Search: strings.TrimSpace(search)}
}

// HasCategory reports whether a specific category is selected.
func (f Filter) HasCategory() bool {
	return f.Category != "" && f.Category != AllCategories
}

// HasSearch reports whether a search token is present.
func (f Filter) HasSearch() bool {
	return f.Search != ""
}

// Active reports whether the filter narrows the listing at all.
func (f Filter) Active() bool {
	return f.HasCategory() || f.HasSearch()
}

// Match reports whether p passes the filter: same category unless the
// wildcard is selected, and title or excerpt containing the search token
// (case-sensitive substring).
func (f Filter) Match(p PostSummary) bool {
	if f.HasCategory() && p.Category != f.Category {
		return false
	}
	if f.HasSearch() && !strings.Contains(p.Title, f.Search) && !strings.Contains(p.Excerpt, f.Search) {
		return false
	}
	return true
}
