package blog

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	posts   []PostSummary
	details map[string]PostDetail
	metas   map[string]PostMeta

	failList bool
	// arrive, when set, is called at the start of every read.
	arrive func()
}

var errBoom = errors.New("boom")

func (m *memRepo) enter() {
	if m.arrive != nil {
		m.arrive()
	}
}

func (m *memRepo) sorted() []PostSummary {
	out := slices.Clone(m.posts)
	slices.SortFunc(out, func(a, b PostSummary) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

func (m *memRepo) ListPosts(ctx context.Context, f Filter) ([]PostSummary, error) {
	m.enter()
	if m.failList {
		return nil, errBoom
	}
	var out []PostSummary
	for _, p := range m.sorted() {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memRepo) FeaturedPost(ctx context.Context) (*PostSummary, error) {
	m.enter()
	s := m.sorted()
	if len(s) == 0 {
		return nil, nil
	}
	return &s[0], nil
}

func (m *memRepo) Categories(ctx context.Context) ([]string, error) {
	m.enter()
	var out []string
	for _, p := range m.posts {
		out = append(out, p.Category)
	}
	return out, nil
}

func (m *memRepo) PostMeta(ctx context.Context, slug string) (*PostMeta, error) {
	m.enter()
	if meta, ok := m.metas[slug]; ok {
		return &meta, nil
	}
	return nil, nil
}

func (m *memRepo) PostDetail(ctx context.Context, slug string) (*PostDetail, error) {
	m.enter()
	if d, ok := m.details[slug]; ok {
		return &d, nil
	}
	return nil, nil
}

func day(n int) time.Time {
	return time.Date(2025, time.January, n, 12, 0, 0, 0, time.UTC)
}

func samplePosts() []PostSummary {
	return []PostSummary{
		{ID: "1", Title: "Design for growth", Category: "Design", Slug: "design-growth", Excerpt: "layouts", CreatedAt: day(3)},
		{ID: "2", Title: "Scaling Go", Category: "Engineering", Slug: "scaling-go", Excerpt: "growth of a service", CreatedAt: day(5)},
		{ID: "3", Title: "Colour systems", Category: "Design", Slug: "colour", Excerpt: "palettes", CreatedAt: day(1)},
		{ID: "4", Title: "Growth loops", Category: "Design", Slug: "growth-loops", Excerpt: "funnels", CreatedAt: day(4)},
	}
}

func slugs(posts []PostSummary) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Slug)
	}
	return out
}

func TestListingAllPostsNewestFirst(t *testing.T) {
	svc := NewService(&memRepo{posts: samplePosts()})

	l, err := svc.Listing(context.Background(), NewFilter("", ""))
	require.NoError(t, err)

	assert.Equal(t, []string{"scaling-go", "growth-loops", "design-growth", "colour"}, slugs(l.Posts))
	require.NotNil(t, l.Featured)
	assert.Equal(t, "scaling-go", l.Featured.Slug)
	assert.Equal(t, []string{"Design", "Engineering"}, l.Categories)
	assert.Equal(t, EmptyNone, l.Empty())
	assert.Empty(t, l.Summary())
}

func TestListingCategoryAndSearchIsCaseSensitive(t *testing.T) {
	svc := NewService(&memRepo{posts: samplePosts()})

	l, err := svc.Listing(context.Background(), NewFilter("Design", "growth"))
	require.NoError(t, err)

	// "Growth loops" only matches with a capital G, so it is excluded.
	assert.Equal(t, []string{"design-growth"}, slugs(l.Posts))
	assert.Equal(t, "scaling-go", l.Featured.Slug, "featured ignores filters")
	assert.Equal(t, `Searching for "growth" in "Design" - 1 result`, l.Summary())
}

func TestListingFeaturedNotExcludedFromPosts(t *testing.T) {
	svc := NewService(&memRepo{posts: samplePosts()})

	l, err := svc.Listing(context.Background(), NewFilter("Engineering", ""))
	require.NoError(t, err)
	assert.Equal(t, []string{"scaling-go"}, slugs(l.Posts))
	assert.Equal(t, "scaling-go", l.Featured.Slug)
}

func TestListingIssuesReadsConcurrently(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(3)
	released := make(chan struct{})
	go func() {
		wg.Wait()
		close(released)
	}()
	repo := &memRepo{posts: samplePosts(), arrive: func() {
		wg.Done()
		select {
		case <-released:
		case <-time.After(2 * time.Second):
		}
	}}

	start := time.Now()
	_, err := NewService(repo).Listing(context.Background(), NewFilter("", ""))
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second, "reads should all be in flight together")
}

func TestListingFailsWhenAnyReadFails(t *testing.T) {
	svc := NewService(&memRepo{posts: samplePosts(), failList: true})

	l, err := svc.Listing(context.Background(), NewFilter("", ""))
	assert.Nil(t, l)
	assert.ErrorIs(t, err, errBoom)
}

func TestListingEmptyReasons(t *testing.T) {
	tests := []struct {
		name   string
		posts  []PostSummary
		filter Filter
		reason EmptyReason
		msg    string
	}{
		{"no posts at all", nil, NewFilter("", ""), EmptyNoPosts, "No blog posts available at the moment."},
		{"no posts at all beats search", nil, NewFilter("Design", "x"), EmptyNoPosts, "No blog posts available at the moment."},
		{"search", samplePosts(), NewFilter("", "zzz"), EmptySearch, `We couldn't find any posts matching "zzz".`},
		{"search in category", samplePosts(), NewFilter("Engineering", "zzz"), EmptySearch, `We couldn't find any posts matching "zzz" in the Engineering category.`},
		{"category", samplePosts(), NewFilter("Marketing", ""), EmptyCategory, `There are no posts in the "Marketing" category yet.`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewService(&memRepo{posts: tt.posts}).Listing(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Empty(t, l.Posts)
			assert.Equal(t, tt.reason, l.Empty())
			assert.Equal(t, tt.msg, l.EmptyMessage())
		})
	}
}

func TestDetail(t *testing.T) {
	p := samplePosts()[0]
	repo := &memRepo{
		posts:   samplePosts(),
		metas:   map[string]PostMeta{p.Slug: {Title: p.Title, Slug: p.Slug}, "meta-only": {Title: "Ghost"}},
		details: map[string]PostDetail{p.Slug: {PostSummary: p}, "content-only": {}},
	}
	svc := NewService(repo)

	t.Run("found", func(t *testing.T) {
		d, err := svc.Detail(context.Background(), p.Slug)
		require.NoError(t, err)
		assert.Equal(t, p.Title, d.Meta.Title)
		assert.Equal(t, p.Slug, d.Post.Slug)
	})

	t.Run("missing", func(t *testing.T) {
		d, err := svc.Detail(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrNotFound)
		require.NotNil(t, d)
		assert.Nil(t, d.Meta)
		assert.Nil(t, d.Post)
	})

	for _, slug := range []string{"meta-only", "content-only"} {
		t.Run(slug, func(t *testing.T) {
			_, err := svc.Detail(context.Background(), slug)
			assert.ErrorIs(t, err, ErrInconsistent)
			assert.NotErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestNewFilter(t *testing.T) {
	assert.Equal(t, Filter{Category: AllCategories}, NewFilter("", "   "))
	assert.Equal(t, Filter{Category: "Design", Search: "go"}, NewFilter("Design", "  go "))
	assert.False(t, NewFilter("all", "").Active())
	assert.True(t, NewFilter("all", "x").Active())
}
