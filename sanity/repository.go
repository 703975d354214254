package sanity

import (
	"context"
	"time"

	"github.com/famedia/site/blog"
)

// DefaultRevalidate is the freshness budget applied to every blog query.
const DefaultRevalidate = 30 * time.Second

// Fetcher runs a single query. *Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, q Query, out any) error
}

// Repository implements blog.Repository with GROQ queries.
type Repository struct {
	fetcher    Fetcher
	revalidate time.Duration
}

var _ blog.Repository = (*Repository)(nil)

// NewRepository creates a Repository whose queries stay fresh for
// revalidate; zero selects DefaultRevalidate.
func NewRepository(f Fetcher, revalidate time.Duration) *Repository {
	if revalidate == 0 {
		revalidate = DefaultRevalidate
	}
	return &Repository{fetcher: f, revalidate: revalidate}
}

func (r *Repository) query(groq string, params map[string]any) Query {
	return Query{GROQ: groq, Params: params, Revalidate: r.revalidate}
}

func (r *Repository) ListPosts(ctx context.Context, f blog.Filter) ([]blog.PostSummary, error) {
	var search any
	if f.HasSearch() {
		search = f.Search
	}
	category := f.Category
	if category == "" {
		category = blog.AllCategories
	}
	var posts []blog.PostSummary
	err := r.fetcher.Fetch(ctx, r.query(postsQuery, map[string]any{
		"category": category,
		"search":   search,
	}), &posts)
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *Repository) FeaturedPost(ctx context.Context) (*blog.PostSummary, error) {
	var post *blog.PostSummary
	if err := r.fetcher.Fetch(ctx, r.query(featuredQuery, nil), &post); err != nil {
		return nil, err
	}
	return post, nil
}

func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := r.fetcher.Fetch(ctx, r.query(categoriesQuery, nil), &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *Repository) PostMeta(ctx context.Context, slug string) (*blog.PostMeta, error) {
	var meta *blog.PostMeta
	if err := r.fetcher.Fetch(ctx, r.query(metaQuery, map[string]any{"slug": slug}), &meta); err != nil {
		return nil, err
	}
	return meta, nil
}

func (r *Repository) PostDetail(ctx context.Context, slug string) (*blog.PostDetail, error) {
	var post *blog.PostDetail
	if err := r.fetcher.Fetch(ctx, r.query(detailQuery, map[string]any{"slug": slug}), &post); err != nil {
		return nil, err
	}
	return post, nil
}

// AllPosts returns every post with its full content, newest first. It is
// used to mirror the dataset and bypasses the cache.
func (r *Repository) AllPosts(ctx context.Context) ([]blog.PostDetail, error) {
	var posts []blog.PostDetail
	if err := r.fetcher.Fetch(ctx, Query{GROQ: allPostsQuery}, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
