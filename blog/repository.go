package blog

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no post exists for a slug.
	ErrNotFound = errors.New("blog: post not found")
	// ErrInconsistent is returned when the metadata and content reads for the
	// same slug disagree about whether the post exists.
	ErrInconsistent = errors.New("blog: metadata and content reads disagree")
)

// Repository is the read path against a content store. Single-document
// lookups return a nil pointer and a nil error when nothing matches.
type Repository interface {
	// ListPosts returns the posts passing f, newest first.
	ListPosts(ctx context.Context, f Filter) ([]PostSummary, error)
	// FeaturedPost returns the most recently created post, ignoring filters.
	FeaturedPost(ctx context.Context) (*PostSummary, error)
	// Categories returns the distinct category labels across all posts.
	Categories(ctx context.Context) ([]string, error)
	// PostMeta returns the head-tag projection for slug.
	PostMeta(ctx context.Context, slug string) (*PostMeta, error)
	// PostDetail returns the full document for slug.
	PostDetail(ctx context.Context, slug string) (*PostDetail, error)
}
