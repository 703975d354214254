package blog

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Service runs the fixed query batches behind the listing and detail pages.
// Each batch is fanned out concurrently and joined; any failure fails the
// whole batch.
type Service struct {
	repo Repository
}

// NewService creates a Service reading from repo.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Listing fetches the filtered posts, the featured post and the category set.
func (s *Service) Listing(ctx context.Context, f Filter) (*Listing, error) {
	var (
		posts      []PostSummary
		featured   *PostSummary
		categories []string
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = s.repo.ListPosts(ctx, f)
		if err != nil {
			return fmt.Errorf("list posts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		featured, err = s.repo.FeaturedPost(ctx)
		if err != nil {
			return fmt.Errorf("featured post: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = s.repo.Categories(ctx)
		if err != nil {
			return fmt.Errorf("categories: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Listing{
		Filter:     f,
		Posts:      posts,
		Featured:   featured,
		Categories: distinctSorted(categories),
	}, nil
}

// Detail fetches the metadata and content projections of slug. When both are
// missing it returns ErrNotFound; when only one is missing it returns the
// partial Detail together with ErrInconsistent.
func (s *Service) Detail(ctx context.Context, slug string) (*Detail, error) {
	var (
		meta *PostMeta
		post *PostDetail
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		meta, err = s.repo.PostMeta(gctx, slug)
		if err != nil {
			return fmt.Errorf("post meta %q: %w", slug, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		post, err = s.repo.PostDetail(gctx, slug)
		if err != nil {
			return fmt.Errorf("post detail %q: %w", slug, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := &Detail{Slug: slug, Meta: meta, Post: post}
	switch {
	case meta == nil && post == nil:
		return d, fmt.Errorf("%w: %q", ErrNotFound, slug)
	case meta == nil || post == nil:
		return d, fmt.Errorf("%w: %q (meta=%t content=%t)", ErrInconsistent, slug, meta != nil, post != nil)
	}
	return d, nil
}

func distinctSorted(in []string) []string {
	out := make([]string, 0, len(in))
	for _, c := range in {
		if c != "" {
			out = append(out, c)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
