package site

import (
	"context"
	"fmt"

	"github.com/famedia/site/blog"
	"github.com/famedia/site/cache"
	"github.com/famedia/site/sanity"
	"github.com/famedia/site/store"
)

func (a *App) openRepository(ctx context.Context) (blog.Repository, error) {
	switch a.Config.Content.Backend {
	case "sqlite":
		s, err := store.New(a.Config.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("site: open store: %w", err)
		}
		a.closers = append(a.closers, s)
		return s, nil
	default:
		c, err := a.openCache(ctx)
		if err != nil {
			return nil, err
		}
		client := a.SanityClient(sanity.WithCache(c))
		return sanity.NewRepository(client, a.Config.Content.Revalidate), nil
	}
}

// SanityClient builds a query client for the configured project.
func (a *App) SanityClient(opts ...sanity.Option) *sanity.Client {
	opts = append([]sanity.Option{sanity.WithLogger(a.Log.With().Str("component", "sanity").Logger())}, opts...)
	return sanity.NewClient(a.Config.Content.Sanity(), opts...)
}

func (a *App) openCache(ctx context.Context) (cache.Store, error) {
	switch a.Config.Cache.Backend {
	case "redis":
		r, err := cache.NewRedis(ctx, a.Config.Cache.RedisURL, a.Config.Cache.Prefix)
		if err != nil {
			return nil, fmt.Errorf("site: connect redis: %w", err)
		}
		a.closers = append(a.closers, r)
		return r, nil
	default:
		m, err := cache.NewMemory(a.Config.Cache.Size)
		if err != nil {
			return nil, fmt.Errorf("site: memory cache: %w", err)
		}
		a.closers = append(a.closers, m)
		return m, nil
	}
}
