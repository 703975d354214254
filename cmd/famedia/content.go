package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	site "github.com/famedia/site"
	"github.com/famedia/site/cache"
	"github.com/famedia/site/sanity"
	"github.com/famedia/site/store"
)

var seedReplace bool

var seedCmd = &cobra.Command{
	Use:   "seed <file.json>",
	Short: "Load fixture posts into the SQLite mirror",
	Long: `seed reads a JSON array of posts, shaped like the Sanity detail projection,
and upserts them into the mirror at DATABASE_PATH. With --replace the mirror
is emptied first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		posts, err := store.ReadFixtures(f)
		if err != nil {
			return err
		}

		s, err := store.New(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		if seedReplace {
			err = s.ReplaceAll(ctx, posts)
		} else {
			for _, p := range posts {
				if err = s.SavePost(ctx, p); err != nil {
					break
				}
			}
		}
		if err != nil {
			return err
		}
		log.Info().Int("posts", len(posts)).Str("db", cfg.DatabasePath).Bool("replace", seedReplace).Msg("seeded mirror")
		return nil
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Copy every post from Sanity into the SQLite mirror",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Content.ProjectID == "" {
			return fmt.Errorf("sync: SANITY_PROJECT_ID is not set")
		}
		app := site.New(cfg, site.ViewFuncs{}, log)
		repo := sanity.NewRepository(app.SanityClient(), cfg.Content.Revalidate)

		ctx := cmd.Context()
		posts, err := repo.AllPosts(ctx)
		if err != nil {
			return fmt.Errorf("sync: fetch posts: %w", err)
		}

		s, err := store.New(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.ReplaceAll(ctx, posts); err != nil {
			return fmt.Errorf("sync: write mirror: %w", err)
		}
		log.Info().Int("posts", len(posts)).Str("db", cfg.DatabasePath).Msg("mirror synced")
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <slug>",
	Short: "Remove a post from the SQLite mirror",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.New(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.DeletePost(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete %q: %w", args[0], err)
		}
		log.Info().Str("slug", args[0]).Str("db", cfg.DatabasePath).Msg("post deleted")
		return nil
	},
}

var flushCacheCmd = &cobra.Command{
	Use:   "flush-cache",
	Short: "Drop every cached content query from Redis",
	Long: `flush-cache deletes the keys under REDIS_PREFIX so the next requests read
fresh content from Sanity. The in-memory cache lives in the server process and
is not reachable from here.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Cache.Backend != "redis" {
			return fmt.Errorf("flush-cache: CACHE_BACKEND is %q, only redis is shared", cfg.Cache.Backend)
		}
		ctx := cmd.Context()
		r, err := cache.NewRedis(ctx, cfg.Cache.RedisURL, cfg.Cache.Prefix)
		if err != nil {
			return err
		}
		defer r.Close()
		if err := r.Clear(ctx); err != nil {
			return fmt.Errorf("flush-cache: %w", err)
		}
		log.Info().Str("prefix", cfg.Cache.Prefix).Msg("content cache flushed")
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedReplace, "replace", false, "empty the mirror before loading")
}
