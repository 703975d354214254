package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	site "github.com/famedia/site"
	"github.com/famedia/site/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	cfg site.SiteConfig
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "famedia",
	Short: "FA Media website server",
	Long: `famedia serves the FA Media website and its blog.

Configuration is read from the environment and an optional .env file in the
working directory. Posts come from Sanity (CONTENT_BACKEND=sanity) or from a
local SQLite mirror (CONTENT_BACKEND=sqlite) filled by "seed" or "sync".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		var err error
		cfg, err = site.LoadConfig()
		if err != nil {
			return err
		}
		if err := logger.Init(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty}); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		log = logger.Get()
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "famedia %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, seedCmd, syncCmd, deleteCmd, flushCacheCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
