package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	site "github.com/famedia/site"
	"github.com/famedia/site/views"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddr != "" {
			cfg.Addr = serveAddr
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app := site.New(cfg, views.Funcs(), log, site.WithStaticFS(views.Public()))
		defer func() {
			if err := app.Close(); err != nil {
				log.Error().Err(err).Msg("close backend")
			}
		}()
		return app.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides ADDR)")
}
