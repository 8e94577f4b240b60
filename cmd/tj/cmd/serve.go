package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON HTTP API",
	Long: `Serve the trade journal over HTTP until interrupted.

Routes:
  /api/trades            list, create, delete all
  /api/trades/{id}       get, patch, delete
  /api/settings          get, save
  /api/discipline        limit checks for today and this week
  /api/analytics/...     stats, equity, distribution, days, calendar,
                         heatmap, mistakes, performance
  /healthz, /metrics

Example:
  tj serve --addr :5000 --store sqlite --path journal.db`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "override server.addr")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx)
}

func serve(ctx context.Context) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	sc := cfg.Server
	if serveAddr != "" {
		sc.Addr = serveAddr
	}
	log.Info().Str("storage", cfg.Storage.Type).Msg("starting journal server")
	return server.New(store, sc, log, server.WithDiscipline(cfg.Discipline)).Serve(ctx)
}
