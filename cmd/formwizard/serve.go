package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/internal/metrics"
	"github.com/goliatone/go-formwizard/internal/server"
	"github.com/goliatone/go-formwizard/pkg/renderers/vanilla"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the wizard over HTTP",
	Long: `Serves the server-rendered wizard on GET / and POST /wizard, with
/healthz, /metrics and the bundled stylesheet under /assets.

Submissions are posted to predict.url (or the definition endpoint), cached
according to cache.driver and rate limited per client IP.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	def, err := loadDefinition(ctx)
	if err != nil {
		return err
	}

	store, closeStore, err := openCache(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	themes, err := vanilla.NewThemeSelector(cfg.Theme.Name, cfg.Theme.Variant)
	if err != nil {
		return err
	}

	options := []server.Option{
		server.WithLogger(logger),
		server.WithMetrics(metrics.New()),
		server.WithThemeSelector(themes),
		server.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		server.WithCSRF(cfg.Server.CSRF),
		server.WithPredictor(server.NewPredictor(server.PredictorConfig{
			Endpoint: predictURL(def),
			Timeout:  cfg.Predict.Timeout,
			Store:    store,
			TTL:      cfg.Cache.TTL,
		}, logger)),
	}
	if store != nil {
		options = append(options, server.WithCache(store))
	}
	if cfg.RateLimit.Capacity > 0 {
		options = append(options, server.WithRateLimiter(server.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Window)))
	}

	srv, err := server.New(def, options...)
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", shutdownTimeout()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return <-errCh
}
