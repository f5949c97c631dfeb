package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"booklog/internal/amqp"
	"booklog/internal/catalog"
	"booklog/internal/cli"
	apphttp "booklog/internal/http"
	"booklog/internal/log"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calendar over HTTP",
	Long: `Serve the calendar, the month detail pages and the HTMX partials.

The catalog is reloaded when the JSON data file changes (WATCH_DATA) and
when a reload message arrives on the AMQP exchange (AMQP_URL).`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := cli.SignalContext(cmd.Context(), logger)
	defer cancel()

	cat, res, err := cli.OpenCatalog(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Close(); err != nil {
			logger.Error("Failed to close backend", log.FieldError, err)
		}
	}()

	srv := apphttp.NewServer(":"+cfg.Port, cat, apphttp.Options{
		CoversDir:          cfg.CoversDir,
		Location:           cfg.Location(),
		SwipeThreshold:     cfg.SwipeThreshold,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		CacheSize:          cfg.CacheSize,
		CacheTTL:           cfg.CacheTTL,
		Logger:             logger,
	})

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting booklog server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server on port %s: %w", cfg.Port, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		logger.Info("Server stopped gracefully")
		return nil
	})

	if cfg.WatchData && res.WatchPath != "" {
		w := catalog.WatchCatalog(cat, res.WatchPath, logger)
		g.Go(func() error {
			if err := w.Run(gctx); err != nil {
				logger.Warn("File watcher stopped", log.FieldError, err)
			}
			return nil
		})
	}

	if cfg.AMQPEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			logger.Warn("AMQP unavailable, reload messages disabled", log.FieldError, err)
		} else {
			defer client.Close()
			g.Go(func() error {
				return client.ConsumeReloads(gctx, func(ctx context.Context, msg *amqp.CatalogReloadMessage) error {
					cat.Reload(ctx, "amqp:"+msg.Source)
					return nil
				})
			})
		}
	}

	return g.Wait()
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
