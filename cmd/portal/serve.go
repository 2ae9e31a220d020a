package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpadapter "github.com/PabloGalante/rajbari-portal/internal/adapters/http"
	"github.com/PabloGalante/rajbari-portal/internal/config"
	"github.com/PabloGalante/rajbari-portal/internal/observability"
	"github.com/PabloGalante/rajbari-portal/internal/platform/schedule"
)

func serveCmd(cfgPath *string) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = ":" + cfg.Port
			}
			return serve(cmd.Context(), addr, cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :$PORTAL_PORT)")
	return cmd
}

func serve(parent context.Context, addr string, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := observability.Logger()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.OTLPEndpoint, version)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	tasks := []*schedule.Repeating{{
		Name:     "news_refresh",
		Interval: cfg.NewsRefreshInterval,
		Run: func(ctx context.Context) {
			a.catalog.RefreshHeadlines(ctx)
		},
	}}
	if a.memCache != nil {
		tasks = append(tasks, &schedule.Repeating{
			Name:     "cache_purge",
			Interval: cfg.CachePurgeInterval,
			Run: func(ctx context.Context) {
				if n := a.memCache.Purge(ctx); n > 0 {
					log.Info("purged expired cache entries", "count", n)
				}
			},
		})
	}
	for _, t := range tasks {
		if err := t.Start(ctx); err != nil {
			return fmt.Errorf("starting %s: %w", t.Name, err)
		}
		defer t.Stop()
	}

	srv := &http.Server{
		Addr: addr,
		Handler: httpadapter.NewServer(httpadapter.Services{
			Chat:    a.chat,
			Catalog: a.catalog,
			Tracker: a.tracker,
			Admin:   a.admin,
			Gateway: a.gateway,
		}, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		// Live searches may take up to the search timeout.
		WriteTimeout: cfg.SearchTimeout + 15*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("portal api listening", "addr", addr, "ai_backend", cfg.AIBackend, "storage", cfg.StorageBackend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
