// Package main serves the sensor dashboard API:
// - JSON views of single sensors, sensor comparisons and test comparisons
// - CSV, PNG and Markdown downloads of the same views
// - Prometheus metrics and a health check
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"helios-dashboard/internal/app"
	"helios-dashboard/internal/cache"
	"helios-dashboard/internal/config"
	"helios-dashboard/internal/fixtures"
	"helios-dashboard/internal/server"
	"helios-dashboard/internal/view"
)

func main() {
	if err := config.LoadEnvFiles(); err != nil {
		slog.Error("load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.FromEnv(os.Getenv)
	if err != nil {
		slog.Error("invalid environment", "error", err)
		os.Exit(1)
	}
	cfg.RegisterFlags(flag.CommandLine)
	demo := flag.Bool("demo", false, "Load demo fixtures into in-memory storage (implies --use-memory)")
	secureCookie := flag.Bool("secure-cookie", false, "Mark the session cookie Secure")
	flag.Parse()

	if *demo {
		cfg.UseMemory = true
	}

	logger := config.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, *demo, *secureCookie, logger); err != nil {
		logger.Error("dashboard stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func run(ctx context.Context, cfg config.Config, demo, secureCookie bool, logger *slog.Logger) error {
	backend, err := app.OpenBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	if demo {
		ds, err := fixtures.LoadFixtures(ctx, backend.Catalog, backend.Samples, fixtures.DefaultOptions)
		if err != nil {
			return err
		}
		logger.Info("loaded demo fixtures", "configs", len(ds.Configs), "sensors", len(ds.Sensors), "samples", len(ds.Samples))
	}

	store, closeStore, err := app.OpenCacheStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	sessions := cache.NewSessions(store, logger)
	views := view.NewService(backend.Fetcher(), nil, logger)
	srv := server.New(views, sessions, server.Options{
		QueryTimeout:  cfg.QueryTimeout,
		DefaultWindow: cfg.Window,
		SecureCookie:  secureCookie,
		Logger:        logger,
	})

	go srv.ExpireSessions(ctx, cfg.SessionIdle/2, cfg.SessionIdle)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", cfg.HTTPAddr, "backend", backend.Name, "window", cfg.Window)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal, draining requests")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
