// Package main prepares a dashboard database: applies migrations and loads
// the demo test runs.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"helios-dashboard/internal/app"
	"helios-dashboard/internal/config"
	"helios-dashboard/internal/fixtures"
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

	opts := fixtures.DefaultOptions
	migrateOnly := flag.Bool("migrate-only", false, "Apply migrations without loading fixtures")
	flag.DurationVar(&opts.Interval, "interval", opts.Interval, "Sample spacing of generated runs")
	flag.DurationVar(&opts.Duration, "duration", opts.Duration, "Length of each generated run")
	flag.IntVar(&opts.BatchSize, "batch-size", opts.BatchSize, "Samples per bulk insert")
	flag.Parse()

	logger := config.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	if cfg.UseMemory {
		logger.Error("seeding needs a database; unset USE_MEMORY / --use-memory")
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := run(ctx, cfg, opts, *migrateOnly, logger); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, opts fixtures.Options, migrateOnly bool, logger *slog.Logger) error {
	start := time.Now()
	if err := app.Migrate(ctx, cfg, logger); err != nil {
		return err
	}
	if migrateOnly {
		logger.Info("migrations applied", "duration", time.Since(start))
		return nil
	}

	backend, err := app.OpenBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	ds, err := fixtures.LoadFixtures(ctx, backend.Catalog, backend.Samples, opts)
	if err != nil {
		return err
	}

	logger.Info("seed complete",
		"backend", backend.Name,
		"configs", len(ds.Configs),
		"sensors", len(ds.Sensors),
		"actuators", len(ds.Actuators),
		"samples", len(ds.Samples),
		"duration", time.Since(start),
	)
	return nil
}
