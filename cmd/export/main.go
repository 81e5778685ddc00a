// Package main exports one dashboard selection as CSV, PNG or Markdown.
//
// Usage:
//
//	export -mode series  -config CFG-1001 -sensor Thermocouple1 -format csv -out tc1.csv
//	export -mode sensors -config CFG-1001 -sensor Thermocouple1,Pressure1 -format png -out cmp.png
//	export -mode tests   -config CFG-1001,CFG-1002 -sensor Thermocouple1 -format md
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"helios-dashboard/internal/app"
	"helios-dashboard/internal/cache"
	"helios-dashboard/internal/config"
	"helios-dashboard/internal/domain"
	"helios-dashboard/internal/export"
	"helios-dashboard/internal/fetcher"
	"helios-dashboard/internal/fixtures"
	"helios-dashboard/internal/plot"
	"helios-dashboard/internal/view"
)

// Export modes.
const (
	modeSeries  = "series"
	modeSensors = "sensors"
	modeTests   = "tests"
)

type options struct {
	mode    string
	configs []string
	sensors []string
	start   string
	end     string
	format  string
	out     string
	demo    bool
}

func main() {
	if err := config.LoadEnvFiles(); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.FromEnv(os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid environment: %v\n", err)
		os.Exit(1)
	}
	cfg.RegisterFlags(flag.CommandLine)

	var opts options
	var configs, sensors string
	flag.StringVar(&opts.mode, "mode", modeSeries, "Selection mode: series, sensors or tests")
	flag.StringVar(&configs, "config", "", "Comma-separated config ids")
	flag.StringVar(&sensors, "sensor", "", "Comma-separated sensor names")
	flag.StringVar(&opts.start, "start", "", "Range start (YYYY-MM-DD HH:MM:SS, UTC)")
	flag.StringVar(&opts.end, "end", "", "Range end (YYYY-MM-DD HH:MM:SS, UTC)")
	flag.StringVar(&opts.format, "format", "csv", "Output format: csv, png or md")
	flag.StringVar(&opts.out, "out", "-", "Output file (- for stdout)")
	flag.BoolVar(&opts.demo, "demo", false, "Export from in-memory demo fixtures")
	flag.Parse()

	opts.configs = split(configs)
	opts.sensors = split(sensors)
	if opts.demo {
		cfg.UseMemory = true
	}

	logger := config.NewLogger(os.Stderr, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.QueryTimeout)
	defer cancel()

	if err := run(ctx, cfg, opts, logger); err != nil {
		logger.Error("export failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, opts options, logger *slog.Logger) error {
	rng, err := domain.ParseTimeRange(opts.start, opts.end)
	if err != nil {
		return err
	}
	req := domain.ViewRequest{
		ConfigIDs:   opts.configs,
		SensorNames: opts.sensors,
		Range:       rng,
		Window:      cfg.Window,
	}

	backend, err := app.OpenBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	if opts.demo {
		if _, err := fixtures.LoadFixtures(ctx, backend.Catalog, backend.Samples, fixtures.DefaultOptions); err != nil {
			return err
		}
	}

	// Diagnostics go to the default logger.
	c := cache.New(cache.NewMemoryStore(), logger)
	views := view.NewService(backend.Fetcher(fetcher.WithCache(c)), c, logger)

	var buf bytes.Buffer
	if err := render(ctx, views, req, opts, &buf); err != nil {
		return err
	}
	return write(opts.out, &buf)
}

func render(ctx context.Context, views *view.Service, req domain.ViewRequest, opts options, w io.Writer) error {
	var (
		frames     []domain.SeriesFrame
		normalized *domain.NormalizedComparisonFrame
		skipped    []string
		summary    func() *export.Summary
	)

	switch opts.mode {
	case modeSeries:
		res, err := views.SensorView(ctx, req)
		if err != nil {
			return err
		}
		frames = []domain.SeriesFrame{res.Frame}
		summary = func() *export.Summary {
			return export.BuildSummary(frames, nil, req.EffectiveWindow(), req.Range, time.Now())
		}
	case modeSensors, modeTests:
		var (
			res *view.Comparison
			err error
		)
		if opts.mode == modeSensors {
			res, err = views.CompareSensors(ctx, req)
		} else {
			res, err = views.CompareTests(ctx, req)
		}
		if err != nil {
			return err
		}
		if opts.mode == modeTests {
			normalized = &res.Normalized
		}
		frames = res.Frames
		for _, l := range res.Skipped {
			skipped = append(skipped, l.String())
		}
		summary = func() *export.Summary {
			return export.BuildSummary(frames, res.Skipped, req.EffectiveWindow(), req.Range, time.Now())
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", domain.ErrMalformedInput, opts.mode)
	}

	if len(skipped) > 0 {
		slog.Warn("selections without data were skipped", "skipped", strings.Join(skipped, "; "))
	}

	switch opts.format {
	case "csv":
		if normalized != nil {
			return export.WriteNormalized(w, *normalized)
		}
		return export.WriteSeries(w, frames...)
	case "png":
		if normalized != nil {
			return plot.RenderNormalized(w, plot.Options{Title: "Test comparison"}, *normalized)
		}
		return plot.RenderSeries(w, plot.Options{}, frames...)
	case "md":
		_, err := io.WriteString(w, export.RenderMarkdown(summary()))
		return err
	default:
		return fmt.Errorf("%w: unknown format %q", domain.ErrMalformedInput, opts.format)
	}
}

func write(path string, buf *bytes.Buffer) error {
	if path == "" || path == "-" {
		_, err := buf.WriteTo(os.Stdout)
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func split(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
