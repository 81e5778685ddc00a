package fetcher

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"helios-dashboard/internal/domain"
	"helios-dashboard/internal/observability"
	"helios-dashboard/internal/storage"
)

// Kind classifies a fetch failure.
type Kind int

const (
	// KindConnectivity covers unreachable databases, rejected credentials and schema mismatches.
	KindConnectivity Kind = iota
	// KindNotFound covers a missing sensor, actuator or config.
	KindNotFound
	// KindMalformed covers parameters rejected before or by the query.
	KindMalformed
)

// String returns the kind label used in logs and metrics.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindMalformed:
		return "malformed_input"
	default:
		return "connectivity"
	}
}

// Diagnostic describes a fetch that returned an empty result instead of data.
type Diagnostic struct {
	Op      string
	Kind    Kind
	Message string
	Err     error
}

// classify maps a storage error to a Kind.
func classify(err error) Kind {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return KindNotFound
	case errors.Is(err, domain.ErrMalformedInput), errors.Is(err, storage.ErrInvalidInput):
		return KindMalformed
	default:
		return KindConnectivity
	}
}

func newDiagnostic(op string, err error) Diagnostic {
	kind := classify(err)
	msg := err.Error()
	if kind == KindConnectivity {
		msg = "database unavailable: " + msg
	}
	return Diagnostic{Op: op, Kind: kind, Message: msg, Err: err}
}

// Reporter receives diagnostics.
type Reporter interface {
	Report(ctx context.Context, d Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ctx context.Context, d Diagnostic)

// Report implements Reporter.
func (f ReporterFunc) Report(ctx context.Context, d Diagnostic) {
	f(ctx, d)
}

// LogReporter writes diagnostics to a structured logger.
// Connectivity problems log at error level, the rest at info.
type LogReporter struct {
	Logger *slog.Logger
}

// Report implements Reporter.
func (r LogReporter) Report(ctx context.Context, d Diagnostic) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelInfo
	if d.Kind == KindConnectivity {
		level = slog.LevelError
	}
	logger.Log(ctx, level, "fetch returned no data", "op", d.Op, "kind", d.Kind.String(), "error", d.Message)
}

// Collector keeps diagnostics in memory so a response can surface them.
type Collector struct {
	mu    sync.Mutex
	items []Diagnostic
}

// Report implements Reporter.
func (c *Collector) Report(_ context.Context, d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, d)
}

// Diagnostics returns a copy of the collected diagnostics.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// Multi fans a diagnostic out to several reporters.
type Multi []Reporter

// Report implements Reporter.
func (m Multi) Report(ctx context.Context, d Diagnostic) {
	for _, r := range m {
		if r != nil {
			r.Report(ctx, d)
		}
	}
}

// metricsReporter counts diagnostics.
type metricsReporter struct{}

func (metricsReporter) Report(_ context.Context, d Diagnostic) {
	observability.RecordDiagnostic(d.Op, d.Kind.String())
}
