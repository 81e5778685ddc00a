// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Cache metrics
	CacheHits    *prometheus.CounterVec
	CacheMisses  *prometheus.CounterVec
	CacheErrors  *prometheus.CounterVec
	CacheSkipped *prometheus.CounterVec
	Sessions     prometheus.Gauge

	// Fetch diagnostics
	Diagnostics *prometheus.CounterVec

	// Processing metrics
	ProcessingDuration *prometheus.HistogramVec
	PointsProcessed    prometheus.Counter

	// HTTP metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Export metrics
	RowsExported  *prometheus.CounterVec
	PlotsRendered prometheus.Counter

	// Health metrics
	LastSuccessfulQuery prometheus.Gauge
}

// NewMetrics creates a new Metrics instance registered with the default registry.
func NewMetrics(namespace string) *Metrics {
	return NewMetricsWith(namespace, prometheus.DefaultRegisterer)
}

// NewMetricsWith creates a new Metrics instance registered with reg.
// Tests pass a fresh prometheus.NewRegistry() to avoid duplicate registration.
func NewMetricsWith(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "helios_dashboard"
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Database metrics
		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Cache metrics
		CacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total number of result cache hits by query shape",
		}, []string{"shape"}),
		CacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total number of result cache misses by query shape",
		}, []string{"shape"}),
		CacheErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "backend_errors_total",
			Help:      "Total number of cache backend failures by operation",
		}, []string{"operation"}),
		CacheSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "bypassed_total",
			Help:      "Total number of lookups that bypassed the cache by query shape",
		}, []string{"shape"}),
		Sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "sessions",
			Help:      "Number of live cache sessions",
		}),

		// Fetch diagnostics
		Diagnostics: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetcher",
			Name:      "diagnostics_total",
			Help:      "Total number of fetch diagnostics by operation and kind",
		}, []string{"operation", "kind"}),

		// Processing metrics
		ProcessingDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "series",
			Name:      "processing_duration_seconds",
			Help:      "Series processing duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"operation"}),
		PointsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "series",
			Name:      "points_processed_total",
			Help:      "Total number of series points smoothed",
		}),

		// HTTP metrics
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status",
		}, []string{"route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		// Export metrics
		RowsExported: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "rows_total",
			Help:      "Total number of CSV rows written by layout",
		}, []string{"layout"}),
		PlotsRendered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "plots_rendered_total",
			Help:      "Total number of PNG plots rendered",
		}),

		// Health metrics
		LastSuccessfulQuery: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_query_timestamp",
			Help:      "Unix timestamp of last successful database query",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
		return
	}
	DefaultMetrics.LastSuccessfulQuery.Set(float64(time.Now().Unix()))
}

// RecordCacheLookup records a cache hit or miss for a query shape.
func RecordCacheLookup(shape string, hit bool) {
	if hit {
		DefaultMetrics.CacheHits.WithLabelValues(shape).Inc()
		return
	}
	DefaultMetrics.CacheMisses.WithLabelValues(shape).Inc()
}

// RecordCacheBypass records a lookup that skipped the cache.
func RecordCacheBypass(shape string) {
	DefaultMetrics.CacheSkipped.WithLabelValues(shape).Inc()
}

// RecordCacheError records a cache backend failure.
func RecordCacheError(operation string) {
	DefaultMetrics.CacheErrors.WithLabelValues(operation).Inc()
}

// UpdateSessions sets the live session gauge.
func UpdateSessions(n int) {
	DefaultMetrics.Sessions.Set(float64(n))
}

// RecordDiagnostic records a fetch diagnostic.
func RecordDiagnostic(operation, kind string) {
	DefaultMetrics.Diagnostics.WithLabelValues(operation, kind).Inc()
}

// RecordProcessing records series processing latency.
func RecordProcessing(operation string, seconds float64, points int) {
	DefaultMetrics.ProcessingDuration.WithLabelValues(operation).Observe(seconds)
	DefaultMetrics.PointsProcessed.Add(float64(points))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(route string, status int, seconds float64) {
	DefaultMetrics.HTTPRequests.WithLabelValues(route, statusClass(status)).Inc()
	DefaultMetrics.HTTPRequestDuration.WithLabelValues(route).Observe(seconds)
}

// RecordRowsExported records written CSV rows.
func RecordRowsExported(layout string, rows int) {
	DefaultMetrics.RowsExported.WithLabelValues(layout).Add(float64(rows))
}

// RecordPlotRendered increments the rendered plots counter.
func RecordPlotRendered() {
	DefaultMetrics.PlotsRendered.Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
