// Package fetcher builds parameterized queries over the storage layer.
//
// Every storage failure stops here: the caller gets an empty result and the
// failure goes to a Reporter as a Diagnostic. Results of successful queries
// are memoized in a cache.Cache keyed by operation and parameters.
package fetcher

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"helios-dashboard/internal/cache"
	"helios-dashboard/internal/domain"
	"helios-dashboard/internal/observability"
	"helios-dashboard/internal/storage"
)

// Query shapes, used as cache key shapes and metric operation labels.
const (
	OpConfigurations  = "configs"
	OpSensorNames     = "sensor_names"
	OpResolveSensor   = "resolve_sensor"
	OpSamples         = "samples"
	OpTimeRange       = "time_range"
	OpActuatorNames   = "actuator_names"
	OpResolveActuator = "resolve_actuator"
	OpActuatorEvents  = "actuator_events"
)

// Stores groups the read-side stores the fetcher queries.
// Actuators may be nil when the database has no actuator tables.
type Stores struct {
	Configs   storage.ConfigStore
	Sensors   storage.SensorStore
	Samples   storage.SampleStore
	Actuators storage.ActuatorStore
}

// Fetcher runs the dashboard's read queries.
// A Fetcher is safe for concurrent use. ForSession, ReportingTo and Bypass return copies.
type Fetcher struct {
	stores   Stores
	cache    *cache.Cache
	reporter Reporter
	backend  string
	bypass   bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithCache memoizes results in c.
func WithCache(c *cache.Cache) Option {
	return func(f *Fetcher) { f.cache = c }
}

// WithReporter sends diagnostics to r in addition to metrics.
func WithReporter(r Reporter) Option {
	return func(f *Fetcher) { f.reporter = r }
}

// WithBackend names the sample backend in metrics ("postgres", "clickhouse", "memory").
func WithBackend(name string) Option {
	return func(f *Fetcher) { f.backend = name }
}

// New creates a Fetcher. Without WithReporter, diagnostics are logged with slog.Default().
func New(stores Stores, opts ...Option) *Fetcher {
	f := &Fetcher{
		stores:   stores,
		reporter: LogReporter{Logger: slog.Default()},
		backend:  "postgres",
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ForSession returns a copy using another cache, typically a session's.
func (f *Fetcher) ForSession(c *cache.Cache) *Fetcher {
	cp := *f
	cp.cache = c
	return &cp
}

// ReportingTo returns a copy reporting to r.
func (f *Fetcher) ReportingTo(r Reporter) *Fetcher {
	cp := *f
	cp.reporter = r
	return &cp
}

// Bypass returns a copy whose list queries (configs and names) skip cached entries
// and refresh them.
func (f *Fetcher) Bypass(on bool) *Fetcher {
	cp := *f
	cp.bypass = on
	return &cp
}

// FetchConfigurations returns all test configurations, most recent date first.
func (f *Fetcher) FetchConfigurations(ctx context.Context) []*domain.TestConfiguration {
	configs, err := cache.GetOrLoad(ctx, f.cache, cache.NewKey(OpConfigurations), f.bypass,
		func(ctx context.Context) ([]*domain.TestConfiguration, error) {
			var out []*domain.TestConfiguration
			err := f.observe(ctx, OpConfigurations, func(ctx context.Context) (err error) {
				out, err = f.stores.Configs.GetAll(ctx)
				return err
			})
			return out, err
		})
	if err != nil {
		f.report(ctx, OpConfigurations, err)
		return nil
	}
	return configs
}

// FetchSensorNames returns the sorted, de-duplicated sensor names.
// With a configID only sensors having at least one sample under it are listed;
// with "" every sensor name across all configurations is.
func (f *Fetcher) FetchSensorNames(ctx context.Context, configID string) []string {
	names, err := cache.GetOrLoad(ctx, f.cache, cache.NewKey(OpSensorNames, configID), f.bypass,
		func(ctx context.Context) ([]string, error) {
			var out []string
			err := f.observe(ctx, OpSensorNames, func(ctx context.Context) error {
				var err error
				if configID == "" {
					out, err = f.stores.Sensors.GetNames(ctx)
					return err
				}
				out, err = f.namesWithSamples(ctx, configID)
				return err
			})
			return sortedUnique(out), err
		})
	if err != nil {
		f.report(ctx, OpSensorNames, err)
		return nil
	}
	return names
}

func (f *Fetcher) namesWithSamples(ctx context.Context, configID string) ([]string, error) {
	sensors, err := f.stores.Sensors.GetByConfigID(ctx, configID)
	if err != nil {
		return nil, err
	}
	if len(sensors) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(sensors))
	byID := make(map[int64]string, len(sensors))
	for i, s := range sensors {
		ids[i] = s.ID
		byID[s.ID] = s.Name
	}

	withData, err := f.stores.Samples.FilterWithSamples(ctx, ids)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(withData))
	for _, id := range withData {
		names = append(names, byID[id])
	}
	return names, nil
}

// ResolveSensorID maps (name, configID) to a sensor id.
// Returns false when no such sensor exists; that is never an error.
// Only successful resolutions are cached.
func (f *Fetcher) ResolveSensorID(ctx context.Context, name, configID string) (int64, bool) {
	return f.resolve(ctx, OpResolveSensor, name, configID, func(ctx context.Context) (int64, error) {
		return f.stores.Sensors.GetID(ctx, name, configID)
	})
}

// FetchSamples returns the samples of a sensor ordered by timestamp.
// A nil range selects the full series; otherwise both bounds are inclusive.
func (f *Fetcher) FetchSamples(ctx context.Context, sensorID int64, r *domain.TimeRange) []*domain.SensorSample {
	samples, err := cache.GetOrLoad(ctx, f.cache, rangedKey(OpSamples, sensorID, r), false,
		func(ctx context.Context) ([]*domain.SensorSample, error) {
			var out []*domain.SensorSample
			err := f.observe(ctx, OpSamples, func(ctx context.Context) (err error) {
				if r == nil {
					out, err = f.stores.Samples.GetBySensorID(ctx, sensorID)
					return err
				}
				out, err = f.stores.Samples.GetByTimeRange(ctx, sensorID, r.StartUnix(), r.EndUnix())
				return err
			})
			return out, err
		})
	if err != nil {
		f.report(ctx, OpSamples, err)
		return nil
	}
	return samples
}

// FetchTimeRange returns the earliest and latest sample timestamps across all
// sensors of a configuration. Returns false when it has no samples.
func (f *Fetcher) FetchTimeRange(ctx context.Context, configID string) (domain.TimeRange, bool) {
	key := cache.NewKey(OpTimeRange, configID)
	if r, ok := cache.Get[domain.TimeRange](ctx, f.cache, key); ok {
		observability.RecordCacheLookup(OpTimeRange, true)
		return r, true
	}

	var r domain.TimeRange
	err := f.observe(ctx, OpTimeRange, func(ctx context.Context) error {
		sensors, err := f.stores.Sensors.GetByConfigID(ctx, configID)
		if err != nil {
			return err
		}
		ids := make([]int64, len(sensors))
		for i, s := range sensors {
			ids[i] = s.ID
		}
		lo, hi, err := f.stores.Samples.GetTimeRange(ctx, ids)
		if err != nil {
			return err
		}
		r = domain.RangeFromUnix(lo, hi)
		return nil
	})
	if err != nil {
		f.report(ctx, OpTimeRange, err)
		return domain.TimeRange{}, false
	}

	cache.Put(ctx, f.cache, key, r)
	return r, true
}

// FetchActuatorNames returns the sorted actuator names of a configuration
// ("" lists every configuration).
func (f *Fetcher) FetchActuatorNames(ctx context.Context, configID string) []string {
	if f.stores.Actuators == nil {
		return nil
	}
	names, err := cache.GetOrLoad(ctx, f.cache, cache.NewKey(OpActuatorNames, configID), f.bypass,
		func(ctx context.Context) ([]string, error) {
			var out []string
			err := f.observe(ctx, OpActuatorNames, func(ctx context.Context) (err error) {
				out, err = f.stores.Actuators.GetNames(ctx, configID)
				return err
			})
			return sortedUnique(out), err
		})
	if err != nil {
		f.report(ctx, OpActuatorNames, err)
		return nil
	}
	return names
}

// ResolveActuatorID maps (name, configID) to an actuator id. Returns false when absent.
func (f *Fetcher) ResolveActuatorID(ctx context.Context, name, configID string) (int64, bool) {
	if f.stores.Actuators == nil {
		return 0, false
	}
	return f.resolve(ctx, OpResolveActuator, name, configID, func(ctx context.Context) (int64, error) {
		return f.stores.Actuators.GetID(ctx, name, configID)
	})
}

// FetchActuatorEvents returns an actuator's events ordered by timestamp.
// A nil range selects all events.
func (f *Fetcher) FetchActuatorEvents(ctx context.Context, actuatorID int64, r *domain.TimeRange) []*domain.ActuatorEvent {
	if f.stores.Actuators == nil {
		return nil
	}
	events, err := cache.GetOrLoad(ctx, f.cache, rangedKey(OpActuatorEvents, actuatorID, r), false,
		func(ctx context.Context) ([]*domain.ActuatorEvent, error) {
			var out []*domain.ActuatorEvent
			err := f.observe(ctx, OpActuatorEvents, func(ctx context.Context) (err error) {
				if r == nil {
					out, err = f.stores.Actuators.GetEvents(ctx, actuatorID)
					return err
				}
				out, err = f.stores.Actuators.GetEventsByTimeRange(ctx, actuatorID, r.StartUnix(), r.EndUnix())
				return err
			})
			return out, err
		})
	if err != nil {
		f.report(ctx, OpActuatorEvents, err)
		return nil
	}
	return events
}

func (f *Fetcher) resolve(ctx context.Context, op, name, configID string, lookup func(context.Context) (int64, error)) (int64, bool) {
	key := cache.NewKey(op, name, configID)
	if id, ok := cache.Get[int64](ctx, f.cache, key); ok {
		observability.RecordCacheLookup(op, true)
		return id, true
	}

	var id int64
	err := f.observe(ctx, op, func(ctx context.Context) (err error) {
		id, err = lookup(ctx)
		return err
	})
	if err != nil {
		f.report(ctx, op, err)
		return 0, false
	}

	cache.Put(ctx, f.cache, key, id)
	return id, true
}

// observe times a storage call. Not-found outcomes are not counted as query errors.
func (f *Fetcher) observe(ctx context.Context, op string, call func(context.Context) error) error {
	start := time.Now()
	err := call(ctx)
	metricErr := err
	if errors.Is(err, storage.ErrNotFound) {
		metricErr = nil
	}
	observability.RecordDBQuery(f.backend, op, time.Since(start).Seconds(), metricErr)
	return err
}

func (f *Fetcher) report(ctx context.Context, op string, err error) {
	d := newDiagnostic(op, err)
	metricsReporter{}.Report(ctx, d)
	if f.reporter != nil {
		f.reporter.Report(ctx, d)
	}
}

func rangedKey(op string, id int64, r *domain.TimeRange) cache.Key {
	if r == nil {
		return cache.NewKey(op, id, nil, nil)
	}
	return cache.NewKey(op, id, r.StartUnix(), r.EndUnix())
}

func sortedUnique(in []string) []string {
	if len(in) == 0 {
		return in
	}
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)

	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}
