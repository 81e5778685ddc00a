// Package view turns an immutable domain.ViewRequest into plot-ready frames.
// It holds no selection state; every call carries its whole selection.
package view

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"helios-dashboard/internal/cache"
	"helios-dashboard/internal/domain"
	"helios-dashboard/internal/fetcher"
	"helios-dashboard/internal/observability"
	"helios-dashboard/internal/series"
)

// OpMovingAverage is the cache shape of smoothed frames.
const OpMovingAverage = "moving_average"

// Service answers dashboard views.
type Service struct {
	fetcher *fetcher.Fetcher
	cache   *cache.Cache
	logger  *slog.Logger
}

// NewService creates a Service. c memoizes smoothed frames and may be nil.
func NewService(f *fetcher.Fetcher, c *cache.Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{fetcher: f, cache: c, logger: logger}
}

// ForSession returns a copy whose fetches and smoothing results live in c.
func (s *Service) ForSession(c *cache.Cache) *Service {
	cp := *s
	cp.cache = c
	cp.fetcher = s.fetcher.ForSession(c)
	return &cp
}

// ReportingTo returns a copy whose fetch diagnostics also go to r.
func (s *Service) ReportingTo(r fetcher.Reporter) *Service {
	cp := *s
	cp.fetcher = s.fetcher.ReportingTo(fetcher.Multi{fetcher.LogReporter{Logger: s.logger}, r})
	return &cp
}

// Series is one smoothed series.
type Series struct {
	Label series.Label
	Frame domain.SeriesFrame
	// Shown is the span of Frame; nil when Frame is empty.
	Shown *domain.TimeRange
	// Available is the span of all samples recorded for the configuration,
	// used to seed range pickers; nil when unknown.
	Available *domain.TimeRange
}

// Comparison is a set of tagged series.
type Comparison struct {
	Frames []domain.SeriesFrame
	// Normalized is filled for test comparisons only.
	Normalized domain.NormalizedComparisonFrame
	// Skipped lists selections that resolved to no data.
	Skipped []series.Label
}

// Configurations lists test configurations, most recent first.
func (s *Service) Configurations(ctx context.Context, bypass bool) []*domain.TestConfiguration {
	return s.fetcher.Bypass(bypass).FetchConfigurations(ctx)
}

// SensorNames lists sensor names with data under configID ("" for all configurations).
func (s *Service) SensorNames(ctx context.Context, configID string, bypass bool) []string {
	return s.fetcher.Bypass(bypass).FetchSensorNames(ctx, configID)
}

// ActuatorNames lists actuator names of configID ("" for all configurations).
func (s *Service) ActuatorNames(ctx context.Context, configID string, bypass bool) []string {
	return s.fetcher.Bypass(bypass).FetchActuatorNames(ctx, configID)
}

// TimeRange returns the span of recorded samples for a configuration.
func (s *Service) TimeRange(ctx context.Context, configID string) (domain.TimeRange, bool) {
	return s.fetcher.FetchTimeRange(ctx, configID)
}

// SensorView returns the smoothed series of one sensor in one configuration.
// Returns domain.ErrNotFound when the sensor does not exist there.
func (s *Service) SensorView(ctx context.Context, req domain.ViewRequest) (*Series, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(req.ConfigIDs) != 1 || len(req.SensorNames) != 1 {
		return nil, fmt.Errorf("%w: a sensor view needs exactly one config_id and one sensor", domain.ErrMalformedInput)
	}

	label := series.Label{SensorName: req.SensorNames[0], ConfigID: req.ConfigIDs[0]}
	frame, ok, err := s.load(ctx, label, req)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: sensor %q in %s", domain.ErrNotFound, label.SensorName, label.ConfigID)
	}

	out := &Series{Label: label, Frame: frame}
	if r, ok := series.Bounds(frame); ok {
		out.Shown = &r
	}
	if r, ok := s.fetcher.FetchTimeRange(ctx, label.ConfigID); ok {
		out.Available = &r
	}
	return out, nil
}

// CompareSensors overlays several sensors of one configuration on a shared time axis.
func (s *Service) CompareSensors(ctx context.Context, req domain.ViewRequest) (*Comparison, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(req.ConfigIDs) != 1 {
		return nil, fmt.Errorf("%w: a sensor comparison needs exactly one config_id", domain.ErrMalformedInput)
	}

	labels := make([]series.Label, len(req.SensorNames))
	for i, name := range req.SensorNames {
		labels[i] = series.Label{SensorName: name, ConfigID: req.ConfigIDs[0]}
	}
	return s.compare(ctx, labels, req, false)
}

// CompareTests overlays one sensor across several configurations, each
// normalized to minutes since its own first sample.
func (s *Service) CompareTests(ctx context.Context, req domain.ViewRequest) (*Comparison, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(req.SensorNames) != 1 {
		return nil, fmt.Errorf("%w: a test comparison needs exactly one sensor", domain.ErrMalformedInput)
	}

	labels := make([]series.Label, len(req.ConfigIDs))
	for i, id := range req.ConfigIDs {
		labels[i] = series.Label{SensorName: req.SensorNames[0], ConfigID: id}
	}
	return s.compare(ctx, labels, req, true)
}

// ActuatorEvents returns the events of one actuator. Returns domain.ErrNotFound when it does not exist.
func (s *Service) ActuatorEvents(ctx context.Context, configID, name string, r *domain.TimeRange) ([]*domain.ActuatorEvent, error) {
	if configID == "" || name == "" {
		return nil, fmt.Errorf("%w: config_id and actuator are required", domain.ErrMalformedInput)
	}
	id, ok := s.fetcher.ResolveActuatorID(ctx, name, configID)
	if !ok {
		return nil, fmt.Errorf("%w: actuator %q in %s", domain.ErrNotFound, name, configID)
	}
	return s.fetcher.FetchActuatorEvents(ctx, id, r), nil
}

func (s *Service) compare(ctx context.Context, labels []series.Label, req domain.ViewRequest, normalize bool) (*Comparison, error) {
	frames := make([]domain.SeriesFrame, len(labels))
	out := &Comparison{}

	for i, label := range labels {
		frame, ok, err := s.load(ctx, label, req)
		if err != nil {
			return nil, err
		}
		if !ok || frame.Empty() {
			out.Skipped = append(out.Skipped, label)
			s.logger.Debug("comparison item skipped", "sensor", label.SensorName, "config_id", label.ConfigID)
			continue
		}
		frames[i] = frame
	}

	out.Frames = series.MergeSeries(frames, labels)
	if normalize {
		out.Normalized = series.NormalizeForComparison(out.Frames)
	}
	return out, nil
}

// load resolves, fetches and smooths one series. ok is false when the sensor does not exist.
func (s *Service) load(ctx context.Context, label series.Label, req domain.ViewRequest) (domain.SeriesFrame, bool, error) {
	id, ok := s.fetcher.ResolveSensorID(ctx, label.SensorName, label.ConfigID)
	if !ok {
		return domain.SeriesFrame{}, false, nil
	}

	samples := s.fetcher.FetchSamples(ctx, id, req.Range)
	frame := series.ToWallClock(samples)

	smoothed, err := s.smooth(ctx, frame, req.EffectiveWindow())
	if err != nil {
		return domain.SeriesFrame{}, false, err
	}
	smoothed.SensorName = label.SensorName
	smoothed.ConfigID = label.ConfigID
	return smoothed, true, nil
}

// smooth applies the moving average, memoized by frame content and window.
func (s *Service) smooth(ctx context.Context, frame domain.SeriesFrame, window int) (domain.SeriesFrame, error) {
	if frame.Empty() {
		return series.MovingAverage(frame, window)
	}

	key := cache.NewKey(OpMovingAverage, series.ContentHash(frame), window)
	return cache.GetOrLoad(ctx, s.cache, key, false, func(context.Context) (domain.SeriesFrame, error) {
		start := time.Now()
		out, err := series.MovingAverage(frame, window)
		observability.RecordProcessing(OpMovingAverage, time.Since(start).Seconds(), frame.Len())
		return out, err
	})
}
