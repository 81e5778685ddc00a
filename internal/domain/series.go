package domain

import "time"

// SeriesPoint is one row of a shaped series.
type SeriesPoint struct {
	Timestamp time.Time // wall-clock time (UTC)
	Value     float64   // raw value
	ValueMA   float64   // trailing moving average of Value
}

// SeriesFrame is an ordered series for one sensor, created fresh per query.
// SensorName and ConfigID are set when the frame takes part in a comparison.
type SeriesFrame struct {
	SensorName string
	ConfigID   string
	Points     []SeriesPoint
}

// Len returns the number of points.
func (f SeriesFrame) Len() int {
	return len(f.Points)
}

// Empty reports whether the frame has no points.
func (f SeriesFrame) Empty() bool {
	return len(f.Points) == 0
}

// Clone returns a deep copy of the frame.
func (f SeriesFrame) Clone() SeriesFrame {
	out := f
	if f.Points != nil {
		out.Points = make([]SeriesPoint, len(f.Points))
		copy(out.Points, f.Points)
	}
	return out
}

// NormalizedPoint is a series point placed on a per-series relative time axis.
type NormalizedPoint struct {
	SensorName          string
	ConfigID            string
	Timestamp           time.Time
	NormalizedTimestamp float64 // minutes since the first sample of its own series
	Value               float64
	ValueMA             float64
}

// NormalizedComparisonFrame is the concatenation of several normalized series.
// Points of one series are contiguous and keep their original order.
type NormalizedComparisonFrame struct {
	Points []NormalizedPoint
}

// Empty reports whether the frame has no points.
func (f NormalizedComparisonFrame) Empty() bool {
	return len(f.Points) == 0
}

// Series splits the frame back into per-series slices keyed by label,
// preserving first-appearance order of the labels.
func (f NormalizedComparisonFrame) Series() (labels []string, bySeries map[string][]NormalizedPoint) {
	bySeries = make(map[string][]NormalizedPoint)
	for _, p := range f.Points {
		label := SeriesLabel(p.SensorName, p.ConfigID)
		if _, ok := bySeries[label]; !ok {
			labels = append(labels, label)
		}
		bySeries[label] = append(bySeries[label], p)
	}
	return labels, bySeries
}

// SeriesLabel builds the display label for a tagged series.
func SeriesLabel(sensorName, configID string) string {
	switch {
	case sensorName != "" && configID != "":
		return sensorName + " @ " + configID
	case sensorName != "":
		return sensorName
	default:
		return configID
	}
}
