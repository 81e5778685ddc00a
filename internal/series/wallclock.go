package series

import (
	"time"

	"helios-dashboard/internal/domain"
)

// ToWallClock converts epoch-second samples into a frame of UTC timestamps.
// Order is preserved; ValueMA is left equal to Value until MovingAverage runs.
func ToWallClock(samples []*domain.SensorSample) domain.SeriesFrame {
	frame := domain.SeriesFrame{
		Points: make([]domain.SeriesPoint, 0, len(samples)),
	}
	for _, s := range samples {
		if s == nil {
			continue
		}
		frame.Points = append(frame.Points, domain.SeriesPoint{
			Timestamp: time.Unix(s.Timestamp, 0).UTC(),
			Value:     s.Value,
			ValueMA:   s.Value,
		})
	}
	return frame
}

// Bounds returns the earliest and latest timestamps of a frame.
// Returns false for an empty frame.
func Bounds(frame domain.SeriesFrame) (domain.TimeRange, bool) {
	if frame.Empty() {
		return domain.TimeRange{}, false
	}
	lo, hi := frame.Points[0].Timestamp, frame.Points[0].Timestamp
	for _, p := range frame.Points[1:] {
		if p.Timestamp.Before(lo) {
			lo = p.Timestamp
		}
		if p.Timestamp.After(hi) {
			hi = p.Timestamp
		}
	}
	return domain.TimeRange{Start: lo, End: hi}, true
}
