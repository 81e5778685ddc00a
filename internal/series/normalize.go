package series

import (
	"helios-dashboard/internal/domain"
)

// NormalizeForComparison puts every frame on its own relative time axis:
// minutes elapsed since that frame's earliest sample. Frames are
// concatenated in input order; empty frames contribute nothing.
func NormalizeForComparison(frames []domain.SeriesFrame) domain.NormalizedComparisonFrame {
	total := 0
	for _, f := range frames {
		total += f.Len()
	}

	result := domain.NormalizedComparisonFrame{
		Points: make([]domain.NormalizedPoint, 0, total),
	}

	for _, f := range frames {
		bounds, ok := Bounds(f)
		if !ok {
			continue
		}
		for _, p := range f.Points {
			result.Points = append(result.Points, domain.NormalizedPoint{
				SensorName:          f.SensorName,
				ConfigID:            f.ConfigID,
				Timestamp:           p.Timestamp,
				NormalizedTimestamp: p.Timestamp.Sub(bounds.Start).Minutes(),
				Value:               p.Value,
				ValueMA:             p.ValueMA,
			})
		}
	}

	return result
}
