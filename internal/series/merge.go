package series

import (
	"helios-dashboard/internal/domain"
)

// Label tags a frame with its sensor name and/or test configuration.
type Label struct {
	SensorName string
	ConfigID   string
}

// String renders the label for legends and CSV.
func (l Label) String() string {
	return domain.SeriesLabel(l.SensorName, l.ConfigID)
}

// MergeSeries tags frames[i] with labels[i] and drops empty frames.
// Frames beyond len(labels) keep their existing tags.
func MergeSeries(frames []domain.SeriesFrame, labels []Label) []domain.SeriesFrame {
	merged := make([]domain.SeriesFrame, 0, len(frames))
	for i, f := range frames {
		if f.Empty() {
			continue
		}
		out := f.Clone()
		if i < len(labels) {
			out.SensorName = labels[i].SensorName
			out.ConfigID = labels[i].ConfigID
		}
		merged = append(merged, out)
	}
	return merged
}
