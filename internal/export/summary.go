package export

import (
	"math"
	"time"

	"helios-dashboard/internal/domain"
	"helios-dashboard/internal/series"
)

// Summary describes an exported selection.
type Summary struct {
	// Metadata
	GeneratedAt time.Time
	Window      int
	Range       *domain.TimeRange // nil when the full series was selected

	// One row per exported series, in export order
	Series []SeriesSummaryRow

	// Selections that resolved to no data
	Skipped []string
}

// SeriesSummaryRow holds descriptive statistics of one series.
type SeriesSummaryRow struct {
	Label  string
	Points int
	Start  time.Time
	End    time.Time
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	P10    float64
	Median float64
	P90    float64
	LastMA float64 // NaN when the series is empty
}

// BuildSummary computes a Summary over smoothed frames.
func BuildSummary(frames []domain.SeriesFrame, skipped []series.Label, window int, r *domain.TimeRange, now time.Time) *Summary {
	s := &Summary{
		GeneratedAt: now.UTC(),
		Window:      window,
		Range:       r,
		Series:      make([]SeriesSummaryRow, 0, len(frames)),
	}

	for _, f := range frames {
		s.Series = append(s.Series, summarize(f))
	}
	for _, l := range skipped {
		s.Skipped = append(s.Skipped, l.String())
	}
	return s
}

func summarize(f domain.SeriesFrame) SeriesSummaryRow {
	values := make([]float64, len(f.Points))
	for i, p := range f.Points {
		values[i] = p.Value
	}
	d := describe(values)

	row := SeriesSummaryRow{
		Label:  domain.SeriesLabel(f.SensorName, f.ConfigID),
		Points: f.Len(),
		Min:    d.min,
		Max:    d.max,
		Mean:   d.mean,
		StdDev: d.stddev,
		P10:    d.p10,
		Median: d.median,
		P90:    d.p90,
		LastMA: math.NaN(),
	}
	if f.Empty() {
		return row
	}

	if b, ok := series.Bounds(f); ok {
		row.Start, row.End = b.Start, b.End
	}
	row.LastMA = f.Points[len(f.Points)-1].ValueMA
	return row
}
