package series

import (
	"fmt"
	"math"

	"helios-dashboard/internal/domain"
)

// ErrInvalidWindow is returned for a non-positive window.
var ErrInvalidWindow = fmt.Errorf("%w: moving average window must be positive", domain.ErrMalformedInput)

// MovingAverage fills ValueMA with the trailing mean over the last window
// samples, current sample included. Positions before a full window
// (i < window-1) keep the raw value. Samples are not re-sorted.
//
// A window containing NaN or ±Inf has no mean; that position keeps its raw
// value, the same fallback as the warm-up positions.
func MovingAverage(frame domain.SeriesFrame, window int) (domain.SeriesFrame, error) {
	if window <= 0 {
		return domain.SeriesFrame{}, fmt.Errorf("%w (got %d)", ErrInvalidWindow, window)
	}

	out := frame.Clone()
	for i := range out.Points {
		out.Points[i].ValueMA = out.Points[i].Value
		if i < window-1 {
			continue
		}
		if mean, ok := windowMean(out.Points[i-window+1 : i+1]); ok {
			out.Points[i].ValueMA = mean
		}
	}

	return out, nil
}

// windowMean sums each window from scratch so a large sample cannot erode
// the precision of later windows.
func windowMean(points []domain.SeriesPoint) (float64, bool) {
	var sum float64
	for _, p := range points {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			return 0, false
		}
		sum += p.Value
	}
	return sum / float64(len(points)), true
}
