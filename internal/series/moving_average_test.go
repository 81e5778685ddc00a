package series

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helios-dashboard/internal/domain"
)

func frameOf(values ...float64) domain.SeriesFrame {
	samples := make([]*domain.SensorSample, len(values))
	for i, v := range values {
		samples[i] = &domain.SensorSample{SensorID: 1, Timestamp: int64(i * 60), Value: v}
	}
	return ToWallClock(samples)
}

func maValues(f domain.SeriesFrame) []float64 {
	out := make([]float64, f.Len())
	for i, p := range f.Points {
		out[i] = p.ValueMA
	}
	return out
}

func TestMovingAverage_WindowTwo(t *testing.T) {
	got, err := MovingAverage(frameOf(10, 20, 30), 2)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{10, 15, 25}, maValues(got), 1e-9)
}

func TestMovingAverage_WindowOneIsIdentity(t *testing.T) {
	in := frameOf(3.5, -1, 42, 0, 7.25)
	got, err := MovingAverage(in, 1)
	require.NoError(t, err)
	for i, p := range got.Points {
		assert.Equal(t, in.Points[i].Value, p.ValueMA)
	}
}

func TestMovingAverage_LengthAndWarmup(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i * i)
	}

	for _, window := range []int{1, 2, 5, 30, 99, 100, 150} {
		got, err := MovingAverage(frameOf(values...), window)
		require.NoError(t, err)
		require.Equal(t, len(values), got.Len(), "window %d", window)

		for i := 0; i < window-1 && i < len(values); i++ {
			assert.Equal(t, values[i], got.Points[i].ValueMA, "window %d position %d", window, i)
		}
	}
}

func TestMovingAverage_TrailingMean(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7}
	got, err := MovingAverage(frameOf(values...), 3)
	require.NoError(t, err)

	want := []float64{1, 2, 2, 3, 4, 5, 6}
	assert.InDeltaSlice(t, want, maValues(got), 1e-9)
}

func TestMovingAverage_DoesNotMutateInput(t *testing.T) {
	in := frameOf(10, 20, 30)
	_, err := MovingAverage(in, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20, 30}, maValues(in))
}

func TestMovingAverage_KeepsOrder(t *testing.T) {
	// Equal timestamps are allowed and must stay as given.
	base := time.Unix(1000, 0).UTC()
	in := domain.SeriesFrame{Points: []domain.SeriesPoint{
		{Timestamp: base, Value: 5},
		{Timestamp: base, Value: 7},
		{Timestamp: base.Add(time.Minute), Value: 9},
	}}
	got, err := MovingAverage(in, 2)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.Points[0].Value)
	assert.Equal(t, 7.0, got.Points[1].Value)
	assert.InDeltaSlice(t, []float64{5, 6, 8}, maValues(got), 1e-9)
}

func TestMovingAverage_InvalidWindow(t *testing.T) {
	for _, window := range []int{0, -1, -30} {
		_, err := MovingAverage(frameOf(1, 2), window)
		assert.ErrorIs(t, err, ErrInvalidWindow)
		assert.ErrorIs(t, err, domain.ErrMalformedInput)
	}
}

func TestMovingAverage_Empty(t *testing.T) {
	got, err := MovingAverage(domain.SeriesFrame{}, 30)
	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestMovingAverage_NonFiniteWindowKeepsRawValue(t *testing.T) {
	got, err := MovingAverage(frameOf(1, math.NaN(), 3, 5, 7), 2)
	require.NoError(t, err)

	assert.Equal(t, 1.0, got.Points[0].ValueMA)
	assert.True(t, math.IsNaN(got.Points[1].ValueMA))
	assert.Equal(t, 3.0, got.Points[2].ValueMA)
	assert.InDelta(t, 4.0, got.Points[3].ValueMA, 1e-9)
	assert.InDelta(t, 6.0, got.Points[4].ValueMA, 1e-9)

	got, err = MovingAverage(frameOf(2, math.Inf(1), 4, 6), 2)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.Points[2].ValueMA)
	assert.InDelta(t, 5.0, got.Points[3].ValueMA, 1e-9)
}

func TestMovingAverage_SpikeDoesNotSkewLaterWindows(t *testing.T) {
	got, err := MovingAverage(frameOf(1e17, 1, 1, 1, 1), 2)
	require.NoError(t, err)

	assert.Equal(t, 1e17, got.Points[0].ValueMA)
	assert.InDelta(t, 5e16, got.Points[1].ValueMA, 1)
	assert.Equal(t, []float64{1, 1, 1}, maValues(got)[2:])

	got, err = MovingAverage(frameOf(0.1, 1e16, 0.2, 0.3, 0.4, 0.5), 3)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.3, 0.4}, maValues(got)[4:], 1e-12)
}
