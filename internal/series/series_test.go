package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helios-dashboard/internal/domain"
)

func samplesFrom(start int64, count int, step int64) []*domain.SensorSample {
	out := make([]*domain.SensorSample, count)
	for i := 0; i < count; i++ {
		out[i] = &domain.SensorSample{SensorID: 1, Timestamp: start + int64(i)*step, Value: float64(i)}
	}
	return out
}

func TestToWallClock(t *testing.T) {
	samples := []*domain.SensorSample{
		{SensorID: 1, Timestamp: 0, Value: 10},
		{SensorID: 1, Timestamp: 60, Value: 20},
		nil,
		{SensorID: 1, Timestamp: 120, Value: 30},
	}

	frame := ToWallClock(samples)
	require.Equal(t, 3, frame.Len())
	assert.Equal(t, time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), frame.Points[0].Timestamp)
	assert.Equal(t, time.Date(1970, 1, 1, 0, 2, 0, 0, time.UTC), frame.Points[2].Timestamp)
	assert.Equal(t, time.UTC, frame.Points[1].Timestamp.Location())
	assert.Equal(t, 20.0, frame.Points[1].Value)
}

func TestToWallClock_Empty(t *testing.T) {
	frame := ToWallClock(nil)
	assert.True(t, frame.Empty())
}

func TestBounds(t *testing.T) {
	_, ok := Bounds(domain.SeriesFrame{})
	assert.False(t, ok)

	r, ok := Bounds(ToWallClock(samplesFrom(1000, 11, 60)))
	require.True(t, ok)
	assert.Equal(t, int64(1000), r.StartUnix())
	assert.Equal(t, int64(1600), r.EndUnix())
}

func TestMergeSeries_TagsAndDropsEmpty(t *testing.T) {
	frames := []domain.SeriesFrame{
		ToWallClock(samplesFrom(0, 3, 60)),
		{},
		ToWallClock(samplesFrom(0, 2, 60)),
	}
	labels := []Label{
		{SensorName: "Thermocouple1", ConfigID: "CFG-7"},
		{SensorName: "Ghost", ConfigID: "CFG-7"},
		{SensorName: "Pressure2", ConfigID: "CFG-7"},
	}

	merged := MergeSeries(frames, labels)
	require.Len(t, merged, 2)
	assert.Equal(t, "Thermocouple1", merged[0].SensorName)
	assert.Equal(t, "CFG-7", merged[0].ConfigID)
	assert.Equal(t, "Pressure2", merged[1].SensorName)
	assert.Equal(t, 2, merged[1].Len())

	// Input frames keep their tags.
	assert.Empty(t, frames[0].SensorName)
}

func TestMergeSeries_AllEmpty(t *testing.T) {
	merged := MergeSeries([]domain.SeriesFrame{{}, {}}, nil)
	assert.Empty(t, merged)
}

func TestLabel_String(t *testing.T) {
	assert.Equal(t, "Thermocouple1 @ CFG-7", Label{SensorName: "Thermocouple1", ConfigID: "CFG-7"}.String())
	assert.Equal(t, "CFG-7", Label{ConfigID: "CFG-7"}.String())
}

func TestNormalizeForComparison_DifferentStarts(t *testing.T) {
	a := ToWallClock([]*domain.SensorSample{{Timestamp: 1000, Value: 1}, {Timestamp: 1600, Value: 2}})
	b := ToWallClock([]*domain.SensorSample{{Timestamp: 5000, Value: 3}, {Timestamp: 5600, Value: 4}})
	merged := MergeSeries([]domain.SeriesFrame{a, b}, []Label{{ConfigID: "CFG-1"}, {ConfigID: "CFG-2"}})

	norm := NormalizeForComparison(merged)
	require.Len(t, norm.Points, 4)

	labels, bySeries := norm.Series()
	assert.Equal(t, []string{"CFG-1", "CFG-2"}, labels)
	for _, label := range labels {
		pts := bySeries[label]
		require.Len(t, pts, 2)
		assert.Equal(t, 0.0, pts[0].NormalizedTimestamp)
		assert.InDelta(t, 10.0, pts[1].NormalizedTimestamp, 1e-9)
	}
}

func TestNormalizeForComparison_StartsAtZeroAndNonDecreasing(t *testing.T) {
	frame := ToWallClock(samplesFrom(1710230400, 50, 17))
	norm := NormalizeForComparison([]domain.SeriesFrame{frame})

	require.Len(t, norm.Points, 50)
	assert.Equal(t, 0.0, norm.Points[0].NormalizedTimestamp)
	for i := 1; i < len(norm.Points); i++ {
		assert.GreaterOrEqual(t, norm.Points[i].NormalizedTimestamp, norm.Points[i-1].NormalizedTimestamp)
	}
}

func TestNormalizeForComparison_Empty(t *testing.T) {
	norm := NormalizeForComparison(nil)
	assert.True(t, norm.Empty())
	assert.NotNil(t, norm.Points)

	norm = NormalizeForComparison([]domain.SeriesFrame{{}})
	assert.True(t, norm.Empty())
}

func TestContentHash(t *testing.T) {
	a := ToWallClock(samplesFrom(0, 10, 60))
	b := ToWallClock(samplesFrom(0, 10, 60))
	assert.Equal(t, ContentHash(a), ContentHash(b))

	// Tags and smoothing do not change the hash.
	b.SensorName = "Thermocouple1"
	b.Points[3].ValueMA = 99
	assert.Equal(t, ContentHash(a), ContentHash(b))

	// Values and timestamps do.
	c := a.Clone()
	c.Points[3].Value = 99
	assert.NotEqual(t, ContentHash(a), ContentHash(c))

	d := a.Clone()
	d.Points[3].Timestamp = d.Points[3].Timestamp.Add(time.Second)
	assert.NotEqual(t, ContentHash(a), ContentHash(d))
}
