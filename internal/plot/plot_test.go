package plot

import (
	"bytes"
	"image/png"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helios-dashboard/internal/domain"
)

func frame(name, config string, start int64, values ...float64) domain.SeriesFrame {
	f := domain.SeriesFrame{SensorName: name, ConfigID: config}
	for i, v := range values {
		f.Points = append(f.Points, domain.SeriesPoint{
			Timestamp: time.Unix(start+int64(i)*60, 0).UTC(),
			Value:     v,
			ValueMA:   v,
		})
	}
	return f
}

func TestRenderSeries(t *testing.T) {
	var buf bytes.Buffer
	err := RenderSeries(&buf, Options{Title: "Thermocouple1", Width: 640, Height: 320},
		frame("Thermocouple1", "CFG-1", 1000, 10, 20, 30),
		frame("Pressure2", "CFG-1", 1000, 1, 2, 3),
	)
	require.NoError(t, err)

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 320, img.Bounds().Dy())
}

func TestRenderSeries_DefaultSize(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSeries(&buf, Options{}, frame("", "", 0, 1, 2)))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, DefaultWidth, img.Bounds().Dx())
	assert.Equal(t, DefaultHeight, img.Bounds().Dy())
}

func TestRenderSeries_SinglePointAndFlat(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, RenderSeries(&buf, Options{}, frame("S", "C", 1000, 5)))

	buf.Reset()
	assert.NoError(t, RenderSeries(&buf, Options{}, frame("S", "C", 1000, 5, 5, 5)))
}

func TestRenderSeries_NothingToPlot(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, RenderSeries(&buf, Options{}), ErrNothingToPlot)
	assert.ErrorIs(t, RenderSeries(&buf, Options{}, domain.SeriesFrame{}), ErrNothingToPlot)
	assert.ErrorIs(t, RenderSeries(&buf, Options{}, frame("S", "C", 0, math.NaN(), math.Inf(1))), ErrNothingToPlot)
	assert.Zero(t, buf.Len())
}

func TestRenderNormalized(t *testing.T) {
	f := domain.NormalizedComparisonFrame{Points: []domain.NormalizedPoint{
		{SensorName: "Thermocouple1", ConfigID: "CFG-1", NormalizedTimestamp: 0, ValueMA: 1},
		{SensorName: "Thermocouple1", ConfigID: "CFG-1", NormalizedTimestamp: 1, ValueMA: 2},
		{SensorName: "Thermocouple1", ConfigID: "CFG-2", NormalizedTimestamp: 0, ValueMA: 3},
	}}

	var buf bytes.Buffer
	require.NoError(t, RenderNormalized(&buf, Options{Width: 400, Height: 300}, f))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
}

func TestRenderNormalized_Empty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, RenderNormalized(&buf, Options{}, domain.NormalizedComparisonFrame{}), ErrNothingToPlot)
}

func TestYRange(t *testing.T) {
	var r yRange
	r.add(3)
	r.add(-1)
	r.add(7)
	assert.Equal(t, -1.0, r.axis().Min)
	assert.Equal(t, 7.0, r.axis().Max)

	var flat yRange
	flat.add(5)
	assert.Equal(t, 4.0, flat.axis().Min)
	assert.Equal(t, 6.0, flat.axis().Max)
}
