// Package plot renders shaped series as PNG line charts.
package plot

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"helios-dashboard/internal/domain"
	"helios-dashboard/internal/observability"
)

// ErrNothingToPlot is returned when no frame has a finite point.
var ErrNothingToPlot = errors.New("plot: nothing to plot")

const (
	DefaultWidth  = 1024
	DefaultHeight = 512
)

// Options control chart layout.
type Options struct {
	Title  string
	Width  int
	Height int
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
	}
}

// RenderSeries draws value_ma against wall-clock time, one line per frame.
func RenderSeries(w io.Writer, opts Options, frames ...domain.SeriesFrame) error {
	var (
		series []chart.Series
		yr     yRange
	)
	for i, f := range frames {
		var (
			xs []time.Time
			ys []float64
		)
		for _, p := range f.Points {
			if !finite(p.ValueMA) {
				continue
			}
			xs = append(xs, p.Timestamp)
			ys = append(ys, p.ValueMA)
			yr.add(p.ValueMA)
		}
		if len(xs) == 0 {
			continue
		}
		// go-chart needs two distinct X values
		if xs[0].Equal(xs[len(xs)-1]) {
			xs = append(xs, xs[len(xs)-1].Add(time.Second))
			ys = append(ys, ys[len(ys)-1])
		}
		series = append(series, chart.TimeSeries{
			Name:    seriesName(f.SensorName, f.ConfigID, i),
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(chart.GetDefaultColor(i)),
		})
	}
	if len(series) == 0 {
		return ErrNothingToPlot
	}

	xAxis := chart.XAxis{
		Name:           "Time",
		ValueFormatter: chart.TimeValueFormatterWithFormat("01-02 15:04"),
	}
	return render(w, opts, xAxis, yr, series)
}

// RenderNormalized draws value_ma against minutes since each series' first sample.
func RenderNormalized(w io.Writer, opts Options, frame domain.NormalizedComparisonFrame) error {
	labels, bySeries := frame.Series()

	var (
		series []chart.Series
		yr     yRange
	)
	for i, label := range labels {
		var xs, ys []float64
		for _, p := range bySeries[label] {
			if !finite(p.ValueMA) {
				continue
			}
			xs = append(xs, p.NormalizedTimestamp)
			ys = append(ys, p.ValueMA)
			yr.add(p.ValueMA)
		}
		if len(xs) == 0 {
			continue
		}
		if xs[0] == xs[len(xs)-1] {
			xs = append(xs, xs[len(xs)-1]+1)
			ys = append(ys, ys[len(ys)-1])
		}
		series = append(series, chart.ContinuousSeries{
			Name:    label,
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(chart.GetDefaultColor(i)),
		})
	}
	if len(series) == 0 {
		return ErrNothingToPlot
	}

	return render(w, opts, chart.XAxis{Name: "Minutes"}, yr, series)
}

func render(w io.Writer, opts Options, xAxis chart.XAxis, yr yRange, series []chart.Series) error {
	width, height := opts.size()
	ch := chart.Chart{
		Title:      opts.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      xAxis,
		YAxis:      chart.YAxis{Name: "value_ma", Range: yr.axis()},
		Series:     series,
	}
	if len(series) > 1 {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	observability.RecordPlotRendered()
	return nil
}

// yRange tracks the Y extent; a flat series gets a unit band around its value.
type yRange struct {
	min, max float64
	set      bool
}

func (r *yRange) add(v float64) {
	if !r.set {
		r.min, r.max, r.set = v, v, true
		return
	}
	r.min = math.Min(r.min, v)
	r.max = math.Max(r.max, v)
}

func (r yRange) axis() *chart.ContinuousRange {
	if r.min == r.max {
		return &chart.ContinuousRange{Min: r.min - 1, Max: r.max + 1}
	}
	return &chart.ContinuousRange{Min: r.min, Max: r.max}
}

func seriesName(sensorName, configID string, i int) string {
	if label := domain.SeriesLabel(sensorName, configID); label != "" {
		return label
	}
	return fmt.Sprintf("series %d", i+1)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
