package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"helios-dashboard/internal/domain"
	"helios-dashboard/internal/fetcher"
	"helios-dashboard/internal/plot"
	"helios-dashboard/internal/series"
	"helios-dashboard/internal/view"
)

// DiagnosticHeader carries fetch diagnostics on non-JSON responses.
const DiagnosticHeader = "X-Helios-Diagnostic"

type envelope struct {
	Data        any              `json:"data"`
	Diagnostics []diagnosticJSON `json:"diagnostics"`
}

type errorBody struct {
	Error       string           `json:"error"`
	Diagnostics []diagnosticJSON `json:"diagnostics"`
}

type diagnosticJSON struct {
	Op      string `json:"op"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type configJSON struct {
	ConfigID string `json:"config_id"`
	Date     string `json:"date"`
	Label    string `json:"label"`
}

type rangeJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type pointJSON struct {
	Timestamp string   `json:"timestamp"`
	Value     *float64 `json:"value"`
	ValueMA   *float64 `json:"value_ma"`
}

type seriesJSON struct {
	Sensor    string      `json:"sensor"`
	ConfigID  string      `json:"config_id"`
	Label     string      `json:"label"`
	Points    []pointJSON `json:"points"`
	Shown     *rangeJSON  `json:"shown,omitempty"`
	Available *rangeJSON  `json:"available,omitempty"`
}

type normalizedPointJSON struct {
	Sensor    string   `json:"sensor"`
	ConfigID  string   `json:"config_id"`
	Timestamp string   `json:"timestamp"`
	Minutes   float64  `json:"normalized_minutes"`
	Value     *float64 `json:"value"`
	ValueMA   *float64 `json:"value_ma"`
}

type comparisonJSON struct {
	Series     []seriesJSON          `json:"series"`
	Normalized []normalizedPointJSON `json:"normalized,omitempty"`
	Skipped    []string              `json:"skipped"`
}

type actuatorEventJSON struct {
	Timestamp string  `json:"timestamp"`
	Value     float64 `json:"value"`
	On        bool    `json:"on"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeData writes a JSON envelope with the request's diagnostics.
func writeData(w http.ResponseWriter, r *http.Request, data any) {
	writeJSON(w, http.StatusOK, envelope{Data: data, Diagnostics: diagnostics(r)})
}

// writeBody writes a rendered payload; diagnostics travel in headers.
func writeBody(w http.ResponseWriter, r *http.Request, contentType, filename string, body *bytes.Buffer) {
	for _, d := range diagnostics(r) {
		w.Header().Add(DiagnosticHeader, d.Kind+": "+d.Message)
	}
	w.Header().Set("Content-Type", contentType)
	if filename != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(body.Bytes())
}

// fail maps an error to a status code and writes it with the diagnostics.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	diags := diagnostics(r)
	status := statusFor(err, diags)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error(), Diagnostics: diags})
}

func statusFor(err error, diags []diagnosticJSON) int {
	switch {
	case errors.Is(err, domain.ErrMalformedInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, plot.ErrNothingToPlot):
		// an unreachable database also surfaces as "nothing found"
		for _, d := range diags {
			if d.Kind == fetcher.KindConnectivity.String() {
				return http.StatusServiceUnavailable
			}
		}
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func diagnostics(r *http.Request) []diagnosticJSON {
	out := []diagnosticJSON{}
	sc := scopeFrom(r)
	if sc == nil {
		return out
	}
	for _, d := range sc.diagnostics.Diagnostics() {
		out = append(out, diagnosticJSON{Op: d.Op, Kind: d.Kind.String(), Message: d.Message})
	}
	return out
}

func toConfigsJSON(configs []*domain.TestConfiguration) []configJSON {
	out := make([]configJSON, 0, len(configs))
	for _, c := range configs {
		out = append(out, configJSON{ConfigID: c.ConfigID, Date: c.Date.Format(domain.DateLayout), Label: c.Label()})
	}
	return out
}

func toRangeJSON(r *domain.TimeRange) *rangeJSON {
	if r == nil {
		return nil
	}
	return &rangeJSON{Start: formatTime(r.Start), End: formatTime(r.End)}
}

func toSeriesJSON(f domain.SeriesFrame) seriesJSON {
	out := seriesJSON{
		Sensor:   f.SensorName,
		ConfigID: f.ConfigID,
		Label:    domain.SeriesLabel(f.SensorName, f.ConfigID),
		Points:   make([]pointJSON, 0, len(f.Points)),
	}
	for _, p := range f.Points {
		out.Points = append(out.Points, pointJSON{
			Timestamp: formatTime(p.Timestamp),
			Value:     finite(p.Value),
			ValueMA:   finite(p.ValueMA),
		})
	}
	return out
}

func toViewJSON(v *view.Series) seriesJSON {
	out := toSeriesJSON(v.Frame)
	out.Sensor = v.Label.SensorName
	out.ConfigID = v.Label.ConfigID
	out.Label = v.Label.String()
	out.Shown = toRangeJSON(v.Shown)
	out.Available = toRangeJSON(v.Available)
	return out
}

func toComparisonJSON(c *view.Comparison) comparisonJSON {
	out := comparisonJSON{
		Series:  make([]seriesJSON, 0, len(c.Frames)),
		Skipped: labels(c.Skipped),
	}
	for _, f := range c.Frames {
		sj := toSeriesJSON(f)
		if r, ok := series.Bounds(f); ok {
			sj.Shown = toRangeJSON(&r)
		}
		out.Series = append(out.Series, sj)
	}
	for _, p := range c.Normalized.Points {
		out.Normalized = append(out.Normalized, normalizedPointJSON{
			Sensor:    p.SensorName,
			ConfigID:  p.ConfigID,
			Timestamp: formatTime(p.Timestamp),
			Minutes:   p.NormalizedTimestamp,
			Value:     finite(p.Value),
			ValueMA:   finite(p.ValueMA),
		})
	}
	return out
}

func toEventsJSON(events []*domain.ActuatorEvent) []actuatorEventJSON {
	out := make([]actuatorEventJSON, 0, len(events))
	for _, e := range events {
		out = append(out, actuatorEventJSON{
			Timestamp: formatTime(time.Unix(e.Timestamp, 0)),
			Value:     e.Value,
			On:        e.On(),
		})
	}
	return out
}

func labels(ls []series.Label) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.String())
	}
	return out
}

func orEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func formatTime(t time.Time) string {
	return t.UTC().Format(domain.WallClockLayout)
}

// finite returns nil for values JSON cannot carry.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
