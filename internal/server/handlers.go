package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"helios-dashboard/internal/domain"
	"helios-dashboard/internal/export"
	"helios-dashboard/internal/plot"
	"helios-dashboard/internal/view"
)

func (s *Server) handleConfigs(w http.ResponseWriter, r *http.Request) {
	bypass, err := refresh(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	configs := scopeFrom(r).views.Configurations(r.Context(), bypass)
	writeData(w, r, toConfigsJSON(configs))
}

func (s *Server) handleSensors(w http.ResponseWriter, r *http.Request) {
	bypass, err := refresh(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	names := scopeFrom(r).views.SensorNames(r.Context(), r.URL.Query().Get("config_id"), bypass)
	writeData(w, r, orEmpty(names))
}

func (s *Server) handleActuators(w http.ResponseWriter, r *http.Request) {
	bypass, err := refresh(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	names := scopeFrom(r).views.ActuatorNames(r.Context(), r.URL.Query().Get("config_id"), bypass)
	writeData(w, r, orEmpty(names))
}

func (s *Server) handleTimeRange(w http.ResponseWriter, r *http.Request) {
	configID := chi.URLParam(r, "configID")
	tr, ok := scopeFrom(r).views.TimeRange(r.Context(), configID)
	if !ok {
		s.fail(w, r, fmt.Errorf("%w: no samples recorded for %s", domain.ErrNotFound, configID))
		return
	}
	writeData(w, r, toRangeJSON(&tr))
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	req, f, err := s.parse(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := scopeFrom(r).views.SensorView(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	name := fileName(res.Label.SensorName, res.Label.ConfigID)
	s.respond(w, r, f, rendering{
		json: func() any { return toViewJSON(res) },
		csv:  func(b *bytes.Buffer) error { return export.WriteSeries(b, res.Frame) },
		png: func(b *bytes.Buffer) error {
			return plot.RenderSeries(b, plot.Options{Title: res.Label.String()}, res.Frame)
		},
		summary: func() *export.Summary {
			return export.BuildSummary([]domain.SeriesFrame{res.Frame}, nil, req.EffectiveWindow(), req.Range, time.Now())
		},
		name: name,
	})
}

func (s *Server) handleCompareSensors(w http.ResponseWriter, r *http.Request) {
	s.handleComparison(w, r, false)
}

func (s *Server) handleCompareTests(w http.ResponseWriter, r *http.Request) {
	s.handleComparison(w, r, true)
}

func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request, acrossTests bool) {
	req, f, err := s.parse(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	views := scopeFrom(r).views
	var res *view.Comparison
	if acrossTests {
		res, err = views.CompareTests(r.Context(), req)
	} else {
		res, err = views.CompareSensors(r.Context(), req)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	rd := rendering{
		json: func() any { return toComparisonJSON(res) },
		csv:  func(b *bytes.Buffer) error { return export.WriteSeries(b, res.Frames...) },
		png: func(b *bytes.Buffer) error {
			return plot.RenderSeries(b, plot.Options{Title: "Sensor comparison"}, res.Frames...)
		},
		summary: func() *export.Summary {
			return export.BuildSummary(res.Frames, res.Skipped, req.EffectiveWindow(), req.Range, time.Now())
		},
		name: "comparison",
	}
	if acrossTests {
		rd.csv = func(b *bytes.Buffer) error { return export.WriteNormalized(b, res.Normalized) }
		rd.png = func(b *bytes.Buffer) error {
			return plot.RenderNormalized(b, plot.Options{Title: "Test comparison"}, res.Normalized)
		}
	}
	s.respond(w, r, f, rd)
}

func (s *Server) handleActuatorEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng, err := domain.ParseTimeRange(q.Get("start"), q.Get("end"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	events, err := scopeFrom(r).views.ActuatorEvents(r.Context(), q.Get("config_id"), q.Get("actuator"), rng)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, r, toEventsJSON(events))
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	sc := scopeFrom(r)
	if s.sessions != nil && sc.session != "" {
		if err := s.sessions.Close(r.Context(), sc.session); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) parse(r *http.Request) (domain.ViewRequest, string, error) {
	f, err := format(r)
	if err != nil {
		return domain.ViewRequest{}, "", err
	}
	req, err := s.viewRequest(r)
	if err != nil {
		return domain.ViewRequest{}, "", err
	}
	return req, f, nil
}

// rendering holds one encoder per response format.
type rendering struct {
	json    func() any
	csv     func(*bytes.Buffer) error
	png     func(*bytes.Buffer) error
	summary func() *export.Summary
	name    string
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, f string, rd rendering) {
	if f == FormatJSON {
		writeData(w, r, rd.json())
		return
	}

	var (
		buf         bytes.Buffer
		err         error
		contentType string
		name        string
	)
	switch f {
	case FormatCSV:
		err = rd.csv(&buf)
		contentType, name = "text/csv; charset=utf-8", rd.name+".csv"
	case FormatPNG:
		err = rd.png(&buf)
		contentType = "image/png"
	case FormatMarkdown:
		buf.WriteString(export.RenderMarkdown(rd.summary()))
		contentType, name = "text/markdown; charset=utf-8", rd.name+".md"
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeBody(w, r, contentType, name, &buf)
}

// fileName builds a download name from selection parts.
func fileName(parts ...string) string {
	name := strings.Join(parts, "_")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
