package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"helios-dashboard/internal/domain"
)

// Response formats.
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatPNG      = "png"
	FormatMarkdown = "md"
)

// viewRequest builds the immutable selection from query parameters:
// config_id and sensor (repeatable), start, end, window, refresh.
func (s *Server) viewRequest(r *http.Request) (domain.ViewRequest, error) {
	q := r.URL.Query()

	rng, err := domain.ParseTimeRange(q.Get("start"), q.Get("end"))
	if err != nil {
		return domain.ViewRequest{}, err
	}

	window := s.opts.DefaultWindow
	if v := q.Get("window"); v != "" {
		window, err = strconv.Atoi(v)
		if err != nil || window < 1 {
			return domain.ViewRequest{}, fmt.Errorf("%w: window must be a positive integer, got %q", domain.ErrMalformedInput, v)
		}
	}

	bypass, err := refresh(r)
	if err != nil {
		return domain.ViewRequest{}, err
	}

	req := domain.ViewRequest{
		ConfigIDs:   values(q["config_id"]),
		SensorNames: values(q["sensor"]),
		Range:       rng,
		Window:      window,
		Bypass:      bypass,
	}
	return req, req.Validate()
}

// format returns the requested response format.
func format(r *http.Request) (string, error) {
	f := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	switch f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatCSV, FormatPNG, FormatMarkdown:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", domain.ErrMalformedInput, f)
	}
}

// refresh reports whether the caller asked to skip cached list results.
func refresh(r *http.Request) (bool, error) {
	v := r.URL.Query().Get("refresh")
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: refresh must be a boolean, got %q", domain.ErrMalformedInput, v)
	}
	return b, nil
}

// values flattens repeated and comma-separated parameters, dropping blanks.
func values(raw []string) []string {
	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
