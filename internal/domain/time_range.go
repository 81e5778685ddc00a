package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/relvacode/iso8601"
)

// WallClockLayout is the layout of range-picker inputs and exported timestamps.
const WallClockLayout = "2006-01-02 15:04:05"

// TimeRange is an inclusive wall-clock interval.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// NewTimeRange validates and builds a range. End before Start is malformed.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if end.Before(start) {
		return TimeRange{}, fmt.Errorf("%w: end %s is before start %s",
			ErrMalformedInput, end.UTC().Format(WallClockLayout), start.UTC().Format(WallClockLayout))
	}
	return TimeRange{Start: start.UTC(), End: end.UTC()}, nil
}

// RangeFromUnix builds a range from epoch seconds.
func RangeFromUnix(start, end int64) TimeRange {
	return TimeRange{Start: time.Unix(start, 0).UTC(), End: time.Unix(end, 0).UTC()}
}

// StartUnix returns the start bound in epoch seconds.
func (r TimeRange) StartUnix() int64 {
	return r.Start.Unix()
}

// EndUnix returns the end bound in epoch seconds.
func (r TimeRange) EndUnix() int64 {
	return r.End.Unix()
}

// Contains reports whether ts (epoch seconds) lies within [Start, End].
func (r TimeRange) Contains(ts int64) bool {
	return ts >= r.StartUnix() && ts <= r.EndUnix()
}

// String renders the range with the wall-clock layout.
func (r TimeRange) String() string {
	return r.Start.Format(WallClockLayout) + " .. " + r.End.Format(WallClockLayout)
}

// ParseWallClock parses a user-supplied timestamp.
// Accepted forms, tried in order:
//   - "YYYY-MM-DD HH:MM:SS" (interpreted as UTC)
//   - "YYYY-MM-DD" (UTC midnight)
//   - any ISO 8601 timestamp, e.g. "2024-03-13T10:00:00+01:00"
func ParseWallClock(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty timestamp", ErrMalformedInput)
	}
	if t, err := time.ParseInLocation(WallClockLayout, s, time.UTC); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(DateLayout, s, time.UTC); err == nil {
		return t, nil
	}
	t, err := iso8601.ParseString(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: cannot parse timestamp %q (want %q)", ErrMalformedInput, s, WallClockLayout)
	}
	return t.UTC(), nil
}

// ParseTimeRange parses the two range-picker inputs.
// Both empty means no range (nil, nil). A single missing bound is malformed.
func ParseTimeRange(start, end string) (*TimeRange, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" || end == "" {
		return nil, fmt.Errorf("%w: both start and end are required for a time range", ErrMalformedInput)
	}

	s, err := ParseWallClock(start)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	e, err := ParseWallClock(end)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}

	r, err := NewTimeRange(s, e)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
