package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWallClock_Layouts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"wall clock", "2024-03-13 10:15:30", time.Date(2024, 3, 13, 10, 15, 30, 0, time.UTC)},
		{"date only", "2024-03-13", time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)},
		{"iso8601 utc", "2024-03-13T10:15:30Z", time.Date(2024, 3, 13, 10, 15, 30, 0, time.UTC)},
		{"iso8601 offset", "2024-03-13T11:15:30+01:00", time.Date(2024, 3, 13, 10, 15, 30, 0, time.UTC)},
		{"surrounding spaces", "  2024-03-13 10:15:30 ", time.Date(2024, 3, 13, 10, 15, 30, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWallClock(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseWallClock_Malformed(t *testing.T) {
	for _, input := range []string{"", "yesterday", "13/03/2024", "next tuesday 10:00"} {
		_, err := ParseWallClock(input)
		assert.ErrorIs(t, err, ErrMalformedInput, "input %q", input)
	}
}

func TestParseTimeRange(t *testing.T) {
	r, err := ParseTimeRange("", "")
	require.NoError(t, err)
	assert.Nil(t, r, "no bounds selects the full series")

	r, err = ParseTimeRange("1970-01-01 00:16:40", "1970-01-01 00:26:40")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, int64(1000), r.StartUnix())
	assert.Equal(t, int64(1600), r.EndUnix())
	assert.True(t, r.Contains(1000))
	assert.True(t, r.Contains(1600))
	assert.False(t, r.Contains(1601))
}

func TestParseTimeRange_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
	}{
		{"missing end", "2024-03-13 10:00:00", ""},
		{"missing start", "", "2024-03-13 10:00:00"},
		{"garbage start", "soon", "2024-03-13 10:00:00"},
		{"end before start", "2024-03-13 10:00:00", "2024-03-13 09:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseTimeRange(tt.start, tt.end)
			assert.ErrorIs(t, err, ErrMalformedInput)
			assert.Nil(t, r)
		})
	}
}

func TestRangeFromUnix(t *testing.T) {
	r := RangeFromUnix(0, 120)
	assert.Equal(t, "1970-01-01 00:00:00 .. 1970-01-01 00:02:00", r.String())
}

func TestTestConfiguration_Label(t *testing.T) {
	c := TestConfiguration{ConfigID: "CFG-42", Date: time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "CFG-42 - 2024-03-13", c.Label())
}
