package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestViewRequest_EffectiveWindow(t *testing.T) {
	assert.Equal(t, DefaultWindow, ViewRequest{}.EffectiveWindow())
	assert.Equal(t, 5, ViewRequest{Window: 5}.EffectiveWindow())
}

func TestViewRequest_Validate(t *testing.T) {
	valid := ViewRequest{ConfigIDs: []string{"CFG-1"}, SensorNames: []string{"T1"}}
	assert.NoError(t, valid.Validate())

	backwards := &TimeRange{Start: time.Unix(100, 0), End: time.Unix(50, 0)}

	tests := []struct {
		name string
		req  ViewRequest
	}{
		{"no config", ViewRequest{SensorNames: []string{"T1"}}},
		{"no sensor", ViewRequest{ConfigIDs: []string{"CFG-1"}}},
		{"blank config", ViewRequest{ConfigIDs: []string{" "}, SensorNames: []string{"T1"}}},
		{"blank sensor", ViewRequest{ConfigIDs: []string{"CFG-1"}, SensorNames: []string{""}}},
		{"negative window", ViewRequest{ConfigIDs: []string{"CFG-1"}, SensorNames: []string{"T1"}, Window: -3}},
		{"backwards range", ViewRequest{ConfigIDs: []string{"CFG-1"}, SensorNames: []string{"T1"}, Range: backwards}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.req.Validate(), ErrMalformedInput)
		})
	}
}

func TestNormalizedComparisonFrame_Series(t *testing.T) {
	f := NormalizedComparisonFrame{Points: []NormalizedPoint{
		{SensorName: "T1", ConfigID: "A", NormalizedTimestamp: 0},
		{SensorName: "T1", ConfigID: "A", NormalizedTimestamp: 1},
		{SensorName: "T1", ConfigID: "B", NormalizedTimestamp: 0},
	}}

	labels, bySeries := f.Series()
	assert.Equal(t, []string{"T1 @ A", "T1 @ B"}, labels)
	assert.Len(t, bySeries["T1 @ A"], 2)
	assert.Len(t, bySeries["T1 @ B"], 1)
}

func TestSeriesFrame_CloneIsDeep(t *testing.T) {
	f := SeriesFrame{SensorName: "T1", Points: []SeriesPoint{{Value: 1}}}
	c := f.Clone()
	c.Points[0].Value = 99
	assert.Equal(t, 1.0, f.Points[0].Value)
}
