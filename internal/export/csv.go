package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"helios-dashboard/internal/domain"
	"helios-dashboard/internal/observability"
)

// CSV column names.
const (
	ColTimestamp         = "timestamp"
	ColValue             = "value"
	ColValueMA           = "value_ma"
	ColSensorName        = "sensor_name"
	ColConfigID          = "config_id"
	ColNormalizedMinutes = "normalized_minutes"
)

// WriteSeries writes frames as CSV rows: timestamp,value,value_ma.
// With more than one frame, sensor_name and config_id columns tag each row.
// Timestamps use domain.WallClockLayout in UTC.
func WriteSeries(w io.Writer, frames ...domain.SeriesFrame) error {
	tagged := len(frames) > 1

	header := []string{ColTimestamp, ColValue, ColValueMA}
	if tagged {
		header = append(header, ColSensorName, ColConfigID)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	rows := 0
	for _, f := range frames {
		for _, p := range f.Points {
			record := []string{
				p.Timestamp.UTC().Format(domain.WallClockLayout),
				formatFloat(p.Value),
				formatFloat(p.ValueMA),
			}
			if tagged {
				record = append(record, f.SensorName, f.ConfigID)
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
			rows++
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	observability.RecordRowsExported("series", rows)
	return nil
}

// WriteNormalized writes a comparison frame, adding the normalized_minutes column.
func WriteNormalized(w io.Writer, frame domain.NormalizedComparisonFrame) error {
	cw := csv.NewWriter(w)
	header := []string{ColTimestamp, ColValue, ColValueMA, ColSensorName, ColConfigID, ColNormalizedMinutes}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, p := range frame.Points {
		record := []string{
			p.Timestamp.UTC().Format(domain.WallClockLayout),
			formatFloat(p.Value),
			formatFloat(p.ValueMA),
			p.SensorName,
			p.ConfigID,
			formatFloat(p.NormalizedTimestamp),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	observability.RecordRowsExported("normalized", len(frame.Points))
	return nil
}

// ParseCSV reads rows written by WriteSeries or WriteNormalized back into frames.
// Rows are grouped by (sensor_name, config_id) in order of first appearance.
// Columns are matched by header name; unknown columns are ignored.
func ParseCSV(r io.Reader) ([]domain.SeriesFrame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty csv", domain.ErrMalformedInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read csv header: %v", domain.ErrMalformedInput, err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	for _, required := range []string{ColTimestamp, ColValue, ColValueMA} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("%w: csv missing column %q", domain.ErrMalformedInput, required)
		}
	}

	type tag struct{ sensor, config string }
	var (
		order  []tag
		frames = make(map[tag]*domain.SeriesFrame)
	)

	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrMalformedInput, line, err)
		}
		if len(record) != len(header) {
			return nil, fmt.Errorf("%w: line %d: want %d fields, got %d", domain.ErrMalformedInput, line, len(header), len(record))
		}

		p, err := parsePoint(record, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		t := tag{sensor: field(record, idx, ColSensorName), config: field(record, idx, ColConfigID)}
		f, ok := frames[t]
		if !ok {
			f = &domain.SeriesFrame{SensorName: t.sensor, ConfigID: t.config}
			frames[t] = f
			order = append(order, t)
		}
		f.Points = append(f.Points, p)
	}

	out := make([]domain.SeriesFrame, 0, len(order))
	for _, t := range order {
		out = append(out, *frames[t])
	}
	return out, nil
}

func parsePoint(record []string, idx map[string]int) (domain.SeriesPoint, error) {
	ts, err := time.ParseInLocation(domain.WallClockLayout, record[idx[ColTimestamp]], time.UTC)
	if err != nil {
		return domain.SeriesPoint{}, fmt.Errorf("%w: timestamp %q", domain.ErrMalformedInput, record[idx[ColTimestamp]])
	}
	value, err := strconv.ParseFloat(record[idx[ColValue]], 64)
	if err != nil {
		return domain.SeriesPoint{}, fmt.Errorf("%w: value %q", domain.ErrMalformedInput, record[idx[ColValue]])
	}
	ma, err := strconv.ParseFloat(record[idx[ColValueMA]], 64)
	if err != nil {
		return domain.SeriesPoint{}, fmt.Errorf("%w: value_ma %q", domain.ErrMalformedInput, record[idx[ColValueMA]])
	}
	return domain.SeriesPoint{Timestamp: ts, Value: value, ValueMA: ma}, nil
}

func field(record []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok {
		return ""
	}
	return record[i]
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
