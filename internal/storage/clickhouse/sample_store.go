package clickhouse

import (
	"context"
	"fmt"

	"helios-dashboard/internal/domain"
	"helios-dashboard/internal/storage"
)

// SampleStore implements storage.SampleStore using ClickHouse.
// Only sensor_values lives here; the sensor catalog stays in PostgreSQL.
type SampleStore struct {
	conn *Conn
}

// NewSampleStore creates a new SampleStore.
func NewSampleStore(conn *Conn) *SampleStore {
	return &SampleStore{conn: conn}
}

// Compile-time interface checks.
var (
	_ storage.SampleStore  = (*SampleStore)(nil)
	_ storage.SampleWriter = (*SampleStore)(nil)
)

// InsertBulk adds multiple samples in one batch.
func (s *SampleStore) InsertBulk(ctx context.Context, samples []*domain.SensorSample) error {
	if len(samples) == 0 {
		return nil
	}
	for _, sample := range samples {
		if sample == nil {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO sensor_values (sensor_id, timestamp, value)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, sample := range samples {
		if err := batch.Append(sample.SensorID, sample.Timestamp, sample.Value); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetBySensorID retrieves the full series of a sensor, ordered by timestamp ASC.
func (s *SampleStore) GetBySensorID(ctx context.Context, sensorID int64) ([]*domain.SensorSample, error) {
	query := `
		SELECT sensor_id, timestamp, value
		FROM sensor_values
		WHERE sensor_id = ?
		ORDER BY timestamp ASC, value ASC
	`

	rows, err := s.conn.Query(ctx, query, sensorID)
	if err != nil {
		return nil, queryError("query by sensor id", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

// GetByTimeRange retrieves samples of a sensor within [start, end] (inclusive).
func (s *SampleStore) GetByTimeRange(ctx context.Context, sensorID int64, start, end int64) ([]*domain.SensorSample, error) {
	query := `
		SELECT sensor_id, timestamp, value
		FROM sensor_values
		WHERE sensor_id = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC, value ASC
	`

	rows, err := s.conn.Query(ctx, query, sensorID, start, end)
	if err != nil {
		return nil, queryError("query by time range", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

// GetTimeRange returns min and max sample timestamps across the given sensors.
// Sensors are queried one by one with scalar parameters; a config has few sensors.
func (s *SampleStore) GetTimeRange(ctx context.Context, sensorIDs []int64) (minTs, maxTs int64, err error) {
	query := `
		SELECT count(), min(timestamp), max(timestamp)
		FROM sensor_values
		WHERE sensor_id = ?
	`

	found := false
	for _, id := range sensorIDs {
		var (
			count  uint64
			lo, hi int64
		)
		if err := s.conn.QueryRow(ctx, query, id).Scan(&count, &lo, &hi); err != nil {
			return 0, 0, queryError("query time range", err)
		}
		if count == 0 {
			continue
		}
		if !found {
			minTs, maxTs = lo, hi
			found = true
			continue
		}
		if lo < minTs {
			minTs = lo
		}
		if hi > maxTs {
			maxTs = hi
		}
	}

	if !found {
		return 0, 0, storage.ErrNotFound
	}
	return minTs, maxTs, nil
}

// FilterWithSamples returns the subset of sensorIDs having at least one sample, in input order.
func (s *SampleStore) FilterWithSamples(ctx context.Context, sensorIDs []int64) ([]int64, error) {
	var result []int64
	for _, id := range sensorIDs {
		ok, err := s.exists(ctx, id)
		if err != nil {
			return nil, queryError("check samples exist", err)
		}
		if ok {
			result = append(result, id)
		}
	}
	return result, nil
}

// exists checks if a sensor has any sample.
func (s *SampleStore) exists(ctx context.Context, sensorID int64) (bool, error) {
	query := `
		SELECT count() FROM sensor_values
		WHERE sensor_id = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, sensorID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanSamples scans multiple rows.
func scanSamples(rows chRows) ([]*domain.SensorSample, error) {
	var samples []*domain.SensorSample

	for rows.Next() {
		var sample domain.SensorSample
		if err := rows.Scan(&sample.SensorID, &sample.Timestamp, &sample.Value); err != nil {
			return nil, fmt.Errorf("scan sample row: %w", err)
		}
		samples = append(samples, &sample)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sample rows: %w", err)
	}

	return samples, nil
}
