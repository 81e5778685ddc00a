package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"helios-dashboard/internal/domain"
	"helios-dashboard/internal/storage"
)

// SampleStore implements storage.SampleStore using PostgreSQL.
type SampleStore struct {
	pool *Pool
}

// NewSampleStore creates a new SampleStore.
func NewSampleStore(pool *Pool) *SampleStore {
	return &SampleStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SampleStore = (*SampleStore)(nil)

// GetBySensorID retrieves the full series of a sensor, ordered by timestamp ASC.
func (s *SampleStore) GetBySensorID(ctx context.Context, sensorID int64) ([]*domain.SensorSample, error) {
	query := `
		SELECT sensor_id, timestamp, value
		FROM sensor_values
		WHERE sensor_id = $1
		ORDER BY timestamp ASC, value ASC
	`

	rows, err := s.pool.Query(ctx, query, sensorID)
	if err != nil {
		return nil, queryError("get samples by sensor id", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

// GetByTimeRange retrieves samples of a sensor within [start, end] (inclusive).
func (s *SampleStore) GetByTimeRange(ctx context.Context, sensorID int64, start, end int64) ([]*domain.SensorSample, error) {
	query := `
		SELECT sensor_id, timestamp, value
		FROM sensor_values
		WHERE sensor_id = $1 AND timestamp >= $2 AND timestamp <= $3
		ORDER BY timestamp ASC, value ASC
	`

	rows, err := s.pool.Query(ctx, query, sensorID, start, end)
	if err != nil {
		return nil, queryError("get samples by time range", err)
	}
	defer rows.Close()

	return scanSamples(rows)
}

// GetTimeRange returns min and max sample timestamps across the given sensors.
// Returns ErrNotFound if none of them has samples.
func (s *SampleStore) GetTimeRange(ctx context.Context, sensorIDs []int64) (minTs, maxTs int64, err error) {
	if len(sensorIDs) == 0 {
		return 0, 0, storage.ErrNotFound
	}

	query := `
		SELECT MIN(timestamp), MAX(timestamp)
		FROM sensor_values
		WHERE sensor_id = ANY($1)
	`

	var lo, hi *int64
	if err := s.pool.QueryRow(ctx, query, sensorIDs).Scan(&lo, &hi); err != nil {
		return 0, 0, queryError("get sample time range", err)
	}
	if lo == nil || hi == nil {
		return 0, 0, storage.ErrNotFound
	}
	return *lo, *hi, nil
}

// FilterWithSamples returns the subset of sensorIDs having at least one sample, in input order.
func (s *SampleStore) FilterWithSamples(ctx context.Context, sensorIDs []int64) ([]int64, error) {
	if len(sensorIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT s.id
		FROM unnest($1::bigint[]) WITH ORDINALITY AS s(id, ord)
		WHERE EXISTS (SELECT 1 FROM sensor_values v WHERE v.sensor_id = s.id)
		ORDER BY s.ord
	`

	rows, err := s.pool.Query(ctx, query, sensorIDs)
	if err != nil {
		return nil, queryError("filter sensors with samples", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan sensor id row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sensor id rows: %w", err)
	}
	return ids, nil
}

// scanSamples scans multiple rows into a slice of SensorSample.
func scanSamples(rows pgx.Rows) ([]*domain.SensorSample, error) {
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
