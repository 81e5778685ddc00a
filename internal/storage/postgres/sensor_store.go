package postgres

import (
	"context"
	"fmt"

	"helios-dashboard/internal/domain"
	"helios-dashboard/internal/storage"
)

// SensorStore implements storage.SensorStore using PostgreSQL.
type SensorStore struct {
	pool *Pool
}

// NewSensorStore creates a new SensorStore.
func NewSensorStore(pool *Pool) *SensorStore {
	return &SensorStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SensorStore = (*SensorStore)(nil)

// GetNames retrieves all distinct sensor names across configs, ordered ASC.
func (s *SensorStore) GetNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT name
		FROM sensors
		ORDER BY name ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, queryError("get sensor names", err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

// GetByConfigID retrieves all sensors of a config, ordered by name ASC.
func (s *SensorStore) GetByConfigID(ctx context.Context, configID string) ([]*domain.Sensor, error) {
	query := `
		SELECT id, name, config_id
		FROM sensors
		WHERE config_id = $1
		ORDER BY name ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, configID)
	if err != nil {
		return nil, queryError("get sensors by config id", err)
	}
	defer rows.Close()

	var sensors []*domain.Sensor
	for rows.Next() {
		var sensor domain.Sensor
		if err := rows.Scan(&sensor.ID, &sensor.Name, &sensor.ConfigID); err != nil {
			return nil, fmt.Errorf("scan sensor row: %w", err)
		}
		sensors = append(sensors, &sensor)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sensor rows: %w", err)
	}

	return sensors, nil
}

// GetID resolves (name, config_id) to a sensor id. Returns ErrNotFound if no row matches.
func (s *SensorStore) GetID(ctx context.Context, name, configID string) (int64, error) {
	query := `
		SELECT id
		FROM sensors
		WHERE name = $1 AND config_id = $2
	`

	var id int64
	err := s.pool.QueryRow(ctx, query, name, configID).Scan(&id)
	if err != nil {
		if isNotFoundError(err) {
			return 0, storage.ErrNotFound
		}
		return 0, queryError("get sensor id", err)
	}
	return id, nil
}
