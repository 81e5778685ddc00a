package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"helios-dashboard/internal/domain"
	"helios-dashboard/internal/storage"
)

// ActuatorStore implements storage.ActuatorStore using PostgreSQL.
type ActuatorStore struct {
	pool *Pool
}

// NewActuatorStore creates a new ActuatorStore.
func NewActuatorStore(pool *Pool) *ActuatorStore {
	return &ActuatorStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ActuatorStore = (*ActuatorStore)(nil)

// GetNames retrieves distinct actuator names, restricted to configID when non-empty.
func (s *ActuatorStore) GetNames(ctx context.Context, configID string) ([]string, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if configID == "" {
		rows, err = s.pool.Query(ctx, `
			SELECT DISTINCT name
			FROM actuators
			ORDER BY name ASC
		`)
	} else {
		rows, err = s.pool.Query(ctx, `
			SELECT DISTINCT name
			FROM actuators
			WHERE config_id = $1
			ORDER BY name ASC
		`, configID)
	}
	if err != nil {
		return nil, queryError("get actuator names", err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

// GetID resolves (name, config_id) to an actuator id. Returns ErrNotFound if no row matches.
func (s *ActuatorStore) GetID(ctx context.Context, name, configID string) (int64, error) {
	query := `
		SELECT id
		FROM actuators
		WHERE name = $1 AND config_id = $2
	`

	var id int64
	err := s.pool.QueryRow(ctx, query, name, configID).Scan(&id)
	if err != nil {
		if isNotFoundError(err) {
			return 0, storage.ErrNotFound
		}
		return 0, queryError("get actuator id", err)
	}
	return id, nil
}

// GetEvents retrieves all events of an actuator, ordered by timestamp ASC.
func (s *ActuatorStore) GetEvents(ctx context.Context, actuatorID int64) ([]*domain.ActuatorEvent, error) {
	query := `
		SELECT actuator_id, timestamp, value
		FROM actuator_values
		WHERE actuator_id = $1
		ORDER BY timestamp ASC, value ASC
	`

	rows, err := s.pool.Query(ctx, query, actuatorID)
	if err != nil {
		return nil, queryError("get actuator events", err)
	}
	defer rows.Close()

	return scanActuatorEvents(rows)
}

// GetEventsByTimeRange retrieves events within [start, end] (inclusive).
func (s *ActuatorStore) GetEventsByTimeRange(ctx context.Context, actuatorID int64, start, end int64) ([]*domain.ActuatorEvent, error) {
	query := `
		SELECT actuator_id, timestamp, value
		FROM actuator_values
		WHERE actuator_id = $1 AND timestamp >= $2 AND timestamp <= $3
		ORDER BY timestamp ASC, value ASC
	`

	rows, err := s.pool.Query(ctx, query, actuatorID, start, end)
	if err != nil {
		return nil, queryError("get actuator events by time range", err)
	}
	defer rows.Close()

	return scanActuatorEvents(rows)
}

// scanActuatorEvents scans multiple rows into a slice of ActuatorEvent.
func scanActuatorEvents(rows pgx.Rows) ([]*domain.ActuatorEvent, error) {
	var events []*domain.ActuatorEvent

	for rows.Next() {
		var e domain.ActuatorEvent
		if err := rows.Scan(&e.ActuatorID, &e.Timestamp, &e.Value); err != nil {
			return nil, fmt.Errorf("scan actuator event row: %w", err)
		}
		events = append(events, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actuator event rows: %w", err)
	}

	return events, nil
}
