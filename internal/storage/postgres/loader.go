package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"helios-dashboard/internal/domain"
	"helios-dashboard/internal/storage"
)

// Loader writes catalog rows and samples. It backs the seed tool and
// integration tests; the dashboard itself never writes.
type Loader struct {
	pool *Pool
}

// NewLoader creates a new Loader.
func NewLoader(pool *Pool) *Loader {
	return &Loader{pool: pool}
}

// Compile-time interface checks.
var (
	_ storage.CatalogWriter = (*Loader)(nil)
	_ storage.SampleWriter  = (*Loader)(nil)
)

// InsertConfig adds a configuration. Returns ErrDuplicateKey if config_id exists.
func (l *Loader) InsertConfig(ctx context.Context, c *domain.TestConfiguration) error {
	_, err := l.pool.Exec(ctx, `INSERT INTO tests (config_id, date) VALUES ($1, $2)`, c.ConfigID, c.Date)
	return classifyInsertError("insert test configuration", err)
}

// InsertSensor adds a sensor. Returns ErrDuplicateKey if id or (name, config_id) exists.
func (l *Loader) InsertSensor(ctx context.Context, s *domain.Sensor) error {
	_, err := l.pool.Exec(ctx, `INSERT INTO sensors (id, name, config_id) VALUES ($1, $2, $3)`, s.ID, s.Name, s.ConfigID)
	return classifyInsertError("insert sensor", err)
}

// InsertActuator adds an actuator. Returns ErrDuplicateKey if id or (name, config_id) exists.
func (l *Loader) InsertActuator(ctx context.Context, a *domain.Actuator) error {
	_, err := l.pool.Exec(ctx, `INSERT INTO actuators (id, name, config_id) VALUES ($1, $2, $3)`, a.ID, a.Name, a.ConfigID)
	return classifyInsertError("insert actuator", err)
}

// InsertActuatorEvents adds events with COPY in a single transaction.
func (l *Loader) InsertActuatorEvents(ctx context.Context, events []*domain.ActuatorEvent) error {
	if len(events) == 0 {
		return nil
	}

	return l.copyIn(ctx, "actuator_values", []string{"actuator_id", "timestamp", "value"}, len(events), func(i int) ([]any, error) {
		e := events[i]
		return []any{e.ActuatorID, e.Timestamp, e.Value}, nil
	})
}

// InsertBulk adds samples with COPY in a single transaction. Fails the entire batch on error.
func (l *Loader) InsertBulk(ctx context.Context, samples []*domain.SensorSample) error {
	if len(samples) == 0 {
		return nil
	}

	return l.copyIn(ctx, "sensor_values", []string{"sensor_id", "timestamp", "value"}, len(samples), func(i int) ([]any, error) {
		s := samples[i]
		return []any{s.SensorID, s.Timestamp, s.Value}, nil
	})
}

func (l *Loader) copyIn(ctx context.Context, table string, columns []string, n int, row func(int) ([]any, error)) error {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromSlice(n, row)); err != nil {
		return classifyInsertError("copy into "+table, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func classifyInsertError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case isDuplicateKeyError(err):
		return storage.ErrDuplicateKey
	case isForeignKeyError(err):
		return fmt.Errorf("%s: %w", op, storage.ErrInvalidInput)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
