package storage

import (
	"context"

	"helios-dashboard/internal/domain"
)

// ConfigStore provides read access to the tests table.
type ConfigStore interface {
	// GetAll retrieves all test configurations, ordered by date DESC, config_id ASC.
	GetAll(ctx context.Context) ([]*domain.TestConfiguration, error)

	// GetByID retrieves one configuration. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, configID string) (*domain.TestConfiguration, error)
}

// SensorStore provides read access to the sensors table.
type SensorStore interface {
	// GetNames retrieves all distinct sensor names across configs, ordered ASC.
	GetNames(ctx context.Context) ([]string, error)

	// GetByConfigID retrieves all sensors of a config, ordered by name ASC.
	GetByConfigID(ctx context.Context, configID string) ([]*domain.Sensor, error)

	// GetID resolves (name, config_id) to a sensor id. Returns ErrNotFound if no row matches.
	GetID(ctx context.Context, name, configID string) (int64, error)
}

// SampleStore provides read access to the sensor_values table.
type SampleStore interface {
	// GetBySensorID retrieves the full series of a sensor, ordered by timestamp ASC.
	GetBySensorID(ctx context.Context, sensorID int64) ([]*domain.SensorSample, error)

	// GetByTimeRange retrieves samples of a sensor within [start, end] (inclusive, epoch seconds).
	GetByTimeRange(ctx context.Context, sensorID int64, start, end int64) ([]*domain.SensorSample, error)

	// GetTimeRange returns min and max sample timestamps across the given sensors.
	// Returns ErrNotFound if none of them has samples.
	GetTimeRange(ctx context.Context, sensorIDs []int64) (minTs, maxTs int64, err error)

	// FilterWithSamples returns the subset of sensorIDs having at least one sample,
	// in input order.
	FilterWithSamples(ctx context.Context, sensorIDs []int64) ([]int64, error)
}

// ActuatorStore provides read access to the actuators and actuator_values tables.
type ActuatorStore interface {
	// GetNames retrieves distinct actuator names, restricted to configID when non-empty.
	GetNames(ctx context.Context, configID string) ([]string, error)

	// GetID resolves (name, config_id) to an actuator id. Returns ErrNotFound if no row matches.
	GetID(ctx context.Context, name, configID string) (int64, error)

	// GetEvents retrieves all events of an actuator, ordered by timestamp ASC.
	GetEvents(ctx context.Context, actuatorID int64) ([]*domain.ActuatorEvent, error)

	// GetEventsByTimeRange retrieves events within [start, end] (inclusive, epoch seconds).
	GetEventsByTimeRange(ctx context.Context, actuatorID int64, start, end int64) ([]*domain.ActuatorEvent, error)
}

// CatalogWriter loads test, sensor and actuator rows. Used by seeding and tests only;
// the dashboard never writes.
type CatalogWriter interface {
	// InsertConfig adds a configuration. Returns ErrDuplicateKey if config_id exists.
	InsertConfig(ctx context.Context, c *domain.TestConfiguration) error

	// InsertSensor adds a sensor. Returns ErrDuplicateKey if id or (name, config_id) exists.
	InsertSensor(ctx context.Context, s *domain.Sensor) error

	// InsertActuator adds an actuator. Returns ErrDuplicateKey if id or (name, config_id) exists.
	InsertActuator(ctx context.Context, a *domain.Actuator) error

	// InsertActuatorEvents adds actuator events in one batch.
	InsertActuatorEvents(ctx context.Context, events []*domain.ActuatorEvent) error
}

// SampleWriter loads sensor samples in bulk.
type SampleWriter interface {
	// InsertBulk adds multiple samples atomically.
	InsertBulk(ctx context.Context, samples []*domain.SensorSample) error
}
