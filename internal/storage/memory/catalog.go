package memory

import (
	"context"

	"helios-dashboard/internal/domain"
	"helios-dashboard/internal/storage"
)

// Stores groups the in-memory stores of one dashboard database.
type Stores struct {
	Configs   *ConfigStore
	Sensors   *SensorStore
	Samples   *SampleStore
	Actuators *ActuatorStore
}

// NewStores creates an empty set of in-memory stores.
func NewStores() *Stores {
	return &Stores{
		Configs:   NewConfigStore(),
		Sensors:   NewSensorStore(),
		Samples:   NewSampleStore(),
		Actuators: NewActuatorStore(),
	}
}

// InsertConfig implements storage.CatalogWriter.
func (s *Stores) InsertConfig(ctx context.Context, c *domain.TestConfiguration) error {
	return s.Configs.Insert(ctx, c)
}

// InsertSensor implements storage.CatalogWriter.
func (s *Stores) InsertSensor(ctx context.Context, sensor *domain.Sensor) error {
	if sensor == nil {
		return storage.ErrInvalidInput
	}
	if _, err := s.Configs.GetByID(ctx, sensor.ConfigID); err != nil {
		return storage.ErrInvalidInput
	}
	return s.Sensors.Insert(ctx, sensor)
}

// InsertActuator implements storage.CatalogWriter.
func (s *Stores) InsertActuator(ctx context.Context, a *domain.Actuator) error {
	if a == nil {
		return storage.ErrInvalidInput
	}
	if _, err := s.Configs.GetByID(ctx, a.ConfigID); err != nil {
		return storage.ErrInvalidInput
	}
	return s.Actuators.Insert(ctx, a)
}

// InsertActuatorEvents implements storage.CatalogWriter.
func (s *Stores) InsertActuatorEvents(ctx context.Context, events []*domain.ActuatorEvent) error {
	return s.Actuators.InsertEvents(ctx, events)
}

var _ storage.CatalogWriter = (*Stores)(nil)
