package memory

import (
	"context"
	"sort"
	"sync"

	"helios-dashboard/internal/domain"
	"helios-dashboard/internal/storage"
)

// SensorStore is an in-memory implementation of storage.SensorStore.
type SensorStore struct {
	mu     sync.RWMutex
	byID   map[int64]*domain.Sensor
	byName map[string]int64 // keyed by (name, config_id)
}

// NewSensorStore creates a new in-memory sensor store.
func NewSensorStore() *SensorStore {
	return &SensorStore{
		byID:   make(map[int64]*domain.Sensor),
		byName: make(map[string]int64),
	}
}

// nameKey generates the unique (name, config_id) key.
func nameKey(name, configID string) string {
	return name + "\x00" + configID
}

// Insert adds a sensor. Returns ErrDuplicateKey if id or (name, config_id) exists.
func (s *SensorStore) Insert(_ context.Context, sensor *domain.Sensor) error {
	if sensor == nil || sensor.Name == "" || sensor.ConfigID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := nameKey(sensor.Name, sensor.ConfigID)
	if _, exists := s.byID[sensor.ID]; exists {
		return storage.ErrDuplicateKey
	}
	if _, exists := s.byName[key]; exists {
		return storage.ErrDuplicateKey
	}

	sensorCopy := *sensor
	s.byID[sensor.ID] = &sensorCopy
	s.byName[key] = sensor.ID
	return nil
}

// GetNames retrieves all distinct sensor names, ordered ASC.
func (s *SensorStore) GetNames(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var names []string
	for _, sensor := range s.byID {
		if _, ok := seen[sensor.Name]; ok {
			continue
		}
		seen[sensor.Name] = struct{}{}
		names = append(names, sensor.Name)
	}
	sort.Strings(names)
	return names, nil
}

// GetByConfigID retrieves all sensors of a config, ordered by name ASC.
func (s *SensorStore) GetByConfigID(_ context.Context, configID string) ([]*domain.Sensor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Sensor
	for _, sensor := range s.byID {
		if sensor.ConfigID == configID {
			sensorCopy := *sensor
			result = append(result, &sensorCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// GetID resolves (name, config_id). Returns ErrNotFound if no row matches.
func (s *SensorStore) GetID(_ context.Context, name, configID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[nameKey(name, configID)]
	if !ok {
		return 0, storage.ErrNotFound
	}
	return id, nil
}

var _ storage.SensorStore = (*SensorStore)(nil)
