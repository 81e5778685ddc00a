package memory

import (
	"context"
	"sort"
	"sync"

	"helios-dashboard/internal/domain"
	"helios-dashboard/internal/storage"
)

// ActuatorStore is an in-memory implementation of storage.ActuatorStore.
type ActuatorStore struct {
	mu     sync.RWMutex
	byID   map[int64]*domain.Actuator
	byName map[string]int64 // keyed by (name, config_id)
	events map[int64][]domain.ActuatorEvent
}

// NewActuatorStore creates a new in-memory actuator store.
func NewActuatorStore() *ActuatorStore {
	return &ActuatorStore{
		byID:   make(map[int64]*domain.Actuator),
		byName: make(map[string]int64),
		events: make(map[int64][]domain.ActuatorEvent),
	}
}

// Insert adds an actuator. Returns ErrDuplicateKey if id or (name, config_id) exists.
func (s *ActuatorStore) Insert(_ context.Context, a *domain.Actuator) error {
	if a == nil || a.Name == "" || a.ConfigID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := nameKey(a.Name, a.ConfigID)
	if _, exists := s.byID[a.ID]; exists {
		return storage.ErrDuplicateKey
	}
	if _, exists := s.byName[key]; exists {
		return storage.ErrDuplicateKey
	}

	actuatorCopy := *a
	s.byID[a.ID] = &actuatorCopy
	s.byName[key] = a.ID
	return nil
}

// InsertEvents adds actuator events. Fails the entire batch if an actuator is unknown.
func (s *ActuatorStore) InsertEvents(_ context.Context, events []*domain.ActuatorEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range events {
		if e == nil {
			return storage.ErrInvalidInput
		}
		if _, ok := s.byID[e.ActuatorID]; !ok {
			return storage.ErrInvalidInput
		}
	}

	touched := make(map[int64]struct{})
	for _, e := range events {
		s.events[e.ActuatorID] = append(s.events[e.ActuatorID], *e)
		touched[e.ActuatorID] = struct{}{}
	}
	for id := range touched {
		series := s.events[id]
		sort.SliceStable(series, func(i, j int) bool {
			return readingLess(series[i].Timestamp, series[i].Value, series[j].Timestamp, series[j].Value)
		})
	}
	return nil
}

// GetNames retrieves distinct actuator names, restricted to configID when non-empty.
func (s *ActuatorStore) GetNames(_ context.Context, configID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var names []string
	for _, a := range s.byID {
		if configID != "" && a.ConfigID != configID {
			continue
		}
		if _, ok := seen[a.Name]; ok {
			continue
		}
		seen[a.Name] = struct{}{}
		names = append(names, a.Name)
	}
	sort.Strings(names)
	return names, nil
}

// GetID resolves (name, config_id). Returns ErrNotFound if no row matches.
func (s *ActuatorStore) GetID(_ context.Context, name, configID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[nameKey(name, configID)]
	if !ok {
		return 0, storage.ErrNotFound
	}
	return id, nil
}

// GetEvents retrieves all events of an actuator, ordered by timestamp ASC.
func (s *ActuatorStore) GetEvents(_ context.Context, actuatorID int64) ([]*domain.ActuatorEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ActuatorEvent
	for _, e := range s.events[actuatorID] {
		eventCopy := e
		result = append(result, &eventCopy)
	}
	return result, nil
}

// GetEventsByTimeRange retrieves events within [start, end] (inclusive).
func (s *ActuatorStore) GetEventsByTimeRange(_ context.Context, actuatorID int64, start, end int64) ([]*domain.ActuatorEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ActuatorEvent
	for _, e := range s.events[actuatorID] {
		if e.Timestamp >= start && e.Timestamp <= end {
			eventCopy := e
			result = append(result, &eventCopy)
		}
	}
	return result, nil
}

var _ storage.ActuatorStore = (*ActuatorStore)(nil)
