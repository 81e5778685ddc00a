package memory

import (
	"context"
	"sort"
	"sync"

	"helios-dashboard/internal/domain"
	"helios-dashboard/internal/storage"
)

// ConfigStore is an in-memory implementation of storage.ConfigStore.
type ConfigStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TestConfiguration // keyed by config_id
}

// NewConfigStore creates a new in-memory config store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		data: make(map[string]*domain.TestConfiguration),
	}
}

// Insert adds a configuration. Returns ErrDuplicateKey if config_id exists.
func (s *ConfigStore) Insert(_ context.Context, c *domain.TestConfiguration) error {
	if c == nil || c.ConfigID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[c.ConfigID]; exists {
		return storage.ErrDuplicateKey
	}
	cfgCopy := *c
	s.data[c.ConfigID] = &cfgCopy
	return nil
}

// GetAll retrieves all configurations, ordered by date DESC, config_id ASC.
func (s *ConfigStore) GetAll(_ context.Context) ([]*domain.TestConfiguration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.TestConfiguration, 0, len(s.data))
	for _, c := range s.data {
		cfgCopy := *c
		result = append(result, &cfgCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].ConfigID < result[j].ConfigID
	})

	return result, nil
}

// GetByID retrieves one configuration. Returns ErrNotFound if not exists.
func (s *ConfigStore) GetByID(_ context.Context, configID string) (*domain.TestConfiguration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.data[configID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cfgCopy := *c
	return &cfgCopy, nil
}

var _ storage.ConfigStore = (*ConfigStore)(nil)
