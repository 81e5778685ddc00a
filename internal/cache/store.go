package cache

import (
	"context"
	"sync"
)

// Store persists encoded cache entries, namespaced by session.
// Entries never expire: cached data is append-only history.
type Store interface {
	// Get returns the entry for key in session, or false if absent.
	Get(ctx context.Context, session string, key Key) ([]byte, bool, error)

	// Set stores an entry, replacing any previous value.
	Set(ctx context.Context, session string, key Key, value []byte) error

	// Purge drops every entry of a session.
	Purge(ctx context.Context, session string) error
}

// MemoryStore is a process-scoped Store backed by maps.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte // session -> key -> value
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]map[string][]byte)}
}

var _ Store = (*MemoryStore)(nil)

// Get implements Store. The returned slice is a copy.
func (s *MemoryStore) Get(_ context.Context, session string, key Key) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[session][key.String()]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Set implements Store. The value is copied.
func (s *MemoryStore) Set(_ context.Context, session string, key Key, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, ok := s.data[session]
	if !ok {
		entries = make(map[string][]byte)
		s.data[session] = entries
	}
	entries[key.String()] = v
	return nil
}

// Purge implements Store.
func (s *MemoryStore) Purge(_ context.Context, session string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, session)
	return nil
}

// Len returns the number of entries held for a session.
func (s *MemoryStore) Len(session string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data[session])
}
