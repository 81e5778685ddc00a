package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"helios-dashboard/internal/observability"
)

// Sessions hands each dashboard session its own cache namespace.
// Entries of one session are never visible to another.
type Sessions struct {
	mu     sync.Mutex
	root   *Cache
	seen   map[string]time.Time // session id -> last access
	now    func() time.Time
	logger *slog.Logger
}

// NewSessions creates a registry over store.
func NewSessions(store Store, logger *slog.Logger) *Sessions {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sessions{
		root:   New(store, logger),
		seen:   make(map[string]time.Time),
		now:    time.Now,
		logger: logger,
	}
}

// Open returns the cache for id, minting a new session when id is not a valid UUID.
// The returned id is the one the caller must keep using.
func (s *Sessions) Open(id string) (*Cache, string, bool) {
	created := false
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
		created = true
	}

	s.mu.Lock()
	s.seen[id] = s.now()
	n := len(s.seen)
	s.mu.Unlock()

	observability.UpdateSessions(n)
	if created {
		s.logger.Debug("cache session opened", "session", id)
	}
	return s.root.Session(id), id, created
}

// Close purges a session's entries and forgets it.
func (s *Sessions) Close(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.seen, id)
	n := len(s.seen)
	s.mu.Unlock()

	observability.UpdateSessions(n)
	return s.root.Session(id).Purge(ctx)
}

// Expire closes sessions idle for longer than idle and returns how many were closed.
func (s *Sessions) Expire(ctx context.Context, idle time.Duration) (int, error) {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	var stale []string
	for id, last := range s.seen {
		if last.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	s.mu.Unlock()

	expired := 0
	for _, id := range stale {
		// A session opened again since the scan is live and keeps its entries.
		s.mu.Lock()
		last, ok := s.seen[id]
		if !ok || !last.Before(cutoff) {
			s.mu.Unlock()
			continue
		}
		delete(s.seen, id)
		n := len(s.seen)
		s.mu.Unlock()

		observability.UpdateSessions(n)
		if err := s.root.Session(id).Purge(ctx); err != nil {
			return expired, err
		}
		expired++
	}
	return expired, nil
}

// Len returns the number of known sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
