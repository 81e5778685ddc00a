// Package cache memoizes query and processing results.
//
// Entries are keyed by query shape plus parameter values and never expire.
// Values are gob-encoded, so callers always receive a private copy. Failed
// loads are never stored.
package cache

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"log/slog"

	"helios-dashboard/internal/observability"
)

// Cache is a view of a Store bound to one session namespace.
type Cache struct {
	store   Store
	session string
	logger  *slog.Logger
}

// New creates a process-wide cache over store.
func New(store Store, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{store: store, logger: logger}
}

// Session returns a cache sharing the same store under another namespace.
func (c *Cache) Session(id string) *Cache {
	return &Cache{store: c.store, session: id, logger: c.logger}
}

// SessionID returns the namespace of this cache ("" for process-wide).
func (c *Cache) SessionID() string {
	return c.session
}

// Purge drops every entry of this cache's session.
func (c *Cache) Purge(ctx context.Context) error {
	return c.store.Purge(ctx, c.session)
}

// envelope lets gob carry zero values and nil slices.
type envelope[T any] struct {
	V T
}

// GetOrLoad returns the cached value for key or calls load and caches its result.
// With bypass set the cached entry is ignored and replaced by a fresh load.
// Errors from load are returned as-is and nothing is stored. Store failures
// are logged and degrade to an uncached load.
// A nil cache always loads.
func GetOrLoad[T any](ctx context.Context, c *Cache, key Key, bypass bool, load func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}

	if bypass {
		observability.RecordCacheBypass(key.Shape)
	} else if v, ok := get[T](ctx, c, key); ok {
		observability.RecordCacheLookup(key.Shape, true)
		return v, nil
	} else {
		observability.RecordCacheLookup(key.Shape, false)
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	put(ctx, c, key, v)
	return v, nil
}

// Put stores a value unconditionally.
func Put[T any](ctx context.Context, c *Cache, key Key, v T) {
	if c == nil {
		return
	}
	put(ctx, c, key, v)
}

// Get looks up a value without loading.
func Get[T any](ctx context.Context, c *Cache, key Key) (T, bool) {
	if c == nil {
		var zero T
		return zero, false
	}
	return get[T](ctx, c, key)
}

func get[T any](ctx context.Context, c *Cache, key Key) (T, bool) {
	var zero T

	raw, ok, err := c.store.Get(ctx, c.session, key)
	if err != nil {
		observability.RecordCacheError("get")
		c.logger.Warn("cache get failed", "key", key.String(), "error", err)
		return zero, false
	}
	if !ok {
		return zero, false
	}

	v, err := decode[T](raw)
	if err != nil {
		observability.RecordCacheError("decode")
		c.logger.Warn("cache entry undecodable", "key", key.String(), "error", err)
		return zero, false
	}
	return v, true
}

func put[T any](ctx context.Context, c *Cache, key Key, v T) {
	raw, err := encode(v)
	if err != nil {
		observability.RecordCacheError("encode")
		c.logger.Warn("cache entry unencodable", "key", key.String(), "error", err)
		return
	}
	if err := c.store.Set(ctx, c.session, key, raw); err != nil {
		observability.RecordCacheError("set")
		c.logger.Warn("cache set failed", "key", key.String(), "error", err)
	}
}

func encode[T any](v T) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(envelope[T]{V: v}); err != nil {
		return nil, fmt.Errorf("encode cache entry: %w", err)
	}
	return buf.Bytes(), nil
}

func decode[T any](raw []byte) (T, error) {
	var env envelope[T]
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&env); err != nil {
		return env.V, fmt.Errorf("decode cache entry: %w", err)
	}
	return env.V, nil
}
