package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helios-dashboard/internal/cache"
	"helios-dashboard/internal/config"
	"helios-dashboard/internal/fixtures"
)

func TestOpenBackend_Memory(t *testing.T) {
	ctx := context.Background()
	b, err := OpenBackend(ctx, config.Config{UseMemory: true})
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, BackendMemory, b.Name)
	require.NoError(t, Migrate(ctx, config.Config{UseMemory: true}, nil))

	_, err = fixtures.LoadFixtures(ctx, b.Catalog, b.Samples, fixtures.Options{Interval: time.Minute, Duration: 5 * time.Minute})
	require.NoError(t, err)

	f := b.Fetcher()
	configs := f.FetchConfigurations(ctx)
	require.Len(t, configs, 3)
	assert.Equal(t, "CFG-1003", configs[0].ConfigID)

	id, ok := f.ResolveSensorID(ctx, "Flow1", "CFG-1001")
	require.True(t, ok)
	assert.Len(t, f.FetchSamples(ctx, id, nil), 6)
}

func TestOpenCacheStore_DefaultsToMemory(t *testing.T) {
	store, closeFn, err := OpenCacheStore(context.Background(), config.Config{})
	require.NoError(t, err)
	defer closeFn()

	_, ok := store.(*cache.MemoryStore)
	assert.True(t, ok)
}
