package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helios-dashboard/internal/domain"
	"helios-dashboard/internal/storage"
)

func TestConfigStore_GetAll_OrderedByDateDesc(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	loader := NewLoader(pool)

	configs := []*domain.TestConfiguration{
		{ConfigID: "CFG-1", Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{ConfigID: "CFG-3", Date: time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)},
		{ConfigID: "CFG-2", Date: time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range configs {
		require.NoError(t, loader.InsertConfig(ctx, c))
	}

	store := NewConfigStore(pool)
	got, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "CFG-2", got[0].ConfigID)
	assert.Equal(t, "CFG-3", got[1].ConfigID)
	assert.Equal(t, "CFG-1", got[2].ConfigID)
	assert.Equal(t, "CFG-2 - 2024-03-12", got[0].Label())
}

func TestConfigStore_GetAll_Empty(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	got, err := NewConfigStore(pool).GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestConfigStore_GetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	seedCatalog(t, ctx, pool)

	store := NewConfigStore(pool)
	got, err := store.GetByID(ctx, "CFG-7")
	require.NoError(t, err)
	assert.Equal(t, "CFG-7", got.ConfigID)
	assert.True(t, got.Date.Equal(time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)))

	_, err = store.GetByID(ctx, "CFG-42")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLoader_InsertConfig_Duplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	loader := seedCatalog(t, ctx, pool)

	err := loader.InsertConfig(ctx, &domain.TestConfiguration{
		ConfigID: "CFG-7",
		Date:     time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestLoader_InsertSensor_UnknownConfig(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	err := NewLoader(pool).InsertSensor(context.Background(), &domain.Sensor{ID: 1, Name: "Thermocouple1", ConfigID: "CFG-42"})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
