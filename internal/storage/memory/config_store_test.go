package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"helios-dashboard/internal/domain"
	"helios-dashboard/internal/storage"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestConfigStore_GetAllOrderedByDateDesc(t *testing.T) {
	store := NewConfigStore()
	ctx := context.Background()

	configs := []*domain.TestConfiguration{
		{ConfigID: "CFG-1", Date: day(2024, 3, 1)},
		{ConfigID: "CFG-3", Date: day(2024, 3, 13)},
		{ConfigID: "CFG-2", Date: day(2024, 3, 5)},
		{ConfigID: "CFG-0", Date: day(2024, 3, 13)},
	}
	for _, c := range configs {
		if err := store.Insert(ctx, c); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	result, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}

	want := []string{"CFG-0", "CFG-3", "CFG-2", "CFG-1"}
	if len(result) != len(want) {
		t.Fatalf("Expected %d configs, got %d", len(want), len(result))
	}
	for i, id := range want {
		if result[i].ConfigID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, result[i].ConfigID)
		}
	}
}

func TestConfigStore_Duplicate(t *testing.T) {
	store := NewConfigStore()
	ctx := context.Background()

	c := &domain.TestConfiguration{ConfigID: "CFG-1", Date: day(2024, 3, 1)}
	if err := store.Insert(ctx, c); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	if err := store.Insert(ctx, c); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestConfigStore_GetByIDNotFound(t *testing.T) {
	store := NewConfigStore()

	_, err := store.GetByID(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestConfigStore_ReturnsCopies(t *testing.T) {
	store := NewConfigStore()
	ctx := context.Background()

	_ = store.Insert(ctx, &domain.TestConfiguration{ConfigID: "CFG-1", Date: day(2024, 3, 1)})

	got, _ := store.GetByID(ctx, "CFG-1")
	got.ConfigID = "mutated"

	again, _ := store.GetByID(ctx, "CFG-1")
	if again.ConfigID != "CFG-1" {
		t.Errorf("Store data was mutated through returned pointer")
	}
}
