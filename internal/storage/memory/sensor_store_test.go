package memory

import (
	"context"
	"errors"
	"testing"

	"helios-dashboard/internal/domain"
	"helios-dashboard/internal/storage"
)

func TestSensorStore_GetID(t *testing.T) {
	store := NewSensorStore()
	ctx := context.Background()

	sensors := []*domain.Sensor{
		{ID: 1, Name: "Thermocouple1", ConfigID: "CFG-1"},
		{ID: 7, Name: "Thermocouple1", ConfigID: "CFG-2"},
		{ID: 2, Name: "Pressure", ConfigID: "CFG-1"},
	}
	for _, s := range sensors {
		if err := store.Insert(ctx, s); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	id, err := store.GetID(ctx, "Thermocouple1", "CFG-2")
	if err != nil {
		t.Fatalf("GetID failed: %v", err)
	}
	if id != 7 {
		t.Errorf("Expected id 7, got %d", id)
	}

	_, err = store.GetID(ctx, "Thermocouple1", "CFG-42")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSensorStore_DuplicateNameInConfig(t *testing.T) {
	store := NewSensorStore()
	ctx := context.Background()

	if err := store.Insert(ctx, &domain.Sensor{ID: 1, Name: "T1", ConfigID: "CFG-1"}); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, &domain.Sensor{ID: 2, Name: "T1", ConfigID: "CFG-1"})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey for (name, config_id), got %v", err)
	}

	err = store.Insert(ctx, &domain.Sensor{ID: 1, Name: "T2", ConfigID: "CFG-1"})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey for id, got %v", err)
	}
}

func TestSensorStore_NamesAndByConfig(t *testing.T) {
	store := NewSensorStore()
	ctx := context.Background()

	for _, s := range []*domain.Sensor{
		{ID: 1, Name: "T2", ConfigID: "CFG-1"},
		{ID: 2, Name: "T1", ConfigID: "CFG-1"},
		{ID: 3, Name: "T1", ConfigID: "CFG-2"},
	} {
		if err := store.Insert(ctx, s); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	names, _ := store.GetNames(ctx)
	if len(names) != 2 || names[0] != "T1" || names[1] != "T2" {
		t.Errorf("Expected [T1 T2], got %v", names)
	}

	byConfig, _ := store.GetByConfigID(ctx, "CFG-1")
	if len(byConfig) != 2 || byConfig[0].Name != "T1" {
		t.Errorf("Expected two sensors ordered by name, got %+v", byConfig)
	}
}
