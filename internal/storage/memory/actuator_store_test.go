package memory

import (
	"context"
	"errors"
	"testing"

	"helios-dashboard/internal/domain"
	"helios-dashboard/internal/storage"
)

func TestStores_ActuatorRoundTrip(t *testing.T) {
	stores := NewStores()
	ctx := context.Background()

	if err := stores.InsertConfig(ctx, &domain.TestConfiguration{ConfigID: "CFG-1", Date: day(2024, 3, 1)}); err != nil {
		t.Fatalf("InsertConfig failed: %v", err)
	}
	if err := stores.InsertActuator(ctx, &domain.Actuator{ID: 10, Name: "Valve", ConfigID: "CFG-1"}); err != nil {
		t.Fatalf("InsertActuator failed: %v", err)
	}

	err := stores.InsertActuatorEvents(ctx, []*domain.ActuatorEvent{
		{ActuatorID: 10, Timestamp: 60, Value: 0},
		{ActuatorID: 10, Timestamp: 0, Value: 1},
	})
	if err != nil {
		t.Fatalf("InsertActuatorEvents failed: %v", err)
	}

	id, err := stores.Actuators.GetID(ctx, "Valve", "CFG-1")
	if err != nil || id != 10 {
		t.Fatalf("Expected id 10, got %d (%v)", id, err)
	}

	events, _ := stores.Actuators.GetEvents(ctx, 10)
	if len(events) != 2 || !events[0].On() || events[1].On() {
		t.Errorf("Unexpected events: %+v", events)
	}

	ranged, _ := stores.Actuators.GetEventsByTimeRange(ctx, 10, 30, 90)
	if len(ranged) != 1 || ranged[0].Timestamp != 60 {
		t.Errorf("Expected single event at 60, got %+v", ranged)
	}

	names, _ := stores.Actuators.GetNames(ctx, "CFG-2")
	if len(names) != 0 {
		t.Errorf("Expected no actuators for CFG-2, got %v", names)
	}
}

func TestStores_SensorRequiresConfig(t *testing.T) {
	stores := NewStores()

	err := stores.InsertSensor(context.Background(), &domain.Sensor{ID: 1, Name: "T1", ConfigID: "nope"})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestActuatorStore_EventsForUnknownActuator(t *testing.T) {
	store := NewActuatorStore()

	err := store.InsertEvents(context.Background(), []*domain.ActuatorEvent{{ActuatorID: 99}})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}
