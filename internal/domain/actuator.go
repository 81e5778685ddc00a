package domain

// Actuator is a binary on/off channel scoped to one test configuration.
// Corresponds to actuators table.
type Actuator struct {
	ID       int64
	Name     string
	ConfigID string
}

// ActuatorEvent is one recorded actuator state.
// Corresponds to actuator_values table.
type ActuatorEvent struct {
	ActuatorID int64
	Timestamp  int64   // Unix timestamp in seconds
	Value      float64 // 0 = off, non-zero = on
}

// On reports whether the event records an active actuator.
func (e ActuatorEvent) On() bool {
	return e.Value != 0
}
