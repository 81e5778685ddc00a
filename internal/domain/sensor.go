package domain

// Sensor is a named measurement channel scoped to one test configuration.
// Corresponds to sensors table. (Name, ConfigID) resolves to at most one ID.
type Sensor struct {
	ID       int64
	Name     string // not unique across configs
	ConfigID string
}

// SensorSample is one recorded reading.
// Corresponds to sensor_values table. Immutable once recorded.
type SensorSample struct {
	SensorID  int64
	Timestamp int64   // Unix timestamp in seconds, non-decreasing per sensor
	Value     float64 // measured value
}
