package domain

import "errors"

// Error categories of the data layer. All of them are recoverable.
var (
	// ErrConnectivity covers unreachable databases, rejected credentials,
	// exhausted pools and schema mismatches.
	ErrConnectivity = errors.New("connectivity")

	// ErrNotFound is returned when a sensor, actuator or config has no data.
	ErrNotFound = errors.New("not found")

	// ErrMalformedInput is returned when user input fails validation.
	ErrMalformedInput = errors.New("malformed input")
)
