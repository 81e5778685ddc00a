package storage

import (
	"errors"

	"helios-dashboard/internal/domain"
)

// Storage errors for the read-mostly sensor stores.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = domain.ErrNotFound

	// ErrDuplicateKey is returned when a loader inserts a key that already exists.
	// Recorded test data is append-only and never updated in place.
	ErrDuplicateKey = errors.New("duplicate key: append-only store does not allow updates")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
