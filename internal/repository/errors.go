package repository

import "errors"

var (
	// ErrNotFound is returned when no record matched an id-based
	// operation, including conditional writes that affected zero rows.
	ErrNotFound = errors.New("entity not found")
)
