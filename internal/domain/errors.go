package domain

import "errors"

var (
	// ErrNotFound is returned when an id does not match any entity
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput wraps validation failures of incoming requests
	ErrInvalidInput = errors.New("invalid input")
)
