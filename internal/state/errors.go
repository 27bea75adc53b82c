package state

import "errors"

// Domain-specific errors for state operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrInvalidReading is returned when an environment sample contains NaN.
	// The stored last-known-good reading is left untouched.
	ErrInvalidReading = errors.New("state: invalid environment reading")
)
