package models

import "errors"

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when a membership or passphrase check fails.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidInput is returned for malformed amounts, quantities or enum values.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when a unique constraint is violated.
	// Callers that can converge (identity sync, join code generation) recover from it.
	ErrConflict = errors.New("conflict")

	// ErrStorage matches every *StorageError.
	ErrStorage = errors.New("storage error")
)

// StorageError wraps a persistence failure that is not one of the domain errors above.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "failed to " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is reports whether target is ErrStorage.
func (e *StorageError) Is(target error) bool { return target == ErrStorage }
