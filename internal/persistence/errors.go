package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("persistence: duplicate record")
	// ErrConflict is returned when a conditional write finds the record in an unexpected state.
	ErrConflict = errors.New("persistence: conflicting state")
	// ErrConstraintViolation is returned when a record breaks a schema constraint.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrBusy is returned when the database stays locked past the busy timeout.
	ErrBusy = errors.New("persistence: database busy")
)
