package application

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrRoomUnavailable is returned when the target room is under
	// maintenance, independent of any time overlap.
	ErrRoomUnavailable = errors.New("application: room unavailable")
	// ErrRepositoryUnavailable wraps infrastructure failures so callers can
	// distinguish them from domain outcomes. The services never retry.
	ErrRepositoryUnavailable = errors.New("application: repository unavailable")
)

// ConflictError reports that a proposed booking overlaps an existing one.
type ConflictError struct {
	// WithBookingID identifies the first conflicting booking in stored order.
	WithBookingID string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("booking conflicts with %s", e.WithBookingID)
}

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
