package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced artist, vinyl or user does not exist.
type ErrNotFound struct {
	Entity string
	ID     int64
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found with ID: %d", e.Entity, e.ID)
}

// ErrDuplicateReview is returned when a (user, vinyl) pair already has a review.
type ErrDuplicateReview struct {
	UserID  int64
	VinylID int64
}

func (e *ErrDuplicateReview) Error() string {
	return fmt.Sprintf("review already exists for user %d and vinyl %d", e.UserID, e.VinylID)
}

// ValidationError represents an error that occurs due to invalid input or a
// document failing its declared schema.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new validation error with the given message
func NewValidationError(message string) error {
	return ValidationError{Message: message}
}

// ErrWriteFailed is returned when the underlying store rejected or rolled
// back a write.
type ErrWriteFailed struct {
	Op  string
	Err error
}

func (e *ErrWriteFailed) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("write failed [%s]: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("write failed [%s]", e.Op)
}

func (e *ErrWriteFailed) Unwrap() error {
	return e.Err
}

// ErrBackendUnavailable is returned when the active store cannot be reached
// or a call exceeded its deadline.
type ErrBackendUnavailable struct {
	Backend string
	Err     error
}

func (e *ErrBackendUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend %s unavailable: %v", e.Backend, e.Err)
	}
	return fmt.Sprintf("backend %s unavailable", e.Backend)
}

func (e *ErrBackendUnavailable) Unwrap() error {
	return e.Err
}

// ErrMigrationInProgress is returned for a reentrant migration trigger.
var ErrMigrationInProgress = errors.New("migration already in progress")

// ErrInvalidCredentials is returned when login fails. Callers must not be
// able to distinguish a missing account from a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")
