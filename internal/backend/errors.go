package backend

import (
	"errors"
	"fmt"
)

// The backend rejects bad input before touching any state
// (ValidationError, NotFoundError) or fails transiently after the caller
// has already applied an optimistic local change (ErrServerFault,
// ErrNetwork). Only the transient kind ever triggers rollback logic.

type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

var (
	ErrServerFault = errors.New("injected server error")
	ErrNetwork     = errors.New("network unreachable")
)

func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsTransient reports whether the error occurred after the request was
// accepted, i.e. the caller's optimistic state must be reconciled.
func IsTransient(err error) bool {
	return errors.Is(err, ErrServerFault) || errors.Is(err, ErrNetwork)
}
