package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated     = errors.New("not authenticated")
	ErrForbidden           = errors.New("access forbidden")
	ErrNotFound            = errors.New("not found")
	ErrPersonNotFound      = fmt.Errorf("person %w", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountExists       = errors.New("account already exists")
	ErrStoreUnavailable    = errors.New("store unavailable")
)

// ValidationError identifies the field that failed validation.
// It matches ErrInvalidInput through errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
