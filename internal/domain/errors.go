package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors services and handlers branch on with errors.Is. The HTTP
// layer maps them onto status codes.
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")
	ErrStateConflict    = errors.New("state conflict")
)

// NotFoundError wraps ErrNotFound with the entity name.
func NotFoundError(entity string) error {
	return fmt.Errorf("%s: %w", entity, ErrNotFound)
}

// ConflictError wraps ErrStateConflict with a formatted message.
func ConflictError(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrStateConflict)...)
}

// ValidationError wraps ErrInvalidInput with a formatted message.
func ValidationError(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidInput)...)
}

// PermissionError wraps ErrPermissionDenied with a formatted message.
func PermissionError(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrPermissionDenied)...)
}

// InvalidTransitionError reports a disallowed status change.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s cannot transition from %s to %s", e.Entity, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrStateConflict
}
