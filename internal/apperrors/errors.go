package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found
// or is outside the caller's scope.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrConflict indicates a valid request whose current state forbids the
// operation (e.g. distributing a booking that is no longer a draft).
var ErrConflict = errors.New("operation conflicts with current state")

// ErrConfiguration indicates an internally inconsistent distribution key or
// rule definition (missing base, empty mixed parts, zero value sum).
var ErrConfiguration = errors.New("configuration error")

// ErrMissingValue indicates a specific unit lacks a required distribution
// value. Use MissingValueError to carry the unit identity.
var ErrMissingValue = errors.New("distribution value missing")

// ErrInvalidRule indicates a statistics rule referenced an unsupported operation.
var ErrInvalidRule = errors.New("invalid rule definition")

// ErrDuplicate indicates an attempt to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the authenticated user may not perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// MissingValueError reports which unit lacks a distribution value for the
// requested period. It unwraps to ErrMissingValue so callers can match the
// error family while still extracting the unit identity with errors.As.
type MissingValueError struct {
	UnitID    string
	UnitLabel string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("no distribution value for unit %q in the requested period", e.UnitLabel)
}

func (e *MissingValueError) Unwrap() error {
	return ErrMissingValue
}

// NewMissingValueError creates a MissingValueError for the given unit.
func NewMissingValueError(unitID, unitLabel string) *MissingValueError {
	return &MissingValueError{UnitID: unitID, UnitLabel: unitLabel}
}

// AppError wraps a lower-level error with an HTTP-like code and a message.
// Repositories use it for infrastructure failures that are not part of the
// domain taxonomy above.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
