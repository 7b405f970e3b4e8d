// Package apperror defines the error taxonomy shared by all service
// operations. Every failure a service returns resolves to exactly one of the
// sentinel errors below; the HTTP layer maps them to status codes.
//
// There is deliberately no "forbidden" member: an entity that exists but is
// owned by someone else is reported as NotFound, so callers cannot probe for
// the existence of other users' data.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrStorage    = errors.New("storage failure")
)

type AppError struct {
	Err     error  // sentinel cause, for errors.Is checks
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports a missing entity. It is also used when the entity exists
// but does not belong to the caller.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(resource, detail string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict: %s", resource, detail),
	}
}

// StorageFailed wraps a blob-store or metadata write failure. The cause is
// preserved in the message so upload failures are surfaced, not swallowed.
func StorageFailed(op string, cause error) *AppError {
	return &AppError{
		Err:     ErrStorage,
		Message: fmt.Sprintf("%s failed: %v", op, cause),
	}
}
