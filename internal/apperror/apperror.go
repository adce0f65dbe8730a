package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain. Services wrap these so handlers can map
// them to HTTP status codes with errors.Is, without importing net/http here.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUpstream     = errors.New("upstream unavailable")
)

// AppError pairs a sentinel with the human-readable message shown to the
// caller.
type AppError struct {
	Err     error  // sentinel, matched with errors.Is
	Message string // human-readable error message
	Field   string // optional: the request field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

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

func Conflict(resource, value string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s already exists: %s", resource, value),
	}
}

// Unauthorized covers missing or bad credentials. HTTP handlers map this to
// 401.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Upstream reports a dependency of ours failing, not the caller's request.
// HTTP handlers map this to 502.
func Upstream(service string) *AppError {
	return &AppError{
		Err:     ErrUpstream,
		Message: fmt.Sprintf("the %s service is currently unavailable", service),
	}
}
