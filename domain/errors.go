package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
//
// ErrTodoNotFound is also returned when a todo exists but belongs to a
// different user, so callers cannot distinguish other users' ids from
// nonexistent ones.
var (
	ErrUserNotFound       = NewError(ErrCodeNotFound, "user not found")
	ErrTodoNotFound       = NewError(ErrCodeNotFound, "todo not found")
	ErrSessionNotFound    = NewError(ErrCodeNotFound, "session not found")
	ErrDuplicateUser      = NewError(ErrCodeConflict, "username or email already registered")
	ErrInvalidCredentials = NewError(ErrCodeUnauthorized, "invalid username or password")
	ErrInvalidAPIKey      = NewError(ErrCodeUnauthorized, "invalid or revoked API key")
	ErrUnauthorized       = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrInvalidPayload     = NewError(ErrCodeInvalid, "invalid payload")
)

// Validation failures raised at the todo service boundary.
var (
	ErrTitleRequired   = NewError(ErrCodeInvalid, "title is required")
	ErrInvalidStatus   = NewError(ErrCodeInvalid, "status must be one of: pending, in_progress, completed")
	ErrInvalidPriority = NewError(ErrCodeInvalid, "priority must be one of: low, medium, high, critical")
	ErrInvalidDueDate  = NewError(ErrCodeInvalid, "due_date must be an ISO-8601 timestamp")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
