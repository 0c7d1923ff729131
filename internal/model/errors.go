package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an AppError.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
	KindInternal   ErrorKind = "internal"
)

// AppError represents a domain error raised by entities, use cases and stores.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError of the same kind. A target
// without a message matches every error of its kind.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// Kind sentinels.
var (
	ErrValidation = &AppError{Kind: KindValidation}
	ErrNotFound   = &AppError{Kind: KindNotFound}
	ErrConflict   = &AppError{Kind: KindConflict}
	ErrInternal   = &AppError{Kind: KindInternal}
)

var (
	ErrUserIDRequired = Validation("User ID is required")
	ErrTitleRequired  = Validation("Title is required")
	ErrTitleTooLong   = Validation("Title must not exceed 100 characters")
	ErrInvalidEmail   = Validation("Invalid email format")

	ErrTaskNotFound = &AppError{Kind: KindNotFound, Message: "Task not found"}
	ErrUserNotFound = &AppError{Kind: KindNotFound, Message: "User not found"}
	ErrUserExists   = &AppError{Kind: KindConflict, Message: "User already exists"}
)

// Validation returns a validation error with the given message.
func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// Internal wraps a store failure, keeping the cause's message.
func Internal(message string, err error) *AppError {
	return &AppError{
		Kind:    KindInternal,
		Message: fmt.Sprintf("%s: %v", message, err),
		Err:     err,
	}
}

// KindOf returns the kind of err. Errors that are not AppErrors are internal.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
