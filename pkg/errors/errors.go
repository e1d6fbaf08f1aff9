package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness. It serialises to {"type","message"}.
type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches on Type so cloned errors still compare equal to their template.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Type == t.Type
}

// New creates a new Error instance.
func New(kind string, status int, message string) *Error {
	return &Error{Type: kind, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, kind string, status int, message string) *Error {
	return &Error{Type: kind, Status: status, Message: message, Err: err}
}

// Wire error kinds. Anything that is not one of these reaches clients as ErrInternal.
var (
	ErrNotFound     = New("EntityNotFoundException", http.StatusNotFound, "resource not found")
	ErrAccessDenied = New("AccessDeniedException", http.StatusForbidden, "Access is denied")
	ErrValidation   = New("ValidationException", http.StatusBadRequest, "validation failed")
	ErrInternal     = New("InternalServerError", http.StatusInternalServerError, "internal server error")
)

// ErrCacheMiss reports an absent cache entry. The cache layer consumes it; it is not a wire kind.
var ErrCacheMiss = errors.New("cache miss")

// EntityNotFound builds the not-found error for an entity lookup, e.g. "Staff with id 7 not found".
func EntityNotFound(entity string, id interface{}) *Error {
	return Clone(ErrNotFound, fmt.Sprintf("%s with id %v not found", entity, id))
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Type, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
