package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain failure so callers (handlers, retry
// logic) can branch without string matching.
type ErrorKind string

const (
	KindNotFound               ErrorKind = "not_found"
	KindNotAuthorized          ErrorKind = "not_authorized"
	KindAlreadyResolved        ErrorKind = "already_resolved"
	KindInvalidStateTransition ErrorKind = "invalid_state_transition"
	KindExternalServiceFailure ErrorKind = "external_service_failure"
	KindPersistenceFailure     ErrorKind = "persistence_failure"
	KindConflict               ErrorKind = "conflict"
	KindAITimeout              ErrorKind = "ai_timeout"
	KindValidation             ErrorKind = "validation"
)

// Error is the failure value returned by every domain and service
// operation. It carries a kind, a user-facing message, and an optional
// underlying cause.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NewError creates a domain error with the given kind and message.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError attaches a cause to a domain error, prefixing the cause's
// message with context. The kind is preserved for classification.
func WrapError(kind ErrorKind, message string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf("%s: %v", message, cause),
		cause:   cause,
	}
}

// KindOf extracts the ErrorKind from err, or empty string if err is
// not a domain error.
func KindOf(err error) ErrorKind {
	var derr *Error
	if errors.As(err, &derr) {
		return derr.Kind
	}
	return ""
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// Common failures shared across aggregates. Services define their own
// message-specific errors on top of these kinds.
var (
	ErrConversationNotFound = NewError(KindNotFound, "coaching conversation not found")
	ErrCheckInNotFound      = NewError(KindNotFound, "check-in not found")
	ErrPlanNotFound         = NewError(KindNotFound, "workout plan not found")
	ErrCheckInResolved      = NewError(KindAlreadyResolved, "Check-in already responded to")
	ErrNotAuthorized        = NewError(KindNotAuthorized, "user does not own this resource")
)
