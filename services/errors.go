package services

import (
	"errors"
	"fmt"
)

// Kind classifies domain failures. The API layer maps each kind to one
// HTTP status.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindInvalidState
	KindInvalidTransition
	KindLimitReached
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidState:
		return "invalid_state"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindLimitReached:
		return "limit_reached"
	default:
		return "unexpected"
	}
}

type Error struct {
	Kind    Kind
	Message string
	// Fields holds per-field detail for validation failures.
	Fields map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error of the same kind, so callers can test against the
// sentinels below with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrValidation        = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrUnauthenticated   = &Error{Kind: KindUnauthenticated, Message: "please authenticate"}
	ErrForbidden         = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "not found"}
	ErrConflict          = &Error{Kind: KindConflict, Message: "conflict"}
	ErrInvalidState      = &Error{Kind: KindInvalidState, Message: "invalid state"}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition, Message: "invalid transition"}
	ErrLimitReached      = &Error{Kind: KindLimitReached, Message: "limit reached"}
)

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func validationError(field, message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: field + " " + message,
		Fields:  map[string]string{field: message},
	}
}

// KindOf returns the kind of a domain error, or KindUnexpected for anything
// else (database and infrastructure failures).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}
