package report

import (
	"errors"
	"net/http"
)

// Kind classifies why a submission failed.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindPersistence
	KindMethodNotAllowed
	KindUnauthorized
	// KindForbidden is reserved for authorization checks made upstream.
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindPersistence:
		return "persistence"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Error is returned by Submit. Message is safe to show to the client;
// Err holds the internal cause, if any.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// KindOf returns the Kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// StatusCode maps err to the HTTP status the boundary should answer with.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the client-facing message for err.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindPersistence && e.Message != "" {
		return e.Message
	}
	return msgInternal
}

const (
	msgMethodNotAllowed = "method not allowed"
	msgUnauthorized     = "authentication required"
	msgContentNotFound  = "content not found"
	msgInternal         = "failed to submit report"
)
