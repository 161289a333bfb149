package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an application failure independently of the transport.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation_failed"
	default:
		return "internal"
	}
}

// InternalMessage is the only text ever shown to callers for internal failures.
const InternalMessage = "Internal server error"

// Error is the single failure type raised by use cases.
// Message is safe to show to API callers; Err carries the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus maps the kind to a response code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func Validation(message string, details any) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: InternalMessage, Err: err}
}

// From returns err as an *Error. Anything that is not already an *Error
// somewhere in its chain is classified as internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
