// Package fault classifies errors into the categories the HTTP layer
// understands. Both services map the same kinds to the same status codes, so
// upstream failures never silently degrade into 200 responses.
package fault

import (
	"errors"
	"net/http"

	"github.com/rotisserie/eris"
)

// Kind is the error category.
type Kind int

const (
	// Internal is the default for unclassified failures.
	Internal Kind = iota
	// Validation covers bad input: wrong extension, bad URL, unknown mode.
	Validation
	// NotFound covers unknown record ids and unknown locations.
	NotFound
	// Upstream covers external API failures, fetch errors, and malformed
	// model output.
	Upstream
)

// Error pairs a Kind with an underlying error.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// New creates a classified error with a fixed message.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Err: eris.New(msg)}
}

// Errorf creates a classified error with a formatted message.
func Errorf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: eris.Errorf(format, args...)}
}

// Wrap classifies an existing error, adding context. A nil err returns nil.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: eris.Wrap(err, msg)}
}

// Wrapf classifies an existing error, adding formatted context. A nil err
// returns nil.
func Wrapf(kind Kind, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: eris.Wrapf(err, format, args...)}
}

// KindOf returns the Kind of err, or Internal when it carries none.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Internal
}

// HTTPStatus maps an error to the response status both services use.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Upstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
