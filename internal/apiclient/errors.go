package apiclient

import (
	"errors"
	"fmt"
	"net/http"

	"bookmemo/internal/book"
)

var (
	// ErrTransport wraps network failures: the collaborator was not reached
	// or the response could not be read.
	ErrTransport = errors.New("collaborator unreachable")
	// ErrBadRequest is a 400 with no operation specific meaning.
	ErrBadRequest = errors.New("bad request")
	// ErrUnauthorized is a 401: the ambient session is missing or expired.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrServer is any 5xx.
	ErrServer = errors.New("collaborator server error")
)

// StatusError is a non-success response. It unwraps to the sentinel that
// matches its status, so callers use errors.Is.
type StatusError struct {
	Op         string
	StatusCode int
	// Message is the collaborator's explanation when it sent one, e.g. the
	// failed= query of a login redirect.
	Message string

	kind error
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s: unexpected status code: %d", e.Op, e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *StatusError) Unwrap() error {
	return e.kind
}

// statusKind maps a status to its default sentinel. Operations with a more
// specific meaning override it (see CreateBook).
func statusKind(code int) error {
	switch {
	case code == http.StatusBadRequest:
		return ErrBadRequest
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusNotFound:
		return book.ErrNotFound
	case code >= http.StatusInternalServerError:
		return ErrServer
	default:
		return nil
	}
}

// StatusCode extracts the HTTP status from err, or 0 when err is not a
// StatusError.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// ServerMessage extracts the collaborator's message from err, if any.
func ServerMessage(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}
