// Package failure classifies what can go wrong when talking to the
// bookkeeping API.
package failure

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized is returned for any 401. It always forces a logout.
var ErrUnauthorized = errors.New("unauthorized")

type Kind int

const (
	KindNone Kind = iota
	KindUnauthorized
	KindValidation
	KindNetwork
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	default:
		return "unexpected"
	}
}

// FieldMessage is one entry of a field-error body.
type FieldMessage struct {
	Field   string
	Message string
}

// APIError is a non-2xx, non-401 response.
type APIError struct {
	Status  int
	Message string
	// Fields holds per-field messages, in body order, when the body was a
	// map of field errors.
	Fields []FieldMessage
}

func (e *APIError) Error() string {
	if msg := e.DetailOr(""); msg != "" {
		return fmt.Sprintf("api: %d %s: %s", e.Status, http.StatusText(e.Status), msg)
	}
	return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
}

// MessageOr returns the server message, else fallback. Field errors are
// ignored.
func (e *APIError) MessageOr(fallback string) string {
	if e.Message != "" {
		return e.Message
	}
	return fallback
}

// DetailOr returns the server message, else the first field error in body
// order, else fallback.
func (e *APIError) DetailOr(fallback string) string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Fields) > 0 && e.Fields[0].Message != "" {
		return e.Fields[0].Message
	}
	return fallback
}

// NetworkError means the request never produced a response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return "network: " + e.Op + ": " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	var apiErr *APIError
	var netErr *NetworkError
	switch {
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.As(err, &apiErr):
		return KindValidation
	case errors.As(err, &netErr):
		return KindNetwork
	default:
		return KindUnexpected
	}
}

func IsUnauthorized(err error) bool { return Classify(err) == KindUnauthorized }

// Status returns the HTTP status behind err, or 0 when there was none.
func Status(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	return 0
}
