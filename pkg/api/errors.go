package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNetwork           = errors.New("network error")
	ErrConflict          = errors.New("conflict")
)

// Error is returned by every Client call that fails. Kind is one of the
// sentinel errors above; Message holds the server-provided text when the
// service sent one.
type Error struct {
	Op      string
	Kind    error
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status > 0 {
		return fmt.Sprintf("%s: %v (status %d): %s", e.Op, e.Kind, e.Status, msg)
	}
	if msg == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, msg)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Errorf builds a client-side error of the given kind. No request has been
// issued when one of these is returned.
func Errorf(op string, kind error, format string, args ...any) error {
	return &Error{Op: op, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func kindForStatus(status int) error {
	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return ErrValidation
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		return ErrConflict
	case status >= 500:
		return ErrNetwork
	default:
		return ErrValidation
	}
}

var genericMessages = []struct {
	kind error
	msg  string
}{
	{ErrValidation, "The request was rejected as invalid."},
	{ErrInvalidTransition, "That status change is not allowed."},
	{ErrNotFound, "This item no longer exists. Refresh to see the latest data."},
	{ErrUnauthorized, "Your session has expired. Please sign in again."},
	{ErrNetwork, "The service could not be reached. Try again."},
	{ErrConflict, "The data changed in the meantime. Refresh and try again."},
}

// UserMessage returns text suitable for showing to staff: the server
// message when there is one, a generic line per error kind otherwise.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	for _, g := range genericMessages {
		if errors.Is(err, g.kind) {
			return g.msg
		}
	}

	return "Something went wrong."
}

// IsRetryable reports whether err is a transient failure that a read may retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNetwork)
}
