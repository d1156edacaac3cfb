package portal

import (
	"errors"
	"fmt"
)

var (
	// ErrSubmitting is returned when a workflow already has a mutation in flight.
	ErrSubmitting = errors.New("portal: a submission is already in progress")
	// ErrNotLoggedIn is returned by calls needing a token when none is held.
	ErrNotLoggedIn = errors.New("portal: not logged in")
	// ErrWrongRole is returned by calls reserved to the other role.
	ErrWrongRole = errors.New("portal: operation not available for this role")
)

// APIError is a request rejected by the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("portal: server answered %d", e.Status)
	}
	return fmt.Sprintf("portal: server answered %d (%s): %s", e.Status, e.Code, e.Message)
}

// ValidationError is a form rejected before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// UserMessage returns the text to show for err: the validation message, the
// server message when one was sent, fallback otherwise.
func UserMessage(err error, fallback string) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var ae *APIError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return fallback
}
