package api

import (
	"fmt"
)

// Error is a non-2xx response from the backend.
type Error struct {
	// Kind is common.ErrTransientFetch for reads and common.ErrMutation
	// for writes.
	Kind    error
	Op      string
	Message string
	Status  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: http %d: %s", e.Op, e.Status, e.Message)
}

// Unwrap exposes the error kind to errors.Is.
func (e *Error) Unwrap() error {
	return e.Kind
}

// DisplayMessage is the server's error field, or the call's generic message
// when the field was absent or unparsable.
func (e *Error) DisplayMessage() string {
	return e.Message
}

// errorResponse is the machine-readable error body.
type errorResponse struct {
	Error string `json:"error"`
}
