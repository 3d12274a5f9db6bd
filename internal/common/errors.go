// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Common application errors.
var (
	// Remote call errors.
	ErrTransientFetch = errors.New("fetch failed")
	ErrMutation       = errors.New("mutation failed")

	// Client-side precondition errors.
	ErrValidation   = errors.New("validation failed")
	ErrNotPermitted = errors.New("action not permitted")
	ErrBusy         = errors.New("another action is in progress")

	// Review session errors.
	ErrSessionExhausted = errors.New("review session exhausted")
	ErrCommitPending    = errors.New("a verdict is already being submitted")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// ValidationError reports a failed client-side precondition. It travels
// through the same channel as a failed mutation.
func ValidationError(msg string) error {
	return NewUserError(msg, ErrValidation)
}

// NotPermittedError reports an action the current session does not allow.
func NotPermittedError(msg string) error {
	return NewUserError(msg, ErrNotPermitted)
}

// Messager is implemented by errors that carry a message meant for display.
type Messager interface {
	DisplayMessage() string
}

// UserMessage extracts the message a screen should display for err. The
// innermost display message wins; fallback is used when none is present.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var m Messager
	if errors.As(err, &m) {
		if msg := strings.TrimSpace(m.DisplayMessage()); msg != "" {
			return msg
		}
	}

	var userErr *UserError
	if errors.As(err, &userErr) && strings.TrimSpace(userErr.UserMessage) != "" {
		return userErr.UserMessage
	}

	switch {
	case errors.Is(err, ErrBusy):
		return ErrBusy.Error()
	case errors.Is(err, ErrCommitPending):
		return ErrCommitPending.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	}

	return fallback
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	// Check for specific retryable errors
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, ErrTransientFetch) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// Check for retryable error type
	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
