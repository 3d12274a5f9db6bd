package common

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type displayErr struct{ msg string }

func (e displayErr) Error() string          { return "http 400: " + e.msg }
func (e displayErr) DisplayMessage() string { return e.msg }

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err      error
		name     string
		fallback string
		want     string
	}{
		{name: "nil error", err: nil, fallback: "failed", want: ""},
		{name: "display message wins", err: fmt.Errorf("submit: %w", displayErr{msg: "fill not found"}), fallback: "review failed", want: "fill not found"},
		{name: "blank display message falls through", err: displayErr{msg: " "}, fallback: "review failed", want: "review failed"},
		{name: "validation error", err: ValidationError("connect a wallet first"), fallback: "bind failed", want: "connect a wallet first"},
		{name: "busy", err: fmt.Errorf("bias: %w", ErrBusy), fallback: "set bias failed", want: ErrBusy.Error()},
		{name: "timeout", err: context.DeadlineExceeded, fallback: "x", want: "request timed out"},
		{name: "opaque error", err: errors.New("boom"), fallback: "order failed", want: "order failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err, tt.fallback))
		})
	}
}

func TestValidationErrorWrapsSentinel(t *testing.T) {
	err := ValidationError("size must be positive")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "size must be positive: validation failed", err.Error())

	err = NotPermittedError("approve the agent first")
	assert.ErrorIs(t, err, ErrNotPermitted)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(fmt.Errorf("load: %w", ErrTransientFetch)))
	assert.True(t, IsRetryable(ErrRateLimit))
	assert.True(t, IsRetryable(&RetryableError{Err: errors.New("x"), Retryable: true}))
	assert.False(t, IsRetryable(&RetryableError{Err: errors.New("x"), Retryable: false}))
	assert.False(t, IsRetryable(ErrMutation))
}
