package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/Veraticus/hyperclaw/internal/service"
)

var (
	// ErrRateLimit marks a 429 from the HyperClaw API. The next attempt
	// waits the full MaxDelay.
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrMaxRetries wraps the last failure once every attempt is spent.
	ErrMaxRetries = errors.New("max retries exceeded")
)

// RetryableError lets a caller say explicitly whether a failure is worth
// another attempt.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// Retry defaults used when a RetryOptions field is left at zero.
const (
	defaultAttempts     = 3
	defaultInitialDelay = 100 * time.Millisecond
	defaultMaxDelay     = 30 * time.Second
	defaultMultiplier   = 2.0
)

// WithRetry runs operation until it succeeds, the attempts run out, or ctx
// ends. It backs off exponentially with jitter between attempts. Refusals
// (validation, permission) and errors marked non-retryable return at once.
// MaxAttempts below zero keeps trying until ctx is canceled, which is how
// the push listener reconnects.
func WithRetry(ctx context.Context, operation func() error, opts service.RetryOptions) error {
	opts, unlimited := withRetryDefaults(opts)
	delay := opts.InitialDelay

	for attempt := 1; ; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		if permanent(err) {
			return err
		}
		if !unlimited && attempt >= opts.MaxAttempts {
			return fmt.Errorf("%w after %d attempts: %v", ErrMaxRetries, opts.MaxAttempts, err)
		}

		if errors.Is(err, ErrRateLimit) {
			delay = opts.MaxDelay
		}
		wait := delay + jitter(delay)

		slog.Warn("Operation failed, retrying",
			"attempt", attempt,
			"max_attempts", opts.MaxAttempts,
			"delay", wait,
			"error", err)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay = min(time.Duration(float64(delay)*opts.Multiplier), opts.MaxDelay)
	}
}

func withRetryDefaults(opts service.RetryOptions) (service.RetryOptions, bool) {
	unlimited := opts.MaxAttempts < 0
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = defaultAttempts
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = defaultInitialDelay
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = defaultMaxDelay
	}
	if opts.MaxDelay < opts.InitialDelay {
		opts.MaxDelay = opts.InitialDelay
	}
	if opts.Multiplier <= 0 {
		opts.Multiplier = defaultMultiplier
	}
	return opts, unlimited
}

// permanent reports failures another attempt cannot fix.
func permanent(err error) bool {
	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return !retryableErr.Retryable
	}
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotPermitted) ||
		errors.Is(err, context.Canceled)
}

// jitter returns a random extra wait in [0, base/2), so clients that failed
// together do not retry together.
func jitter(base time.Duration) time.Duration {
	if base < 2 {
		return 0
	}
	return rand.N(base / 2)
}
