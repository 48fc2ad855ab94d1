package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var (
	// ErrRateLimit indicates that the remote API throttled the caller.
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrMaxRetries indicates that all retry attempts have been exhausted.
	ErrMaxRetries = errors.New("max retries exceeded")
)

// RetryOptions is a capped exponential backoff schedule. Zero fields take defaults.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

func (o RetryOptions) withDefaults() RetryOptions {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.InitialDelay <= 0 {
		o.InitialDelay = 100 * time.Millisecond
	}
	if o.MaxDelay <= 0 {
		o.MaxDelay = 30 * time.Second
	}
	if o.Multiplier <= 0 {
		o.Multiplier = 2
	}
	return o
}

// wait returns the pause before the next attempt and the delay that follows it.
func (o RetryOptions) wait(delay time.Duration, err error) (pause, next time.Duration) {
	next = min(time.Duration(float64(delay)*o.Multiplier), o.MaxDelay)

	var after *RetryAfterError
	switch {
	case errors.As(err, &after) && after.After > 0:
		return min(after.After, o.MaxDelay), next
	case errors.Is(err, ErrRateLimit):
		// Throttled without a hint: skip ahead one backoff step.
		return next, next
	default:
		return delay, next
	}
}

// RetryableError marks an error as worth retrying or not.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// RetryAfterError carries a server-requested pause, such as Telegram's retry_after.
type RetryAfterError struct {
	Err   error
	After time.Duration
}

func (e *RetryAfterError) Error() string {
	return fmt.Sprintf("%v (retry after %s)", e.Err, e.After)
}

func (e *RetryAfterError) Unwrap() error { return e.Err }

// WithRetry runs operation until it succeeds, the attempts run out, or ctx is done.
// Errors are retried unless a RetryableError in the chain says otherwise.
// It is meant for outer layers (chat transport); the spreadsheet core never retries.
func WithRetry(ctx context.Context, operation func() error, opts RetryOptions) error {
	opts = opts.withDefaults()
	delay := opts.InitialDelay

	for attempt := 1; ; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		var marked *RetryableError
		if errors.As(err, &marked) && !marked.Retryable {
			return err
		}
		if attempt >= opts.MaxAttempts {
			return fmt.Errorf("%w after %d attempts: %w", ErrMaxRetries, attempt, err)
		}

		var pause time.Duration
		pause, delay = opts.wait(delay, err)

		slog.Warn("operation failed, retrying",
			"attempt", attempt,
			"max_attempts", opts.MaxAttempts,
			"delay", pause,
			"error", err)

		timer := time.NewTimer(pause)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
