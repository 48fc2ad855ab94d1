package common

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetry(t *testing.T) {
	fast := RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
	errBoom := errors.New("boom")

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   error
	}{
		{
			name:      "succeeds first time",
			failures:  0,
			wantCalls: 1,
		},
		{
			name:      "succeeds after transient failures",
			failures:  2,
			err:       errBoom,
			wantCalls: 3,
		},
		{
			name:      "gives up after max attempts",
			failures:  5,
			err:       errBoom,
			wantCalls: 3,
			wantErr:   ErrMaxRetries,
		},
		{
			name:      "non retryable error stops immediately",
			failures:  5,
			err:       &RetryableError{Err: errBoom, Retryable: false},
			wantCalls: 1,
			wantErr:   errBoom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := WithRetry(context.Background(), func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			}, fast)

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, func() error {
		return errors.New("always")
	}, RetryOptions{MaxAttempts: 5, InitialDelay: time.Second})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithRetry_RetryAfter(t *testing.T) {
	opts := RetryOptions{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: 20 * time.Millisecond}

	calls := 0
	start := time.Now()
	err := WithRetry(context.Background(), func() error {
		calls++
		if calls == 1 {
			return &RetryAfterError{Err: errors.New("slow down"), After: time.Hour}
		}
		return nil
	}, opts)

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	// The requested pause is capped at MaxDelay.
	assert.Less(t, time.Since(start), time.Second)
}

func TestRetryOptionsWait(t *testing.T) {
	opts := RetryOptions{InitialDelay: 10 * time.Millisecond, MaxDelay: 50 * time.Millisecond, Multiplier: 2}.withDefaults()

	pause, next := opts.wait(10*time.Millisecond, errors.New("x"))
	assert.Equal(t, 10*time.Millisecond, pause)
	assert.Equal(t, 20*time.Millisecond, next)

	pause, next = opts.wait(10*time.Millisecond, fmt.Errorf("send: %w", ErrRateLimit))
	assert.Equal(t, 20*time.Millisecond, pause)
	assert.Equal(t, 20*time.Millisecond, next)

	pause, next = opts.wait(40*time.Millisecond, ErrRateLimit)
	assert.Equal(t, 50*time.Millisecond, pause)
	assert.Equal(t, 50*time.Millisecond, next)

	pause, _ = opts.wait(10*time.Millisecond, &RetryAfterError{Err: errors.New("x"), After: 30 * time.Millisecond})
	assert.Equal(t, 30*time.Millisecond, pause)
}
