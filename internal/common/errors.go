// Package common holds the error taxonomy, retry helper and logger setup shared by
// every other package.
package common

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument reports malformed input: a bad column index, amount or description.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrHeaderNotFound means the tab has no cell carrying the block label.
	ErrHeaderNotFound = errors.New("block header not found")
	// ErrBackendUnavailable matches every failed spreadsheet API call.
	ErrBackendUnavailable = errors.New("spreadsheet backend unavailable")

	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// InvalidArgument wraps ErrInvalidArgument with a formatted detail message.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// IsRetryable classifies an error for callers that decide on their own whether
// to try again. Unknown errors are not retryable.
func IsRetryable(err error) bool {
	var marked *RetryableError
	if errors.As(err, &marked) {
		return marked.Retryable
	}

	var after *RetryAfterError
	return errors.As(err, &after) ||
		errors.Is(err, ErrRateLimit) ||
		errors.Is(err, ErrBackendUnavailable) ||
		errors.Is(err, context.DeadlineExceeded)
}
