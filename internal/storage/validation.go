package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/spend/internal/service"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidSession = errors.New("invalid session")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateSession(session *service.Session) error {
	if session == nil {
		return fmt.Errorf("%w: session", ErrNilParameter)
	}
	if session.ChatID == 0 {
		return fmt.Errorf("%w: chat id is required", ErrInvalidSession)
	}
	if !session.State.Valid() {
		return fmt.Errorf("%w: unknown state %q", ErrInvalidSession, session.State)
	}
	return nil
}
