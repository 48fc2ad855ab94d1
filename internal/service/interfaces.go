// Package service defines the contracts shared by the chat layer and its backends.
package service

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound is returned when no session is stored for a chat.
var ErrSessionNotFound = errors.New("session not found")

// ConversationState is the step a chat is at in the entry dialog.
type ConversationState string

// Conversation states.
const (
	StateIdle             ConversationState = "idle"
	StateAwaitAmount      ConversationState = "await_amount"
	StateAwaitDescription ConversationState = "await_description"
)

// Valid reports whether s is a known state.
func (s ConversationState) Valid() bool {
	switch s {
	case StateIdle, StateAwaitAmount, StateAwaitDescription:
		return true
	default:
		return false
	}
}

// Session is the per-chat dialog state.
type Session struct {
	UpdatedAt     time.Time
	State         ConversationState
	ChatID        int64
	PendingAmount float64
}

// SessionStore persists sessions between updates and across restarts.
type SessionStore interface {
	// LoadSession returns ErrSessionNotFound when the chat has no stored session.
	LoadSession(ctx context.Context, chatID int64) (*Session, error)
	SaveSession(ctx context.Context, session *Session) error
	DeleteSession(ctx context.Context, chatID int64) error
}
