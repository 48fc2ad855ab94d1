package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/spend/internal/service"
)

// LoadSession implements service.SessionStore.
func (s *SQLiteStorage) LoadSession(ctx context.Context, chatID int64) (*service.Session, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var (
		session service.Session
		state   string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT chat_id, state, pending_amount, updated_at
		FROM sessions
		WHERE chat_id = ?
	`, chatID).Scan(&session.ChatID, &state, &session.PendingAmount, &session.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %d: %w", chatID, err)
	}

	session.State = service.ConversationState(state)
	return &session, nil
}

// SaveSession implements service.SessionStore. UpdatedAt is set when zero.
func (s *SQLiteStorage) SaveSession(ctx context.Context, session *service.Session) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSession(session); err != nil {
		return err
	}

	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (chat_id, state, pending_amount, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			state = excluded.state,
			pending_amount = excluded.pending_amount,
			updated_at = excluded.updated_at
	`, session.ChatID, string(session.State), session.PendingAmount, session.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save session %d: %w", session.ChatID, err)
	}
	return nil
}

// DeleteSession implements service.SessionStore. Deleting a missing session is not an error.
func (s *SQLiteStorage) DeleteSession(ctx context.Context, chatID int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE chat_id = ?`, chatID); err != nil {
		return fmt.Errorf("failed to delete session %d: %w", chatID, err)
	}
	return nil
}

// PruneSessions deletes sessions not updated since before and returns how many were removed.
func (s *SQLiteStorage) PruneSessions(ctx context.Context, before time.Time) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < ?`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}
	return result.RowsAffected()
}
