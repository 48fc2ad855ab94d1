package bot

import (
	"context"
	"sync"

	"github.com/Veraticus/spend/internal/service"
)

var _ service.SessionStore = (*MemorySessionStore)(nil)

// MemorySessionStore keeps sessions in process memory. They are lost on restart.
type MemorySessionStore struct {
	sessions map[int64]service.Session
	mu       sync.Mutex
}

// NewMemorySessionStore creates an empty store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[int64]service.Session)}
}

// LoadSession implements service.SessionStore.
func (m *MemorySessionStore) LoadSession(_ context.Context, chatID int64) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[chatID]
	if !ok {
		return nil, service.ErrSessionNotFound
	}
	return &session, nil
}

// SaveSession implements service.SessionStore.
func (m *MemorySessionStore) SaveSession(_ context.Context, session *service.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[session.ChatID] = *session
	return nil
}

// DeleteSession implements service.SessionStore.
func (m *MemorySessionStore) DeleteSession(_ context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, chatID)
	return nil
}
