package services

import (
	"sync"

	"github.com/google/uuid"

	"github.com/norma-labs/norma-cli/internal/core/domain"
)

// SessionManager tracks live conversation sessions.
//
// The manager is safe for concurrent use; the sessions it hands out
// are not, because each one belongs to a single conversation.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	maxTurns int
}

// NewSessionManager creates an empty session manager.
// maxTurns caps history per session; zero means the domain default.
func NewSessionManager(maxTurns int) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*domain.Session),
		maxTurns: maxTurns,
	}
}

// Create starts a new session with a generated identifier.
func (m *SessionManager) Create() *domain.Session {
	session := domain.NewSession(uuid.New().String())
	session.MaxTurns = m.maxTurns

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	return session
}

// Get returns the session with the given ID.
func (m *SessionManager) Get(id string) (*domain.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	return session, ok
}

// GetOrCreate returns the session with the given ID, creating it if
// unknown. An empty ID always creates a fresh session.
func (m *SessionManager) GetOrCreate(id string) *domain.Session {
	if id == "" {
		return m.Create()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if session, ok := m.sessions[id]; ok {
		return session
	}
	session := domain.NewSession(id)
	session.MaxTurns = m.maxTurns
	m.sessions[id] = session
	return session
}

// Remove forgets the session with the given ID.
func (m *SessionManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Count returns the number of live sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
