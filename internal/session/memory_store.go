package session

import (
	"context"
	"sync"
	"time"
)

// DefaultIdleTTL is how long a session may sit untouched before the
// janitor reclaims it.
const DefaultIdleTTL = 30 * time.Minute

// MemoryStore keeps sessions in process memory for the process
// lifetime. Nothing survives a restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	idleTTL  time.Duration
}

func NewMemoryStore(idleTTL time.Duration) *MemoryStore {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &MemoryStore{
		sessions: make(map[string]*Session),
		idleTTL:  idleTTL,
	}
}

// Resolve returns the session for id, minting a new one when id is
// empty or not in the table. The returned bool reports whether a new
// session was created.
func (m *MemoryStore) Resolve(_ context.Context, id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id != "" {
		if s, ok := m.sessions[id]; ok {
			s.LastUpdated = time.Now()
			return s, false
		}
	}

	s := &Session{
		ID:          GenerateID(),
		LastUpdated: time.Now(),
	}
	m.sessions[s.ID] = s
	return s, true
}

func (m *MemoryStore) Delete(_ context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// SweepExpired removes every session whose last activity is older than
// the idle threshold.
func (m *MemoryStore) SweepExpired(_ context.Context, now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if now.Sub(s.LastUpdated) > m.idleTTL {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports how many sessions are live.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
