package cache

import (
	"context"
	"sync"
	"time"

	"kbcportal/internal/domain"
)

type memorySession struct {
	userID    uint
	expiresAt time.Time
}

// MemorySessionStore is the SessionStore used when no redis is configured.
// Sessions do not survive a restart.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]memorySession),
		now:      time.Now,
	}
}

// Save stores the session and drops every expired one, so sessions nobody
// reads again do not pile up.
func (s *MemorySessionStore) Save(_ context.Context, sessionID string, userID uint, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, sess := range s.sessions {
		if !now.Before(sess.expiresAt) {
			delete(s.sessions, id)
		}
	}
	s.sessions[sessionID] = memorySession{userID: userID, expiresAt: now.Add(ttl)}
	return nil
}

// Len reports how many sessions are held, expired ones included.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *MemorySessionStore) Get(_ context.Context, sessionID string) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return 0, domain.ErrSessionNotFound
	}
	if !s.now().Before(sess.expiresAt) {
		delete(s.sessions, sessionID)
		return 0, domain.ErrSessionNotFound
	}
	return sess.userID, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
