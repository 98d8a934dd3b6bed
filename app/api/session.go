package api

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lysyi3m/podracer/app/gpodder"
)

const sessionCookie = "podracer_session"

// Session keeps the gpodder.net credentials of a logged in user. gpodder.net
// has no token flow, so every API call is made with basic auth.
type Session struct {
	ID          string
	Credentials gpodder.Credentials
	ExpiresAt   time.Time
}

// SessionStore holds sessions in memory; they are lost on restart.
type SessionStore struct {
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	mu       sync.RWMutex
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *SessionStore) Create(creds gpodder.Credentials) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()

	session := &Session{
		ID:          uuid.NewString(),
		Credentials: creds,
		ExpiresAt:   s.now().Add(s.ttl),
	}
	s.sessions[session.ID] = session
	return session
}

func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if !s.now().Before(session.ExpiresAt) {
		s.Delete(id)
		return nil, false
	}
	return session, true
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

func (s *SessionStore) pruneLocked() {
	now := s.now()
	for id, session := range s.sessions {
		if !now.Before(session.ExpiresAt) {
			delete(s.sessions, id)
		}
	}
}
