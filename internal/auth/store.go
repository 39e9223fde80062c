// Package auth provides session resolution for gateway requests.
//
// The gateway does not run its own login flow. Sessions are minted out of
// band (operator bootstrap, external identity provider callback) through
// CreateSession; request handling only needs to answer "is this caller
// authenticated, and as whom".
package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"otlabs.dev/labgate/internal/clock"
)

// User is the opaque subject a session resolves to.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is an active authenticated session.
type Session struct {
	Token     string    `json:"token"`
	User      *User     `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

var ErrInvalidSession = errors.New("invalid or expired session")

// Store manages sessions in memory. The gateway is stateless across
// restarts; a restart just signs everyone out.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	clk      clock.Clock
}

// NewStore creates a session store with the given session lifetime.
func NewStore(ttl time.Duration, clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		clk:      clk,
	}
}

// CreateSession mints a session for user and returns it. The token is a
// random UUID; it is the only copy, so callers must hand it to the client.
func (s *Store) CreateSession(user *User) *Session {
	now := s.clk.Now()
	sess := &Session{
		Token:     uuid.NewString(),
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()
	return sess
}

// ValidateSession resolves a token to its user. Expired sessions are
// removed on sight.
func (s *Store) ValidateSession(token string) (*User, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clk.Now().After(sess.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}
	return sess.User, nil
}

// DeleteSession signs a session out. Deleting an unknown token is a no-op.
func (s *Store) DeleteSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Prune drops expired sessions and reports how many were removed.
func (s *Store) Prune() int {
	now := s.clk.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for token, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// Count returns the number of live sessions, expired ones included until
// the next Prune or ValidateSession touches them.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
