package auth

import (
	"slices"
	"sync"

	"github.com/BAZAR-APP/admin-panel/internal/domain"
)

// SessionSnapshot is a point-in-time copy of a SessionStore.
type SessionSnapshot struct {
	User     domain.User `json:"user"`
	SignedIn bool        `json:"signed_in"`
}

// SessionStore holds the signed-in admin's profile and the signedIn flag.
// The flag is kept apart from the token: a session is authenticated only
// when both are present.
type SessionStore struct {
	mu       sync.RWMutex
	user     domain.User
	signedIn bool
}

// NewSessionStore returns a store seeded with persisted state.
func NewSessionStore(snap SessionSnapshot) *SessionStore {
	return &SessionStore{user: cloneUser(snap.User), signedIn: snap.SignedIn}
}

// User returns a copy of the current profile.
func (s *SessionStore) User() domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.user)
}

// SetUser replaces the profile wholesale.
func (s *SessionStore) SetUser(u domain.User) {
	s.mu.Lock()
	s.user = cloneUser(u)
	s.mu.Unlock()
}

// SignedIn reports the session flag.
func (s *SessionStore) SignedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.signedIn
}

// SetSessionSignedIn sets the session flag.
func (s *SessionStore) SetSessionSignedIn(signedIn bool) {
	s.mu.Lock()
	s.signedIn = signedIn
	s.mu.Unlock()
}

// Snapshot copies the store for persistence.
func (s *SessionStore) Snapshot() SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SessionSnapshot{User: cloneUser(s.user), SignedIn: s.signedIn}
}

func cloneUser(u domain.User) domain.User {
	u.Roles = slices.Clone(u.Roles)
	u.AuthProvider = slices.Clone(u.AuthProvider)
	return u
}
