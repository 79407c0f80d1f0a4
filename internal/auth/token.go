package auth

import "sync"

// TokenStore holds the access token of one admin session. An empty token
// means signed out.
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewTokenStore returns a store seeded with a previously persisted token.
func NewTokenStore(initial string) *TokenStore {
	return &TokenStore{token: initial}
}

// Token returns the current access token.
func (s *TokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken overwrites the token. Pass "" to clear it.
func (s *TokenStore) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}
