// Package session keeps an admin's token and profile between requests,
// keyed by an opaque cookie.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/BAZAR-APP/admin-panel/internal/cache"
	"github.com/BAZAR-APP/admin-panel/internal/domain"
)

// ErrNotFound is returned by Store.Get for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Snapshot is everything persisted for one session.
type Snapshot struct {
	AccessToken string      `json:"access_token,omitempty"`
	User        domain.User `json:"user"`
	SignedIn    bool        `json:"signed_in"`
}

// Empty reports whether there is nothing worth keeping.
func (s Snapshot) Empty() bool {
	return s.AccessToken == "" && !s.SignedIn && s.User.IsZero()
}

// Store persists snapshots by session ID.
type Store interface {
	Get(ctx context.Context, id string) (Snapshot, error)
	Put(ctx context.Context, id string, snap Snapshot, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

const keyPrefix = "session:"

// CacheStore keeps snapshots as JSON in a cache.Cache, so sessions live
// in process memory or in Redis depending on the backend.
type CacheStore struct {
	backend cache.Cache
}

// NewCacheStore returns a Store over backend.
func NewCacheStore(backend cache.Cache) *CacheStore {
	return &CacheStore{backend: backend}
}

func (s *CacheStore) Get(ctx context.Context, id string) (Snapshot, error) {
	b, err := s.backend.Get(ctx, keyPrefix+id)
	if errors.Is(err, cache.ErrMiss) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load session: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode session: %w", err)
	}
	return snap, nil
}

func (s *CacheStore) Put(ctx context.Context, id string, snap Snapshot, ttl time.Duration) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.backend.Set(ctx, keyPrefix+id, b, ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *CacheStore) Delete(ctx context.Context, id string) error {
	if err := s.backend.Delete(ctx, keyPrefix+id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
