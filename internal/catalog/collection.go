// Package catalog serves the dashboard's list and create screens on top of
// the platform API, with a short-lived per-session list cache.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/BAZAR-APP/admin-panel/internal/cache"
	"github.com/BAZAR-APP/admin-panel/internal/upstream"
)

// DefaultDedupeInterval is how long a fetched list is reused before the
// platform is asked again.
const DefaultDedupeInterval = time.Minute

// API is the platform surface the catalog uses.
type API interface {
	upstream.Getter
	Post(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

// Lists is the list cache shared by every session. Concurrent misses on
// the same key are collapsed into one platform call.
type Lists struct {
	backend cache.Cache
	ttl     time.Duration
	group   singleflight.Group
	logger  *slog.Logger

	// mu orders cache writes after invalidations. generation counts
	// invalidations; a fetch that saw an older generation is not cached.
	mu         sync.Mutex
	generation uint64
}

// NewLists returns a list cache over backend. A ttl <= 0 uses
// DefaultDedupeInterval.
func NewLists(backend cache.Cache, ttl time.Duration, logger *slog.Logger) *Lists {
	if ttl <= 0 {
		ttl = DefaultDedupeInterval
	}
	return &Lists{backend: backend, ttl: ttl, logger: logger}
}

// load returns the cached bytes for key or calls fetch and caches its
// result. Cache backend failures are logged and bypassed.
func (l *Lists) load(ctx context.Context, key string, fetch func(context.Context) ([]byte, error)) ([]byte, error) {
	b, err := l.backend.Get(ctx, key)
	if err == nil {
		cacheLookups.WithLabelValues("hit").Inc()
		return b, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		l.logger.WarnContext(ctx, "list cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	cacheLookups.WithLabelValues("miss").Inc()

	// The shared fetch outlives any single caller; each caller still
	// returns as soon as its own context is done.
	ch := l.group.DoChan(key, func() (any, error) {
		fetchCtx := context.WithoutCancel(ctx)
		gen := l.currentGeneration()

		data, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		l.store(fetchCtx, key, data, gen)
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			cacheLookups.WithLabelValues("shared").Inc()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (l *Lists) currentGeneration() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.generation
}

// store caches data unless an invalidation ran since gen was read.
func (l *Lists) store(ctx context.Context, key string, data []byte, gen uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.generation != gen {
		cacheLookups.WithLabelValues("discarded").Inc()
		return
	}
	if err := l.backend.Set(ctx, key, data, l.ttl); err != nil {
		l.logger.WarnContext(ctx, "list cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func (l *Lists) invalidate(ctx context.Context, keys ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.generation++
	for _, k := range keys {
		l.group.Forget(k)
	}
	if err := l.backend.Delete(ctx, keys...); err != nil {
		l.logger.WarnContext(ctx, "list cache invalidate failed", slog.String("error", err.Error()))
	}
}

func (l *Lists) invalidatePrefix(ctx context.Context, prefix string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.generation++
	if err := l.backend.DeletePrefix(ctx, prefix); err != nil {
		l.logger.WarnContext(ctx, "list cache invalidate failed",
			slog.String("prefix", prefix), slog.String("error", err.Error()))
	}
}

// Collection is one platform list endpoint of element type T.
type Collection[T any] struct {
	svc      *Service
	endpoint string
}

// NewCollection binds endpoint to the session behind svc.
func NewCollection[T any](svc *Service, endpoint string) *Collection[T] {
	return &Collection[T]{svc: svc, endpoint: endpoint}
}

// Endpoint returns the platform path of the collection.
func (c *Collection[T]) Endpoint() string {
	return c.endpoint
}

// List returns the collection, from cache when it was fetched within the
// dedupe interval.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	data, err := c.svc.lists.load(ctx, c.svc.key(c.endpoint), func(ctx context.Context) ([]byte, error) {
		items, err := upstream.List[T](ctx, c.svc.api, c.endpoint)
		if err != nil {
			return nil, err
		}
		return json.Marshal(items)
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.endpoint, err)
	}

	items := []T{}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode cached %s: %w", c.endpoint, err)
	}
	return items, nil
}

// Create posts payload to the collection endpoint and invalidates the
// cached list. The platform's answer is returned as is.
func (c *Collection[T]) Create(ctx context.Context, payload any) (json.RawMessage, error) {
	return c.CreateAt(ctx, c.endpoint, payload)
}

// CreateAt posts payload to path, which may differ from the list
// endpoint, and invalidates the cached list.
func (c *Collection[T]) CreateAt(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.svc.api.Post(ctx, path, payload, &out); err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	c.Invalidate(ctx)
	return out, nil
}

// Invalidate drops the cached list.
func (c *Collection[T]) Invalidate(ctx context.Context) {
	c.svc.lists.invalidate(ctx, c.svc.key(c.endpoint))
}
