package http

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	apperrors "github.com/BAZAR-APP/admin-panel/pkg/errors"
	"github.com/BAZAR-APP/admin-panel/pkg/httputil"
	"github.com/BAZAR-APP/admin-panel/pkg/middleware"
)

const visitorTTL = 3 * time.Minute

// visitor tracks a rate limiter per client IP.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitorStore holds per-IP limiters. Stale entries are swept on access
// once per ttl.
type visitorStore struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	rps       int
	burst     int
	ttl       time.Duration
	lastSweep time.Time
	nowFunc   func() time.Time
}

func newVisitorStore(rps, burst int, ttl time.Duration) *visitorStore {
	return &visitorStore{
		visitors:  make(map[string]*visitor),
		rps:       rps,
		burst:     burst,
		ttl:       ttl,
		lastSweep: time.Now(),
		nowFunc:   time.Now,
	}
}

func (s *visitorStore) limiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	if now.Sub(s.lastSweep) > s.ttl {
		for k, v := range s.visitors {
			if now.Sub(v.lastSeen) > s.ttl {
				delete(s.visitors, k)
			}
		}
		s.lastSweep = now
	}

	v, ok := s.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(s.rps), s.burst)}
		s.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (s *visitorStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}

// RateLimit enforces a per-IP token bucket and answers 429 once it is
// exhausted. Forwarding headers are only honored from trustedProxies.
func RateLimit(rps, burst int, trustedProxies []string, logger *slog.Logger) func(http.Handler) http.Handler {
	store := newVisitorStore(rps, burst, visitorTTL)
	proxies := middleware.ParseCIDRs(trustedProxies, logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r, proxies)
			if !store.limiter(ip).Allow() {
				logger.WarnContext(r.Context(), "rate limit exceeded",
					slog.String("ip", ip),
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("Retry-After", "1")
				httputil.WriteError(w, r, apperrors.RateLimited("too many requests"), logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the peer address. When the peer is a trusted proxy the
// first address in X-Forwarded-For, then X-Real-IP, is preferred.
func clientIP(r *http.Request, proxies []*net.IPNet) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if !middleware.ContainsIP(proxies, net.ParseIP(host)) {
		return host
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if ip := net.ParseIP(strings.TrimSpace(xri)); ip != nil {
			return ip.String()
		}
	}
	return host
}
