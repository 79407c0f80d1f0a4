package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BAZAR-APP/admin-panel/internal/auth"
)

// Defaults for Config.
const (
	DefaultCookieName = "admin_session"
	DefaultTTL        = 24 * time.Hour
	minTTL            = time.Minute
)

// Config controls the session cookie.
type Config struct {
	CookieName string
	TTL        time.Duration
	// Secure forces the Secure cookie attribute behind a TLS-terminating proxy.
	Secure bool
}

// State is one request's view of a session: fresh stores hydrated from
// the persisted snapshot.
type State struct {
	ID      string
	Tokens  *auth.TokenStore
	Session *auth.SessionStore

	existed     bool
	stale       bool
	loadedToken string
}

// Snapshot reads the stores back into a persistable form.
func (s *State) Snapshot() Snapshot {
	sess := s.Session.Snapshot()
	return Snapshot{AccessToken: s.Tokens.Token(), User: sess.User, SignedIn: sess.SignedIn}
}

// Authenticated reports whether the session holds a token and is marked
// signed in.
func (s *State) Authenticated() bool {
	return s.Tokens.Token() != "" && s.Session.SignedIn()
}

// SignedInSinceLoad reports whether the session became authenticated with
// a token it did not hold when it was loaded.
func (s *State) SignedInSinceLoad() bool {
	return s.Authenticated() && s.Tokens.Token() != s.loadedToken
}

// Manager moves sessions between the cookie, the Store and the
// per-request stores.
type Manager struct {
	store  Store
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// NewManager returns a Manager. Zero config fields take the defaults.
func NewManager(store Store, cfg Config, logger *slog.Logger) *Manager {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	return &Manager{store: store, cfg: cfg, logger: logger, now: time.Now}
}

// Load returns the session named by the request cookie. A missing,
// malformed or unknown cookie yields a new empty session under a fresh ID;
// IDs the store has never issued are not adopted.
func (m *Manager) Load(r *http.Request) (*State, error) {
	id, fromCookie := m.cookieID(r)
	snap := Snapshot{}
	existed, stale := false, false

	if fromCookie {
		got, err := m.store.Get(r.Context(), id)
		switch {
		case errors.Is(err, ErrNotFound):
			id, stale = uuid.NewString(), true
		case err != nil:
			return nil, err
		default:
			snap, existed = got, true
		}
	}

	return &State{
		ID:          id,
		Tokens:      auth.NewTokenStore(snap.AccessToken),
		Session:     auth.NewSessionStore(auth.SessionSnapshot{User: snap.User, SignedIn: snap.SignedIn}),
		existed:     existed,
		stale:       stale,
		loadedToken: snap.AccessToken,
	}, nil
}

// Rotate moves st to a fresh ID and deletes the record stored under the
// old one. Save then issues the new cookie.
func (m *Manager) Rotate(ctx context.Context, st *State) error {
	old := st.ID
	st.ID = uuid.NewString()
	if !st.existed {
		return nil
	}
	st.existed = false
	if err := m.store.Delete(ctx, old); err != nil {
		return fmt.Errorf("rotate session: %w", err)
	}
	return nil
}

func (m *Manager) cookieID(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.cfg.CookieName)
	if err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String(), true
		}
	}
	return uuid.NewString(), false
}

// Save persists st and refreshes the cookie. An empty session is deleted
// and its cookie cleared instead.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, r *http.Request, st *State) error {
	snap := st.Snapshot()

	if snap.Empty() {
		if !st.existed {
			if st.stale {
				http.SetCookie(w, m.cookie(r, "", -1))
			}
			return nil
		}
		if err := m.store.Delete(ctx, st.ID); err != nil {
			return err
		}
		http.SetCookie(w, m.cookie(r, "", -1))
		return nil
	}

	ttl := m.ttlFor(snap.AccessToken)
	if err := m.store.Put(ctx, st.ID, snap, ttl); err != nil {
		return err
	}
	http.SetCookie(w, m.cookie(r, st.ID, int(ttl/time.Second)))
	st.existed = true
	return nil
}

// ttlFor caps the configured TTL at the access token's expiry when the
// token is a JWT with an exp claim. The signature is not checked; the
// platform does that on every call.
func (m *Manager) ttlFor(token string) time.Duration {
	ttl := m.cfg.TTL
	if token == "" {
		return ttl
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ttl
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return ttl
	}

	remaining := exp.Sub(m.now())
	if remaining < minTTL {
		m.logger.Debug("access token near expiry", slog.Duration("remaining", remaining))
		return minTTL
	}
	if remaining < ttl {
		return remaining
	}
	return ttl
}

func (m *Manager) cookie(r *http.Request, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.cfg.Secure || r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	}
}
