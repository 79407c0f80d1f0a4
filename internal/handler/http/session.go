package http

import (
	"context"
	"log/slog"
	"net/http"

	apperrors "github.com/BAZAR-APP/admin-panel/pkg/errors"
	"github.com/BAZAR-APP/admin-panel/pkg/httputil"
	"github.com/BAZAR-APP/admin-panel/pkg/logger"

	"github.com/BAZAR-APP/admin-panel/internal/session"
)

type stateKey struct{}

// stateFrom returns the session loaded by Sessions.
func stateFrom(ctx context.Context) *session.State {
	st, _ := ctx.Value(stateKey{}).(*session.State)
	return st
}

// Sessions loads the caller's session into the request context and tags
// the request logger with the session and user IDs.
func Sessions(m *session.Manager, base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st, err := m.Load(r)
			if err != nil {
				base.ErrorContext(r.Context(), "session store unavailable", slog.String("error", err.Error()))
				httputil.WriteError(w, r, apperrors.Wrap(apperrors.ErrServiceUnavail, "load session"), base)
				return
			}

			ctx := context.WithValue(r.Context(), stateKey{}, st)
			ctx = logger.WithSessionID(ctx, st.ID)
			if id := st.Session.User().Identifier(); id != "" {
				ctx = logger.WithUserID(ctx, id)
			}
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests whose session is not signed in.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := stateFrom(r.Context())
		if st == nil || !st.Authenticated() {
			httputil.WriteError(w, r, apperrors.Unauthorized("sign in required"), nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
