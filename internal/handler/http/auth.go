package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BAZAR-APP/admin-panel/internal/auth"
	"github.com/BAZAR-APP/admin-panel/internal/domain"
	"github.com/BAZAR-APP/admin-panel/internal/session"
	"github.com/BAZAR-APP/admin-panel/internal/upstream"
	apperrors "github.com/BAZAR-APP/admin-panel/pkg/errors"
	"github.com/BAZAR-APP/admin-panel/pkg/httputil"
	"github.com/BAZAR-APP/admin-panel/pkg/logger"
	"github.com/BAZAR-APP/admin-panel/pkg/validator"
)

// AuthResponse is the body of every auth endpoint.
type AuthResponse struct {
	Status        auth.Status  `json:"status"`
	Message       string       `json:"message"`
	RedirectTo    string       `json:"redirect_to,omitempty"`
	Authenticated bool         `json:"authenticated"`
	User          *domain.User `json:"user,omitempty"`
}

// AuthConfig holds the routing inputs shared by every gateway.
type AuthConfig struct {
	Resolver      auth.RedirectResolver
	SignedOutPath string
	// Providers are the identity providers served under /oauth/{provider}.
	// None are registered by default.
	Providers map[string]auth.OAuthProvider
}

// AuthHandler exposes the auth gateway over HTTP. A gateway is built per
// request around the caller's session.
type AuthHandler struct {
	platform *upstream.Client
	sessions *session.Manager
	auditor  auth.Auditor
	cfg      AuthConfig
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(platform *upstream.Client, sessions *session.Manager, auditor auth.Auditor, cfg AuthConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{platform: platform, sessions: sessions, auditor: auditor, cfg: cfg, logger: logger}
}

func (h *AuthHandler) gateway(r *http.Request, st *session.State, nav auth.Navigator) *auth.Gateway {
	return auth.NewGateway(
		h.platform.WithTokens(st.Tokens),
		st.Tokens,
		st.Session,
		nav,
		auth.GatewayConfig{Resolver: h.cfg.Resolver, SignedOutPath: h.cfg.SignedOutPath, Location: r.URL},
		h.auditor,
		logger.FromContext(r.Context()),
	)
}

// save persists st. A session that was signed in by this request is moved
// to a fresh ID first.
func (h *AuthHandler) save(w http.ResponseWriter, r *http.Request, st *session.State) error {
	if st.SignedInSinceLoad() {
		if err := h.sessions.Rotate(r.Context(), st); err != nil {
			return err
		}
	}
	return h.sessions.Save(r.Context(), w, r, st)
}

// respond persists the session and writes res. The cookie must be set
// before the body goes out.
func (h *AuthHandler) respond(w http.ResponseWriter, r *http.Request, st *session.State, res auth.Result, nav *auth.Recorder) {
	if err := h.save(w, r, st); err != nil {
		logger.FromContext(r.Context()).ErrorContext(r.Context(), "save session failed", slog.String("error", err.Error()))
		httputil.WriteError(w, r, apperrors.Wrap(apperrors.ErrServiceUnavail, "save session"), h.logger)
		return
	}

	body := AuthResponse{
		Status:        res.Status,
		Message:       res.Message,
		RedirectTo:    nav.Target(),
		Authenticated: st.Authenticated(),
	}
	if body.Authenticated {
		u := st.Session.User()
		body.User = &u
	}
	httputil.WriteData(w, http.StatusOK, body)
}

// SignIn handles POST /api/v1/auth/sign-in
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req domain.SignInCredential
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	st := stateFrom(r.Context())
	nav := &auth.Recorder{}
	res, err := h.gateway(r, st, nav).SignIn(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.respond(w, r, st, res, nav)
}

// SignUp handles POST /api/v1/auth/sign-up
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req domain.SignUpCredential
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	st := stateFrom(r.Context())
	nav := &auth.Recorder{}
	res := h.gateway(r, st, nav).SignUp(r.Context(), req)
	h.respond(w, r, st, res, nav)
}

// ForgotPassword handles POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req domain.ForgotPasswordRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	st := stateFrom(r.Context())
	nav := &auth.Recorder{}
	res := h.gateway(r, st, nav).ForgotPassword(r.Context(), req)
	h.respond(w, r, st, res, nav)
}

// SignOut handles POST /api/v1/auth/sign-out
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())
	nav := &auth.Recorder{}
	// The platform call outlives a client that hangs up mid sign-out.
	ctx := context.WithoutCancel(r.Context())
	h.gateway(r, st, nav).SignOut(ctx)
	h.respond(w, r, st, auth.Result{Status: auth.StatusSuccess}, nav)
}

// OAuth handles POST /api/v1/auth/oauth/{provider}
func (h *AuthHandler) OAuth(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "provider")
	provider, ok := h.cfg.Providers[name]
	if !ok {
		httputil.WriteError(w, r, apperrors.NotFound("identity provider", name), h.logger)
		return
	}

	st := stateFrom(r.Context())
	nav := &auth.Recorder{}
	res, err := h.gateway(r, st, nav).SignInWith(r.Context(), provider)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.respond(w, r, st, res, nav)
}

// Session handles GET /api/v1/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r.Context())
	body := AuthResponse{Authenticated: st.Authenticated()}
	if body.Authenticated {
		u := st.Session.User()
		body.User = &u
	}
	httputil.WriteData(w, http.StatusOK, body)
}
