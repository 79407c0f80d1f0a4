package auth

import (
	"context"
	"log/slog"
	"net/url"
	"sync"

	"github.com/BAZAR-APP/admin-panel/internal/domain"
	"github.com/BAZAR-APP/admin-panel/pkg/logger"
)

// Status is the outcome of a gateway operation as shown to the dashboard.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusNone    Status = ""
)

// Result is the uniform answer of every gateway operation.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// API is the part of the platform the gateway talks to. Implementations
// authenticate with the gateway's TokenStore.
type API interface {
	SignIn(ctx context.Context, cred domain.SignInCredential) (*domain.SignInResponse, error)
	SignUp(ctx context.Context, cred domain.SignUpCredential) (*domain.SignUpResponse, error)
	SignOut(ctx context.Context) error
	CurrentUser(ctx context.Context) (*domain.User, error)
	ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error
}

// Auditor is told about completed session transitions.
type Auditor interface {
	SignedIn(ctx context.Context, user domain.User, provider string)
	SignedUp(ctx context.Context, user domain.User)
	SignedOut(ctx context.Context, user domain.User)
}

// GatewayConfig holds the routing inputs of a gateway.
type GatewayConfig struct {
	Resolver RedirectResolver

	// SignedOutPath is where SignOut navigates. Defaults to
	// UnauthenticatedEntryPath.
	SignedOutPath string

	// Location is the dashboard page the operation was started from. Its
	// query carries the post-sign-in deep link.
	Location *url.URL
}

// Gateway runs sign-in, sign-up and sign-out against the platform and keeps
// the token and session stores of one admin session consistent.
type Gateway struct {
	// mu serialises store transitions so the token and signedIn flag
	// always change together.
	mu sync.Mutex

	api     API
	tokens  *TokenStore
	session *SessionStore
	nav     Navigator
	cfg     GatewayConfig
	auditor Auditor
	logger  *slog.Logger
}

// NewGateway builds a gateway over one session's stores. nav and auditor
// may be nil.
func NewGateway(
	api API,
	tokens *TokenStore,
	session *SessionStore,
	nav Navigator,
	cfg GatewayConfig,
	auditor Auditor,
	log *slog.Logger,
) *Gateway {
	if nav == nil {
		nav = NavigateFunc(nil)
	}
	if cfg.Resolver == (RedirectResolver{}) {
		cfg.Resolver = NewRedirectResolver("", "")
	}
	if cfg.SignedOutPath == "" {
		cfg.SignedOutPath = UnauthenticatedEntryPath
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Gateway{
		api:     api,
		tokens:  tokens,
		session: session,
		nav:     nav,
		cfg:     cfg,
		auditor: auditor,
		logger:  log,
	}
}

// Authenticated reports whether a token is held and the session is
// signed in.
func (g *Gateway) Authenticated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tokens.Token() != "" && g.session.SignedIn()
}

// User returns the session profile.
func (g *Gateway) User() domain.User {
	return g.session.User()
}

// SignIn signs in with a password. Errors from the platform are returned
// unchanged; an answer without an access token is a failed Result and
// leaves the stores untouched.
func (g *Gateway) SignIn(ctx context.Context, cred domain.SignInCredential) (Result, error) {
	resp, err := g.api.SignIn(ctx, cred)
	if err != nil {
		observe("sign_in", StatusFailed, err)
		return Result{}, err
	}
	if resp == nil || resp.AccessToken == "" {
		observe("sign_in", StatusFailed, nil)
		return Result{Status: StatusFailed, Message: MsgUnableToSignIn}, nil
	}

	user := resp.User
	if err := g.establish(ctx, resp.Token, &user); err != nil {
		observe("sign_in", StatusFailed, err)
		return Result{}, err
	}
	g.Redirect()

	observe("sign_in", StatusSuccess, nil)
	g.auditSignedIn(ctx, cred.AuthProvider)
	return Result{Status: StatusSuccess}, nil
}

// SignUp registers an account and signs it in. It never returns an error:
// platform failures become a failed Result carrying the platform's message.
func (g *Gateway) SignUp(ctx context.Context, cred domain.SignUpCredential) Result {
	resp, err := g.api.SignUp(ctx, cred)
	if err != nil {
		msg := ExtractErrorMessage(err)
		g.logger.WarnContext(ctx, "sign up rejected",
			slog.String("message", msg),
			slog.String("error", err.Error()),
		)
		observe("sign_up", StatusFailed, nil)
		return Result{Status: StatusFailed, Message: msg}
	}
	if resp == nil || resp.AccessToken == "" {
		observe("sign_up", StatusFailed, nil)
		return Result{Status: StatusFailed, Message: MsgUnableToSignUp}
	}

	user := domain.User{
		UserID:      resp.UserID,
		FullName:    cred.FullName,
		Email:       cred.Email,
		PhoneNumber: cred.PhoneNumber,
	}
	g.commit(resp.Token, &user)
	g.Redirect()

	observe("sign_up", StatusSuccess, nil)
	if g.auditor != nil {
		g.auditor.SignedUp(ctx, g.session.User())
	}
	return Result{Status: StatusSuccess, Message: resp.Message}
}

// SignOut tells the platform the session is over, then clears the stores
// and navigates to the signed-out page whatever the platform answered.
// Calling it on a signed-out session is harmless.
func (g *Gateway) SignOut(ctx context.Context) {
	previous := g.session.User()
	wasSignedIn := g.Authenticated()

	defer func() {
		g.mu.Lock()
		g.tokens.SetToken("")
		g.session.SetUser(domain.User{})
		g.session.SetSessionSignedIn(false)
		g.mu.Unlock()

		g.nav.Navigate(g.cfg.SignedOutPath)
		observe("sign_out", StatusSuccess, nil)
		if wasSignedIn && g.auditor != nil {
			g.auditor.SignedOut(ctx, previous)
		}
	}()

	if err := g.api.SignOut(ctx); err != nil {
		g.logger.WarnContext(ctx, "platform sign out failed, clearing session anyway",
			slog.String("error", err.Error()),
		)
	}
}

// ForgotPassword asks the platform to send a reset code. The stores are
// not touched.
func (g *Gateway) ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) Result {
	if err := g.api.ForgotPassword(ctx, req); err != nil {
		observe("forgot_password", StatusFailed, nil)
		return Result{Status: StatusFailed, Message: ExtractErrorMessage(err)}
	}
	observe("forgot_password", StatusSuccess, nil)
	return Result{Status: StatusSuccess, Message: "A password reset code has been sent to your phone"}
}

// Redirect navigates to the post-sign-in destination.
func (g *Gateway) Redirect() {
	g.nav.Navigate(g.cfg.Resolver.Resolve(g.cfg.Location))
}

// establish commits tok, and user when given, then replaces the user with
// the platform's current profile. If that fetch fails the committed user
// is kept.
func (g *Gateway) establish(ctx context.Context, tok domain.Token, user *domain.User) error {
	if tok.AccessToken == "" {
		return ErrMissingToken
	}
	g.commit(tok, user)
	if user == nil {
		return nil
	}

	current, err := g.api.CurrentUser(ctx)
	if err != nil || current == nil {
		attrs := []any{slog.String("user_id", user.Identifier())}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		g.logger.WarnContext(ctx, "could not load current user, keeping sign-in profile", attrs...)
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	// A sign-out may have run while the profile was loading.
	if g.tokens.Token() == tok.AccessToken {
		g.session.SetUser(*current)
	}
	return nil
}

// commit stores the access token, marks the session signed in and, when
// user is non-nil, replaces the profile. The refresh token is dropped.
func (g *Gateway) commit(tok domain.Token, user *domain.User) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tokens.SetToken(tok.AccessToken)
	g.session.SetSessionSignedIn(true)
	if user != nil {
		g.session.SetUser(*user)
	}
}

func (g *Gateway) auditSignedIn(ctx context.Context, provider string) {
	if g.auditor != nil {
		g.auditor.SignedIn(ctx, g.session.User(), provider)
	}
}
