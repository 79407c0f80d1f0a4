package auth

import (
	"context"
	"fmt"

	"github.com/BAZAR-APP/admin-panel/internal/domain"
)

// OAuthCallbackPayload is handed to an identity provider widget so it can
// finish a sign-in through the same path as a password sign-in.
type OAuthCallbackPayload struct {
	// OnSignIn commits the tokens and, when user is non-nil, loads the
	// current profile exactly like SignIn does.
	OnSignIn func(ctx context.Context, tok domain.Token, user *domain.User) error

	// Redirect navigates to the post-sign-in destination.
	Redirect func()
}

// OAuthSignIn calls callback synchronously with the gateway's session
// routines.
func (g *Gateway) OAuthSignIn(callback func(OAuthCallbackPayload)) {
	if callback == nil {
		return
	}
	callback(OAuthCallbackPayload{
		OnSignIn: g.establish,
		Redirect: g.Redirect,
	})
}

// OAuthResult is what an identity provider returns.
type OAuthResult struct {
	Token domain.Token
	User  domain.User
}

// OAuthProvider authenticates an admin with a third party.
type OAuthProvider interface {
	Name() string
	SignIn(ctx context.Context) (*OAuthResult, error)
}

// PlaceholderProvider stands in for a real identity provider and returns a
// fixed identity.
type PlaceholderProvider struct {
	name string
}

// GoogleProvider and GithubProvider are the providers the dashboard offers.
var (
	GoogleProvider OAuthProvider = PlaceholderProvider{name: "google"}
	GithubProvider OAuthProvider = PlaceholderProvider{name: "github"}
)

// PlaceholderProviders returns the placeholder providers keyed by name.
// They sign anyone in and are meant for local development only.
func PlaceholderProviders() map[string]OAuthProvider {
	return map[string]OAuthProvider{
		GoogleProvider.Name(): GoogleProvider,
		GithubProvider.Name(): GithubProvider,
	}
}

func (p PlaceholderProvider) Name() string { return p.name }

func (p PlaceholderProvider) SignIn(ctx context.Context) (*OAuthResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &OAuthResult{
		Token: domain.Token{
			AccessToken:  "placeholder_access_token",
			RefreshToken: "placeholder_refresh_token",
		},
		User: domain.User{
			ID:       "placeholder_id",
			FullName: "Placeholder User",
			Email:    "user@example.com",
		},
	}, nil
}

// SignInWith runs provider and completes the sign-in through OAuthSignIn.
func (g *Gateway) SignInWith(ctx context.Context, provider OAuthProvider) (Result, error) {
	res, err := provider.SignIn(ctx)
	if err != nil {
		observe("oauth_sign_in", StatusFailed, err)
		return Result{}, fmt.Errorf("%s sign in: %w", provider.Name(), err)
	}

	var signInErr error
	g.OAuthSignIn(func(p OAuthCallbackPayload) {
		if signInErr = p.OnSignIn(ctx, res.Token, &res.User); signInErr == nil {
			p.Redirect()
		}
	})
	if signInErr != nil {
		observe("oauth_sign_in", StatusFailed, nil)
		return Result{Status: StatusFailed, Message: MsgUnableToSignIn}, nil
	}

	observe("oauth_sign_in", StatusSuccess, nil)
	g.auditSignedIn(ctx, provider.Name())
	return Result{Status: StatusSuccess}, nil
}
