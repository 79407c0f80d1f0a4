package upstream

import (
	"context"

	"github.com/BAZAR-APP/admin-panel/internal/domain"
)

// Platform auth endpoints.
const (
	PathSignIn         = "/auth/signIn"
	PathSignUp         = "/auth/signUp"
	PathSignOut        = "/sign-out"
	PathCurrentUser    = "/users/currentUser"
	PathForgotPassword = "/forgot-password"
)

func (c *Client) SignIn(ctx context.Context, cred domain.SignInCredential) (*domain.SignInResponse, error) {
	var resp domain.SignInResponse
	if err := c.Post(ctx, PathSignIn, cred, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SignUp(ctx context.Context, cred domain.SignUpCredential) (*domain.SignUpResponse, error) {
	var resp domain.SignUpResponse
	if err := c.Post(ctx, PathSignUp, cred, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SignOut ignores whatever the platform answers on success.
func (c *Client) SignOut(ctx context.Context) error {
	return c.Post(ctx, PathSignOut, nil, nil)
}

func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.Get(ctx, PathCurrentUser, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error {
	return c.Post(ctx, PathForgotPassword, req, nil)
}
