package auth

import (
	"errors"
	"strings"

	apperrors "github.com/BAZAR-APP/admin-panel/pkg/errors"
	"github.com/BAZAR-APP/admin-panel/pkg/httpclient"
)

// Messages returned to the dashboard when the platform answers without a token.
const (
	MsgUnableToSignIn = "Unable to sign in"
	MsgUnableToSignUp = "Unable to sign up"
)

var (
	// ErrMissingToken is returned when a session would be established
	// without an access token.
	ErrMissingToken = errors.New("auth: access token is empty")
)

// ExtractErrorMessage turns a failed platform call into the text shown to
// the admin. The platform's own wording wins when its body carries one.
func ExtractErrorMessage(err error) string {
	if err == nil {
		return "Unknown error occurred"
	}

	if ue, ok := httpclient.AsUpstreamError(err); ok {
		if msg := ue.Message(); msg != "" {
			return msg
		}
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}

	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return "Something went wrong"
}
