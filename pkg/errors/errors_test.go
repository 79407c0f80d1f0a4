package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound, ErrInvalidInput, ErrUnauthorized, ErrForbidden,
		ErrInternal, ErrConflict, ErrServiceUnavail, ErrUpstream, ErrRateLimited,
	}

	for i := 0; i < len(sentinels); i++ {
		for j := i + 1; j < len(sentinels); j++ {
			assert.NotEqual(t, sentinels[i], sentinels[j],
				"sentinels %d and %d should be distinct", i, j)
		}
	}
}

func TestAppError_ErrorString(t *testing.T) {
	withInner := &AppError{Code: "UPSTREAM_ERROR", Message: "platform down", Err: fmt.Errorf("dial tcp: refused")}
	assert.Equal(t, "UPSTREAM_ERROR: platform down: dial tcp: refused", withInner.Error())

	bare := &AppError{Code: "NOT_FOUND", Message: "chalet c-1 not found"}
	assert.Equal(t, "NOT_FOUND: chalet c-1 not found", bare.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	appErr := &AppError{Code: "UNAUTHORIZED", Message: "nope", Err: ErrUnauthorized}
	assert.True(t, errors.Is(appErr, ErrUnauthorized))
	assert.Nil(t, (&AppError{Code: "X"}).Unwrap())
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		code     string
		status   int
		sentinel error
	}{
		{"not found", NotFound("chalet", "c-1"), "NOT_FOUND", http.StatusNotFound, ErrNotFound},
		{"invalid input", InvalidInput("title is required"), "INVALID_INPUT", http.StatusBadRequest, ErrInvalidInput},
		{"unauthorized", Unauthorized("sign in required"), "UNAUTHORIZED", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", Forbidden("admins only"), "FORBIDDEN", http.StatusForbidden, ErrForbidden},
		{"conflict", Conflict("phone taken"), "CONFLICT", http.StatusConflict, ErrConflict},
		{"rate limited", RateLimited("slow down"), "RATE_LIMITED", http.StatusTooManyRequests, ErrRateLimited},
		{"upstream", Upstream("platform unavailable", nil), "UPSTREAM_ERROR", http.StatusBadGateway, ErrUpstream},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.NotNil(t, tc.err)
			assert.Equal(t, tc.code, tc.err.Code)
			assert.Equal(t, tc.status, tc.err.Status)
			assert.True(t, errors.Is(tc.err, tc.sentinel))
		})
	}
}

func TestNotFound_Message(t *testing.T) {
	err := NotFound("user", "u-42")
	assert.Equal(t, "user u-42 not found", err.Message)
}

func TestUpstream_KeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Upstream("platform unavailable", cause)
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrUpstream))
}

func TestInternal(t *testing.T) {
	cause := errors.New("boom")
	err := Internal(cause)
	assert.Equal(t, "INTERNAL_ERROR", err.Code)
	assert.Equal(t, "an internal error occurred", err.Message)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.True(t, errors.Is(err, cause))
}

func TestWrap(t *testing.T) {
	err := Wrap(ErrNotFound, "load chalet")
	assert.Equal(t, "load chalet: resource not found", err.Error())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error", Conflict("dup"), http.StatusConflict},
		{"wrapped app error", fmt.Errorf("ctx: %w", Unauthorized("x")), http.StatusUnauthorized},
		{"not found sentinel", fmt.Errorf("x: %w", ErrNotFound), http.StatusNotFound},
		{"conflict sentinel", ErrConflict, http.StatusConflict},
		{"invalid sentinel", ErrInvalidInput, http.StatusBadRequest},
		{"unauthorized sentinel", ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden sentinel", ErrForbidden, http.StatusForbidden},
		{"rate limited sentinel", ErrRateLimited, http.StatusTooManyRequests},
		{"unavailable sentinel", ErrServiceUnavail, http.StatusServiceUnavailable},
		{"upstream sentinel", ErrUpstream, http.StatusBadGateway},
		{"unknown", errors.New("mystery"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}
