package httpclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/BAZAR-APP/admin-panel/pkg/errors"
)

const maxErrorBody = 1 << 20

// UpstreamError is a non-2xx answer from a remote API. Body holds the raw
// response payload so callers can surface the remote message verbatim.
type UpstreamError struct {
	Service string
	Status  int
	Body    []byte
}

func (e *UpstreamError) Error() string {
	body := strings.TrimSpace(string(e.Body))
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	if body == "" {
		return fmt.Sprintf("%s returned status %d", e.Service, e.Status)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.Status, body)
}

// Unwrap maps the status onto the shared sentinel errors so errors.Is works
// against pkg/errors.
func (e *UpstreamError) Unwrap() error {
	switch {
	case e.Status == http.StatusNotFound:
		return apperrors.ErrNotFound
	case e.Status == http.StatusBadRequest, e.Status == http.StatusUnprocessableEntity:
		return apperrors.ErrInvalidInput
	case e.Status == http.StatusConflict:
		return apperrors.ErrConflict
	case e.Status == http.StatusUnauthorized:
		return apperrors.ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return apperrors.ErrForbidden
	case e.Status == http.StatusTooManyRequests:
		return apperrors.ErrRateLimited
	case e.Status == http.StatusServiceUnavailable:
		return apperrors.ErrServiceUnavail
	default:
		return apperrors.ErrUpstream
	}
}

// Message digs the human readable text out of the body:
//   - a JSON string body is returned as is
//   - {"message": "..."} yields the message
//   - {"message": ["a", "b"]} yields "a, b"
//   - any other JSON value is returned re-encoded
//   - a non-JSON body is returned as text
//
// An empty body yields "".
func (e *UpstreamError) Message() string {
	raw := bytes.TrimSpace(e.Body)
	if len(raw) == 0 {
		return ""
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return string(raw)
	}

	switch v := data.(type) {
	case string:
		return v
	case map[string]any:
		switch msg := v["message"].(type) {
		case string:
			return msg
		case []any:
			parts := make([]string, 0, len(msg))
			for _, p := range msg {
				parts = append(parts, fmt.Sprint(p))
			}
			return strings.Join(parts, ", ")
		}
	}

	compact := new(bytes.Buffer)
	if err := json.Compact(compact, raw); err != nil {
		return string(raw)
	}
	return compact.String()
}

// AppError converts the upstream answer into the error the admin API
// returns. Client errors keep their status; server errors become 502.
func (e *UpstreamError) AppError() *apperrors.AppError {
	msg := e.Message()
	if msg == "" {
		msg = http.StatusText(e.Status)
	}

	status := e.Status
	code := "UPSTREAM_ERROR"
	if status >= 500 || status < 400 {
		status = http.StatusBadGateway
	} else {
		code = strings.ToUpper(strings.ReplaceAll(http.StatusText(e.Status), " ", "_"))
	}

	return &apperrors.AppError{
		Code:    code,
		Message: msg,
		Status:  status,
		Err:     e,
	}
}

// ParseResponseError reads a non-2xx response into an *UpstreamError.
// The body is fully consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	return &UpstreamError{
		Service: serviceName,
		Status:  resp.StatusCode,
		Body:    body,
	}
}

// AsUpstreamError is errors.As for *UpstreamError.
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
