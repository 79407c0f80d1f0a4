package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/BAZAR-APP/admin-panel/pkg/errors"
	"github.com/BAZAR-APP/admin-panel/pkg/httpclient"
	"github.com/BAZAR-APP/admin-panel/pkg/logger"
	"github.com/BAZAR-APP/admin-panel/pkg/validator"
)

// Response is the standard JSON response envelope.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse represents an error in the standard response format.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData wraps v in the {data} envelope.
func WriteData(w http.ResponseWriter, status int, v any) {
	WriteJSON(w, status, Response{Data: v})
}

// WriteError maps err onto the error envelope. Upstream answers are relayed
// with their own message, AppErrors keep their code and status, and anything
// else is logged and reported as an internal error.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}
	requestID := logger.CorrelationIDFromContext(r.Context())

	if ue, ok := httpclient.AsUpstreamError(err); ok {
		appErr := ue.AppError()
		if appErr.Status >= http.StatusInternalServerError {
			l.WarnContext(r.Context(), "upstream failure",
				slog.Int("upstream_status", ue.Status),
				slog.String("error", err.Error()),
				slog.String("path", r.URL.Path),
			)
		}
		writeAppError(w, appErr, requestID)
		return
	}

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteValidationError(w, r, err)
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError {
			l.ErrorContext(r.Context(), "request failed",
				slog.String("error", err.Error()),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
		}
		writeAppError(w, appErr, requestID)
		return
	}

	status := apperrors.HTTPStatus(err)
	code := "INTERNAL_ERROR"
	message := "an internal error occurred"

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		code, message = "NOT_FOUND", "resource not found"
	case errors.Is(err, apperrors.ErrUnauthorized):
		code, message = "UNAUTHORIZED", "authentication required"
	case errors.Is(err, apperrors.ErrInvalidInput):
		code, message = "INVALID_INPUT", err.Error()
	case errors.Is(err, apperrors.ErrServiceUnavail), errors.Is(err, httpclient.ErrCircuitOpen):
		code, message = "SERVICE_UNAVAILABLE", "platform API is unavailable"
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	WriteJSON(w, status, Response{
		Error: &ErrorResponse{Code: code, Message: message, RequestID: requestID},
	})
}

func writeAppError(w http.ResponseWriter, appErr *apperrors.AppError, requestID string) {
	WriteJSON(w, appErr.Status, Response{
		Error: &ErrorResponse{Code: appErr.Code, Message: appErr.Message, RequestID: requestID},
	})
}

// WriteValidationError writes field-level errors for a ValidationError and a
// plain INVALID_INPUT otherwise (malformed JSON and the like).
func WriteValidationError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := logger.CorrelationIDFromContext(r.Context())

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, Response{
			Error: &ErrorResponse{
				Code:      "VALIDATION_ERROR",
				Message:   "request validation failed",
				Fields:    valErr.Fields(),
				RequestID: requestID,
			},
		})
		return
	}

	WriteJSON(w, http.StatusBadRequest, Response{
		Error: &ErrorResponse{Code: "INVALID_INPUT", Message: err.Error(), RequestID: requestID},
	})
}
