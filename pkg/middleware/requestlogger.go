package middleware

import (
	"log/slog"
	"net/http"

	"github.com/BAZAR-APP/admin-panel/pkg/logger"
)

// RequestLogger stores a logger enriched with the context fields known so
// far (correlation_id, trace_id, span_id) for logger.FromContext. Mount it
// after RequestLogging and Tracing. Later middleware that learns the
// session or user re-enriches it the same way.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
