package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func corsRequest(cfg CORSConfig, method, origin string, preflight bool) *httptest.ResponseRecorder {
	h := CORS(cfg)(http.HandlerFunc(okHandler))
	req := httptest.NewRequest(method, "/api/v1/chalets", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if preflight {
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCORS_CredentialsEchoOrigin(t *testing.T) {
	rec := corsRequest(DefaultCORSConfig(), http.MethodGet, "http://localhost:5173", false)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))
}

func TestCORS_WildcardWithoutCredentials(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowCredentials = false

	rec := corsRequest(cfg, http.MethodGet, "https://any.example", false)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_Allowlist(t *testing.T) {
	cfg := CORSConfig{AllowedOrigins: []string{"https://admin.bazar.app/"}, AllowCredentials: true}

	allowed := corsRequest(cfg, http.MethodGet, "https://admin.bazar.app", false)
	assert.Equal(t, "https://admin.bazar.app", allowed.Header().Get("Access-Control-Allow-Origin"))

	rejected := corsRequest(cfg, http.MethodGet, "https://evil.example", false)
	assert.Empty(t, rejected.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rejected.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, http.StatusOK, rejected.Code)

	noOrigin := corsRequest(cfg, http.MethodGet, "", false)
	assert.Empty(t, noOrigin.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	rec := corsRequest(DefaultCORSConfig(), http.MethodOptions, "http://localhost:5173", true)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "GET, POST, PUT, PATCH, DELETE, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Accept, Content-Type, X-Correlation-ID", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "X-Correlation-ID", rec.Header().Get("Access-Control-Expose-Headers"))
	assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_PlainOptionsReachesHandler(t *testing.T) {
	rec := corsRequest(DefaultCORSConfig(), http.MethodOptions, "http://localhost:5173", false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS_Defaults(t *testing.T) {
	rec := corsRequest(CORSConfig{AllowedOrigins: []string{"*"}}, http.MethodGet, "x", false)
	assert.Equal(t, "GET, POST, PUT, PATCH, DELETE, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))
}
