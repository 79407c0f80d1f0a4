package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Environment:         "development",
		HTTPPort:            8080,
		PlatformURL:         "https://api.example.com",
		SessionTTL:          time.Hour,
		RateLimitRPS:        5,
		RateLimitBurst:      10,
		BreakerFailureRatio: 0.5,
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "http://localhost:3000", cfg.PlatformURL)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, time.Minute, cfg.ListCacheTTL)
	assert.Equal(t, "/sign-in", cfg.SignedOutPath)
	assert.Equal(t, "/home", cfg.EntryPath)
	assert.False(t, cfg.RedisEnabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, 15*time.Second, cfg.PlatformHTTP.Timeout)
	assert.Equal(t, 2, cfg.PlatformHTTP.MaxRetries)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.OAuthPlaceholders)
	assert.Empty(t, cfg.TrustedProxyCIDRs)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ADMIN_HTTP_PORT", "9090")
	t.Setenv("PLATFORM_API_URL", "https://platform.internal")
	t.Setenv("PLATFORM_HTTP_MAX_RETRIES", "4")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("SESSION_TTL", "8h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "https://platform.internal", cfg.PlatformURL)
	assert.Equal(t, 4, cfg.PlatformHTTP.MaxRetries)
	assert.True(t, cfg.RedisEnabled)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, 8*time.Hour, cfg.SessionTTL)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("ADMIN_HTTP_PORT", "70000")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"relative platform url", func(c *Config) { c.PlatformURL = "/api" }, "PLATFORM_API_URL"},
		{"zero session ttl", func(c *Config) { c.SessionTTL = 0 }, "SESSION_TTL"},
		{"zero rps", func(c *Config) { c.RateLimitRPS = 0 }, "rate limit"},
		{"bad failure ratio", func(c *Config) { c.BreakerFailureRatio = 1.5 }, "FAILURE_RATIO"},
		{"production insecure cookie", func(c *Config) { c.Environment = "production" }, "SESSION_COOKIE_SECURE"},
		{"production wildcard cors", func(c *Config) {
			c.Environment = "production"
			c.SessionSecure = true
			c.CORSAllowedOrigins = []string{"*"}
		}, "CORS_ALLOWED_ORIGINS"},
		{"production placeholder oauth", func(c *Config) {
			c.Environment = "production"
			c.SessionSecure = true
			c.OAuthPlaceholders = true
		}, "AUTH_OAUTH_PLACEHOLDERS"},
		{"development placeholder oauth", func(c *Config) { c.OAuthPlaceholders = true }, ""},
		{"production secure", func(c *Config) {
			c.Environment = "production"
			c.SessionSecure = true
			c.CORSAllowedOrigins = []string{"https://admin.example.com"}
		}, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestBreaker(t *testing.T) {
	cfg := validConfig()
	cfg.BreakerTimeout = 10 * time.Second
	cfg.BreakerFailureRatio = 0.25

	cb := cfg.Breaker()
	assert.Equal(t, "platform", cb.Name)
	assert.Equal(t, 10*time.Second, cb.Timeout)
	assert.Equal(t, 0.25, cb.FailureRatio)
}
