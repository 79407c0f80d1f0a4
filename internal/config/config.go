package config

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/BAZAR-APP/admin-panel/pkg/config"
	"github.com/BAZAR-APP/admin-panel/pkg/database"
	"github.com/BAZAR-APP/admin-panel/pkg/httpclient"
	"github.com/BAZAR-APP/admin-panel/pkg/tracing"
)

// Config holds all configuration for the admin panel backend.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort    int    `env:"ADMIN_HTTP_PORT" envDefault:"8080"`

	// Platform API
	PlatformURL         string            `env:"PLATFORM_API_URL" envDefault:"http://localhost:3000"`
	PlatformHTTP        httpclient.Config `envPrefix:"PLATFORM_HTTP_"`
	BreakerTimeout      time.Duration     `env:"PLATFORM_BREAKER_TIMEOUT" envDefault:"30s"`
	BreakerFailureRatio float64           `env:"PLATFORM_BREAKER_FAILURE_RATIO" envDefault:"0.5"`

	// Sessions and routing
	SessionCookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"admin_session"`
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SessionSecure     bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
	SignedOutPath     string        `env:"SIGNED_OUT_PATH" envDefault:"/sign-in"`
	EntryPath         string        `env:"AUTHENTICATED_ENTRY_PATH" envDefault:"/home"`

	// OAuthPlaceholders serves the placeholder identity providers, which
	// sign anyone in. Development only.
	OAuthPlaceholders bool `env:"AUTH_OAUTH_PLACEHOLDERS" envDefault:"false"`

	// List cache
	ListCacheTTL time.Duration `env:"LIST_CACHE_TTL" envDefault:"60s"`

	// Redis backs sessions and the list cache when enabled.
	RedisEnabled bool                 `env:"REDIS_ENABLED" envDefault:"false"`
	Redis        database.RedisConfig `envPrefix:"REDIS_"`

	// Kafka audit events are written only when brokers are set.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	// OpenTelemetry
	Tracing tracing.Config `envPrefix:"OTEL_"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3001" envSeparator:","`
	CORSMaxAge         int      `env:"CORS_MAX_AGE" envDefault:"3600"`

	// Rate limiting of the credential endpoints
	RateLimitRPS   int `env:"AUTH_RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int `env:"AUTH_RATE_LIMIT_BURST" envDefault:"10"`

	// Proxies whose X-Forwarded-For and X-Real-IP headers are believed.
	TrustedProxyCIDRs []string `env:"TRUSTED_PROXY_CIDRS" envSeparator:","`

	// Metrics and pprof endpoints (IP allowlist in CIDR notation)
	MetricsAllowedCIDRs []string `env:"METRICS_ALLOWED_CIDRS" envDefault:"10.0.0.0/8,172.16.0.0/12,192.168.0.0/16,127.0.0.0/8,::1/128" envSeparator:","`
	PprofAllowedCIDRs   []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"10.0.0.0/8,172.16.0.0/12,192.168.0.0/16,127.0.0.0/8,::1/128" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load admin config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Breaker returns the circuit breaker settings for the platform client.
func (c *Config) Breaker() httpclient.CircuitBreakerConfig {
	cb := httpclient.DefaultCircuitBreakerConfig("platform")
	cb.Timeout = c.BreakerTimeout
	cb.FailureRatio = c.BreakerFailureRatio
	return cb
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}

	u, err := url.Parse(c.PlatformURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("PLATFORM_API_URL must be an absolute URL, got %q", c.PlatformURL)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("auth rate limit must be positive, got rps=%d burst=%d", c.RateLimitRPS, c.RateLimitBurst)
	}
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1 {
		return fmt.Errorf("PLATFORM_BREAKER_FAILURE_RATIO must be in (0, 1], got %v", c.BreakerFailureRatio)
	}

	if c.Environment != "development" {
		if !c.SessionSecure {
			return fmt.Errorf("SESSION_COOKIE_SECURE must be true in %s environment", c.Environment)
		}
		if c.OAuthPlaceholders {
			return fmt.Errorf("AUTH_OAUTH_PLACEHOLDERS must be false in %s environment", c.Environment)
		}
		for _, o := range c.CORSAllowedOrigins {
			if o == "*" {
				return fmt.Errorf("CORS_ALLOWED_ORIGINS must not be * in %s environment", c.Environment)
			}
		}
	}
	return nil
}
