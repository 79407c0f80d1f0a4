package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BAZAR-APP/admin-panel/internal/auth"
	"github.com/BAZAR-APP/admin-panel/internal/cache"
	"github.com/BAZAR-APP/admin-panel/internal/catalog"
	"github.com/BAZAR-APP/admin-panel/internal/config"
	"github.com/BAZAR-APP/admin-panel/internal/event"
	handler "github.com/BAZAR-APP/admin-panel/internal/handler/http"
	"github.com/BAZAR-APP/admin-panel/internal/session"
	"github.com/BAZAR-APP/admin-panel/internal/upstream"
	"github.com/BAZAR-APP/admin-panel/pkg/database"
	"github.com/BAZAR-APP/admin-panel/pkg/health"
	"github.com/BAZAR-APP/admin-panel/pkg/httpclient"
	pkgkafka "github.com/BAZAR-APP/admin-panel/pkg/kafka"
	"github.com/BAZAR-APP/admin-panel/pkg/tracing"
)

const (
	redisKeyPrefix = "admin:"
	sweepInterval  = time.Minute
)

// App wires together all dependencies and runs the admin panel backend.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	httpServer     *http.Server
	redisClient    *redis.Client
	kafkaProducer  *pkgkafka.Producer
	memoryCache    *cache.Memory
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance: tracing, the platform client,
// session and list storage, audit events and the HTTP router.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tracerShutdown, err := tracing.InitTracer(ctx, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	a := &App{cfg: cfg, logger: logger, tracerShutdown: tracerShutdown}
	healthHandler := health.NewHandler()

	// Platform API behind retries and a circuit breaker.
	breaker := httpclient.NewCircuitBreakerClient(httpclient.New(cfg.PlatformHTTP), cfg.Breaker(), logger)
	platform, err := upstream.New(cfg.PlatformURL, breaker, logger)
	if err != nil {
		return nil, fmt.Errorf("create platform client: %w", err)
	}
	healthHandler.RegisterNonCritical("platform", platform.Reachable)
	healthHandler.RegisterNonCritical("platform_breaker", breaker.Healthy)

	// Sessions and the list cache live in Redis when enabled, in memory
	// otherwise.
	var backend cache.Cache
	if cfg.RedisEnabled {
		client, err := database.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.redisClient = client
		backend = cache.NewRedis(client, redisKeyPrefix)
		healthHandler.RegisterCritical("redis", database.RedisCheck(client))
		logger.Info("using redis for sessions and list cache", slog.String("addr", cfg.Redis.Addr()))
	} else {
		a.memoryCache = cache.NewMemory()
		backend = a.memoryCache
	}

	// Audit events go to Kafka when brokers are configured.
	var publisher event.Publisher = event.LogPublisher{Logger: logger}
	if len(cfg.KafkaBrokers) > 0 {
		a.kafkaProducer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = a.kafkaProducer
		healthHandler.RegisterNonCritical("kafka", a.kafkaProducer.Ping)
	}
	audit := event.NewProducer(publisher, logger)

	sessions := session.NewManager(session.NewCacheStore(backend), session.Config{
		CookieName: cfg.SessionCookieName,
		TTL:        cfg.SessionTTL,
		Secure:     cfg.SessionSecure,
	}, logger)
	lists := catalog.NewLists(backend, cfg.ListCacheTTL, logger)

	var providers map[string]auth.OAuthProvider
	if cfg.OAuthPlaceholders {
		providers = auth.PlaceholderProviders()
		logger.Warn("placeholder OAuth providers enabled")
	}
	authHandler := handler.NewAuthHandler(platform, sessions, audit, handler.AuthConfig{
		Resolver:      auth.NewRedirectResolver(auth.RedirectQueryKey, cfg.EntryPath),
		SignedOutPath: cfg.SignedOutPath,
		Providers:     providers,
	}, logger)
	catalogHandler := handler.NewCatalogHandler(platform, lists, audit, logger)

	router := handler.NewRouter(cfg, authHandler, catalogHandler, sessions, healthHandler, logger)

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a, nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	if a.memoryCache != nil {
		go a.memoryCache.RunSweeper(ctx, sweepInterval)
	}

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return errors.Join(err, a.Shutdown())
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application in order:
// 1. HTTP server (drain in-flight requests)
// 2. Kafka producer (flush audit events written by those requests)
// 3. Redis
// 4. Tracer (flush pending spans)
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.kafkaProducer != nil {
		if err := a.kafkaProducer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
