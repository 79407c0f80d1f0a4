package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BAZAR-APP/admin-panel/internal/config"
	"github.com/BAZAR-APP/admin-panel/internal/domain"
	"github.com/BAZAR-APP/admin-panel/internal/session"
	"github.com/BAZAR-APP/admin-panel/pkg/health"
	"github.com/BAZAR-APP/admin-panel/pkg/middleware"
)

// ServiceName labels HTTP metrics and server spans.
const ServiceName = "admin-panel"

// NewRouter creates a chi router with the auth and catalog routes
// registered.
func NewRouter(
	cfg *config.Config,
	authHandler *AuthHandler,
	catalogHandler *CatalogHandler,
	sessions *session.Manager,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSAllowedOrigins
	if cfg.CORSMaxAge > 0 {
		cors.MaxAge = cfg.CORSMaxAge
	}

	// Global middleware
	r.Use(middleware.CORS(cors))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(ServiceName))
	r.Use(middleware.Tracing(ServiceName))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())

	r.With(middleware.IPAllowlist(cfg.MetricsAllowedCIDRs, logger)).
		Handle("/metrics", promhttp.Handler())
	middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Use(Sessions(sessions, logger))

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.TrustedProxyCIDRs, logger))
				r.Post("/sign-in", authHandler.SignIn)
				r.Post("/sign-up", authHandler.SignUp)
				r.Post("/forgot-password", authHandler.ForgotPassword)
				r.Post("/oauth/{provider}", authHandler.OAuth)
			})
			r.Post("/sign-out", authHandler.SignOut)
			r.Get("/session", authHandler.Session)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth)

			for path, kind := range map[string]domain.ItemKind{
				"/amenities":  domain.ItemAmenity,
				"/badges":     domain.ItemBadge,
				"/view-types": domain.ItemViewType,
			} {
				r.Get(path, catalogHandler.ListItems(kind))
				r.Post(path, catalogHandler.CreateItem(kind))
			}

			r.Route("/chalets", func(r chi.Router) {
				r.Get("/", catalogHandler.ListChalets)
				r.Post("/", catalogHandler.CreateChalet)
				r.Get("/{id}", catalogHandler.GetChalet)
				r.Get("/{id}/rooms", catalogHandler.ListRooms)
				r.Post("/{id}/rooms", catalogHandler.CreateRoom)
				r.Get("/{id}/subscriptions", catalogHandler.ListSubscriptions)
				r.Post("/{id}/subscriptions", catalogHandler.CreateSubscription)
			})

			r.Get("/customizations", catalogHandler.ListCustomizations)
			r.Post("/customizations", catalogHandler.CreateCustomization)
			r.Get("/customization-categories", catalogHandler.ListCategories)
			r.Post("/customization-categories", catalogHandler.CreateCategory)
			r.Get("/tiers", catalogHandler.ListTiers)
			r.Post("/tiers", catalogHandler.CreateTier)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", catalogHandler.ListUsers)
				r.Get("/{id}", catalogHandler.GetUser)
				r.Patch("/{id}", catalogHandler.UpdateUser)
				r.Delete("/{id}", catalogHandler.DeleteUser)
			})
		})
	})

	return r
}
