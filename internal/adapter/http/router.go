package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/abrazar/internal/adapter/http/handler"
	"github.com/iho/abrazar/internal/adapter/http/middleware"
	"github.com/iho/abrazar/internal/domain"
	"github.com/iho/abrazar/internal/infrastructure/metrics"
	"github.com/iho/abrazar/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler         *handler.AuthHandler
	HomelessHandler     *handler.HomelessHandler
	CaseHandler         *handler.CaseHandler
	ServicePointHandler *handler.ServicePointHandler
	StatisticsHandler   *handler.StatisticsHandler
	HealthHandler       *handler.HealthHandler

	Verifier         middleware.AccessVerifier
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter

	Logger         zerolog.Logger
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Metrics(cfg.Metrics))
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", cfg.AuthHandler.Login)
		r.Post("/auth/refresh", cfg.AuthHandler.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.Verifier))

			// Keys are scoped per user, so this runs after authentication.
			if cfg.IdempotencyStore != nil {
				r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
			}

			r.Post("/auth/logout", cfg.AuthHandler.Logout)
			r.Get("/auth/me", cfg.AuthHandler.Me)

			r.Route("/homeless", func(r chi.Router) {
				r.With(can(domain.CapViewHomeless)).Get("/", cfg.HomelessHandler.List)
				r.With(can(domain.CapViewHomeless)).Get("/stats", cfg.HomelessHandler.Stats)
				r.With(can(domain.CapCreateHomeless)).Post("/", cfg.HomelessHandler.Create)
				r.With(can(domain.CapViewHomeless)).Get("/{id}", cfg.HomelessHandler.Get)
				r.With(can(domain.CapEditHomeless)).Patch("/{id}", cfg.HomelessHandler.Update)
				r.With(can(domain.CapDeleteHomeless)).Delete("/{id}", cfg.HomelessHandler.Delete)
			})

			r.Route("/cases", func(r chi.Router) {
				r.With(can(domain.CapViewCases)).Get("/", cfg.CaseHandler.List)
				r.With(can(domain.CapCreateCases)).Post("/", cfg.CaseHandler.Create)
				r.With(can(domain.CapViewCases)).Get("/{id}", cfg.CaseHandler.Get)
				r.With(can(domain.CapViewCases)).Get("/{id}/history", cfg.CaseHandler.History)
				r.With(can(domain.CapEditCases)).Patch("/{id}", cfg.CaseHandler.Update)
				r.With(can(domain.CapAssignCases)).Post("/{id}/assign", cfg.CaseHandler.Assign)
				r.With(can(domain.CapDeleteCases)).Delete("/{id}", cfg.CaseHandler.Delete)
			})

			r.Route("/service-points", func(r chi.Router) {
				r.With(can(domain.CapViewServicePoints)).Get("/", cfg.ServicePointHandler.List)
				r.With(can(domain.CapViewServicePoints)).Get("/nearby", cfg.ServicePointHandler.Nearby)
				r.With(can(domain.CapCreateServicePoint)).Post("/", cfg.ServicePointHandler.Create)
				r.With(can(domain.CapViewServicePoints)).Get("/{id}", cfg.ServicePointHandler.Get)
				r.With(can(domain.CapEditServicePoint)).Patch("/{id}", cfg.ServicePointHandler.Update)
				r.With(can(domain.CapDeleteServicePoint)).Delete("/{id}", cfg.ServicePointHandler.Delete)
			})

			r.Route("/statistics", func(r chi.Router) {
				r.Use(can(domain.CapViewStats))
				r.Get("/overview", cfg.StatisticsHandler.Overview)
				r.Get("/cases-by-status", cfg.StatisticsHandler.CasesByStatus)
				r.Get("/zones", cfg.StatisticsHandler.Zones)
			})
		})
	})

	return r
}

func can(c domain.Capability) func(http.Handler) http.Handler {
	return middleware.RequireCapability(c)
}
