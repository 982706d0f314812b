package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/claims-intake/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/claims-intake/internal/interfaces/http/handlers"
	"github.com/turtacn/claims-intake/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies required
// to construct the HTTP route tree.
type RouterConfig struct {
	// Handlers
	ClaimHandler  *handlers.ClaimHandler
	HealthHandler *handlers.HealthHandler

	// Infrastructure
	Logger         logging.Logger
	Logging        middleware.LoggingConfig
	Recorder       middleware.RequestRecorder
	MetricsHandler http.Handler
	MetricsPath    string
	RateLimit      middleware.RateLimitConfig
}

// NewRouter wires global middleware, probes, the metrics endpoint and the
// intake routes into a single http.Handler.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// --- Global middleware ---
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogging(cfg.Logger, cfg.Logging, cfg.Recorder))
	r.Use(chimw.Recoverer)

	// --- Probes ---
	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}

	if cfg.MetricsHandler != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, cfg.MetricsHandler)
	}

	// --- Intake ---
	if cfg.ClaimHandler != nil {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.RateLimit))
			r.Post("/process-claim/", cfg.ClaimHandler.ProcessClaim)
			r.Post("/process-claim", cfg.ClaimHandler.ProcessClaim)
		})
		r.Get("/review-queue", cfg.ClaimHandler.ReviewQueue)
	}

	return r
}

//Personal.AI order the ending
