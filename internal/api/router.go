package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/eldtechnologies/inboxdesk/internal/api/middleware"
	"github.com/eldtechnologies/inboxdesk/internal/handlers"
	"github.com/eldtechnologies/inboxdesk/internal/session"
	"github.com/eldtechnologies/inboxdesk/internal/store"
)

// Options configures the router. Redis and Source may be nil.
type Options struct {
	Sessions  *session.Service
	Source    store.DatasetSource
	Redis     *redis.Client
	RateLimit middleware.RateLimiterConfig
}

// NewRouter creates and configures the HTTP router.
func NewRouter(logger zerolog.Logger, opts Options) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Security middleware (order matters!)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodySize(16 * 1024)) // 16KB max body
	r.Use(middleware.ValidateRequest)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// Rate limiting
	limiter := middleware.NewRateLimiter(opts.Redis, logger, opts.RateLimit)
	r.Use(limiter.Middleware)

	// CORS - dashboards may be served from another origin
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	h := handlers.NewHandler(opts.Sessions, opts.Source)

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/health", h.Health)
	r.Get("/api", h.Root)

	r.Post("/sessions", h.CreateSession)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Delete("/", h.DeleteSession)

		// Selectors
		r.Put("/profile", h.SetProfile)
		r.Put("/label", h.SelectLabel)

		// Message list
		r.Put("/search", h.Search)
		r.Post("/filter/toggle", h.ToggleFilter)
		r.Post("/sort/toggle", h.ToggleSort)

		// Detail
		r.Put("/selection", h.Select)
		r.Put("/subview", h.SetSubView)
		r.Post("/resolution", h.Resolve)
		r.Put("/compose", h.Compose)
		r.Post("/attachment", h.Attach)
		r.Delete("/attachment", h.Detach)
		r.Post("/send", h.Send)
		r.Post("/call", h.Call)
	})

	return r
}
