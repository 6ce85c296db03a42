package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"wellmind-backend/internal/api/handlers"
	apimiddleware "wellmind-backend/internal/api/middleware"
	"wellmind-backend/internal/config"
	"wellmind-backend/internal/infrastructure/cache"
	"wellmind-backend/pkg/logger"
)

// Router holds dependencies for the API router
type Router struct {
	config   config.Config
	handlers *handlers.Handlers
	cache    *cache.RedisCache
	logger   *logger.Logger
}

// NewRouter creates a new Router instance
func NewRouter(cfg config.Config, h *handlers.Handlers, c *cache.RedisCache, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		handlers: h,
		cache:    c,
		logger:   log.WithComponent("router"),
	}
}

// Setup sets up the Chi router with all routes and middleware
func (r *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Core middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(apimiddleware.Logger(r.logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.config.CORS.AllowedOrigins,
		AllowedMethods:   r.config.CORS.AllowedMethods,
		AllowedHeaders:   r.config.CORS.AllowedHeaders,
		AllowCredentials: r.config.CORS.AllowCredentials,
		MaxAge:           r.config.CORS.MaxAge,
	}))

	// Rate limiting
	if r.config.RateLimit.Enabled && r.cache != nil {
		router.Use(apimiddleware.RateLimiter(r.cache, r.config.RateLimit))
	}

	// Public routes
	router.Group(func(pub chi.Router) {
		pub.Get("/health", r.handlers.Health.Check)
		pub.Get("/ready", r.handlers.Health.Ready)
	})

	// API v1 routes (authenticated)
	router.Route("/api/v1", func(api chi.Router) {
		api.Use(apimiddleware.BearerAuth(r.config.Auth.Secret))

		// Chat session endpoints
		api.Route("/sessions", func(sessions chi.Router) {
			sessions.Post("/", r.handlers.Sessions.Create)
			sessions.Get("/", r.handlers.Sessions.List)
			sessions.Get("/{id}/messages", r.handlers.Sessions.Messages)
			sessions.Post("/{id}/send", r.handlers.Sessions.Send)
			sessions.Post("/{id}/close", r.handlers.Sessions.Close)
		})

		// Profile and consent
		api.Route("/profile", func(profile chi.Router) {
			profile.Get("/", r.handlers.Profile.Get)
			profile.Put("/", r.handlers.Profile.Update)
		})

		// Emergency contacts
		api.Route("/contacts", func(contacts chi.Router) {
			contacts.Get("/", r.handlers.Contacts.List)
			contacts.Post("/", r.handlers.Contacts.Create)
			contacts.Put("/{id}", r.handlers.Contacts.Update)
			contacts.Delete("/{id}", r.handlers.Contacts.Delete)
		})

		// Alert audit trail
		api.Get("/alerts", r.handlers.Alerts.List)

		// Dashboard metrics
		api.Get("/dashboard/metrics", r.handlers.Dashboard.Metrics)

		// Real-time streaming
		api.Get("/stream", r.handlers.Streaming.HandleWebSocket)
		api.Get("/stream/stats", r.handlers.Streaming.GetStats)
	})

	return router
}
