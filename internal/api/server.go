// Package api provides the HTTP API server and handlers for the settings screen.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/krishiapp/krishi-settings/internal/http/response"
	"github.com/krishiapp/krishi-settings/internal/ratelimit"
	"github.com/krishiapp/krishi-settings/internal/settings"
	"github.com/krishiapp/krishi-settings/internal/store"
)

// Options configures the optional parts of the server.
type Options struct {
	// CORSOrigins lists allowed origins. Empty allows none.
	CORSOrigins []string
	// Limiter throttles write requests per client. Nil disables throttling.
	Limiter *ratelimit.KeyedRateLimiter
	// Theme reports the committed theme. Nil falls back to the engine's view.
	Theme *settings.ThemeTracker
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	engine  *settings.Engine
	pinger  store.Pinger
	theme   *settings.ThemeTracker
	limiter *ratelimit.KeyedRateLimiter
	router  *chi.Mux
	api     huma.API
	logger  *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// pinger may be nil when the store cannot report health.
func NewServer(engine *settings.Engine, pinger store.Pinger, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		engine:  engine,
		pinger:  pinger,
		theme:   opts.Theme,
		limiter: opts.Limiter,
		router:  chi.NewRouter(),
		logger:  logger,
	}

	s.setupMiddleware(opts.CORSOrigins)
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(origins []string) {
	s.router.Use(middleware.RequestID)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Retry-After"},
		MaxAge:         300,
	}))
	if s.limiter != nil {
		s.router.Use(RateLimitMiddleware(s.limiter, s.logger))
	}
	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "route not found", s.logger)
	})
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	config := huma.DefaultConfig("Krishi Settings API", "1.0.0")
	config.Info.Description = "Preferences, save indicators and the public profile for the settings screen."
	s.api = humachi.New(s.router, config)

	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerSettingsRoutes()
	s.registerProfileRoutes()
}
