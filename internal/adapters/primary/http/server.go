package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/githubixx/nextpvr-go/internal/infrastructure/config"
)

// Server represents the HTTP server
type Server struct {
	config *config.ServerConfig
	logger zerolog.Logger
	server *http.Server
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.ServerConfig, logger zerolog.Logger, mux http.Handler) *Server {
	return &Server{
		config: cfg,
		logger: logger,
		server: &http.Server{
			Addr:           fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:        mux,
			ReadTimeout:    cfg.ReadTimeout,
			WriteTimeout:   cfg.WriteTimeout,
			MaxHeaderBytes: cfg.MaxHeaderBytes,
		},
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info().
		Str("addr", s.server.Addr).
		Bool("tls", s.config.TLS.Enabled).
		Msg("starting HTTP server")

	if s.config.TLS.Enabled {
		return s.server.ListenAndServeTLS(s.config.TLS.CertFile, s.config.TLS.KeyFile)
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(handler *Handler, cfg *config.Config, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(RecoveryMiddleware(logger))
	r.Use(LoggingMiddleware(logger))
	r.Use(SecurityHeadersMiddleware())

	// Probes stay outside auth and rate limiting.
	r.Get("/healthz", handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(AuthMiddleware(&cfg.Auth))
		r.Use(RateLimitMiddleware(cfg.RateLimit))

		r.Get("/recordings", handler.RecordingList)
		r.Post("/recordings/refresh", handler.RecordingRefresh)
		r.Get("/timers", handler.TimerList)
		r.Get("/timers/conflicts", handler.TimerConflicts)
		r.Get("/series-timers", handler.SeriesTimerList)
		r.Get("/series-timers/{id}/timers", handler.SeriesTimerTimers)
		r.Get("/summary", handler.Summary)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "Not Found")
	})

	return r
}
