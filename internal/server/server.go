package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/meridianfx/tradeguard/internal/modules/charts"
	"github.com/meridianfx/tradeguard/internal/modules/metrics"
	"github.com/meridianfx/tradeguard/internal/modules/risk"
	"github.com/meridianfx/tradeguard/internal/modules/sessions"
	"github.com/meridianfx/tradeguard/internal/modules/trading"
)

// Config holds server configuration
type Config struct {
	Port    int
	Log     zerolog.Logger
	DevMode bool

	RiskHandlers     *risk.Handlers
	SessionsHandlers *sessions.Handlers
	MetricsHandlers  *metrics.Handlers
	TradingHandlers  *trading.Handlers
	ChartsHandlers   *charts.Handlers
	SystemHandlers   *SystemHandlers
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	port   int
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log.With().Str("component", "server").Logger(),
		port:   cfg.Port,
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes(cfg)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(cfg Config) {
	// Health check
	s.router.Get("/health", s.handleHealth)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", cfg.SystemHandlers.HandleStatus)
		})

		r.Route("/risk", func(r chi.Router) {
			r.Post("/validate", cfg.RiskHandlers.HandleValidate)
			r.Get("/status", cfg.RiskHandlers.HandleStatus)
			r.Post("/positions/opened", cfg.RiskHandlers.HandlePositionOpened)
			r.Post("/positions/closed", cfg.RiskHandlers.HandlePositionClosed)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/status", cfg.SessionsHandlers.HandleStatus)
		})

		r.Route("/metrics", func(r chi.Router) {
			r.Get("/summary", cfg.MetricsHandlers.HandleSummary)
			r.Get("/monthly", cfg.MetricsHandlers.HandleMonthly)
		})

		r.Route("/trades", func(r chi.Router) {
			r.Post("/", cfg.TradingHandlers.HandleRecordTrade)
			r.Get("/", cfg.TradingHandlers.HandleGetTrades)
		})

		r.Route("/charts", func(r chi.Router) {
			r.Get("/equity", cfg.ChartsHandlers.HandleEquityCurve)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
