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

	"github.com/snowfolio/snowfolio/internal/config"
	"github.com/snowfolio/snowfolio/internal/database"
	"github.com/snowfolio/snowfolio/internal/modules/allocation"
	"github.com/snowfolio/snowfolio/internal/modules/backtesting"
	"github.com/snowfolio/snowfolio/internal/modules/budget"
	"github.com/snowfolio/snowfolio/internal/modules/portfolio"
	"github.com/snowfolio/snowfolio/internal/modules/rebalancing"
	"github.com/snowfolio/snowfolio/internal/modules/risk"
	"github.com/snowfolio/snowfolio/internal/modules/yields"
)

// Handlers collects the per-module HTTP handlers mounted under /api
type Handlers struct {
	Risk        *risk.Handler
	Allocation  *allocation.Handler
	Portfolio   *portfolio.Handler
	Rebalancing *rebalancing.Handler
	Backtesting *backtesting.Handler
	Budget      *budget.Handler
	Yields      *yields.Handler
}

// Config holds server configuration
type Config struct {
	Port     int
	Log      zerolog.Logger
	DB       *database.DB
	Config   *config.Config
	Handlers Handlers
	DevMode  bool
}

// Server represents the HTTP server
type Server struct {
	router    *chi.Mux
	server    *http.Server
	log       zerolog.Logger
	db        *database.DB
	cfg       *config.Config
	handlers  Handlers
	startedAt time.Time
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		db:        cfg.DB,
		cfg:       cfg.Config,
		handlers:  cfg.Handlers,
		startedAt: time.Now(),
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

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
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.handleHealth)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		// System
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.handleSystemStatus)
		})

		// Risk assessment
		r.Route("/risk", func(r chi.Router) {
			r.Post("/score", s.handlers.Risk.HandleCalculateScore)
		})

		// Allocation strategies
		r.Route("/allocation", func(r chi.Router) {
			r.Post("/strategy", s.handlers.Allocation.HandleGenerateStrategy)
		})

		// User profiles
		r.Route("/profile", func(r chi.Router) {
			r.Get("/{address}", s.handlers.Portfolio.HandleGetProfile)
			r.Put("/{address}", s.handlers.Portfolio.HandleUpsertProfile)
		})

		// On-chain portfolio state
		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/{address}", s.handlers.Portfolio.HandleGetPortfolio)
			r.Get("/{address}/history", s.handlers.Portfolio.HandleGetHistory)
		})

		// Rebalance engine
		r.Route("/rebalance", func(r chi.Router) {
			r.Post("/evaluate", s.handlers.Rebalancing.HandleEvaluate)
			r.Post("/auto/{address}/enable", s.handlers.Rebalancing.HandleEnableAuto)
			r.Post("/auto/{address}/disable", s.handlers.Rebalancing.HandleDisableAuto)
			r.Get("/history/{address}", s.handlers.Rebalancing.HandleGetHistory)
		})

		// Backtesting
		r.Route("/backtest", func(r chi.Router) {
			r.Post("/run", s.handlers.Backtesting.HandleRun)
			r.Post("/scenarios", s.handlers.Backtesting.HandleRunScenarios)
		})

		// Budget
		r.Route("/budget", func(r chi.Router) {
			r.Post("/surplus", s.handlers.Budget.HandleCalculateSurplus)
		})

		// Protocol yields
		r.Route("/yields", func(r chi.Router) {
			r.Get("/current", s.handlers.Yields.HandleGetCurrent)
			r.Get("/history/{protocol}", s.handlers.Yields.HandleGetHistory)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Router exposes the mux, used by tests
func (s *Server) Router() http.Handler {
	return s.router
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
