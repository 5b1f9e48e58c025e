package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Nomadcxx/neischeck/internal/config"
	"github.com/Nomadcxx/neischeck/internal/logging"
	"github.com/Nomadcxx/neischeck/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server exposes the checks over HTTP. Requests share no mutable state
// beyond the health flag.
type Server struct {
	checker    *service.Checker
	cfg        config.ServerConfig
	logger     *logging.Logger
	httpServer *http.Server
	startTime  time.Time
	mu         sync.RWMutex
	healthy    bool
}

// NewServer creates a new API server
func NewServer(checker *service.Checker, cfg config.ServerConfig, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Server{
		checker:   checker,
		cfg:       cfg,
		logger:    logger,
		startTime: time.Now(),
		healthy:   true,
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler with CORS, the API routes and the upload
// page.
func (s *Server) Handler() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Mount("/api/v1", s.apiRouter())
	r.Get("/", serveIndex(webFS()))
	return r
}

func (s *Server) apiRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	r.Get("/health", s.handleHealth)
	r.Post("/dates/validate", s.handleValidateDates)
	r.Post("/reading/duplicates", s.handleReadingDuplicates)

	return r
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("server", "API server starting", logging.F("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server error: %w", err)
	}
	return nil
}

// Shutdown marks the server unhealthy and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.SetHealthy(false)
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) SetHealthy(healthy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.healthy = healthy
}

func (s *Server) isHealthy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.healthy
}
