// Package api serves the simulator over HTTP.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/ramonehamilton/handsim/internal/deckimport"
	"github.com/ramonehamilton/handsim/internal/metrics"
	"github.com/ramonehamilton/handsim/internal/session"
	"github.com/ramonehamilton/handsim/internal/simulator"
)

// Server represents the REST API server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	config     Config
	services   *Services
}

// Config holds configuration for the API server.
type Config struct {
	Port int

	// MaxTrials caps the trial count of one simulation request.
	MaxTrials int

	// RateInterval is the minimum average spacing between simulation requests;
	// RateBurst requests may arrive back to back.
	RateInterval time.Duration
	RateBurst    int

	// RequestTimeout bounds every request, including the simulation it runs.
	RequestTimeout time.Duration
}

// DefaultConfig returns the default API server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:           8080,
		MaxTrials:      1_000_000,
		RateInterval:   500 * time.Millisecond,
		RateBurst:      4,
		RequestTimeout: 60 * time.Second,
	}
}

// Services holds what the handlers run against.
type Services struct {
	Simulator *simulator.Simulator
	Metrics   *metrics.SimulationMetrics
	Resolver  deckimport.Resolver // optional
	Defaults  *session.Session    // optional default rules
}

// NewServer creates a new API server.
func NewServer(cfg *Config, services *Services) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if services.Simulator == nil {
		services.Simulator = simulator.New(simulator.Config{}, nil)
	}
	if services.Metrics == nil {
		services.Metrics = metrics.NewSimulationMetrics()
	}
	services.Simulator.WithObserver(services.Metrics)

	s := &Server{
		router:   chi.NewRouter(),
		config:   *cfg,
		services: services,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	if s.config.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.config.RequestTimeout))
	}

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*", "https://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.router.Use(jsonContentTypeMiddleware)
}

// jsonContentTypeMiddleware enforces application/json on POST bodies.
func jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.ContentLength != 0 {
			contentType := r.Header.Get("Content-Type")
			if contentType != "application/json" && !strings.HasPrefix(contentType, "application/json;") {
				http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimit converts the configured spacing into a limiter rate.
func (c Config) rateLimit() rate.Limit {
	if c.RateInterval <= 0 {
		return rate.Inf
	}
	return rate.Every(c.RateInterval)
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the API server in a goroutine.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.config.RequestTimeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("API server starting on port %d", s.config.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("API server error: %v", err)
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	log.Println("Shutting down API server...")
	return s.httpServer.Shutdown(ctx)
}

// Port returns the port the server is configured to listen on.
func (s *Server) Port() int {
	return s.config.Port
}
