package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/handsim/internal/api/handlers"
	"github.com/ramonehamilton/handsim/internal/api/response"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint (no versioning)
	s.router.Get("/health", s.healthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		simulationHandler := handlers.NewSimulationHandler(handlers.SimulationOptions{
			Simulator: s.services.Simulator,
			Metrics:   s.services.Metrics,
			Resolver:  s.services.Resolver,
			Defaults:  s.services.Defaults,
			MaxTrials: s.config.MaxTrials,
			RateLimit: s.config.rateLimit(),
			RateBurst: s.config.RateBurst,
		})
		r.Post("/simulations", simulationHandler.RunSimulation)

		handHandler := handlers.NewHandHandler(s.services.Defaults)
		r.Post("/hands/score", handHandler.ScoreHand)

		rulesHandler := handlers.NewRulesHandler()
		r.Post("/rules/parse", rulesHandler.ParseRules)
		r.Get("/roles", rulesHandler.GetRoles)

		metricsHandler := handlers.NewMetricsHandler(s.services.Metrics)
		r.Get("/metrics", metricsHandler.GetMetrics)
	})
}

// healthCheck returns server health status.
func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "handsim-api",
	})
}
