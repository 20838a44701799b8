package api

import (
	"time"

	"github.com/Project-Sylos/DriveLister/internal/api/handlers"
	apimiddleware "github.com/Project-Sylos/DriveLister/internal/api/middleware"
	"github.com/Project-Sylos/DriveLister/internal/logging"
	"github.com/Project-Sylos/DriveLister/internal/metrics"
	"github.com/Project-Sylos/DriveLister/sdk"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// requestTimeout bounds a whole request, including the recursive Drive fetch
const requestTimeout = 60 * time.Second

// Router represents the HTTP API router
type Router struct {
	dl *sdk.DriveLister
}

// NewRouter creates a new API router
func NewRouter(dl *sdk.DriveLister) *Router {
	return &Router{dl: dl}
}

// SetupRoutes configures all API routes using modular handlers
func (r *Router) SetupRoutes() *chi.Mux {
	router := chi.NewRouter()

	// Standard middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logging.Middleware(middleware.GetReqID))
	router.Use(middleware.Recoverer)
	router.Use(metrics.Middleware)
	router.Use(middleware.Timeout(requestTimeout))

	// Custom middleware
	router.Use(apimiddleware.CORS)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(r.dl)
	listingHandler := handlers.NewListingHandler(r.dl)
	runsHandler := handlers.NewRunsHandler(r.dl)
	systemHandler := handlers.NewSystemHandler(r.dl)

	// Health check and metrics
	router.Get("/health", healthHandler.HealthCheck)
	router.Handle("/metrics", metrics.Handler())

	// Rendered files page
	router.Get("/", listingHandler.GetPage)

	// API routes
	router.Route("/api/v1", func(api chi.Router) {
		api.Get("/tree", listingHandler.GetTree)

		// Run history
		api.Route("/runs", func(runs chi.Router) {
			runs.Get("/", runsHandler.ListRuns)
			runs.Get("/{id}", runsHandler.GetRun)
			runs.Get("/{id}/visits", runsHandler.GetVisits)
		})

		// System operations
		api.Get("/config", systemHandler.GetConfig)
	})

	return router
}
