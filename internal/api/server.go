package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Project-Sylos/DriveLister/internal/logging"
	"github.com/Project-Sylos/DriveLister/internal/types"
	"github.com/Project-Sylos/DriveLister/sdk"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Server represents the HTTP API server
type Server struct {
	router *chi.Mux
	dl     *sdk.DriveLister
	http   *http.Server
}

// NewServer creates a new API server
func NewServer(dl *sdk.DriveLister, config *types.APIConfig) *Server {
	router := NewRouter(dl).SetupRoutes()

	return &Server{
		router: router,
		dl:     dl,
		http: &http.Server{
			Addr:         Addr(config),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: requestTimeout + 5*time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Addr returns the listen address for config
func Addr(config *types.APIConfig) string {
	return fmt.Sprintf("%s:%d", config.Host, config.Port)
}

// Start starts the HTTP server and blocks until it stops. A graceful Stop is
// not reported as an error.
func (s *Server) Start() error {
	addr := s.http.Addr
	logging.Info("Starting DriveLister API server",
		zap.String("addr", addr),
		zap.String("page", fmt.Sprintf("http://%s/", addr)),
		zap.String("api", fmt.Sprintf("http://%s/api/v1/", addr)),
		zap.String("health", fmt.Sprintf("http://%s/health", addr)),
	)

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// GetRouter returns the configured router
func (s *Server) GetRouter() *chi.Mux {
	return s.router
}

// Stop gracefully stops the server and closes the run store
func (s *Server) Stop(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	if cerr := s.dl.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
