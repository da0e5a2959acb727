// Package core provides the API chassis for the monitoring dashboard
// service: a chi router with cross-cutting concerns (recovery, request IDs,
// structured logging, metrics, compression) applied before requests reach
// the domain handlers.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ttmon/internal/config"
	"ttmon/internal/dataset"
)

// Server bundles the dependencies of the HTTP layer. All engine access goes
// through the immutable snapshot; there is no other shared state.
type Server struct {
	Config    *config.Config
	Snapshot  *dataset.Snapshot
	Logger    *slog.Logger
	Validator *Validator
	Metrics   *Metrics

	// HealthProbes are checked by the health endpoint (e.g. database ping).
	HealthProbes []HealthProbe

	// V1RouteRegistrars mount the domain handler routes under /v1. The
	// indirection keeps core free of handler imports.
	V1RouteRegistrars []func(chi.Router)

	router *chi.Mux
}

// NewServer initializes the chassis. It fail-fasts on nil dependencies;
// route mounting happens separately via MountRoutes so tests can customize
// registration.
func NewServer(cfg *config.Config, snap *dataset.Snapshot, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if snap == nil {
		return nil, fmt.Errorf("snapshot must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	return &Server{
		Config:    cfg,
		Snapshot:  snap,
		Logger:    logger,
		Validator: NewValidator(logger),
		Metrics:   NewMetrics(),
		router:    chi.NewRouter(),
	}, nil
}

// Handler returns the http.Handler for the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Router returns the underlying chi.Mux for route registration in tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Shutdown releases server resources. The snapshot itself needs no
// teardown; only probe-held connections are closed.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("server shutdown initiated")
	for _, p := range s.HealthProbes {
		if closer, ok := p.(interface{ Close() }); ok {
			closer.Close()
		}
	}
	s.Logger.Info("server shutdown complete")
	return nil
}
