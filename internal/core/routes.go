package core

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/klauspost/compress/gzhttp"
)

// MountRoutes wires the middleware chain and all routes onto the router.
// Call after registering V1RouteRegistrars and HealthProbes.
func (s *Server) MountRoutes() {
	s.router.Use(s.Recoverer)
	s.router.Use(RequestIDMiddleware)
	s.router.Use(RequestLogger(s.Logger))
	s.router.Use(s.Metrics.Middleware)
	s.router.Use(func(next http.Handler) http.Handler {
		return gzhttp.GzipHandler(next)
	})

	mount := func(r chi.Router) {
		r.Get("/healthz", s.HealthHandler)
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())

		r.Route("/v1", func(v1 chi.Router) {
			for _, register := range s.V1RouteRegistrars {
				register(v1)
			}
		})
	}

	if prefix := s.Config.Server.PathPrefix; prefix != "" {
		s.router.Route(prefix, mount)
	} else {
		mount(s.router)
	}
}
