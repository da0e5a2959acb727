package core

import (
	"context"
	"net/http"
	"time"
)

// HealthProbe is a named readiness check. Probes that hold connections may
// additionally implement Close; Shutdown releases those.
type HealthProbe interface {
	Name() string
	Check(ctx context.Context) error
}

// healthStatus is the per-probe result reported by the health endpoint.
type healthStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthHandler runs every registered probe and reports 200 when all pass,
// 503 otherwise.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	healthy := true
	results := make([]healthStatus, 0, len(s.HealthProbes))
	for _, probe := range s.HealthProbes {
		st := healthStatus{Name: probe.Name(), Status: "ok"}
		if err := probe.Check(ctx); err != nil {
			st.Status = "failed"
			st.Error = err.Error()
			healthy = false
		}
		results = append(results, st)
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	JSON(w, r, status, map[string]any{
		"status":  map[bool]string{true: "ok", false: "degraded"}[healthy],
		"version": s.Config.Build.Version,
		"checks":  results,
	})
}
