package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ttmon/internal/core"
	"ttmon/internal/dataset"
	"ttmon/internal/engine"
)

// ComparisonHandler serves the before/after comparison table.
type ComparisonHandler struct {
	snapshot *dataset.Snapshot
	logger   *slog.Logger
}

func NewComparisonHandler(snap *dataset.Snapshot, logger *slog.Logger) *ComparisonHandler {
	return &ComparisonHandler{snapshot: snap, logger: logger}
}

// Routes mounts the handler under the given router.
func (h *ComparisonHandler) Routes(r chi.Router) {
	r.Get("/comparison", h.Get)
}

// Get renders the pivoted comparison table for one orientation tab.
func (h *ComparisonHandler) Get(w http.ResponseWriter, r *http.Request) {
	orientation, err := requiredParam(r, "orientation")
	if err != nil {
		core.Error(w, r, err)
		return
	}
	period, err := requiredParam(r, "period")
	if err != nil {
		core.Error(w, r, err)
		return
	}
	dayType, err := parseDayType(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	sel, err := parseGranularity(h.snapshot, r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	comp, err := engine.BuildComparison(h.snapshot, engine.ComparisonQuery{
		Orientation: orientation,
		Period:      period,
		DayType:     dayType,
		Granularity: sel.Granularity,
		Unit:        sel.Unit,
		MainStreet:  r.URL.Query().Get("main_street"),
	})
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, comp)
}
