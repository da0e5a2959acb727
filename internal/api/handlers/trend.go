package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ttmon/internal/core"
	"ttmon/internal/dataset"
	"ttmon/internal/engine"
)

// TrendHandler serves the windowed per-segment trend series.
type TrendHandler struct {
	snapshot *dataset.Snapshot
	logger   *slog.Logger
}

func NewTrendHandler(snap *dataset.Snapshot, logger *slog.Logger) *TrendHandler {
	return &TrendHandler{snapshot: snap, logger: logger}
}

func (h *TrendHandler) Routes(r chi.Router) {
	r.Get("/trend", h.Get)
}

// trendNoData is the placeholder payload for segments without a baseline
// reference. The front end renders it as a "no data available" chart state;
// it is never an HTTP error.
type trendNoData struct {
	Street    string `json:"street"`
	Direction string `json:"direction"`
	NoData    bool   `json:"no_data"`
	Reason    string `json:"reason"`
}

// Get renders the trend bundle for one street and direction.
func (h *TrendHandler) Get(w http.ResponseWriter, r *http.Request) {
	street, err := requiredParam(r, "street")
	if err != nil {
		core.Error(w, r, err)
		return
	}
	direction, err := requiredParam(r, "direction")
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

	trend, err := engine.BuildTrend(h.snapshot, engine.TrendQuery{
		Street:      street,
		Direction:   direction,
		DayType:     dayType,
		Period:      period,
		Granularity: sel.Granularity,
		Unit:        sel.Unit,
	})
	if errors.Is(err, engine.ErrNoBaselineForSegment) {
		h.logger.Debug("segment has no baseline reference",
			slog.String("street", street), slog.String("direction", direction))
		core.JSON(w, r, http.StatusOK, trendNoData{
			Street:    street,
			Direction: direction,
			NoData:    true,
			Reason:    "no baseline reference for this segment",
		})
		return
	}
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, trend)
}
