package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ttmon/internal/core"
	"ttmon/internal/dataset"
	"ttmon/internal/deploy"
	"ttmon/internal/engine"
	"ttmon/internal/types"
)

// OptionsHandler serves the static selector payloads the front end needs to
// populate its dropdowns. Everything here derives from the snapshot and the
// deployment profile; the response is identical for the process lifetime.
type OptionsHandler struct {
	snapshot *dataset.Snapshot
	logger   *slog.Logger
}

func NewOptionsHandler(snap *dataset.Snapshot, logger *slog.Logger) *OptionsHandler {
	return &OptionsHandler{snapshot: snap, logger: logger}
}

func (h *OptionsHandler) Routes(r chi.Router) {
	r.Get("/options", h.Get)
	r.Get("/periods", h.Periods)
}

type granularityOption struct {
	Code        int               `json:"code"`
	Granularity types.Granularity `json:"granularity"`
}

type orientationOption struct {
	Name        string            `json:"name"`
	Streets     []string          `json:"streets"`
	Directions  [2]string         `json:"directions"`
	MainStreets []string          `json:"main_streets,omitempty"`
	Source      deploy.DataSource `json:"source"`
	YMax        float64           `json:"y_max"`
}

type dateBounds struct {
	Min types.Date `json:"min"`
	Max types.Date `json:"max"`
}

type optionsPayload struct {
	Deployment    string              `json:"deployment"`
	Title         string              `json:"title"`
	Granularities []granularityOption `json:"granularities"`
	Orientations  []orientationOption `json:"orientations"`
	Weeks         []types.Week        `json:"weeks"`
	Months        []types.Month       `json:"months"`
	TimePeriods   []types.TimePeriod  `json:"time_periods"`
	DailyBounds   dateBounds          `json:"daily_bounds"`
	WeeklyBounds  *dateBounds         `json:"weekly_bounds,omitempty"`
}

// Get returns the full selector payload for this deployment.
func (h *OptionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot
	profile := snap.Profile

	grans := make([]granularityOption, len(profile.GranularityCodes))
	for i, g := range profile.GranularityCodes {
		grans[i] = granularityOption{Code: i, Granularity: g}
	}

	orientations := make([]orientationOption, len(profile.Orientations))
	hasWeekly := false
	for i, o := range profile.Orientations {
		if o.Source == deploy.SourceWeekly {
			hasWeekly = true
		}
		orientations[i] = orientationOption{
			Name:        o.Name,
			Streets:     o.Streets,
			Directions:  o.Directions,
			MainStreets: o.MainStreets,
			Source:      o.Source,
			YMax:        snap.YAxisMax(o.Name),
		}
	}

	dailyMin, dailyMax := snap.Bounds(deploy.SourceDaily)
	payload := optionsPayload{
		Deployment:    profile.Name,
		Title:         profile.Title,
		Granularities: grans,
		Orientations:  orientations,
		Weeks:         snap.Weeks,
		Months:        snap.Months,
		TimePeriods:   snap.TimePeriods,
		DailyBounds:   dateBounds{Min: dailyMin, Max: dailyMax},
	}
	if hasWeekly {
		weeklyMin, weeklyMax := snap.Bounds(deploy.SourceWeekly)
		payload.WeeklyBounds = &dateBounds{Min: weeklyMin, Max: weeklyMax}
	}
	core.JSON(w, r, http.StatusOK, payload)
}

// Periods returns the time-of-day periods with data on a specific date,
// restricted to the date's day type.
func (h *OptionsHandler) Periods(w http.ResponseWriter, r *http.Request) {
	d, err := parseDateParam(r, "date")
	if err != nil {
		core.Error(w, r, err)
		return
	}

	periods := engine.PeriodsForDate(h.snapshot, d)
	if periods == nil {
		periods = []string{}
	}
	core.JSON(w, r, http.StatusOK, map[string]any{
		"date":     d,
		"day_type": types.DayTypeFor(d),
		"periods":  periods,
	})
}
