package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ttmon/internal/core"
	"ttmon/internal/dataset"
	"ttmon/internal/types"
)

// SelectionHandler validates and normalizes the click-selection state the
// front end round-trips between table clicks and chart renders. The state is
// never stored server-side; the endpoint exists so stale or hand-crafted
// selections are rejected in one place instead of surfacing as empty charts.
type SelectionHandler struct {
	snapshot  *dataset.Snapshot
	validator *core.Validator
	logger    *slog.Logger
}

func NewSelectionHandler(snap *dataset.Snapshot, v *core.Validator, logger *slog.Logger) *SelectionHandler {
	return &SelectionHandler{snapshot: snap, validator: v, logger: logger}
}

func (h *SelectionHandler) Routes(r chi.Router) {
	r.Post("/selection", h.Validate)
}

// selectionResult is the normalized selection echoed back to the caller,
// with the street's canonical position for highlight ordering.
type selectionResult struct {
	types.SelectionState
	StreetRank int `json:"street_rank"`
}

// Validate checks a selection against the deployment registry.
func (h *SelectionHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var state types.SelectionState
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		core.Error(w, r, types.NewAppError(types.ErrCodeValidationMissingField,
			"request body is not a valid selection", err))
		return
	}
	if err := h.validator.Struct(&state); err != nil {
		core.Error(w, r, err)
		return
	}

	o, ok := h.snapshot.Profile.Orientation(state.Orientation)
	if !ok {
		core.Error(w, r, types.NewAppError(types.ErrCodeLookupOrientation,
			fmt.Sprintf("unknown orientation %q", state.Orientation), nil))
		return
	}
	rank := o.StreetRank(state.Street)
	if rank < 0 {
		core.Error(w, r, types.NewAppError(types.ErrCodeLookupStreet,
			fmt.Sprintf("street %q is not on the %s tab", state.Street, o.Name), nil))
		return
	}

	core.JSON(w, r, http.StatusOK, selectionResult{SelectionState: state, StreetRank: rank})
}
