// Package handlers implements the HTTP handlers of the dashboard API. The
// handlers are thin: they parse and validate query parameters, translate the
// external positional granularity code to the internal enum via the
// deployment profile, delegate to the engine, and serialize the result.
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"ttmon/internal/dataset"
	"ttmon/internal/types"
)

// granularitySelection is the parsed (granularity, unit) pair from a request.
type granularitySelection struct {
	Granularity types.Granularity
	Unit        types.Unit
}

// parseGranularity extracts the positional granularity code and its unit
// value. The code is positional per deployment; the profile owns the
// translation table. Dates are checked against the daily measurement bounds
// so a syntactically valid but unobservable date reads as a lookup miss, not
// a server fault.
func parseGranularity(snap *dataset.Snapshot, r *http.Request) (granularitySelection, error) {
	raw := r.URL.Query().Get("granularity")
	if raw == "" {
		return granularitySelection{}, types.NewAppError(types.ErrCodeValidationMissingField,
			"granularity is required", nil)
	}
	code, err := strconv.Atoi(raw)
	if err != nil {
		return granularitySelection{}, types.NewAppError(types.ErrCodeValidationBadCode,
			fmt.Sprintf("granularity code %q is not an integer", raw), err)
	}
	gran, ok := snap.Profile.GranularityForCode(code)
	if !ok {
		return granularitySelection{}, types.NewAppError(types.ErrCodeValidationBadCode,
			fmt.Sprintf("granularity code %d is not offered by this deployment", code), nil)
	}

	sel := granularitySelection{Granularity: gran}
	switch gran {
	case types.GranLastDay:
		// No unit.
	case types.GranSelectDate:
		d, err := parseDateParam(r, "date")
		if err != nil {
			return granularitySelection{}, err
		}
		if d.Before(snap.DailyMin) || d.After(snap.DailyMax) {
			return granularitySelection{}, types.NewAppError(types.ErrCodeLookupDateRange,
				fmt.Sprintf("date %s is outside the observed range %s to %s", d, snap.DailyMin, snap.DailyMax), nil)
		}
		sel.Unit = types.UnitDate(d)
	case types.GranSelectWeek, types.GranSelectMonth:
		n, err := parseOrdinalParam(r, "ordinal")
		if err != nil {
			return granularitySelection{}, err
		}
		sel.Unit = types.UnitOrdinal(n)
	}
	return sel, nil
}

func parseDateParam(r *http.Request, name string) (types.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return types.Date{}, types.NewAppError(types.ErrCodeValidationMissingField,
			fmt.Sprintf("%s is required for this granularity", name), nil)
	}
	d, err := types.ParseDate(raw)
	if err != nil {
		return types.Date{}, types.NewAppError(types.ErrCodeValidationBadDate,
			fmt.Sprintf("%s %q is not a valid YYYY-MM-DD date", name, raw), err)
	}
	return d, nil
}

func parseOrdinalParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, types.NewAppError(types.ErrCodeValidationMissingField,
			fmt.Sprintf("%s is required for this granularity", name), nil)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, types.NewAppError(types.ErrCodeValidationBadOrdinal,
			fmt.Sprintf("%s %q must be a positive integer", name, raw), err)
	}
	return n, nil
}

func parseDayType(r *http.Request) (types.DayType, error) {
	raw := r.URL.Query().Get("day_type")
	if raw == "" {
		return "", types.NewAppError(types.ErrCodeValidationMissingField, "day_type is required", nil)
	}
	dt := types.DayType(raw)
	if !dt.Valid() {
		return "", types.NewAppError(types.ErrCodeValidationBadDayType,
			fmt.Sprintf("day_type %q is not one of %q or %q", raw, types.DayTypeWeekday, types.DayTypeWeekend), nil)
	}
	return dt, nil
}

func requiredParam(r *http.Request, name string) (string, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return "", types.NewAppError(types.ErrCodeValidationMissingField,
			fmt.Sprintf("%s is required", name), nil)
	}
	return v, nil
}
