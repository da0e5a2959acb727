// Package engine implements the date-range resolution and data
// filtering/aggregation core of the monitoring dashboards. Every function is
// a pure read against the immutable dataset snapshot: no locking, no hidden
// state, identical inputs give identical outputs.
package engine

import (
	"fmt"
	"time"

	"ttmon/internal/dataset"
	"ttmon/internal/deploy"
	"ttmon/internal/types"
)

// minDaysForOwnMonthWindow is the minimum number of observed days the final
// (partial) month of data must contain before it is charted on its own.
// Below this, the window widens to include the previous full month so the
// chart is not visually trivial.
const minDaysForOwnMonthWindow = 14

// ResolveWindow maps a (granularity, unit) selection to the inclusive-start,
// exclusive-end date window bounding what a trend chart displays. All
// arithmetic is calendar-based; the window is always anchored to the
// dataset's own date bounds, never to the wall clock.
func ResolveWindow(snap *dataset.Snapshot, source deploy.DataSource, gran types.Granularity, unit types.Unit) (types.DateRange, error) {
	minDate, maxDate := snap.Bounds(source)
	// hardEnd is the upper clamp: one day past the last observed date.
	hardEnd := maxDate.AddDays(1)

	var window types.DateRange
	switch gran {
	case types.GranLastDay:
		window = types.DateRange{
			Start: maxDate.AddDays(-14),
			End:   hardEnd,
		}

	case types.GranSelectDate, types.GranSelectWeek:
		anchor := unit.Date
		extension := 2 // weeks past the anchor Monday
		if gran == types.GranSelectWeek {
			week, ok := snap.WeekByNumber(unit.Ordinal)
			if !ok {
				return types.DateRange{}, types.NewAppError(
					types.ErrCodeLookupWeek,
					fmt.Sprintf("week %d is not in the week table", unit.Ordinal),
					nil,
				)
			}
			anchor = week.Start
			// Week selections reach one week further forward than a picked
			// date; short-baseline deployments narrow that back once the
			// cut-over date is reached.
			extension = 3
			if !snap.Profile.WeekCutover.IsZero() && !anchor.Before(snap.Profile.WeekCutover) {
				extension = 2
			}
		} else if anchor.IsZero() {
			return types.DateRange{}, types.NewAppError(
				types.ErrCodeValidationBadDate, "select_date requires a date", nil)
		}
		monday := anchor.StartOfWeek()
		window = types.DateRange{
			Start: monday.AddDays(-7).Max(minDate),
			End:   monday.AddDays(7 * extension).Min(hardEnd),
		}

	case types.GranSelectMonth:
		month, ok := snap.MonthByNumber(unit.Ordinal)
		if !ok {
			return types.DateRange{}, types.NewAppError(
				types.ErrCodeLookupMonth,
				fmt.Sprintf("month %d is not in the month table", unit.Ordinal),
				nil,
			)
		}
		start := month.Start.Max(minDate)
		if month.Start.Equal(maxDate.StartOfMonth()) &&
			observedDaysIn(snap, source, month.Start) < minDaysForOwnMonthWindow {
			// Final partial month with too little data: widen back to the
			// previous full month so the chart still shows a trend.
			start = month.Start.AddMonths(-1).Max(minDate)
		}
		window = types.DateRange{
			Start: start,
			End:   month.Start.AddMonths(1).Min(hardEnd),
		}
		if snap.Profile.SnapToBusinessDays {
			window = snapToBusinessDays(snap, window)
		}

	default:
		// Unreachable with validated input; a bare code path hitting this is
		// a programming error, not a user condition.
		return types.DateRange{}, types.NewAppError(
			types.ErrCodeInternalGranularity,
			fmt.Sprintf("invalid granularity %q", gran),
			nil,
		)
	}

	return window, nil
}

// observedDaysIn counts the distinct measurement dates falling inside the
// calendar month starting at monthStart.
func observedDaysIn(snap *dataset.Snapshot, source deploy.DataSource, monthStart types.Date) int {
	nextMonth := monthStart.AddMonths(1)
	rows := snap.Daily
	if source == deploy.SourceWeekly {
		rows = snap.Weekly
	}
	seen := map[types.Date]bool{}
	for _, m := range rows {
		if !m.Date.Before(monthStart) && m.Date.Before(nextMonth) {
			seen[m.Date] = true
		}
	}
	return len(seen)
}

// snapToBusinessDays walks each window boundary independently until it lands
// on a weekday that is not a holiday. The start walks backward and the end
// walks forward, each checking its own date.
func snapToBusinessDays(snap *dataset.Snapshot, w types.DateRange) types.DateRange {
	for !isBusinessDay(snap, w.Start) {
		w.Start = w.Start.AddDays(-1)
	}
	for !isBusinessDay(snap, w.End) {
		w.End = w.End.AddDays(1)
	}
	return w
}

func isBusinessDay(snap *dataset.Snapshot, d types.Date) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !snap.IsHoliday(d)
}
