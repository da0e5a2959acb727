package engine

import (
	"ttmon/internal/types"
)

// IsSelected reports whether a measurement row is the point the user is
// currently inspecting under the given granularity. It is applied uniformly:
// directly to carve out the highlighted subset, and inverted to obtain the
// in-window background series.
func IsSelected(m types.Measurement, gran types.Granularity, unit types.Unit) bool {
	switch gran {
	case types.GranLastDay:
		return m.MostRecent
	case types.GranSelectDate:
		return m.Date.Equal(unit.Date)
	case types.GranSelectWeek:
		return m.WeekNumber == unit.Ordinal
	case types.GranSelectMonth:
		return m.MonthNumber == unit.Ordinal
	}
	return false
}
