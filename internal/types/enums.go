package types

import (
	"fmt"
	"time"
)

// Granularity is the unit of date selection. It is a named enumeration used
// uniformly inside the engine; the positional integer codes exposed to the
// front end differ per deployment and are translated at the API boundary by
// the deployment profile.
type Granularity string

const (
	GranLastDay     Granularity = "last_day"
	GranSelectDate  Granularity = "select_date"
	GranSelectWeek  Granularity = "select_week"
	GranSelectMonth Granularity = "select_month"
)

// Valid reports whether g is one of the four defined granularities.
func (g Granularity) Valid() bool {
	switch g {
	case GranLastDay, GranSelectDate, GranSelectWeek, GranSelectMonth:
		return true
	}
	return false
}

// String returns the granularity identifier.
func (g Granularity) String() string { return string(g) }

// ParseGranularity converts an identifier into a Granularity.
func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(s)
	if !g.Valid() {
		return "", fmt.Errorf("unknown granularity %q", s)
	}
	return g, nil
}

// DayType partitions measurements into weekday and weekend observations.
type DayType string

const (
	DayTypeWeekday DayType = "Weekday"
	DayTypeWeekend DayType = "Weekend"
)

// Valid reports whether d is a known day type.
func (d DayType) Valid() bool {
	return d == DayTypeWeekday || d == DayTypeWeekend
}

// DayTypeFor returns the day type of a calendar date (Saturday and Sunday
// are weekend days).
func DayTypeFor(d Date) DayType {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return DayTypeWeekend
	}
	return DayTypeWeekday
}

// Category tags a measurement row as pre-pilot baseline, pilot-period data,
// or excluded from aggregation (e.g. construction closures, bad readings).
// The pilot label itself is deployment-specific ("DVP Lane Restrictions",
// "King Street Pilot", ...) and lives in the deployment profile; the engine
// only distinguishes the three classes below.
type Category string

const (
	CategoryBaseline Category = "Baseline"
	CategoryExcluded Category = "Excluded"
)

// CellClass is the visual classification of a current travel time relative
// to its baseline, driven by the deployment threshold.
type CellClass string

const (
	CellWorse  CellClass = "worse"
	CellBetter CellClass = "better"
	CellSame   CellClass = "same"
)
