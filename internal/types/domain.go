package types

import (
	"time"
)

// Measurement is one aggregated travel-time observation for a street segment,
// direction, day and time-of-day period. Daily segments carry a single Date;
// weekly segments (alternate routes) carry a [Date, SpanEnd) range with Date
// set to the span start.
type Measurement struct {
	Street     string   `json:"street" db:"street"`
	MainStreet string   `json:"main_street,omitempty" db:"main_street"`
	Direction  string   `json:"direction" db:"direction"`
	Date       Date     `json:"date" db:"dt"`
	SpanEnd    Date     `json:"span_end,omitempty" db:"span_end"`
	DayType    DayType  `json:"day_type" db:"day_type"`
	Period     string   `json:"period" db:"period"`
	Category   Category `json:"category" db:"category"`

	// TravelTimeMin is the travel time in minutes, rounded to one decimal
	// at ingestion.
	TravelTimeMin float64 `json:"tt" db:"tt"`

	// MostRecent is true only for the single latest date within the
	// (direction, day_type, period) partition. Computed in SQL; the
	// uniqueness invariant is re-checked when the snapshot is built.
	MostRecent bool `json:"most_recent" db:"most_recent"`

	WeekNumber  int `json:"week_number" db:"week_number"`
	MonthNumber int `json:"month_number" db:"month_number"`
}

// Weekly reports whether the measurement covers a week span rather than a
// single day.
func (m Measurement) Weekly() bool {
	return !m.SpanEnd.IsZero()
}

// BaselineRow is the pre-pilot reference travel time for a segment, period
// and day type. At most one row exists per (street, direction, day_type,
// period) key.
type BaselineRow struct {
	Street           string  `json:"street" db:"street"`
	MainStreet       string  `json:"main_street,omitempty" db:"main_street"`
	Direction        string  `json:"direction" db:"direction"`
	FromIntersection string  `json:"from_intersection" db:"from_intersection"`
	ToIntersection   string  `json:"to_intersection" db:"to_intersection"`
	DayType          DayType `json:"day_type" db:"day_type"`
	Period           string  `json:"period" db:"period"`
	PeriodRange      string  `json:"period_range" db:"period_range"`
	TravelTimeMin    float64 `json:"tt" db:"tt"`
}

// BaselineKey is the unique lookup key for baseline rows.
type BaselineKey struct {
	Street    string
	Direction string
	DayType   DayType
	Period    string
}

// Key returns the lookup key for the row.
func (b BaselineRow) Key() BaselineKey {
	return BaselineKey{
		Street:    b.Street,
		Direction: b.Direction,
		DayType:   b.DayType,
		Period:    b.Period,
	}
}

// Week maps a week ordinal to its calendar anchor. Only weeks that have
// fully elapsed (start at least 7 days old) are loaded.
type Week struct {
	Number int    `json:"week_number" db:"week_number"`
	Start  Date   `json:"week_start" db:"week"`
	Label  string `json:"label" db:"-"`
}

// Month maps a month ordinal to the first day of that month.
type Month struct {
	Number int    `json:"month_number" db:"month_number"`
	Start  Date   `json:"month_start" db:"month"`
	Label  string `json:"label" db:"-"`
}

// TimePeriod is a named time-of-day bucket with its display range,
// derived from the distinct (day_type, period) pairs in the baseline.
type TimePeriod struct {
	DayType DayType `json:"day_type"`
	Period  string  `json:"period"`
	Range   string  `json:"period_range"`
}

// SelectionState identifies what the user is currently inspecting on one
// tab. It replaces the serialized click-state blob the front end used to
// round-trip: the value is passed explicitly through the API and never
// stored server-side.
type SelectionState struct {
	Orientation string `json:"orientation" validate:"required"`
	Street      string `json:"street" validate:"required"`

	// Counter disambiguates repeated clicks on the same street so stale
	// updates can be discarded client-side.
	Counter int64 `json:"counter"`
}

// Unit is the concrete value attached to a granularity selection: a calendar
// date for SelectDate, a week or month ordinal for SelectWeek/SelectMonth,
// and unused for LastDay.
type Unit struct {
	Date    Date `json:"date,omitempty"`
	Ordinal int  `json:"ordinal,omitempty"`
}

// UnitDate builds a Unit carrying a calendar date.
func UnitDate(d Date) Unit { return Unit{Date: d} }

// UnitOrdinal builds a Unit carrying a week or month ordinal.
func UnitOrdinal(n int) Unit { return Unit{Ordinal: n} }

// Date is a pure calendar date. All engine arithmetic is calendar-based:
// no timezone or DST handling, comparisons are whole-day.
type Date struct {
	t time.Time
}

// NewDate constructs a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its calendar date (in the value's location).
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Time returns the date as a time.Time at midnight UTC.
func (d Date) Time() time.Time { return d.t }

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool { return d.t.After(other.t) }

// Equal reports whether two dates are the same calendar day.
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// AddDays returns the date n days later (or earlier for negative n).
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// AddMonths returns the date n calendar months later.
func (d Date) AddMonths(n int) Date { return Date{t: d.t.AddDate(0, n, 0)} }

// Day returns the day of the month.
func (d Date) Day() int { return d.t.Day() }

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

// StartOfWeek returns the Monday of the week containing d.
func (d Date) StartOfWeek() Date {
	// time.Weekday is Sunday-based; shift so Monday = 0.
	offset := (int(d.t.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// StartOfMonth returns the first day of the month containing d.
func (d Date) StartOfMonth() Date {
	y, m, _ := d.t.Date()
	return NewDate(y, m, 1)
}

// Min returns the earlier of two dates.
func (d Date) Min(other Date) Date {
	if other.Before(d) {
		return other
	}
	return d
}

// Max returns the later of two dates.
func (d Date) Max(other Date) Date {
	if other.After(d) {
		return other
	}
	return d
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string { return d.t.Format("2006-01-02") }

// Format formats the date with the given time layout.
func (d Date) Format(layout string) string { return d.t.Format(layout) }

// MarshalJSON encodes the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a YYYY-MM-DD string (or null) into the date.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateRange is an inclusive-start, exclusive-end calendar window.
type DateRange struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// Contains reports whether d falls inside the [Start, End) window.
func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.Start) && d.Before(r.End)
}
