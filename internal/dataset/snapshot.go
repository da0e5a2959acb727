// Package dataset holds the process-wide immutable data snapshot. It is
// built once at startup from the loader's tabular output and never mutated:
// every engine query is a pure read, so concurrent requests need no locking.
// Refreshing the data (after the external sync job runs) means restarting
// the process.
package dataset

import (
	"fmt"
	"sort"

	"ttmon/internal/deploy"
	"ttmon/internal/types"
)

// Input carries the raw tabular datasets produced by the loader, matching
// the snapshot queries.
type Input struct {
	Daily    []types.Measurement
	Weekly   []types.Measurement
	Baseline []types.BaselineRow
	Weeks    []types.Week
	Months   []types.Month
	Holidays []types.Date
}

// Snapshot is the validated, indexed, immutable view of the monitoring data
// for one deployment. Engine functions receive it by reference; nothing
// mutates it after Build returns.
type Snapshot struct {
	Profile *deploy.Profile

	Daily  []types.Measurement
	Weekly []types.Measurement

	Baseline      []types.BaselineRow
	baselineIndex map[types.BaselineKey]types.BaselineRow

	Weeks  []types.Week
	Months []types.Month

	weekByNumber  map[int]types.Week
	monthByNumber map[int]types.Month
	holidays      map[types.Date]bool

	// DailyMin/DailyMax bound the daily measurement dates (inclusive);
	// WeeklyMin/WeeklyMax bound the weekly spans.
	DailyMin, DailyMax   types.Date
	WeeklyMin, WeeklyMax types.Date

	// TimePeriods lists the distinct (day_type, period) buckets with their
	// display ranges, in canonical order.
	TimePeriods []types.TimePeriod

	// yMax is the fixed chart y-axis upper bound per orientation:
	// min(profile cap, max observed travel time for that orientation).
	yMax map[string]float64
}

// Build validates the input datasets against the profile and produces the
// snapshot. Any violation is a configuration error: the caller must treat a
// non-nil error as fatal and abort startup.
func Build(profile *deploy.Profile, in Input) (*Snapshot, error) {
	if profile == nil {
		return nil, snapErr("nil deployment profile")
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if len(in.Daily) == 0 && len(in.Weekly) == 0 {
		return nil, snapErr("no measurement rows loaded")
	}

	s := &Snapshot{
		Profile:       profile,
		Daily:         in.Daily,
		Weekly:        in.Weekly,
		Baseline:      in.Baseline,
		baselineIndex: make(map[types.BaselineKey]types.BaselineRow, len(in.Baseline)),
		weekByNumber:  make(map[int]types.Week, len(in.Weeks)),
		monthByNumber: make(map[int]types.Month, len(in.Months)),
		holidays:      make(map[types.Date]bool, len(in.Holidays)),
		yMax:          make(map[string]float64, len(profile.Orientations)),
	}

	if err := s.indexCalendars(in.Weeks, in.Months); err != nil {
		return nil, err
	}
	for _, d := range in.Holidays {
		s.holidays[d] = true
	}

	if err := s.indexBaseline(); err != nil {
		return nil, err
	}
	if err := s.validateMeasurements(); err != nil {
		return nil, err
	}
	if err := s.validateMostRecent(); err != nil {
		return nil, err
	}
	if err := s.validateRegistryCoverage(); err != nil {
		return nil, err
	}

	s.computeBounds()
	s.computeTimePeriods()
	s.computeYAxisMax()
	return s, nil
}

// BaselineFor returns the unique baseline row for a segment key, if present.
// Absence is a data condition, not an error; callers render it as "no data".
func (s *Snapshot) BaselineFor(key types.BaselineKey) (types.BaselineRow, bool) {
	row, ok := s.baselineIndex[key]
	return row, ok
}

// WeekByNumber resolves a week ordinal to its calendar anchor.
func (s *Snapshot) WeekByNumber(n int) (types.Week, bool) {
	w, ok := s.weekByNumber[n]
	return w, ok
}

// MonthByNumber resolves a month ordinal to its calendar anchor.
func (s *Snapshot) MonthByNumber(n int) (types.Month, bool) {
	m, ok := s.monthByNumber[n]
	return m, ok
}

// IsHoliday reports whether d is in the deployment's holiday set.
func (s *Snapshot) IsHoliday(d types.Date) bool {
	return s.holidays[d]
}

// YAxisMax returns the fixed chart y-axis upper bound for an orientation.
func (s *Snapshot) YAxisMax(orientation string) float64 {
	return s.yMax[orientation]
}

// Measurements returns the measurement set backing an orientation.
func (s *Snapshot) Measurements(o deploy.Orientation) []types.Measurement {
	if o.Source == deploy.SourceWeekly {
		return s.Weekly
	}
	return s.Daily
}

// Bounds returns the inclusive min/max measurement dates for a data source.
func (s *Snapshot) Bounds(source deploy.DataSource) (types.Date, types.Date) {
	if source == deploy.SourceWeekly {
		return s.WeeklyMin, s.WeeklyMax
	}
	return s.DailyMin, s.DailyMax
}

func (s *Snapshot) indexCalendars(weeks []types.Week, months []types.Month) error {
	s.Weeks = append([]types.Week(nil), weeks...)
	sort.Slice(s.Weeks, func(i, j int) bool { return s.Weeks[i].Number < s.Weeks[j].Number })
	for i, w := range s.Weeks {
		if _, dup := s.weekByNumber[w.Number]; dup {
			return snapErr("duplicate week ordinal %d", w.Number)
		}
		if i > 0 && !s.Weeks[i-1].Start.Before(w.Start) {
			return snapErr("week ordinals not monotonic with anchors: week %d starts %s, week %d starts %s",
				s.Weeks[i-1].Number, s.Weeks[i-1].Start, w.Number, w.Start)
		}
		s.weekByNumber[w.Number] = w
	}

	s.Months = append([]types.Month(nil), months...)
	sort.Slice(s.Months, func(i, j int) bool { return s.Months[i].Number < s.Months[j].Number })
	for i, m := range s.Months {
		if _, dup := s.monthByNumber[m.Number]; dup {
			return snapErr("duplicate month ordinal %d", m.Number)
		}
		if i > 0 && !s.Months[i-1].Start.Before(m.Start) {
			return snapErr("month ordinals not monotonic with anchors: month %d starts %s, month %d starts %s",
				s.Months[i-1].Number, s.Months[i-1].Start, m.Number, m.Start)
		}
		s.monthByNumber[m.Number] = m
	}
	return nil
}

func (s *Snapshot) indexBaseline() error {
	for _, row := range s.Baseline {
		key := row.Key()
		if _, dup := s.baselineIndex[key]; dup {
			return snapErr("duplicate baseline row for %s %s %s %s",
				key.Street, key.Direction, key.DayType, key.Period)
		}
		s.baselineIndex[key] = row
	}
	return nil
}

func (s *Snapshot) validateMeasurements() error {
	check := func(rows []types.Measurement, weekly bool) error {
		for _, m := range rows {
			if m.Street == "" || m.Direction == "" || m.Period == "" {
				return snapErr("measurement row missing street/direction/period: %+v", m)
			}
			if !m.DayType.Valid() {
				return snapErr("measurement row has unknown day type %q", m.DayType)
			}
			switch m.Category {
			case types.CategoryBaseline, types.CategoryExcluded, s.Profile.PilotCategory:
			default:
				return snapErr("measurement row has unknown category %q", m.Category)
			}
			if m.TravelTimeMin < 0 {
				return snapErr("negative travel time %v for %s %s", m.TravelTimeMin, m.Street, m.Date)
			}
			if m.Date.IsZero() {
				return snapErr("measurement row without date for %s", m.Street)
			}
			if weekly && m.SpanEnd.IsZero() {
				return snapErr("weekly measurement without span end for %s", m.Street)
			}
			if weekly && !m.Date.Before(m.SpanEnd) {
				return snapErr("weekly measurement with inverted span %s..%s for %s", m.Date, m.SpanEnd, m.Street)
			}
		}
		return nil
	}
	if err := check(s.Daily, false); err != nil {
		return err
	}
	return check(s.Weekly, true)
}

// validateMostRecent enforces the "most recent" invariant on the daily set:
// within each (direction, day_type, period) partition the flagged rows are
// exactly those carrying the partition's maximum date, and no street flags
// more than one row. The upstream query computes the flag; the snapshot
// refuses to serve data where it is stale or inconsistent.
func (s *Snapshot) validateMostRecent() error {
	type partKey struct {
		direction string
		dayType   types.DayType
		period    string
	}
	type streetKey struct {
		partKey
		street string
	}

	maxDate := make(map[partKey]types.Date)
	for _, m := range s.Daily {
		k := partKey{m.Direction, m.DayType, m.Period}
		if cur, ok := maxDate[k]; !ok || m.Date.After(cur) {
			maxDate[k] = m.Date
		}
	}

	flaggedPerStreet := make(map[streetKey]int)
	flaggedPerPart := make(map[partKey]int)
	for _, m := range s.Daily {
		k := partKey{m.Direction, m.DayType, m.Period}
		if m.MostRecent {
			if !m.Date.Equal(maxDate[k]) {
				return snapErr("most-recent flag on %s %s %s %s points at %s, but partition max is %s",
					m.Street, m.Direction, m.DayType, m.Period, m.Date, maxDate[k])
			}
			sk := streetKey{k, m.Street}
			flaggedPerStreet[sk]++
			if flaggedPerStreet[sk] > 1 {
				return snapErr("street %s flags more than one most-recent row for %s %s %s",
					m.Street, m.Direction, m.DayType, m.Period)
			}
			flaggedPerPart[k]++
		}
	}
	for k := range maxDate {
		if flaggedPerPart[k] == 0 {
			return snapErr("no most-recent row flagged for partition %s %s %s",
				k.direction, k.dayType, k.period)
		}
	}
	return nil
}

// validateRegistryCoverage checks every measurement and baseline row against
// the orientation that carries its street: the street must appear in a
// matching orientation's canonical order and the direction in that same
// orientation's pair. A row no orientation claims has no tab to render on.
func (s *Snapshot) validateRegistryCoverage() error {
	check := func(kind, street, direction string, orientations []deploy.Orientation) error {
		claimed := false
		for _, o := range orientations {
			if !o.HasStreet(street) {
				continue
			}
			claimed = true
			if o.HasDirection(direction) {
				return nil
			}
		}
		if !claimed {
			return snapErr("%s street %q not in any orientation's street order", kind, street)
		}
		return snapErr("%s direction %q not offered by the orientation carrying street %q",
			kind, direction, street)
	}

	bySource := map[deploy.DataSource][]deploy.Orientation{}
	for _, o := range s.Profile.Orientations {
		bySource[o.Source] = append(bySource[o.Source], o)
	}
	for _, m := range s.Daily {
		if err := check("daily measurement", m.Street, m.Direction, bySource[deploy.SourceDaily]); err != nil {
			return err
		}
	}
	for _, m := range s.Weekly {
		if err := check("weekly measurement", m.Street, m.Direction, bySource[deploy.SourceWeekly]); err != nil {
			return err
		}
	}
	for _, b := range s.Baseline {
		if err := check("baseline", b.Street, b.Direction, s.Profile.Orientations); err != nil {
			return err
		}
	}
	return nil
}

func (s *Snapshot) computeBounds() {
	for _, m := range s.Daily {
		if s.DailyMin.IsZero() || m.Date.Before(s.DailyMin) {
			s.DailyMin = m.Date
		}
		if s.DailyMax.IsZero() || m.Date.After(s.DailyMax) {
			s.DailyMax = m.Date
		}
	}
	for _, m := range s.Weekly {
		if s.WeeklyMin.IsZero() || m.Date.Before(s.WeeklyMin) {
			s.WeeklyMin = m.Date
		}
		// Span end is exclusive; the last covered day is end-1.
		last := m.SpanEnd.AddDays(-1)
		if s.WeeklyMax.IsZero() || last.After(s.WeeklyMax) {
			s.WeeklyMax = last
		}
	}
}

func (s *Snapshot) computeTimePeriods() {
	seen := map[[2]string]bool{}
	for _, b := range s.Baseline {
		k := [2]string{string(b.DayType), b.Period}
		if seen[k] || b.PeriodRange == "" {
			continue
		}
		seen[k] = true
		s.TimePeriods = append(s.TimePeriods, types.TimePeriod{
			DayType: b.DayType,
			Period:  b.Period,
			Range:   b.PeriodRange,
		})
	}
	// Weekday before Weekend, then by clock range within the day type.
	sort.Slice(s.TimePeriods, func(i, j int) bool {
		a, b := s.TimePeriods[i], s.TimePeriods[j]
		if a.DayType != b.DayType {
			return a.DayType == types.DayTypeWeekday
		}
		return a.Range < b.Range
	})
}

func (s *Snapshot) computeYAxisMax() {
	for _, o := range s.Profile.Orientations {
		maxObserved := 0.0
		for _, m := range s.Measurements(o) {
			if o.HasDirection(m.Direction) && m.TravelTimeMin > maxObserved {
				maxObserved = m.TravelTimeMin
			}
		}
		limit := s.Profile.YAxisCapMin
		if maxObserved > 0 && maxObserved < limit {
			s.yMax[o.Name] = maxObserved
		} else {
			s.yMax[o.Name] = limit
		}
	}
}

func snapErr(format string, args ...any) error {
	return types.NewAppError(types.ErrCodeConfigSnapshot, fmt.Sprintf(format, args...), nil)
}
