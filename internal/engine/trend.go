package engine

import (
	"errors"
	"fmt"
	"sort"

	"ttmon/internal/dataset"
	"ttmon/internal/deploy"
	"ttmon/internal/types"
)

// ErrNoBaselineForSegment reports that the requested street/direction/day
// type/period has no baseline reference row. It is a data condition, not a
// failure: callers render a "no data" placeholder.
var ErrNoBaselineForSegment = errors.New("no baseline for segment")

// TrendQuery parameterizes one trend chart render.
type TrendQuery struct {
	Street      string
	Direction   string
	DayType     types.DayType
	Period      string
	Granularity types.Granularity
	Unit        types.Unit
}

// TrendPoint is one bar in the trend chart. Daily points carry only Date;
// weekly points carry the span and a preformatted range label used as the
// categorical x value.
type TrendPoint struct {
	Date    types.Date `json:"date"`
	SpanEnd types.Date `json:"span_end,omitempty"`
	Label   string     `json:"label,omitempty"`
	TT      float64    `json:"tt"`
}

// Trend is the windowed series bundle for one street direction: the baseline
// reference scalar, the baseline-category observations, the unselected
// current series and the highlighted selected series, each ordered by date.
type Trend struct {
	Street           string          `json:"street"`
	Direction        string          `json:"direction"`
	FromIntersection string          `json:"from_intersection,omitempty"`
	ToIntersection   string          `json:"to_intersection,omitempty"`
	Window           types.DateRange `json:"window"`

	BaselineTT float64      `json:"baseline_tt"`
	Baseline   []TrendPoint `json:"baseline_series,omitempty"`
	Current    []TrendPoint `json:"current_series"`
	Selected   []TrendPoint `json:"selected_series"`

	// YMax is the fixed y-axis upper bound for the orientation's charts.
	YMax float64 `json:"y_max"`

	// Empty is set when both the current and selected series are empty;
	// callers must render a no-data state rather than an empty chart.
	Empty bool `json:"empty"`
}

// BuildTrend computes the display window, restricts the measurement set to
// one segment within it, and splits the rows into baseline, unselected and
// selected series for bar rendering.
func BuildTrend(snap *dataset.Snapshot, q TrendQuery) (*Trend, error) {
	o, ok := orientationFor(snap, q.Street, q.Direction)
	if !ok {
		return nil, types.NewAppError(types.ErrCodeLookupStreet,
			fmt.Sprintf("no orientation carries street %q with direction %q", q.Street, q.Direction), nil)
	}

	gran, unit := coerceWeekly(snap, o, q.Granularity, q.Unit)

	window, err := ResolveWindow(snap, o.Source, gran, unit)
	if err != nil {
		return nil, err
	}

	base, ok := snap.BaselineFor(types.BaselineKey{
		Street:    q.Street,
		Direction: q.Direction,
		DayType:   q.DayType,
		Period:    q.Period,
	})
	if !ok {
		return nil, ErrNoBaselineForSegment
	}

	t := &Trend{
		Street:           q.Street,
		Direction:        q.Direction,
		FromIntersection: base.FromIntersection,
		ToIntersection:   base.ToIntersection,
		Window:           window,
		BaselineTT:       base.TravelTimeMin,
		YMax:             snap.YAxisMax(o.Name),
	}

	for _, m := range snap.Measurements(o) {
		if m.Street != q.Street || m.Direction != q.Direction {
			continue
		}
		if m.DayType != q.DayType || m.Period != q.Period {
			continue
		}
		if !inWindow(m, window) {
			continue
		}
		switch {
		case m.Category == types.CategoryBaseline:
			t.Baseline = append(t.Baseline, point(m))
		case m.Category != snap.Profile.PilotCategory:
			// Excluded rows chart nowhere.
		case IsSelected(m, gran, unit):
			t.Selected = append(t.Selected, point(m))
		default:
			t.Current = append(t.Current, point(m))
		}
	}

	sortByDate(t.Baseline)
	sortByDate(t.Current)
	sortByDate(t.Selected)
	t.Empty = len(t.Current) == 0 && len(t.Selected) == 0
	return t, nil
}

// PeriodsForDate returns the time-of-day periods observable on a specific
// date, restricted to the buckets defined for that date's day type and kept
// in canonical period order.
func PeriodsForDate(snap *dataset.Snapshot, d types.Date) []string {
	dayType := types.DayTypeFor(d)
	present := map[string]bool{}
	for _, m := range snap.Daily {
		if m.Date.Equal(d) {
			present[m.Period] = true
		}
	}
	var out []string
	for _, tp := range snap.TimePeriods {
		if tp.DayType == dayType && present[tp.Period] {
			out = append(out, tp.Period)
		}
	}
	return out
}

func orientationFor(snap *dataset.Snapshot, street, direction string) (deploy.Orientation, bool) {
	for _, o := range snap.Profile.Orientations {
		if o.HasDirection(direction) && o.HasStreet(street) {
			return o, true
		}
	}
	return deploy.Orientation{}, false
}

// inWindow bounds a row by the display window: daily rows by date, weekly
// rows by their full span.
func inWindow(m types.Measurement, w types.DateRange) bool {
	if m.Weekly() {
		return !m.Date.Before(w.Start) && m.SpanEnd.Before(w.End)
	}
	return w.Contains(m.Date)
}

func point(m types.Measurement) TrendPoint {
	p := TrendPoint{Date: m.Date, TT: m.TravelTimeMin}
	if m.Weekly() {
		p.SpanEnd = m.SpanEnd
		p.Label = m.Date.Format("Jan 02 2006") + " to " + m.SpanEnd.Format("Jan 02 2006")
	}
	return p
}

func sortByDate(points []TrendPoint) {
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
}
