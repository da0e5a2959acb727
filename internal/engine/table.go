package engine

import (
	"fmt"
	"math"

	"ttmon/internal/dataset"
	"ttmon/internal/deploy"
	"ttmon/internal/types"
)

// ComparisonQuery parameterizes one before/after comparison table render.
type ComparisonQuery struct {
	Orientation string
	Period      string
	DayType     types.DayType
	Granularity types.Granularity
	Unit        types.Unit

	// MainStreet is the sub-filter for multi-route orientations. Empty
	// selects the orientation's first main street when the dimension
	// applies at all.
	MainStreet string
}

// DirectionCells is the before/after pair for one street direction.
// Nil values render as blank cells: a street can be present in the baseline
// but absent from the current period (or the reverse) without being an
// error.
type DirectionCells struct {
	Direction string          `json:"direction"`
	Baseline  *float64        `json:"baseline"`
	Current   *float64        `json:"current"`
	Class     types.CellClass `json:"class"`
}

// ComparisonRow is one street's comparison entry, with a cell pair per
// charted direction.
type ComparisonRow struct {
	Street string            `json:"street"`
	Cells  [2]DirectionCells `json:"cells"`
}

// Comparison is the pivoted before/after table for one tab.
type Comparison struct {
	Rows []ComparisonRow `json:"rows"`

	// AfterLabel heads the "after" columns: a weekday-abbreviated date,
	// "Week N" or "Month N" depending on granularity.
	AfterLabel string `json:"after_label"`
}

// BuildComparison filters the selected measurement subset, pivots current and
// baseline data by (street, direction), and joins them in the orientation's
// canonical street order. When multiple rows map to one cell (a range
// spanning several days or weeks) the cell value is their mean.
func BuildComparison(snap *dataset.Snapshot, q ComparisonQuery) (*Comparison, error) {
	o, ok := snap.Profile.Orientation(q.Orientation)
	if !ok {
		return nil, types.NewAppError(types.ErrCodeLookupOrientation,
			fmt.Sprintf("unknown orientation %q", q.Orientation), nil)
	}

	gran, unit := coerceWeekly(snap, o, q.Granularity, q.Unit)

	mainStreet := q.MainStreet
	if len(o.MainStreets) > 0 {
		if mainStreet == "" {
			mainStreet = o.MainStreets[0]
		} else if !o.HasMainStreet(mainStreet) {
			return nil, types.NewAppError(types.ErrCodeLookupMainStreet,
				fmt.Sprintf("main street %q not offered for orientation %s", mainStreet, o.Name), nil)
		}
	}

	// Current data: selected rows only, excluded category removed.
	current := pivot{}
	var firstSelectedDate types.Date
	for _, m := range snap.Measurements(o) {
		if m.Period != q.Period || m.DayType != q.DayType {
			continue
		}
		if !o.HasDirection(m.Direction) {
			continue
		}
		if m.Category == types.CategoryExcluded {
			continue
		}
		if mainStreet != "" && m.MainStreet != mainStreet {
			continue
		}
		if !IsSelected(m, gran, unit) {
			continue
		}
		current.add(m.Street, m.Direction, m.TravelTimeMin)
		if firstSelectedDate.IsZero() || m.Date.Before(firstSelectedDate) {
			firstSelectedDate = m.Date
		}
	}

	// Baseline data: the full reference set for the orientation, not
	// restricted by the date selection.
	baseline := pivot{}
	for _, b := range snap.Baseline {
		if b.Period != q.Period || b.DayType != q.DayType {
			continue
		}
		if !o.HasDirection(b.Direction) {
			continue
		}
		if mainStreet != "" && b.MainStreet != mainStreet {
			continue
		}
		if !o.HasStreet(b.Street) {
			continue
		}
		baseline.add(b.Street, b.Direction, b.TravelTimeMin)
	}

	comp := &Comparison{
		AfterLabel: afterLabel(snap, gran, unit, firstSelectedDate),
	}
	// Join on the canonical street order, never input or alphabetical order.
	for _, street := range o.Streets {
		baseCells, hasBase := baseline.cells(street, o.Directions)
		curCells, hasCur := current.cells(street, o.Directions)
		if !hasBase && !hasCur {
			continue
		}
		row := ComparisonRow{Street: street}
		for i := range o.Directions {
			cell := DirectionCells{
				Direction: o.Directions[i],
				Baseline:  baseCells[i],
				Current:   curCells[i],
				Class:     types.CellSame,
			}
			if cell.Baseline != nil && cell.Current != nil {
				cell.Class = ClassifyCell(*cell.Baseline, *cell.Current, snap.Profile.ThresholdMin)
			}
			row.Cells[i] = cell
		}
		comp.Rows = append(comp.Rows, row)
	}
	return comp, nil
}

// ClassifyCell compares a current travel time against its baseline using the
// deployment threshold. The boundary is exclusive: a difference of exactly
// the threshold is "same", not "worse".
func ClassifyCell(before, after, threshold float64) types.CellClass {
	diff := after - before
	switch {
	case diff > threshold:
		return types.CellWorse
	case diff < -threshold:
		return types.CellBetter
	default:
		return types.CellSame
	}
}

// afterLabel describes the "after" period heading the comparison columns.
func afterLabel(snap *dataset.Snapshot, gran types.Granularity, unit types.Unit, firstSelected types.Date) string {
	switch gran {
	case types.GranLastDay, types.GranSelectDate:
		d := firstSelected
		if d.IsZero() {
			if gran == types.GranSelectDate {
				d = unit.Date
			} else {
				d = snap.DailyMax
			}
		}
		return d.Format("Mon Jan 02")
	case types.GranSelectWeek:
		return fmt.Sprintf("Week %d", unit.Ordinal)
	case types.GranSelectMonth:
		return fmt.Sprintf("Month %d", unit.Ordinal)
	}
	return ""
}

// coerceWeekly substitutes the first selectable week for daily-resolution
// granularities on weekly-only tabs, which have no daily rows to resolve
// against. Table and trend renders share this fallback so both views of a
// tab derive the same week.
func coerceWeekly(snap *dataset.Snapshot, o deploy.Orientation, gran types.Granularity, unit types.Unit) (types.Granularity, types.Unit) {
	if o.Source == deploy.SourceWeekly && (gran == types.GranLastDay || gran == types.GranSelectDate) {
		return types.GranSelectWeek, types.UnitOrdinal(firstWeekNumber(snap))
	}
	return gran, unit
}

func firstWeekNumber(snap *dataset.Snapshot) int {
	if len(snap.Weeks) == 0 {
		return 1
	}
	return snap.Weeks[0].Number
}

// pivot accumulates cell samples keyed by (street, direction) and reduces
// them to a rounded mean.
type pivot map[string]map[string][]float64

func (p pivot) add(street, direction string, v float64) {
	byDir, ok := p[street]
	if !ok {
		byDir = map[string][]float64{}
		p[street] = byDir
	}
	byDir[direction] = append(byDir[direction], v)
}

// cells returns the mean cell value per direction for a street, rounded to
// one decimal, and whether the street has any data at all.
func (p pivot) cells(street string, directions [2]string) ([2]*float64, bool) {
	byDir, ok := p[street]
	if !ok {
		return [2]*float64{}, false
	}
	var out [2]*float64
	for i, dir := range directions {
		samples := byDir[dir]
		if len(samples) == 0 {
			continue
		}
		sum := 0.0
		for _, v := range samples {
			sum += v
		}
		mean := math.Round(sum/float64(len(samples))*10) / 10
		out[i] = &mean
	}
	return out, true
}
