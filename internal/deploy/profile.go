// Package deploy defines the per-deployment engine profile. The monitoring
// dashboards are near-identical per corridor; everything that differs between
// them (threshold, y-axis cap, cut-over date, holiday snapping, granularity
// code ordering, tab layout) is represented here as configuration rather
// than as a code fork.
package deploy

import (
	"fmt"

	"ttmon/internal/types"
)

// DataSource identifies which measurement set an orientation reads from.
// Mainline corridors have daily observations; alternate-route tabs only have
// weekly aggregates.
type DataSource string

const (
	SourceDaily  DataSource = "daily"
	SourceWeekly DataSource = "weekly"
)

// Orientation is a named tab: a grouping of streets sharing a geographic
// axis, with a fixed display order and exactly two charted directions.
type Orientation struct {
	Name string

	// Streets is the canonical display order for the comparison table.
	// Aggregation output is ordered by this list, never alphabetically.
	Streets []string

	// Directions holds the two directions charted for this tab, in
	// column/graph order (e.g. NB then SB).
	Directions [2]string

	// MainStreets is the optional sub-filter dimension for multi-route
	// tabs. Empty for single-corridor orientations.
	MainStreets []string

	Source DataSource
}

// HasDirection reports whether dir is one of the orientation's directions.
func (o Orientation) HasDirection(dir string) bool {
	return dir == o.Directions[0] || dir == o.Directions[1]
}

// HasStreet reports whether street appears in the canonical street order.
func (o Orientation) HasStreet(street string) bool {
	for _, s := range o.Streets {
		if s == street {
			return true
		}
	}
	return false
}

// HasMainStreet reports whether name is a valid sub-filter value.
func (o Orientation) HasMainStreet(name string) bool {
	for _, s := range o.MainStreets {
		if s == name {
			return true
		}
	}
	return false
}

// StreetRank returns the position of street in the canonical order, or -1.
func (o Orientation) StreetRank(street string) int {
	for i, s := range o.Streets {
		if s == street {
			return i
		}
	}
	return -1
}

// Profile is the complete configuration of one deployed dashboard variant.
type Profile struct {
	// Name identifies the deployment (e.g. "dvp").
	Name string

	// Title is the dashboard heading.
	Title string

	// PilotCategory is the measurement category label marking pilot-period
	// rows for this deployment.
	PilotCategory types.Category

	// ThresholdMin classifies a current cell against its baseline: a
	// difference strictly greater than the threshold is "worse", strictly
	// less than its negation is "better", anything else "same".
	ThresholdMin float64

	// YAxisCapMin caps the fixed chart y-axis; the effective per-orientation
	// maximum is min(cap, max observed travel time).
	YAxisCapMin float64

	// WeekCutover, when set, shortens the SelectWeek forward window
	// extension from two weeks to one for anchor weeks on or after this
	// date. Deployment-specific; zero means no cut-over.
	WeekCutover types.Date

	// SnapToBusinessDays walks month window boundaries off weekends and
	// holidays when enabled.
	SnapToBusinessDays bool

	// GranularityCodes is the positional external code table: index i is
	// the granularity the front end selects with code i. Variants disagree
	// on this ordering, so the translation happens exactly once, at the
	// API boundary.
	GranularityCodes []types.Granularity

	// Orientations lists the tabs in display order.
	Orientations []Orientation
}

// Orientation returns the named tab configuration.
func (p *Profile) Orientation(name string) (Orientation, bool) {
	for _, o := range p.Orientations {
		if o.Name == name {
			return o, true
		}
	}
	return Orientation{}, false
}

// GranularityForCode translates an external positional code into the named
// granularity enum.
func (p *Profile) GranularityForCode(code int) (types.Granularity, bool) {
	if code < 0 || code >= len(p.GranularityCodes) {
		return "", false
	}
	return p.GranularityCodes[code], true
}

// Validate checks profile consistency. Violations are configuration errors:
// fatal at startup, never runtime conditions.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return configErr("profile name is empty")
	}
	if p.PilotCategory == "" || p.PilotCategory == types.CategoryExcluded || p.PilotCategory == types.CategoryBaseline {
		return configErr("profile %s: pilot category %q is not a valid pilot label", p.Name, p.PilotCategory)
	}
	if p.ThresholdMin <= 0 {
		return configErr("profile %s: threshold must be positive, got %v", p.Name, p.ThresholdMin)
	}
	if p.YAxisCapMin <= 0 {
		return configErr("profile %s: y-axis cap must be positive, got %v", p.Name, p.YAxisCapMin)
	}
	if len(p.GranularityCodes) == 0 {
		return configErr("profile %s: granularity code table is empty", p.Name)
	}
	seenGran := map[types.Granularity]bool{}
	for i, g := range p.GranularityCodes {
		if !g.Valid() {
			return configErr("profile %s: granularity code %d maps to unknown granularity %q", p.Name, i, g)
		}
		if seenGran[g] {
			return configErr("profile %s: granularity %s appears twice in code table", p.Name, g)
		}
		seenGran[g] = true
	}
	if len(p.Orientations) == 0 {
		return configErr("profile %s: no orientations configured", p.Name)
	}
	seenTab := map[string]bool{}
	for _, o := range p.Orientations {
		if err := validateOrientation(p.Name, o); err != nil {
			return err
		}
		if seenTab[o.Name] {
			return configErr("profile %s: duplicate orientation %q", p.Name, o.Name)
		}
		seenTab[o.Name] = true
	}
	return nil
}

func validateOrientation(profile string, o Orientation) error {
	if o.Name == "" {
		return configErr("profile %s: orientation with empty name", profile)
	}
	if len(o.Streets) == 0 {
		return configErr("profile %s: orientation %s has no streets", profile, o.Name)
	}
	seen := map[string]bool{}
	for _, s := range o.Streets {
		if seen[s] {
			return configErr("profile %s: orientation %s lists street %q twice", profile, o.Name, s)
		}
		seen[s] = true
	}
	if o.Directions[0] == "" || o.Directions[1] == "" || o.Directions[0] == o.Directions[1] {
		return configErr("profile %s: orientation %s needs two distinct directions", profile, o.Name)
	}
	switch o.Source {
	case SourceDaily, SourceWeekly:
	default:
		return configErr("profile %s: orientation %s has unknown data source %q", profile, o.Name, o.Source)
	}
	return nil
}

func configErr(format string, args ...any) error {
	return types.NewAppError(types.ErrCodeConfigProfile, fmt.Sprintf(format, args...), nil)
}
