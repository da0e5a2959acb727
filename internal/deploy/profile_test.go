package deploy

import (
	"strings"
	"testing"

	"ttmon/internal/types"
)

func baseProfile() *Profile {
	return &Profile{
		Name:          "metro",
		Title:         "Metro Corridor Monitor",
		PilotCategory: types.Category("Pilot"),
		ThresholdMin:  1.0,
		YAxisCapMin:   25,
		GranularityCodes: []types.Granularity{
			types.GranLastDay,
			types.GranSelectWeek,
		},
		Orientations: []Orientation{
			{
				Name:       "ns",
				Streets:    []string{"Alpha", "Bravo"},
				Directions: [2]string{"NB", "SB"},
				Source:     SourceDaily,
			},
		},
	}
}

func TestValidateAccepts(t *testing.T) {
	if err := baseProfile().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(*Profile)
		fragment string
	}{
		{"empty name", func(p *Profile) { p.Name = "" }, "name is empty"},
		{"reserved pilot category", func(p *Profile) { p.PilotCategory = types.CategoryBaseline }, "pilot label"},
		{"zero threshold", func(p *Profile) { p.ThresholdMin = 0 }, "threshold"},
		{"zero y-axis cap", func(p *Profile) { p.YAxisCapMin = 0 }, "y-axis cap"},
		{"empty code table", func(p *Profile) { p.GranularityCodes = nil }, "code table is empty"},
		{"unknown granularity", func(p *Profile) {
			p.GranularityCodes = []types.Granularity{"hourly"}
		}, "unknown granularity"},
		{"repeated granularity", func(p *Profile) {
			p.GranularityCodes = []types.Granularity{types.GranLastDay, types.GranLastDay}
		}, "appears twice"},
		{"no orientations", func(p *Profile) { p.Orientations = nil }, "no orientations"},
		{"duplicate orientation", func(p *Profile) {
			p.Orientations = append(p.Orientations, p.Orientations[0])
		}, "duplicate orientation"},
		{"orientation without streets", func(p *Profile) {
			p.Orientations[0].Streets = nil
		}, "no streets"},
		{"duplicate street", func(p *Profile) {
			p.Orientations[0].Streets = []string{"Alpha", "Alpha"}
		}, "twice"},
		{"identical directions", func(p *Profile) {
			p.Orientations[0].Directions = [2]string{"NB", "NB"}
		}, "distinct directions"},
		{"unknown source", func(p *Profile) {
			p.Orientations[0].Source = "hourly"
		}, "unknown data source"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := baseProfile()
			tc.mutate(p)
			err := p.Validate()
			if err == nil {
				t.Fatalf("expected validation error containing %q", tc.fragment)
			}
			if !strings.Contains(err.Error(), tc.fragment) {
				t.Fatalf("error %q does not mention %q", err, tc.fragment)
			}
		})
	}
}

func TestGranularityForCode(t *testing.T) {
	p := baseProfile()
	if g, ok := p.GranularityForCode(1); !ok || g != types.GranSelectWeek {
		t.Errorf("GranularityForCode(1) = %v, %v", g, ok)
	}
	if _, ok := p.GranularityForCode(2); ok {
		t.Error("code past the table end must not resolve")
	}
	if _, ok := p.GranularityForCode(-1); ok {
		t.Error("negative code must not resolve")
	}
}

func TestOrientationHelpers(t *testing.T) {
	o := baseProfile().Orientations[0]

	if !o.HasDirection("NB") || o.HasDirection("EB") {
		t.Error("HasDirection mismatch")
	}
	if !o.HasStreet("Bravo") || o.HasStreet("Zulu") {
		t.Error("HasStreet mismatch")
	}
	if got := o.StreetRank("Bravo"); got != 1 {
		t.Errorf("StreetRank(Bravo) = %d, want 1", got)
	}
	if got := o.StreetRank("Zulu"); got != -1 {
		t.Errorf("StreetRank(Zulu) = %d, want -1", got)
	}
}

func TestDVPProfile(t *testing.T) {
	p, ok := Lookup("dvp")
	if !ok {
		t.Fatal("dvp deployment not registered")
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if len(p.GranularityCodes) != 4 {
		t.Errorf("got %d granularity codes, want 4", len(p.GranularityCodes))
	}
	if g, _ := p.GranularityForCode(0); g != types.GranLastDay {
		t.Errorf("code 0 = %s, want last_day", g)
	}

	ns, ok := p.Orientation("ns")
	if !ok || ns.Source != SourceDaily || len(ns.MainStreets) != 0 {
		t.Errorf("ns orientation = %+v, %v", ns, ok)
	}
	alt, ok := p.Orientation("alternate")
	if !ok || alt.Source != SourceWeekly || len(alt.MainStreets) != 5 {
		t.Errorf("alternate orientation = %+v, %v", alt, ok)
	}
	ew, ok := p.Orientation("alternate_ew")
	if !ok || ew.Directions != [2]string{"EB", "WB"} {
		t.Errorf("alternate_ew orientation = %+v, %v", ew, ok)
	}

	if _, ok := Lookup("king"); ok {
		t.Error("unregistered deployment must not resolve")
	}
}
