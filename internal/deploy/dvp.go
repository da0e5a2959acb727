package deploy

import (
	"ttmon/internal/types"
)

// Built-in deployment profiles. Adding a corridor means adding a value here
// (or loading an equivalent from configuration), not forking the engine.

// DVP is the Don Valley Parkway lane-restriction deployment: the mainline
// corridor tab plus two alternate-route tabs fed by weekly aggregates.
func DVP() *Profile {
	return &Profile{
		Name:          "dvp",
		Title:         "Don Valley Parkway Lane Closures: Vehicular Travel Time Monitoring",
		PilotCategory: types.Category("DVP Lane Restrictions"),
		ThresholdMin:  1.0,
		YAxisCapMin:   25,
		GranularityCodes: []types.Granularity{
			types.GranLastDay,
			types.GranSelectDate,
			types.GranSelectWeek,
			types.GranSelectMonth,
		},
		Orientations: []Orientation{
			{
				Name: "ns",
				Streets: []string{
					"DVP between Bayview Ramp and Don Mills",
					"DVP between Bayview Ramp and Dundas",
					"DVP between Don Mills and Wynford",
					"DVP between Lawrence and Wynford",
					"DVP between Lawrence and York Mills",
				},
				Directions: [2]string{"NB", "SB"},
				Source:     SourceDaily,
			},
			{
				Name: "alternate",
				Streets: []string{
					"Bayview Between DVP and Eglinton",
					"Bayview Between Eglinton and Lawrence",
					"Bayview Between Lawrence and York Mills",
					"Bayview Between York Mills and 401",
					"Don Mills Between DVP and Eglinton",
					"Don Mills Between Eglinton and Lawrence",
					"Don Mills Between Lawrence and York Mills",
					"Don Mills Between York Mills and Sheppard",
					"Leslie Between Eglinton and Lawrence",
					"Leslie Between Lawrence and York Mills",
					"Leslie Between York Mills and 401",
					"Victoria Park Ave Between Eglinton and Lawrence",
					"Victoria Park Ave Between Ellesmere and 401",
					"Victoria Park Ave Between Lawrence and Ellesmere",
					"Victoria Park Ave Between St Clair and Eglinton",
					"Woodbine Between Danforth and OConnor",
					"Woodbine Between Queen and Danforth",
				},
				Directions:  [2]string{"NB", "SB"},
				MainStreets: []string{"Bayview", "Don Mills", "Leslie", "Victoria Park Ave", "Woodbine"},
				Source:      SourceWeekly,
			},
			{
				Name: "alternate_ew",
				Streets: []string{
					"Lawrence Between Don Mills and DVP",
					"Lawrence Between DVP and Victoria Park Ave",
					"Lawrence Between Leslie and Don Mills",
					"OConnor Between Broadview and Don Mills",
					"OConnor Between Don Mills and Woodbine",
					"OConnor Between Woodbine and Eglinton",
					"York Mills Between Bayview and Leslie",
					"York Mills Between Don Mills and DVP",
					"York Mills Between DVP and Victoria Park Ave",
					"York Mills Between Leslie and Don Mills",
				},
				Directions:  [2]string{"EB", "WB"},
				MainStreets: []string{"Lawrence", "OConnor", "York Mills"},
				Source:      SourceWeekly,
			},
		},
	}
}

// Registry maps deployment names to their profiles.
var Registry = map[string]func() *Profile{
	"dvp": DVP,
}

// Lookup returns the profile for a deployment name.
func Lookup(name string) (*Profile, bool) {
	f, ok := Registry[name]
	if !ok {
		return nil, false
	}
	return f(), true
}
