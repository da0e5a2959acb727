package engine

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"ttmon/internal/dataset"
	"ttmon/internal/deploy"
	"ttmon/internal/types"
)

// The test deployment covers both data shapes: a daily north-south tab and a
// weekly alternate-route tab with a main-street sub-filter. Daily data runs
// on business days from 2024-02-01 through 2024-03-15 (2024-02-19 is a
// holiday); the pilot period starts 2024-03-01.
const testPilotCategory = types.Category("Pilot")

var (
	testHoliday    = types.NewDate(2024, time.February, 19)
	testPilotStart = types.NewDate(2024, time.March, 1)
	testLastDay    = types.NewDate(2024, time.March, 15)
	testWeekAnchor = types.NewDate(2024, time.February, 5) // week 5
)

func testProfile() *deploy.Profile {
	return &deploy.Profile{
		Name:               "metro",
		Title:              "Metro Corridor Monitor",
		PilotCategory:      testPilotCategory,
		ThresholdMin:       1.0,
		YAxisCapMin:        25,
		WeekCutover:        types.NewDate(2024, time.March, 4),
		SnapToBusinessDays: true,
		GranularityCodes: []types.Granularity{
			types.GranLastDay,
			types.GranSelectDate,
			types.GranSelectWeek,
			types.GranSelectMonth,
		},
		Orientations: []deploy.Orientation{
			{
				Name:       "ns",
				Streets:    []string{"Alpha", "Bravo", "Echo"},
				Directions: [2]string{"NB", "SB"},
				Source:     deploy.SourceDaily,
			},
			{
				Name:        "alternate",
				Streets:     []string{"Carol", "Delta"},
				Directions:  [2]string{"NB", "SB"},
				MainStreets: []string{"Main One", "Main Two"},
				Source:      deploy.SourceWeekly,
			},
		},
	}
}

func weekNumberFor(d types.Date) int {
	days := int(d.StartOfWeek().Time().Sub(testWeekAnchor.Time()).Hours() / 24)
	return 5 + days/7
}

func monthNumberFor(d types.Date) int {
	if d.Before(testPilotStart) {
		return 1
	}
	return 2
}

func testDaily() []types.Measurement {
	segments := []struct {
		street, dir     string
		baseTT, pilotTT float64
	}{
		{"Alpha", "NB", 10.0, 12.5},
		{"Alpha", "SB", 12.0, 11.0},
		{"Bravo", "NB", 8.0, 9.0},
		{"Bravo", "SB", 9.0, 10.5},
	}

	var rows []types.Measurement
	for d := types.NewDate(2024, time.February, 1); !d.After(testLastDay); d = d.AddDays(1) {
		if types.DayTypeFor(d) == types.DayTypeWeekend || d.Equal(testHoliday) {
			continue
		}
		for _, s := range segments {
			tt, cat := s.baseTT, types.CategoryBaseline
			if !d.Before(testPilotStart) {
				tt, cat = s.pilotTT, testPilotCategory
			}
			rows = append(rows, types.Measurement{
				Street:        s.street,
				Direction:     s.dir,
				Date:          d,
				DayType:       types.DayTypeWeekday,
				Period:        "AM",
				Category:      cat,
				TravelTimeMin: tt,
				MostRecent:    d.Equal(testLastDay),
				WeekNumber:    weekNumberFor(d),
				MonthNumber:   monthNumberFor(d),
			})
		}
	}

	// One excluded observation; it must chart nowhere.
	excludedDate := types.NewDate(2024, time.March, 14)
	rows = append(rows, types.Measurement{
		Street:        "Alpha",
		Direction:     "NB",
		Date:          excludedDate,
		DayType:       types.DayTypeWeekday,
		Period:        "AM",
		Category:      types.CategoryExcluded,
		TravelTimeMin: 18.0,
		WeekNumber:    weekNumberFor(excludedDate),
		MonthNumber:   2,
	})
	return rows
}

func testWeekly() []types.Measurement {
	var rows []types.Measurement
	for wk := 5; wk <= 8; wk++ {
		start := testWeekAnchor.AddDays(7 * (wk - 5))
		cat := types.CategoryBaseline
		if wk >= 7 {
			cat = testPilotCategory
		}
		for _, s := range []struct {
			dir string
			tt  float64
		}{
			{"NB", 15.0 + float64(wk-5)},
			{"SB", 20.0 + 0.5*float64(wk-5)},
		} {
			rows = append(rows, types.Measurement{
				Street:        "Carol",
				MainStreet:    "Main One",
				Direction:     s.dir,
				Date:          start,
				SpanEnd:       start.AddDays(5),
				DayType:       types.DayTypeWeekday,
				Period:        "AM",
				Category:      cat,
				TravelTimeMin: s.tt,
				WeekNumber:    wk,
				MonthNumber:   1,
			})
		}
	}
	return rows
}

func testBaseline() []types.BaselineRow {
	row := func(street, mainStreet, dir string, dayType types.DayType, period, rng string, tt float64) types.BaselineRow {
		return types.BaselineRow{
			Street:           street,
			MainStreet:       mainStreet,
			Direction:        dir,
			FromIntersection: "First Ave",
			ToIntersection:   "Second Ave",
			DayType:          dayType,
			Period:           period,
			PeriodRange:      rng,
			TravelTimeMin:    tt,
		}
	}
	return []types.BaselineRow{
		row("Alpha", "", "NB", types.DayTypeWeekday, "AM", "06:00-09:00", 10.0),
		row("Alpha", "", "SB", types.DayTypeWeekday, "AM", "06:00-09:00", 12.0),
		row("Bravo", "", "NB", types.DayTypeWeekday, "AM", "06:00-09:00", 8.0),
		row("Bravo", "", "SB", types.DayTypeWeekday, "AM", "06:00-09:00", 9.0),
		row("Echo", "", "NB", types.DayTypeWeekday, "AM", "06:00-09:00", 11.0),
		row("Carol", "Main One", "NB", types.DayTypeWeekday, "AM", "06:00-09:00", 15.0),
		row("Carol", "Main One", "SB", types.DayTypeWeekday, "AM", "06:00-09:00", 20.0),
		row("Delta", "Main Two", "NB", types.DayTypeWeekday, "AM", "06:00-09:00", 14.0),
		row("Alpha", "", "NB", types.DayTypeWeekend, "Midday", "10:00-16:00", 9.0),
	}
}

func newTestSnapshot(t *testing.T) *dataset.Snapshot {
	return newTestSnapshotFrom(t, testDaily(), testWeekly())
}

func newTestSnapshotFrom(t *testing.T, dailyRows, weeklyRows []types.Measurement) *dataset.Snapshot {
	t.Helper()

	var weeks []types.Week
	for wk := 5; wk <= 9; wk++ {
		start := testWeekAnchor.AddDays(7 * (wk - 5))
		weeks = append(weeks, types.Week{
			Number: wk,
			Start:  start,
			Label:  fmt.Sprintf("Week %d: %s", wk, start),
		})
	}
	months := []types.Month{
		{Number: 1, Start: types.NewDate(2024, time.February, 1), Label: "Month 1: Feb '24"},
		{Number: 2, Start: types.NewDate(2024, time.March, 1), Label: "Month 2: Mar '24"},
	}

	snap, err := dataset.Build(testProfile(), dataset.Input{
		Daily:    dailyRows,
		Weekly:   weeklyRows,
		Baseline: testBaseline(),
		Weeks:    weeks,
		Months:   months,
		Holidays: []types.Date{testHoliday},
	})
	if err != nil {
		t.Fatalf("building test snapshot: %v", err)
	}
	return snap
}

// shuffledDaily returns the daily fixture rows in a seeded random order.
// Engine output must not depend on input row order.
func shuffledDaily(seed int64) []types.Measurement {
	rows := testDaily()
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
	return rows
}

func wantRange(t *testing.T, got types.DateRange, start, end types.Date) {
	t.Helper()
	if !got.Start.Equal(start) || !got.End.Equal(end) {
		t.Fatalf("window = [%s, %s), want [%s, %s)", got.Start, got.End, start, end)
	}
}

func appErrCode(t *testing.T, err error, want types.ErrorCode) {
	t.Helper()
	appErr, ok := err.(*types.AppError)
	if !ok {
		t.Fatalf("error %v (%T) is not an AppError", err, err)
	}
	if appErr.Code != want {
		t.Fatalf("error code = %s, want %s", appErr.Code, want)
	}
}
