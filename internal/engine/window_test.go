package engine

import (
	"testing"
	"time"

	"ttmon/internal/deploy"
	"ttmon/internal/types"
)

func TestResolveWindowLastDay(t *testing.T) {
	snap := newTestSnapshot(t)

	// Daily data ends 2024-03-15; the window reaches back two weeks.
	w, err := ResolveWindow(snap, deploy.SourceDaily, types.GranLastDay, types.Unit{})
	if err != nil {
		t.Fatalf("ResolveWindow: %v", err)
	}
	wantRange(t, w,
		types.NewDate(2024, time.March, 1),
		types.NewDate(2024, time.March, 16))
}

func TestResolveWindowLastDayWeeklySource(t *testing.T) {
	snap := newTestSnapshot(t)

	// Weekly spans end 2024-03-01 (last covered day of the final span).
	w, err := ResolveWindow(snap, deploy.SourceWeekly, types.GranLastDay, types.Unit{})
	if err != nil {
		t.Fatalf("ResolveWindow: %v", err)
	}
	wantRange(t, w,
		types.NewDate(2024, time.February, 16),
		types.NewDate(2024, time.March, 2))
}

func TestResolveWindowSelectDate(t *testing.T) {
	snap := newTestSnapshot(t)

	// 2024-02-14 is a Wednesday in the week of Monday 2024-02-12: one week
	// back from the Monday, two weeks forward.
	w, err := ResolveWindow(snap, deploy.SourceDaily, types.GranSelectDate,
		types.UnitDate(types.NewDate(2024, time.February, 14)))
	if err != nil {
		t.Fatalf("ResolveWindow: %v", err)
	}
	wantRange(t, w,
		types.NewDate(2024, time.February, 5),
		types.NewDate(2024, time.February, 26))
}

func TestResolveWindowSelectDateClampsToBounds(t *testing.T) {
	snap := newTestSnapshot(t)

	// The first data day: the backward reach clamps to the dataset minimum.
	w, err := ResolveWindow(snap, deploy.SourceDaily, types.GranSelectDate,
		types.UnitDate(types.NewDate(2024, time.February, 1)))
	if err != nil {
		t.Fatalf("ResolveWindow: %v", err)
	}
	wantRange(t, w,
		types.NewDate(2024, time.February, 1),
		types.NewDate(2024, time.February, 12))
}

func TestResolveWindowSelectDateMissingDate(t *testing.T) {
	snap := newTestSnapshot(t)

	_, err := ResolveWindow(snap, deploy.SourceDaily, types.GranSelectDate, types.Unit{})
	if err == nil {
		t.Fatal("expected error for select_date without a date")
	}
	appErrCode(t, err, types.ErrCodeValidationBadDate)
}

func TestResolveWindowSelectWeek(t *testing.T) {
	snap := newTestSnapshot(t)

	w, err := ResolveWindow(snap, deploy.SourceDaily, types.GranSelectWeek, types.UnitOrdinal(5))
	if err != nil {
		t.Fatalf("ResolveWindow: %v", err)
	}
	// Week 5 starts Monday 2024-02-05; the backward week clamps to the data
	// minimum and the forward extension is three weeks.
	wantRange(t, w,
		types.NewDate(2024, time.February, 1),
		types.NewDate(2024, time.February, 26))
}

func TestResolveWindowSelectWeekExtendsPastSelectDate(t *testing.T) {
	snap := newTestSnapshot(t)

	// Both selections anchor on Monday 2024-02-12, but only the week
	// selection charts the extra forward week.
	d, err := ResolveWindow(snap, deploy.SourceDaily, types.GranSelectDate,
		types.UnitDate(types.NewDate(2024, time.February, 12)))
	if err != nil {
		t.Fatalf("ResolveWindow(select_date): %v", err)
	}
	w, err := ResolveWindow(snap, deploy.SourceDaily, types.GranSelectWeek, types.UnitOrdinal(6))
	if err != nil {
		t.Fatalf("ResolveWindow(select_week): %v", err)
	}
	if !d.Start.Equal(w.Start) {
		t.Errorf("window starts differ: %s vs %s", d.Start, w.Start)
	}
	if !w.End.Equal(d.End.AddDays(7)) {
		t.Errorf("select_week end = %s, want one week past select_date end %s", w.End, d.End)
	}
}

func TestResolveWindowSelectWeekAfterCutover(t *testing.T) {
	snap := newTestSnapshot(t)

	// Week 9 starts on the cut-over date 2024-03-04: the forward extension
	// narrows to two weeks, then the upper clamp applies.
	w, err := ResolveWindow(snap, deploy.SourceDaily, types.GranSelectWeek, types.UnitOrdinal(9))
	if err != nil {
		t.Fatalf("ResolveWindow: %v", err)
	}
	wantRange(t, w,
		types.NewDate(2024, time.February, 26),
		types.NewDate(2024, time.March, 16))
}

func TestResolveWindowSelectWeekUnknown(t *testing.T) {
	snap := newTestSnapshot(t)

	_, err := ResolveWindow(snap, deploy.SourceDaily, types.GranSelectWeek, types.UnitOrdinal(42))
	if err == nil {
		t.Fatal("expected error for unknown week ordinal")
	}
	appErrCode(t, err, types.ErrCodeLookupWeek)
}

func TestResolveWindowSelectMonthFull(t *testing.T) {
	snap := newTestSnapshot(t)

	// February is a complete month: its own calendar bounds, both already on
	// business days.
	w, err := ResolveWindow(snap, deploy.SourceDaily, types.GranSelectMonth, types.UnitOrdinal(1))
	if err != nil {
		t.Fatalf("ResolveWindow: %v", err)
	}
	wantRange(t, w,
		types.NewDate(2024, time.February, 1),
		types.NewDate(2024, time.March, 1))
}

func TestResolveWindowSelectMonthPartialWidens(t *testing.T) {
	snap := newTestSnapshot(t)

	// March has only 11 observed days, below the threshold for charting the
	// final month alone, so the window widens back into February. The end
	// clamp lands on Saturday 2024-03-16 and snaps forward to Monday.
	w, err := ResolveWindow(snap, deploy.SourceDaily, types.GranSelectMonth, types.UnitOrdinal(2))
	if err != nil {
		t.Fatalf("ResolveWindow: %v", err)
	}
	wantRange(t, w,
		types.NewDate(2024, time.February, 1),
		types.NewDate(2024, time.March, 18))
}

func TestResolveWindowSelectMonthUnknown(t *testing.T) {
	snap := newTestSnapshot(t)

	_, err := ResolveWindow(snap, deploy.SourceDaily, types.GranSelectMonth, types.UnitOrdinal(7))
	if err == nil {
		t.Fatal("expected error for unknown month ordinal")
	}
	appErrCode(t, err, types.ErrCodeLookupMonth)
}

func TestResolveWindowInvalidGranularity(t *testing.T) {
	snap := newTestSnapshot(t)

	_, err := ResolveWindow(snap, deploy.SourceDaily, types.Granularity("hourly"), types.Unit{})
	if err == nil {
		t.Fatal("expected error for invalid granularity")
	}
	appErrCode(t, err, types.ErrCodeInternalGranularity)
}

func TestSnapToBusinessDays(t *testing.T) {
	snap := newTestSnapshot(t)

	// Start on the Family Day holiday Monday walks back through the weekend
	// to Friday; end on a Saturday walks forward to Monday.
	w := snapToBusinessDays(snap, types.DateRange{
		Start: types.NewDate(2024, time.February, 19),
		End:   types.NewDate(2024, time.March, 16),
	})
	wantRange(t, w,
		types.NewDate(2024, time.February, 16),
		types.NewDate(2024, time.March, 18))
}

func TestIsBusinessDay(t *testing.T) {
	snap := newTestSnapshot(t)

	cases := []struct {
		date types.Date
		want bool
	}{
		{types.NewDate(2024, time.February, 16), true},  // Friday
		{types.NewDate(2024, time.February, 17), false}, // Saturday
		{types.NewDate(2024, time.February, 18), false}, // Sunday
		{types.NewDate(2024, time.February, 19), false}, // holiday Monday
		{types.NewDate(2024, time.February, 20), true},  // Tuesday
	}
	for _, tc := range cases {
		if got := isBusinessDay(snap, tc.date); got != tc.want {
			t.Errorf("isBusinessDay(%s) = %v, want %v", tc.date, got, tc.want)
		}
	}
}
