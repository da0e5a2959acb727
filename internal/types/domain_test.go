package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !d.Equal(NewDate(2024, time.March, 15)) {
		t.Errorf("ParseDate = %s", d)
	}

	for _, bad := range []string{"", "15/03/2024", "2024-13-01", "yesterday"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) accepted invalid input", bad)
		}
	}
}

func TestDateStartOfWeek(t *testing.T) {
	cases := []struct {
		date, want Date
	}{
		{NewDate(2024, time.March, 11), NewDate(2024, time.March, 11)}, // Monday
		{NewDate(2024, time.March, 13), NewDate(2024, time.March, 11)}, // Wednesday
		{NewDate(2024, time.March, 17), NewDate(2024, time.March, 11)}, // Sunday belongs to the preceding Monday
	}
	for _, tc := range cases {
		if got := tc.date.StartOfWeek(); !got.Equal(tc.want) {
			t.Errorf("StartOfWeek(%s) = %s, want %s", tc.date, got, tc.want)
		}
	}
}

func TestDateStartOfMonth(t *testing.T) {
	if got := NewDate(2024, time.March, 15).StartOfMonth(); !got.Equal(NewDate(2024, time.March, 1)) {
		t.Errorf("StartOfMonth = %s", got)
	}
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2024, time.February, 28)
	if got := d.AddDays(2); !got.Equal(NewDate(2024, time.March, 1)) {
		t.Errorf("AddDays over leap-day boundary = %s", got)
	}
	if got := NewDate(2024, time.March, 1).AddMonths(-1); !got.Equal(NewDate(2024, time.February, 1)) {
		t.Errorf("AddMonths(-1) = %s", got)
	}
}

func TestDateMinMax(t *testing.T) {
	a := NewDate(2024, time.March, 1)
	b := NewDate(2024, time.March, 5)
	if !a.Min(b).Equal(a) || !b.Min(a).Equal(a) {
		t.Error("Min mismatch")
	}
	if !a.Max(b).Equal(b) || !b.Max(a).Equal(b) {
		t.Error("Max mismatch")
	}
}

func TestDateRangeContains(t *testing.T) {
	r := DateRange{
		Start: NewDate(2024, time.March, 1),
		End:   NewDate(2024, time.March, 16),
	}
	if !r.Contains(NewDate(2024, time.March, 1)) {
		t.Error("start must be inside the window")
	}
	if !r.Contains(NewDate(2024, time.March, 15)) {
		t.Error("last covered day must be inside the window")
	}
	if r.Contains(NewDate(2024, time.March, 16)) {
		t.Error("end is exclusive")
	}
	if r.Contains(NewDate(2024, time.February, 29)) {
		t.Error("days before the start are outside")
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	in := NewDate(2024, time.March, 15)
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `"2024-03-15"` {
		t.Errorf("Marshal = %s", b)
	}
	var out Date
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !out.Equal(in) {
		t.Errorf("round trip = %s, want %s", out, in)
	}
}

func TestDayTypeFor(t *testing.T) {
	cases := []struct {
		date Date
		want DayType
	}{
		{NewDate(2024, time.March, 15), DayTypeWeekday}, // Friday
		{NewDate(2024, time.March, 16), DayTypeWeekend}, // Saturday
		{NewDate(2024, time.March, 17), DayTypeWeekend}, // Sunday
		{NewDate(2024, time.March, 18), DayTypeWeekday}, // Monday
	}
	for _, tc := range cases {
		if got := DayTypeFor(tc.date); got != tc.want {
			t.Errorf("DayTypeFor(%s) = %s, want %s", tc.date, got, tc.want)
		}
	}
}

func TestMeasurementWeekly(t *testing.T) {
	m := Measurement{Date: NewDate(2024, time.March, 4)}
	if m.Weekly() {
		t.Error("daily measurement reported as weekly")
	}
	m.SpanEnd = NewDate(2024, time.March, 9)
	if !m.Weekly() {
		t.Error("span measurement reported as daily")
	}
}

func TestBaselineRowKey(t *testing.T) {
	row := BaselineRow{
		Street: "Alpha", Direction: "NB",
		DayType: DayTypeWeekday, Period: "AM",
		MainStreet: "Main One", TravelTimeMin: 10,
	}
	want := BaselineKey{Street: "Alpha", Direction: "NB", DayType: DayTypeWeekday, Period: "AM"}
	if row.Key() != want {
		t.Errorf("Key = %+v, want %+v", row.Key(), want)
	}
}
