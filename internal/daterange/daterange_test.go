package daterange

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func endOf(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 23, 59, 59, 999000000, time.UTC)
}

func TestResolvePresets(t *testing.T) {
	now := time.Date(2025, 3, 15, 16, 45, 0, 0, time.UTC)
	cases := []struct {
		preset     Preset
		start, end time.Time
	}{
		{Last30Days, day(2025, 2, 13), endOf(2025, 3, 15)},
		{Last90Days, day(2024, 12, 15), endOf(2025, 3, 15)},
		{ThisMonth, day(2025, 3, 1), endOf(2025, 3, 31)},
		{LastMonth, day(2025, 2, 1), endOf(2025, 2, 28)},
		{ThisYear, day(2025, 1, 1), endOf(2025, 12, 31)},
		{AllTime, time.Time{}, time.Time{}},
	}
	for _, tc := range cases {
		b, err := Resolve(Query{Preset: tc.preset}, now)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.preset, err)
		}
		if !b.Start.Equal(tc.start) || !b.End.Equal(tc.end) {
			t.Fatalf("%s: expected [%v, %v], got [%v, %v]", tc.preset, tc.start, tc.end, b.Start, b.End)
		}
	}
}

func TestThisMonthAlwaysCoversWholeMonth(t *testing.T) {
	start := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3*366; i++ {
		now := start.AddDate(0, 0, i)
		b, err := Resolve(Query{Preset: ThisMonth}, now)
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		y, m, _ := now.Date()
		if !b.Start.Equal(day(y, m, 1)) {
			t.Fatalf("%v: start %v is not day 1", now, b.Start)
		}
		last := day(y, m+1, 1).AddDate(0, 0, -1)
		if !b.End.Equal(endOf(last.Year(), last.Month(), last.Day())) {
			t.Fatalf("%v: end %v is not end of month", now, b.End)
		}
	}
}

func TestLastMonthAcrossYearBoundary(t *testing.T) {
	b, _ := Resolve(Query{Preset: LastMonth}, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
	if !b.Start.Equal(day(2024, 12, 1)) || !b.End.Equal(endOf(2024, 12, 31)) {
		t.Fatalf("unexpected last month bounds: %+v", b)
	}
}

func TestResolveCustom(t *testing.T) {
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	b, _ := Resolve(Query{Preset: Custom, CustomStart: "2025-01-05", CustomEnd: "2025-01-20"}, now)
	if !b.Start.Equal(day(2025, 1, 5)) || !b.End.Equal(endOf(2025, 1, 20)) {
		t.Fatalf("unexpected custom bounds: %+v", b)
	}

	open, _ := Resolve(Query{Preset: Custom, CustomStart: "2025-01-05"}, now)
	if !open.End.IsZero() {
		t.Fatalf("missing end should leave the range open")
	}
	if !open.Contains(day(2030, 1, 1)) || open.Contains(day(2025, 1, 4)) {
		t.Fatalf("open-ended range matched incorrectly")
	}

	bad, _ := Resolve(Query{Preset: Custom, CustomStart: "garbage", CustomEnd: "2025-01-20"}, now)
	if !bad.Start.IsZero() || bad.End.IsZero() {
		t.Fatalf("unparsable start should be open: %+v", bad)
	}
}

func TestResolveUnknown(t *testing.T) {
	if _, err := Resolve(Query{Preset: "fortnight"}, time.Now()); err != ErrUnknownPreset {
		t.Fatalf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestParsePreset(t *testing.T) {
	if p, ok := ParsePreset(""); !ok || p != AllTime {
		t.Fatalf("empty should default to allTime")
	}
	if p, ok := ParsePreset("THISMONTH"); !ok || p != ThisMonth {
		t.Fatalf("expected case-insensitive match, got %q", p)
	}
	if _, ok := ParsePreset("nope"); ok {
		t.Fatalf("expected unknown preset to be rejected")
	}
}

func TestContainsDate(t *testing.T) {
	b := Bounds{Start: day(2025, 1, 1), End: endOf(2025, 1, 31)}
	cases := map[string]bool{
		"2025-01-01": true,
		"2025-01-31": true,
		"2024-12-31": false,
		"2025-02-01": false,
		"":           false,
		"bad":        false,
	}
	for s, want := range cases {
		if got := b.ContainsDate(s, time.UTC); got != want {
			t.Fatalf("ContainsDate(%q) expected %v, got %v", s, want, got)
		}
	}
	if !(Bounds{}).ContainsDate("1999-01-01", time.UTC) {
		t.Fatalf("unbounded range should contain any valid date")
	}
}
