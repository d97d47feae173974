package dates

import (
	"testing"
	"time"
)

func TestFormatDateRoundTrip(t *testing.T) {
	locs := []*time.Location{time.UTC, time.FixedZone("UTC-5", -5*3600), time.FixedZone("UTC+13", 13*3600)}
	for _, loc := range locs {
		start := time.Date(2023, 12, 25, 17, 42, 10, 5, loc)
		for i := 0; i < 800; i++ {
			d := start.AddDate(0, 0, i)
			s := FormatDate(d)
			back, ok := ParseDateIn(s, loc)
			if !ok {
				t.Fatalf("could not parse %q", s)
			}
			if !back.Equal(StartOfDay(d)) {
				t.Fatalf("round trip of %v gave %v", d, back)
			}
		}
	}
}

func TestFormatDateZeroPads(t *testing.T) {
	if got := FormatDate(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)); got != "2025-03-05" {
		t.Fatalf("expected 2025-03-05, got %q", got)
	}
	if got := FormatDate(time.Time{}); got != "" {
		t.Fatalf("zero time should format empty, got %q", got)
	}
}

func TestNormalizeDate(t *testing.T) {
	cases := map[string]string{
		"2025-03-05":           "2025-03-05",
		"2025-3-5":             "2025-03-05",
		"2025-03-05T23:30:00Z": "2025-03-05",
		"2025-03-05T08:15":     "2025-03-05",
		" 2025-12-31 ":         "2025-12-31",
		"":                     "",
		"not a date":           "",
		"2025-02-30":           "",
	}
	for in, want := range cases {
		if got := NormalizeDate(in); got != want {
			t.Fatalf("NormalizeDate(%q) expected %q, got %q", in, want, got)
		}
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "2025-13-01", "2025/01/01", "yesterday"} {
		if _, ok := ParseDate(s); ok {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestFormatTime12Hour(t *testing.T) {
	cases := map[string]string{
		"13:30": "1:30 PM",
		"00:00": "12:00 AM",
		"0:05":  "12:05 AM",
		"12:00": "12:00 PM",
		"11:59": "11:59 AM",
		"23:59": "11:59 PM",
		"":      "",
		"24:00": InvalidTime,
		"12:60": InvalidTime,
		"1230":  InvalidTime,
		"ab:cd": InvalidTime,
		"+1:30": InvalidTime,
		"9:5":   InvalidTime,
	}
	for in, want := range cases {
		if got := FormatTime12Hour(in); got != want {
			t.Fatalf("FormatTime12Hour(%q) expected %q, got %q", in, want, got)
		}
	}
}

func TestFormatTimeRange(t *testing.T) {
	cases := []struct {
		start, end string
		allDay     bool
		want       string
	}{
		{"09:00", "17:30", false, "9:00 AM - 5:30 PM"},
		{"09:00", "17:30", true, AllDay},
		{"09:00", "", false, "9:00 AM"},
		{"", "17:30", false, "until 5:30 PM"},
		{"", "", false, ""},
	}
	for _, tc := range cases {
		if got := FormatTimeRange(tc.start, tc.end, tc.allDay); got != tc.want {
			t.Fatalf("FormatTimeRange(%q, %q, %v) expected %q, got %q", tc.start, tc.end, tc.allDay, tc.want, got)
		}
	}
}

func TestMonthKeys(t *testing.T) {
	if got := MonthYearKey(time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC)); got != "2025-01" {
		t.Fatalf("expected 2025-01, got %q", got)
	}
	if key, ok := MonthKeyOf("2024-11-02"); !ok || key != "2024-11" {
		t.Fatalf("expected 2024-11, got %q ok=%v", key, ok)
	}
	if _, ok := MonthKeyOf("11/02/2024"); ok {
		t.Fatalf("expected unparsable date to be rejected")
	}
	if got := MonthLabel("2025-03"); got != "March 2025" {
		t.Fatalf("expected March 2025, got %q", got)
	}
	if got := MonthLabel("bogus"); got != "bogus" {
		t.Fatalf("unparsable key should pass through, got %q", got)
	}
}

func TestEndOfDay(t *testing.T) {
	got := EndOfDay(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC))
	want := time.Date(2025, 6, 1, 23, 59, 59, 999000000, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestClassify(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 0, 0, 0, time.UTC)
	cases := []struct {
		t    time.Time
		want Tense
	}{
		{time.Date(2025, 6, 14, 23, 59, 0, 0, time.UTC), Past},
		{time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), Today},
		{time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC), Today},
		{time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), Future},
	}
	for _, tc := range cases {
		if got := Classify(tc.t, now); got != tc.want {
			t.Fatalf("Classify(%v) expected %v, got %v", tc.t, tc.want, got)
		}
	}
}
