package calendar

import (
	"testing"
	"time"

	"eventbook/internal/core"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMarch2025MonthlyGrid(t *testing.T) {
	g := Build(date(2025, 3, 18), Monthly, date(2025, 3, 10))
	if len(g.Weeks) != 6 {
		t.Fatalf("expected 6 weeks, got %d", len(g.Weeks))
	}
	first, last := g.Weeks[0][0], g.Weeks[5][6]
	if first.DateString != "2025-02-23" {
		t.Fatalf("expected grid to start 2025-02-23, got %s", first.DateString)
	}
	if last.DateString != "2025-04-05" {
		t.Fatalf("expected grid to end 2025-04-05, got %s", last.DateString)
	}
	if first.IsCurrentPeriod || last.IsCurrentPeriod {
		t.Fatalf("adjacent-month days must not be in the current period")
	}
	if !g.Weeks[1][0].IsCurrentPeriod { // 2025-03-02
		t.Fatalf("March days must be in the current period")
	}
	if g.Title() != "March 2025" {
		t.Fatalf("unexpected title %q", g.Title())
	}
}

func TestFebruary2015FitsFourWeeks(t *testing.T) {
	// Starts on Sunday, 28 days long.
	g := Build(date(2015, 2, 10), Monthly, date(2015, 2, 10))
	if len(g.Weeks) != 4 {
		t.Fatalf("expected 4 weeks, got %d", len(g.Weeks))
	}
	for _, c := range g.Days() {
		if !c.IsCurrentPeriod {
			t.Fatalf("%s should be in February", c.DateString)
		}
	}
}

func TestGridsAreContiguousWholeWeeks(t *testing.T) {
	start := date(2023, 1, 1)
	for i := 0; i < 3*366; i++ {
		ref := start.AddDate(0, 0, i)
		for _, mode := range []ViewMode{Monthly, Weekly} {
			g := Build(ref, mode, ref)
			days := g.Days()
			if len(days)%7 != 0 || len(days) == 0 {
				t.Fatalf("%s %v: %d days is not whole weeks", mode, ref, len(days))
			}
			if days[0].Date.Weekday() != time.Sunday {
				t.Fatalf("%s %v: grid starts on %v", mode, ref, days[0].Date.Weekday())
			}
			seen := map[string]bool{}
			for j, c := range days {
				if seen[c.DateString] {
					t.Fatalf("%s %v: %s repeated", mode, ref, c.DateString)
				}
				seen[c.DateString] = true
				if j > 0 && !c.Date.Equal(days[j-1].Date.AddDate(0, 0, 1)) {
					t.Fatalf("%s %v: gap before %s", mode, ref, c.DateString)
				}
			}
			if mode == Monthly {
				last := date(ref.Year(), ref.Month()+1, 1).AddDate(0, 0, -1)
				for d := date(ref.Year(), ref.Month(), 1); !d.After(last); d = d.AddDate(0, 0, 1) {
					if !seen[d.Format("2006-01-02")] {
						t.Fatalf("monthly grid for %v is missing %v", ref, d)
					}
				}
				if len(g.Weeks) > 6 {
					t.Fatalf("monthly grid for %v has %d weeks", ref, len(g.Weeks))
				}
			} else {
				if len(g.Weeks) != 1 || !seen[ref.Format("2006-01-02")] {
					t.Fatalf("weekly grid for %v must be the week containing it", ref)
				}
			}
		}
	}
}

func TestWeeklyGridFlags(t *testing.T) {
	now := time.Date(2025, 3, 5, 15, 0, 0, 0, time.UTC) // Wednesday
	g := Build(date(2025, 3, 5), Weekly, now)
	days := g.Days()
	if days[0].DateString != "2025-03-02" || days[6].DateString != "2025-03-08" {
		t.Fatalf("unexpected week %s..%s", days[0].DateString, days[6].DateString)
	}
	for i, c := range days {
		if !c.IsCurrentPeriod {
			t.Fatalf("weekly cells are all in period")
		}
		if c.IsToday != (i == 3) {
			t.Fatalf("%s today flag = %v", c.DateString, c.IsToday)
		}
		if c.IsPast != (i < 3) {
			t.Fatalf("%s past flag = %v", c.DateString, c.IsPast)
		}
	}
	if g.Title() != "Mar 2 – Mar 8, 2025" {
		t.Fatalf("unexpected title %q", g.Title())
	}

	crossYear := Build(date(2024, 12, 31), Weekly, now)
	if crossYear.Title() != "Dec 29, 2024 – Jan 4, 2025" {
		t.Fatalf("unexpected title %q", crossYear.Title())
	}
}

func TestNavigateMonthly(t *testing.T) {
	ref := date(2025, 1, 31)
	next := Next(ref, Monthly)
	if !next.Equal(date(2025, 2, 1)) {
		t.Fatalf("expected Feb 1, got %v", next)
	}
	if got := Next(next, Monthly); !got.Equal(date(2025, 3, 1)) {
		t.Fatalf("expected Mar 1, got %v", got)
	}
	if got := Previous(date(2025, 3, 31), Monthly); !got.Equal(date(2025, 2, 1)) {
		t.Fatalf("expected Feb 1, got %v", got)
	}
	if got := Previous(date(2025, 1, 15), Monthly); !got.Equal(date(2024, 12, 1)) {
		t.Fatalf("expected Dec 1 2024, got %v", got)
	}

	// Walking forward never skips or repeats a month.
	cur := date(2023, 12, 31)
	for i := 0; i < 48; i++ {
		nxt := Next(cur, Monthly)
		want := date(cur.Year(), cur.Month()+1, 1)
		if !nxt.Equal(want) {
			t.Fatalf("from %v expected %v, got %v", cur, want, nxt)
		}
		cur = nxt
	}
}

func TestNavigateWeekly(t *testing.T) {
	ref := date(2024, 2, 26)
	if got := Next(ref, Weekly); !got.Equal(date(2024, 3, 4)) {
		t.Fatalf("expected 2024-03-04 across leap day, got %v", got)
	}
	if got := Previous(ref, Weekly); !got.Equal(date(2024, 2, 19)) {
		t.Fatalf("expected 2024-02-19, got %v", got)
	}
	if got := Navigate(ref, Weekly, 3); !got.Equal(date(2024, 3, 18)) {
		t.Fatalf("expected 2024-03-18, got %v", got)
	}
}

func TestParseViewMode(t *testing.T) {
	if ParseViewMode("weekly") != Weekly || ParseViewMode("") != Monthly || ParseViewMode("daily") != Monthly {
		t.Fatalf("unexpected view mode parsing")
	}
}

func TestAttachByExactDateString(t *testing.T) {
	events := []core.Event{
		{ID: "a", EventDate: "2025-03-04"},
		{ID: "b", EventDate: "2025-03-04"},
		{ID: "c", EventDate: "2025-3-4"}, // not canonical, never matches
		{ID: "d"},
	}
	notes := []core.CalendarNote{
		{ID: "n1", Title: "Deposit due", Date: "2025-03-04"},
		{ID: "n2", Title: "Walkthrough", Date: "2025-03-10"},
	}
	ix := NewDayIndex(events, notes)

	if got := ix.EventsOn("2025-03-04"); len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("unexpected events: %+v", got)
	}
	if got := ix.EventsOn(""); len(got) != 0 {
		t.Fatalf("undated events must not be indexed")
	}

	g := Build(date(2025, 3, 1), Monthly, date(2025, 3, 1))
	g.Attach(ix)
	var total, noteTotal int
	for _, c := range g.Days() {
		if c.Events == nil || c.Notes == nil {
			t.Fatalf("%s: attached slices must be non-nil", c.DateString)
		}
		total += len(c.Events)
		noteTotal += len(c.Notes)
		if c.DateString == "2025-03-04" && (len(c.Events) != 2 || len(c.Notes) != 1) {
			t.Fatalf("2025-03-04 expected 2 events and 1 note, got %d/%d", len(c.Events), len(c.Notes))
		}
	}
	if total != 2 || noteTotal != 2 {
		t.Fatalf("expected 2 events and 2 notes attached, got %d/%d", total, noteTotal)
	}
}

func TestDayIndexIgnoresSurroundingWhitespace(t *testing.T) {
	ix := NewDayIndex(
		[]core.Event{{ID: "a", EventDate: " 2025-03-01"}, {ID: "b", EventDate: "  "}},
		[]core.CalendarNote{{ID: "n1", Title: "Setup", Date: "2025-03-01 "}},
	)
	if got := ix.EventsOn("2025-03-01"); len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("padded date should index under its trimmed value: %+v", got)
	}
	if got := ix.NotesOn("2025-03-01"); len(got) != 1 {
		t.Fatalf("padded note date should index under its trimmed value: %+v", got)
	}
	if got := ix.EventsOn(""); len(got) != 0 {
		t.Fatalf("blank dates must not be indexed: %+v", got)
	}
}
