package core

import "testing"

func TestEventValidate(t *testing.T) {
	good := Event{Status: Upcoming, EventDate: "2025-03-01", StartTime: "09:00", EndTime: "17:30"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	undated := Event{Status: Pending}
	if err := undated.Validate(); err != nil {
		t.Fatalf("undated pending event should be valid, got %v", err)
	}

	bads := []struct {
		e   Event
		err error
	}{
		{Event{Status: "cancelled"}, ErrInvalidStatus},
		{Event{Status: Finished, EventDate: "2025-13-01"}, ErrInvalidDate},
		{Event{Status: Finished, EventDate: "2025-03-01", StartTime: "25:00"}, ErrInvalidTime},
		{Event{Status: Finished, EventDate: "2025-03-01", EndTime: "noon"}, ErrInvalidTime},
	}
	for i, tc := range bads {
		if err := tc.e.Validate(); err != tc.err {
			t.Fatalf("case %d expected %v, got %v", i, tc.err, err)
		}
	}
}

func TestCalendarNoteValidate(t *testing.T) {
	cases := []struct {
		n   CalendarNote
		err error
	}{
		{CalendarNote{Title: "Walkthrough", Date: "2025-03-04"}, nil},
		{CalendarNote{Title: "Walkthrough", Date: "2025-03-04", Color: "green"}, nil},
		{CalendarNote{Title: "  ", Date: "2025-03-04"}, ErrEmptyTitle},
		{CalendarNote{Title: "x", Date: ""}, ErrInvalidDate},
		{CalendarNote{Title: "x", Date: "2025-03-04", Color: "chartreuse"}, ErrInvalidColor},
	}
	for i, tc := range cases {
		if err := tc.n.Validate(); err != tc.err {
			t.Fatalf("case %d expected %v, got %v", i, tc.err, err)
		}
	}
}

func TestVenueAndClientDefaults(t *testing.T) {
	e := Event{ClientName: "  Acme ", BuildingArea: ""}
	if e.Client() != "Acme" {
		t.Fatalf("expected trimmed client, got %q", e.Client())
	}
	if e.Venue() != UnknownVenue {
		t.Fatalf("expected %q, got %q", UnknownVenue, e.Venue())
	}
	if (Event{ClientName: "\t"}).Client() != UnnamedClient {
		t.Fatalf("blank client should be %q", UnnamedClient)
	}
}

func TestFilterAndSearch(t *testing.T) {
	events := []Event{
		{ID: "1", Status: Pending, ClientName: "Acme Corp", BuildingArea: "Hall A"},
		{ID: "2", Status: Finished, EventName: "Spring Gala", BuildingArea: "Garden"},
		{ID: "3", Status: Upcoming, ClientName: "Blue Co", BuildingArea: "hall b"},
	}
	if got := FilterByStatus(events, Finished, Upcoming); len(got) != 2 || got[0].ID != "2" || got[1].ID != "3" {
		t.Fatalf("unexpected status filter result: %+v", got)
	}
	if got := FilterByStatus(events); len(got) != 3 {
		t.Fatalf("no statuses should keep everything")
	}
	if got := Search(events, "HALL"); len(got) != 2 {
		t.Fatalf("expected 2 hall matches, got %d", len(got))
	}
	if got := Search(events, "gala"); len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("unexpected search result: %+v", got)
	}
}

func TestSortByDateTime(t *testing.T) {
	events := []Event{
		{ID: "undated"},
		{ID: "b-late", EventDate: "2025-02-01", StartTime: "18:00"},
		{ID: "a", EventDate: "2025-01-15", StartTime: "10:00"},
		{ID: "b-early", EventDate: "2025-02-01", StartTime: "08:00"},
		{ID: "b-allday", EventDate: "2025-02-01", AllDay: true},
	}
	SortByDateTime(events)
	want := []string{"a", "b-allday", "b-early", "b-late", "undated"}
	for i, id := range want {
		if events[i].ID != id {
			t.Fatalf("position %d expected %s, got %s", i, id, events[i].ID)
		}
	}
}
