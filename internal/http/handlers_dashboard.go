package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventbook/internal/calendar"
	"eventbook/internal/log"
)

// handleDashboard returns the full report for the requested range.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q, err := parseRangeQuery(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	report, err := s.dashboard.Report(r.Context(), q)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleCompare slices the monthly breakdown to from..to (YYYY-MM).
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	q, err := parseRangeQuery(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	cmp, err := s.dashboard.Compare(r.Context(), q, r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	statuses, err := parseStatuses(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	mode := calendar.ParseViewMode(r.URL.Query().Get("view"))
	view, err := s.dashboard.Calendar(r.Context(), mode, r.URL.Query().Get("date"), statuses...)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	log.FromContext(r.Context()).DebugContext(r.Context(), "Calendar rendered",
		log.FieldView, mode, "reference", view.Reference)
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	day, err := s.dashboard.Day(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// handleICS serves bookings as a subscribable iCalendar feed. Pending
// bookings are marked tentative.
func (s *Server) handleICS(w http.ResponseWriter, r *http.Request) {
	statuses, err := parseStatuses(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	events, err := s.bookings.ListEvents(r.Context(), "", statuses...)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="eventbook.ics"`)
	if err := s.feed.Write(w, events); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to write calendar feed", log.FieldError, err.Error())
	}
}
