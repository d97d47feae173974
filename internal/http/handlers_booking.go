package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"eventbook/internal/core"
)

// handleListEvents supports ?status= and free-text ?q=.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	statuses, err := parseStatuses(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	events, err := s.bookings.ListEvents(r.Context(), strings.TrimSpace(r.URL.Query().Get("q")), statuses...)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var e core.Event
	if err := decodeJSON(w, r, &e); err != nil {
		s.respondError(w, r, err)
		return
	}
	created, err := s.bookings.CreateEvent(r.Context(), e)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var e core.Event
	if err := decodeJSON(w, r, &e); err != nil {
		s.respondError(w, r, err)
		return
	}
	updated, err := s.bookings.UpdateEvent(r.Context(), chi.URLParam(r, "id"), e)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.bookings.DeleteEvent(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.bookings.ListNotes(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var n core.CalendarNote
	if err := decodeJSON(w, r, &n); err != nil {
		s.respondError(w, r, err)
		return
	}
	created, err := s.bookings.CreateNote(r.Context(), n)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var n core.CalendarNote
	if err := decodeJSON(w, r, &n); err != nil {
		s.respondError(w, r, err)
		return
	}
	updated, err := s.bookings.UpdateNote(r.Context(), chi.URLParam(r, "id"), n)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := s.bookings.DeleteNote(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
