// Package http exposes the booking tracker as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"eventbook/internal/analytics"
	"eventbook/internal/calendar"
	"eventbook/internal/core"
	"eventbook/internal/daterange"
	"eventbook/internal/icsfeed"
	"eventbook/internal/log"
	"eventbook/internal/middleware/ratelimit"
	"eventbook/internal/middleware/security"
	"eventbook/internal/services"
)

// Dashboard is the read side used by the dashboard and calendar routes.
type Dashboard interface {
	Report(ctx context.Context, q daterange.Query) (analytics.Report, error)
	Compare(ctx context.Context, q daterange.Query, from, to string) (analytics.Comparison, error)
	Calendar(ctx context.Context, mode calendar.ViewMode, ref string, statuses ...core.Status) (services.CalendarView, error)
	Day(ctx context.Context, date string) (services.DayView, error)
}

// Bookings is the write side plus filtered listings.
type Bookings interface {
	ListEvents(ctx context.Context, query string, statuses ...core.Status) ([]core.Event, error)
	CreateEvent(ctx context.Context, e core.Event) (core.Event, error)
	UpdateEvent(ctx context.Context, id string, e core.Event) (core.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	ListNotes(ctx context.Context) ([]core.CalendarNote, error)
	CreateNote(ctx context.Context, n core.CalendarNote) (core.CalendarNote, error)
	UpdateNote(ctx context.Context, id string, n core.CalendarNote) (core.CalendarNote, error)
	DeleteNote(ctx context.Context, id string) error
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wraps http.Server with the API router.
type Server struct {
	http.Server

	dashboard Dashboard
	bookings  Bookings
	pinger    Pinger
	feed      *icsfeed.Feed
	logger    *log.Logger

	limiter    *ratelimit.Limiter
	ipResolver *security.IPResolver
	writeRPM   int
	started    time.Time

	shutdownOnce sync.Once
}

type Option func(*Server)

// WithPinger makes /readyz check p.
func WithPinger(p Pinger) Option {
	return func(s *Server) { s.pinger = p }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithFeed replaces the default iCalendar feed renderer.
func WithFeed(f *icsfeed.Feed) Option {
	return func(s *Server) { s.feed = f }
}

// WithWriteLimit caps mutating requests per client per minute.
func WithWriteLimit(rpm int) Option {
	return func(s *Server) { s.writeRPM = rpm }
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, dashboard Dashboard, bookings Bookings, opts ...Option) *Server {
	s := &Server{
		dashboard:  dashboard,
		bookings:   bookings,
		logger:     log.New(log.DefaultConfig()),
		ipResolver: security.NewIPResolver(),
		writeRPM:   ratelimit.DefaultConfig().RequestsPerMinute,
		started:    time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.feed == nil {
		s.feed = icsfeed.New(time.Local, time.Now)
	}
	s.logger = s.logger.WithComponent(log.ComponentHTTP)
	s.limiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: s.writeRPM})

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(log.Middleware(s.logger))
	r.Use(log.AccessLog)
	r.Use(chimw.Recoverer)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(log.ComponentMiddleware(log.ComponentDashboard))
			r.Get("/dashboard", s.handleDashboard)
			r.Get("/dashboard/compare", s.handleCompare)
			r.Get("/calendar", s.handleCalendar)
			r.Get("/calendar/day/{date}", s.handleDay)
			r.Get("/calendar.ics", s.handleICS)
		})

		r.Group(func(r chi.Router) {
			r.Use(log.ComponentMiddleware(log.ComponentBooking))
			r.Get("/events", s.handleListEvents)
			r.Get("/notes", s.handleListNotes)

			r.Group(func(r chi.Router) {
				r.Use(s.limiter.Middleware(s.ipResolver.ClientIP, s.rateLimited))
				r.Post("/events", s.handleCreateEvent)
				r.Put("/events/{id}", s.handleUpdateEvent)
				r.Delete("/events/{id}", s.handleDeleteEvent)
				r.Post("/notes", s.handleCreateNote)
				r.Put("/notes/{id}", s.handleUpdateNote)
				r.Delete("/notes/{id}", s.handleDeleteNote)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Shutdown stops accepting requests and the limiter sweeper.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
