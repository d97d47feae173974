package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"eventbook/internal/core"
	"eventbook/internal/daterange"
	"eventbook/internal/log"
	"eventbook/internal/records"
	"eventbook/internal/services"
)

const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeJSON reads a single JSON document from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadRequest)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after JSON body", errBadRequest)
	}
	return nil
}

// statusFor maps domain errors onto HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, records.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, services.ErrMissingID),
		errors.Is(err, daterange.ErrUnknownPreset):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrEmptyTitle),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidStatus),
		errors.Is(err, core.ErrInvalidTime),
		errors.Is(err, core.ErrInvalidColor):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs unexpected failures and hides their detail from clients.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed", log.FieldError, err.Error())
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func (s *Server) rateLimited(w http.ResponseWriter, r *http.Request, retry time.Duration) {
	secs := int(math.Ceil(retry.Seconds()))
	if secs < 1 {
		secs = 1
	}
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.ipResolver.ClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	w.Header().Set("Retry-After", strconv.Itoa(secs))
	writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
}

// parseStatuses accepts repeated or comma-separated status values. No
// values means no filter.
func parseStatuses(r *http.Request) ([]core.Status, error) {
	var out []core.Status
	for _, raw := range r.URL.Query()["status"] {
		for _, part := range strings.Split(raw, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			st, ok := core.ParseStatus(part)
			if !ok {
				return nil, fmt.Errorf("%w: unknown status %q", errBadRequest, part)
			}
			out = append(out, st)
		}
	}
	return out, nil
}

// parseRangeQuery reads preset, start and end. Blank preset means all time.
func parseRangeQuery(r *http.Request) (daterange.Query, error) {
	q := r.URL.Query()
	preset, ok := daterange.ParsePreset(q.Get("preset"))
	if !ok {
		return daterange.Query{}, fmt.Errorf("%w: %q", daterange.ErrUnknownPreset, q.Get("preset"))
	}
	return daterange.Query{
		Preset:      preset,
		CustomStart: strings.TrimSpace(q.Get("start")),
		CustomEnd:   strings.TrimSpace(q.Get("end")),
	}, nil
}
