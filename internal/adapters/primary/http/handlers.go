package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/githubixx/nextpvr-go/internal/application/services"
	"github.com/githubixx/nextpvr-go/internal/domain"
	"github.com/githubixx/nextpvr-go/internal/infrastructure/logging"
)

// Pinger reports whether the backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the JSON API
type Handler struct {
	logger           zerolog.Logger
	backend          Pinger
	recordingService *services.RecordingService
	timerService     *services.TimerService
	dashboard        *services.DashboardService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	logger zerolog.Logger,
	backend Pinger,
	recordingService *services.RecordingService,
	timerService *services.TimerService,
	dashboard *services.DashboardService,
) *Handler {
	return &Handler{
		logger:           logger,
		backend:          backend,
		recordingService: recordingService,
		timerService:     timerService,
		dashboard:        dashboard,
	}
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// RecordingList returns recordings, optionally filtered by ?status=a,b and ordered by ?sort=.
func (h *Handler) RecordingList(w http.ResponseWriter, r *http.Request) {
	statuses, err := parseStatuses(r.URL.Query().Get("status"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	recordings, err := h.recordingService.GetAllRecordings(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	recordings = h.recordingService.FilterByStatus(recordings, statuses...)
	recordings = h.recordingService.SortRecordings(recordings, r.URL.Query().Get("sort"))

	writeJSON(w, http.StatusOK, recordings)
}

// RecordingRefresh drops the recording cache
func (h *Handler) RecordingRefresh(w http.ResponseWriter, r *http.Request) {
	h.recordingService.InvalidateCache()
	w.WriteHeader(http.StatusNoContent)
}

// TimerList returns pending timers ordered by start time
func (h *Handler) TimerList(w http.ResponseWriter, r *http.Request) {
	timers, err := h.timerService.GetAllTimers(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, timers)
}

// TimerConflicts returns overlapping timer pairs
func (h *Handler) TimerConflicts(w http.ResponseWriter, r *http.Request) {
	conflicts, err := h.timerService.CheckConflicts(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, conflicts)
}

// SeriesTimerList returns all series timers
func (h *Handler) SeriesTimerList(w http.ResponseWriter, r *http.Request) {
	series, err := h.timerService.GetSeriesTimers(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

// SeriesTimerTimers returns the timers spawned by one series timer
func (h *Handler) SeriesTimerTimers(w http.ResponseWriter, r *http.Request) {
	timers, err := h.timerService.TimersForSeries(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, timers)
}

// Summary returns list counts and the next upcoming timer
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboard.Summary(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Health reports whether NextPVR answers
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.backend.Ping(r.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseStatuses(raw string) ([]domain.RecordingStatus, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var statuses []domain.RecordingStatus
	for _, name := range strings.Split(raw, ",") {
		var st domain.RecordingStatus
		if err := st.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
			return nil, err
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorStatus(err)
	event := h.logger.Warn()
	if status >= http.StatusInternalServerError {
		event = h.logger.Error()
	}
	event.Err(err).Str(logging.FieldPath, r.URL.Path).Int(logging.FieldStatus, status).Msg("handler error")

	writeError(w, status, code, err.Error())
}

// errorStatus maps domain sentinels to HTTP. Failures talking to or
// decoding NextPVR are gateway errors.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrTimeout):
		return http.StatusGatewayTimeout, "upstream_timeout"
	case errors.Is(err, domain.ErrMalformedPayload), errors.Is(err, domain.ErrMalformedField):
		return http.StatusBadGateway, "upstream_malformed"
	case errors.Is(err, domain.ErrResponseTooLarge):
		return http.StatusBadGateway, "upstream_too_large"
	case errors.Is(err, domain.ErrConnection), errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrForbidden):
		return http.StatusBadGateway, "upstream_unavailable"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_input"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, errorResponse{Error: code, Detail: detail})
}
