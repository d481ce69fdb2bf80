package attendancehandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"opsboard/internal/domain/attendance"
	"opsboard/internal/transport/http/api"
	"opsboard/internal/transport/http/middleware"
)

type Handler struct {
	Service *attendance.Service
}

func NewHandler(service *attendance.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.Get("/{employeeID}", h.handleListSessions)
		r.Get("/{employeeID}/{date}", h.handleGetSession)
		r.Post("/{employeeID}/{date}/start", h.handleStart)
		r.Post("/{employeeID}/{date}/break", h.handleBreak)
		r.Post("/{employeeID}/{date}/resume", h.handleResume)
		r.Post("/{employeeID}/{date}/end", h.handleEnd)
	})
}

// sessionResponse carries the stored record plus live worked/break seconds
// valued at response time, so the working view ticks on every poll.
type sessionResponse struct {
	attendance.WorkSession
	WorkedSeconds int64 `json:"workedSeconds"`
	BreakSeconds  int64 `json:"breakSeconds"`
}

func toResponse(session *attendance.WorkSession) sessionResponse {
	now := time.Now()
	return sessionResponse{
		WorkSession:   *session,
		WorkedSeconds: attendance.WorkedSeconds(session.Segments, now),
		BreakSeconds:  attendance.BreakSeconds(session.Segments, now),
	}
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.Service.Session(r.Context(), chi.URLParam(r, "employeeID"), chi.URLParam(r, "date"))
	if err != nil {
		failSession(w, r, err)
		return
	}
	api.Success(w, toResponse(session), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	sessions, err := h.Service.Sessions(r.Context(), chi.URLParam(r, "employeeID"), from, to)
	if err != nil {
		failSession(w, r, err)
		return
	}
	out := make([]sessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, toResponse(&sessions[i]))
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	session, err := h.Service.Start(r.Context(), chi.URLParam(r, "employeeID"), chi.URLParam(r, "date"))
	if err != nil {
		failSession(w, r, err)
		return
	}
	api.Success(w, toResponse(session), middleware.GetRequestID(r.Context()))
}

type breakRequest struct {
	BreakType string `json:"breakType"`
	Note      string `json:"note"`
}

func (h *Handler) handleBreak(w http.ResponseWriter, r *http.Request) {
	var payload breakRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.BreakType == "" {
		payload.BreakType = attendance.BreakShort
	}
	session, err := h.Service.Break(r.Context(), chi.URLParam(r, "employeeID"), chi.URLParam(r, "date"), payload.BreakType, payload.Note)
	if err != nil {
		failSession(w, r, err)
		return
	}
	api.Success(w, toResponse(session), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleResume(w http.ResponseWriter, r *http.Request) {
	session, err := h.Service.Resume(r.Context(), chi.URLParam(r, "employeeID"), chi.URLParam(r, "date"))
	if err != nil {
		failSession(w, r, err)
		return
	}
	api.Success(w, toResponse(session), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEnd(w http.ResponseWriter, r *http.Request) {
	session, err := h.Service.End(r.Context(), chi.URLParam(r, "employeeID"), chi.URLParam(r, "date"))
	if err != nil {
		failSession(w, r, err)
		return
	}
	api.Success(w, toResponse(session), middleware.GetRequestID(r.Context()))
}

func failSession(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, attendance.ErrInvalidDate):
		api.Fail(w, http.StatusBadRequest, "invalid_date", err.Error(), requestID)
	case errors.Is(err, attendance.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", err.Error(), requestID)
	case errors.Is(err, attendance.ErrTransitionConflict):
		api.Fail(w, http.StatusConflict, "transition_conflict", "a concurrent update won; re-fetch and retry", requestID)
	case errors.Is(err, attendance.ErrSessionNotFound):
		api.Fail(w, http.StatusNotFound, "session_not_found", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "attendance_failed", "attendance operation failed", requestID)
	}
}
