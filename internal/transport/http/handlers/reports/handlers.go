package reportshandler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"opsboard/internal/domain/reports"
	"opsboard/internal/transport/http/api"
	"opsboard/internal/transport/http/middleware"
)

type Handler struct {
	Service *reports.Service
}

func NewHandler(service *reports.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/timesheet/{employeeID}/{year}/{month}", h.handleTimesheet)
		r.Get("/timesheet/{employeeID}/{year}/{month}/pdf", h.handleTimesheetPDF)
	})
}

func (h *Handler) monthly(w http.ResponseWriter, r *http.Request) (*reports.MonthlySummary, bool) {
	requestID := middleware.GetRequestID(r.Context())
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_year", "year must be a number", requestID)
		return nil, false
	}
	monthNum, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		api.Fail(w, http.StatusBadRequest, "invalid_month", "month must be 1-12", requestID)
		return nil, false
	}

	summary, err := h.Service.Monthly(r.Context(), chi.URLParam(r, "employeeID"), year, time.Month(monthNum))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "timesheet_failed", "failed to build timesheet", requestID)
		return nil, false
	}
	return summary, true
}

func (h *Handler) handleTimesheet(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.monthly(w, r)
	if !ok {
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTimesheetPDF(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.monthly(w, r)
	if !ok {
		return
	}
	pdfBytes, err := reports.RenderTimesheetPDF(summary)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "timesheet_pdf_failed", "failed to render timesheet", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=timesheet.pdf")
	_, _ = w.Write(pdfBytes)
}
