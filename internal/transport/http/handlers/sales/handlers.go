package saleshandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"opsboard/internal/domain/currency"
	"opsboard/internal/domain/sales"
	"opsboard/internal/transport/http/api"
	"opsboard/internal/transport/http/middleware"
	"opsboard/internal/transport/http/shared"
)

type Handler struct {
	Service *sales.Service
	Display currency.Currency
}

// NewHandler wires the sales reports; display is the fallback currency when
// the request does not pick one.
func NewHandler(service *sales.Service, display currency.Currency) *Handler {
	return &Handler{Service: service, Display: display}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sales", func(r chi.Router) {
		r.Post("/invoices", h.handleCreateInvoice)
		r.Post("/goals", h.handleCreateGoal)
		r.Get("/leaderboard", h.handleLeaderboard)
		r.Get("/goals/{goalID}/progress", h.handleGoalProgress)
	})
}

type invoicePayload struct {
	EmployeeID string  `json:"employeeId"`
	ClientName string  `json:"clientName"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	Status     string  `json:"status"`
	IssuedAt   string  `json:"issuedAt"`
}

func (h *Handler) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload invoicePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee id is required")
	v.Required("clientName", payload.ClientName, "client name is required")
	v.Positive("amount", payload.Amount)
	cur, _ := v.Currency("currency", payload.Currency)
	var issuedAt time.Time
	if payload.IssuedAt != "" {
		issuedAt, _ = v.Date("issuedAt", payload.IssuedAt)
	}
	if v.Reject(w, requestID) {
		return
	}

	id, err := h.Service.CreateInvoice(r.Context(), sales.Invoice{
		EmployeeID: payload.EmployeeID,
		ClientName: payload.ClientName,
		Amount:     payload.Amount,
		Currency:   cur,
		Status:     payload.Status,
		IssuedAt:   issuedAt,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "invoice_create_failed", "failed to create invoice", requestID)
		return
	}
	api.Created(w, map[string]string{"id": id}, requestID)
}

type goalPayload struct {
	EmployeeID   string  `json:"employeeId"`
	Name         string  `json:"name"`
	TargetAmount float64 `json:"targetAmount"`
	Currency     string  `json:"currency"`
	PeriodStart  string  `json:"periodStart"`
	PeriodEnd    string  `json:"periodEnd"`
}

func (h *Handler) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload goalPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee id is required")
	v.Required("name", payload.Name, "goal name is required")
	v.Positive("targetAmount", payload.TargetAmount)
	cur, _ := v.Currency("currency", payload.Currency)
	periodStart, _ := v.Date("periodStart", payload.PeriodStart)
	periodEnd, _ := v.Date("periodEnd", payload.PeriodEnd)
	if v.Reject(w, requestID) {
		return
	}

	id, err := h.Service.CreateGoal(r.Context(), sales.Goal{
		EmployeeID:   payload.EmployeeID,
		Name:         payload.Name,
		TargetAmount: payload.TargetAmount,
		Currency:     cur,
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
	})
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "goal_create_failed", err.Error(), requestID)
		return
	}
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()

	display := h.Display
	if raw := query.Get("currency"); raw != "" {
		parsed, err := currency.Parse(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "unknown_currency", err.Error(), requestID)
			return
		}
		display = parsed
	}

	now := time.Now().UTC()
	from := now.AddDate(0, -1, 0)
	to := now
	if raw := query.Get("from"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "from must be a valid date", requestID)
			return
		}
		from = parsed
	}
	if raw := query.Get("to"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "to must be a valid date", requestID)
			return
		}
		// Inclusive end of day.
		to = parsed.AddDate(0, 0, 1).Add(-time.Second)
	}

	entries, err := h.Service.Leaderboard(r.Context(), from, to, display)
	if err != nil {
		failSales(w, requestID, err)
		return
	}
	api.Success(w, entries, requestID)
}

func (h *Handler) handleGoalProgress(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	display := h.Display
	if raw := r.URL.Query().Get("currency"); raw != "" {
		parsed, err := currency.Parse(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "unknown_currency", err.Error(), requestID)
			return
		}
		display = parsed
	}

	progress, err := h.Service.Progress(r.Context(), chi.URLParam(r, "goalID"), display)
	if err != nil {
		failSales(w, requestID, err)
		return
	}
	api.Success(w, progress, requestID)
}

func failSales(w http.ResponseWriter, requestID string, err error) {
	switch {
	case errors.Is(err, sales.ErrGoalNotFound):
		api.Fail(w, http.StatusNotFound, "goal_not_found", err.Error(), requestID)
	case errors.Is(err, currency.ErrUnknownCurrency):
		api.Fail(w, http.StatusBadRequest, "unknown_currency", err.Error(), requestID)
	case errors.Is(err, currency.ErrRatesUnavailable):
		api.Fail(w, http.StatusServiceUnavailable, "rates_unavailable", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "sales_report_failed", "sales report failed", requestID)
	}
}
