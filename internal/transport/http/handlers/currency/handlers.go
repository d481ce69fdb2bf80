package currencyhandler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"opsboard/internal/domain/currency"
	"opsboard/internal/transport/http/api"
	"opsboard/internal/transport/http/middleware"
)

type Handler struct {
	Service *currency.Service
}

func NewHandler(service *currency.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/rates", func(r chi.Router) {
		r.Get("/", h.handleLatest)
		r.Get("/convert", h.handleConvert)
		r.Post("/refresh", h.handleRefresh)
	})
}

func (h *Handler) handleLatest(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.Service.Latest(r.Context())
	if err != nil {
		failRates(w, r, err)
		return
	}
	api.Success(w, snapshot, middleware.GetRequestID(r.Context()))
}

type conversionResponse struct {
	Amount    float64           `json:"amount"`
	From      currency.Currency `json:"from"`
	To        currency.Currency `json:"to"`
	Converted float64           `json:"converted"`
	Formatted string            `json:"formatted"`
}

func (h *Handler) handleConvert(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()

	amount, err := strconv.ParseFloat(query.Get("amount"), 64)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_amount", "amount must be a number", requestID)
		return
	}
	from, err := currency.Parse(query.Get("from"))
	if err != nil {
		failRates(w, r, err)
		return
	}
	to, err := currency.Parse(query.Get("to"))
	if err != nil {
		failRates(w, r, err)
		return
	}

	converted, err := h.Service.Convert(r.Context(), amount, from, to)
	if err != nil {
		failRates(w, r, err)
		return
	}
	api.Success(w, conversionResponse{
		Amount:    amount,
		From:      from,
		To:        to,
		Converted: converted,
		Formatted: currency.Format(converted, to),
	}, requestID)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.Service.Refresh(r.Context())
	if err != nil {
		api.Fail(w, http.StatusBadGateway, "rates_refresh_failed", err.Error(), middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, snapshot, middleware.GetRequestID(r.Context()))
}

func failRates(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, currency.ErrUnknownCurrency):
		api.Fail(w, http.StatusBadRequest, "unknown_currency", err.Error(), requestID)
	case errors.Is(err, currency.ErrRatesUnavailable):
		api.Fail(w, http.StatusServiceUnavailable, "rates_unavailable", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "rates_failed", "rates operation failed", requestID)
	}
}
