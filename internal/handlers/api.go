package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"superstore-dashboard/internal/errors"
	"superstore-dashboard/internal/format"
	"superstore-dashboard/internal/models"
	"superstore-dashboard/internal/observability"
	"superstore-dashboard/internal/services"
)

const cacheMaxAge = "public, max-age=300"

var cacheHeaders = map[string]string{
	"Cache-Control": cacheMaxAge,
}

type APIHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewAPIHandlers(dashboard *services.Dashboard, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

type totalsResponse struct {
	Sales         decimal.Decimal `json:"sales"`
	Profit        decimal.Decimal `json:"profit"`
	Records       int             `json:"records"`
	SalesDisplay  string          `json:"sales_display"`
	ProfitDisplay string          `json:"profit_display"`
}

func newTotalsResponse(t models.Totals) totalsResponse {
	return totalsResponse{
		Sales:         t.Sales,
		Profit:        t.Profit,
		Records:       t.Records,
		SalesDisplay:  format.Currency(t.Sales),
		ProfitDisplay: format.Currency(t.Profit),
	}
}

// view computes the view for the request's region/category query, writing
// the error response itself when that fails.
func (h *APIHandlers) view(w http.ResponseWriter, r *http.Request) (*models.View, bool) {
	view, err := h.dashboard.View(r.Context(), selectionFromQuery(r))
	if err != nil {
		requestID := observability.GetRequestID(r.Context())
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "failed to compute view"), requestID)
		return nil, false
	}
	return view, true
}

func (h *APIHandlers) HandleView(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}

	data := struct {
		*models.View
		Totals totalsResponse `json:"totals"`
	}{
		View:   view,
		Totals: newTotalsResponse(view.Totals),
	}
	errors.WriteSuccessWithHeaders(w, h.logger, data, cacheHeaders)
}

func (h *APIHandlers) HandleStateSales(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}
	errors.WriteSuccessWithHeaders(w, h.logger, view.StateSales, cacheHeaders)
}

func (h *APIHandlers) HandleCategorySales(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}
	errors.WriteSuccessWithHeaders(w, h.logger, view.CategorySales, cacheHeaders)
}

func (h *APIHandlers) HandleMonthlySales(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}
	errors.WriteSuccessWithHeaders(w, h.logger, view.MonthlySales, cacheHeaders)
}

func (h *APIHandlers) HandleTotals(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}
	errors.WriteSuccessWithHeaders(w, h.logger, newTotalsResponse(view.Totals), cacheHeaders)
}

func (h *APIHandlers) HandlePreview(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}
	errors.WriteSuccessWithHeaders(w, h.logger, view.Preview, cacheHeaders)
}

func (h *APIHandlers) HandleOptions(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.logger, h.dashboard.Options(), cacheHeaders)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
		"records":   h.dashboard.Stats().Dataset.Rows,
	}

	errors.WriteSuccess(w, h.logger, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.logger, h.dashboard.Stats())
}

func selectionFromQuery(r *http.Request) models.Selection {
	return models.SelectionFromValues(r.URL.Query())
}
