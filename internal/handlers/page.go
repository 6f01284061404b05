package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"superstore-dashboard/internal/errors"
	"superstore-dashboard/internal/models"
	"superstore-dashboard/internal/observability"
	"superstore-dashboard/internal/services"
	"superstore-dashboard/internal/ui/templates"
)

const renderTimeout = 10 * time.Second

type PageHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewPageHandlers(dashboard *services.Dashboard, logger *slog.Logger) *PageHandlers {
	return &PageHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

// HandleDashboard renders the page with every region and category selected.
func (h *PageHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()
	requestID := observability.GetRequestID(ctx)

	sel := models.Selection{}
	view, err := h.dashboard.View(ctx, sel)
	if err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "failed to compute view"), requestID)
		return
	}

	page := templates.Page{
		Options:  h.dashboard.Options(),
		View:     view,
		Charts:   chartPanels(sel),
		ColorBar: colorBar(view),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", cacheMaxAge)
	if err := templates.Dashboard(page).Render(ctx, w); err != nil {
		h.logger.Error("render dashboard", "error", err, "request_id", requestID)
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}
