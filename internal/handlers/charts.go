package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/wcharczuk/go-chart/v2"

	"superstore-dashboard/internal/charts"
	"superstore-dashboard/internal/errors"
	"superstore-dashboard/internal/models"
	"superstore-dashboard/internal/observability"
	"superstore-dashboard/internal/services"
	"superstore-dashboard/internal/ui/templates"
)

var chartTitles = map[string]string{
	charts.StateSales:     "Sales by State",
	charts.ProfitDiscount: "Profit vs Discount",
	charts.CategoryShare:  "Sales by Category",
	charts.MonthlySales:   "Monthly Sales Trend",
}

type ChartHandlers struct {
	dashboard *services.Dashboard
	renderer  *charts.Renderer
	logger    *slog.Logger
}

func NewChartHandlers(dashboard *services.Dashboard, renderer *charts.Renderer, logger *slog.Logger) *ChartHandlers {
	return &ChartHandlers{
		dashboard: dashboard,
		renderer:  renderer,
		logger:    logger,
	}
}

// HandleChart serves /charts/{file} where file is "<chart>.svg".
func (h *ChartHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	file := r.PathValue("file")
	name, ok := strings.CutSuffix(file, ".svg")
	if !ok || !slices.Contains(charts.Names, name) {
		errors.WriteError(w, h.logger, errors.NotFoundf("chart %q not found", file), requestID)
		return
	}

	ctx, span := observability.StartSpan(r.Context(), "charts.render")
	defer span.FinishAndLog(ctx, h.logger)
	span.SetTag("chart", name)

	view, err := h.dashboard.View(ctx, selectionFromQuery(r))
	if err != nil {
		span.SetError(err)
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "failed to compute view"), requestID)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(name, &buf, view); err != nil {
		span.SetError(err)
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "failed to render chart"), requestID)
		return
	}

	w.Header().Set("Content-Type", chart.ContentTypeSVG)
	w.Header().Set("Cache-Control", cacheMaxAge)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("write chart", "error", err, "request_id", requestID)
	}
}

// chartPanels lists the chart images for sel, in page order.
func chartPanels(sel models.Selection) []templates.ChartPanel {
	query := sel.Values().Encode()

	panels := make([]templates.ChartPanel, 0, len(charts.Names))
	for _, name := range charts.Names {
		src := "/charts/" + name + ".svg"
		if query != "" {
			src += "?" + query
		}
		panels = append(panels, templates.ChartPanel{
			Name:  name,
			Title: chartTitles[name],
			Src:   src,
		})
	}
	return panels
}
