package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"superstore-dashboard/internal/charts"
	"superstore-dashboard/internal/errors"
	"superstore-dashboard/internal/models"
	"superstore-dashboard/internal/observability"
	"superstore-dashboard/internal/services"
	"superstore-dashboard/internal/ui/templates"
)

const colorBarSteps = 8

type SSEHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewSSEHandlers(dashboard *services.Dashboard, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

// viewSignals are the Datastar signals bound to the two filter selects. A
// signal that was never sent leaves its dimension unrestricted.
type viewSignals struct {
	Regions    []string `json:"regions"`
	Categories []string `json:"categories"`
}

func (s viewSignals) selection() models.Selection {
	return models.Selection{Regions: s.Regions, Categories: s.Categories}
}

// HandleView recomputes the dashboard for the current filter signals and
// patches metrics, hints, colour bar, chart images and preview in place. The
// row and hint counts go back as signals for the elements bound to them.
func (h *SSEHandlers) HandleView(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	var signals viewSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "invalid signals"), requestID)
		return
	}
	sel := signals.selection()

	view, err := h.dashboard.View(r.Context(), sel)
	if err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "failed to compute view"), requestID)
		return
	}

	fragments, err := renderFragments(r.Context(), view, sel)
	if err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "failed to render view"), requestID)
		return
	}

	sse := datastar.NewSSE(w, r)
	for _, fragment := range fragments {
		if err := sse.PatchElements(fragment); err != nil {
			h.logger.Warn("patch elements", "error", err, "request_id", requestID)
			return
		}
	}

	status, err := json.Marshal(templates.NewStatusSignals(view))
	if err != nil {
		h.logger.Error("marshal view signals", "error", err, "request_id", requestID)
		return
	}
	if err := sse.PatchSignals(status); err != nil {
		h.logger.Warn("patch signals", "error", err, "request_id", requestID)
	}
}

// renderFragments renders every element of the page that depends on the
// selection.
func renderFragments(ctx context.Context, view *models.View, sel models.Selection) ([]string, error) {
	components := []templ.Component{
		templates.Metrics(view.Totals),
		templates.Hints(view.Hints),
		templates.ColorBar(colorBar(view)),
		templates.Preview(view.Preview),
	}
	for _, panel := range chartPanels(sel) {
		components = append(components, templates.ChartImage(panel.Name, panel.Title, panel.Src))
	}

	fragments := make([]string, 0, len(components))
	var buf bytes.Buffer
	for _, c := range components {
		buf.Reset()
		if err := c.Render(ctx, &buf); err != nil {
			return nil, err
		}
		fragments = append(fragments, buf.String())
	}
	return fragments, nil
}

func colorBar(view *models.View) []charts.ColorStop {
	if len(view.Scatter) == 0 {
		return nil
	}
	lo, hi := charts.SalesBounds(view.Scatter)
	return charts.ColorBar(lo, hi, colorBarSteps)
}
