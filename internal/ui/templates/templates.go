// Package templates holds the dashboard page and the fragments patched into
// it by the live update stream. The markup lives in the .templ files; run
// `templ generate` after editing them.
package templates

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"superstore-dashboard/internal/charts"
	"superstore-dashboard/internal/format"
	"superstore-dashboard/internal/models"
)

// Element ids patched by the live update stream.
const (
	MetricsID  = "metrics"
	PreviewID  = "preview"
	HintsID    = "hints"
	ColorBarID = "colorbar"
)

// ChartImageID is the id of the <img> showing the named chart.
func ChartImageID(name string) string {
	return "chart-" + name
}

// ChartPanel describes one chart section of the page.
type ChartPanel struct {
	Name  string
	Title string
	Src   string
}

// Page is everything the dashboard needs for its first render.
type Page struct {
	Options  models.Options
	View     *models.View
	Charts   []ChartPanel
	ColorBar []charts.ColorStop
}

// StatusSignals are the read-only signals the page displays: the number of
// rows behind the current view and how many filter values matched nothing.
type StatusSignals struct {
	Records int `json:"records"`
	Hints   int `json:"hints"`
}

func NewStatusSignals(view *models.View) StatusSignals {
	return StatusSignals{Records: view.Totals.Records, Hints: len(view.Hints)}
}

type pageSignals struct {
	Regions    []string `json:"regions"`
	Categories []string `json:"categories"`
	StatusSignals
}

func newPageSignals(page Page) pageSignals {
	return pageSignals{
		Regions:       page.Options.Regions,
		Categories:    page.Options.Categories,
		StatusSignals: NewStatusSignals(page.View),
	}
}

var previewHeaders = []string{"Order Date", "Month", "Region", "State", "Category", "Sales", "Profit", "Discount"}

func previewMonth(row models.SalesRecord) string {
	if row.Month != "" {
		return row.Month
	}
	return models.MonthKey(row.OrderDate)
}

func hintMessage(h models.Hint) string {
	msg := fmt.Sprintf("Unknown %s %q", h.Dimension, h.Value)
	if h.Suggestion != "" {
		msg += fmt.Sprintf(", did you mean %q?", h.Suggestion)
	}
	return msg
}

// gradientStyle paints the colour bar bottom to top. The stops come from
// charts.ColorBar, never from user input.
func gradientStyle(stops []charts.ColorStop) templ.SafeCSS {
	var b strings.Builder
	b.WriteString("background: linear-gradient(to top")
	for _, s := range stops {
		b.WriteString(", " + s.Color + " " + strconv.FormatFloat(s.Offset*100, 'f', 1, 64) + "%")
	}
	b.WriteString(");")
	return templ.SafeCSS(b.String())
}

func discountPercent(row models.SalesRecord) string {
	return format.Percent(row.Discount.InexactFloat64() * 100)
}
