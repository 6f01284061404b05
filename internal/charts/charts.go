// Package charts renders the dashboard charts as SVG.
package charts

import (
	"errors"
	"fmt"
	"html"
	"io"
	"math"

	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"superstore-dashboard/internal/format"
	"superstore-dashboard/internal/models"
	"superstore-dashboard/internal/pipeline"
)

const (
	StateSales     = "state-sales"
	ProfitDiscount = "profit-discount"
	CategoryShare  = "category-share"
	MonthlySales   = "monthly-sales"
)

// Names lists every chart in page order.
var Names = []string{StateSales, ProfitDiscount, CategoryShare, MonthlySales}

var ErrUnknownChart = errors.New("unknown chart")

const (
	noDataMessage = "No data for the current selection"
	dotWidth      = 4
)

type Renderer struct {
	width  int
	height int
}

func NewRenderer(width, height int) *Renderer {
	return &Renderer{width: width, height: height}
}

// Render writes the named chart for view to w.
func (r *Renderer) Render(name string, w io.Writer, view *models.View) error {
	switch name {
	case StateSales:
		return r.StateSales(w, view.StateSales)
	case ProfitDiscount:
		return r.ProfitDiscount(w, view.Scatter)
	case CategoryShare:
		return r.CategoryShare(w, view.CategorySales)
	case MonthlySales:
		return r.MonthlySales(w, view.MonthlySales)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}
}

// StateSales draws one bar per state with the state names rotated under the
// axis.
func (r *Renderer) StateSales(w io.Writer, rows []models.StateSales) error {
	if len(rows) == 0 {
		return r.placeholder(w)
	}

	bars := make([]chart.Value, 0, len(rows))
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		v := row.Sales.InexactFloat64()
		values = append(values, v)
		bars = append(bars, chart.Value{
			// svg text is written unescaped
			Label: html.EscapeString(row.State),
			Value: v,
			Style: chart.Style{FillColor: chart.ColorBlue, StrokeColor: chart.ColorBlue},
		})
	}

	lo, hi := paddedRange(values, true)
	graph := chart.BarChart{
		Width:        r.width,
		Height:       r.height,
		Background:   chart.Style{Padding: chart.Box{Top: 20, Left: 10, Right: 10, Bottom: 90}},
		BarSpacing:   2,
		BarWidth:     barWidth(r.width, len(rows)),
		UseBaseValue: true,
		BaseValue:    0,
		XAxis:        chart.Style{TextRotationDegrees: 90, FontSize: 7},
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: compactFormatter,
		},
		Bars: bars,
	}
	return render(graph.Render, w)
}

// ProfitDiscount draws Profit against Discount with each point coloured by
// its Sales on the viridis scale.
func (r *Renderer) ProfitDiscount(w io.Writer, points []models.ScatterPoint) error {
	if len(points) == 0 {
		return r.placeholder(w)
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	sales := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i], sales[i] = p.Discount, p.Profit, p.Sales
	}

	xlo, xhi := paddedRange(xs, true)
	ylo, yhi := paddedRange(ys, false)
	slo, shi := bounds(sales)

	byYSales := func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
		return ViridisColor(sales[index], slo, shi)
	}

	graph := chart.Chart{
		Width:  r.width,
		Height: r.height,
		XAxis: chart.XAxis{
			Name:           "Discount",
			Range:          &chart.ContinuousRange{Min: xlo, Max: xhi},
			ValueFormatter: percentFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Profit",
			Range:          &chart.ContinuousRange{Min: ylo, Max: yhi},
			ValueFormatter: compactFormatter,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style: chart.Style{
					StrokeWidth:      chart.Disabled,
					DotWidth:         dotWidth,
					DotColorProvider: byYSales,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return render(graph.Render, w)
}

// CategoryShare draws each category's share of sales with "Name 12.3%"
// labels. Categories with zero or negative sales cannot be drawn as slices,
// so the labelled shares are taken over the drawn slices only and sum to 100.
func (r *Renderer) CategoryShare(w io.Writer, rows []models.CategorySales) error {
	drawn := make([]models.CategorySales, 0, len(rows))
	total := decimal.Zero
	for _, row := range rows {
		if !row.Sales.IsPositive() {
			continue
		}
		drawn = append(drawn, row)
		total = total.Add(row.Sales)
	}
	if len(drawn) == 0 {
		return r.placeholder(w)
	}

	values := make([]chart.Value, 0, len(drawn))
	for _, row := range drawn {
		values = append(values, chart.Value{
			Label: html.EscapeString(row.Category + " " + format.Percent(pipeline.Share(row.Sales, total))),
			Value: row.Sales.InexactFloat64(),
		})
	}

	graph := chart.PieChart{
		Width:  r.width,
		Height: r.height,
		Values: values,
	}
	return render(graph.Render, w)
}

// MonthlySales draws a line with markers over the months present, in
// chronological order. Missing months are not interpolated as zero; the line
// simply joins the neighbouring months.
func (r *Renderer) MonthlySales(w io.Writer, rows []models.MonthlySales) error {
	if len(rows) == 0 {
		return r.placeholder(w)
	}

	xs := make([]float64, len(rows))
	ys := make([]float64, len(rows))
	ticks := make([]chart.Tick, len(rows))
	for i, row := range rows {
		xs[i] = float64(i)
		ys[i] = row.Sales.InexactFloat64()
		ticks[i] = chart.Tick{Value: float64(i), Label: row.Month}
	}
	// the axis range is taken from the ticks, so a single month would
	// otherwise leave it with zero width
	ticks = append([]chart.Tick{{Value: -0.5}}, ticks...)
	ticks = append(ticks, chart.Tick{Value: float64(len(rows)) - 0.5})

	lo, hi := paddedRange(ys, true)
	graph := chart.Chart{
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 10, Right: 20, Bottom: 40}},
		XAxis: chart.XAxis{
			Range:     &chart.ContinuousRange{Min: -0.5, Max: float64(len(rows)) - 0.5},
			Ticks:     ticks,
			TickStyle: chart.Style{TextRotationDegrees: 90, FontSize: 7},
		},
		YAxis: chart.YAxis{
			Name:           "Sales",
			Range:          &chart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: compactFormatter,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2,
					DotColor:    chart.ColorBlue,
					DotWidth:    3,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return render(graph.Render, w)
}

// placeholder draws an empty canvas carrying a notice, used when the
// selection leaves nothing to plot.
func (r *Renderer) placeholder(w io.Writer) error {
	font, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("load chart font: %w", err)
	}

	canvas, err := chart.SVG(r.width, r.height)
	if err != nil {
		return fmt.Errorf("create svg renderer: %w", err)
	}
	canvas.SetFont(font)
	canvas.SetFontSize(14)
	canvas.SetFontColor(chart.ColorAlternateGray)

	box := canvas.MeasureText(noDataMessage)
	canvas.Text(noDataMessage, (r.width-box.Width())/2, r.height/2)
	return canvas.Save(w)
}

func render(fn func(chart.RendererProvider, io.Writer) error, w io.Writer) error {
	if err := fn(chart.SVG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// ColorStop is one stop of the colour bar gradient.
type ColorStop struct {
	Offset float64 `json:"offset"`
	Value  float64 `json:"value"`
	Color  string  `json:"color"`
}

// ColorBar samples the viridis scale between min and max for the legend shown
// next to the scatter chart.
func ColorBar(lo, hi float64, steps int) []ColorStop {
	if steps < 2 {
		steps = 2
	}
	if hi <= lo {
		hi = lo + 1
	}

	stops := make([]ColorStop, steps)
	for i := range stops {
		offset := float64(i) / float64(steps-1)
		value := lo + offset*(hi-lo)
		stops[i] = ColorStop{
			Offset: offset,
			Value:  value,
			Color:  ViridisColor(value, lo, hi).String(),
		}
	}
	return stops
}

// SalesBounds returns the smallest and largest Sales of the scatter points.
func SalesBounds(points []models.ScatterPoint) (float64, float64) {
	sales := make([]float64, len(points))
	for i, p := range points {
		sales[i] = p.Sales
	}
	return bounds(sales)
}

// ViridisColor maps v into the viridis scale, clamping values outside
// [lo, hi].
func ViridisColor(v, lo, hi float64) drawing.Color {
	if hi <= lo {
		return chart.Viridis(0, 0, 1)
	}
	v = math.Max(lo, math.Min(hi, v))
	return chart.Viridis(v, lo, hi)
}

func bounds(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 1
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// paddedRange returns axis bounds around values that always have a positive
// delta. includeZero anchors the axis at zero.
func paddedRange(values []float64, includeZero bool) (float64, float64) {
	lo, hi := bounds(values)
	if includeZero {
		lo = math.Min(lo, 0)
		hi = math.Max(hi, 0)
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(hi)*0.05, 1)
	}
	if includeZero && lo == 0 {
		return 0, hi + pad
	}
	return lo - pad, hi + pad
}

func barWidth(width, bars int) int {
	usable := width - 80
	if bars == 0 || usable <= 0 {
		return chart.DefaultBarWidth
	}
	return max(2, min(chart.DefaultBarWidth, usable/bars-2))
}

func compactFormatter(v any) string {
	if f, ok := v.(float64); ok {
		return format.Compact(f)
	}
	return fmt.Sprint(v)
}

func percentFormatter(v any) string {
	if f, ok := v.(float64); ok {
		return format.Percent(f * 100)
	}
	return fmt.Sprint(v)
}
