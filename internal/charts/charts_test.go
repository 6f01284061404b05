package charts

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"superstore-dashboard/internal/models"
)

func sampleView() *models.View {
	return &models.View{
		StateSales: []models.StateSales{
			{State: "California", Sales: decimal.NewFromInt(1200)},
			{State: "Texas", Sales: decimal.NewFromInt(800)},
		},
		CategorySales: []models.CategorySales{
			{Category: "Furniture", Sales: decimal.NewFromInt(1300), Share: 65},
			{Category: "Technology", Sales: decimal.NewFromInt(700), Share: 35},
		},
		MonthlySales: []models.MonthlySales{
			{Month: "2017-01", Sales: decimal.NewFromInt(500)},
			{Month: "2017-03", Sales: decimal.NewFromInt(1500)},
		},
		Scatter: []models.ScatterPoint{
			{Discount: 0, Profit: 40, Sales: 200},
			{Discount: 0.2, Profit: -15, Sales: 900},
			{Discount: 0.45, Profit: -380, Sales: 950},
		},
	}
}

func TestRender_AllCharts(t *testing.T) {
	r := NewRenderer(640, 400)
	view := sampleView()

	for _, name := range Names {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := r.Render(name, &buf, view); err != nil {
				t.Fatalf("Render(%s) error = %v", name, err)
			}
			out := buf.String()
			if !strings.HasPrefix(out, "<svg") {
				t.Errorf("expected svg output, got %.40q", out)
			}
			if strings.Contains(out, noDataMessage) {
				t.Error("non-empty view rendered the placeholder")
			}
		})
	}
}

func TestRender_Labels(t *testing.T) {
	r := NewRenderer(640, 400)
	view := sampleView()

	var buf bytes.Buffer
	if err := r.Render(CategoryShare, &buf, view); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Furniture 65.0%") {
		t.Error("pie labels should carry the category share")
	}

	buf.Reset()
	if err := r.Render(MonthlySales, &buf, view); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "2017-03") {
		t.Error("line chart should label months")
	}
}

func TestRender_EmptyView(t *testing.T) {
	r := NewRenderer(640, 400)
	empty := &models.View{}

	for _, name := range Names {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := r.Render(name, &buf, empty); err != nil {
				t.Fatalf("Render(%s) on empty view error = %v", name, err)
			}
			if !strings.Contains(buf.String(), noDataMessage) {
				t.Error("expected placeholder for empty view")
			}
		})
	}
}

func TestRender_SingleValues(t *testing.T) {
	r := NewRenderer(640, 400)
	view := &models.View{
		StateSales:    []models.StateSales{{State: "Utah", Sales: decimal.NewFromInt(10)}},
		CategorySales: []models.CategorySales{{Category: "X", Sales: decimal.NewFromInt(10), Share: 100}},
		MonthlySales:  []models.MonthlySales{{Month: "2017-01", Sales: decimal.NewFromInt(10)}},
		Scatter:       []models.ScatterPoint{{Discount: 0, Profit: 0, Sales: 10}},
	}

	for _, name := range Names {
		var buf bytes.Buffer
		if err := r.Render(name, &buf, view); err != nil {
			t.Errorf("Render(%s) with one value error = %v", name, err)
		}
	}
}

func TestMonthlySales_SingleMonth(t *testing.T) {
	r := NewRenderer(640, 400)

	var buf bytes.Buffer
	err := r.MonthlySales(&buf, []models.MonthlySales{{Month: "2023-01", Sales: decimal.NewFromInt(150)}})
	if err != nil {
		t.Fatalf("MonthlySales() error = %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<svg") {
		t.Errorf("expected svg output, got %.40q", out)
	}
	if !strings.Contains(out, "2023-01") {
		t.Error("single month label missing")
	}
}

func TestCategoryShare_SharesOverDrawnSlices(t *testing.T) {
	r := NewRenderer(640, 400)

	var buf bytes.Buffer
	err := r.CategoryShare(&buf, []models.CategorySales{
		{Category: "Furniture", Sales: decimal.NewFromInt(-50), Share: -100},
		{Category: "Technology", Sales: decimal.NewFromInt(100), Share: 200},
	})
	if err != nil {
		t.Fatalf("CategoryShare() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Technology 100.0%") {
		t.Error("drawn slice should be labelled with its share of the drawn total")
	}
	if strings.Contains(out, "Furniture") {
		t.Error("category with negative sales should not be drawn")
	}
}

func TestRender_ZeroSalesPie(t *testing.T) {
	r := NewRenderer(640, 400)

	var buf bytes.Buffer
	err := r.CategoryShare(&buf, []models.CategorySales{{Category: "X", Sales: decimal.Zero}})
	if err != nil {
		t.Fatalf("CategoryShare() error = %v", err)
	}
	if !strings.Contains(buf.String(), noDataMessage) {
		t.Error("zero total should render the placeholder")
	}
}

func TestRender_UnknownChart(t *testing.T) {
	err := NewRenderer(640, 400).Render("bogus", &bytes.Buffer{}, sampleView())
	if !errors.Is(err, ErrUnknownChart) {
		t.Errorf("expected ErrUnknownChart, got %v", err)
	}
}

func TestColorBar(t *testing.T) {
	stops := ColorBar(10, 110, 5)
	if len(stops) != 5 {
		t.Fatalf("expected 5 stops, got %d", len(stops))
	}
	if stops[0].Offset != 0 || stops[4].Offset != 1 {
		t.Errorf("offsets = %v .. %v", stops[0].Offset, stops[4].Offset)
	}
	if stops[2].Value != 60 {
		t.Errorf("middle stop value = %v, want 60", stops[2].Value)
	}
	if stops[0].Color == stops[4].Color {
		t.Error("ends of the scale should differ")
	}
	if !strings.HasPrefix(stops[0].Color, "rgba(") {
		t.Errorf("expected css color, got %q", stops[0].Color)
	}

	flat := ColorBar(5, 5, 1)
	if len(flat) != 2 || flat[1].Value <= flat[0].Value {
		t.Errorf("degenerate range not widened: %+v", flat)
	}
}

func TestViridisColor_Clamps(t *testing.T) {
	if ViridisColor(-50, 0, 100) != ViridisColor(0, 0, 100) {
		t.Error("values below the range should clamp to the low end")
	}
	if ViridisColor(500, 0, 100) != ViridisColor(100, 0, 100) {
		t.Error("values above the range should clamp to the high end")
	}
}

func TestPaddedRange(t *testing.T) {
	lo, hi := paddedRange([]float64{5, 5}, false)
	if hi <= lo {
		t.Errorf("range must have a positive delta, got %v..%v", lo, hi)
	}

	lo, hi = paddedRange([]float64{10, 20}, true)
	if lo != 0 || hi <= 20 {
		t.Errorf("zero anchored range = %v..%v", lo, hi)
	}
}

func TestRender_EscapesLabels(t *testing.T) {
	var buf bytes.Buffer
	err := NewRenderer(640, 400).StateSales(&buf, []models.StateSales{
		{State: "Rock & Roll", Sales: decimal.NewFromInt(5)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "Rock & Roll") {
		t.Error("labels must be escaped in svg output")
	}
}
