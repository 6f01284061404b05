package main

import (
	"flag"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"superstore-dashboard/internal/models"
)

func testView() *models.View {
	day := time.Date(2017, 1, 5, 0, 0, 0, 0, time.UTC)
	return &models.View{
		Selection: models.Selection{Regions: []string{"West"}, Categories: []string{"Furniture"}},
		Totals:    models.Totals{Sales: decimal.RequireFromString("1234.5"), Profit: decimal.RequireFromString("-42.1"), Records: 2},
		StateSales: []models.StateSales{
			{State: "California", Sales: decimal.RequireFromString("1000")},
			{State: "Utah", Sales: decimal.RequireFromString("234.5")},
		},
		CategorySales: []models.CategorySales{
			{Category: "Furniture", Sales: decimal.RequireFromString("1234.5"), Share: 100},
		},
		MonthlySales: []models.MonthlySales{
			{Month: "2017-01", Sales: decimal.RequireFromString("1234.5")},
		},
		Preview: []models.SalesRecord{
			{OrderDate: day, Month: "2017-01", Region: "West", State: "California", Category: "Furniture",
				Sales: decimal.RequireFromString("1000"), Profit: decimal.RequireFromString("-50"), Discount: decimal.RequireFromString("0.2")},
		},
		Hints: []models.Hint{{Dimension: "region", Value: "Wset", Suggestion: "West"}},
	}
}

func TestRenderReport(t *testing.T) {
	var b strings.Builder
	if err := renderReport(&b, testView()); err != nil {
		t.Fatalf("renderReport() error = %v", err)
	}
	out := b.String()

	for _, want := range []string{
		"Superstore Dashboard",
		"Regions: West",
		"$1,234.50",
		"$-42.10",
		"California",
		"100.0%",
		"2017-01",
		"2017-01-05",
		`did you mean "West"?`,
		"Rows",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Orders") {
		t.Error("record count should be labelled as rows")
	}
}

func TestRenderReport_EmptySelection(t *testing.T) {
	view := &models.View{Selection: models.Selection{Regions: []string{}, Categories: []string{}}}

	var b strings.Builder
	if err := renderReport(&b, view); err != nil {
		t.Fatalf("renderReport() error = %v", err)
	}
	out := b.String()

	if !strings.Contains(out, "Regions: (none)") {
		t.Errorf("expected empty region selection to be described:\n%s", out)
	}
	if got := strings.Count(out, "No rows match the current selection."); got != 4 {
		t.Errorf("expected 4 empty tables, got %d", got)
	}
	if !strings.Contains(out, "$0.00") {
		t.Errorf("expected zero totals:\n%s", out)
	}
}

func TestSelectionFromFlags(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		wantRegions    []string
		wantCategories []string
	}{
		{"no flags", nil, nil, nil},
		{"comma list", []string{"-region", "West, East"}, []string{"West", "East"}, nil},
		{"blank selects none", []string{"-category="}, nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.String(models.RegionParam, "", "")
			fs.String(models.CategoryParam, "", "")
			if err := fs.Parse(tt.args); err != nil {
				t.Fatal(err)
			}

			sel := selectionFromFlags(fs)
			assertList(t, "regions", sel.Regions, tt.wantRegions)
			assertList(t, "categories", sel.Categories, tt.wantCategories)
		})
	}
}

func assertList(t *testing.T, name string, got, want []string) {
	t.Helper()
	if (got == nil) != (want == nil) {
		t.Fatalf("%s = %#v, want %#v", name, got, want)
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}
