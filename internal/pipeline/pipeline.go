// Package pipeline turns the loaded sales records and a Region/Category
// selection into the aggregates shown on the dashboard. Every function is a
// pure transformation; inputs are never modified.
package pipeline

import (
	"slices"

	"github.com/shopspring/decimal"

	"superstore-dashboard/internal/models"
)

const DefaultPreviewRows = 10

var hundred = decimal.NewFromInt(100)

// Filter keeps the records whose Region is in regions and whose Category is
// in categories, in source order. The returned records are copies.
func Filter(records []models.SalesRecord, regions, categories []string) []models.SalesRecord {
	if len(regions) == 0 || len(categories) == 0 {
		return []models.SalesRecord{}
	}

	regionSet := toSet(regions)
	categorySet := toSet(categories)

	out := make([]models.SalesRecord, 0, len(records))
	for _, rec := range records {
		if _, ok := regionSet[rec.Region]; !ok {
			continue
		}
		if _, ok := categorySet[rec.Category]; !ok {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// DeriveMonths sets Month on every record of a filtered view.
func DeriveMonths(records []models.SalesRecord) {
	for i := range records {
		records[i].Month = models.MonthKey(records[i].OrderDate)
	}
}

// AggregateByState sums Sales per State, ordered by State. States without
// records are omitted.
func AggregateByState(records []models.SalesRecord) []models.StateSales {
	keys, sums := sumSalesBy(records, func(r models.SalesRecord) string { return r.State })

	result := make([]models.StateSales, 0, len(keys))
	for _, k := range keys {
		result = append(result, models.StateSales{State: k, Sales: sums[k]})
	}
	return result
}

// AggregateByCategory sums Sales per Category, ordered by Category, with each
// row's percentage of the total.
func AggregateByCategory(records []models.SalesRecord) []models.CategorySales {
	keys, sums := sumSalesBy(records, func(r models.SalesRecord) string { return r.Category })

	total := decimal.Zero
	for _, k := range keys {
		total = total.Add(sums[k])
	}

	result := make([]models.CategorySales, 0, len(keys))
	for _, k := range keys {
		result = append(result, models.CategorySales{
			Category: k,
			Sales:    sums[k],
			Share:    Share(sums[k], total),
		})
	}
	return result
}

// AggregateByMonth sums Sales per month key in chronological order. Months
// without records are omitted.
func AggregateByMonth(records []models.SalesRecord) []models.MonthlySales {
	keys, sums := sumSalesBy(records, monthOf)

	result := make([]models.MonthlySales, 0, len(keys))
	for _, k := range keys {
		result = append(result, models.MonthlySales{Month: k, Sales: sums[k]})
	}
	return result
}

// ComputeTotals sums Sales and Profit over the whole view.
func ComputeTotals(records []models.SalesRecord) models.Totals {
	totals := models.Totals{Sales: decimal.Zero, Profit: decimal.Zero}
	for _, rec := range records {
		totals.Sales = totals.Sales.Add(rec.Sales)
		totals.Profit = totals.Profit.Add(rec.Profit)
	}
	totals.Records = len(records)
	return totals
}

// Share returns part as a percentage of total, or 0 when total is zero.
func Share(part, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	return part.Div(total).Mul(hundred).InexactFloat64()
}

// Preview returns at most n leading records.
func Preview(records []models.SalesRecord, n int) []models.SalesRecord {
	if n < 0 {
		n = 0
	}
	if len(records) < n {
		n = len(records)
	}
	return slices.Clone(records[:n:n])
}

// ScatterPoints extracts the (discount, profit, sales) triples plotted on
// the profit vs discount chart.
func ScatterPoints(records []models.SalesRecord) []models.ScatterPoint {
	points := make([]models.ScatterPoint, 0, len(records))
	for _, rec := range records {
		points = append(points, models.ScatterPoint{
			Discount: rec.Discount.InexactFloat64(),
			Profit:   rec.Profit.InexactFloat64(),
			Sales:    rec.Sales.InexactFloat64(),
		})
	}
	return points
}

// Run filters records by the given, already resolved, selection and computes
// every aggregate of the view.
func Run(records []models.SalesRecord, sel models.Selection, previewRows int) *models.View {
	filtered := Filter(records, sel.Regions, sel.Categories)
	DeriveMonths(filtered)

	return &models.View{
		Selection:     sel,
		Totals:        ComputeTotals(filtered),
		StateSales:    AggregateByState(filtered),
		CategorySales: AggregateByCategory(filtered),
		MonthlySales:  AggregateByMonth(filtered),
		Scatter:       ScatterPoints(filtered),
		Preview:       Preview(filtered, previewRows),
	}
}

func sumSalesBy(records []models.SalesRecord, key func(models.SalesRecord) string) ([]string, map[string]decimal.Decimal) {
	sums := make(map[string]decimal.Decimal)
	for _, rec := range records {
		k := key(rec)
		sums[k] = sums[k].Add(rec.Sales)
	}

	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, sums
}

func monthOf(rec models.SalesRecord) string {
	if rec.Month != "" {
		return rec.Month
	}
	return models.MonthKey(rec.OrderDate)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
