package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"superstore-dashboard/internal/models"
)

const (
	colOrderDate   = "order date"
	colRegion      = "region"
	colCategory    = "category"
	colState       = "state"
	colSales       = "sales"
	colProfit      = "profit"
	colDiscount    = "discount"
	colOrderID     = "order id"
	colSegment     = "segment"
	colCity        = "city"
	colSubCategory = "sub-category"
	colProductName = "product name"
	colQuantity    = "quantity"
)

var requiredColumns = []string{
	colOrderDate, colRegion, colCategory, colState, colSales, colProfit, colDiscount,
}

// dateLayouts are tried in order; month-first wins for slash dates.
var dateLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"1/2/2006 15:04",
	time.RFC3339,
}

var discountMax = decimal.NewFromInt(1)

// columns maps normalized header names to field positions.
type columns map[string]int

func newColumns(header []string) columns {
	cols := make(columns, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	return cols
}

func (c columns) missing() []string {
	var out []string
	for _, name := range requiredColumns {
		if _, ok := c[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

func (c columns) get(fields []string, name string) (string, bool) {
	i, ok := c[name]
	if !ok || i >= len(fields) {
		return "", false
	}
	return strings.TrimSpace(fields[i]), true
}

// cellError ties a parse failure to its column.
type cellError struct {
	column string
	err    error
}

func (e *cellError) Error() string { return e.column + ": " + e.err.Error() }
func (e *cellError) Unwrap() error { return e.err }

func parseRecord(fields []string, cols columns) (models.SalesRecord, error) {
	var rec models.SalesRecord

	raw, _ := cols.get(fields, colOrderDate)
	date, err := ParseDate(raw)
	if err != nil {
		return rec, &cellError{column: colOrderDate, err: err}
	}
	rec.OrderDate = date

	rec.Region, _ = cols.get(fields, colRegion)
	rec.Category, _ = cols.get(fields, colCategory)
	rec.State, _ = cols.get(fields, colState)

	if rec.Sales, err = parseDecimal(fields, cols, colSales); err != nil {
		return rec, err
	}
	if rec.Profit, err = parseDecimal(fields, cols, colProfit); err != nil {
		return rec, err
	}
	if rec.Discount, err = parseDecimal(fields, cols, colDiscount); err != nil {
		return rec, err
	}
	if rec.Discount.IsNegative() || rec.Discount.GreaterThan(discountMax) {
		return rec, &cellError{column: colDiscount, err: fmt.Errorf("%w: %s", ErrDiscountRange, rec.Discount)}
	}

	rec.OrderID, _ = cols.get(fields, colOrderID)
	rec.Segment, _ = cols.get(fields, colSegment)
	rec.City, _ = cols.get(fields, colCity)
	rec.SubCategory, _ = cols.get(fields, colSubCategory)
	rec.ProductName, _ = cols.get(fields, colProductName)

	if raw, ok := cols.get(fields, colQuantity); ok && raw != "" {
		qty, err := strconv.Atoi(raw)
		if err != nil {
			return rec, &cellError{column: colQuantity, err: fmt.Errorf("%w: %q", ErrInvalidNumber, raw)}
		}
		rec.Quantity = qty
	}

	return rec, nil
}

func parseDecimal(fields []string, cols columns, name string) (decimal.Decimal, error) {
	raw, _ := cols.get(fields, name)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &cellError{column: name, err: fmt.Errorf("%w: %q", ErrInvalidNumber, raw)}
	}
	return d, nil
}

// ParseDate accepts the date formats found in Superstore exports.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}
