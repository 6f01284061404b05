package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthLayout is the layout of a month key, e.g. "2017-03".
const MonthLayout = "2006-01"

type SalesRecord struct {
	OrderID     string          `json:"order_id,omitempty"`
	OrderDate   time.Time       `json:"order_date"`
	Segment     string          `json:"segment,omitempty"`
	Region      string          `json:"region"`
	State       string          `json:"state"`
	City        string          `json:"city,omitempty"`
	Category    string          `json:"category"`
	SubCategory string          `json:"sub_category,omitempty"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity,omitempty"`
	Sales       decimal.Decimal `json:"sales"`
	Profit      decimal.Decimal `json:"profit"`
	Discount    decimal.Decimal `json:"discount"`

	// Month is only populated on filtered copies.
	Month string `json:"month,omitempty"`
}

// MonthKey truncates t to its calendar month.
func MonthKey(t time.Time) string {
	return t.Format(MonthLayout)
}

type StateSales struct {
	State string          `json:"state"`
	Sales decimal.Decimal `json:"sales"`
}

type CategorySales struct {
	Category string          `json:"category"`
	Sales    decimal.Decimal `json:"sales"`
	// Share is the percentage of the filtered sales total, 0 when the total is 0.
	Share float64 `json:"share"`
}

type MonthlySales struct {
	Month string          `json:"month"`
	Sales decimal.Decimal `json:"sales"`
}

type Totals struct {
	Sales   decimal.Decimal `json:"sales"`
	Profit  decimal.Decimal `json:"profit"`
	Records int             `json:"records"`
}

type ScatterPoint struct {
	Discount float64 `json:"discount"`
	Profit   float64 `json:"profit"`
	Sales    float64 `json:"sales"`
}

// Hint points an unknown filter value at the closest known one.
type Hint struct {
	Dimension  string `json:"dimension"`
	Value      string `json:"value"`
	Suggestion string `json:"suggestion,omitempty"`
}

// View is everything the dashboard shows for one selection.
type View struct {
	Selection     Selection       `json:"selection"`
	Totals        Totals          `json:"totals"`
	StateSales    []StateSales    `json:"state_sales"`
	CategorySales []CategorySales `json:"category_sales"`
	MonthlySales  []MonthlySales  `json:"monthly_sales"`
	Scatter       []ScatterPoint  `json:"scatter"`
	Preview       []SalesRecord   `json:"preview"`
	Hints         []Hint          `json:"hints,omitempty"`
}

// Options lists the distinct filter values offered to the user.
type Options struct {
	Regions    []string `json:"regions"`
	Categories []string `json:"categories"`
}
