package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"superstore-dashboard/internal/format"
	"superstore-dashboard/internal/models"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")).Bold(true)
	sectionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#cba6f7")).Bold(true).MarginTop(1)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#bac2de"))
	valueStyle    = lipgloss.NewStyle().Bold(true)
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8")).Bold(true)
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086")).Italic(true)
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")).Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	numberStyle   = cellStyle.Align(lipgloss.Right)
	borderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#45475a"))
)

func renderReport(w io.Writer, view *models.View) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Superstore Dashboard"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Regions: "+describe(view.Selection.Regions)) + "\n")
	b.WriteString(labelStyle.Render("Categories: "+describe(view.Selection.Categories)) + "\n")

	for _, h := range view.Hints {
		msg := fmt.Sprintf("unknown %s %q", h.Dimension, h.Value)
		if h.Suggestion != "" {
			msg += fmt.Sprintf(", did you mean %q?", h.Suggestion)
		}
		b.WriteString(hintStyle.Render(msg) + "\n")
	}

	b.WriteString(sectionStyle.Render("Metrics") + "\n")
	b.WriteString(renderMetrics(view.Totals) + "\n")

	b.WriteString(sectionStyle.Render("Sales by State") + "\n")
	stateRows := make([][]string, 0, len(view.StateSales))
	for _, s := range view.StateSales {
		stateRows = append(stateRows, []string{s.State, format.Currency(s.Sales)})
	}
	b.WriteString(renderTable([]string{"State", "Sales"}, stateRows, 1) + "\n")

	b.WriteString(sectionStyle.Render("Sales by Category") + "\n")
	categoryRows := make([][]string, 0, len(view.CategorySales))
	for _, c := range view.CategorySales {
		categoryRows = append(categoryRows, []string{c.Category, format.Currency(c.Sales), format.Percent(c.Share)})
	}
	b.WriteString(renderTable([]string{"Category", "Sales", "Share"}, categoryRows, 1) + "\n")

	b.WriteString(sectionStyle.Render("Monthly Sales") + "\n")
	monthRows := make([][]string, 0, len(view.MonthlySales))
	for _, m := range view.MonthlySales {
		monthRows = append(monthRows, []string{m.Month, format.Currency(m.Sales)})
	}
	b.WriteString(renderTable([]string{"Month", "Sales"}, monthRows, 1) + "\n")

	b.WriteString(sectionStyle.Render("Data Preview") + "\n")
	previewRows := make([][]string, 0, len(view.Preview))
	for _, r := range view.Preview {
		previewRows = append(previewRows, []string{
			r.OrderDate.Format("2006-01-02"),
			r.Month,
			r.Region,
			r.State,
			r.Category,
			format.Currency(r.Sales),
			format.Currency(r.Profit),
			r.Discount.String(),
		})
	}
	b.WriteString(renderTable(
		[]string{"Order Date", "Month", "Region", "State", "Category", "Sales", "Profit", "Discount"},
		previewRows, 5,
	) + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func renderMetrics(t models.Totals) string {
	profit := valueStyle
	if t.Profit.IsNegative() {
		profit = negativeStyle
	}

	cards := []string{
		labelStyle.Render("Total Sales ") + valueStyle.Render(format.Currency(t.Sales)),
		labelStyle.Render("Total Profit ") + profit.Render(format.Currency(t.Profit)),
		labelStyle.Render("Rows ") + valueStyle.Render(strconv.Itoa(t.Records)),
	}
	return strings.Join(cards, "   ")
}

// renderTable right-aligns columns from numericFrom onwards.
func renderTable(headers []string, rows [][]string, numericFrom int) string {
	if len(rows) == 0 {
		return mutedStyle.Render("No rows match the current selection.")
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col >= numericFrom:
				return numberStyle
			default:
				return cellStyle
			}
		})
	return t.Render()
}

func describe(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}
