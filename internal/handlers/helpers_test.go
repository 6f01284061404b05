package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"superstore-dashboard/internal/charts"
	"superstore-dashboard/internal/dataset"
	"superstore-dashboard/internal/models"
	"superstore-dashboard/internal/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRecord(region, category, state, date, sales, profit, discount string) models.SalesRecord {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return models.SalesRecord{
		OrderDate: d,
		Region:    region,
		Category:  category,
		State:     state,
		Sales:     decimal.RequireFromString(sales),
		Profit:    decimal.RequireFromString(profit),
		Discount:  decimal.RequireFromString(discount),
	}
}

func createTestDashboard(t *testing.T) *services.Dashboard {
	t.Helper()
	data := dataset.New([]models.SalesRecord{
		testRecord("West", "Furniture", "California", "2017-01-05", "100", "20", "0"),
		testRecord("East", "Technology", "New York", "2017-01-20", "50", "-5", "0.2"),
		testRecord("West", "Technology", "California", "2017-02-03", "30", "6", "0.1"),
	})
	d, err := services.NewDashboard(data, testLogger(), services.Options{PreviewRows: 10, ViewCacheSize: 8})
	if err != nil {
		t.Fatalf("NewDashboard() error = %v", err)
	}
	return d
}

func testRenderer() *charts.Renderer {
	return charts.NewRenderer(480, 320)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env
}
