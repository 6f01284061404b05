package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"superstore-dashboard/internal/config"
	"superstore-dashboard/internal/dataset"
	"superstore-dashboard/internal/services"
)

const testCSV = `Row ID,Order ID,Order Date,Ship Date,Segment,City,State,Region,Category,Sub-Category,Product Name,Sales,Quantity,Discount,Profit
1,CA-1,1/5/2017,1/8/2017,Consumer,Los Angeles,California,West,Furniture,Chairs,Chair,100,2,0,20
2,CA-2,1/20/2017,1/22/2017,Corporate,New York City,New York,East,Technology,Phones,Phone,50,1,0.2,-5
3,CA-3,2/3/2017,2/7/2017,Consumer,San Diego,California,West,Technology,Phones,Phone,30,1,0.1,6
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Chdir(t.TempDir())
	if err := os.WriteFile(config.DatasetFile, []byte(testCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	cfg.Dataset.CacheDir = filepath.Join(t.TempDir(), "cache")
	return cfg
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(t)

	data, err := loadDataset(cfg, logger)
	if err != nil {
		t.Fatalf("loadDataset() error = %v", err)
	}
	dashboard, err := services.NewDashboard(data, logger, services.Options{PreviewRows: 10, ViewCacheSize: 16})
	if err != nil {
		t.Fatal(err)
	}
	return newHandler(cfg, dashboard, logger)
}

// Integration tests for HTTP routes
func TestServer_Routes(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		path           string
		expectedStatus int
		contentType    string
	}{
		{"/", http.StatusOK, "text/html"},
		{"/health", http.StatusOK, "application/json"},
		{"/admin/stats", http.StatusOK, "application/json"},
		{"/api/view", http.StatusOK, "application/json"},
		{"/api/state-sales?region=West", http.StatusOK, "application/json"},
		{"/api/category-sales", http.StatusOK, "application/json"},
		{"/api/monthly-sales", http.StatusOK, "application/json"},
		{"/api/totals?category=", http.StatusOK, "application/json"},
		{"/api/preview", http.StatusOK, "application/json"},
		{"/api/options", http.StatusOK, "application/json"},
		{"/charts/state-sales.svg", http.StatusOK, "image/svg+xml"},
		{"/charts/profit-discount.svg?region=East", http.StatusOK, "image/svg+xml"},
		{"/charts/category-share.svg", http.StatusOK, "image/svg+xml"},
		{"/charts/monthly-sales.svg", http.StatusOK, "image/svg+xml"},
		{"/sse/view", http.StatusOK, "text/event-stream"},
		{"/charts/unknown.svg", http.StatusNotFound, "application/json"},
		{"/nonexistent", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.contentType != "" && !strings.HasPrefix(w.Header().Get("Content-Type"), tt.contentType) {
				t.Errorf("expected content type %q, got %q", tt.contentType, w.Header().Get("Content-Type"))
			}
			if w.Header().Get("X-Request-ID") == "" {
				t.Error("expected X-Request-ID header")
			}
		})
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/view", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, w.Code)
	}
}

func TestServer_SecurityHeaders(t *testing.T) {
	handler := newTestHandler(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing nosniff header")
	}
	if csp := w.Header().Get("Content-Security-Policy"); !strings.Contains(csp, "img-src 'self'") {
		t.Errorf("chart images must be allowed by CSP, got %q", csp)
	}
}

func TestServer_TotalsMatchWorkedExample(t *testing.T) {
	handler := newTestHandler(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/totals?region=West", nil))

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			SalesDisplay  string `json:"sales_display"`
			ProfitDisplay string `json:"profit_display"`
			Records       int    `json:"records"`
		} `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Data.SalesDisplay != "$130.00" || resp.Data.ProfitDisplay != "$26.00" || resp.Data.Records != 2 {
		t.Errorf("unexpected totals %+v", resp)
	}
}

func TestLoadDataset_MissingFile(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(t)
	if err := os.Remove(config.DatasetFile); err != nil {
		t.Fatal(err)
	}

	_, err := loadDataset(cfg, logger)
	var loadErr *dataset.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *dataset.LoadError, got %v", err)
	}
}

func BenchmarkServer_View(b *testing.B) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	data := dataset.New(nil)
	dashboard, err := services.NewDashboard(data, logger, services.Options{PreviewRows: 10})
	if err != nil {
		b.Fatal(err)
	}
	cfg := &config.Config{
		Dashboard: config.DashboardConfig{ChartWidth: 400, ChartHeight: 300},
		Security:  config.SecurityConfig{RateLimitRPS: 1, RateLimitBurst: 1},
		Server:    config.ServerConfig{ReadTimeout: time.Second},
	}
	handler := newHandler(cfg, dashboard, logger)

	for b.Loop() {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/view", nil))
	}
}
