package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"superstore-dashboard/internal/models"
)

func TestNewAPIHandlers(t *testing.T) {
	dashboard := createTestDashboard(t)
	handlers := NewAPIHandlers(dashboard, testLogger())

	if handlers == nil {
		t.Fatal("NewAPIHandlers() returned nil")
	}
	if handlers.dashboard != dashboard {
		t.Error("NewAPIHandlers() should set dashboard field")
	}
}

func TestAPIHandlers_HandleTotals(t *testing.T) {
	handlers := NewAPIHandlers(createTestDashboard(t), testLogger())

	tests := []struct {
		name        string
		query       string
		wantSales   string
		wantDisplay string
		wantRecords int
	}{
		{"all values", "", "180", "$180.00", 3},
		{"one region", "?region=West", "130", "$130.00", 2},
		{"region and category", "?region=West&category=Technology", "30", "$30.00", 1},
		{"comma separated", "?region=West,East&category=Technology", "80", "$80.00", 2},
		{"empty region", "?region=", "0", "$0.00", 0},
		{"unknown value", "?category=Toys", "0", "$0.00", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/totals"+tt.query, nil)
			w := httptest.NewRecorder()

			handlers.HandleTotals(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
			}
			if cc := w.Header().Get("Cache-Control"); cc != cacheMaxAge {
				t.Errorf("expected Cache-Control %q, got %q", cacheMaxAge, cc)
			}

			env := decodeEnvelope(t, w)
			var totals totalsResponse
			if err := json.Unmarshal(env.Data, &totals); err != nil {
				t.Fatal(err)
			}
			if totals.Sales.String() != tt.wantSales {
				t.Errorf("sales = %s, want %s", totals.Sales, tt.wantSales)
			}
			if totals.SalesDisplay != tt.wantDisplay {
				t.Errorf("display = %q, want %q", totals.SalesDisplay, tt.wantDisplay)
			}
			if totals.Records != tt.wantRecords {
				t.Errorf("records = %d, want %d", totals.Records, tt.wantRecords)
			}
		})
	}
}

func TestAPIHandlers_HandleView(t *testing.T) {
	handlers := NewAPIHandlers(createTestDashboard(t), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/view?region=Wset", nil)
	w := httptest.NewRecorder()
	handlers.HandleView(w, req)

	env := decodeEnvelope(t, w)
	if !env.Success {
		t.Fatal("expected success envelope")
	}

	var view struct {
		Totals struct {
			SalesDisplay string `json:"sales_display"`
		} `json:"totals"`
		StateSales []models.StateSales `json:"state_sales"`
		Hints      []models.Hint       `json:"hints"`
	}
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatal(err)
	}

	if view.Totals.SalesDisplay != "$0.00" {
		t.Errorf("sales display = %q", view.Totals.SalesDisplay)
	}
	if view.StateSales == nil || len(view.StateSales) != 0 {
		t.Errorf("expected empty state sales array, got %v", view.StateSales)
	}
	if len(view.Hints) != 1 || view.Hints[0].Suggestion != "West" {
		t.Errorf("expected a hint towards West, got %+v", view.Hints)
	}
}

func TestAPIHandlers_Aggregates(t *testing.T) {
	handlers := NewAPIHandlers(createTestDashboard(t), testLogger())

	t.Run("state sales", func(t *testing.T) {
		w := httptest.NewRecorder()
		handlers.HandleStateSales(w, httptest.NewRequest(http.MethodGet, "/api/state-sales", nil))

		var rows []models.StateSales
		if err := json.Unmarshal(decodeEnvelope(t, w).Data, &rows); err != nil {
			t.Fatal(err)
		}
		if len(rows) != 2 || rows[0].State != "California" || rows[0].Sales.String() != "130" {
			t.Errorf("unexpected state sales %+v", rows)
		}
	})

	t.Run("category sales", func(t *testing.T) {
		w := httptest.NewRecorder()
		handlers.HandleCategorySales(w, httptest.NewRequest(http.MethodGet, "/api/category-sales", nil))

		var rows []models.CategorySales
		if err := json.Unmarshal(decodeEnvelope(t, w).Data, &rows); err != nil {
			t.Fatal(err)
		}
		var share float64
		for _, r := range rows {
			share += r.Share
		}
		if len(rows) != 2 || share < 99.999 || share > 100.001 {
			t.Errorf("unexpected category sales %+v", rows)
		}
	})

	t.Run("monthly sales", func(t *testing.T) {
		w := httptest.NewRecorder()
		handlers.HandleMonthlySales(w, httptest.NewRequest(http.MethodGet, "/api/monthly-sales", nil))

		var rows []models.MonthlySales
		if err := json.Unmarshal(decodeEnvelope(t, w).Data, &rows); err != nil {
			t.Fatal(err)
		}
		if len(rows) != 2 || rows[0].Month != "2017-01" || rows[0].Sales.String() != "150" {
			t.Errorf("unexpected monthly sales %+v", rows)
		}
	})

	t.Run("preview", func(t *testing.T) {
		w := httptest.NewRecorder()
		handlers.HandlePreview(w, httptest.NewRequest(http.MethodGet, "/api/preview?category=Technology", nil))

		var rows []models.SalesRecord
		if err := json.Unmarshal(decodeEnvelope(t, w).Data, &rows); err != nil {
			t.Fatal(err)
		}
		if len(rows) != 2 || rows[0].Month != "2017-01" || rows[0].State != "New York" {
			t.Errorf("unexpected preview %+v", rows)
		}
	})

	t.Run("options", func(t *testing.T) {
		w := httptest.NewRecorder()
		handlers.HandleOptions(w, httptest.NewRequest(http.MethodGet, "/api/options", nil))

		var opts models.Options
		if err := json.Unmarshal(decodeEnvelope(t, w).Data, &opts); err != nil {
			t.Fatal(err)
		}
		if len(opts.Regions) != 2 || opts.Regions[0] != "West" {
			t.Errorf("unexpected options %+v", opts)
		}
	})
}

func TestAPIHandlers_HandleHealth(t *testing.T) {
	handlers := NewAPIHandlers(createTestDashboard(t), testLogger())

	w := httptest.NewRecorder()
	handlers.HandleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var health map[string]any
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &health); err != nil {
		t.Fatal(err)
	}
	if health["status"] != "healthy" || health["records"] != float64(3) {
		t.Errorf("unexpected health %+v", health)
	}
}

func TestAPIHandlers_HandleStats(t *testing.T) {
	handlers := NewAPIHandlers(createTestDashboard(t), testLogger())

	handlers.HandleTotals(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/totals", nil))
	handlers.HandleTotals(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/totals", nil))

	w := httptest.NewRecorder()
	handlers.HandleStats(w, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))

	var stats struct {
		ViewsComputed int64 `json:"views_computed"`
		ViewCacheHits int64 `json:"view_cache_hits"`
		Dataset       struct {
			Rows int `json:"rows"`
		} `json:"dataset"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &stats); err != nil {
		t.Fatal(err)
	}
	if stats.ViewsComputed != 1 || stats.ViewCacheHits != 1 || stats.Dataset.Rows != 3 {
		t.Errorf("unexpected stats %+v", stats)
	}
}
