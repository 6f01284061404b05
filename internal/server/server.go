package server

import (
	"log/slog"
	"net/http"

	"superstore-dashboard/internal/charts"
	"superstore-dashboard/internal/handlers"
	"superstore-dashboard/internal/services"
)

type Server struct {
	dashboard     *services.Dashboard
	mux           *http.ServeMux
	logger        *slog.Logger
	pageHandlers  *handlers.PageHandlers
	apiHandlers   *handlers.APIHandlers
	sseHandlers   *handlers.SSEHandlers
	chartHandlers *handlers.ChartHandlers
}

func NewServer(dashboard *services.Dashboard, renderer *charts.Renderer, logger *slog.Logger) *Server {
	s := &Server{
		dashboard:     dashboard,
		mux:           http.NewServeMux(),
		logger:        logger,
		pageHandlers:  handlers.NewPageHandlers(dashboard, logger),
		apiHandlers:   handlers.NewAPIHandlers(dashboard, logger),
		sseHandlers:   handlers.NewSSEHandlers(dashboard, logger),
		chartHandlers: handlers.NewChartHandlers(dashboard, renderer, logger),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Dashboard routes
	s.mux.HandleFunc("GET /{$}", s.pageHandlers.HandleDashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/view", s.apiHandlers.HandleView)
	s.mux.HandleFunc("GET /api/state-sales", s.apiHandlers.HandleStateSales)
	s.mux.HandleFunc("GET /api/category-sales", s.apiHandlers.HandleCategorySales)
	s.mux.HandleFunc("GET /api/monthly-sales", s.apiHandlers.HandleMonthlySales)
	s.mux.HandleFunc("GET /api/totals", s.apiHandlers.HandleTotals)
	s.mux.HandleFunc("GET /api/preview", s.apiHandlers.HandlePreview)
	s.mux.HandleFunc("GET /api/options", s.apiHandlers.HandleOptions)

	// Chart images
	s.mux.HandleFunc("GET /charts/{file}", s.chartHandlers.HandleChart)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/view", s.sseHandlers.HandleView)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
