package handlers

import (
	"net/http"

	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/api/middleware"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/api/response"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/cache"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/service"
)

// DashboardHandler serves the portfolio dashboard.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// Dashboard handles GET requests for the whole-portfolio dashboard.
//
// Endpoint: GET /api/dashboard
// Response: 200 OK with model.Dashboard, X-Cache: HIT|MISS
// Error: 503 Service Unavailable if the transaction store cannot be read
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, status, err := h.dashboardService.GetDashboard(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondCached(w, status, dashboard)
}

// ClassHoldings handles GET requests for the holdings of one asset class.
//
// Endpoint: GET /api/dashboard/{assetClass}
// Response: 200 OK with model.ClassHoldings, X-Cache: HIT|MISS
// Error: 404 Not Found for an unknown class
func (h *DashboardHandler) ClassHoldings(w http.ResponseWriter, r *http.Request) {
	class, ok := middleware.AssetClassFromContext(r.Context())
	if !ok {
		response.RespondError(w, http.StatusBadRequest, "asset class is required", "")
		return
	}

	holdings, status, err := h.dashboardService.GetClassHoldings(r.Context(), class)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondCached(w, status, holdings)
}

// Refresh drops all cached results and recomputes the dashboard.
//
// Endpoint: POST /api/dashboard/refresh
// Response: 200 OK with model.Dashboard, X-Cache: MISS
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.dashboardService.Refresh(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondCached(w, cache.Miss, dashboard)
}

// ClearCache drops all cached results.
//
// Endpoint: DELETE /api/dashboard/cache
// Response: 204 No Content
func (h *DashboardHandler) ClearCache(w http.ResponseWriter, _ *http.Request) {
	h.dashboardService.ClearCache()
	response.RespondJSON(w, http.StatusNoContent, nil)
}
