package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/butcetakip/backend/internal/application/dashboard"
)

// DashboardHandler handles dashboard and insight endpoints
type DashboardHandler struct {
	BaseHandler
	service *dashboard.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service *dashboard.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// RegisterRoutes registers dashboard routes
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	dash := rg.Group("/dashboard")
	{
		dash.GET("", h.Summary)
		dash.GET("/trend", h.Trend)
		dash.GET("/overbudget", h.OverBudget)
		dash.GET("/risky-items", h.Insights)
	}
}

// Summary returns the yearly plan/actual summary with quarterly rollups.
func (h *DashboardHandler) Summary(c *gin.Context) {
	year, scenarioID, ok := h.yearScenarioQuery(c)
	if !ok {
		return
	}

	q := dashboard.Query{Year: year, ScenarioID: scenarioID}
	if raw := c.Query("budget_item_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid budget_item_id")
			return
		}
		q.BudgetItemID = &id
	}

	summary, err := h.service.Summary(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Trend returns the monthly plan/actual series for one budget item.
func (h *DashboardHandler) Trend(c *gin.Context) {
	year, scenarioID, ok := h.yearScenarioQuery(c)
	if !ok {
		return
	}

	code := c.Query("budget_code")
	if code == "" {
		h.BadRequest(c, "budget_code is required")
		return
	}

	trend, err := h.service.Trend(c.Request.Context(), year, scenarioID, code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, trend)
}

// OverBudget returns the items that have exceeded their plan, ranked by the
// size of the overrun.
func (h *DashboardHandler) OverBudget(c *gin.Context) {
	year, scenarioID, ok := h.yearScenarioQuery(c)
	if !ok {
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.BadRequest(c, "Invalid limit")
			return
		}
		limit = parsed
	}

	result, err := h.service.OverBudget(c.Request.Context(), year, scenarioID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Insights returns risky items and months with missing invoices.
func (h *DashboardHandler) Insights(c *gin.Context) {
	year, scenarioID, ok := h.yearScenarioQuery(c)
	if !ok {
		return
	}

	insights, err := h.service.Insights(c.Request.Context(), year, scenarioID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, insights)
}
