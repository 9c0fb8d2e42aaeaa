package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/butcetakip/backend/internal/application/budget"
)

// PlanHandler handles budget plan endpoints
type PlanHandler struct {
	BaseHandler
	service *budget.PlanService
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(service *budget.PlanService) *PlanHandler {
	return &PlanHandler{service: service}
}

// RegisterRoutes registers plan routes
func (h *PlanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	plans := rg.Group("/plans")
	{
		plans.POST("", adminOnly(), h.Create)
		plans.GET("", h.List)
		plans.GET("/aggregate", h.Aggregate)
		plans.GET("/departments", h.Departments)
		plans.GET("/:id", h.Get)
		plans.PUT("/:id", adminOnly(), h.Update)
		plans.DELETE("/:id", adminOnly(), h.Delete)
	}
}

func (h *PlanHandler) Create(c *gin.Context) {
	var req budget.CreatePlanEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	entry, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

func (h *PlanHandler) List(c *gin.Context) {
	var filter budget.PlanListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	entries, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// Aggregate returns per-item monthly plan totals for a year.
func (h *PlanHandler) Aggregate(c *gin.Context) {
	year, scenarioID, ok := h.yearScenarioQuery(c)
	if !ok {
		return
	}

	rows, err := h.service.Aggregate(c.Request.Context(), year, scenarioID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// Departments returns the distinct department names used in plans.
func (h *PlanHandler) Departments(c *gin.Context) {
	departments, err := h.service.Departments(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, departments)
}

func (h *PlanHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	entry, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

func (h *PlanHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req budget.UpdatePlanEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	entry, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

func (h *PlanHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
