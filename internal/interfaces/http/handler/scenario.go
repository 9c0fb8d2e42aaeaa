package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/butcetakip/backend/internal/application/budget"
)

// ScenarioHandler handles scenario endpoints
type ScenarioHandler struct {
	BaseHandler
	service *budget.ScenarioService
}

// NewScenarioHandler creates a new scenario handler
func NewScenarioHandler(service *budget.ScenarioService) *ScenarioHandler {
	return &ScenarioHandler{service: service}
}

// RegisterRoutes registers scenario routes
func (h *ScenarioHandler) RegisterRoutes(rg *gin.RouterGroup) {
	scenarios := rg.Group("/scenarios")
	{
		scenarios.POST("", adminOnly(), h.Create)
		scenarios.GET("", h.List)
		scenarios.GET("/:id", h.Get)
		scenarios.PUT("/:id", adminOnly(), h.Update)
		scenarios.DELETE("/:id", adminOnly(), h.Delete)
	}
}

func (h *ScenarioHandler) Create(c *gin.Context) {
	var req budget.CreateScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	scenario, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, scenario)
}

// List returns scenarios. With ?year it returns the plain list for that
// year; otherwise a paginated listing.
func (h *ScenarioHandler) List(c *gin.Context) {
	if yearParam := c.Query("year"); yearParam != "" && c.Query("page") == "" {
		year, err := strconv.Atoi(yearParam)
		if err != nil {
			h.BadRequest(c, "Invalid year")
			return
		}
		scenarios, err := h.service.ListByYear(c.Request.Context(), year)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, scenarios)
		return
	}

	var filter budget.ScenarioListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Page, result.PageSize, result.Total)
}

func (h *ScenarioHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	scenario, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, scenario)
}

func (h *ScenarioHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req budget.UpdateScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	scenario, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, scenario)
}

func (h *ScenarioHandler) Delete(c *gin.Context) {
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
