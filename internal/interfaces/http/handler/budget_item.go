package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/butcetakip/backend/internal/application/budget"
)

// BudgetItemHandler handles budget item endpoints
type BudgetItemHandler struct {
	BaseHandler
	service *budget.BudgetItemService
}

// NewBudgetItemHandler creates a new budget item handler
func NewBudgetItemHandler(service *budget.BudgetItemService) *BudgetItemHandler {
	return &BudgetItemHandler{service: service}
}

// RegisterRoutes registers budget item routes
func (h *BudgetItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/budget-items")
	{
		items.POST("", adminOnly(), h.Create)
		items.GET("", h.List)
		items.GET("/:id", h.Get)
		items.PUT("/:id", adminOnly(), h.Update)
		items.DELETE("/:id", adminOnly(), h.Delete)
	}
}

func (h *BudgetItemHandler) Create(c *gin.Context) {
	var req budget.CreateBudgetItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

func (h *BudgetItemHandler) List(c *gin.Context) {
	var filter budget.BudgetItemListFilter
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

func (h *BudgetItemHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

func (h *BudgetItemHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req budget.UpdateBudgetItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	item, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

func (h *BudgetItemHandler) Delete(c *gin.Context) {
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
