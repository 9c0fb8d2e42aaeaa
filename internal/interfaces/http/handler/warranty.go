package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/butcetakip/backend/internal/application/warranty"
)

// WarrantyHandler handles warranty and certificate tracking endpoints
type WarrantyHandler struct {
	BaseHandler
	service *warranty.WarrantyService
}

// NewWarrantyHandler creates a new warranty handler
func NewWarrantyHandler(service *warranty.WarrantyService) *WarrantyHandler {
	return &WarrantyHandler{service: service}
}

// RegisterRoutes registers warranty routes
func (h *WarrantyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/warranty-items")
	{
		items.POST("", adminOnly(), h.Create)
		items.GET("", h.List)
		items.GET("/critical", h.Critical)
		items.GET("/:id", h.Get)
		items.PUT("/:id", adminOnly(), h.Update)
		items.DELETE("/:id", adminOnly(), h.Delete)
	}
}

func (h *WarrantyHandler) Create(c *gin.Context) {
	var req warranty.CreateItemRequest
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

func (h *WarrantyHandler) List(c *gin.Context) {
	var filter warranty.ItemListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Critical returns active items expiring within the action window.
func (h *WarrantyHandler) Critical(c *gin.Context) {
	items, err := h.service.Critical(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

func (h *WarrantyHandler) Get(c *gin.Context) {
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

func (h *WarrantyHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req warranty.UpdateItemRequest
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

// Delete deactivates the item rather than removing it.
func (h *WarrantyHandler) Delete(c *gin.Context) {
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
