package handler

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/butcetakip/backend/internal/application/views"
)

// ViewHandler handles saved grid view endpoints
type ViewHandler struct {
	BaseHandler
	service *views.ViewService
}

// NewViewHandler creates a new view handler
func NewViewHandler(service *views.ViewService) *ViewHandler {
	return &ViewHandler{service: service}
}

// RegisterRoutes registers saved view routes
func (h *ViewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	v := rg.Group("/views")
	{
		v.GET("", h.List)
		v.GET("/:key", h.Get)
		v.PUT("/:key", h.Put)
		v.DELETE("/:key", h.Delete)
	}
}

func (h *ViewHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), h.userID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

func (h *ViewHandler) Get(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), h.userID(c), c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Put stores the JSON body as the view payload, replacing any previous one.
func (h *ViewHandler) Put(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "Could not read request body")
		return
	}

	view, err := h.service.Put(c.Request.Context(), h.userID(c), c.Param("key"), json.RawMessage(payload))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

func (h *ViewHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), h.userID(c), c.Param("key")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
