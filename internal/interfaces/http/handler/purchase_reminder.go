package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/butcetakip/backend/internal/application/budget"
	"github.com/butcetakip/backend/internal/interfaces/http/middleware"
)

// PurchaseReminderHandler handles purchase form reminder endpoints
type PurchaseReminderHandler struct {
	BaseHandler
	service *budget.PurchaseReminderService
}

// NewPurchaseReminderHandler creates a new purchase reminder handler
func NewPurchaseReminderHandler(service *budget.PurchaseReminderService) *PurchaseReminderHandler {
	return &PurchaseReminderHandler{service: service}
}

// RegisterRoutes registers purchase reminder routes
func (h *PurchaseReminderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reminders := rg.Group("/budget/purchase-reminders")
	{
		reminders.GET("", h.List)
		reminders.POST("/mark-prepared", h.MarkPrepared)
	}
}

// List returns planned budget cells with no recorded expense, alongside their
// purchase form preparation state.
func (h *PurchaseReminderHandler) List(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year == 0 {
		h.BadRequest(c, "A valid year is required")
		return
	}

	scenarioID, err := uuid.Parse(c.Query("scenario_id"))
	if err != nil {
		h.BadRequest(c, "A valid scenario_id is required")
		return
	}

	month := 0
	if raw := c.Query("month"); raw != "" {
		month, err = strconv.Atoi(raw)
		if err != nil || month < 1 || month > 12 {
			h.BadRequest(c, "Invalid month")
			return
		}
	}

	rows, err := h.service.List(c.Request.Context(), year, scenarioID, month)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// MarkPrepared flips the prepared flag on one or more planned cells.
func (h *PurchaseReminderHandler) MarkPrepared(c *gin.Context) {
	var reqs []budget.MarkPreparedRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		h.HandleValidationError(c, err)
		return
	}
	if len(reqs) == 0 {
		h.BadRequest(c, "At least one entry is required")
		return
	}

	updatedBy := c.GetString(middleware.ContextEmail)
	done, err := h.service.MarkPreparedBulk(c.Request.Context(), updatedBy, reqs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"updated": done})
}
