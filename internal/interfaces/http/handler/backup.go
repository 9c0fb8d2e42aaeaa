package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/butcetakip/backend/internal/application/importexport"
	domainidentity "github.com/butcetakip/backend/internal/domain/identity"
	"github.com/butcetakip/backend/internal/infrastructure/persistence"
	"github.com/butcetakip/backend/internal/interfaces/http/middleware"
)

// BackupHandler handles full state backup and restore. Admin only.
type BackupHandler struct {
	BaseHandler
	service *importexport.BackupService
}

// NewBackupHandler creates a new backup handler
func NewBackupHandler(service *importexport.BackupService) *BackupHandler {
	return &BackupHandler{service: service}
}

// RegisterRoutes registers backup routes
func (h *BackupHandler) RegisterRoutes(rg *gin.RouterGroup) {
	backup := rg.Group("/backup", middleware.RequireRole(string(domainidentity.RoleAdmin)))
	{
		backup.GET("/full", h.Dump)
		backup.POST("/restore/full", h.Restore)
	}
}

// Dump returns a snapshot of all budgeting state.
func (h *BackupHandler) Dump(c *gin.Context) {
	snapshot, err := h.service.Dump(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, snapshot)
}

// Restore replaces all budgeting state with the posted snapshot.
func (h *BackupHandler) Restore(c *gin.Context) {
	var snapshot persistence.Snapshot
	if err := c.ShouldBindJSON(&snapshot); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	if err := h.service.Restore(c.Request.Context(), &snapshot); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
