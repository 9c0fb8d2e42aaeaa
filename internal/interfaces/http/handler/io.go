package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/butcetakip/backend/internal/application/importexport"
	domainidentity "github.com/butcetakip/backend/internal/domain/identity"
	"github.com/butcetakip/backend/internal/interfaces/http/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// IOHandler handles bulk import, export and cleanup endpoints
type IOHandler struct {
	BaseHandler
	importSvc *importexport.ImportService
	exportSvc *importexport.ExportService
}

// NewIOHandler creates a new import/export handler
func NewIOHandler(importSvc *importexport.ImportService, exportSvc *importexport.ExportService) *IOHandler {
	return &IOHandler{importSvc: importSvc, exportSvc: exportSvc}
}

// RegisterRoutes registers import/export routes
func (h *IOHandler) RegisterRoutes(rg *gin.RouterGroup) {
	io := rg.Group("/io")
	{
		io.POST("/import/json", h.ImportJSON)
		io.POST("/import/csv", h.ImportCSV)
		io.POST("/import/xlsx", h.ImportXLSX)
		io.GET("/export/xlsx", h.ExportBudgetXLSX)
		io.GET("/export/quarterly/xlsx", h.ExportQuarterlyXLSX)
		io.GET("/export/expenses/out-of-budget", h.ExportOutOfBudgetCSV)
		io.GET("/export/expenses/cancelled", h.ExportCancelledCSV)
		io.POST("/cleanup", middleware.RequireRole(string(domainidentity.RoleAdmin)), h.Cleanup)
	}
}

// ImportJSON imports plan rows from a JSON array in the request body.
func (h *IOHandler) ImportJSON(c *gin.Context) {
	result, err := h.importSvc.ImportJSON(c.Request.Context(), c.Request.Body)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ImportCSV imports plan rows from an uploaded CSV file.
func (h *IOHandler) ImportCSV(c *gin.Context) {
	file, ok := h.uploadedFile(c)
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.importSvc.ImportCSV(c.Request.Context(), file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ImportXLSX imports plan rows from an uploaded spreadsheet.
func (h *IOHandler) ImportXLSX(c *gin.Context) {
	file, ok := h.uploadedFile(c)
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.importSvc.ImportXLSX(c.Request.Context(), file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ExportBudgetXLSX streams the yearly budget workbook.
func (h *IOHandler) ExportBudgetXLSX(c *gin.Context) {
	year, scenarioID, ok := h.yearScenarioQuery(c)
	if !ok {
		return
	}

	data, err := h.exportSvc.BudgetXLSX(c.Request.Context(), year, scenarioID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendFile(c, fmt.Sprintf("budget_%d.xlsx", year), xlsxContentType, data)
}

// ExportQuarterlyXLSX streams the quarterly rollup workbook.
func (h *IOHandler) ExportQuarterlyXLSX(c *gin.Context) {
	year, scenarioID, ok := h.yearScenarioQuery(c)
	if !ok {
		return
	}

	data, err := h.exportSvc.QuarterlyXLSX(c.Request.Context(), year, scenarioID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendFile(c, fmt.Sprintf("quarterly_%d.xlsx", year), xlsxContentType, data)
}

// ExportOutOfBudgetCSV streams expenses recorded outside the plan.
func (h *IOHandler) ExportOutOfBudgetCSV(c *gin.Context) {
	year, ok := h.yearQuery(c)
	if !ok {
		return
	}

	data, err := h.exportSvc.OutOfBudgetCSV(c.Request.Context(), year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendFile(c, fmt.Sprintf("out_of_budget_%d.csv", year), "text/csv", data)
}

// ExportCancelledCSV streams cancelled expenses.
func (h *IOHandler) ExportCancelledCSV(c *gin.Context) {
	year, ok := h.yearQuery(c)
	if !ok {
		return
	}

	data, err := h.exportSvc.CancelledCSV(c.Request.Context(), year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendFile(c, fmt.Sprintf("cancelled_%d.csv", year), "text/csv", data)
}

// CleanupRequest scopes a bulk deletion to a year and optional scenario.
type CleanupRequest struct {
	Year       int        `json:"year" binding:"required"`
	ScenarioID *uuid.UUID `json:"scenario_id"`
}

// Cleanup deletes plans and expenses for a year. Admin only.
func (h *IOHandler) Cleanup(c *gin.Context) {
	var req CleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	result, err := h.importSvc.Cleanup(c.Request.Context(), req.Year, req.ScenarioID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// uploadedFile opens the multipart "file" field, falling back to the raw
// request body when the request is not multipart.
func (h *IOHandler) uploadedFile(c *gin.Context) (io.ReadCloser, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		if c.ContentType() == "multipart/form-data" {
			h.BadRequest(c, "A file upload is required")
			return nil, false
		}
		return c.Request.Body, true
	}

	file, err := header.Open()
	if err != nil {
		h.BadRequest(c, "Could not read uploaded file")
		return nil, false
	}
	return file, true
}

func (h *IOHandler) yearQuery(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year == 0 {
		h.BadRequest(c, "A valid year is required")
		return 0, false
	}
	return year, true
}

func (h *IOHandler) sendFile(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
