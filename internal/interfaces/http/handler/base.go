package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/butcetakip/backend/internal/application/budget"
	"github.com/butcetakip/backend/internal/domain/identity"
	"github.com/butcetakip/backend/internal/domain/shared"
	"github.com/butcetakip/backend/internal/interfaces/http/dto"
	"github.com/butcetakip/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common functionality for all handlers
type BaseHandler struct{}

// Success sends a successful response with data
func (h *BaseHandler) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a successful response with data and pagination metadata
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data interface{}, page, pageSize int, total int64) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 response with data
func (h *BaseHandler) Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given code and message
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	normalized := dto.NormalizeErrorCode(code)
	status := dto.GetHTTPStatus(normalized)
	c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, h.getRequestID(c)))
}

// BadRequest sends a 400 error response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 error response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 error response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeUnauthorized, message)
}

// Forbidden sends a 403 error response
func (h *BaseHandler) Forbidden(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeForbidden, message)
}

// HandleError maps service errors to HTTP responses.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, domainErr.Code, domainErr.Message)
		return
	}
	h.Error(c, dto.ErrCodeInternal, "An internal error occurred")
}

// HandleValidationError sends a 400 response describing a binding failure.
func (h *BaseHandler) HandleValidationError(c *gin.Context, err error) {
	middleware.HandleValidationError(c, err)
}

// adminOnly gates a route to administrators. Master-data and plan mutations
// use it; regular users only record and manage their own expenses.
func adminOnly() gin.HandlerFunc {
	return middleware.RequireRole(string(identity.RoleAdmin))
}

func (h *BaseHandler) getRequestID(c *gin.Context) string {
	if raw, ok := c.Get("request_id"); ok {
		if id, ok := raw.(string); ok {
			return id
		}
	}
	return ""
}

// actor returns the authenticated actor for ownership checks. Routes behind
// the JWT middleware always have these context values.
func (h *BaseHandler) actor(c *gin.Context) (budget.Actor, bool) {
	userID, ok := middleware.GetJWTUserID(c)
	if !ok {
		return budget.Actor{}, false
	}
	role, ok := middleware.GetJWTRole(c)
	if !ok {
		return budget.Actor{}, false
	}
	return budget.Actor{UserID: userID, Role: identity.Role(role)}, true
}

// userID returns the authenticated user's ID, or uuid.Nil when the route is
// unauthenticated.
func (h *BaseHandler) userID(c *gin.Context) uuid.UUID {
	id, _ := middleware.GetJWTUserID(c)
	return id
}

// yearScenarioQuery parses the required year and optional scenario_id query
// parameters.
func (h *BaseHandler) yearScenarioQuery(c *gin.Context) (int, *uuid.UUID, bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year == 0 {
		h.BadRequest(c, "A valid year is required")
		return 0, nil, false
	}

	var scenarioID *uuid.UUID
	if raw := c.Query("scenario_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid scenario_id")
			return 0, nil, false
		}
		scenarioID = &id
	}
	return year, scenarioID, true
}

// bindID binds the :id path parameter as a UUID.
func (h *BaseHandler) bindID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.HandleValidationError(c, err)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}
