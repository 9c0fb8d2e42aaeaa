package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/butcetakip/backend/internal/application/identity"
	domainidentity "github.com/butcetakip/backend/internal/domain/identity"
	"github.com/butcetakip/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	BaseHandler
	service *identity.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service *identity.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/token", h.Token)
		auth.GET("/me", h.Me)
		auth.POST("/register", middleware.RequireRole(string(domainidentity.RoleAdmin)), h.Register)
	}
}

// Token issues an access token for valid credentials. The request body is an
// OAuth2 password-grant form.
func (h *AuthHandler) Token(c *gin.Context) {
	var req identity.TokenRequest
	if err := c.ShouldBind(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	token, err := h.service.Token(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, token)
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetJWTUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.service.Me(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Register creates a new user account. Admin only.
func (h *AuthHandler) Register(c *gin.Context) {
	var req identity.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleValidationError(c, err)
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}
