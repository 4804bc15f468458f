package handler

import (
	"strings"

	identityapp "github.com/estatecrm/backend/internal/application/identity"
	"github.com/estatecrm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
	userService *identityapp.UserService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService, userService *identityapp.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

// Login authenticates a user and issues a token pair
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Refresh exchanges a refresh token for a new token pair
// POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identityapp.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Logout revokes the current access token
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), h.bearerToken(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// LogoutAll revokes every token issued to the current user
// POST /auth/logout-all
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	if err := h.authService.LogoutAll(c.Request.Context(), h.bearerToken(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Me returns the profile of the authenticated user
// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	resp, err := h.userService.GetByID(c.Request.Context(), actor.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ChangePassword changes the authenticated user's own password
// POST /auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	var req identityapp.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), actor, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// bearerToken extracts the raw token from the Authorization header
func (h *AuthHandler) bearerToken(c *gin.Context) string {
	header := c.GetHeader(middleware.AuthHeaderKey)
	return strings.TrimPrefix(header, middleware.BearerPrefix)
}
