package handler

import (
	"errors"
	"net/http"

	"github.com/estatecrm/backend/internal/domain/access"
	"github.com/estatecrm/backend/internal/domain/identity"
	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/estatecrm/backend/internal/interfaces/http/dto"
	"github.com/estatecrm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BaseHandler provides common helpers for all handlers
type BaseHandler struct{}

// getRequestID extracts the request ID set by the RequestID middleware
func (h *BaseHandler) getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// getActor builds the acting identity from the JWT claims placed in the
// context by the auth middleware. Writes a 401 response and returns false
// when the request is not authenticated.
func (h *BaseHandler) getActor(c *gin.Context) (access.Actor, bool) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return access.Actor{}, false
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		h.Unauthorized(c, "Invalid token subject")
		return access.Actor{}, false
	}

	return access.NewActor(userID, identity.Role(claims.Role)), true
}

// bindID parses the :id path parameter as a UUID
func (h *BaseHandler) bindID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid id parameter")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid id parameter")
		return uuid.Nil, false
	}
	return id, true
}

// normalizePage applies default pagination for list responses
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return page, pageSize
}

// Success writes a 200 response with data
func (h *BaseHandler) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta writes a 200 list response with pagination metadata
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data interface{}, total int64, page, pageSize int) {
	page, pageSize = normalizePage(page, pageSize)
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created writes a 201 response with data
func (h *BaseHandler) Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent writes a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest writes a 400 error response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
		dto.KindValidation, dto.CodeInvalidRequest, message, h.getRequestID(c)))
}

// Unauthorized writes a 401 error response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
		"", dto.CodeUnauthorized, message, h.getRequestID(c)))
}

// Forbidden writes a 403 error response
func (h *BaseHandler) Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
		dto.KindAuthorization, "FORBIDDEN", message, h.getRequestID(c)))
}

// NotFound writes a 404 error response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
		dto.KindNotFound, "NOT_FOUND", message, h.getRequestID(c)))
}

// InternalError writes a 500 error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		"", dto.CodeInternal, message, h.getRequestID(c)))
}

// ValidationError writes a 400 response for a failed request binding,
// with per-field details when the error came from the validator
func (h *BaseHandler) ValidationError(c *gin.Context, err error) {
	middleware.HandleValidationError(c, err)
}

// HandleError maps an application error onto an HTTP response. Domain
// errors carry a kind that decides the status code; anything else is an
// internal error and the original message is not exposed.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		kind := string(domainErr.Kind)
		c.JSON(dto.KindHTTPStatus(kind), dto.NewErrorResponseWithRequestID(
			kind, domainErr.Code, domainErr.Message, h.getRequestID(c)))
		return
	}

	h.InternalError(c, "An internal error occurred")
}
