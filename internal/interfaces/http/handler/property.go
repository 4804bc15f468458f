package handler

import (
	inventoryapp "github.com/estatecrm/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// PropertyHandler handles property listing endpoints. Sale-driven status
// transitions (reserve, sold, release) are not exposed here; they happen
// through the sale lifecycle.
type PropertyHandler struct {
	BaseHandler
	propertyService *inventoryapp.PropertyService
}

// NewPropertyHandler creates a new PropertyHandler
func NewPropertyHandler(propertyService *inventoryapp.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// Create lists a new property
// POST /properties
func (h *PropertyHandler) Create(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	var req inventoryapp.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.propertyService.Create(c.Request.Context(), actor.ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// List returns properties with filtering and pagination
// GET /properties
func (h *PropertyHandler) List(c *gin.Context) {
	var filter inventoryapp.PropertyListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	properties, total, err := h.propertyService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, properties, total, filter.Page, filter.PageSize)
}

// GetByID returns a single property
// GET /properties/:id
func (h *PropertyHandler) GetByID(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	resp, err := h.propertyService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByCode returns a property by its listing code
// GET /properties/code/:code
func (h *PropertyHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Missing code parameter")
		return
	}

	resp, err := h.propertyService.GetByCode(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update updates a property's listing details
// PUT /properties/:id
func (h *PropertyHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req inventoryapp.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.propertyService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Withdraw removes a property from the market
// POST /properties/:id/withdraw
func (h *PropertyHandler) Withdraw(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	resp, err := h.propertyService.Withdraw(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Relist returns a withdrawn property to the market
// POST /properties/:id/relist
func (h *PropertyHandler) Relist(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	resp, err := h.propertyService.Relist(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
