package handler

import (
	crmapp "github.com/estatecrm/backend/internal/application/crm"
	"github.com/gin-gonic/gin"
)

// LeadHandler handles lead pipeline endpoints
type LeadHandler struct {
	BaseHandler
	leadService *crmapp.LeadService
}

// NewLeadHandler creates a new LeadHandler
func NewLeadHandler(leadService *crmapp.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// Create registers a new lead
// POST /leads
func (h *LeadHandler) Create(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	var req crmapp.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.leadService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// List returns leads visible to the actor
// GET /leads
func (h *LeadHandler) List(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	var filter crmapp.LeadListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	leads, total, err := h.leadService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, leads, total, filter.Page, filter.PageSize)
}

// StatusSummary returns lead counts per pipeline stage
// GET /leads/summary
func (h *LeadHandler) StatusSummary(c *gin.Context) {
	resp, err := h.leadService.StatusSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByID returns a single lead
// GET /leads/:id
func (h *LeadHandler) GetByID(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	resp, err := h.leadService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update updates a lead's details or status
// PUT /leads/:id
func (h *LeadHandler) Update(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req crmapp.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.leadService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateScore changes a lead's qualification score
// PATCH /leads/:id/score
func (h *LeadHandler) UpdateScore(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req crmapp.UpdateLeadScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.leadService.UpdateScore(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// MarkLost moves a lead to the lost status
// POST /leads/:id/lost
func (h *LeadHandler) MarkLost(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	resp, err := h.leadService.MarkLost(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Convert converts a qualified lead into a client
// POST /leads/:id/convert
func (h *LeadHandler) Convert(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	resp, err := h.leadService.Convert(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Assign assigns a lead to a user, or clears the assignment
// POST /leads/:id/assign
func (h *LeadHandler) Assign(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req crmapp.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.leadService.Assign(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// BulkAssign assigns several leads to one user
// POST /leads/bulk-assign
func (h *LeadHandler) BulkAssign(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	var req crmapp.BulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.leadService.BulkAssign(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ScheduleFollowUp schedules a follow-up on a lead
// POST /leads/:id/follow-ups
func (h *LeadHandler) ScheduleFollowUp(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req crmapp.ScheduleFollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.leadService.ScheduleFollowUp(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// ListFollowUps returns the follow-ups scheduled on a lead
// GET /leads/:id/follow-ups
func (h *LeadHandler) ListFollowUps(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	resp, err := h.leadService.ListFollowUps(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes a lead
// DELETE /leads/:id
func (h *LeadHandler) Delete(c *gin.Context) {
	actor, ok := h.getActor(c)
	if !ok {
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.leadService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
