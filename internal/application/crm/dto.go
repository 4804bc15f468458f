package crm

import (
	"time"

	"github.com/estatecrm/backend/internal/domain/crm"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Lead DTOs
// =============================================================================

// CreateLeadRequest represents a request to create a new lead
type CreateLeadRequest struct {
	Name       string           `json:"name" binding:"required,min=1,max=200"`
	Email      string           `json:"email" binding:"omitempty,email,max=200"`
	Phone      string           `json:"phone" binding:"max=50"`
	Source     string           `json:"source" binding:"max=100"`
	BudgetMin  *decimal.Decimal `json:"budget_min"`
	BudgetMax  *decimal.Decimal `json:"budget_max"`
	Tags       string           `json:"tags"`
	Notes      string           `json:"notes"`
	AssigneeID *uuid.UUID       `json:"assignee_id"`
}

// UpdateLeadRequest represents a request to update a lead
type UpdateLeadRequest struct {
	Name      *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Email     *string          `json:"email" binding:"omitempty,email,max=200"`
	Phone     *string          `json:"phone" binding:"omitempty,max=50"`
	Source    *string          `json:"source" binding:"omitempty,max=100"`
	Status    *string          `json:"status" binding:"omitempty"`
	BudgetMin *decimal.Decimal `json:"budget_min"`
	BudgetMax *decimal.Decimal `json:"budget_max"`
	Tags      *string          `json:"tags"`
	Notes     *string          `json:"notes"`
}

// UpdateLeadScoreRequest represents a request to change a lead's score
type UpdateLeadScoreRequest struct {
	Score int `json:"score" binding:"min=0,max=100"`
}

// AssignRequest represents a request to assign a record to a user. A nil
// assignee clears the assignment.
type AssignRequest struct {
	AssigneeID *uuid.UUID `json:"assignee_id"`
}

// BulkAssignRequest represents a request to assign several records to one
// user in a single call
type BulkAssignRequest struct {
	IDs        []uuid.UUID `json:"ids" binding:"required,min=1,max=100"`
	AssigneeID uuid.UUID   `json:"assignee_id" binding:"required"`
}

// BulkAssignFailure records why one record in a bulk assignment failed
type BulkAssignFailure struct {
	ID     uuid.UUID `json:"id"`
	Reason string    `json:"reason"`
}

// BulkAssignResult reports the outcome of a bulk assignment. The operation
// is not transactional: some records may succeed while others fail.
type BulkAssignResult struct {
	Assigned []uuid.UUID         `json:"assigned"`
	Failed   []BulkAssignFailure `json:"failed"`
}

// ScheduleFollowUpRequest represents a request to schedule a follow-up
type ScheduleFollowUpRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	Note        string    `json:"note" binding:"max=1000"`
}

// LeadResponse represents a lead in API responses
type LeadResponse struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Email          string           `json:"email"`
	Phone          string           `json:"phone"`
	Source         string           `json:"source"`
	Status         string           `json:"status"`
	Score          int              `json:"score"`
	BudgetMin      *decimal.Decimal `json:"budget_min"`
	BudgetMax      *decimal.Decimal `json:"budget_max"`
	NextFollowUpAt *time.Time       `json:"next_follow_up_at"`
	ClientID       *uuid.UUID       `json:"client_id"`
	CreatedBy      *uuid.UUID       `json:"created_by"`
	AssigneeID     *uuid.UUID       `json:"assignee_id"`
	Tags           string           `json:"tags"`
	Notes          string           `json:"notes"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	Version        int              `json:"version"`
}

// LeadListFilter represents filter options for the lead list
type LeadListFilter struct {
	Search     string `form:"search"`
	Status     string `form:"status"`
	Source     string `form:"source"`
	AssigneeID string `form:"assignee_id"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// LeadStatusSummary reports how many leads sit in each pipeline stage
type LeadStatusSummary struct {
	Counts map[string]int64 `json:"counts"`
	Total  int64            `json:"total"`
}

// ToLeadResponse converts a domain Lead to LeadResponse
func ToLeadResponse(l *crm.Lead) LeadResponse {
	return LeadResponse{
		ID:             l.ID,
		Name:           l.Name,
		Email:          l.Email,
		Phone:          l.Phone,
		Source:         l.Source,
		Status:         string(l.Status),
		Score:          l.Score,
		BudgetMin:      l.BudgetMin,
		BudgetMax:      l.BudgetMax,
		NextFollowUpAt: l.NextFollowUpAt,
		ClientID:       l.ClientID,
		CreatedBy:      l.CreatedBy,
		AssigneeID:     l.AssigneeID,
		Tags:           l.Tags,
		Notes:          l.Notes,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
		Version:        l.Version,
	}
}

// ToLeadResponses converts a slice of domain Leads to responses
func ToLeadResponses(leads []crm.Lead) []LeadResponse {
	responses := make([]LeadResponse, len(leads))
	for i := range leads {
		responses[i] = ToLeadResponse(&leads[i])
	}
	return responses
}

// =============================================================================
// Client DTOs
// =============================================================================

// CreateClientRequest represents a request to create a client directly
type CreateClientRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Address string `json:"address" binding:"max=500"`
	Tags    string `json:"tags"`
	Notes   string `json:"notes"`
}

// UpdateClientRequest represents a request to update a client
type UpdateClientRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email   *string `json:"email" binding:"omitempty,email,max=200"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Address *string `json:"address" binding:"omitempty,max=500"`
	Tags    *string `json:"tags"`
	Notes   *string `json:"notes"`
}

// SetCreditLimitRequest represents a request to set a client's credit limit
type SetCreditLimitRequest struct {
	CreditLimit *decimal.Decimal `json:"credit_limit"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Phone       string           `json:"phone"`
	Address     string           `json:"address"`
	LeadID      *uuid.UUID       `json:"lead_id"`
	Verified    bool             `json:"verified"`
	CreditLimit *decimal.Decimal `json:"credit_limit"`
	CreatedBy   *uuid.UUID       `json:"created_by"`
	AssigneeID  *uuid.UUID       `json:"assignee_id"`
	Tags        string           `json:"tags"`
	Notes       string           `json:"notes"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Version     int              `json:"version"`
}

// ClientListFilter represents filter options for the client list
type ClientListFilter struct {
	Search   string `form:"search"`
	Verified *bool  `form:"verified"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToClientResponse converts a domain Client to ClientResponse
func ToClientResponse(c *crm.Client) ClientResponse {
	return ClientResponse{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Address:     c.Address,
		LeadID:      c.LeadID,
		Verified:    c.Verified,
		CreditLimit: c.CreditLimit,
		CreatedBy:   c.CreatedBy,
		AssigneeID:  c.AssigneeID,
		Tags:        c.Tags,
		Notes:       c.Notes,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		Version:     c.Version,
	}
}

// ToClientResponses converts a slice of domain Clients to responses
func ToClientResponses(clients []crm.Client) []ClientResponse {
	responses := make([]ClientResponse, len(clients))
	for i := range clients {
		responses[i] = ToClientResponse(&clients[i])
	}
	return responses
}

// =============================================================================
// Follow-up DTOs
// =============================================================================

// FollowUpResponse represents a follow-up in API responses
type FollowUpResponse struct {
	ID          uuid.UUID  `json:"id"`
	LeadID      uuid.UUID  `json:"lead_id"`
	CreatedBy   uuid.UUID  `json:"created_by"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	Note        string     `json:"note"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToFollowUpResponse converts a domain FollowUp to FollowUpResponse
func ToFollowUpResponse(f *crm.FollowUp) FollowUpResponse {
	return FollowUpResponse{
		ID:          f.ID,
		LeadID:      f.LeadID,
		CreatedBy:   f.CreatedBy,
		ScheduledAt: f.ScheduledAt,
		Note:        f.Note,
		CompletedAt: f.CompletedAt,
		CreatedAt:   f.CreatedAt,
	}
}
