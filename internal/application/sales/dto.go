package sales

import (
	"time"

	"github.com/estatecrm/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateSaleRequest represents a request to create a new sale
type CreateSaleRequest struct {
	ClientID       uuid.UUID       `json:"client_id" binding:"required"`
	PropertyID     uuid.UUID       `json:"property_id" binding:"required"`
	SalespersonID  *uuid.UUID      `json:"salesperson_id"`
	ManagerID      *uuid.UUID      `json:"manager_id"`
	TotalAmount    decimal.Decimal `json:"total_amount" binding:"required"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Notes          string          `json:"notes"`
}

// UpdateSaleRequest represents a request to update a sale's mutable fields
type UpdateSaleRequest struct {
	TotalAmount    *decimal.Decimal `json:"total_amount"`
	DiscountAmount *decimal.Decimal `json:"discount_amount"`
	SalespersonID  *uuid.UUID       `json:"salesperson_id"`
	ManagerID      *uuid.UUID       `json:"manager_id"`
	Notes          *string          `json:"notes"`
}

// CancelSaleRequest represents a request to cancel a sale
type CancelSaleRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// AssignSaleRequest represents a request to assign a sale to a user
type AssignSaleRequest struct {
	AssigneeID *uuid.UUID `json:"assignee_id"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID             uuid.UUID       `json:"id"`
	SaleNumber     string          `json:"sale_number"`
	ClientID       uuid.UUID       `json:"client_id"`
	PropertyID     uuid.UUID       `json:"property_id"`
	SalespersonID  *uuid.UUID      `json:"salesperson_id"`
	ManagerID      *uuid.UUID      `json:"manager_id"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
	Status         string          `json:"status"`
	Notes          string          `json:"notes"`
	ApprovedBy     *uuid.UUID      `json:"approved_by"`
	ApprovedAt     *time.Time      `json:"approved_at"`
	CompletedAt    *time.Time      `json:"completed_at"`
	CancelledAt    *time.Time      `json:"cancelled_at"`
	CancelReason   string          `json:"cancel_reason,omitempty"`
	CreatedBy      *uuid.UUID      `json:"created_by"`
	AssigneeID     *uuid.UUID      `json:"assignee_id"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// SaleListFilter represents filter options for the sale list
type SaleListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=draft pending approved completed cancelled"`
	ClientID string `form:"client_id"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SaleStatusSummary reports how many sales sit in each status
type SaleStatusSummary struct {
	Counts map[string]int64 `json:"counts"`
	Total  int64            `json:"total"`
}

// ToSaleResponse converts a domain Sale to SaleResponse
func ToSaleResponse(s *sales.Sale) SaleResponse {
	return SaleResponse{
		ID:             s.ID,
		SaleNumber:     s.SaleNumber,
		ClientID:       s.ClientID,
		PropertyID:     s.PropertyID,
		SalespersonID:  s.SalespersonID,
		ManagerID:      s.ManagerID,
		TotalAmount:    s.TotalAmount,
		DiscountAmount: s.DiscountAmount,
		FinalAmount:    s.FinalAmount,
		Status:         string(s.Status),
		Notes:          s.Notes,
		ApprovedBy:     s.ApprovedBy,
		ApprovedAt:     s.ApprovedAt,
		CompletedAt:    s.CompletedAt,
		CancelledAt:    s.CancelledAt,
		CancelReason:   s.CancelReason,
		CreatedBy:      s.CreatedBy,
		AssigneeID:     s.AssigneeID,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
		Version:        s.Version,
	}
}

// ToSaleResponses converts a slice of domain Sales to responses
func ToSaleResponses(items []sales.Sale) []SaleResponse {
	responses := make([]SaleResponse, len(items))
	for i := range items {
		responses[i] = ToSaleResponse(&items[i])
	}
	return responses
}
