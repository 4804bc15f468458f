package inventory

import (
	"time"

	"github.com/estatecrm/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePropertyRequest represents a request to list a new property
type CreatePropertyRequest struct {
	Code        string           `json:"code" binding:"required,min=1,max=50"`
	Title       string           `json:"title" binding:"required,min=1,max=200"`
	Type        string           `json:"type" binding:"required"`
	ListPrice   decimal.Decimal  `json:"list_price" binding:"required"`
	Address     string           `json:"address" binding:"max=300"`
	City        string           `json:"city" binding:"max=100"`
	AreaSqm     *decimal.Decimal `json:"area_sqm"`
	Description string           `json:"description"`
}

// UpdatePropertyRequest represents a request to update a property listing
type UpdatePropertyRequest struct {
	Title       *string          `json:"title" binding:"omitempty,min=1,max=200"`
	ListPrice   *decimal.Decimal `json:"list_price"`
	Address     *string          `json:"address" binding:"omitempty,max=300"`
	City        *string          `json:"city" binding:"omitempty,max=100"`
	AreaSqm     *decimal.Decimal `json:"area_sqm"`
	Description *string          `json:"description"`
}

// PropertyResponse represents a property in API responses
type PropertyResponse struct {
	ID          uuid.UUID        `json:"id"`
	Code        string           `json:"code"`
	Title       string           `json:"title"`
	Type        string           `json:"type"`
	Status      string           `json:"status"`
	Address     string           `json:"address"`
	City        string           `json:"city"`
	AreaSqm     *decimal.Decimal `json:"area_sqm"`
	ListPrice   decimal.Decimal  `json:"list_price"`
	Description string           `json:"description"`
	CreatedBy   *uuid.UUID       `json:"created_by"`
	AssigneeID  *uuid.UUID       `json:"assignee_id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Version     int              `json:"version"`
}

// PropertyListFilter represents filter options for the property list
type PropertyListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
	Status   string `form:"status"`
	Type     string `form:"type"`
	City     string `form:"city"`
	MinPrice string `form:"min_price"`
	MaxPrice string `form:"max_price"`
}

// ToPropertyResponse converts a domain property to its API representation
func ToPropertyResponse(p *inventory.Property) PropertyResponse {
	return PropertyResponse{
		ID:          p.ID,
		Code:        p.Code,
		Title:       p.Title,
		Type:        p.Type.String(),
		Status:      p.Status.String(),
		Address:     p.Address,
		City:        p.City,
		AreaSqm:     p.AreaSqm,
		ListPrice:   p.ListPrice,
		Description: p.Description,
		CreatedBy:   p.CreatedBy,
		AssigneeID:  p.AssigneeID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Version:     p.Version,
	}
}
