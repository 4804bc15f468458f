package sales

import (
	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types for the sales context
const (
	EventSaleCreated       = "sales.sale.created"
	EventSaleStatusChanged = "sales.sale.status_changed"
)

// SaleCreatedEvent is emitted when a sale is created
type SaleCreatedEvent struct {
	shared.BaseDomainEvent
	SaleNumber  string          `json:"sale_number"`
	ClientID    uuid.UUID       `json:"client_id"`
	PropertyID  uuid.UUID       `json:"property_id"`
	FinalAmount decimal.Decimal `json:"final_amount"`
}

// NewSaleCreatedEvent creates a new SaleCreatedEvent
func NewSaleCreatedEvent(sale *Sale) *SaleCreatedEvent {
	return &SaleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventSaleCreated, "Sale", sale.ID),
		SaleNumber:      sale.SaleNumber,
		ClientID:        sale.ClientID,
		PropertyID:      sale.PropertyID,
		FinalAmount:     sale.FinalAmount,
	}
}

// SaleStatusChangedEvent is emitted on every sale status transition
type SaleStatusChangedEvent struct {
	shared.BaseDomainEvent
	SaleNumber  string          `json:"sale_number"`
	OldStatus   SaleStatus      `json:"old_status"`
	NewStatus   SaleStatus      `json:"new_status"`
	FinalAmount decimal.Decimal `json:"final_amount"`
}

// NewSaleStatusChangedEvent creates a new SaleStatusChangedEvent
func NewSaleStatusChangedEvent(sale *Sale, oldStatus, newStatus SaleStatus) *SaleStatusChangedEvent {
	return &SaleStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventSaleStatusChanged, "Sale", sale.ID),
		SaleNumber:      sale.SaleNumber,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
		FinalAmount:     sale.FinalAmount,
	}
}
