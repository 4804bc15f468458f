package models

import (
	"time"

	"github.com/estatecrm/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleModel is the persistence model for the Sale domain entity.
type SaleModel struct {
	OwnedAggregateModel
	SaleNumber     string           `gorm:"type:varchar(50);not null;uniqueIndex"`
	ClientID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	PropertyID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	SalespersonID  *uuid.UUID       `gorm:"type:uuid;index"`
	ManagerID      *uuid.UUID       `gorm:"type:uuid;index"`
	TotalAmount    decimal.Decimal  `gorm:"type:decimal(15,2);not null"`
	DiscountAmount decimal.Decimal  `gorm:"type:decimal(15,2);not null;default:0"`
	FinalAmount    decimal.Decimal  `gorm:"type:decimal(15,2);not null"`
	Status         sales.SaleStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Notes          string           `gorm:"type:text"`
	ApprovedBy     *uuid.UUID       `gorm:"type:uuid"`
	ApprovedAt     *time.Time
	CompletedAt    *time.Time
	CancelledAt    *time.Time
	CancelReason   string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale entity.
func (m *SaleModel) ToDomain() *sales.Sale {
	return &sales.Sale{
		OwnedAggregateRoot: m.ToOwnedAggregateRoot(),
		SaleNumber:         m.SaleNumber,
		ClientID:           m.ClientID,
		PropertyID:         m.PropertyID,
		SalespersonID:      m.SalespersonID,
		ManagerID:          m.ManagerID,
		TotalAmount:        m.TotalAmount,
		DiscountAmount:     m.DiscountAmount,
		FinalAmount:        m.FinalAmount,
		Status:             m.Status,
		Notes:              m.Notes,
		ApprovedBy:         m.ApprovedBy,
		ApprovedAt:         m.ApprovedAt,
		CompletedAt:        m.CompletedAt,
		CancelledAt:        m.CancelledAt,
		CancelReason:       m.CancelReason,
	}
}

// FromDomain populates the persistence model from a domain Sale entity.
func (m *SaleModel) FromDomain(s *sales.Sale) {
	m.FromOwnedAggregateRoot(s.OwnedAggregateRoot)
	m.SaleNumber = s.SaleNumber
	m.ClientID = s.ClientID
	m.PropertyID = s.PropertyID
	m.SalespersonID = s.SalespersonID
	m.ManagerID = s.ManagerID
	m.TotalAmount = s.TotalAmount
	m.DiscountAmount = s.DiscountAmount
	m.FinalAmount = s.FinalAmount
	m.Status = s.Status
	m.Notes = s.Notes
	m.ApprovedBy = s.ApprovedBy
	m.ApprovedAt = s.ApprovedAt
	m.CompletedAt = s.CompletedAt
	m.CancelledAt = s.CancelledAt
	m.CancelReason = s.CancelReason
}

// SaleModelFromDomain creates a new persistence model from a domain Sale entity.
func SaleModelFromDomain(s *sales.Sale) *SaleModel {
	m := &SaleModel{}
	m.FromDomain(s)
	return m
}
