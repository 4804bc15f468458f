package models

import (
	"github.com/estatecrm/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// PropertyModel is the persistence model for the Property domain entity.
type PropertyModel struct {
	OwnedAggregateModel
	Code        string                   `gorm:"type:varchar(50);not null;uniqueIndex"`
	Title       string                   `gorm:"type:varchar(200);not null"`
	Type        inventory.PropertyType   `gorm:"type:varchar(20);not null"`
	Status      inventory.PropertyStatus `gorm:"type:varchar(20);not null;default:'available';index"`
	Address     string                   `gorm:"type:varchar(500)"`
	City        string                   `gorm:"type:varchar(100);index"`
	AreaSqm     *decimal.Decimal         `gorm:"type:decimal(12,2)"`
	ListPrice   decimal.Decimal          `gorm:"type:decimal(15,2);not null"`
	Description string                   `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PropertyModel) TableName() string {
	return "properties"
}

// ToDomain converts the persistence model to a domain Property entity.
func (m *PropertyModel) ToDomain() *inventory.Property {
	return &inventory.Property{
		OwnedAggregateRoot: m.ToOwnedAggregateRoot(),
		Code:               m.Code,
		Title:              m.Title,
		Type:               m.Type,
		Status:             m.Status,
		Address:            m.Address,
		City:               m.City,
		AreaSqm:            m.AreaSqm,
		ListPrice:          m.ListPrice,
		Description:        m.Description,
	}
}

// FromDomain populates the persistence model from a domain Property entity.
func (m *PropertyModel) FromDomain(p *inventory.Property) {
	m.FromOwnedAggregateRoot(p.OwnedAggregateRoot)
	m.Code = p.Code
	m.Title = p.Title
	m.Type = p.Type
	m.Status = p.Status
	m.Address = p.Address
	m.City = p.City
	m.AreaSqm = p.AreaSqm
	m.ListPrice = p.ListPrice
	m.Description = p.Description
}

// PropertyModelFromDomain creates a new persistence model from a domain Property entity.
func PropertyModelFromDomain(p *inventory.Property) *PropertyModel {
	m := &PropertyModel{}
	m.FromDomain(p)
	return m
}
