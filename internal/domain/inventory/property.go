package inventory

import (
	"fmt"
	"strings"

	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PropertyType classifies the listing
type PropertyType string

const (
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeCommercial PropertyType = "commercial"
	PropertyTypeLand       PropertyType = "land"
)

// IsValid checks if the type is a valid PropertyType
func (t PropertyType) IsValid() bool {
	switch t {
	case PropertyTypeApartment, PropertyTypeHouse, PropertyTypeCommercial, PropertyTypeLand:
		return true
	}
	return false
}

// String returns the string representation of PropertyType
func (t PropertyType) String() string {
	return string(t)
}

// PropertyStatus represents the availability of a property
type PropertyStatus string

const (
	PropertyStatusAvailable PropertyStatus = "available"
	PropertyStatusReserved  PropertyStatus = "reserved"
	PropertyStatusSold      PropertyStatus = "sold"
	PropertyStatusWithdrawn PropertyStatus = "withdrawn"
)

// IsValid checks if the status is a valid PropertyStatus
func (s PropertyStatus) IsValid() bool {
	switch s {
	case PropertyStatusAvailable, PropertyStatusReserved, PropertyStatusSold, PropertyStatusWithdrawn:
		return true
	}
	return false
}

// String returns the string representation of PropertyStatus
func (s PropertyStatus) String() string {
	return string(s)
}

// Property represents a listing in the sales inventory. Sales reference
// properties by ID; a sale against a sold or withdrawn property is
// rejected at creation time.
type Property struct {
	shared.OwnedAggregateRoot
	Code        string
	Title       string
	Type        PropertyType
	Status      PropertyStatus
	Address     string
	City        string
	AreaSqm     *decimal.Decimal
	ListPrice   decimal.Decimal
	Description string
}

// NewProperty creates a new available property listing
func NewProperty(createdBy uuid.UUID, code, title string, pType PropertyType, listPrice decimal.Decimal) (*Property, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewValidationError("INVALID_CODE", "Property code cannot be empty")
	}
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewValidationError("INVALID_TITLE", "Property title cannot be empty")
	}
	if !pType.IsValid() {
		return nil, shared.NewValidationError("INVALID_PROPERTY_TYPE", "Unknown property type")
	}
	if listPrice.IsNegative() {
		return nil, shared.NewValidationError("INVALID_PRICE", "List price cannot be negative")
	}

	return &Property{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(createdBy),
		Code:               code,
		Title:              strings.TrimSpace(title),
		Type:               pType,
		Status:             PropertyStatusAvailable,
		ListPrice:          listPrice,
	}, nil
}

// IsSellable reports whether a new sale may reference this property
func (p *Property) IsSellable() bool {
	return p.Status == PropertyStatusAvailable || p.Status == PropertyStatusReserved
}

// Reserve marks the property reserved for an in-flight sale
func (p *Property) Reserve() error {
	if p.Status != PropertyStatusAvailable {
		return shared.NewStateConflictError("INVALID_STATE", fmt.Sprintf("Cannot reserve property in %s status", p.Status))
	}
	p.Status = PropertyStatusReserved
	p.IncrementVersion()
	return nil
}

// Release returns a reserved property to the market
func (p *Property) Release() error {
	if p.Status != PropertyStatusReserved {
		return shared.NewStateConflictError("INVALID_STATE", fmt.Sprintf("Cannot release property in %s status", p.Status))
	}
	p.Status = PropertyStatusAvailable
	p.IncrementVersion()
	return nil
}

// MarkSold records a completed sale of the property
func (p *Property) MarkSold() error {
	if p.Status == PropertyStatusSold || p.Status == PropertyStatusWithdrawn {
		return shared.NewStateConflictError("INVALID_STATE", fmt.Sprintf("Cannot sell property in %s status", p.Status))
	}
	p.Status = PropertyStatusSold
	p.IncrementVersion()
	return nil
}

// Withdraw removes the property from the market
func (p *Property) Withdraw() error {
	if p.Status == PropertyStatusSold {
		return shared.NewStateConflictError("INVALID_STATE", "Cannot withdraw a sold property")
	}
	p.Status = PropertyStatusWithdrawn
	p.IncrementVersion()
	return nil
}

// Relist returns a withdrawn property to the market
func (p *Property) Relist() error {
	if p.Status != PropertyStatusWithdrawn {
		return shared.NewStateConflictError("INVALID_STATE", "Only withdrawn properties can be relisted")
	}
	p.Status = PropertyStatusAvailable
	p.IncrementVersion()
	return nil
}

// SetListPrice updates the asking price
func (p *Property) SetListPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewValidationError("INVALID_PRICE", "List price cannot be negative")
	}
	p.ListPrice = price
	p.IncrementVersion()
	return nil
}
