package models

import (
	"time"

	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common database fields for all models
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToBaseEntity converts the model fields to a domain base entity
func (m *BaseModel) ToBaseEntity() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromBaseEntity populates the model fields from a domain base entity
func (m *BaseModel) FromBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel extends BaseModel with the optimistic-locking version
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// ToBaseAggregateRoot converts the model fields to a domain aggregate root
func (m *AggregateModel) ToBaseAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: m.ToBaseEntity(),
		Version:    m.Version,
	}
}

// FromBaseAggregateRoot populates the model fields from a domain aggregate root
func (m *AggregateModel) FromBaseAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// OwnedAggregateModel extends AggregateModel with the ownership columns
// the visibility scope predicate runs against
type OwnedAggregateModel struct {
	AggregateModel
	CreatedBy  *uuid.UUID `gorm:"type:uuid;index"`
	AssigneeID *uuid.UUID `gorm:"type:uuid;index"`
}

// ToOwnedAggregateRoot converts the model fields to an owned aggregate root
func (m *OwnedAggregateModel) ToOwnedAggregateRoot() shared.OwnedAggregateRoot {
	return shared.OwnedAggregateRoot{
		BaseAggregateRoot: m.ToBaseAggregateRoot(),
		CreatedBy:         m.CreatedBy,
		AssigneeID:        m.AssigneeID,
	}
}

// FromOwnedAggregateRoot populates the model fields from an owned aggregate root
func (m *OwnedAggregateModel) FromOwnedAggregateRoot(o shared.OwnedAggregateRoot) {
	m.FromBaseAggregateRoot(o.BaseAggregateRoot)
	m.CreatedBy = o.CreatedBy
	m.AssigneeID = o.AssigneeID
}
