package shared

import (
	"time"

	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// OwnedAggregateRoot extends BaseAggregateRoot with the ownership fields
// the visibility policy evaluates: the creator (set once, immutable) and
// the current assignee (nullable, mutable).
type OwnedAggregateRoot struct {
	BaseAggregateRoot
	CreatedBy  *uuid.UUID `gorm:"type:uuid;index"`
	AssigneeID *uuid.UUID `gorm:"type:uuid;index"`
}

// NewOwnedAggregateRoot creates a new aggregate root owned by its creator
func NewOwnedAggregateRoot(createdBy uuid.UUID) OwnedAggregateRoot {
	return OwnedAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		CreatedBy:         &createdBy,
	}
}

// GetCreatedBy returns the creator user ID
func (o *OwnedAggregateRoot) GetCreatedBy() *uuid.UUID {
	return o.CreatedBy
}

// GetAssigneeID returns the current assignee user ID
func (o *OwnedAggregateRoot) GetAssigneeID() *uuid.UUID {
	return o.AssigneeID
}

// SetAssignee moves the record to a new assignee. It reports whether the
// assignee actually changed so callers can suppress duplicate notifications
// when re-assigning to the same user.
func (o *OwnedAggregateRoot) SetAssignee(userID *uuid.UUID) bool {
	if equalUUIDPtr(o.AssigneeID, userID) {
		return false
	}
	o.AssigneeID = userID
	o.UpdatedAt = time.Now()
	return true
}

func equalUUIDPtr(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
