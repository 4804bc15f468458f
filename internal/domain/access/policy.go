// Package access implements the role-and-ownership visibility policy that
// gates every pipeline read and write. The rule is uniform across entity
// types: elevated roles see everything; everyone else only sees records
// they created, are assigned to, or participate in.
package access

import (
	"github.com/estatecrm/backend/internal/domain/identity"
	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Actor is the authenticated user on whose behalf a pipeline operation
// runs. It is passed explicitly into every call that touches an existing
// record; there is no ambient current-user state.
type Actor struct {
	ID   uuid.UUID
	Role identity.Role
}

// NewActor creates an actor from a user id and role
func NewActor(id uuid.UUID, role identity.Role) Actor {
	return Actor{ID: id, Role: role}
}

// Owned is the record contract the policy evaluates: who created the
// record and who is currently assigned to it.
type Owned interface {
	GetCreatedBy() *uuid.UUID
	GetAssigneeID() *uuid.UUID
}

// Participant is implemented by records that grant visibility to
// additional users beyond creator and assignee (a Sale's salesperson and
// manager).
type Participant interface {
	ParticipantIDs() []uuid.UUID
}

// Policy evaluates read/write permission for an actor against a record.
// Read and write currently share one rule; they are separate methods so
// the contract can diverge without touching call sites.
type Policy struct{}

// NewPolicy creates a new visibility policy
func NewPolicy() *Policy {
	return &Policy{}
}

// CanRead reports whether the actor may read the record
func (p *Policy) CanRead(actor Actor, record Owned) bool {
	return p.allowed(actor, record)
}

// CanWrite reports whether the actor may mutate the record
func (p *Policy) CanWrite(actor Actor, record Owned) bool {
	return p.allowed(actor, record)
}

// AuthorizeRead returns an AuthorizationError when the actor may not read
// the record
func (p *Policy) AuthorizeRead(actor Actor, record Owned) error {
	if !p.CanRead(actor, record) {
		return shared.NewAuthorizationError("ACCESS_DENIED", "Not permitted to view this record")
	}
	return nil
}

// AuthorizeWrite returns an AuthorizationError when the actor may not
// mutate the record
func (p *Policy) AuthorizeWrite(actor Actor, record Owned) error {
	if !p.CanWrite(actor, record) {
		return shared.NewAuthorizationError("ACCESS_DENIED", "Not permitted to modify this record")
	}
	return nil
}

func (p *Policy) allowed(actor Actor, record Owned) bool {
	if actor.Role.IsElevated() {
		return true
	}
	if createdBy := record.GetCreatedBy(); createdBy != nil && *createdBy == actor.ID {
		return true
	}
	if assignee := record.GetAssigneeID(); assignee != nil && *assignee == actor.ID {
		return true
	}
	if part, ok := record.(Participant); ok {
		for _, id := range part.ParticipantIDs() {
			if id == actor.ID {
				return true
			}
		}
	}
	return false
}
