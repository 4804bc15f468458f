package crm

import (
	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event types for the CRM context
const (
	EventLeadCreated       = "crm.lead.created"
	EventLeadAssigned      = "crm.lead.assigned"
	EventLeadStatusChanged = "crm.lead.status_changed"
	EventLeadConverted     = "crm.lead.converted"
	EventClientCreated     = "crm.client.created"
	EventClientVerified    = "crm.client.verified"
)

// LeadCreatedEvent is emitted when a lead enters the pipeline
type LeadCreatedEvent struct {
	shared.BaseDomainEvent
	Name   string     `json:"name"`
	Source string     `json:"source,omitempty"`
	Status LeadStatus `json:"status"`
}

// NewLeadCreatedEvent creates a new LeadCreatedEvent
func NewLeadCreatedEvent(lead *Lead) *LeadCreatedEvent {
	return &LeadCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventLeadCreated, "Lead", lead.ID),
		Name:            lead.Name,
		Source:          lead.Source,
		Status:          lead.Status,
	}
}

// LeadAssignedEvent is emitted when a lead changes assignee
type LeadAssignedEvent struct {
	shared.BaseDomainEvent
	Name       string     `json:"name"`
	AssigneeID *uuid.UUID `json:"assignee_id"`
}

// NewLeadAssignedEvent creates a new LeadAssignedEvent
func NewLeadAssignedEvent(lead *Lead, assigneeID *uuid.UUID) *LeadAssignedEvent {
	return &LeadAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventLeadAssigned, "Lead", lead.ID),
		Name:            lead.Name,
		AssigneeID:      assigneeID,
	}
}

// LeadStatusChangedEvent is emitted when a lead moves between pipeline stages
type LeadStatusChangedEvent struct {
	shared.BaseDomainEvent
	Name      string     `json:"name"`
	OldStatus LeadStatus `json:"old_status"`
	NewStatus LeadStatus `json:"new_status"`
}

// NewLeadStatusChangedEvent creates a new LeadStatusChangedEvent
func NewLeadStatusChangedEvent(lead *Lead, oldStatus, newStatus LeadStatus) *LeadStatusChangedEvent {
	return &LeadStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventLeadStatusChanged, "Lead", lead.ID),
		Name:            lead.Name,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// LeadConvertedEvent is emitted when a lead is converted into a client
type LeadConvertedEvent struct {
	shared.BaseDomainEvent
	Name      string     `json:"name"`
	Source    string     `json:"source,omitempty"`
	OldStatus LeadStatus `json:"old_status"`
	ClientID  uuid.UUID  `json:"client_id"`
}

// NewLeadConvertedEvent creates a new LeadConvertedEvent
func NewLeadConvertedEvent(lead *Lead, oldStatus LeadStatus, clientID uuid.UUID) *LeadConvertedEvent {
	return &LeadConvertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventLeadConverted, "Lead", lead.ID),
		Name:            lead.Name,
		Source:          lead.Source,
		OldStatus:       oldStatus,
		ClientID:        clientID,
	}
}

// ClientCreatedEvent is emitted when a client is created, directly or by
// lead conversion
type ClientCreatedEvent struct {
	shared.BaseDomainEvent
	Name   string     `json:"name"`
	LeadID *uuid.UUID `json:"lead_id,omitempty"`
}

// NewClientCreatedEvent creates a new ClientCreatedEvent
func NewClientCreatedEvent(client *Client) *ClientCreatedEvent {
	return &ClientCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventClientCreated, "Client", client.ID),
		Name:            client.Name,
		LeadID:          client.LeadID,
	}
}

// ClientVerifiedEvent is emitted when a client passes verification
type ClientVerifiedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewClientVerifiedEvent creates a new ClientVerifiedEvent
func NewClientVerifiedEvent(client *Client) *ClientVerifiedEvent {
	return &ClientVerifiedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventClientVerified, "Client", client.ID),
		Name:            client.Name,
	}
}
