package notification

import (
	"strings"
	"time"

	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// NotificationType classifies what a notification is about
type NotificationType string

const (
	TypeLeadAssigned  NotificationType = "lead_assigned"
	TypeTaskAssigned  NotificationType = "task_assigned"
	TypeTaskCompleted NotificationType = "task_completed"
	TypeSaleApproved  NotificationType = "sale_approved"
	TypeSaleCompleted NotificationType = "sale_completed"
	TypeSaleCancelled NotificationType = "sale_cancelled"
	TypeFollowUpDue   NotificationType = "follow_up_due"
	TypeTaskOverdue   NotificationType = "task_overdue"
)

// IsValid checks if the type is a known NotificationType
func (t NotificationType) IsValid() bool {
	switch t {
	case TypeLeadAssigned, TypeTaskAssigned, TypeTaskCompleted,
		TypeSaleApproved, TypeSaleCompleted, TypeSaleCancelled,
		TypeFollowUpDue, TypeTaskOverdue:
		return true
	}
	return false
}

// String returns the string representation of NotificationType
func (t NotificationType) String() string {
	return string(t)
}

// Notification is an in-app message addressed to a single user. It is
// delivered at most once; a lost notification is never retried.
type Notification struct {
	shared.BaseEntity
	RecipientID uuid.UUID
	Type        NotificationType
	Title       string
	Message     string
	EntityType  string
	EntityID    *uuid.UUID
	ReadAt      *time.Time
}

// NewNotification creates an unread notification for a recipient
func NewNotification(recipientID uuid.UUID, nType NotificationType, title, message string) (*Notification, error) {
	if recipientID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_RECIPIENT", "Notification recipient cannot be empty")
	}
	if !nType.IsValid() {
		return nil, shared.NewValidationError("INVALID_NOTIFICATION_TYPE", "Unknown notification type")
	}
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewValidationError("INVALID_TITLE", "Notification title cannot be empty")
	}

	return &Notification{
		BaseEntity:  shared.NewBaseEntity(),
		RecipientID: recipientID,
		Type:        nType,
		Title:       strings.TrimSpace(title),
		Message:     message,
	}, nil
}

// About links the notification to the entity it concerns
func (n *Notification) About(entityType string, entityID uuid.UUID) *Notification {
	n.EntityType = entityType
	n.EntityID = &entityID
	return n
}

// IsRead reports whether the recipient has seen the notification
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

// MarkRead records that the recipient has seen the notification. Marking
// an already-read notification is a no-op.
func (n *Notification) MarkRead() {
	if n.ReadAt != nil {
		return
	}
	now := time.Now()
	n.ReadAt = &now
	n.UpdatedAt = now
}
