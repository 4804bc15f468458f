package models

import (
	"time"

	"github.com/estatecrm/backend/internal/domain/notification"
	"github.com/google/uuid"
)

// NotificationModel is the persistence model for the Notification domain entity.
type NotificationModel struct {
	BaseModel
	RecipientID uuid.UUID                     `gorm:"type:uuid;not null;index"`
	Type        notification.NotificationType `gorm:"type:varchar(50);not null"`
	Title       string                        `gorm:"type:varchar(200);not null"`
	Message     string                        `gorm:"type:text"`
	EntityType  string                        `gorm:"type:varchar(50)"`
	EntityID    *uuid.UUID                    `gorm:"type:uuid"`
	ReadAt      *time.Time                    `gorm:"index"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification entity.
func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		BaseEntity:  m.ToBaseEntity(),
		RecipientID: m.RecipientID,
		Type:        m.Type,
		Title:       m.Title,
		Message:     m.Message,
		EntityType:  m.EntityType,
		EntityID:    m.EntityID,
		ReadAt:      m.ReadAt,
	}
}

// FromDomain populates the persistence model from a domain Notification entity.
func (m *NotificationModel) FromDomain(n *notification.Notification) {
	m.FromBaseEntity(n.BaseEntity)
	m.RecipientID = n.RecipientID
	m.Type = n.Type
	m.Title = n.Title
	m.Message = n.Message
	m.EntityType = n.EntityType
	m.EntityID = n.EntityID
	m.ReadAt = n.ReadAt
}

// NotificationModelFromDomain creates a new persistence model from a domain Notification entity.
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	m := &NotificationModel{}
	m.FromDomain(n)
	return m
}
