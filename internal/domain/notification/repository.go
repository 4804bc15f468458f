package notification

import (
	"context"

	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// NotificationRepository defines the persistence contract for notifications
type NotificationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	FindByRecipient(ctx context.Context, recipientID uuid.UUID, filter shared.Filter) ([]Notification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	Save(ctx context.Context, n *Notification) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
