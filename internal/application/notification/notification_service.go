package notification

import (
	"context"

	"github.com/estatecrm/backend/internal/domain/access"
	"github.com/estatecrm/backend/internal/domain/notification"
	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationService handles a user's own notification inbox. All
// operations are scoped to the actor: no role sees another user's inbox.
type NotificationService struct {
	notificationRepo notification.NotificationRepository
	logger           *zap.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo notification.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// ListForUser retrieves the actor's notifications, newest first
func (s *NotificationService) ListForUser(ctx context.Context, actor access.Actor, filter NotificationListFilter) ([]NotificationResponse, error) {
	domainFilter := shared.NewFilter(filter.Page, filter.PageSize, "created_at", "desc", "")
	if filter.UnreadOnly {
		domainFilter.Filters["unread"] = true
	}

	items, err := s.notificationRepo.FindByRecipient(ctx, actor.ID, domainFilter)
	if err != nil {
		return nil, err
	}

	return ToNotificationResponses(items), nil
}

// UnreadCount reports how many of the actor's notifications are unread
func (s *NotificationService) UnreadCount(ctx context.Context, actor access.Actor) (*UnreadCountResponse, error) {
	count, err := s.notificationRepo.CountUnread(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return &UnreadCountResponse{Count: count}, nil
}

// MarkRead marks one of the actor's notifications as read. Marking an
// already-read notification is a no-op, not an error.
func (s *NotificationService) MarkRead(ctx context.Context, actor access.Actor, notificationID uuid.UUID) (*NotificationResponse, error) {
	n, err := s.notificationRepo.FindByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.RecipientID != actor.ID {
		return nil, shared.NewAuthorizationError("ACCESS_DENIED", "Not permitted to view this notification")
	}

	if !n.IsRead() {
		n.MarkRead()
		if err := s.notificationRepo.Save(ctx, n); err != nil {
			return nil, err
		}
	}

	response := ToNotificationResponse(n)
	return &response, nil
}

// MarkAllRead marks every unread notification of the actor as read
func (s *NotificationService) MarkAllRead(ctx context.Context, actor access.Actor) error {
	if err := s.notificationRepo.MarkAllRead(ctx, actor.ID); err != nil {
		return err
	}
	s.logger.Debug("notifications marked read", zap.String("user_id", actor.ID.String()))
	return nil
}
