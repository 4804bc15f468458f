package identity

import (
	"github.com/estatecrm/backend/internal/domain/shared"
)

// Event types for the identity context
const (
	EventUserCreated       = "identity.user.created"
	EventUserStatusChanged = "identity.user.status_changed"
)

// UserCreatedEvent is emitted when a user is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(user *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventUserCreated, "User", user.ID),
		Username:        user.Username,
		Role:            user.Role,
	}
}

// UserStatusChangedEvent is emitted when a user is activated or deactivated
type UserStatusChangedEvent struct {
	shared.BaseDomainEvent
	Username  string     `json:"username"`
	NewStatus UserStatus `json:"new_status"`
}

// NewUserStatusChangedEvent creates a new UserStatusChangedEvent
func NewUserStatusChangedEvent(user *User, status UserStatus) *UserStatusChangedEvent {
	return &UserStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventUserStatusChanged, "User", user.ID),
		Username:        user.Username,
		NewStatus:       status,
	}
}
