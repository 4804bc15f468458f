package identity

import (
	"context"

	"github.com/estatecrm/backend/internal/domain/access"
	"github.com/estatecrm/backend/internal/domain/identity"
	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles user management operations. Mutating operations are
// restricted to admin roles; reads are open to any authenticated actor so
// assignment pickers can list users.
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger

	eventPublisher shared.EventPublisher
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// SetEventPublisher sets the publisher for domain events. It is optional;
// without one, events raised by aggregates are discarded.
func (s *UserService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *UserService) publishDomainEvents(ctx context.Context, root shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	events := root.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	root.ClearDomainEvents()
}

// Register creates a new user account
func (s *UserService) Register(ctx context.Context, actor access.Actor, req RegisterUserRequest) (*UserResponse, error) {
	if err := s.requireUserAdmin(actor); err != nil {
		return nil, err
	}

	role := identity.Role(req.Role)
	user, err := identity.NewUser(req.Username, req.Password, role)
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, user.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewConflictError("USERNAME_EXISTS", "A user with this username already exists")
	}

	if req.Email != "" {
		if err := user.SetEmail(req.Email); err != nil {
			return nil, err
		}
	}
	if req.Phone != "" {
		if err := user.SetPhone(req.Phone); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != "" {
		if err := user.SetDisplayName(req.DisplayName); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, user)

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", user.Role.String()),
		zap.String("actor_id", actor.ID.String()))

	response := ToUserResponse(user)
	return &response, nil
}

// GetByID retrieves a user by id
func (s *UserService) GetByID(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// List retrieves users with filtering and pagination
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]UserResponse, int64, error) {
	domainFilter := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)

	if filter.Role != "" {
		domainFilter.Filters["role"] = filter.Role
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	users, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses, total, nil
}

// Update updates a user's profile and role
func (s *UserService) Update(ctx context.Context, actor access.Actor, userID uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	if err := s.requireUserAdmin(actor); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		if err := user.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}
	if req.Phone != nil {
		if err := user.SetPhone(*req.Phone); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != nil {
		if err := user.SetDisplayName(*req.DisplayName); err != nil {
			return nil, err
		}
	}
	if req.Role != nil {
		if err := user.SetRole(identity.Role(*req.Role)); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		user.Notes = *req.Notes
	}

	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, user)

	s.logger.Info("user updated",
		zap.String("user_id", user.ID.String()),
		zap.String("actor_id", actor.ID.String()))

	response := ToUserResponse(user)
	return &response, nil
}

// ChangePassword changes the actor's own password after verifying the
// current one
func (s *UserService) ChangePassword(ctx context.Context, actor access.Actor, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return err
	}

	if !user.CheckPassword(req.CurrentPassword) {
		return shared.NewAuthorizationError("INVALID_CREDENTIALS", "Current password is incorrect")
	}

	if err := user.ChangePassword(req.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return err
	}
	s.publishDomainEvents(ctx, user)

	s.logger.Info("password changed", zap.String("user_id", user.ID.String()))
	return nil
}

// ResetPassword sets a new password for a user without knowing the old one
func (s *UserService) ResetPassword(ctx context.Context, actor access.Actor, userID uuid.UUID, req ResetPasswordRequest) error {
	if err := s.requireUserAdmin(actor); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := user.ChangePassword(req.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return err
	}
	s.publishDomainEvents(ctx, user)

	s.logger.Info("password reset",
		zap.String("user_id", user.ID.String()),
		zap.String("actor_id", actor.ID.String()))
	return nil
}

// Activate re-activates a deactivated user
func (s *UserService) Activate(ctx context.Context, actor access.Actor, userID uuid.UUID) (*UserResponse, error) {
	if err := s.requireUserAdmin(actor); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := user.Activate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, user)

	s.logger.Info("user activated",
		zap.String("user_id", user.ID.String()),
		zap.String("actor_id", actor.ID.String()))

	response := ToUserResponse(user)
	return &response, nil
}

// Deactivate deactivates a user. Deactivated users cannot authenticate and
// are rejected as assignees or sale participants.
func (s *UserService) Deactivate(ctx context.Context, actor access.Actor, userID uuid.UUID) (*UserResponse, error) {
	if err := s.requireUserAdmin(actor); err != nil {
		return nil, err
	}

	if actor.ID == userID {
		return nil, shared.NewStateConflictError("SELF_DEACTIVATION", "Cannot deactivate your own account")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := user.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, user)

	s.logger.Info("user deactivated",
		zap.String("user_id", user.ID.String()),
		zap.String("actor_id", actor.ID.String()))

	response := ToUserResponse(user)
	return &response, nil
}

// requireUserAdmin restricts user management to admin roles
func (s *UserService) requireUserAdmin(actor access.Actor) error {
	switch actor.Role {
	case identity.RoleAdmin, identity.RoleSuperAdmin:
		return nil
	}
	return shared.NewAuthorizationError("FORBIDDEN", "Only administrators can manage users")
}
