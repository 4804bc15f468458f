package crm

import (
	"context"

	"github.com/estatecrm/backend/internal/domain/access"
	"github.com/estatecrm/backend/internal/domain/crm"
	"github.com/estatecrm/backend/internal/domain/identity"
	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientService handles client operations
type ClientService struct {
	clientRepo crm.ClientRepository
	userRepo   identity.UserRepository
	policy     *access.Policy
	logger     *zap.Logger

	eventPublisher shared.EventPublisher
}

// NewClientService creates a new ClientService
func NewClientService(
	clientRepo crm.ClientRepository,
	userRepo identity.UserRepository,
	policy *access.Policy,
	logger *zap.Logger,
) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		userRepo:   userRepo,
		policy:     policy,
		logger:     logger,
	}
}

// SetEventPublisher sets the publisher for domain events. It is optional;
// without one, events raised by aggregates are discarded.
func (s *ClientService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ClientService) publishDomainEvents(ctx context.Context, root shared.AggregateRoot) {
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

// Create creates a client directly, without going through lead conversion
func (s *ClientService) Create(ctx context.Context, actor access.Actor, req CreateClientRequest) (*ClientResponse, error) {
	client, err := crm.NewClient(actor.ID, req.Name)
	if err != nil {
		return nil, err
	}

	if req.Email != "" || req.Phone != "" || req.Address != "" {
		if err := client.SetContact(req.Email, req.Phone, req.Address); err != nil {
			return nil, err
		}
	}
	if req.Tags != "" {
		client.SetTags(req.Tags)
	}
	if req.Notes != "" {
		client.SetNotes(req.Notes)
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, client)

	s.logger.Info("client created",
		zap.String("client_id", client.ID.String()),
		zap.String("actor_id", actor.ID.String()))

	response := ToClientResponse(client)
	return &response, nil
}

// GetByID retrieves a client visible to the actor
func (s *ClientService) GetByID(ctx context.Context, actor access.Actor, clientID uuid.UUID) (*ClientResponse, error) {
	client, err := s.findVisible(ctx, actor, clientID)
	if err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// List retrieves clients visible to the actor with filtering and pagination
func (s *ClientService) List(ctx context.Context, actor access.Actor, filter ClientListFilter) ([]ClientResponse, int64, error) {
	domainFilter := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)

	if filter.Verified != nil {
		domainFilter.Filters["verified"] = *filter.Verified
	}
	access.ScopeFilter(&domainFilter, actor)

	clients, err := s.clientRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.clientRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToClientResponses(clients), total, nil
}

// Update updates a client's fields
func (s *ClientService) Update(ctx context.Context, actor access.Actor, clientID uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.findWritable(ctx, actor, clientID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := client.Update(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Email != nil || req.Phone != nil || req.Address != nil {
		email := client.Email
		phone := client.Phone
		address := client.Address
		if req.Email != nil {
			email = *req.Email
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Address != nil {
			address = *req.Address
		}
		if err := client.SetContact(email, phone, address); err != nil {
			return nil, err
		}
	}
	if req.Tags != nil {
		client.SetTags(*req.Tags)
	}
	if req.Notes != nil {
		client.SetNotes(*req.Notes)
	}

	if err := s.clientRepo.SaveWithLock(ctx, client); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, client)

	response := ToClientResponse(client)
	return &response, nil
}

// Verify marks a client as verified
func (s *ClientService) Verify(ctx context.Context, actor access.Actor, clientID uuid.UUID) (*ClientResponse, error) {
	client, err := s.findWritable(ctx, actor, clientID)
	if err != nil {
		return nil, err
	}

	if err := client.Verify(); err != nil {
		return nil, err
	}

	if err := s.clientRepo.SaveWithLock(ctx, client); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, client)

	response := ToClientResponse(client)
	return &response, nil
}

// Unverify clears a client's verified flag
func (s *ClientService) Unverify(ctx context.Context, actor access.Actor, clientID uuid.UUID) (*ClientResponse, error) {
	client, err := s.findWritable(ctx, actor, clientID)
	if err != nil {
		return nil, err
	}

	if err := client.Unverify(); err != nil {
		return nil, err
	}

	if err := s.clientRepo.SaveWithLock(ctx, client); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, client)

	response := ToClientResponse(client)
	return &response, nil
}

// SetCreditLimit sets a client's credit limit
func (s *ClientService) SetCreditLimit(ctx context.Context, actor access.Actor, clientID uuid.UUID, req SetCreditLimitRequest) (*ClientResponse, error) {
	client, err := s.findWritable(ctx, actor, clientID)
	if err != nil {
		return nil, err
	}

	if err := client.SetCreditLimit(req.CreditLimit); err != nil {
		return nil, err
	}

	if err := s.clientRepo.SaveWithLock(ctx, client); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, client)

	response := ToClientResponse(client)
	return &response, nil
}

// Assign moves a client to a new assignee
func (s *ClientService) Assign(ctx context.Context, actor access.Actor, clientID uuid.UUID, req AssignRequest) (*ClientResponse, error) {
	client, err := s.findWritable(ctx, actor, clientID)
	if err != nil {
		return nil, err
	}

	if req.AssigneeID != nil {
		user, err := s.userRepo.FindByID(ctx, *req.AssigneeID)
		if err != nil {
			if shared.IsNotFound(err) {
				return nil, shared.NewDependencyError("ASSIGNEE_NOT_FOUND", "Assignee does not exist")
			}
			return nil, err
		}
		if !user.IsActive() {
			return nil, shared.NewDependencyError("ASSIGNEE_INACTIVE", "Assignee is not an active user")
		}
	}

	if client.Assign(req.AssigneeID) {
		if err := s.clientRepo.SaveWithLock(ctx, client); err != nil {
			return nil, err
		}
		s.publishDomainEvents(ctx, client)
	}

	response := ToClientResponse(client)
	return &response, nil
}

// Delete removes a client
func (s *ClientService) Delete(ctx context.Context, actor access.Actor, clientID uuid.UUID) error {
	client, err := s.findWritable(ctx, actor, clientID)
	if err != nil {
		return err
	}

	return s.clientRepo.Delete(ctx, client.ID)
}

func (s *ClientService) findVisible(ctx context.Context, actor access.Actor, clientID uuid.UUID) (*crm.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.AuthorizeRead(actor, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) findWritable(ctx context.Context, actor access.Actor, clientID uuid.UUID) (*crm.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.AuthorizeWrite(actor, client); err != nil {
		return nil, err
	}
	return client, nil
}
