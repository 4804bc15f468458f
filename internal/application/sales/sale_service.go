package sales

import (
	"context"
	"fmt"

	"github.com/estatecrm/backend/internal/domain/access"
	"github.com/estatecrm/backend/internal/domain/crm"
	"github.com/estatecrm/backend/internal/domain/identity"
	"github.com/estatecrm/backend/internal/domain/inventory"
	"github.com/estatecrm/backend/internal/domain/notification"
	"github.com/estatecrm/backend/internal/domain/sales"
	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SaleService handles sale pipeline operations
type SaleService struct {
	saleRepo     sales.SaleRepository
	clientRepo   crm.ClientRepository
	propertyRepo inventory.PropertyRepository
	userRepo     identity.UserRepository
	policy       *access.Policy
	dispatcher   notification.Dispatcher
	logger       *zap.Logger

	eventPublisher shared.EventPublisher
}

// NewSaleService creates a new SaleService
func NewSaleService(
	saleRepo sales.SaleRepository,
	clientRepo crm.ClientRepository,
	propertyRepo inventory.PropertyRepository,
	userRepo identity.UserRepository,
	policy *access.Policy,
	dispatcher notification.Dispatcher,
	logger *zap.Logger,
) *SaleService {
	return &SaleService{
		saleRepo:     saleRepo,
		clientRepo:   clientRepo,
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
		policy:       policy,
		dispatcher:   dispatcher,
		logger:       logger,
	}
}

// SetEventPublisher sets the publisher for domain events. It is optional;
// without one, events raised by aggregates are discarded.
func (s *SaleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *SaleService) publishDomainEvents(ctx context.Context, root shared.AggregateRoot) {
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

// Create creates a new sale after validating every referenced record: the
// client and property must exist, the property must be on the market, and
// any named staff must be active users.
func (s *SaleService) Create(ctx context.Context, actor access.Actor, req CreateSaleRequest) (*SaleResponse, error) {
	if _, err := s.clientRepo.FindByID(ctx, req.ClientID); err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDependencyError("CLIENT_NOT_FOUND", "Referenced client does not exist")
		}
		return nil, err
	}

	property, err := s.propertyRepo.FindByID(ctx, req.PropertyID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDependencyError("PROPERTY_NOT_FOUND", "Referenced property does not exist")
		}
		return nil, err
	}
	if !property.IsSellable() {
		return nil, shared.NewDependencyError("PROPERTY_UNAVAILABLE", "Property is not on the market")
	}

	if err := s.requireActiveStaff(ctx, req.SalespersonID, "SALESPERSON"); err != nil {
		return nil, err
	}
	if err := s.requireActiveStaff(ctx, req.ManagerID, "MANAGER"); err != nil {
		return nil, err
	}

	saleNumber, err := s.saleRepo.GenerateSaleNumber(ctx)
	if err != nil {
		return nil, err
	}

	sale, err := sales.NewSale(actor.ID, saleNumber, req.ClientID, req.PropertyID, req.TotalAmount, req.DiscountAmount)
	if err != nil {
		return nil, err
	}
	if req.SalespersonID != nil || req.ManagerID != nil {
		if err := sale.SetStaff(req.SalespersonID, req.ManagerID); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		if err := sale.SetNotes(req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, sale)

	// Take the property off the open market while the sale is in flight.
	// Best-effort: a reservation failure never rolls back the sale.
	if property.Status == inventory.PropertyStatusAvailable {
		if err := property.Reserve(); err == nil {
			if err := s.propertyRepo.SaveWithLock(ctx, property); err != nil {
				s.logger.Warn("failed to reserve property for sale",
					zap.String("sale_id", sale.ID.String()),
					zap.String("property_id", property.ID.String()),
					zap.Error(err))
			}
			s.publishDomainEvents(ctx, property)
		}
	}

	s.logger.Info("sale created",
		zap.String("sale_id", sale.ID.String()),
		zap.String("sale_number", sale.SaleNumber),
		zap.String("actor_id", actor.ID.String()))

	response := ToSaleResponse(sale)
	return &response, nil
}

// GetByID retrieves a sale visible to the actor
func (s *SaleService) GetByID(ctx context.Context, actor access.Actor, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.findVisible(ctx, actor, saleID)
	if err != nil {
		return nil, err
	}

	response := ToSaleResponse(sale)
	return &response, nil
}

// List retrieves sales visible to the actor with filtering and pagination
func (s *SaleService) List(ctx context.Context, actor access.Actor, filter SaleListFilter) ([]SaleResponse, int64, error) {
	domainFilter := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.ClientID != "" {
		domainFilter.Filters["client_id"] = filter.ClientID
	}
	access.ScopeFilter(&domainFilter, actor)

	items, err := s.saleRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.saleRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToSaleResponses(items), total, nil
}

// Update updates a sale's mutable fields. Completed and cancelled sales
// reject any change.
func (s *SaleService) Update(ctx context.Context, actor access.Actor, saleID uuid.UUID, req UpdateSaleRequest) (*SaleResponse, error) {
	sale, err := s.findWritable(ctx, actor, saleID)
	if err != nil {
		return nil, err
	}

	if req.TotalAmount != nil || req.DiscountAmount != nil {
		total := sale.TotalAmount
		discount := sale.DiscountAmount
		if req.TotalAmount != nil {
			total = *req.TotalAmount
		}
		if req.DiscountAmount != nil {
			discount = *req.DiscountAmount
		}
		if err := sale.SetAmounts(total, discount); err != nil {
			return nil, err
		}
	}
	if req.SalespersonID != nil || req.ManagerID != nil {
		salesperson := sale.SalespersonID
		manager := sale.ManagerID
		if req.SalespersonID != nil {
			if err := s.requireActiveStaff(ctx, req.SalespersonID, "SALESPERSON"); err != nil {
				return nil, err
			}
			salesperson = req.SalespersonID
		}
		if req.ManagerID != nil {
			if err := s.requireActiveStaff(ctx, req.ManagerID, "MANAGER"); err != nil {
				return nil, err
			}
			manager = req.ManagerID
		}
		if err := sale.SetStaff(salesperson, manager); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		if err := sale.SetNotes(*req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, sale)

	response := ToSaleResponse(sale)
	return &response, nil
}

// Approve transitions a sale to approved and notifies its participants
func (s *SaleService) Approve(ctx context.Context, actor access.Actor, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.findWritable(ctx, actor, saleID)
	if err != nil {
		return nil, err
	}

	if err := sale.Approve(actor.ID); err != nil {
		return nil, err
	}

	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, sale)

	s.notifyParticipants(ctx, actor, sale, notification.TypeSaleApproved,
		"Sale approved", fmt.Sprintf("Sale %s has been approved", sale.SaleNumber))

	response := ToSaleResponse(sale)
	return &response, nil
}

// Complete transitions a sale to completed, marks the property sold, and
// notifies the participants
func (s *SaleService) Complete(ctx context.Context, actor access.Actor, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.findWritable(ctx, actor, saleID)
	if err != nil {
		return nil, err
	}

	if err := sale.Complete(); err != nil {
		return nil, err
	}

	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, sale)

	s.markPropertySold(ctx, sale)
	s.notifyParticipants(ctx, actor, sale, notification.TypeSaleCompleted,
		"Sale completed", fmt.Sprintf("Sale %s has been completed", sale.SaleNumber))

	response := ToSaleResponse(sale)
	return &response, nil
}

// Cancel transitions a sale to cancelled, releases the property if it was
// reserved, and notifies the participants
func (s *SaleService) Cancel(ctx context.Context, actor access.Actor, saleID uuid.UUID, req CancelSaleRequest) (*SaleResponse, error) {
	sale, err := s.findWritable(ctx, actor, saleID)
	if err != nil {
		return nil, err
	}

	if err := sale.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, sale)

	s.releaseProperty(ctx, sale)
	s.notifyParticipants(ctx, actor, sale, notification.TypeSaleCancelled,
		"Sale cancelled", fmt.Sprintf("Sale %s has been cancelled: %s", sale.SaleNumber, sale.CancelReason))

	response := ToSaleResponse(sale)
	return &response, nil
}

// Assign moves a sale to a new assignee
func (s *SaleService) Assign(ctx context.Context, actor access.Actor, saleID uuid.UUID, req AssignSaleRequest) (*SaleResponse, error) {
	sale, err := s.findWritable(ctx, actor, saleID)
	if err != nil {
		return nil, err
	}

	if req.AssigneeID != nil {
		if err := s.requireActiveStaff(ctx, req.AssigneeID, "ASSIGNEE"); err != nil {
			return nil, err
		}
	}

	changed, err := sale.Assign(req.AssigneeID)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
			return nil, err
		}
		s.publishDomainEvents(ctx, sale)
	}

	response := ToSaleResponse(sale)
	return &response, nil
}

// Delete removes a sale. Completed sales are permanent records and cannot
// be deleted.
func (s *SaleService) Delete(ctx context.Context, actor access.Actor, saleID uuid.UUID) error {
	sale, err := s.findWritable(ctx, actor, saleID)
	if err != nil {
		return err
	}

	if sale.IsCompleted() {
		return shared.NewStateConflictError("SALE_COMPLETED", "Completed sales cannot be deleted")
	}

	return s.saleRepo.Delete(ctx, sale.ID)
}

// StatusSummary reports sale counts per status
func (s *SaleService) StatusSummary(ctx context.Context) (*SaleStatusSummary, error) {
	statuses := []sales.SaleStatus{
		sales.SaleStatusDraft, sales.SaleStatusPending, sales.SaleStatusApproved,
		sales.SaleStatusCompleted, sales.SaleStatusCancelled,
	}

	summary := &SaleStatusSummary{Counts: make(map[string]int64, len(statuses))}
	for _, status := range statuses {
		count, err := s.saleRepo.CountByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		summary.Counts[string(status)] = count
		summary.Total += count
	}

	return summary, nil
}

func (s *SaleService) findVisible(ctx context.Context, actor access.Actor, saleID uuid.UUID) (*sales.Sale, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.AuthorizeRead(actor, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *SaleService) findWritable(ctx context.Context, actor access.Actor, saleID uuid.UUID) (*sales.Sale, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.AuthorizeWrite(actor, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

// requireActiveStaff verifies an optional staff reference points at an
// existing, active user
func (s *SaleService) requireActiveStaff(ctx context.Context, userID *uuid.UUID, role string) error {
	if userID == nil {
		return nil
	}
	user, err := s.userRepo.FindByID(ctx, *userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return shared.NewDependencyError(role+"_NOT_FOUND", "Referenced user does not exist")
		}
		return err
	}
	if !user.IsActive() {
		return shared.NewDependencyError(role+"_INACTIVE", "Referenced user is not active")
	}
	return nil
}

// notifyParticipants dispatches a best-effort notification to the sale's
// salesperson and manager, skipping the actor who performed the change
func (s *SaleService) notifyParticipants(ctx context.Context, actor access.Actor, sale *sales.Sale, nType notification.NotificationType, title, message string) {
	notifications := make([]*notification.Notification, 0, 2)
	for _, target := range sale.NotifyTargets() {
		if target == actor.ID {
			continue
		}
		n, err := notification.NewNotification(target, nType, title, message)
		if err != nil {
			s.logger.Warn("failed to build sale notification", zap.Error(err))
			continue
		}
		n.About("sale", sale.ID)
		notifications = append(notifications, n)
	}
	if len(notifications) > 0 {
		s.dispatcher.Dispatch(ctx, notifications...)
	}
}

func (s *SaleService) markPropertySold(ctx context.Context, sale *sales.Sale) {
	property, err := s.propertyRepo.FindByID(ctx, sale.PropertyID)
	if err != nil {
		s.logger.Warn("property lookup failed after sale completion",
			zap.String("sale_id", sale.ID.String()), zap.Error(err))
		return
	}
	if err := property.MarkSold(); err != nil {
		s.logger.Warn("property not markable as sold",
			zap.String("property_id", property.ID.String()), zap.Error(err))
		return
	}
	if err := s.propertyRepo.SaveWithLock(ctx, property); err != nil {
		s.logger.Warn("failed to persist property sold status",
			zap.String("property_id", property.ID.String()), zap.Error(err))
	}
	s.publishDomainEvents(ctx, property)
}

func (s *SaleService) releaseProperty(ctx context.Context, sale *sales.Sale) {
	property, err := s.propertyRepo.FindByID(ctx, sale.PropertyID)
	if err != nil {
		s.logger.Warn("property lookup failed after sale cancellation",
			zap.String("sale_id", sale.ID.String()), zap.Error(err))
		return
	}
	if property.Status != inventory.PropertyStatusReserved {
		return
	}
	if err := property.Release(); err != nil {
		return
	}
	if err := s.propertyRepo.SaveWithLock(ctx, property); err != nil {
		s.logger.Warn("failed to release property after cancellation",
			zap.String("property_id", property.ID.String()), zap.Error(err))
	}
	s.publishDomainEvents(ctx, property)
}
