package crm

import (
	"context"
	"fmt"

	"github.com/estatecrm/backend/internal/domain/access"
	"github.com/estatecrm/backend/internal/domain/crm"
	"github.com/estatecrm/backend/internal/domain/identity"
	"github.com/estatecrm/backend/internal/domain/notification"
	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LeadService handles lead pipeline operations
type LeadService struct {
	leadRepo     crm.LeadRepository
	clientRepo   crm.ClientRepository
	followUpRepo crm.FollowUpRepository
	userRepo     identity.UserRepository
	policy       *access.Policy
	dispatcher   notification.Dispatcher
	logger       *zap.Logger

	eventPublisher shared.EventPublisher
}

// NewLeadService creates a new LeadService
func NewLeadService(
	leadRepo crm.LeadRepository,
	clientRepo crm.ClientRepository,
	followUpRepo crm.FollowUpRepository,
	userRepo identity.UserRepository,
	policy *access.Policy,
	dispatcher notification.Dispatcher,
	logger *zap.Logger,
) *LeadService {
	return &LeadService{
		leadRepo:     leadRepo,
		clientRepo:   clientRepo,
		followUpRepo: followUpRepo,
		userRepo:     userRepo,
		policy:       policy,
		dispatcher:   dispatcher,
		logger:       logger,
	}
}

// SetEventPublisher sets the publisher for domain events. It is optional;
// without one, events raised by aggregates are discarded.
func (s *LeadService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *LeadService) publishDomainEvents(ctx context.Context, root shared.AggregateRoot) {
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

// Create creates a new lead. The lead always starts in new status with a
// zero score regardless of request content.
func (s *LeadService) Create(ctx context.Context, actor access.Actor, req CreateLeadRequest) (*LeadResponse, error) {
	lead, err := crm.NewLead(actor.ID, req.Name)
	if err != nil {
		return nil, err
	}

	if req.Email != "" || req.Phone != "" {
		if err := lead.SetContact(req.Email, req.Phone); err != nil {
			return nil, err
		}
	}
	if err := lead.SetBudget(req.BudgetMin, req.BudgetMax); err != nil {
		return nil, err
	}
	if req.Source != "" {
		lead.SetSource(req.Source)
	}
	if req.Tags != "" {
		lead.SetTags(req.Tags)
	}
	if req.Notes != "" {
		lead.SetNotes(req.Notes)
	}

	if req.AssigneeID != nil {
		if err := s.requireActiveUser(ctx, *req.AssigneeID); err != nil {
			return nil, err
		}
		lead.Assign(req.AssigneeID)
	}

	if err := s.leadRepo.Save(ctx, lead); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, lead)

	if req.AssigneeID != nil {
		s.notifyLeadAssigned(ctx, actor, lead, req.AssigneeID)
	}

	s.logger.Info("lead created",
		zap.String("lead_id", lead.ID.String()),
		zap.String("actor_id", actor.ID.String()))

	response := ToLeadResponse(lead)
	return &response, nil
}

// GetByID retrieves a lead visible to the actor
func (s *LeadService) GetByID(ctx context.Context, actor access.Actor, leadID uuid.UUID) (*LeadResponse, error) {
	lead, err := s.findVisible(ctx, actor, leadID)
	if err != nil {
		return nil, err
	}

	response := ToLeadResponse(lead)
	return &response, nil
}

// List retrieves leads visible to the actor with filtering and pagination
func (s *LeadService) List(ctx context.Context, actor access.Actor, filter LeadListFilter) ([]LeadResponse, int64, error) {
	domainFilter := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Source != "" {
		domainFilter.Filters["source"] = filter.Source
	}
	if filter.AssigneeID != "" {
		domainFilter.Filters["assignee_id"] = filter.AssigneeID
	}
	access.ScopeFilter(&domainFilter, actor)

	leads, err := s.leadRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.leadRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToLeadResponses(leads), total, nil
}

// Update updates a lead's fields. Converted leads reject any change.
func (s *LeadService) Update(ctx context.Context, actor access.Actor, leadID uuid.UUID, req UpdateLeadRequest) (*LeadResponse, error) {
	lead, err := s.findWritable(ctx, actor, leadID)
	if err != nil {
		return nil, err
	}

	if lead.IsConverted() {
		return nil, shared.NewStateConflictError("LEAD_CONVERTED", "Converted leads cannot be modified")
	}

	if req.Name != nil {
		if err := lead.UpdateName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Email != nil || req.Phone != nil {
		email := lead.Email
		phone := lead.Phone
		if req.Email != nil {
			email = *req.Email
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if err := lead.SetContact(email, phone); err != nil {
			return nil, err
		}
	}
	if req.BudgetMin != nil || req.BudgetMax != nil {
		min := lead.BudgetMin
		max := lead.BudgetMax
		if req.BudgetMin != nil {
			min = req.BudgetMin
		}
		if req.BudgetMax != nil {
			max = req.BudgetMax
		}
		if err := lead.SetBudget(min, max); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		if err := lead.ChangeStatus(crm.LeadStatus(*req.Status)); err != nil {
			return nil, err
		}
	}
	if req.Source != nil {
		lead.SetSource(*req.Source)
	}
	if req.Tags != nil {
		lead.SetTags(*req.Tags)
	}
	if req.Notes != nil {
		lead.SetNotes(*req.Notes)
	}

	if err := s.leadRepo.SaveWithLock(ctx, lead); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, lead)

	response := ToLeadResponse(lead)
	return &response, nil
}

// UpdateScore sets a lead's qualification score
func (s *LeadService) UpdateScore(ctx context.Context, actor access.Actor, leadID uuid.UUID, req UpdateLeadScoreRequest) (*LeadResponse, error) {
	lead, err := s.findWritable(ctx, actor, leadID)
	if err != nil {
		return nil, err
	}

	if lead.IsConverted() {
		return nil, shared.NewStateConflictError("LEAD_CONVERTED", "Converted leads cannot be modified")
	}

	if err := lead.UpdateScore(req.Score); err != nil {
		return nil, err
	}

	if err := s.leadRepo.SaveWithLock(ctx, lead); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, lead)

	response := ToLeadResponse(lead)
	return &response, nil
}

// MarkLost marks a lead as lost
func (s *LeadService) MarkLost(ctx context.Context, actor access.Actor, leadID uuid.UUID) (*LeadResponse, error) {
	lead, err := s.findWritable(ctx, actor, leadID)
	if err != nil {
		return nil, err
	}

	if err := lead.MarkLost(); err != nil {
		return nil, err
	}

	if err := s.leadRepo.SaveWithLock(ctx, lead); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, lead)

	response := ToLeadResponse(lead)
	return &response, nil
}

// Convert converts a lead into a client. The client record is written
// before the lead status flips: a failure between the two leaves a client
// without a converted lead, never a converted lead without a client.
func (s *LeadService) Convert(ctx context.Context, actor access.Actor, leadID uuid.UUID) (*ClientResponse, error) {
	lead, err := s.findWritable(ctx, actor, leadID)
	if err != nil {
		return nil, err
	}

	client, err := crm.NewClientFromLead(lead, actor.ID)
	if err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, client)

	if err := lead.Convert(client.ID); err != nil {
		return nil, err
	}
	if err := s.leadRepo.SaveWithLock(ctx, lead); err != nil {
		s.logger.Error("client saved but lead conversion failed",
			zap.String("lead_id", lead.ID.String()),
			zap.String("client_id", client.ID.String()),
			zap.Error(err))
		return nil, err
	}
	s.publishDomainEvents(ctx, lead)

	s.logger.Info("lead converted",
		zap.String("lead_id", lead.ID.String()),
		zap.String("client_id", client.ID.String()))

	response := ToClientResponse(client)
	return &response, nil
}

// Assign moves a lead to a new assignee. Re-assigning to the current
// assignee is a no-op and produces no notification.
func (s *LeadService) Assign(ctx context.Context, actor access.Actor, leadID uuid.UUID, req AssignRequest) (*LeadResponse, error) {
	lead, err := s.findWritable(ctx, actor, leadID)
	if err != nil {
		return nil, err
	}

	if req.AssigneeID != nil {
		if err := s.requireActiveUser(ctx, *req.AssigneeID); err != nil {
			return nil, err
		}
	}

	if lead.Assign(req.AssigneeID) {
		if err := s.leadRepo.SaveWithLock(ctx, lead); err != nil {
			return nil, err
		}
		s.publishDomainEvents(ctx, lead)
		s.notifyLeadAssigned(ctx, actor, lead, req.AssigneeID)
	}

	response := ToLeadResponse(lead)
	return &response, nil
}

// BulkAssign assigns several leads to one user. The operation is not
// transactional: failures are reported per lead and do not roll back the
// records that succeeded.
func (s *LeadService) BulkAssign(ctx context.Context, actor access.Actor, req BulkAssignRequest) (*BulkAssignResult, error) {
	if err := s.requireActiveUser(ctx, req.AssigneeID); err != nil {
		return nil, err
	}

	result := &BulkAssignResult{
		Assigned: make([]uuid.UUID, 0, len(req.IDs)),
		Failed:   make([]BulkAssignFailure, 0),
	}

	assigneeID := req.AssigneeID
	for _, id := range req.IDs {
		lead, err := s.findWritable(ctx, actor, id)
		if err != nil {
			result.Failed = append(result.Failed, BulkAssignFailure{ID: id, Reason: err.Error()})
			continue
		}

		if !lead.Assign(&assigneeID) {
			// already assigned to this user, count as success without renotifying
			result.Assigned = append(result.Assigned, id)
			continue
		}

		if err := s.leadRepo.SaveWithLock(ctx, lead); err != nil {
			result.Failed = append(result.Failed, BulkAssignFailure{ID: id, Reason: err.Error()})
			continue
		}
		s.publishDomainEvents(ctx, lead)

		result.Assigned = append(result.Assigned, id)
		s.notifyLeadAssigned(ctx, actor, lead, &assigneeID)
	}

	s.logger.Info("bulk lead assignment",
		zap.Int("requested", len(req.IDs)),
		zap.Int("assigned", len(result.Assigned)),
		zap.Int("failed", len(result.Failed)))

	return result, nil
}

// ScheduleFollowUp records a follow-up for a lead and updates the lead's
// next-follow-up timestamp
func (s *LeadService) ScheduleFollowUp(ctx context.Context, actor access.Actor, leadID uuid.UUID, req ScheduleFollowUpRequest) (*FollowUpResponse, error) {
	lead, err := s.findWritable(ctx, actor, leadID)
	if err != nil {
		return nil, err
	}

	if err := lead.ScheduleFollowUp(req.ScheduledAt); err != nil {
		return nil, err
	}

	followUp, err := crm.NewFollowUp(lead.ID, actor.ID, req.ScheduledAt, req.Note)
	if err != nil {
		return nil, err
	}

	if err := s.followUpRepo.Save(ctx, followUp); err != nil {
		return nil, err
	}
	if err := s.leadRepo.SaveWithLock(ctx, lead); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, lead)

	response := ToFollowUpResponse(followUp)
	return &response, nil
}

// ListFollowUps retrieves the follow-ups recorded for a lead
func (s *LeadService) ListFollowUps(ctx context.Context, actor access.Actor, leadID uuid.UUID) ([]FollowUpResponse, error) {
	lead, err := s.findVisible(ctx, actor, leadID)
	if err != nil {
		return nil, err
	}

	followUps, err := s.followUpRepo.FindByLead(ctx, lead.ID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}

	responses := make([]FollowUpResponse, len(followUps))
	for i := range followUps {
		responses[i] = ToFollowUpResponse(&followUps[i])
	}
	return responses, nil
}

// Delete removes a lead. Converted leads cannot be deleted because the
// client record references them.
func (s *LeadService) Delete(ctx context.Context, actor access.Actor, leadID uuid.UUID) error {
	lead, err := s.findWritable(ctx, actor, leadID)
	if err != nil {
		return err
	}

	if lead.IsConverted() {
		return shared.NewStateConflictError("LEAD_CONVERTED", "Converted leads cannot be deleted")
	}

	return s.leadRepo.Delete(ctx, lead.ID)
}

// StatusSummary reports lead counts per pipeline stage
func (s *LeadService) StatusSummary(ctx context.Context) (*LeadStatusSummary, error) {
	statuses := []crm.LeadStatus{
		crm.LeadStatusNew, crm.LeadStatusContacted, crm.LeadStatusQualified,
		crm.LeadStatusProposal, crm.LeadStatusNegotiation, crm.LeadStatusConverted,
		crm.LeadStatusLost, crm.LeadStatusInactive,
	}

	summary := &LeadStatusSummary{Counts: make(map[string]int64, len(statuses))}
	for _, status := range statuses {
		count, err := s.leadRepo.CountByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		summary.Counts[string(status)] = count
		summary.Total += count
	}

	return summary, nil
}

func (s *LeadService) findVisible(ctx context.Context, actor access.Actor, leadID uuid.UUID) (*crm.Lead, error) {
	lead, err := s.leadRepo.FindByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.AuthorizeRead(actor, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *LeadService) findWritable(ctx context.Context, actor access.Actor, leadID uuid.UUID) (*crm.Lead, error) {
	lead, err := s.leadRepo.FindByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.AuthorizeWrite(actor, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// requireActiveUser verifies the referenced user exists and is active.
// Assignments to missing or deactivated users fail with a dependency error.
func (s *LeadService) requireActiveUser(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return shared.NewDependencyError("ASSIGNEE_NOT_FOUND", "Assignee does not exist")
		}
		return err
	}
	if !user.IsActive() {
		return shared.NewDependencyError("ASSIGNEE_INACTIVE", "Assignee is not an active user")
	}
	return nil
}

// notifyLeadAssigned dispatches a best-effort notification to the new
// assignee. Every real assignee change produces exactly one notification,
// including an actor claiming a lead for themselves.
func (s *LeadService) notifyLeadAssigned(ctx context.Context, actor access.Actor, lead *crm.Lead, assigneeID *uuid.UUID) {
	if assigneeID == nil {
		return
	}

	n, err := notification.NewNotification(*assigneeID, notification.TypeLeadAssigned,
		"Lead assigned to you",
		fmt.Sprintf("Lead %q has been assigned to you", lead.Name))
	if err != nil {
		s.logger.Warn("failed to build lead assignment notification", zap.Error(err))
		return
	}
	n.About("lead", lead.ID)

	s.dispatcher.Dispatch(ctx, n)
}
