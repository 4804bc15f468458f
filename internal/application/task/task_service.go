package task

import (
	"context"
	"fmt"
	"time"

	"github.com/estatecrm/backend/internal/domain/access"
	"github.com/estatecrm/backend/internal/domain/crm"
	"github.com/estatecrm/backend/internal/domain/identity"
	"github.com/estatecrm/backend/internal/domain/notification"
	"github.com/estatecrm/backend/internal/domain/sales"
	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/estatecrm/backend/internal/domain/task"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskService handles task pipeline operations
type TaskService struct {
	taskRepo   task.TaskRepository
	leadRepo   crm.LeadRepository
	clientRepo crm.ClientRepository
	saleRepo   sales.SaleRepository
	userRepo   identity.UserRepository
	policy     *access.Policy
	dispatcher notification.Dispatcher
	logger     *zap.Logger

	eventPublisher shared.EventPublisher
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo task.TaskRepository,
	leadRepo crm.LeadRepository,
	clientRepo crm.ClientRepository,
	saleRepo sales.SaleRepository,
	userRepo identity.UserRepository,
	policy *access.Policy,
	dispatcher notification.Dispatcher,
	logger *zap.Logger,
) *TaskService {
	return &TaskService{
		taskRepo:   taskRepo,
		leadRepo:   leadRepo,
		clientRepo: clientRepo,
		saleRepo:   saleRepo,
		userRepo:   userRepo,
		policy:     policy,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// SetEventPublisher sets the publisher for domain events. It is optional;
// without one, events raised by aggregates are discarded.
func (s *TaskService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *TaskService) publishDomainEvents(ctx context.Context, root shared.AggregateRoot) {
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

// Create creates a new task. A related-entity reference must resolve to an
// existing record; an assignee must be an active user.
func (s *TaskService) Create(ctx context.Context, actor access.Actor, req CreateTaskRequest) (*TaskResponse, error) {
	t, err := task.NewTask(actor.ID, req.Title, task.ParsePriority(req.Priority))
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		t.SetDescription(req.Description)
	}
	if req.DueAt != nil {
		t.SetDueDate(req.DueAt)
	}

	if req.RelatedKind != "" || req.RelatedID != nil {
		if req.RelatedKind == "" || req.RelatedID == nil {
			return nil, shared.NewValidationError("INVALID_RELATED", "Related kind and ID must be provided together")
		}
		related := &task.RelatedEntity{Kind: task.RelatedKind(req.RelatedKind), ID: *req.RelatedID}
		if err := t.SetRelated(related); err != nil {
			return nil, err
		}
		if err := s.requireRelatedExists(ctx, related); err != nil {
			return nil, err
		}
	}

	if req.AssigneeID != nil {
		if err := s.requireActiveUser(ctx, *req.AssigneeID); err != nil {
			return nil, err
		}
		t.Assign(req.AssigneeID)
	}

	if err := s.taskRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, t)

	if req.AssigneeID != nil {
		s.notifyTaskAssigned(ctx, actor, t, req.AssigneeID)
	}

	s.logger.Info("task created",
		zap.String("task_id", t.ID.String()),
		zap.String("actor_id", actor.ID.String()))

	response := ToTaskResponse(t)
	return &response, nil
}

// GetByID retrieves a task visible to the actor
func (s *TaskService) GetByID(ctx context.Context, actor access.Actor, taskID uuid.UUID) (*TaskResponse, error) {
	t, err := s.findVisible(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	response := ToTaskResponse(t)
	return &response, nil
}

// List retrieves tasks visible to the actor with filtering and pagination
func (s *TaskService) List(ctx context.Context, actor access.Actor, filter TaskListFilter) ([]TaskResponse, int64, error) {
	domainFilter := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Priority != "" {
		domainFilter.Filters["priority"] = filter.Priority
	}
	if filter.AssigneeID != "" {
		domainFilter.Filters["assignee_id"] = filter.AssigneeID
	}
	access.ScopeFilter(&domainFilter, actor)

	items, err := s.taskRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.taskRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToTaskResponses(items), total, nil
}

// Update updates a task's fields
func (s *TaskService) Update(ctx context.Context, actor access.Actor, taskID uuid.UUID, req UpdateTaskRequest) (*TaskResponse, error) {
	t, err := s.findWritable(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if err := t.UpdateTitle(*req.Title); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		t.SetDescription(*req.Description)
	}
	if req.Priority != nil {
		t.SetPriority(task.ParsePriority(*req.Priority))
	}
	if req.DueAt != nil {
		t.SetDueDate(req.DueAt)
	}

	if err := s.taskRepo.SaveWithLock(ctx, t); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, t)

	response := ToTaskResponse(t)
	return &response, nil
}

// Assign moves a task to a new assignee. Re-assigning to the current
// assignee is a no-op and produces no notification.
func (s *TaskService) Assign(ctx context.Context, actor access.Actor, taskID uuid.UUID, req AssignTaskRequest) (*TaskResponse, error) {
	t, err := s.findWritable(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	if req.AssigneeID != nil {
		if err := s.requireActiveUser(ctx, *req.AssigneeID); err != nil {
			return nil, err
		}
	}

	if t.Assign(req.AssigneeID) {
		if err := s.taskRepo.SaveWithLock(ctx, t); err != nil {
			return nil, err
		}
		s.publishDomainEvents(ctx, t)
		s.notifyTaskAssigned(ctx, actor, t, req.AssigneeID)
	}

	response := ToTaskResponse(t)
	return &response, nil
}

// BulkAssign assigns several tasks to one user. Failures are reported per
// task and do not roll back the records that succeeded.
func (s *TaskService) BulkAssign(ctx context.Context, actor access.Actor, req BulkAssignTasksRequest) (*BulkAssignResult, error) {
	if err := s.requireActiveUser(ctx, req.AssigneeID); err != nil {
		return nil, err
	}

	result := &BulkAssignResult{
		Assigned: make([]uuid.UUID, 0, len(req.IDs)),
		Failed:   make([]BulkAssignFailure, 0),
	}

	assigneeID := req.AssigneeID
	for _, id := range req.IDs {
		t, err := s.findWritable(ctx, actor, id)
		if err != nil {
			result.Failed = append(result.Failed, BulkAssignFailure{ID: id, Reason: err.Error()})
			continue
		}

		if !t.Assign(&assigneeID) {
			result.Assigned = append(result.Assigned, id)
			continue
		}

		if err := s.taskRepo.SaveWithLock(ctx, t); err != nil {
			result.Failed = append(result.Failed, BulkAssignFailure{ID: id, Reason: err.Error()})
			continue
		}
		s.publishDomainEvents(ctx, t)

		result.Assigned = append(result.Assigned, id)
		s.notifyTaskAssigned(ctx, actor, t, &assigneeID)
	}

	s.logger.Info("bulk task assignment",
		zap.Int("requested", len(req.IDs)),
		zap.Int("assigned", len(result.Assigned)),
		zap.Int("failed", len(result.Failed)))

	return result, nil
}

// Start moves a task to in progress
func (s *TaskService) Start(ctx context.Context, actor access.Actor, taskID uuid.UUID) (*TaskResponse, error) {
	t, err := s.findWritable(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	if err := t.Start(); err != nil {
		return nil, err
	}

	if err := s.taskRepo.SaveWithLock(ctx, t); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, t)

	response := ToTaskResponse(t)
	return &response, nil
}

// Complete marks a task completed and notifies the creator. The creator,
// not the assignee, is the party waiting on the outcome.
func (s *TaskService) Complete(ctx context.Context, actor access.Actor, taskID uuid.UUID, req CompleteTaskRequest) (*TaskResponse, error) {
	t, err := s.findWritable(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	if err := t.Complete(req.Notes); err != nil {
		return nil, err
	}

	if err := s.taskRepo.SaveWithLock(ctx, t); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, t)

	s.notifyTaskCompleted(ctx, actor, t)

	response := ToTaskResponse(t)
	return &response, nil
}

// Cancel marks a task cancelled
func (s *TaskService) Cancel(ctx context.Context, actor access.Actor, taskID uuid.UUID) (*TaskResponse, error) {
	t, err := s.findWritable(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}

	if err := t.Cancel(); err != nil {
		return nil, err
	}

	if err := s.taskRepo.SaveWithLock(ctx, t); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, t)

	response := ToTaskResponse(t)
	return &response, nil
}

// GetOverdue returns open tasks whose due date has passed. This is a pure
// query: it never flips task status as a side effect.
func (s *TaskService) GetOverdue(ctx context.Context, actor access.Actor, filter TaskListFilter) ([]TaskResponse, error) {
	domainFilter := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	access.ScopeFilter(&domainFilter, actor)

	items, err := s.taskRepo.FindOverdue(ctx, time.Now(), domainFilter)
	if err != nil {
		return nil, err
	}

	return ToTaskResponses(items), nil
}

// Delete removes a task
func (s *TaskService) Delete(ctx context.Context, actor access.Actor, taskID uuid.UUID) error {
	t, err := s.findWritable(ctx, actor, taskID)
	if err != nil {
		return err
	}

	return s.taskRepo.Delete(ctx, t.ID)
}

func (s *TaskService) findVisible(ctx context.Context, actor access.Actor, taskID uuid.UUID) (*task.Task, error) {
	t, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.AuthorizeRead(actor, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskService) findWritable(ctx context.Context, actor access.Actor, taskID uuid.UUID) (*task.Task, error) {
	t, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.AuthorizeWrite(actor, t); err != nil {
		return nil, err
	}
	return t, nil
}

// requireRelatedExists verifies the related-entity reference resolves to a
// real record of the tagged kind
func (s *TaskService) requireRelatedExists(ctx context.Context, related *task.RelatedEntity) error {
	var err error
	switch related.Kind {
	case task.RelatedLead:
		_, err = s.leadRepo.FindByID(ctx, related.ID)
	case task.RelatedClient:
		_, err = s.clientRepo.FindByID(ctx, related.ID)
	case task.RelatedSale:
		_, err = s.saleRepo.FindByID(ctx, related.ID)
	default:
		return shared.NewValidationError("INVALID_RELATED_KIND", "Unknown related entity kind")
	}

	if err != nil {
		if shared.IsNotFound(err) {
			return shared.NewDependencyError("RELATED_NOT_FOUND",
				fmt.Sprintf("Related %s does not exist", related.Kind))
		}
		return err
	}
	return nil
}

func (s *TaskService) requireActiveUser(ctx context.Context, userID uuid.UUID) error {
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

// notifyTaskAssigned dispatches a best-effort notification to the new
// assignee. Every real assignee change produces exactly one notification,
// including an actor claiming a task for themselves.
func (s *TaskService) notifyTaskAssigned(ctx context.Context, actor access.Actor, t *task.Task, assigneeID *uuid.UUID) {
	if assigneeID == nil {
		return
	}

	n, err := notification.NewNotification(*assigneeID, notification.TypeTaskAssigned,
		"Task assigned to you",
		fmt.Sprintf("Task %q has been assigned to you", t.Title))
	if err != nil {
		s.logger.Warn("failed to build task assignment notification", zap.Error(err))
		return
	}
	n.About("task", t.ID)

	s.dispatcher.Dispatch(ctx, n)
}

func (s *TaskService) notifyTaskCompleted(ctx context.Context, actor access.Actor, t *task.Task) {
	if t.CreatedBy == nil || *t.CreatedBy == actor.ID {
		return
	}

	n, err := notification.NewNotification(*t.CreatedBy, notification.TypeTaskCompleted,
		"Task completed",
		fmt.Sprintf("Task %q has been completed", t.Title))
	if err != nil {
		s.logger.Warn("failed to build task completion notification", zap.Error(err))
		return
	}
	n.About("task", t.ID)

	s.dispatcher.Dispatch(ctx, n)
}
