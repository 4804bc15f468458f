package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TaskStatus represents the status of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
	TaskStatusOverdue    TaskStatus = "overdue"
)

// IsValid checks if the status is a valid TaskStatus
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled, TaskStatusOverdue:
		return true
	}
	return false
}

// IsTerminal reports whether the status permits no further work
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

// String returns the string representation of TaskStatus
func (s TaskStatus) String() string {
	return string(s)
}

// TaskPriority represents how urgent a task is
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// IsValid checks if the priority is a valid TaskPriority
func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ParsePriority maps a priority string to a TaskPriority. Absent or
// unrecognized values map to medium; callers never see a rejection for a
// bad priority string.
func ParsePriority(raw string) TaskPriority {
	p := TaskPriority(strings.ToLower(strings.TrimSpace(raw)))
	if !p.IsValid() {
		return PriorityMedium
	}
	return p
}

// RelatedKind tags the entity type a task is linked to. Consumers switch
// over the known kinds; an unknown kind is a visible gap, not a silent
// pass-through.
type RelatedKind string

const (
	RelatedLead   RelatedKind = "lead"
	RelatedClient RelatedKind = "client"
	RelatedSale   RelatedKind = "sale"
)

// IsValid checks if the kind is one of the known related-entity kinds
func (k RelatedKind) IsValid() bool {
	switch k {
	case RelatedLead, RelatedClient, RelatedSale:
		return true
	}
	return false
}

// RelatedEntity is a tagged reference to the record a task is about.
// There is no referential integrity against the target.
type RelatedEntity struct {
	Kind RelatedKind
	ID   uuid.UUID
}

// Task represents a unit of work assigned to a staff member. It is the
// aggregate root of the task pipeline.
type Task struct {
	shared.OwnedAggregateRoot
	Title           string
	Description     string
	Status          TaskStatus
	Priority        TaskPriority
	DueAt           *time.Time
	Related         *RelatedEntity
	CompletedAt     *time.Time
	CompletionNotes string
}

// NewTask creates a new pending task
func NewTask(createdBy uuid.UUID, title string, priority TaskPriority) (*Task, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if !priority.IsValid() {
		priority = PriorityMedium
	}

	task := &Task{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(createdBy),
		Title:              strings.TrimSpace(title),
		Status:             TaskStatusPending,
		Priority:           priority,
	}

	task.AddDomainEvent(NewTaskCreatedEvent(task))

	return task, nil
}

// UpdateTitle updates the task title
func (t *Task) UpdateTitle(title string) error {
	if err := t.guardOpen(); err != nil {
		return err
	}
	if err := validateTitle(title); err != nil {
		return err
	}

	t.Title = strings.TrimSpace(title)
	t.touch()

	return nil
}

// SetDescription sets the task description
func (t *Task) SetDescription(description string) {
	t.Description = description
	t.touch()
}

// SetPriority sets the task priority; invalid values fall back to medium
func (t *Task) SetPriority(priority TaskPriority) {
	if !priority.IsValid() {
		priority = PriorityMedium
	}
	t.Priority = priority
	t.touch()
}

// SetDueDate sets or clears the task due date
func (t *Task) SetDueDate(dueAt *time.Time) {
	t.DueAt = dueAt
	t.touch()
}

// SetRelated links the task to another entity
func (t *Task) SetRelated(related *RelatedEntity) error {
	if related != nil {
		if !related.Kind.IsValid() {
			return shared.NewValidationError("INVALID_RELATED_KIND", "Unknown related entity kind")
		}
		if related.ID == uuid.Nil {
			return shared.NewValidationError("INVALID_RELATED_ID", "Related entity ID cannot be empty")
		}
	}

	t.Related = related
	t.touch()

	return nil
}

// Start moves the task from pending to in progress
func (t *Task) Start() error {
	if t.Status != TaskStatusPending && t.Status != TaskStatusOverdue {
		return shared.NewStateConflictError("INVALID_STATE", fmt.Sprintf("Cannot start task in %s status", t.Status))
	}

	t.Status = TaskStatusInProgress
	t.touch()

	return nil
}

// Complete marks the task completed, recording notes and the completion
// timestamp
func (t *Task) Complete(notes string) error {
	if t.Status.IsTerminal() {
		return shared.NewStateConflictError("INVALID_STATE", fmt.Sprintf("Cannot complete task in %s status", t.Status))
	}

	now := time.Now()
	t.Status = TaskStatusCompleted
	t.CompletedAt = &now
	t.CompletionNotes = strings.TrimSpace(notes)
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTaskCompletedEvent(t))

	return nil
}

// Cancel marks the task cancelled
func (t *Task) Cancel() error {
	if t.Status.IsTerminal() {
		return shared.NewStateConflictError("INVALID_STATE", fmt.Sprintf("Cannot cancel task in %s status", t.Status))
	}

	t.Status = TaskStatusCancelled
	t.touch()

	return nil
}

// MarkOverdue flags a task whose due date has passed
func (t *Task) MarkOverdue() error {
	if t.Status.IsTerminal() || t.Status == TaskStatusOverdue {
		return shared.NewStateConflictError("INVALID_STATE", fmt.Sprintf("Cannot mark task overdue in %s status", t.Status))
	}

	t.Status = TaskStatusOverdue
	t.touch()

	return nil
}

// Assign moves the task to a new assignee, reporting whether the assignee
// actually changed.
func (t *Task) Assign(userID *uuid.UUID) bool {
	changed := t.SetAssignee(userID)
	if changed {
		t.IncrementVersion()
		t.AddDomainEvent(NewTaskAssignedEvent(t, userID))
	}
	return changed
}

// IsOverdue reports whether the task's due date has passed and the task
// is still open
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueAt != nil && t.DueAt.Before(now) && !t.Status.IsTerminal()
}

func (t *Task) guardOpen() error {
	if t.Status.IsTerminal() {
		return shared.NewStateConflictError("TASK_CLOSED", fmt.Sprintf("Task in %s status cannot be modified", t.Status))
	}
	return nil
}

func (t *Task) touch() {
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

func validateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewValidationError("INVALID_TITLE", "Task title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewValidationError("INVALID_TITLE", "Task title cannot exceed 200 characters")
	}
	return nil
}
