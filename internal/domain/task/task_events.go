package task

import (
	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event types for the task context
const (
	EventTaskCreated   = "task.created"
	EventTaskAssigned  = "task.assigned"
	EventTaskCompleted = "task.completed"
)

// TaskCreatedEvent is emitted when a task is created
type TaskCreatedEvent struct {
	shared.BaseDomainEvent
	Title    string       `json:"title"`
	Priority TaskPriority `json:"priority"`
}

// NewTaskCreatedEvent creates a new TaskCreatedEvent
func NewTaskCreatedEvent(t *Task) *TaskCreatedEvent {
	return &TaskCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTaskCreated, "Task", t.ID),
		Title:           t.Title,
		Priority:        t.Priority,
	}
}

// TaskAssignedEvent is emitted when a task changes assignee
type TaskAssignedEvent struct {
	shared.BaseDomainEvent
	Title      string     `json:"title"`
	AssigneeID *uuid.UUID `json:"assignee_id"`
}

// NewTaskAssignedEvent creates a new TaskAssignedEvent
func NewTaskAssignedEvent(t *Task, assigneeID *uuid.UUID) *TaskAssignedEvent {
	return &TaskAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTaskAssigned, "Task", t.ID),
		Title:           t.Title,
		AssigneeID:      assigneeID,
	}
}

// TaskCompletedEvent is emitted when a task is completed
type TaskCompletedEvent struct {
	shared.BaseDomainEvent
	Title string `json:"title"`
}

// NewTaskCompletedEvent creates a new TaskCompletedEvent
func NewTaskCompletedEvent(t *Task) *TaskCompletedEvent {
	return &TaskCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTaskCompleted, "Task", t.ID),
		Title:           t.Title,
	}
}
