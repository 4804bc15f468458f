package task

import (
	"time"

	"github.com/estatecrm/backend/internal/domain/task"
	"github.com/google/uuid"
)

// CreateTaskRequest represents a request to create a new task. An absent
// or unrecognized priority silently defaults to medium.
type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=200"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueAt       *time.Time `json:"due_at"`
	RelatedKind string     `json:"related_kind" binding:"omitempty,oneof=lead client sale"`
	RelatedID   *uuid.UUID `json:"related_id"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
}

// UpdateTaskRequest represents a request to update a task
type UpdateTaskRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	DueAt       *time.Time `json:"due_at"`
}

// CompleteTaskRequest represents a request to complete a task
type CompleteTaskRequest struct {
	Notes string `json:"notes" binding:"max=1000"`
}

// AssignTaskRequest represents a request to assign a task to a user
type AssignTaskRequest struct {
	AssigneeID *uuid.UUID `json:"assignee_id"`
}

// BulkAssignTasksRequest represents a request to assign several tasks to
// one user in a single call
type BulkAssignTasksRequest struct {
	IDs        []uuid.UUID `json:"ids" binding:"required,min=1,max=100"`
	AssigneeID uuid.UUID   `json:"assignee_id" binding:"required"`
}

// BulkAssignFailure records why one task in a bulk assignment failed
type BulkAssignFailure struct {
	ID     uuid.UUID `json:"id"`
	Reason string    `json:"reason"`
}

// BulkAssignResult reports the outcome of a bulk assignment
type BulkAssignResult struct {
	Assigned []uuid.UUID         `json:"assigned"`
	Failed   []BulkAssignFailure `json:"failed"`
}

// TaskResponse represents a task in API responses
type TaskResponse struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Status          string     `json:"status"`
	Priority        string     `json:"priority"`
	DueAt           *time.Time `json:"due_at"`
	RelatedKind     string     `json:"related_kind,omitempty"`
	RelatedID       *uuid.UUID `json:"related_id,omitempty"`
	CompletedAt     *time.Time `json:"completed_at"`
	CompletionNotes string     `json:"completion_notes,omitempty"`
	CreatedBy       *uuid.UUID `json:"created_by"`
	AssigneeID      *uuid.UUID `json:"assignee_id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Version         int        `json:"version"`
}

// TaskListFilter represents filter options for the task list
type TaskListFilter struct {
	Search     string `form:"search"`
	Status     string `form:"status" binding:"omitempty,oneof=pending in_progress completed cancelled overdue"`
	Priority   string `form:"priority" binding:"omitempty,oneof=low medium high urgent"`
	AssigneeID string `form:"assignee_id"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToTaskResponse converts a domain Task to TaskResponse
func ToTaskResponse(t *task.Task) TaskResponse {
	resp := TaskResponse{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		Status:          string(t.Status),
		Priority:        string(t.Priority),
		DueAt:           t.DueAt,
		CompletedAt:     t.CompletedAt,
		CompletionNotes: t.CompletionNotes,
		CreatedBy:       t.CreatedBy,
		AssigneeID:      t.AssigneeID,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
		Version:         t.Version,
	}
	if t.Related != nil {
		resp.RelatedKind = string(t.Related.Kind)
		relatedID := t.Related.ID
		resp.RelatedID = &relatedID
	}
	return resp
}

// ToTaskResponses converts a slice of domain Tasks to responses
func ToTaskResponses(items []task.Task) []TaskResponse {
	responses := make([]TaskResponse, len(items))
	for i := range items {
		responses[i] = ToTaskResponse(&items[i])
	}
	return responses
}
