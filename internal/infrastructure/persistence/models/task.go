package models

import (
	"time"

	"github.com/estatecrm/backend/internal/domain/task"
	"github.com/google/uuid"
)

// TaskModel is the persistence model for the Task domain entity. The
// related-entity reference is flattened into a kind column and an ID
// column; both are set or both are null.
type TaskModel struct {
	OwnedAggregateModel
	Title           string            `gorm:"type:varchar(200);not null"`
	Description     string            `gorm:"type:text"`
	Status          task.TaskStatus   `gorm:"type:varchar(20);not null;default:'pending';index"`
	Priority        task.TaskPriority `gorm:"type:varchar(20);not null;default:'medium'"`
	DueAt           *time.Time        `gorm:"index"`
	RelatedKind     *string           `gorm:"type:varchar(20);index:idx_tasks_related"`
	RelatedID       *uuid.UUID        `gorm:"type:uuid;index:idx_tasks_related"`
	CompletedAt     *time.Time
	CompletionNotes string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (TaskModel) TableName() string {
	return "tasks"
}

// ToDomain converts the persistence model to a domain Task entity.
func (m *TaskModel) ToDomain() *task.Task {
	t := &task.Task{
		OwnedAggregateRoot: m.ToOwnedAggregateRoot(),
		Title:              m.Title,
		Description:        m.Description,
		Status:             m.Status,
		Priority:           m.Priority,
		DueAt:              m.DueAt,
		CompletedAt:        m.CompletedAt,
		CompletionNotes:    m.CompletionNotes,
	}
	if m.RelatedKind != nil && m.RelatedID != nil {
		t.Related = &task.RelatedEntity{
			Kind: task.RelatedKind(*m.RelatedKind),
			ID:   *m.RelatedID,
		}
	}
	return t
}

// FromDomain populates the persistence model from a domain Task entity.
func (m *TaskModel) FromDomain(t *task.Task) {
	m.FromOwnedAggregateRoot(t.OwnedAggregateRoot)
	m.Title = t.Title
	m.Description = t.Description
	m.Status = t.Status
	m.Priority = t.Priority
	m.DueAt = t.DueAt
	if t.Related != nil {
		kind := string(t.Related.Kind)
		id := t.Related.ID
		m.RelatedKind = &kind
		m.RelatedID = &id
	} else {
		m.RelatedKind = nil
		m.RelatedID = nil
	}
	m.CompletedAt = t.CompletedAt
	m.CompletionNotes = t.CompletionNotes
}

// TaskModelFromDomain creates a new persistence model from a domain Task entity.
func TaskModelFromDomain(t *task.Task) *TaskModel {
	m := &TaskModel{}
	m.FromDomain(t)
	return m
}
