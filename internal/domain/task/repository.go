package task

import (
	"context"
	"time"

	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TaskRepository defines the persistence contract for tasks
type TaskRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Task, error)
	FindByAssignee(ctx context.Context, assigneeID uuid.UUID, filter shared.Filter) ([]Task, error)
	FindByRelated(ctx context.Context, kind RelatedKind, id uuid.UUID, filter shared.Filter) ([]Task, error)
	// FindOverdue returns open tasks whose due date is before the given time.
	FindOverdue(ctx context.Context, before time.Time, filter shared.Filter) ([]Task, error)
	Save(ctx context.Context, t *Task) error
	SaveWithLock(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByStatus(ctx context.Context, status TaskStatus) (int64, error)
}
