package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/estatecrm/backend/internal/domain/access"
	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/estatecrm/backend/internal/domain/task"
	"github.com/estatecrm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTaskRepository implements TaskRepository using GORM
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// FindByID finds a task by its ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	var model models.TaskModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all tasks matching the filter
func (r *GormTaskRepository) FindAll(ctx context.Context, filter shared.Filter) ([]task.Task, error) {
	var taskModels []models.TaskModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.TaskModel{}), filter)

	if err := query.Find(&taskModels).Error; err != nil {
		return nil, err
	}

	tasks := make([]task.Task, len(taskModels))
	for i, model := range taskModels {
		tasks[i] = *model.ToDomain()
	}
	return tasks, nil
}

// FindByAssignee finds tasks assigned to a user
func (r *GormTaskRepository) FindByAssignee(ctx context.Context, assigneeID uuid.UUID, filter shared.Filter) ([]task.Task, error) {
	var taskModels []models.TaskModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.TaskModel{}).
			Where("assignee_id = ?", assigneeID),
		filter,
	)

	if err := query.Find(&taskModels).Error; err != nil {
		return nil, err
	}

	tasks := make([]task.Task, len(taskModels))
	for i, model := range taskModels {
		tasks[i] = *model.ToDomain()
	}
	return tasks, nil
}

// FindByRelated finds tasks linked to an entity
func (r *GormTaskRepository) FindByRelated(ctx context.Context, kind task.RelatedKind, id uuid.UUID, filter shared.Filter) ([]task.Task, error) {
	var taskModels []models.TaskModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.TaskModel{}).
			Where("related_kind = ? AND related_id = ?", string(kind), id),
		filter,
	)

	if err := query.Find(&taskModels).Error; err != nil {
		return nil, err
	}

	tasks := make([]task.Task, len(taskModels))
	for i, model := range taskModels {
		tasks[i] = *model.ToDomain()
	}
	return tasks, nil
}

// FindOverdue returns open tasks whose due date is before the given time
func (r *GormTaskRepository) FindOverdue(ctx context.Context, before time.Time, filter shared.Filter) ([]task.Task, error) {
	var taskModels []models.TaskModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.TaskModel{}).
			Where("due_at IS NOT NULL AND due_at < ? AND status NOT IN ?",
				before, []task.TaskStatus{task.TaskStatusCompleted, task.TaskStatusCancelled}),
		filter,
	)

	if err := query.Find(&taskModels).Error; err != nil {
		return nil, err
	}

	tasks := make([]task.Task, len(taskModels))
	for i, model := range taskModels {
		tasks[i] = *model.ToDomain()
	}
	return tasks, nil
}

// Save creates or updates a task
func (r *GormTaskRepository) Save(ctx context.Context, t *task.Task) error {
	model := models.TaskModelFromDomain(t)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a task with optimistic locking (version check)
// Returns error if the version has changed (concurrent modification)
func (r *GormTaskRepository) SaveWithLock(ctx context.Context, t *task.Task) error {
	model := models.TaskModelFromDomain(t)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", t.ID, t.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewConflictError("OPTIMISTIC_LOCK_ERROR", "The task record has been modified by another transaction")
	}
	return nil
}

// Delete deletes a task
func (r *GormTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.TaskModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts tasks matching the filter
func (r *GormTaskRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.TaskModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts tasks in a given status
func (r *GormTaskRepository) CountByStatus(ctx context.Context, status task.TaskStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TaskModel{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormTaskRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	sortField := ValidateSortField(filter.OrderBy, TaskSortFields, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormTaskRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(title ILIKE ? OR description ILIKE ?)", searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case access.VisibleToKey:
			query = query.Where("(created_by = ? OR assignee_id = ?)", value, value)
		case "status":
			query = query.Where("status = ?", value)
		case "priority":
			query = query.Where("priority = ?", value)
		case "assignee_id":
			query = query.Where("assignee_id = ?", value)
		case "related_kind":
			query = query.Where("related_kind = ?", value)
		}
	}

	return query
}

// Ensure GormTaskRepository implements TaskRepository
var _ task.TaskRepository = (*GormTaskRepository)(nil)
