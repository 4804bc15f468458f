package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/estatecrm/backend/internal/domain/access"
	"github.com/estatecrm/backend/internal/domain/crm"
	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/estatecrm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLeadRepository implements LeadRepository using GORM
type GormLeadRepository struct {
	db *gorm.DB
}

// NewGormLeadRepository creates a new GormLeadRepository
func NewGormLeadRepository(db *gorm.DB) *GormLeadRepository {
	return &GormLeadRepository{db: db}
}

// FindByID finds a lead by its ID
func (r *GormLeadRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Lead, error) {
	var model models.LeadModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all leads matching the filter
func (r *GormLeadRepository) FindAll(ctx context.Context, filter shared.Filter) ([]crm.Lead, error) {
	var leadModels []models.LeadModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.LeadModel{}), filter)

	if err := query.Find(&leadModels).Error; err != nil {
		return nil, err
	}

	leads := make([]crm.Lead, len(leadModels))
	for i, model := range leadModels {
		leads[i] = *model.ToDomain()
	}
	return leads, nil
}

// FindByAssignee finds leads assigned to a user
func (r *GormLeadRepository) FindByAssignee(ctx context.Context, assigneeID uuid.UUID, filter shared.Filter) ([]crm.Lead, error) {
	var leadModels []models.LeadModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.LeadModel{}).
			Where("assignee_id = ?", assigneeID),
		filter,
	)

	if err := query.Find(&leadModels).Error; err != nil {
		return nil, err
	}

	leads := make([]crm.Lead, len(leadModels))
	for i, model := range leadModels {
		leads[i] = *model.ToDomain()
	}
	return leads, nil
}

// FindWithFollowUpDue returns open leads whose next follow-up falls inside
// the half-open window (from, to]. It is used by the reminder sweep and is
// not part of the domain repository interface.
func (r *GormLeadRepository) FindWithFollowUpDue(ctx context.Context, from, to time.Time, limit int) ([]crm.Lead, error) {
	var leadModels []models.LeadModel
	err := r.db.WithContext(ctx).Model(&models.LeadModel{}).
		Where("next_follow_up_at > ? AND next_follow_up_at <= ?", from, to).
		Where("status NOT IN ?", []crm.LeadStatus{crm.LeadStatusConverted, crm.LeadStatusLost}).
		Order("next_follow_up_at asc").
		Limit(limit).
		Find(&leadModels).Error
	if err != nil {
		return nil, err
	}

	leads := make([]crm.Lead, len(leadModels))
	for i, model := range leadModels {
		leads[i] = *model.ToDomain()
	}
	return leads, nil
}

// FindByStatus finds leads in a pipeline stage
func (r *GormLeadRepository) FindByStatus(ctx context.Context, status crm.LeadStatus, filter shared.Filter) ([]crm.Lead, error) {
	var leadModels []models.LeadModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.LeadModel{}).
			Where("status = ?", status),
		filter,
	)

	if err := query.Find(&leadModels).Error; err != nil {
		return nil, err
	}

	leads := make([]crm.Lead, len(leadModels))
	for i, model := range leadModels {
		leads[i] = *model.ToDomain()
	}
	return leads, nil
}

// Save creates or updates a lead
func (r *GormLeadRepository) Save(ctx context.Context, lead *crm.Lead) error {
	model := models.LeadModelFromDomain(lead)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a lead with optimistic locking (version check)
// Returns error if the version has changed (concurrent modification)
func (r *GormLeadRepository) SaveWithLock(ctx context.Context, lead *crm.Lead) error {
	model := models.LeadModelFromDomain(lead)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", lead.ID, lead.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewConflictError("OPTIMISTIC_LOCK_ERROR", "The lead record has been modified by another transaction")
	}
	return nil
}

// Delete deletes a lead
func (r *GormLeadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.LeadModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts leads matching the filter
func (r *GormLeadRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.LeadModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts leads in a pipeline stage
func (r *GormLeadRepository) CountByStatus(ctx context.Context, status crm.LeadStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.LeadModel{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormLeadRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	sortField := ValidateSortField(filter.OrderBy, LeadSortFields, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormLeadRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(name ILIKE ? OR email ILIKE ? OR phone ILIKE ?)",
			searchPattern, searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case access.VisibleToKey:
			query = query.Where("(created_by = ? OR assignee_id = ?)", value, value)
		case "status":
			query = query.Where("status = ?", value)
		case "source":
			query = query.Where("source = ?", value)
		case "assignee_id":
			query = query.Where("assignee_id = ?", value)
		case "min_score":
			query = query.Where("score >= ?", value)
		}
	}

	return query
}

// Ensure GormLeadRepository implements LeadRepository
var _ crm.LeadRepository = (*GormLeadRepository)(nil)
