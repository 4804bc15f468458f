package persistence

import (
	"context"
	"errors"

	"github.com/estatecrm/backend/internal/domain/crm"
	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/estatecrm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFollowUpRepository implements FollowUpRepository using GORM
type GormFollowUpRepository struct {
	db *gorm.DB
}

// NewGormFollowUpRepository creates a new GormFollowUpRepository
func NewGormFollowUpRepository(db *gorm.DB) *GormFollowUpRepository {
	return &GormFollowUpRepository{db: db}
}

// FindByID finds a follow-up by its ID
func (r *GormFollowUpRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.FollowUp, error) {
	var model models.FollowUpModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByLead finds the follow-ups scheduled for a lead
func (r *GormFollowUpRepository) FindByLead(ctx context.Context, leadID uuid.UUID, filter shared.Filter) ([]crm.FollowUp, error) {
	var followUpModels []models.FollowUpModel
	query := r.db.WithContext(ctx).Model(&models.FollowUpModel{}).Where("lead_id = ?", leadID)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	sortField := ValidateSortField(filter.OrderBy, FollowUpSortFields, "scheduled_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&followUpModels).Error; err != nil {
		return nil, err
	}

	followUps := make([]crm.FollowUp, len(followUpModels))
	for i, model := range followUpModels {
		followUps[i] = *model.ToDomain()
	}
	return followUps, nil
}

// Save creates or updates a follow-up
func (r *GormFollowUpRepository) Save(ctx context.Context, followUp *crm.FollowUp) error {
	model := models.FollowUpModelFromDomain(followUp)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a follow-up
func (r *GormFollowUpRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.FollowUpModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormFollowUpRepository implements FollowUpRepository
var _ crm.FollowUpRepository = (*GormFollowUpRepository)(nil)
