package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/estatecrm/backend/internal/domain/access"
	"github.com/estatecrm/backend/internal/domain/sales"
	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/estatecrm/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale by its ID
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySaleNumber finds a sale by its human-readable number
func (r *GormSaleRepository) FindBySaleNumber(ctx context.Context, saleNumber string) (*sales.Sale, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).First(&model, "sale_number = ?", strings.ToUpper(saleNumber)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all sales matching the filter
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Sale, error) {
	var saleModels []models.SaleModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.SaleModel{}), filter)

	if err := query.Find(&saleModels).Error; err != nil {
		return nil, err
	}

	result := make([]sales.Sale, len(saleModels))
	for i, model := range saleModels {
		result[i] = *model.ToDomain()
	}
	return result, nil
}

// FindByClient finds the sales a client is party to
func (r *GormSaleRepository) FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]sales.Sale, error) {
	var saleModels []models.SaleModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.SaleModel{}).
			Where("client_id = ?", clientID),
		filter,
	)

	if err := query.Find(&saleModels).Error; err != nil {
		return nil, err
	}

	result := make([]sales.Sale, len(saleModels))
	for i, model := range saleModels {
		result[i] = *model.ToDomain()
	}
	return result, nil
}

// FindByStatus finds sales in a given status
func (r *GormSaleRepository) FindByStatus(ctx context.Context, status sales.SaleStatus, filter shared.Filter) ([]sales.Sale, error) {
	var saleModels []models.SaleModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.SaleModel{}).
			Where("status = ?", status),
		filter,
	)

	if err := query.Find(&saleModels).Error; err != nil {
		return nil, err
	}

	result := make([]sales.Sale, len(saleModels))
	for i, model := range saleModels {
		result[i] = *model.ToDomain()
	}
	return result, nil
}

// Save creates or updates a sale
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	model := models.SaleModelFromDomain(sale)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a sale with optimistic locking (version check)
// Returns error if the version has changed (concurrent modification)
func (r *GormSaleRepository) SaveWithLock(ctx context.Context, sale *sales.Sale) error {
	model := models.SaleModelFromDomain(sale)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", sale.ID, sale.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewConflictError("OPTIMISTIC_LOCK_ERROR", "The sale record has been modified by another transaction")
	}
	return nil
}

// Delete deletes a sale
func (r *GormSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SaleModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts sales matching the filter
func (r *GormSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.SaleModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts sales in a given status
func (r *GormSaleRepository) CountByStatus(ctx context.Context, status sales.SaleStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SaleModel{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateSaleNumber generates a unique sale number.
// Format: SA-YYYY-NNNNN (e.g., SA-2026-00001)
func (r *GormSaleRepository) GenerateSaleNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("SA-%d-", year)

	// Get the highest sale number for this year
	var lastSale models.SaleModel
	err := r.db.WithContext(ctx).
		Model(&models.SaleModel{}).
		Where("sale_number LIKE ?", prefix+"%").
		Order("sale_number DESC").
		First(&lastSale).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastSale.SaleNumber != "" {
		parts := strings.Split(lastSale.SaleNumber, "-")
		if len(parts) == 3 {
			var num int64
			_, parseErr := fmt.Sscanf(parts[2], "%d", &num)
			if parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	saleNumber := fmt.Sprintf("%s%05d", prefix, nextNum)

	// Verify uniqueness; on a collision keep incrementing
	for i := 0; i < 100; i++ {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.SaleModel{}).
			Where("sale_number = ?", saleNumber).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return saleNumber, nil
		}
		nextNum++
		saleNumber = fmt.Sprintf("%s%05d", prefix, nextNum)
	}

	return "", shared.NewConflictError("SALE_NUMBER_EXHAUSTED", "Could not generate a unique sale number")
}

// applyFilter applies filter options to the query
func (r *GormSaleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	sortField := ValidateSortField(filter.OrderBy, SaleSortFields, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSaleRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(sale_number ILIKE ? OR notes ILIKE ?)", searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case access.VisibleToKey:
			// sale participants share visibility with the creator and assignee
			query = query.Where(
				"(created_by = ? OR assignee_id = ? OR salesperson_id = ? OR manager_id = ?)",
				value, value, value, value,
			)
		case "status":
			query = query.Where("status = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "property_id":
			query = query.Where("property_id = ?", value)
		case "salesperson_id":
			query = query.Where("salesperson_id = ?", value)
		}
	}

	return query
}

// Ensure GormSaleRepository implements SaleRepository
var _ sales.SaleRepository = (*GormSaleRepository)(nil)
