package inventory

import (
	"context"
	"errors"

	"github.com/estatecrm/backend/internal/domain/inventory"
	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PropertyService handles property listing operations. Property state
// transitions tied to sales (reserve, mark sold, release) are driven by the
// sale service; this service covers the listing lifecycle.
type PropertyService struct {
	propertyRepo inventory.PropertyRepository
	logger       *zap.Logger
}

// NewPropertyService creates a new PropertyService
func NewPropertyService(propertyRepo inventory.PropertyRepository, logger *zap.Logger) *PropertyService {
	return &PropertyService{
		propertyRepo: propertyRepo,
		logger:       logger,
	}
}

// Create lists a new property
func (s *PropertyService) Create(ctx context.Context, actorID uuid.UUID, req CreatePropertyRequest) (*PropertyResponse, error) {
	property, err := inventory.NewProperty(actorID, req.Code, req.Title, inventory.PropertyType(req.Type), req.ListPrice)
	if err != nil {
		return nil, err
	}

	existing, err := s.propertyRepo.FindByCode(ctx, property.Code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewConflictError("CODE_EXISTS", "A property with this code already exists")
	}

	property.Address = req.Address
	property.City = req.City
	property.AreaSqm = req.AreaSqm
	property.Description = req.Description

	if err := s.propertyRepo.Save(ctx, property); err != nil {
		return nil, err
	}

	s.logger.Info("property listed",
		zap.String("property_id", property.ID.String()),
		zap.String("code", property.Code),
		zap.String("actor_id", actorID.String()))

	response := ToPropertyResponse(property)
	return &response, nil
}

// GetByID retrieves a property by id
func (s *PropertyService) GetByID(ctx context.Context, propertyID uuid.UUID) (*PropertyResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	response := ToPropertyResponse(property)
	return &response, nil
}

// GetByCode retrieves a property by its listing code
func (s *PropertyService) GetByCode(ctx context.Context, code string) (*PropertyResponse, error) {
	property, err := s.propertyRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	response := ToPropertyResponse(property)
	return &response, nil
}

// List retrieves properties with filtering and pagination
func (s *PropertyService) List(ctx context.Context, filter PropertyListFilter) ([]PropertyResponse, int64, error) {
	domainFilter := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.City != "" {
		domainFilter.Filters["city"] = filter.City
	}
	if filter.MinPrice != "" {
		domainFilter.Filters["min_price"] = filter.MinPrice
	}
	if filter.MaxPrice != "" {
		domainFilter.Filters["max_price"] = filter.MaxPrice
	}

	properties, err := s.propertyRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.propertyRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PropertyResponse, len(properties))
	for i := range properties {
		responses[i] = ToPropertyResponse(&properties[i])
	}
	return responses, total, nil
}

// Update updates a property's listing details
func (s *PropertyService) Update(ctx context.Context, propertyID uuid.UUID, req UpdatePropertyRequest) (*PropertyResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		property.Title = *req.Title
	}
	if req.ListPrice != nil {
		if err := property.SetListPrice(*req.ListPrice); err != nil {
			return nil, err
		}
	}
	if req.Address != nil {
		property.Address = *req.Address
	}
	if req.City != nil {
		property.City = *req.City
	}
	if req.AreaSqm != nil {
		property.AreaSqm = req.AreaSqm
	}
	if req.Description != nil {
		property.Description = *req.Description
	}

	if err := s.propertyRepo.SaveWithLock(ctx, property); err != nil {
		return nil, err
	}

	response := ToPropertyResponse(property)
	return &response, nil
}

// Withdraw removes a property from the market
func (s *PropertyService) Withdraw(ctx context.Context, propertyID uuid.UUID) (*PropertyResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	if err := property.Withdraw(); err != nil {
		return nil, err
	}

	if err := s.propertyRepo.SaveWithLock(ctx, property); err != nil {
		return nil, err
	}

	s.logger.Info("property withdrawn", zap.String("property_id", property.ID.String()))

	response := ToPropertyResponse(property)
	return &response, nil
}

// Relist returns a withdrawn property to the market as available
func (s *PropertyService) Relist(ctx context.Context, propertyID uuid.UUID) (*PropertyResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	if err := property.Relist(); err != nil {
		return nil, err
	}

	if err := s.propertyRepo.SaveWithLock(ctx, property); err != nil {
		return nil, err
	}

	s.logger.Info("property relisted", zap.String("property_id", property.ID.String()))

	response := ToPropertyResponse(property)
	return &response, nil
}
