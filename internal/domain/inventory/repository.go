package inventory

import (
	"context"

	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PropertyRepository defines the persistence contract for properties
type PropertyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Property, error)
	FindByCode(ctx context.Context, code string) (*Property, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Property, error)
	Save(ctx context.Context, p *Property) error
	SaveWithLock(ctx context.Context, p *Property) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
