package sales

import (
	"context"

	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SaleRepository defines the persistence contract for sales
type SaleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindBySaleNumber(ctx context.Context, saleNumber string) (*Sale, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, error)
	FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]Sale, error)
	FindByStatus(ctx context.Context, status SaleStatus, filter shared.Filter) ([]Sale, error)
	Save(ctx context.Context, sale *Sale) error
	SaveWithLock(ctx context.Context, sale *Sale) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByStatus(ctx context.Context, status SaleStatus) (int64, error)
	// GenerateSaleNumber produces the next human-readable sale number.
	// Uniqueness is the only invariant; the format is a generation concern.
	GenerateSaleNumber(ctx context.Context) (string, error)
}
