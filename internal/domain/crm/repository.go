package crm

import (
	"context"

	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LeadRepository defines the persistence contract for leads
type LeadRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Lead, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Lead, error)
	FindByAssignee(ctx context.Context, assigneeID uuid.UUID, filter shared.Filter) ([]Lead, error)
	FindByStatus(ctx context.Context, status LeadStatus, filter shared.Filter) ([]Lead, error)
	Save(ctx context.Context, lead *Lead) error
	SaveWithLock(ctx context.Context, lead *Lead) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByStatus(ctx context.Context, status LeadStatus) (int64, error)
}

// ClientRepository defines the persistence contract for clients
type ClientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	FindByLeadID(ctx context.Context, leadID uuid.UUID) (*Client, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Client, error)
	Save(ctx context.Context, client *Client) error
	SaveWithLock(ctx context.Context, client *Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// FollowUpRepository defines the persistence contract for follow-ups
type FollowUpRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*FollowUp, error)
	FindByLead(ctx context.Context, leadID uuid.UUID, filter shared.Filter) ([]FollowUp, error)
	Save(ctx context.Context, followUp *FollowUp) error
	Delete(ctx context.Context, id uuid.UUID) error
}
