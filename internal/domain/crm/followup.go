package crm

import (
	"strings"
	"time"

	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// FollowUp is a scheduled contact with a lead. It is created together
// with the update of the lead's next-follow-up timestamp; the pair either
// succeeds as a unit or the follow-up is not considered scheduled.
type FollowUp struct {
	shared.BaseEntity
	LeadID      uuid.UUID
	CreatedBy   uuid.UUID
	ScheduledAt time.Time
	Note        string
	CompletedAt *time.Time
}

// NewFollowUp creates a follow-up for a lead
func NewFollowUp(leadID, createdBy uuid.UUID, scheduledAt time.Time, note string) (*FollowUp, error) {
	if leadID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_LEAD", "Lead ID cannot be empty")
	}
	if scheduledAt.IsZero() {
		return nil, shared.NewValidationError("INVALID_SCHEDULE", "Follow-up time is required")
	}
	if len(note) > 1000 {
		return nil, shared.NewValidationError("INVALID_NOTE", "Note cannot exceed 1000 characters")
	}

	return &FollowUp{
		BaseEntity:  shared.NewBaseEntity(),
		LeadID:      leadID,
		CreatedBy:   createdBy,
		ScheduledAt: scheduledAt,
		Note:        strings.TrimSpace(note),
	}, nil
}

// Complete marks the follow-up as done
func (f *FollowUp) Complete() error {
	if f.CompletedAt != nil {
		return shared.NewStateConflictError("ALREADY_COMPLETED", "Follow-up is already completed")
	}

	now := time.Now()
	f.CompletedAt = &now
	f.UpdatedAt = now

	return nil
}
