package sales

import (
	"fmt"
	"strings"
	"time"

	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleStatus represents the status of a sale
type SaleStatus string

const (
	SaleStatusDraft     SaleStatus = "draft"
	SaleStatusPending   SaleStatus = "pending"
	SaleStatusApproved  SaleStatus = "approved"
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusCancelled SaleStatus = "cancelled"
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusDraft, SaleStatusPending, SaleStatusApproved, SaleStatusCompleted, SaleStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SaleStatus
func (s SaleStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status permits no further transitions
func (s SaleStatus) IsTerminal() bool {
	return s == SaleStatusCompleted || s == SaleStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target
// status. Cancelled is reachable from any non-terminal state.
func (s SaleStatus) CanTransitionTo(target SaleStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if target == SaleStatusCancelled {
		return true
	}
	switch s {
	case SaleStatusDraft, SaleStatusPending:
		return target == SaleStatusApproved
	case SaleStatusApproved:
		return target == SaleStatusCompleted
	}
	return false
}

// Sale represents a real-estate transaction between a client and a
// property unit. It is the aggregate root of the sale pipeline; completed
// and cancelled sales permit no further field mutation except through the
// explicit transitions themselves.
type Sale struct {
	shared.OwnedAggregateRoot
	SaleNumber     string
	ClientID       uuid.UUID
	PropertyID     uuid.UUID
	SalespersonID  *uuid.UUID
	ManagerID      *uuid.UUID
	TotalAmount    decimal.Decimal
	DiscountAmount decimal.Decimal
	FinalAmount    decimal.Decimal // TotalAmount - DiscountAmount
	Status         SaleStatus
	Notes          string
	ApprovedBy     *uuid.UUID
	ApprovedAt     *time.Time
	CompletedAt    *time.Time
	CancelledAt    *time.Time
	CancelReason   string
}

// NewSale creates a new sale in pending status
func NewSale(createdBy uuid.UUID, saleNumber string, clientID, propertyID uuid.UUID, totalAmount, discountAmount decimal.Decimal) (*Sale, error) {
	if saleNumber == "" {
		return nil, shared.NewValidationError("INVALID_SALE_NUMBER", "Sale number cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if propertyID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PROPERTY", "Property ID cannot be empty")
	}
	if err := validateAmounts(totalAmount, discountAmount); err != nil {
		return nil, err
	}

	sale := &Sale{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(createdBy),
		SaleNumber:         saleNumber,
		ClientID:           clientID,
		PropertyID:         propertyID,
		TotalAmount:        totalAmount,
		DiscountAmount:     discountAmount,
		Status:             SaleStatusPending,
	}
	sale.recalculateFinal()

	sale.AddDomainEvent(NewSaleCreatedEvent(sale))

	return sale, nil
}

// SetAmounts updates the total and discount amounts and recomputes the
// final amount
func (s *Sale) SetAmounts(totalAmount, discountAmount decimal.Decimal) error {
	if err := s.guardMutable(); err != nil {
		return err
	}
	if err := validateAmounts(totalAmount, discountAmount); err != nil {
		return err
	}

	s.TotalAmount = totalAmount
	s.DiscountAmount = discountAmount
	s.recalculateFinal()
	s.touch()

	return nil
}

// SetStaff sets the salesperson and manager on the sale. Existence and
// activity of the referenced users is the application layer's concern.
func (s *Sale) SetStaff(salespersonID, managerID *uuid.UUID) error {
	if err := s.guardMutable(); err != nil {
		return err
	}

	s.SalespersonID = salespersonID
	s.ManagerID = managerID
	s.touch()

	return nil
}

// SetNotes sets the sale notes
func (s *Sale) SetNotes(notes string) error {
	if err := s.guardMutable(); err != nil {
		return err
	}

	s.Notes = strings.TrimSpace(notes)
	s.touch()

	return nil
}

// Approve transitions the sale to approved
func (s *Sale) Approve(approverID uuid.UUID) error {
	if !s.Status.CanTransitionTo(SaleStatusApproved) {
		return shared.NewStateConflictError("INVALID_STATE", fmt.Sprintf("Cannot approve sale in %s status", s.Status))
	}
	if approverID == uuid.Nil {
		return shared.NewValidationError("INVALID_APPROVER", "Approver ID cannot be empty")
	}

	now := time.Now()
	oldStatus := s.Status
	s.Status = SaleStatusApproved
	s.ApprovedBy = &approverID
	s.ApprovedAt = &now
	s.touch()

	s.AddDomainEvent(NewSaleStatusChangedEvent(s, oldStatus, SaleStatusApproved))

	return nil
}

// Complete transitions the sale to completed
func (s *Sale) Complete() error {
	if !s.Status.CanTransitionTo(SaleStatusCompleted) {
		return shared.NewStateConflictError("INVALID_STATE", fmt.Sprintf("Cannot complete sale in %s status", s.Status))
	}

	now := time.Now()
	oldStatus := s.Status
	s.Status = SaleStatusCompleted
	s.CompletedAt = &now
	s.touch()

	s.AddDomainEvent(NewSaleStatusChangedEvent(s, oldStatus, SaleStatusCompleted))

	return nil
}

// Cancel transitions the sale to cancelled
func (s *Sale) Cancel(reason string) error {
	if !s.Status.CanTransitionTo(SaleStatusCancelled) {
		return shared.NewStateConflictError("INVALID_STATE", fmt.Sprintf("Cannot cancel sale in %s status", s.Status))
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewValidationError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	oldStatus := s.Status
	s.Status = SaleStatusCancelled
	s.CancelledAt = &now
	s.CancelReason = strings.TrimSpace(reason)
	s.touch()

	s.AddDomainEvent(NewSaleStatusChangedEvent(s, oldStatus, SaleStatusCancelled))

	return nil
}

// Assign moves the sale to a new assignee, reporting whether the assignee
// actually changed.
func (s *Sale) Assign(userID *uuid.UUID) (bool, error) {
	if err := s.guardMutable(); err != nil {
		return false, err
	}
	changed := s.SetAssignee(userID)
	if changed {
		s.IncrementVersion()
	}
	return changed, nil
}

// IsCompleted returns true if the sale is completed
func (s *Sale) IsCompleted() bool {
	return s.Status == SaleStatusCompleted
}

// IsCancelled returns true if the sale is cancelled
func (s *Sale) IsCancelled() bool {
	return s.Status == SaleStatusCancelled
}

// IsTerminal returns true if the sale is completed or cancelled
func (s *Sale) IsTerminal() bool {
	return s.Status.IsTerminal()
}

// ParticipantIDs returns the users granted visibility on this sale in
// addition to the creator and assignee.
func (s *Sale) ParticipantIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, 2)
	if s.SalespersonID != nil {
		ids = append(ids, *s.SalespersonID)
	}
	if s.ManagerID != nil {
		ids = append(ids, *s.ManagerID)
	}
	return ids
}

// NotifyTargets returns the users who receive status-change notifications
// for this sale.
func (s *Sale) NotifyTargets() []uuid.UUID {
	return s.ParticipantIDs()
}

func (s *Sale) guardMutable() error {
	if s.IsTerminal() {
		return shared.NewStateConflictError("SALE_FINALIZED", fmt.Sprintf("Sale in %s status cannot be modified", s.Status))
	}
	return nil
}

func (s *Sale) recalculateFinal() {
	s.FinalAmount = s.TotalAmount.Sub(s.DiscountAmount)
}

func (s *Sale) touch() {
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

func validateAmounts(total, discount decimal.Decimal) error {
	if total.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("INVALID_AMOUNT", "Total amount must be positive")
	}
	if discount.IsNegative() {
		return shared.NewValidationError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if discount.GreaterThan(total) {
		return shared.NewValidationError("INVALID_DISCOUNT", "Discount cannot exceed total amount")
	}
	return nil
}
