package crm

import (
	"regexp"
	"strings"
	"time"

	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeadStatus represents the stage of a lead in the sales pipeline
type LeadStatus string

const (
	LeadStatusNew         LeadStatus = "new"
	LeadStatusContacted   LeadStatus = "contacted"
	LeadStatusQualified   LeadStatus = "qualified"
	LeadStatusProposal    LeadStatus = "proposal"
	LeadStatusNegotiation LeadStatus = "negotiation"
	LeadStatusConverted   LeadStatus = "converted"
	LeadStatusLost        LeadStatus = "lost"
	LeadStatusInactive    LeadStatus = "inactive"
)

// IsValid checks if the status is a valid LeadStatus
func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusProposal,
		LeadStatusNegotiation, LeadStatusConverted, LeadStatusLost, LeadStatusInactive:
		return true
	}
	return false
}

// String returns the string representation of LeadStatus
func (s LeadStatus) String() string {
	return string(s)
}

// Score bounds for lead qualification
const (
	MinLeadScore = 0
	MaxLeadScore = 100
)

// Lead represents a prospective customer being qualified for a
// real-estate purchase. It is the aggregate root of the lead pipeline.
// Once converted it is terminal: no further mutation through the normal
// update path.
type Lead struct {
	shared.OwnedAggregateRoot
	Name           string
	Email          string
	Phone          string
	Source         string
	Status         LeadStatus
	Score          int
	BudgetMin      *decimal.Decimal
	BudgetMax      *decimal.Decimal
	NextFollowUpAt *time.Time
	ClientID       *uuid.UUID // set on conversion, back-reference to the created client
	Tags           string
	Notes          string
}

// NewLead creates a new lead. Status is always forced to new and score to
// zero regardless of what the caller asked for.
func NewLead(createdBy uuid.UUID, name string) (*Lead, error) {
	if err := validateLeadName(name); err != nil {
		return nil, err
	}

	lead := &Lead{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(createdBy),
		Name:               strings.TrimSpace(name),
		Status:             LeadStatusNew,
		Score:              MinLeadScore,
	}

	lead.AddDomainEvent(NewLeadCreatedEvent(lead))

	return lead, nil
}

// UpdateName updates the lead's name
func (l *Lead) UpdateName(name string) error {
	if err := validateLeadName(name); err != nil {
		return err
	}

	l.Name = strings.TrimSpace(name)
	l.touch()

	return nil
}

// SetContact sets the lead's contact details. Empty values clear the field.
func (l *Lead) SetContact(email, phone string) error {
	if email != "" {
		if err := validateLeadEmail(email); err != nil {
			return err
		}
		email = strings.ToLower(strings.TrimSpace(email))
	}
	if phone != "" {
		if err := validateLeadPhone(phone); err != nil {
			return err
		}
	}

	l.Email = email
	l.Phone = phone
	l.touch()

	return nil
}

// SetBudget sets the lead's budget range. When both bounds are present,
// min must not exceed max.
func (l *Lead) SetBudget(min, max *decimal.Decimal) error {
	if min != nil && min.IsNegative() {
		return shared.NewValidationError("INVALID_BUDGET", "Budget cannot be negative")
	}
	if max != nil && max.IsNegative() {
		return shared.NewValidationError("INVALID_BUDGET", "Budget cannot be negative")
	}
	if min != nil && max != nil && min.GreaterThan(*max) {
		return shared.NewValidationError("INVALID_BUDGET_RANGE", "Minimum budget cannot exceed maximum budget")
	}

	l.BudgetMin = min
	l.BudgetMax = max
	l.touch()

	return nil
}

// SetSource sets where the lead came from (referral, portal, walk-in)
func (l *Lead) SetSource(source string) {
	l.Source = strings.TrimSpace(source)
	l.touch()
}

// SetTags sets the lead's tags
func (l *Lead) SetTags(tags string) {
	l.Tags = tags
	l.touch()
}

// SetNotes sets the lead's notes
func (l *Lead) SetNotes(notes string) {
	l.Notes = notes
	l.touch()
}

// UpdateScore sets the qualification score, bounded to [0, 100]
func (l *Lead) UpdateScore(score int) error {
	if score < MinLeadScore || score > MaxLeadScore {
		return shared.NewValidationError("INVALID_SCORE", "Score must be between 0 and 100")
	}

	l.Score = score
	l.touch()

	return nil
}

// ChangeStatus moves the lead to a new pipeline stage. Converted is set
// only through Convert, never directly.
func (l *Lead) ChangeStatus(status LeadStatus) error {
	if !status.IsValid() {
		return shared.NewValidationError("INVALID_STATUS", "Unknown lead status")
	}
	if status == LeadStatusConverted {
		return shared.NewValidationError("INVALID_STATUS", "Converted status is set by conversion, not by update")
	}
	if l.IsConverted() {
		return shared.NewStateConflictError("LEAD_CONVERTED", "Converted leads cannot change status")
	}
	if l.Status == status {
		return nil
	}

	oldStatus := l.Status
	l.Status = status
	l.touch()

	l.AddDomainEvent(NewLeadStatusChangedEvent(l, oldStatus, status))

	return nil
}

// CanConvert reports whether the lead is eligible for conversion to a
// client: converted and lost leads are not.
func (l *Lead) CanConvert() bool {
	return l.Status != LeadStatusConverted && l.Status != LeadStatusLost
}

// Convert marks the lead converted and records the created client.
func (l *Lead) Convert(clientID uuid.UUID) error {
	if !l.CanConvert() {
		return shared.NewStateConflictError("LEAD_NOT_CONVERTIBLE", "Lead cannot be converted in its current status")
	}
	if clientID == uuid.Nil {
		return shared.NewValidationError("INVALID_CLIENT", "Client ID cannot be empty")
	}

	oldStatus := l.Status
	l.Status = LeadStatusConverted
	l.ClientID = &clientID
	l.touch()

	l.AddDomainEvent(NewLeadConvertedEvent(l, oldStatus, clientID))

	return nil
}

// MarkLost marks the lead lost
func (l *Lead) MarkLost() error {
	return l.ChangeStatus(LeadStatusLost)
}

// ScheduleFollowUp sets the lead's next follow-up timestamp
func (l *Lead) ScheduleFollowUp(at time.Time) error {
	if l.IsConverted() {
		return shared.NewStateConflictError("LEAD_CONVERTED", "Converted leads cannot be scheduled for follow-up")
	}

	l.NextFollowUpAt = &at
	l.touch()

	return nil
}

// Assign moves the lead to a new assignee, reporting whether the assignee
// actually changed.
func (l *Lead) Assign(userID *uuid.UUID) bool {
	changed := l.SetAssignee(userID)
	if changed {
		l.IncrementVersion()
		l.AddDomainEvent(NewLeadAssignedEvent(l, userID))
	}
	return changed
}

// IsConverted returns true if the lead has been converted to a client
func (l *Lead) IsConverted() bool {
	return l.Status == LeadStatusConverted
}

// IsLost returns true if the lead is lost
func (l *Lead) IsLost() bool {
	return l.Status == LeadStatusLost
}

func (l *Lead) touch() {
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// Validation functions

func validateLeadName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("INVALID_NAME", "Lead name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("INVALID_NAME", "Lead name cannot exceed 200 characters")
	}
	return nil
}

var leadEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateLeadEmail(email string) error {
	if len(email) > 200 {
		return shared.NewValidationError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !leadEmailRegex.MatchString(strings.TrimSpace(email)) {
		return shared.NewValidationError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

var leadPhoneRegex = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)

func validateLeadPhone(phone string) error {
	if len(phone) > 50 {
		return shared.NewValidationError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	if !leadPhoneRegex.MatchString(phone) {
		return shared.NewValidationError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}
