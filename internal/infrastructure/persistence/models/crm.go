package models

import (
	"time"

	"github.com/estatecrm/backend/internal/domain/crm"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeadModel is the persistence model for the Lead domain entity.
type LeadModel struct {
	OwnedAggregateModel
	Name           string           `gorm:"type:varchar(200);not null"`
	Email          string           `gorm:"type:varchar(200);index"`
	Phone          string           `gorm:"type:varchar(50)"`
	Source         string           `gorm:"type:varchar(100)"`
	Status         crm.LeadStatus   `gorm:"type:varchar(20);not null;default:'new';index"`
	Score          int              `gorm:"not null;default:0"`
	BudgetMin      *decimal.Decimal `gorm:"type:decimal(15,2)"`
	BudgetMax      *decimal.Decimal `gorm:"type:decimal(15,2)"`
	NextFollowUpAt *time.Time       `gorm:"index"`
	ClientID       *uuid.UUID       `gorm:"type:uuid"`
	Tags           string           `gorm:"type:text"`
	Notes          string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (LeadModel) TableName() string {
	return "leads"
}

// ToDomain converts the persistence model to a domain Lead entity.
func (m *LeadModel) ToDomain() *crm.Lead {
	return &crm.Lead{
		OwnedAggregateRoot: m.ToOwnedAggregateRoot(),
		Name:               m.Name,
		Email:              m.Email,
		Phone:              m.Phone,
		Source:             m.Source,
		Status:             m.Status,
		Score:              m.Score,
		BudgetMin:          m.BudgetMin,
		BudgetMax:          m.BudgetMax,
		NextFollowUpAt:     m.NextFollowUpAt,
		ClientID:           m.ClientID,
		Tags:               m.Tags,
		Notes:              m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Lead entity.
func (m *LeadModel) FromDomain(l *crm.Lead) {
	m.FromOwnedAggregateRoot(l.OwnedAggregateRoot)
	m.Name = l.Name
	m.Email = l.Email
	m.Phone = l.Phone
	m.Source = l.Source
	m.Status = l.Status
	m.Score = l.Score
	m.BudgetMin = l.BudgetMin
	m.BudgetMax = l.BudgetMax
	m.NextFollowUpAt = l.NextFollowUpAt
	m.ClientID = l.ClientID
	m.Tags = l.Tags
	m.Notes = l.Notes
}

// LeadModelFromDomain creates a new persistence model from a domain Lead entity.
func LeadModelFromDomain(l *crm.Lead) *LeadModel {
	m := &LeadModel{}
	m.FromDomain(l)
	return m
}

// ClientModel is the persistence model for the Client domain entity.
type ClientModel struct {
	OwnedAggregateModel
	Name        string           `gorm:"type:varchar(200);not null"`
	Email       string           `gorm:"type:varchar(200);index"`
	Phone       string           `gorm:"type:varchar(50)"`
	Address     string           `gorm:"type:varchar(500)"`
	LeadID      *uuid.UUID       `gorm:"type:uuid;index"`
	Verified    bool             `gorm:"not null;default:false"`
	CreditLimit *decimal.Decimal `gorm:"type:decimal(15,2)"`
	Tags        string           `gorm:"type:text"`
	Notes       string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *crm.Client {
	return &crm.Client{
		OwnedAggregateRoot: m.ToOwnedAggregateRoot(),
		Name:               m.Name,
		Email:              m.Email,
		Phone:              m.Phone,
		Address:            m.Address,
		LeadID:             m.LeadID,
		Verified:           m.Verified,
		CreditLimit:        m.CreditLimit,
		Tags:               m.Tags,
		Notes:              m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Client entity.
func (m *ClientModel) FromDomain(c *crm.Client) {
	m.FromOwnedAggregateRoot(c.OwnedAggregateRoot)
	m.Name = c.Name
	m.Email = c.Email
	m.Phone = c.Phone
	m.Address = c.Address
	m.LeadID = c.LeadID
	m.Verified = c.Verified
	m.CreditLimit = c.CreditLimit
	m.Tags = c.Tags
	m.Notes = c.Notes
}

// ClientModelFromDomain creates a new persistence model from a domain Client entity.
func ClientModelFromDomain(c *crm.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}

// FollowUpModel is the persistence model for the FollowUp domain entity.
type FollowUpModel struct {
	BaseModel
	LeadID      uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`
	ScheduledAt time.Time `gorm:"not null;index"`
	Note        string    `gorm:"type:text"`
	CompletedAt *time.Time
}

// TableName returns the table name for GORM
func (FollowUpModel) TableName() string {
	return "follow_ups"
}

// ToDomain converts the persistence model to a domain FollowUp entity.
func (m *FollowUpModel) ToDomain() *crm.FollowUp {
	return &crm.FollowUp{
		BaseEntity:  m.ToBaseEntity(),
		LeadID:      m.LeadID,
		CreatedBy:   m.CreatedBy,
		ScheduledAt: m.ScheduledAt,
		Note:        m.Note,
		CompletedAt: m.CompletedAt,
	}
}

// FromDomain populates the persistence model from a domain FollowUp entity.
func (m *FollowUpModel) FromDomain(f *crm.FollowUp) {
	m.FromBaseEntity(f.BaseEntity)
	m.LeadID = f.LeadID
	m.CreatedBy = f.CreatedBy
	m.ScheduledAt = f.ScheduledAt
	m.Note = f.Note
	m.CompletedAt = f.CompletedAt
}

// FollowUpModelFromDomain creates a new persistence model from a domain FollowUp entity.
func FollowUpModelFromDomain(f *crm.FollowUp) *FollowUpModel {
	m := &FollowUpModel{}
	m.FromDomain(f)
	return m
}
