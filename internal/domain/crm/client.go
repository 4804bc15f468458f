package crm

import (
	"strings"
	"time"

	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Client represents a customer who can be party to a sale. Clients are
// created directly or by converting a lead; a converted client carries an
// immutable back-reference to the originating lead.
type Client struct {
	shared.OwnedAggregateRoot
	Name        string
	Email       string
	Phone       string
	Address     string
	LeadID      *uuid.UUID // originating lead, immutable once set
	Verified    bool
	CreditLimit *decimal.Decimal
	Tags        string
	Notes       string
}

// NewClient creates a new client with required fields
func NewClient(createdBy uuid.UUID, name string) (*Client, error) {
	if err := validateLeadName(name); err != nil {
		return nil, err
	}

	client := &Client{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(createdBy),
		Name:               strings.TrimSpace(name),
	}

	client.AddDomainEvent(NewClientCreatedEvent(client))

	return client, nil
}

// NewClientFromLead creates a client from a convertible lead, carrying
// over the lead's name, contact fields, assignee, and tags.
func NewClientFromLead(lead *Lead, createdBy uuid.UUID) (*Client, error) {
	if !lead.CanConvert() {
		return nil, shared.NewStateConflictError("LEAD_NOT_CONVERTIBLE", "Lead cannot be converted in its current status")
	}

	client, err := NewClient(createdBy, lead.Name)
	if err != nil {
		return nil, err
	}

	leadID := lead.ID
	client.LeadID = &leadID
	client.Email = lead.Email
	client.Phone = lead.Phone
	client.Tags = lead.Tags
	client.AssigneeID = lead.AssigneeID

	return client, nil
}

// Update updates the client's basic information
func (c *Client) Update(name string) error {
	if err := validateLeadName(name); err != nil {
		return err
	}

	c.Name = strings.TrimSpace(name)
	c.touch()

	return nil
}

// SetContact sets the client's contact details
func (c *Client) SetContact(email, phone, address string) error {
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
	if len(address) > 500 {
		return shared.NewValidationError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}

	c.Email = email
	c.Phone = phone
	c.Address = address
	c.touch()

	return nil
}

// SetCreditLimit sets the client's credit limit
func (c *Client) SetCreditLimit(limit *decimal.Decimal) error {
	if limit != nil && limit.IsNegative() {
		return shared.NewValidationError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}

	c.CreditLimit = limit
	c.touch()

	return nil
}

// SetTags sets the client's tags
func (c *Client) SetTags(tags string) {
	c.Tags = tags
	c.touch()
}

// SetNotes sets the client's notes
func (c *Client) SetNotes(notes string) {
	c.Notes = notes
	c.touch()
}

// Verify marks the client as verified
func (c *Client) Verify() error {
	if c.Verified {
		return shared.NewStateConflictError("ALREADY_VERIFIED", "Client is already verified")
	}

	c.Verified = true
	c.touch()

	c.AddDomainEvent(NewClientVerifiedEvent(c))

	return nil
}

// Unverify clears the client's verification flag
func (c *Client) Unverify() error {
	if !c.Verified {
		return shared.NewStateConflictError("NOT_VERIFIED", "Client is not verified")
	}

	c.Verified = false
	c.touch()

	return nil
}

// Assign moves the client to a new assignee, reporting whether the
// assignee actually changed.
func (c *Client) Assign(userID *uuid.UUID) bool {
	changed := c.SetAssignee(userID)
	if changed {
		c.IncrementVersion()
	}
	return changed
}

func (c *Client) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
