package notification

import (
	"testing"

	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotification(t *testing.T) {
	recipient := uuid.New()
	n, err := NewNotification(recipient, TypeLeadAssigned, "Lead assigned to you", "Lead Jane Doe was assigned to you")
	require.NoError(t, err)

	assert.Equal(t, recipient, n.RecipientID)
	assert.False(t, n.IsRead())

	_, err = NewNotification(uuid.Nil, TypeLeadAssigned, "title", "")
	assert.True(t, shared.IsValidation(err))

	_, err = NewNotification(recipient, NotificationType("pigeon"), "title", "")
	assert.True(t, shared.IsValidation(err))

	_, err = NewNotification(recipient, TypeTaskAssigned, "  ", "")
	assert.True(t, shared.IsValidation(err))
}

func TestNotification_MarkRead_Idempotent(t *testing.T) {
	n, err := NewNotification(uuid.New(), TypeSaleApproved, "Sale approved", "")
	require.NoError(t, err)

	n.MarkRead()
	require.True(t, n.IsRead())
	first := *n.ReadAt

	n.MarkRead()
	assert.Equal(t, first, *n.ReadAt)
}

func TestNotification_About(t *testing.T) {
	saleID := uuid.New()
	n, err := NewNotification(uuid.New(), TypeSaleCompleted, "Sale completed", "")
	require.NoError(t, err)

	n.About("Sale", saleID)
	assert.Equal(t, "Sale", n.EntityType)
	require.NotNil(t, n.EntityID)
	assert.Equal(t, saleID, *n.EntityID)
}
