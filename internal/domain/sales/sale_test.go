package sales

import (
	"testing"

	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSale(t *testing.T) *Sale {
	t.Helper()
	sale, err := NewSale(uuid.New(), "SA-20260801-0001", uuid.New(), uuid.New(),
		decimal.NewFromInt(500000), decimal.NewFromInt(25000))
	require.NoError(t, err)
	return sale
}

func TestNewSale(t *testing.T) {
	sale := newTestSale(t)

	assert.Equal(t, SaleStatusPending, sale.Status)
	assert.True(t, sale.FinalAmount.Equal(decimal.NewFromInt(475000)))
	assert.Len(t, sale.GetDomainEvents(), 1)
}

func TestNewSale_InvalidAmounts(t *testing.T) {
	clientID, propertyID := uuid.New(), uuid.New()

	_, err := NewSale(uuid.New(), "SA-1", clientID, propertyID, decimal.Zero, decimal.Zero)
	assert.True(t, shared.IsValidation(err))

	_, err = NewSale(uuid.New(), "SA-1", clientID, propertyID, decimal.NewFromInt(100), decimal.NewFromInt(-1))
	assert.True(t, shared.IsValidation(err))

	_, err = NewSale(uuid.New(), "SA-1", clientID, propertyID, decimal.NewFromInt(100), decimal.NewFromInt(200))
	assert.True(t, shared.IsValidation(err))
}

func TestSale_SetAmounts_RecomputesFinal(t *testing.T) {
	sale := newTestSale(t)

	require.NoError(t, sale.SetAmounts(decimal.NewFromInt(600000), decimal.NewFromInt(50000)))
	assert.True(t, sale.FinalAmount.Equal(decimal.NewFromInt(550000)))
}

func TestSale_StatusTransitions(t *testing.T) {
	approver := uuid.New()
	sale := newTestSale(t)

	// pending cannot complete directly
	assert.True(t, shared.IsStateConflict(sale.Complete()))

	require.NoError(t, sale.Approve(approver))
	assert.Equal(t, SaleStatusApproved, sale.Status)
	require.NotNil(t, sale.ApprovedBy)
	assert.Equal(t, approver, *sale.ApprovedBy)

	// approved cannot approve again
	assert.True(t, shared.IsStateConflict(sale.Approve(approver)))

	require.NoError(t, sale.Complete())
	assert.Equal(t, SaleStatusCompleted, sale.Status)
	assert.NotNil(t, sale.CompletedAt)
}

func TestSale_CancelFromAnyNonTerminal(t *testing.T) {
	sale := newTestSale(t)
	require.NoError(t, sale.Cancel("client withdrew"))
	assert.Equal(t, SaleStatusCancelled, sale.Status)

	approved := newTestSale(t)
	require.NoError(t, approved.Approve(uuid.New()))
	require.NoError(t, approved.Cancel("financing fell through"))

	completed := newTestSale(t)
	require.NoError(t, completed.Approve(uuid.New()))
	require.NoError(t, completed.Complete())
	assert.True(t, shared.IsStateConflict(completed.Cancel("too late")))
}

func TestSale_Cancel_RequiresReason(t *testing.T) {
	sale := newTestSale(t)
	assert.True(t, shared.IsValidation(sale.Cancel("   ")))
}

func TestSale_TerminalStatesRejectMutation(t *testing.T) {
	sale := newTestSale(t)
	require.NoError(t, sale.Cancel("duplicate entry"))

	assert.True(t, shared.IsStateConflict(sale.SetAmounts(decimal.NewFromInt(1), decimal.Zero)))
	assert.True(t, shared.IsStateConflict(sale.SetNotes("late note")))
	assert.True(t, shared.IsStateConflict(sale.SetStaff(nil, nil)))
	_, err := sale.Assign(nil)
	assert.True(t, shared.IsStateConflict(err))
}

func TestSale_ParticipantIDs(t *testing.T) {
	sale := newTestSale(t)
	assert.Empty(t, sale.ParticipantIDs())

	salesperson, manager := uuid.New(), uuid.New()
	require.NoError(t, sale.SetStaff(&salesperson, &manager))
	assert.ElementsMatch(t, []uuid.UUID{salesperson, manager}, sale.ParticipantIDs())

	require.NoError(t, sale.SetStaff(&salesperson, nil))
	assert.Equal(t, []uuid.UUID{salesperson}, sale.ParticipantIDs())
}
