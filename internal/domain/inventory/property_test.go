package inventory

import (
	"testing"

	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProperty(t *testing.T) *Property {
	t.Helper()
	p, err := NewProperty(uuid.New(), "PR-1024", "Two-bedroom apartment, Riverside", PropertyTypeApartment, decimal.NewFromInt(350000))
	require.NoError(t, err)
	return p
}

func TestNewProperty(t *testing.T) {
	p := newTestProperty(t)
	assert.Equal(t, PropertyStatusAvailable, p.Status)
	assert.True(t, p.IsSellable())

	_, err := NewProperty(uuid.New(), "", "title", PropertyTypeHouse, decimal.Zero)
	assert.True(t, shared.IsValidation(err))

	_, err = NewProperty(uuid.New(), "PR-1", "title", PropertyType("castle"), decimal.Zero)
	assert.True(t, shared.IsValidation(err))

	_, err = NewProperty(uuid.New(), "PR-1", "title", PropertyTypeLand, decimal.NewFromInt(-1))
	assert.True(t, shared.IsValidation(err))
}

func TestProperty_ReserveReleaseSold(t *testing.T) {
	p := newTestProperty(t)

	require.NoError(t, p.Reserve())
	assert.Equal(t, PropertyStatusReserved, p.Status)
	assert.True(t, p.IsSellable())
	assert.True(t, shared.IsStateConflict(p.Reserve()))

	require.NoError(t, p.Release())
	assert.Equal(t, PropertyStatusAvailable, p.Status)

	require.NoError(t, p.MarkSold())
	assert.False(t, p.IsSellable())
	assert.True(t, shared.IsStateConflict(p.MarkSold()))
	assert.True(t, shared.IsStateConflict(p.Withdraw()))
}

func TestProperty_Withdraw(t *testing.T) {
	p := newTestProperty(t)
	require.NoError(t, p.Withdraw())
	assert.False(t, p.IsSellable())
}
