package crm

import (
	"context"
	"testing"

	"github.com/estatecrm/backend/internal/domain/access"
	"github.com/estatecrm/backend/internal/domain/crm"
	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type clientServiceFixture struct {
	service    *ClientService
	clientRepo *MockClientRepository
	userRepo   *MockUserRepository
}

func newClientServiceFixture() *clientServiceFixture {
	f := &clientServiceFixture{
		clientRepo: new(MockClientRepository),
		userRepo:   new(MockUserRepository),
	}
	f.service = NewClientService(f.clientRepo, f.userRepo, access.NewPolicy(), zap.NewNop())
	return f
}

func TestClientService_Create(t *testing.T) {
	f := newClientServiceFixture()
	actor := agentActor()

	f.clientRepo.On("Save", mock.Anything, mock.AnythingOfType("*crm.Client")).Return(nil)

	resp, err := f.service.Create(context.Background(), actor, CreateClientRequest{
		Name:  "Robert Fox",
		Email: "robert@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "Robert Fox", resp.Name)
	assert.False(t, resp.Verified)
	assert.Nil(t, resp.LeadID)
}

func TestClientService_Verify(t *testing.T) {
	f := newClientServiceFixture()
	actor := agentActor()

	client, err := crm.NewClient(actor.ID, "Robert Fox")
	require.NoError(t, err)

	f.clientRepo.On("FindByID", mock.Anything, client.ID).Return(client, nil)
	f.clientRepo.On("SaveWithLock", mock.Anything, client).Return(nil)

	resp, err := f.service.Verify(context.Background(), actor, client.ID)
	require.NoError(t, err)
	assert.True(t, resp.Verified)

	_, err = f.service.Verify(context.Background(), actor, client.ID)
	assert.True(t, shared.IsStateConflict(err))
}

func TestClientService_Unverify(t *testing.T) {
	f := newClientServiceFixture()
	actor := agentActor()

	client, err := crm.NewClient(actor.ID, "Robert Fox")
	require.NoError(t, err)

	f.clientRepo.On("FindByID", mock.Anything, client.ID).Return(client, nil)
	f.clientRepo.On("SaveWithLock", mock.Anything, client).Return(nil)

	// unverifying an unverified client is a state conflict
	_, err = f.service.Unverify(context.Background(), actor, client.ID)
	assert.True(t, shared.IsStateConflict(err))

	_, err = f.service.Verify(context.Background(), actor, client.ID)
	require.NoError(t, err)

	resp, err := f.service.Unverify(context.Background(), actor, client.ID)
	require.NoError(t, err)
	assert.False(t, resp.Verified)
}

func TestClientService_SetCreditLimit_NegativeRejected(t *testing.T) {
	f := newClientServiceFixture()
	actor := agentActor()

	client, err := crm.NewClient(actor.ID, "Robert Fox")
	require.NoError(t, err)
	f.clientRepo.On("FindByID", mock.Anything, client.ID).Return(client, nil)

	limit := decimal.NewFromInt(-100)
	_, err = f.service.SetCreditLimit(context.Background(), actor, client.ID, SetCreditLimitRequest{CreditLimit: &limit})

	assert.True(t, shared.IsValidation(err))
	f.clientRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestClientService_Update_DeniedForUnrelatedAgent(t *testing.T) {
	f := newClientServiceFixture()

	client, err := crm.NewClient(uuid.New(), "Robert Fox")
	require.NoError(t, err)
	f.clientRepo.On("FindByID", mock.Anything, client.ID).Return(client, nil)

	name := "Renamed"
	_, err = f.service.Update(context.Background(), agentActor(), client.ID, UpdateClientRequest{Name: &name})

	assert.True(t, shared.IsAuthorization(err))
}

func TestClientService_Assign_MissingAssigneeRejected(t *testing.T) {
	f := newClientServiceFixture()
	actor := agentActor()
	assigneeID := uuid.New()

	client, err := crm.NewClient(actor.ID, "Robert Fox")
	require.NoError(t, err)

	f.clientRepo.On("FindByID", mock.Anything, client.ID).Return(client, nil)
	f.userRepo.On("FindByID", mock.Anything, assigneeID).Return(nil, shared.NewNotFoundError("USER_NOT_FOUND", "User not found"))

	_, err = f.service.Assign(context.Background(), actor, client.ID, AssignRequest{AssigneeID: &assigneeID})

	assert.True(t, shared.IsDependency(err))
}
