package crm

import (
	"context"
	"testing"
	"time"

	"github.com/estatecrm/backend/internal/domain/access"
	"github.com/estatecrm/backend/internal/domain/crm"
	"github.com/estatecrm/backend/internal/domain/identity"
	"github.com/estatecrm/backend/internal/domain/notification"
	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockLeadRepository is a mock implementation of LeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindAll(ctx context.Context, filter shared.Filter) ([]crm.Lead, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]crm.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByAssignee(ctx context.Context, assigneeID uuid.UUID, filter shared.Filter) ([]crm.Lead, error) {
	args := m.Called(ctx, assigneeID, filter)
	return args.Get(0).([]crm.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByStatus(ctx context.Context, status crm.LeadStatus, filter shared.Filter) ([]crm.Lead, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]crm.Lead), args.Error(1)
}

func (m *MockLeadRepository) Save(ctx context.Context, lead *crm.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) SaveWithLock(ctx context.Context, lead *crm.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLeadRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeadRepository) CountByStatus(ctx context.Context, status crm.LeadStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockClientRepository is a mock implementation of ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Client), args.Error(1)
}

func (m *MockClientRepository) FindByLeadID(ctx context.Context, leadID uuid.UUID) (*crm.Client, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]crm.Client, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]crm.Client), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, client *crm.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) SaveWithLock(ctx context.Context, client *crm.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClientRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockFollowUpRepository is a mock implementation of FollowUpRepository
type MockFollowUpRepository struct {
	mock.Mock
}

func (m *MockFollowUpRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.FollowUp, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.FollowUp), args.Error(1)
}

func (m *MockFollowUpRepository) FindByLead(ctx context.Context, leadID uuid.UUID, filter shared.Filter) ([]crm.FollowUp, error) {
	args := m.Called(ctx, leadID, filter)
	return args.Get(0).([]crm.FollowUp), args.Error(1)
}

func (m *MockFollowUpRepository) Save(ctx context.Context, followUp *crm.FollowUp) error {
	args := m.Called(ctx, followUp)
	return args.Error(0)
}

func (m *MockFollowUpRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByRole(ctx context.Context, role identity.Role, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, role, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SaveWithLock(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

// recordingDispatcher captures dispatched notifications synchronously
type recordingDispatcher struct {
	sent []*notification.Notification
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, notifications ...*notification.Notification) {
	d.sent = append(d.sent, notifications...)
}

// =============================================================================
// Test helpers
// =============================================================================

type leadServiceFixture struct {
	service    *LeadService
	leadRepo   *MockLeadRepository
	clientRepo *MockClientRepository
	fuRepo     *MockFollowUpRepository
	userRepo   *MockUserRepository
	dispatcher *recordingDispatcher
}

func newLeadServiceFixture() *leadServiceFixture {
	f := &leadServiceFixture{
		leadRepo:   new(MockLeadRepository),
		clientRepo: new(MockClientRepository),
		fuRepo:     new(MockFollowUpRepository),
		userRepo:   new(MockUserRepository),
		dispatcher: &recordingDispatcher{},
	}
	f.service = NewLeadService(f.leadRepo, f.clientRepo, f.fuRepo, f.userRepo,
		access.NewPolicy(), f.dispatcher, zap.NewNop())
	return f
}

func activeUser(id uuid.UUID, role identity.Role) *identity.User {
	user := &identity.User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          "staff.member",
		Role:              role,
		Status:            identity.UserStatusActive,
	}
	user.ID = id
	return user
}

func inactiveUser(id uuid.UUID) *identity.User {
	user := activeUser(id, identity.RoleAgent)
	user.Status = identity.UserStatusInactive
	return user
}

func agentActor() access.Actor {
	return access.NewActor(uuid.New(), identity.RoleAgent)
}

func managerActor() access.Actor {
	return access.NewActor(uuid.New(), identity.RoleManager)
}

// =============================================================================
// Tests
// =============================================================================

func TestLeadService_Create(t *testing.T) {
	f := newLeadServiceFixture()
	actor := agentActor()

	f.leadRepo.On("Save", mock.Anything, mock.AnythingOfType("*crm.Lead")).Return(nil)

	resp, err := f.service.Create(context.Background(), actor, CreateLeadRequest{
		Name:   "Jane Cooper",
		Email:  "jane@example.com",
		Source: "referral",
	})

	require.NoError(t, err)
	assert.Equal(t, "new", resp.Status)
	assert.Equal(t, 0, resp.Score)
	require.NotNil(t, resp.CreatedBy)
	assert.Equal(t, actor.ID, *resp.CreatedBy)
	f.leadRepo.AssertExpectations(t)
}

func TestLeadService_Create_WithAssigneeNotifies(t *testing.T) {
	f := newLeadServiceFixture()
	actor := agentActor()
	assigneeID := uuid.New()

	f.userRepo.On("FindByID", mock.Anything, assigneeID).Return(activeUser(assigneeID, identity.RoleAgent), nil)
	f.leadRepo.On("Save", mock.Anything, mock.AnythingOfType("*crm.Lead")).Return(nil)

	resp, err := f.service.Create(context.Background(), actor, CreateLeadRequest{
		Name:       "Jane Cooper",
		AssigneeID: &assigneeID,
	})

	require.NoError(t, err)
	require.NotNil(t, resp.AssigneeID)
	assert.Equal(t, assigneeID, *resp.AssigneeID)

	require.Len(t, f.dispatcher.sent, 1)
	assert.Equal(t, notification.TypeLeadAssigned, f.dispatcher.sent[0].Type)
	assert.Equal(t, assigneeID, f.dispatcher.sent[0].RecipientID)
}

func TestLeadService_Create_InactiveAssigneeRejected(t *testing.T) {
	f := newLeadServiceFixture()
	assigneeID := uuid.New()

	f.userRepo.On("FindByID", mock.Anything, assigneeID).Return(inactiveUser(assigneeID), nil)

	_, err := f.service.Create(context.Background(), agentActor(), CreateLeadRequest{
		Name:       "Jane Cooper",
		AssigneeID: &assigneeID,
	})

	assert.True(t, shared.IsDependency(err))
	f.leadRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	assert.Empty(t, f.dispatcher.sent)
}

func TestLeadService_Create_InvalidBudgetRange(t *testing.T) {
	f := newLeadServiceFixture()

	min := decimal.NewFromInt(500000)
	max := decimal.NewFromInt(300000)
	_, err := f.service.Create(context.Background(), agentActor(), CreateLeadRequest{
		Name:      "Jane Cooper",
		BudgetMin: &min,
		BudgetMax: &max,
	})

	assert.True(t, shared.IsValidation(err))
	f.leadRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestLeadService_GetByID_DeniedForUnrelatedAgent(t *testing.T) {
	f := newLeadServiceFixture()

	lead, err := crm.NewLead(uuid.New(), "Jane Cooper")
	require.NoError(t, err)
	f.leadRepo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)

	_, err = f.service.GetByID(context.Background(), agentActor(), lead.ID)
	assert.True(t, shared.IsAuthorization(err))

	// elevated role sees everything
	_, err = f.service.GetByID(context.Background(), managerActor(), lead.ID)
	assert.NoError(t, err)
}

func TestLeadService_UpdateScore_OutOfRange(t *testing.T) {
	f := newLeadServiceFixture()
	actor := agentActor()

	lead, err := crm.NewLead(actor.ID, "Jane Cooper")
	require.NoError(t, err)
	f.leadRepo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)

	_, err = f.service.UpdateScore(context.Background(), actor, lead.ID, UpdateLeadScoreRequest{Score: 150})

	assert.True(t, shared.IsValidation(err))
	f.leadRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestLeadService_Update_ConvertedLeadRejected(t *testing.T) {
	f := newLeadServiceFixture()
	actor := agentActor()

	lead, err := crm.NewLead(actor.ID, "Jane Cooper")
	require.NoError(t, err)
	require.NoError(t, lead.Convert(uuid.New()))
	f.leadRepo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)

	name := "New Name"
	_, err = f.service.Update(context.Background(), actor, lead.ID, UpdateLeadRequest{Name: &name})

	assert.True(t, shared.IsStateConflict(err))
}

func TestLeadService_Convert(t *testing.T) {
	f := newLeadServiceFixture()
	actor := agentActor()

	lead, err := crm.NewLead(actor.ID, "Jane Cooper")
	require.NoError(t, err)
	require.NoError(t, lead.SetContact("jane@example.com", ""))

	f.leadRepo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
	f.clientRepo.On("Save", mock.Anything, mock.AnythingOfType("*crm.Client")).Return(nil)
	f.leadRepo.On("SaveWithLock", mock.Anything, lead).Return(nil)

	resp, err := f.service.Convert(context.Background(), actor, lead.ID)

	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", resp.Email)
	require.NotNil(t, resp.LeadID)
	assert.Equal(t, lead.ID, *resp.LeadID)
	assert.True(t, lead.IsConverted())
	require.NotNil(t, lead.ClientID)
	assert.Equal(t, resp.ID, *lead.ClientID)
	f.clientRepo.AssertExpectations(t)
	f.leadRepo.AssertExpectations(t)
}

func TestLeadService_Convert_LostLeadRejected(t *testing.T) {
	f := newLeadServiceFixture()
	actor := agentActor()

	lead, err := crm.NewLead(actor.ID, "Jane Cooper")
	require.NoError(t, err)
	require.NoError(t, lead.MarkLost())
	f.leadRepo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)

	_, err = f.service.Convert(context.Background(), actor, lead.ID)

	assert.True(t, shared.IsStateConflict(err))
	f.clientRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestLeadService_Assign_NotifiesNewAssignee(t *testing.T) {
	f := newLeadServiceFixture()
	actor := agentActor()
	assigneeID := uuid.New()

	lead, err := crm.NewLead(actor.ID, "Jane Cooper")
	require.NoError(t, err)

	f.leadRepo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
	f.userRepo.On("FindByID", mock.Anything, assigneeID).Return(activeUser(assigneeID, identity.RoleAgent), nil)
	f.leadRepo.On("SaveWithLock", mock.Anything, lead).Return(nil)

	_, err = f.service.Assign(context.Background(), actor, lead.ID, AssignRequest{AssigneeID: &assigneeID})
	require.NoError(t, err)

	require.Len(t, f.dispatcher.sent, 1)
	assert.Equal(t, assigneeID, f.dispatcher.sent[0].RecipientID)
	assert.Equal(t, notification.TypeLeadAssigned, f.dispatcher.sent[0].Type)

	// re-assigning to the same user is a no-op and produces no notification
	_, err = f.service.Assign(context.Background(), actor, lead.ID, AssignRequest{AssigneeID: &assigneeID})
	require.NoError(t, err)
	assert.Len(t, f.dispatcher.sent, 1)
}

func TestLeadService_Assign_SelfClaimNotifiesOnce(t *testing.T) {
	f := newLeadServiceFixture()
	actor := agentActor()

	lead, err := crm.NewLead(actor.ID, "Jane Cooper")
	require.NoError(t, err)

	f.leadRepo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
	f.userRepo.On("FindByID", mock.Anything, actor.ID).Return(activeUser(actor.ID, identity.RoleAgent), nil)
	f.leadRepo.On("SaveWithLock", mock.Anything, lead).Return(nil)

	// claiming an unassigned lead is a real assignee change
	actorID := actor.ID
	_, err = f.service.Assign(context.Background(), actor, lead.ID, AssignRequest{AssigneeID: &actorID})
	require.NoError(t, err)

	require.Len(t, f.dispatcher.sent, 1)
	assert.Equal(t, actor.ID, f.dispatcher.sent[0].RecipientID)

	// claiming again is a no-op
	_, err = f.service.Assign(context.Background(), actor, lead.ID, AssignRequest{AssigneeID: &actorID})
	require.NoError(t, err)
	assert.Len(t, f.dispatcher.sent, 1)
}

func TestLeadService_Assign_InactiveAssigneeRejected(t *testing.T) {
	f := newLeadServiceFixture()
	actor := agentActor()
	assigneeID := uuid.New()

	lead, err := crm.NewLead(actor.ID, "Jane Cooper")
	require.NoError(t, err)

	f.leadRepo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
	f.userRepo.On("FindByID", mock.Anything, assigneeID).Return(inactiveUser(assigneeID), nil)

	_, err = f.service.Assign(context.Background(), actor, lead.ID, AssignRequest{AssigneeID: &assigneeID})

	assert.True(t, shared.IsDependency(err))
	f.leadRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestLeadService_BulkAssign_PartialFailure(t *testing.T) {
	f := newLeadServiceFixture()
	actor := managerActor()
	assigneeID := uuid.New()

	good, err := crm.NewLead(uuid.New(), "Jane Cooper")
	require.NoError(t, err)
	missingID := uuid.New()

	f.userRepo.On("FindByID", mock.Anything, assigneeID).Return(activeUser(assigneeID, identity.RoleAgent), nil)
	f.leadRepo.On("FindByID", mock.Anything, good.ID).Return(good, nil)
	f.leadRepo.On("FindByID", mock.Anything, missingID).Return(nil, shared.NewNotFoundError("LEAD_NOT_FOUND", "Lead not found"))
	f.leadRepo.On("SaveWithLock", mock.Anything, good).Return(nil)

	result, err := f.service.BulkAssign(context.Background(), actor, BulkAssignRequest{
		IDs:        []uuid.UUID{good.ID, missingID},
		AssigneeID: assigneeID,
	})

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{good.ID}, result.Assigned)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, missingID, result.Failed[0].ID)
	assert.Len(t, f.dispatcher.sent, 1)
}

func TestLeadService_ScheduleFollowUp(t *testing.T) {
	f := newLeadServiceFixture()
	actor := agentActor()

	lead, err := crm.NewLead(actor.ID, "Jane Cooper")
	require.NoError(t, err)
	when := time.Now().Add(48 * time.Hour)

	f.leadRepo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
	f.fuRepo.On("Save", mock.Anything, mock.AnythingOfType("*crm.FollowUp")).Return(nil)
	f.leadRepo.On("SaveWithLock", mock.Anything, lead).Return(nil)

	resp, err := f.service.ScheduleFollowUp(context.Background(), actor, lead.ID, ScheduleFollowUpRequest{
		ScheduledAt: when,
		Note:        "walk-through of unit 4A",
	})

	require.NoError(t, err)
	assert.Equal(t, lead.ID, resp.LeadID)
	require.NotNil(t, lead.NextFollowUpAt)
	assert.True(t, lead.NextFollowUpAt.Equal(when))
}

func TestLeadService_ScheduleFollowUp_ConvertedLeadRejected(t *testing.T) {
	f := newLeadServiceFixture()
	actor := agentActor()

	lead, err := crm.NewLead(actor.ID, "Jane Cooper")
	require.NoError(t, err)
	require.NoError(t, lead.Convert(uuid.New()))
	f.leadRepo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)

	_, err = f.service.ScheduleFollowUp(context.Background(), actor, lead.ID, ScheduleFollowUpRequest{
		ScheduledAt: time.Now().Add(time.Hour),
	})

	assert.True(t, shared.IsStateConflict(err))
	f.fuRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestLeadService_Delete_ConvertedLeadRejected(t *testing.T) {
	f := newLeadServiceFixture()
	actor := agentActor()

	lead, err := crm.NewLead(actor.ID, "Jane Cooper")
	require.NoError(t, err)
	require.NoError(t, lead.Convert(uuid.New()))
	f.leadRepo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)

	err = f.service.Delete(context.Background(), actor, lead.ID)

	assert.True(t, shared.IsStateConflict(err))
	f.leadRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestLeadService_StatusSummary(t *testing.T) {
	f := newLeadServiceFixture()

	f.leadRepo.On("CountByStatus", mock.Anything, crm.LeadStatusNew).Return(int64(5), nil)
	f.leadRepo.On("CountByStatus", mock.Anything, crm.LeadStatusConverted).Return(int64(2), nil)
	f.leadRepo.On("CountByStatus", mock.Anything, mock.AnythingOfType("crm.LeadStatus")).Return(int64(0), nil)

	summary, err := f.service.StatusSummary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(5), summary.Counts["new"])
	assert.Equal(t, int64(2), summary.Counts["converted"])
	assert.Equal(t, int64(7), summary.Total)
}

func TestLeadService_List_ScopesNonElevatedActors(t *testing.T) {
	f := newLeadServiceFixture()
	actor := agentActor()

	f.leadRepo.On("FindAll", mock.Anything, mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Filters[access.VisibleToKey] == actor.ID
	})).Return([]crm.Lead{}, nil)
	f.leadRepo.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)

	_, _, err := f.service.List(context.Background(), actor, LeadListFilter{})
	require.NoError(t, err)
	f.leadRepo.AssertExpectations(t)
}

// recordingPublisher captures published domain events for assertions
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func TestLeadService_Create_PublishesDomainEvents(t *testing.T) {
	f := newLeadServiceFixture()
	publisher := &recordingPublisher{}
	f.service.SetEventPublisher(publisher)

	f.leadRepo.On("Save", mock.Anything, mock.AnythingOfType("*crm.Lead")).Return(nil)

	_, err := f.service.Create(context.Background(), agentActor(), CreateLeadRequest{Name: "Jane Cooper"})
	require.NoError(t, err)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, crm.EventLeadCreated, publisher.events[0].EventType())
}

func TestLeadService_Create_WithoutPublisherDiscardsEvents(t *testing.T) {
	f := newLeadServiceFixture()
	f.leadRepo.On("Save", mock.Anything, mock.AnythingOfType("*crm.Lead")).Return(nil)

	_, err := f.service.Create(context.Background(), agentActor(), CreateLeadRequest{Name: "Jane Cooper"})
	require.NoError(t, err)
}
