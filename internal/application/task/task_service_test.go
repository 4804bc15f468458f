package task

import (
	"context"
	"testing"
	"time"

	"github.com/estatecrm/backend/internal/domain/access"
	"github.com/estatecrm/backend/internal/domain/crm"
	"github.com/estatecrm/backend/internal/domain/identity"
	"github.com/estatecrm/backend/internal/domain/notification"
	"github.com/estatecrm/backend/internal/domain/sales"
	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/estatecrm/backend/internal/domain/task"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockTaskRepository is a mock implementation of TaskRepository
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) FindAll(ctx context.Context, filter shared.Filter) ([]task.Task, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]task.Task), args.Error(1)
}

func (m *MockTaskRepository) FindByAssignee(ctx context.Context, assigneeID uuid.UUID, filter shared.Filter) ([]task.Task, error) {
	args := m.Called(ctx, assigneeID, filter)
	return args.Get(0).([]task.Task), args.Error(1)
}

func (m *MockTaskRepository) FindByRelated(ctx context.Context, kind task.RelatedKind, id uuid.UUID, filter shared.Filter) ([]task.Task, error) {
	args := m.Called(ctx, kind, id, filter)
	return args.Get(0).([]task.Task), args.Error(1)
}

func (m *MockTaskRepository) FindOverdue(ctx context.Context, before time.Time, filter shared.Filter) ([]task.Task, error) {
	args := m.Called(ctx, before, filter)
	return args.Get(0).([]task.Task), args.Error(1)
}

func (m *MockTaskRepository) Save(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) SaveWithLock(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) CountByStatus(ctx context.Context, status task.TaskStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockLeadRepository is a mock implementation of crm.LeadRepository
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

// MockClientRepository is a mock implementation of crm.ClientRepository
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

// MockSaleRepository is a mock implementation of sales.SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindBySaleNumber(ctx context.Context, saleNumber string) (*sales.Sale, error) {
	args := m.Called(ctx, saleNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Sale, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByClient(ctx context.Context, clientID uuid.UUID, filter shared.Filter) ([]sales.Sale, error) {
	args := m.Called(ctx, clientID, filter)
	return args.Get(0).([]sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByStatus(ctx context.Context, status sales.SaleStatus, filter shared.Filter) ([]sales.Sale, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) SaveWithLock(ctx context.Context, sale *sales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSaleRepository) CountByStatus(ctx context.Context, status sales.SaleStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSaleRepository) GenerateSaleNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
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

type taskServiceFixture struct {
	service    *TaskService
	taskRepo   *MockTaskRepository
	leadRepo   *MockLeadRepository
	clientRepo *MockClientRepository
	saleRepo   *MockSaleRepository
	userRepo   *MockUserRepository
	dispatcher *recordingDispatcher
}

func newTaskServiceFixture() *taskServiceFixture {
	f := &taskServiceFixture{
		taskRepo:   new(MockTaskRepository),
		leadRepo:   new(MockLeadRepository),
		clientRepo: new(MockClientRepository),
		saleRepo:   new(MockSaleRepository),
		userRepo:   new(MockUserRepository),
		dispatcher: &recordingDispatcher{},
	}
	f.service = NewTaskService(f.taskRepo, f.leadRepo, f.clientRepo, f.saleRepo, f.userRepo,
		access.NewPolicy(), f.dispatcher, zap.NewNop())
	return f
}

func activeUser(id uuid.UUID) *identity.User {
	user := &identity.User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          "staff.member",
		Role:              identity.RoleAgent,
		Status:            identity.UserStatusActive,
	}
	user.ID = id
	return user
}

// =============================================================================
// Tests
// =============================================================================

func TestTaskService_Create_DefaultsUnknownPriority(t *testing.T) {
	f := newTaskServiceFixture()
	actor := access.NewActor(uuid.New(), identity.RoleAgent)

	f.taskRepo.On("Save", mock.Anything, mock.AnythingOfType("*task.Task")).Return(nil)

	resp, err := f.service.Create(context.Background(), actor, CreateTaskRequest{
		Title:    "Call back",
		Priority: "super-urgent",
	})

	require.NoError(t, err)
	assert.Equal(t, "medium", resp.Priority)
	assert.Equal(t, "pending", resp.Status)
}

func TestTaskService_Create_MissingRelatedLead(t *testing.T) {
	f := newTaskServiceFixture()
	actor := access.NewActor(uuid.New(), identity.RoleAgent)
	leadID := uuid.New()

	f.leadRepo.On("FindByID", mock.Anything, leadID).Return(nil, shared.NewNotFoundError("LEAD_NOT_FOUND", "Lead not found"))

	_, err := f.service.Create(context.Background(), actor, CreateTaskRequest{
		Title:       "Prepare brochure",
		RelatedKind: "lead",
		RelatedID:   &leadID,
	})

	assert.True(t, shared.IsDependency(err))
	f.taskRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTaskService_Create_RelatedKindWithoutID(t *testing.T) {
	f := newTaskServiceFixture()
	actor := access.NewActor(uuid.New(), identity.RoleAgent)

	_, err := f.service.Create(context.Background(), actor, CreateTaskRequest{
		Title:       "Prepare brochure",
		RelatedKind: "sale",
	})

	assert.True(t, shared.IsValidation(err))
}

func TestTaskService_Create_WithAssigneeNotifies(t *testing.T) {
	f := newTaskServiceFixture()
	actor := access.NewActor(uuid.New(), identity.RoleAgent)
	assigneeID := uuid.New()

	f.userRepo.On("FindByID", mock.Anything, assigneeID).Return(activeUser(assigneeID), nil)
	f.taskRepo.On("Save", mock.Anything, mock.AnythingOfType("*task.Task")).Return(nil)

	_, err := f.service.Create(context.Background(), actor, CreateTaskRequest{
		Title:      "Call back",
		AssigneeID: &assigneeID,
	})

	require.NoError(t, err)
	require.Len(t, f.dispatcher.sent, 1)
	assert.Equal(t, notification.TypeTaskAssigned, f.dispatcher.sent[0].Type)
	assert.Equal(t, assigneeID, f.dispatcher.sent[0].RecipientID)
}

func TestTaskService_Complete_NotifiesCreatorNotAssignee(t *testing.T) {
	f := newTaskServiceFixture()
	creatorID := uuid.New()
	assigneeID := uuid.New()
	actor := access.NewActor(assigneeID, identity.RoleAgent)

	tsk, err := task.NewTask(creatorID, "Prepare contract", task.PriorityHigh)
	require.NoError(t, err)
	tsk.Assign(&assigneeID)

	f.taskRepo.On("FindByID", mock.Anything, tsk.ID).Return(tsk, nil)
	f.taskRepo.On("SaveWithLock", mock.Anything, tsk).Return(nil)

	resp, err := f.service.Complete(context.Background(), actor, tsk.ID, CompleteTaskRequest{Notes: "done"})

	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
	require.Len(t, f.dispatcher.sent, 1)
	assert.Equal(t, creatorID, f.dispatcher.sent[0].RecipientID)
	assert.Equal(t, notification.TypeTaskCompleted, f.dispatcher.sent[0].Type)
}

func TestTaskService_Complete_CreatorActorNotSelfNotified(t *testing.T) {
	f := newTaskServiceFixture()
	creatorID := uuid.New()
	actor := access.NewActor(creatorID, identity.RoleAgent)

	tsk, err := task.NewTask(creatorID, "Prepare contract", task.PriorityMedium)
	require.NoError(t, err)

	f.taskRepo.On("FindByID", mock.Anything, tsk.ID).Return(tsk, nil)
	f.taskRepo.On("SaveWithLock", mock.Anything, tsk).Return(nil)

	_, err = f.service.Complete(context.Background(), actor, tsk.ID, CompleteTaskRequest{})

	require.NoError(t, err)
	assert.Empty(t, f.dispatcher.sent)
}

func TestTaskService_Complete_AlreadyCompleted(t *testing.T) {
	f := newTaskServiceFixture()
	actor := access.NewActor(uuid.New(), identity.RoleManager)

	tsk, err := task.NewTask(uuid.New(), "Prepare contract", task.PriorityMedium)
	require.NoError(t, err)
	require.NoError(t, tsk.Complete("done"))

	f.taskRepo.On("FindByID", mock.Anything, tsk.ID).Return(tsk, nil)

	_, err = f.service.Complete(context.Background(), actor, tsk.ID, CompleteTaskRequest{})

	assert.True(t, shared.IsStateConflict(err))
}

func TestTaskService_Assign_NoopForSameAssignee(t *testing.T) {
	f := newTaskServiceFixture()
	actor := access.NewActor(uuid.New(), identity.RoleManager)
	assigneeID := uuid.New()

	tsk, err := task.NewTask(uuid.New(), "Site visit", task.PriorityMedium)
	require.NoError(t, err)
	tsk.Assign(&assigneeID)

	f.taskRepo.On("FindByID", mock.Anything, tsk.ID).Return(tsk, nil)
	f.userRepo.On("FindByID", mock.Anything, assigneeID).Return(activeUser(assigneeID), nil)

	_, err = f.service.Assign(context.Background(), actor, tsk.ID, AssignTaskRequest{AssigneeID: &assigneeID})

	require.NoError(t, err)
	assert.Empty(t, f.dispatcher.sent)
	f.taskRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestTaskService_BulkAssign_PartialFailure(t *testing.T) {
	f := newTaskServiceFixture()
	actor := access.NewActor(uuid.New(), identity.RoleManager)
	assigneeID := uuid.New()

	good, err := task.NewTask(uuid.New(), "Call back", task.PriorityMedium)
	require.NoError(t, err)
	missingID := uuid.New()

	f.userRepo.On("FindByID", mock.Anything, assigneeID).Return(activeUser(assigneeID), nil)
	f.taskRepo.On("FindByID", mock.Anything, good.ID).Return(good, nil)
	f.taskRepo.On("FindByID", mock.Anything, missingID).Return(nil, shared.NewNotFoundError("TASK_NOT_FOUND", "Task not found"))
	f.taskRepo.On("SaveWithLock", mock.Anything, good).Return(nil)

	result, err := f.service.BulkAssign(context.Background(), actor, BulkAssignTasksRequest{
		IDs:        []uuid.UUID{good.ID, missingID},
		AssigneeID: assigneeID,
	})

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{good.ID}, result.Assigned)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, missingID, result.Failed[0].ID)
}

func TestTaskService_GetOverdue_IsPureQuery(t *testing.T) {
	f := newTaskServiceFixture()
	actor := access.NewActor(uuid.New(), identity.RoleManager)

	overdue, err := task.NewTask(uuid.New(), "Send brochure", task.PriorityMedium)
	require.NoError(t, err)
	past := time.Now().Add(-time.Hour)
	overdue.SetDueDate(&past)

	f.taskRepo.On("FindOverdue", mock.Anything, mock.AnythingOfType("time.Time"), mock.Anything).
		Return([]task.Task{*overdue}, nil)

	items, err := f.service.GetOverdue(context.Background(), actor, TaskListFilter{})

	require.NoError(t, err)
	require.Len(t, items, 1)
	// querying never mutates status
	assert.Equal(t, "pending", items[0].Status)
	f.taskRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}
