package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/estatecrm/backend/internal/domain/identity"
	"github.com/estatecrm/backend/internal/domain/notification"
	"github.com/estatecrm/backend/internal/domain/shared"
	"github.com/estatecrm/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockNotificationRepository is a mock implementation of NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindByRecipient(ctx context.Context, recipientID uuid.UUID, filter shared.Filter) ([]notification.Notification, error) {
	args := m.Called(ctx, recipientID, filter)
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	args := m.Called(ctx, recipientID)
	return args.Error(0)
}

func (m *MockNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
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

// recordingSender captures sent emails
type recordingSender struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

func (s *recordingSender) Send(to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentEmail{To: to, Subject: subject, Body: body})
	return s.err
}

func (s *recordingSender) allSent() []sentEmail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentEmail(nil), s.sent...)
}

func testConfig() config.NotifyConfig {
	return config.NotifyConfig{QueueSize: 16, Workers: 1}
}

func activeRecipient(email string) *identity.User {
	return &identity.User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          "recipient",
		Email:             email,
		Role:              identity.RoleSalesperson,
		Status:            identity.UserStatusActive,
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestAsyncDispatcher_PersistsAndEmails(t *testing.T) {
	notificationRepo := new(MockNotificationRepository)
	userRepo := new(MockUserRepository)
	sender := &recordingSender{}

	recipient := activeRecipient("sales@example.com")
	n, err := notification.NewNotification(recipient.ID, notification.TypeLeadAssigned, "Lead assigned to you", "A new lead is waiting")
	require.NoError(t, err)

	notificationRepo.On("Save", mock.Anything, n).Return(nil)
	userRepo.On("FindByID", mock.Anything, recipient.ID).Return(recipient, nil)

	d := NewAsyncDispatcher(notificationRepo, userRepo, sender, testConfig(), zap.NewNop())
	d.Start()
	defer d.Stop()

	d.Dispatch(context.Background(), n)

	waitFor(t, func() bool { return len(sender.allSent()) == 1 })
	sent := sender.allSent()[0]
	assert.Equal(t, "sales@example.com", sent.To)
	assert.Equal(t, "Lead assigned to you", sent.Subject)
	assert.Equal(t, "A new lead is waiting", sent.Body)
	notificationRepo.AssertExpectations(t)
}

func TestAsyncDispatcher_InactiveRecipientSkipsEmail(t *testing.T) {
	notificationRepo := new(MockNotificationRepository)
	userRepo := new(MockUserRepository)
	sender := &recordingSender{}

	recipient := activeRecipient("gone@example.com")
	recipient.Status = identity.UserStatusInactive
	n, err := notification.NewNotification(recipient.ID, notification.TypeTaskAssigned, "Task assigned", "")
	require.NoError(t, err)

	notificationRepo.On("Save", mock.Anything, n).Return(nil)
	userRepo.On("FindByID", mock.Anything, recipient.ID).Return(recipient, nil)

	d := NewAsyncDispatcher(notificationRepo, userRepo, sender, testConfig(), zap.NewNop())
	d.Start()

	d.Dispatch(context.Background(), n)
	d.Stop()

	// inbox row persisted, no email for an inactive recipient
	notificationRepo.AssertExpectations(t)
	assert.Empty(t, sender.allSent())
}

func TestAsyncDispatcher_SaveFailureDoesNotPropagate(t *testing.T) {
	notificationRepo := new(MockNotificationRepository)
	userRepo := new(MockUserRepository)
	sender := &recordingSender{}

	n, err := notification.NewNotification(uuid.New(), notification.TypeSaleApproved, "Sale approved", "")
	require.NoError(t, err)

	notificationRepo.On("Save", mock.Anything, n).Return(errors.New("db down"))

	d := NewAsyncDispatcher(notificationRepo, userRepo, sender, testConfig(), zap.NewNop())
	d.Start()

	// must not panic or surface the error
	d.Dispatch(context.Background(), n)
	d.Stop()

	assert.Empty(t, sender.allSent())
	userRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAsyncDispatcher_NilNotificationIgnored(t *testing.T) {
	notificationRepo := new(MockNotificationRepository)
	userRepo := new(MockUserRepository)
	sender := &recordingSender{}

	d := NewAsyncDispatcher(notificationRepo, userRepo, sender, testConfig(), zap.NewNop())
	d.Start()

	d.Dispatch(context.Background(), nil)
	d.Stop()

	notificationRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAsyncDispatcher_SendFailureOnlyLogged(t *testing.T) {
	notificationRepo := new(MockNotificationRepository)
	userRepo := new(MockUserRepository)
	sender := &recordingSender{err: errors.New("smtp unreachable")}

	recipient := activeRecipient("sales@example.com")
	n, err := notification.NewNotification(recipient.ID, notification.TypeSaleCompleted, "Sale completed", "")
	require.NoError(t, err)

	notificationRepo.On("Save", mock.Anything, n).Return(nil)
	userRepo.On("FindByID", mock.Anything, recipient.ID).Return(recipient, nil)

	d := NewAsyncDispatcher(notificationRepo, userRepo, sender, testConfig(), zap.NewNop())
	d.Start()

	d.Dispatch(context.Background(), n)
	d.Stop()

	// the send was attempted; the failure stays inside the dispatcher
	assert.Len(t, sender.allSent(), 1)
}
