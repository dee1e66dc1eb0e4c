package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"tinkbyte-api/internal/client"
	"tinkbyte-api/internal/domain"
)

// MockNotificationRepository is a mock implementation of NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) CreateBatch(ctx context.Context, notifications []*domain.Notification) error {
	args := m.Called(ctx, notifications)
	return args.Error(0)
}

func (m *MockNotificationRepository) FindPending(ctx context.Context, limit int) ([]*domain.Notification, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkSent(ctx context.Context, ids []uuid.UUID, sentAt time.Time) error {
	args := m.Called(ctx, ids, sentAt)
	return args.Error(0)
}

func (m *MockNotificationRepository) RecordFailure(ctx context.Context, ids []uuid.UUID, maxAttempts int) error {
	args := m.Called(ctx, ids, maxAttempts)
	return args.Error(0)
}

// MockNotificationClient is a mock implementation of NotificationClient
type MockNotificationClient struct {
	mock.Mock
}

func (m *MockNotificationClient) SendBulkNotifications(ctx context.Context, events []client.NotificationEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func pendingNotifications(n int) []*domain.Notification {
	out := make([]*domain.Notification, 0, n)
	for i := 0; i < n; i++ {
		commentID := uuid.New()
		out = append(out, &domain.Notification{
			BaseModel: domain.BaseModel{ID: uuid.New(), CreatedAt: time.Now()},
			UserID:    uuid.New(),
			Type:      domain.NotificationCommentApproved,
			CommentID: &commentID,
			Payload:   datatypes.JSON(`{"articleId":"a1"}`),
			Status:    domain.NotificationStatusPending,
		})
	}
	return out
}

func idsOf(ns []*domain.Notification) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(ns))
	for _, n := range ns {
		ids = append(ids, n.ID)
	}
	return ids
}

func TestNotificationDispatchJob_Run_Success(t *testing.T) {
	repo := new(MockNotificationRepository)
	notifier := new(MockNotificationClient)
	pending := pendingNotifications(2)

	repo.On("FindPending", mock.Anything, 10).Return(pending, nil)
	notifier.On("SendBulkNotifications", mock.Anything, mock.MatchedBy(func(events []client.NotificationEvent) bool {
		return len(events) == 2 &&
			events[0].ID == pending[0].ID &&
			events[0].TargetUserID == pending[0].UserID &&
			events[0].Type == "COMMENT_APPROVED" &&
			events[0].Metadata["articleId"] == "a1"
	})).Return(nil)
	repo.On("MarkSent", mock.Anything, idsOf(pending), mock.AnythingOfType("time.Time")).Return(nil)

	NewNotificationDispatchJob(repo, notifier, 10, nil, zap.NewNop()).Run()

	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
	repo.AssertNotCalled(t, "RecordFailure", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotificationDispatchJob_Run_DeliveryFailure(t *testing.T) {
	repo := new(MockNotificationRepository)
	notifier := new(MockNotificationClient)
	pending := pendingNotifications(3)

	repo.On("FindPending", mock.Anything, DefaultBatchSize).Return(pending, nil)
	notifier.On("SendBulkNotifications", mock.Anything, mock.Anything).Return(errors.New("503"))
	repo.On("RecordFailure", mock.Anything, idsOf(pending), MaxDeliveryAttempts).Return(nil)

	NewNotificationDispatchJob(repo, notifier, 0, nil, zap.NewNop()).Run()

	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "MarkSent", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotificationDispatchJob_Run_NothingPending(t *testing.T) {
	repo := new(MockNotificationRepository)
	notifier := new(MockNotificationClient)
	repo.On("FindPending", mock.Anything, 5).Return([]*domain.Notification{}, nil)

	NewNotificationDispatchJob(repo, notifier, 5, nil, zap.NewNop()).Run()

	notifier.AssertNotCalled(t, "SendBulkNotifications", mock.Anything, mock.Anything)
}

func TestNotificationDispatchJob_Run_LoadError(t *testing.T) {
	repo := new(MockNotificationRepository)
	notifier := new(MockNotificationClient)
	repo.On("FindPending", mock.Anything, 5).Return(nil, errors.New("db down"))

	NewNotificationDispatchJob(repo, notifier, 5, nil, zap.NewNop()).Run()

	notifier.AssertNotCalled(t, "SendBulkNotifications", mock.Anything, mock.Anything)
}

func TestNotificationDispatchJob_Schedule(t *testing.T) {
	repo := new(MockNotificationRepository)
	called := make(chan struct{}, 10)
	repo.On("FindPending", mock.Anything, 5).Run(func(args mock.Arguments) {
		called <- struct{}{}
	}).Return([]*domain.Notification{}, nil)

	j := NewNotificationDispatchJob(repo, new(MockNotificationClient), 5, nil, zap.NewNop())
	require.Error(t, j.Start("not a schedule"))

	require.NoError(t, j.Start("@every 1s"))
	defer j.Stop()

	select {
	case <-called:
	case <-time.After(3 * time.Second):
		t.Fatal("job was not run by the scheduler")
	}
	assert.NotNil(t, j.cron)
}
