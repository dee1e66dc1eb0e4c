package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tinkbyte-api/internal/domain"
	"tinkbyte-api/internal/repository"
)

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	CreateFunc               func(ctx context.Context, comment *domain.Comment) error
	FindByIDFunc             func(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	FindByIDsFunc            func(ctx context.Context, ids []uuid.UUID) ([]*domain.Comment, error)
	FindThreadFunc           func(ctx context.Context, articleID uuid.UUID, viewerID *uuid.UUID, sort repository.CommentSort) ([]*domain.Comment, error)
	FindForModerationFunc    func(ctx context.Context, status *domain.CommentStatus, offset, limit int) ([]*domain.Comment, int64, error)
	UpdateFieldsFunc         func(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	UpdateManyFunc           func(ctx context.Context, ids []uuid.UUID, fields map[string]interface{}) (int64, error)
	IncrementReportCountFunc func(ctx context.Context, id uuid.UUID) error
	AdjustLikeCountFunc      func(ctx context.Context, id uuid.UUID, delta int) error
	CountByStatusFunc        func(ctx context.Context) (map[domain.CommentStatus]int64, error)
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, comment)
	}
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	return nil
}

func (m *MockCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockCommentRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Comment, error) {
	if m.FindByIDsFunc != nil {
		return m.FindByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *MockCommentRepository) FindThread(ctx context.Context, articleID uuid.UUID, viewerID *uuid.UUID, sort repository.CommentSort) ([]*domain.Comment, error) {
	if m.FindThreadFunc != nil {
		return m.FindThreadFunc(ctx, articleID, viewerID, sort)
	}
	return nil, nil
}

func (m *MockCommentRepository) FindForModeration(ctx context.Context, status *domain.CommentStatus, offset, limit int) ([]*domain.Comment, int64, error) {
	if m.FindForModerationFunc != nil {
		return m.FindForModerationFunc(ctx, status, offset, limit)
	}
	return nil, 0, nil
}

func (m *MockCommentRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if m.UpdateFieldsFunc != nil {
		return m.UpdateFieldsFunc(ctx, id, fields)
	}
	return nil
}

func (m *MockCommentRepository) UpdateMany(ctx context.Context, ids []uuid.UUID, fields map[string]interface{}) (int64, error) {
	if m.UpdateManyFunc != nil {
		return m.UpdateManyFunc(ctx, ids, fields)
	}
	return int64(len(ids)), nil
}

func (m *MockCommentRepository) IncrementReportCount(ctx context.Context, id uuid.UUID) error {
	if m.IncrementReportCountFunc != nil {
		return m.IncrementReportCountFunc(ctx, id)
	}
	return nil
}

func (m *MockCommentRepository) AdjustLikeCount(ctx context.Context, id uuid.UUID, delta int) error {
	if m.AdjustLikeCountFunc != nil {
		return m.AdjustLikeCountFunc(ctx, id, delta)
	}
	return nil
}

func (m *MockCommentRepository) CountByStatus(ctx context.Context) (map[domain.CommentStatus]int64, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx)
	}
	return map[domain.CommentStatus]int64{}, nil
}

// MockReportRepository is a mock implementation of ReportRepository
type MockReportRepository struct {
	CreateFunc             func(ctx context.Context, report *domain.CommentReport) error
	ExistsFunc             func(ctx context.Context, commentID, reporterID uuid.UUID) (bool, error)
	CountByCommentIDFunc   func(ctx context.Context, commentID uuid.UUID) (int64, error)
	FindByCommentIDFunc    func(ctx context.Context, commentID uuid.UUID) ([]*domain.CommentReport, error)
	ResolveByCommentIDFunc func(ctx context.Context, commentID uuid.UUID, status domain.ReportStatus) (int64, error)
	CountPendingFunc       func(ctx context.Context) (int64, error)
}

func (m *MockReportRepository) Create(ctx context.Context, report *domain.CommentReport) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, report)
	}
	return nil
}

func (m *MockReportRepository) Exists(ctx context.Context, commentID, reporterID uuid.UUID) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, commentID, reporterID)
	}
	return false, nil
}

func (m *MockReportRepository) CountByCommentID(ctx context.Context, commentID uuid.UUID) (int64, error) {
	if m.CountByCommentIDFunc != nil {
		return m.CountByCommentIDFunc(ctx, commentID)
	}
	return 0, nil
}

func (m *MockReportRepository) FindByCommentID(ctx context.Context, commentID uuid.UUID) ([]*domain.CommentReport, error) {
	if m.FindByCommentIDFunc != nil {
		return m.FindByCommentIDFunc(ctx, commentID)
	}
	return nil, nil
}

func (m *MockReportRepository) ResolveByCommentID(ctx context.Context, commentID uuid.UUID, status domain.ReportStatus) (int64, error) {
	if m.ResolveByCommentIDFunc != nil {
		return m.ResolveByCommentIDFunc(ctx, commentID, status)
	}
	return 0, nil
}

func (m *MockReportRepository) CountPending(ctx context.Context) (int64, error) {
	if m.CountPendingFunc != nil {
		return m.CountPendingFunc(ctx)
	}
	return 0, nil
}

// MockModerationRepository is a mock implementation of ModerationRepository
type MockModerationRepository struct {
	CreateFunc          func(ctx context.Context, entry *domain.CommentModeration) error
	CreateBatchFunc     func(ctx context.Context, entries []*domain.CommentModeration) error
	FindByCommentIDFunc func(ctx context.Context, commentID uuid.UUID) ([]*domain.CommentModeration, error)
}

func (m *MockModerationRepository) Create(ctx context.Context, entry *domain.CommentModeration) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, entry)
	}
	return nil
}

func (m *MockModerationRepository) CreateBatch(ctx context.Context, entries []*domain.CommentModeration) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, entries)
	}
	return nil
}

func (m *MockModerationRepository) FindByCommentID(ctx context.Context, commentID uuid.UUID) ([]*domain.CommentModeration, error) {
	if m.FindByCommentIDFunc != nil {
		return m.FindByCommentIDFunc(ctx, commentID)
	}
	return nil, nil
}

// MockNotificationRepository is a mock implementation of NotificationRepository
type MockNotificationRepository struct {
	CreateBatchFunc   func(ctx context.Context, notifications []*domain.Notification) error
	FindPendingFunc   func(ctx context.Context, limit int) ([]*domain.Notification, error)
	MarkSentFunc      func(ctx context.Context, ids []uuid.UUID, sentAt time.Time) error
	RecordFailureFunc func(ctx context.Context, ids []uuid.UUID, maxAttempts int) error
}

func (m *MockNotificationRepository) CreateBatch(ctx context.Context, notifications []*domain.Notification) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, notifications)
	}
	return nil
}

func (m *MockNotificationRepository) FindPending(ctx context.Context, limit int) ([]*domain.Notification, error) {
	if m.FindPendingFunc != nil {
		return m.FindPendingFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockNotificationRepository) MarkSent(ctx context.Context, ids []uuid.UUID, sentAt time.Time) error {
	if m.MarkSentFunc != nil {
		return m.MarkSentFunc(ctx, ids, sentAt)
	}
	return nil
}

func (m *MockNotificationRepository) RecordFailure(ctx context.Context, ids []uuid.UUID, maxAttempts int) error {
	if m.RecordFailureFunc != nil {
		return m.RecordFailureFunc(ctx, ids, maxAttempts)
	}
	return nil
}

// MockArticleRepository is a mock implementation of ArticleRepository
type MockArticleRepository struct {
	FindByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Article, error)
}

func (m *MockArticleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return &domain.Article{BaseModel: domain.BaseModel{ID: id}, CommentsEnabled: true}, nil
}

// MockProfileRepository is a mock implementation of ProfileRepository
type MockProfileRepository struct {
	FindByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	FindByIDsFunc      func(ctx context.Context, ids []uuid.UUID) ([]*domain.Profile, error)
	CreateIfAbsentFunc func(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
	UpdateFieldsFunc   func(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockProfileRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Profile, error) {
	if m.FindByIDsFunc != nil {
		return m.FindByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *MockProfileRepository) CreateIfAbsent(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	if m.CreateIfAbsentFunc != nil {
		return m.CreateIfAbsentFunc(ctx, profile)
	}
	return profile, nil
}

func (m *MockProfileRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if m.UpdateFieldsFunc != nil {
		return m.UpdateFieldsFunc(ctx, id, fields)
	}
	return nil
}

// MockLikeRepository is a mock implementation of LikeRepository
type MockLikeRepository struct {
	CreateFunc              func(ctx context.Context, like *domain.CommentLike) (bool, error)
	DeleteFunc              func(ctx context.Context, commentID, userID uuid.UUID) (bool, error)
	FindLikedCommentIDsFunc func(ctx context.Context, userID uuid.UUID, commentIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

func (m *MockLikeRepository) Create(ctx context.Context, like *domain.CommentLike) (bool, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, like)
	}
	return true, nil
}

func (m *MockLikeRepository) Delete(ctx context.Context, commentID, userID uuid.UUID) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, commentID, userID)
	}
	return true, nil
}

func (m *MockLikeRepository) FindLikedCommentIDs(ctx context.Context, userID uuid.UUID, commentIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	if m.FindLikedCommentIDsFunc != nil {
		return m.FindLikedCommentIDsFunc(ctx, userID, commentIDs)
	}
	return map[uuid.UUID]bool{}, nil
}
