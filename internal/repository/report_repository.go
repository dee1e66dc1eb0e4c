package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tinkbyte-api/internal/domain"
)

// ReportRepository defines the interface for comment report data access
type ReportRepository interface {
	// Create returns gorm.ErrDuplicatedKey when the reporter already reported the comment
	Create(ctx context.Context, report *domain.CommentReport) error
	Exists(ctx context.Context, commentID, reporterID uuid.UUID) (bool, error)
	CountByCommentID(ctx context.Context, commentID uuid.UUID) (int64, error)
	FindByCommentID(ctx context.Context, commentID uuid.UUID) ([]*domain.CommentReport, error)
	ResolveByCommentID(ctx context.Context, commentID uuid.UUID, status domain.ReportStatus) (int64, error)
	CountPending(ctx context.Context) (int64, error)
}

type reportRepositoryImpl struct {
	db *gorm.DB
}

// NewReportRepository creates a new instance of ReportRepository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepositoryImpl{db: db}
}

func (r *reportRepositoryImpl) Create(ctx context.Context, report *domain.CommentReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepositoryImpl) Exists(ctx context.Context, commentID, reporterID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.CommentReport{}).
		Where("comment_id = ? AND reporter_id = ?", commentID, reporterID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByCommentID counts distinct reporters, whatever the report status
func (r *reportRepositoryImpl) CountByCommentID(ctx context.Context, commentID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.CommentReport{}).
		Where("comment_id = ?", commentID).
		Distinct("reporter_id").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *reportRepositoryImpl) FindByCommentID(ctx context.Context, commentID uuid.UUID) ([]*domain.CommentReport, error) {
	var reports []*domain.CommentReport
	if err := r.db.WithContext(ctx).
		Where("comment_id = ?", commentID).
		Order("created_at ASC").
		Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// ResolveByCommentID moves every pending report on the comment to status
func (r *reportRepositoryImpl) ResolveByCommentID(ctx context.Context, commentID uuid.UUID, status domain.ReportStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.CommentReport{}).
		Where("comment_id = ? AND status = ?", commentID, domain.ReportStatusPending).
		Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *reportRepositoryImpl) CountPending(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.CommentReport{}).
		Where("status = ?", domain.ReportStatusPending).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
