package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tinkbyte-api/internal/domain"
)

// CommentSort is the sibling order of a thread listing
type CommentSort string

const (
	SortNewest CommentSort = "newest"
	SortOldest CommentSort = "oldest"
	SortTop    CommentSort = "top"
)

// ParseCommentSort returns the sort for s, defaulting to newest
func ParseCommentSort(s string) CommentSort {
	switch CommentSort(s) {
	case SortOldest, SortTop:
		return CommentSort(s)
	default:
		return SortNewest
	}
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Comment, error)
	FindThread(ctx context.Context, articleID uuid.UUID, viewerID *uuid.UUID, sort CommentSort) ([]*domain.Comment, error)
	FindForModeration(ctx context.Context, status *domain.CommentStatus, offset, limit int) ([]*domain.Comment, int64, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	UpdateMany(ctx context.Context, ids []uuid.UUID, fields map[string]interface{}) (int64, error)
	IncrementReportCount(ctx context.Context, id uuid.UUID) error
	AdjustLikeCount(ctx context.Context, id uuid.UUID, delta int) error
	CountByStatus(ctx context.Context) (map[domain.CommentStatus]int64, error)
}

type commentRepositoryImpl struct {
	db *gorm.DB
}

// NewCommentRepository creates a new instance of CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepositoryImpl{db: db}
}

func (r *commentRepositoryImpl) Create(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}

// FindByID returns gorm.ErrRecordNotFound when the comment does not exist
func (r *commentRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var comment domain.Comment
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("id = ?", id).
		First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepositoryImpl) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Comment, error) {
	if len(ids) == 0 {
		return []*domain.Comment{}, nil
	}

	var comments []*domain.Comment
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// FindThread loads the comments of an article a viewer may see: every public
// comment plus the viewer's own pending and flagged ones. Deleted comments are
// never returned.
func (r *commentRepositoryImpl) FindThread(ctx context.Context, articleID uuid.UUID, viewerID *uuid.UUID, sort CommentSort) ([]*domain.Comment, error) {
	visible := r.db.Where("status IN ?", domain.PublicCommentStatuses)
	if viewerID != nil {
		visible = visible.Or("author_id = ? AND status IN ?", *viewerID,
			[]domain.CommentStatus{domain.CommentStatusPending, domain.CommentStatusFlagged})
	}

	query := r.db.WithContext(ctx).
		Preload("Author").
		Where("article_id = ? AND is_deleted = ?", articleID, false).
		Where(visible)

	switch sort {
	case SortOldest:
		query = query.Order("created_at ASC")
	case SortTop:
		query = query.Order("like_count DESC").Order("created_at ASC")
	default:
		query = query.Order("created_at DESC")
	}

	var comments []*domain.Comment
	if err := query.Order("id ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// FindForModeration pages through comments oldest first, optionally filtered by
// status. Without a filter deleted comments are left out.
func (r *commentRepositoryImpl) FindForModeration(ctx context.Context, status *domain.CommentStatus, offset, limit int) ([]*domain.Comment, int64, error) {
	filtered := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&domain.Comment{})
		if status != nil {
			return query.Where("status = ?", *status)
		}
		return query.Where("status <> ?", domain.CommentStatusDeleted)
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []*domain.Comment
	if err := filtered().
		Preload("Author").
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error; err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (r *commentRepositoryImpl) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateMany applies fields to every listed comment in one statement
func (r *commentRepositoryImpl) UpdateMany(ctx context.Context, ids []uuid.UUID, fields map[string]interface{}) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("id IN ?", ids).
		Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *commentRepositoryImpl) IncrementReportCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("id = ?", id).
		UpdateColumn("report_count", gorm.Expr("report_count + ?", 1)).Error
}

// AdjustLikeCount adds delta to like_count without letting it drop below zero
func (r *commentRepositoryImpl) AdjustLikeCount(ctx context.Context, id uuid.UUID, delta int) error {
	query := r.db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("id = ?", id)
	if delta < 0 {
		query = query.Where("like_count >= ?", -delta)
	}
	return query.UpdateColumn("like_count", gorm.Expr("like_count + ?", delta)).Error
}

func (r *commentRepositoryImpl) CountByStatus(ctx context.Context) (map[domain.CommentStatus]int64, error) {
	var rows []struct {
		Status domain.CommentStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&domain.Comment{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[domain.CommentStatus]int64, len(domain.AllCommentStatuses))
	for _, s := range domain.AllCommentStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
