package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tinkbyte-api/internal/domain"
)

// ModerationRepository appends to and reads the moderation log. Entries are never updated.
type ModerationRepository interface {
	Create(ctx context.Context, entry *domain.CommentModeration) error
	CreateBatch(ctx context.Context, entries []*domain.CommentModeration) error
	FindByCommentID(ctx context.Context, commentID uuid.UUID) ([]*domain.CommentModeration, error)
}

type moderationRepositoryImpl struct {
	db *gorm.DB
}

// NewModerationRepository creates a new instance of ModerationRepository
func NewModerationRepository(db *gorm.DB) ModerationRepository {
	return &moderationRepositoryImpl{db: db}
}

func (r *moderationRepositoryImpl) Create(ctx context.Context, entry *domain.CommentModeration) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *moderationRepositoryImpl) CreateBatch(ctx context.Context, entries []*domain.CommentModeration) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

// FindByCommentID returns the history of a comment, oldest first
func (r *moderationRepositoryImpl) FindByCommentID(ctx context.Context, commentID uuid.UUID) ([]*domain.CommentModeration, error) {
	var entries []*domain.CommentModeration
	if err := r.db.WithContext(ctx).
		Where("comment_id = ?", commentID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
