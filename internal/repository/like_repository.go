package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tinkbyte-api/internal/domain"
)

// LikeRepository defines the interface for comment like data access
type LikeRepository interface {
	// Create reports false when the user already liked the comment
	Create(ctx context.Context, like *domain.CommentLike) (bool, error)
	// Delete reports false when there was no like to remove
	Delete(ctx context.Context, commentID, userID uuid.UUID) (bool, error)
	FindLikedCommentIDs(ctx context.Context, userID uuid.UUID, commentIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type likeRepositoryImpl struct {
	db *gorm.DB
}

// NewLikeRepository creates a new instance of LikeRepository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepositoryImpl{db: db}
}

func (r *likeRepositoryImpl) Create(ctx context.Context, like *domain.CommentLike) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "comment_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(like)
	return result.RowsAffected > 0, result.Error
}

func (r *likeRepositoryImpl) Delete(ctx context.Context, commentID, userID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Delete(&domain.CommentLike{})
	return result.RowsAffected > 0, result.Error
}

func (r *likeRepositoryImpl) FindLikedCommentIDs(ctx context.Context, userID uuid.UUID, commentIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	liked := make(map[uuid.UUID]bool)
	if len(commentIDs) == 0 {
		return liked, nil
	}

	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&domain.CommentLike{}).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Pluck("comment_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}
