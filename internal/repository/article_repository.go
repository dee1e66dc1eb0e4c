package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tinkbyte-api/internal/domain"
)

// ArticleRepository reads the CMS-owned articles table
type ArticleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Article, error)
}

type articleRepositoryImpl struct {
	db *gorm.DB
}

// NewArticleRepository creates a new instance of ArticleRepository
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepositoryImpl{db: db}
}

func (r *articleRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	var article domain.Article
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}
