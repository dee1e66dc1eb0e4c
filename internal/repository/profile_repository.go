package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tinkbyte-api/internal/domain"
)

// ProfileRepository defines the interface for profile data access
type ProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Profile, error)
	// CreateIfAbsent inserts profile unless a row with its id exists, then returns the stored row
	CreateIfAbsent(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
}

type profileRepositoryImpl struct {
	db *gorm.DB
}

// NewProfileRepository creates a new instance of ProfileRepository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepositoryImpl{db: db}
}

func (r *profileRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	var profile domain.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepositoryImpl) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Profile, error) {
	if len(ids) == 0 {
		return []*domain.Profile{}, nil
	}
	var profiles []*domain.Profile
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *profileRepositoryImpl) CreateIfAbsent(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(profile).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, profile.ID)
}

// ReputationDelta is an UpdateFields value that adds delta to reputation in the
// database, flooring the result at zero
func ReputationDelta(delta int) clause.Expr {
	return gorm.Expr("CASE WHEN reputation + ? < 0 THEN 0 ELSE reputation + ? END", delta, delta)
}

func (r *profileRepositoryImpl) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Profile{}).
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
