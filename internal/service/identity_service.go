package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tinkbyte-api/internal/cache"
	"tinkbyte-api/internal/repository"
	"tinkbyte-api/internal/response"
)

// AdminIdentity is a caller verified to hold the admin flag
type AdminIdentity struct {
	UserID      uuid.UUID
	DisplayName string
}

// IdentityService resolves who a caller is beyond their token
type IdentityService interface {
	// ResolveAdmin returns an UNAUTHORIZED AppError for an anonymous caller and
	// FORBIDDEN when the caller has no profile, is not an admin or is blocked.
	ResolveAdmin(ctx context.Context, userID uuid.UUID) (*AdminIdentity, error)
}

type identityServiceImpl struct {
	profiles *profileLookup
	logger   *zap.Logger
}

// NewIdentityService creates a new instance of IdentityService
func NewIdentityService(profileRepo repository.ProfileRepository, profileCache cache.ProfileCache, logger *zap.Logger) IdentityService {
	return &identityServiceImpl{
		profiles: newProfileLookup(profileRepo, profileCache, logger),
		logger:   logger,
	}
}

func (s *identityServiceImpl) ResolveAdmin(ctx context.Context, userID uuid.UUID) (*AdminIdentity, error) {
	if userID == uuid.Nil {
		return nil, response.NewUnauthorizedError("Authentication required")
	}

	profile, err := s.profiles.find(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewForbiddenError("Admin access required", "no profile")
		}
		return nil, response.NewInternalError("Failed to load profile", err)
	}

	if !profile.IsAdmin {
		return nil, response.NewForbiddenError("Admin access required", "not an admin")
	}
	if profile.IsBlocked {
		return nil, response.NewForbiddenError("Admin access required", "account blocked")
	}

	return &AdminIdentity{UserID: profile.ID, DisplayName: profile.DisplayName}, nil
}
