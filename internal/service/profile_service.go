package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tinkbyte-api/internal/cache"
	"tinkbyte-api/internal/client"
	"tinkbyte-api/internal/content"
	"tinkbyte-api/internal/domain"
	"tinkbyte-api/internal/dto"
	"tinkbyte-api/internal/repository"
	"tinkbyte-api/internal/response"
)

// ProfileService defines the interface for profile business logic
type ProfileService interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	AvatarUploadURL(ctx context.Context, userID uuid.UUID, req *dto.AvatarUploadURLRequest) (*dto.AvatarUploadURLResponse, error)
	UpdateFlags(ctx context.Context, userID uuid.UUID, req *dto.UpdateUserFlagsRequest) (*dto.ProfileResponse, error)
}

// profileServiceImpl is the implementation of ProfileService
type profileServiceImpl struct {
	profiles *profileLookup
	s3Client client.S3ClientInterface
	logger   *zap.Logger
}

// NewProfileService creates a new instance of ProfileService
func NewProfileService(
	profileRepo repository.ProfileRepository,
	profileCache cache.ProfileCache,
	s3Client client.S3ClientInterface,
	logger *zap.Logger,
) ProfileService {
	return &profileServiceImpl{
		profiles: newProfileLookup(profileRepo, profileCache, logger),
		s3Client: s3Client,
		logger:   logger,
	}
}

// GetOrCreate returns the caller's profile, creating a default one on first visit
func (s *profileServiceImpl) GetOrCreate(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	profile, err := s.profiles.findOrCreate(ctx, userID)
	if err != nil {
		return nil, response.NewInternalError("Failed to load profile", err)
	}
	return toProfileResponse(profile), nil
}

// UpdateMe edits the caller's display name and avatar
func (s *profileServiceImpl) UpdateMe(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	if _, err := s.profiles.findOrCreate(ctx, userID); err != nil {
		return nil, response.NewInternalError("Failed to load profile", err)
	}

	fields := make(map[string]interface{})
	if req.DisplayName != nil {
		name := content.Sanitize(*req.DisplayName)
		if name == "" {
			return nil, response.NewValidationError("Display name cannot be empty", "")
		}
		fields["display_name"] = name
	}
	if req.AvatarURL != nil {
		fields["avatar_url"] = *req.AvatarURL
	}

	return s.update(ctx, userID, fields)
}

// AvatarUploadURL returns a presigned PUT URL for a new avatar image
func (s *profileServiceImpl) AvatarUploadURL(ctx context.Context, userID uuid.UUID, req *dto.AvatarUploadURLRequest) (*dto.AvatarUploadURLResponse, error) {
	if s.s3Client == nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Avatar uploads are not configured", "")
	}

	uploadURL, fileKey, err := s.s3Client.GeneratePresignedURL(ctx, userID, req.FileName, req.ContentType)
	if err != nil {
		return nil, response.NewInternalError("Failed to generate upload URL", err)
	}

	return &dto.AvatarUploadURLResponse{
		UploadURL: uploadURL,
		FileKey:   fileKey,
		FileURL:   s.s3Client.GetFileURL(fileKey),
		ExpiresIn: int(client.PresignExpiry.Seconds()),
	}, nil
}

// UpdateFlags lets an admin promote, block or adjust the reputation of a user
func (s *profileServiceImpl) UpdateFlags(ctx context.Context, userID uuid.UUID, req *dto.UpdateUserFlagsRequest) (*dto.ProfileResponse, error) {
	if _, err := s.profiles.repo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Profile not found", "")
		}
		return nil, response.NewInternalError("Failed to load profile", err)
	}

	fields := make(map[string]interface{})
	if req.IsAdmin != nil {
		fields["is_admin"] = *req.IsAdmin
	}
	if req.IsBlocked != nil {
		fields["is_blocked"] = *req.IsBlocked
	}
	if req.ReputationDelta != nil {
		fields["reputation"] = repository.ReputationDelta(*req.ReputationDelta)
	}

	return s.update(ctx, userID, fields)
}

func (s *profileServiceImpl) update(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) (*dto.ProfileResponse, error) {
	if len(fields) > 0 {
		if err := s.profiles.repo.UpdateFields(ctx, userID, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewNotFoundError("Profile not found", "")
			}
			return nil, response.NewInternalError("Failed to update profile", err)
		}
		s.profiles.invalidate(ctx, userID)
	}

	profile, err := s.profiles.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, response.NewInternalError("Failed to load profile", err)
	}
	return toProfileResponse(profile), nil
}

// profileLookup reads profiles through the profile cache. Cache failures are
// logged and fall through to the database.
type profileLookup struct {
	repo   repository.ProfileRepository
	cache  cache.ProfileCache
	logger *zap.Logger
}

func newProfileLookup(repo repository.ProfileRepository, profileCache cache.ProfileCache, logger *zap.Logger) *profileLookup {
	return &profileLookup{repo: repo, cache: profileCache, logger: logger}
}

// find returns gorm.ErrRecordNotFound when the user has no profile
func (l *profileLookup) find(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	if l.cache != nil {
		entry, err := l.cache.Get(ctx, userID)
		if err == nil {
			profile := entry.Profile
			return &profile, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			l.logger.Warn("Profile cache read failed", zap.String("user_id", userID.String()), zap.Error(err))
		}
	}

	profile, err := l.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	l.store(ctx, profile)
	return profile, nil
}

func (l *profileLookup) findOrCreate(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	profile, err := l.find(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	profile, err = l.repo.CreateIfAbsent(ctx, &domain.Profile{
		ID:          userID,
		DisplayName: defaultDisplayName(userID),
	})
	if err != nil {
		return nil, err
	}
	l.logger.Info("Profile created", zap.String("user_id", userID.String()))
	l.store(ctx, profile)
	return profile, nil
}

func (l *profileLookup) store(ctx context.Context, profile *domain.Profile) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Set(ctx, profile); err != nil {
		l.logger.Warn("Profile cache write failed", zap.String("user_id", profile.ID.String()), zap.Error(err))
	}
}

func (l *profileLookup) invalidate(ctx context.Context, userID uuid.UUID) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Invalidate(ctx, userID); err != nil {
		l.logger.Warn("Profile cache invalidation failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func defaultDisplayName(userID uuid.UUID) string {
	return fmt.Sprintf("reader-%s", userID.String()[:8])
}

func toProfileResponse(p *domain.Profile) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
		IsAdmin:     p.IsAdmin,
		IsBlocked:   p.IsBlocked,
		Reputation:  p.Reputation,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
