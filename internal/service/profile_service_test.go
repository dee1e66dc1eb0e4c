package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tinkbyte-api/internal/cache"
	"tinkbyte-api/internal/client"
	"tinkbyte-api/internal/domain"
	"tinkbyte-api/internal/dto"
	"tinkbyte-api/internal/repository"
	"tinkbyte-api/internal/response"
	"tinkbyte-api/internal/testutil"
)

func TestProfileService_GetOrCreate_UsesCache(t *testing.T) {
	userID := uuid.New()
	reads := 0
	repo := &MockProfileRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
			reads++
			return &domain.Profile{ID: id, DisplayName: "cached"}, nil
		},
	}
	svc := NewProfileService(repo, testCache(t), client.NewMockS3Client(), zap.NewNop())

	for i := 0; i < 3; i++ {
		resp, err := svc.GetOrCreate(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, "cached", resp.DisplayName)
	}
	assert.Equal(t, 1, reads)
}

func TestProfileService_UpdateFlags_InvalidatesCache(t *testing.T) {
	db := testutil.NewDB(t)
	profileCache := testCache(t)
	repo := repository.NewProfileRepository(db)
	svc := NewProfileService(repo, profileCache, client.NewMockS3Client(), zap.NewNop())
	identity := NewIdentityService(repo, profileCache, zap.NewNop())
	ctx := context.Background()

	user := testutil.CreateProfile(t, db, func(p *domain.Profile) { p.Reputation = 3 })

	_, err := identity.ResolveAdmin(ctx, user.ID)
	requireAppError(t, err, response.ErrCodeForbidden)
	_, err = profileCache.Get(ctx, user.ID)
	require.NoError(t, err, "lookup fills the cache")

	promote := true
	delta := -10
	resp, err := svc.UpdateFlags(ctx, user.ID, &dto.UpdateUserFlagsRequest{IsAdmin: &promote, ReputationDelta: &delta})
	require.NoError(t, err)
	assert.True(t, resp.IsAdmin)
	assert.Equal(t, 0, resp.Reputation, "reputation does not go below zero")

	_, err = profileCache.Get(ctx, user.ID)
	assert.True(t, errors.Is(err, cache.ErrMiss), "mutation invalidates the entry")

	admin, err := identity.ResolveAdmin(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, admin.UserID)

	_, err = svc.UpdateFlags(ctx, uuid.New(), &dto.UpdateUserFlagsRequest{IsAdmin: &promote})
	requireAppError(t, err, response.ErrCodeNotFound)
}

func TestProfileService_UpdateMe(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewProfileService(repository.NewProfileRepository(db), testCache(t), client.NewMockS3Client(), zap.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	name := "  <script>x</script>Jamie "
	avatar := "https://cdn.example.com/a.png"
	resp, err := svc.UpdateMe(ctx, userID, &dto.UpdateProfileRequest{DisplayName: &name, AvatarURL: &avatar})
	require.NoError(t, err)
	assert.Equal(t, "Jamie", resp.DisplayName)
	assert.Equal(t, avatar, resp.AvatarURL)

	empty := "<b></b>"
	_, err = svc.UpdateMe(ctx, userID, &dto.UpdateProfileRequest{DisplayName: &empty})
	requireAppError(t, err, response.ErrCodeValidation)
}

func TestProfileService_AvatarUploadURL(t *testing.T) {
	userID := uuid.New()
	svc := NewProfileService(&MockProfileRepository{}, testCache(t), client.NewMockS3Client(), zap.NewNop())

	resp, err := svc.AvatarUploadURL(context.Background(), userID, &dto.AvatarUploadURLRequest{
		FileName:    "me.png",
		ContentType: "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, 300, resp.ExpiresIn)
	assert.True(t, strings.HasPrefix(resp.FileKey, "avatars/"+userID.String()+"/"))
	assert.True(t, strings.HasSuffix(resp.FileURL, resp.FileKey))
	assert.NotEmpty(t, resp.UploadURL)

	failing := client.NewMockS3Client()
	failing.GeneratePresignedURLFunc = func(ctx context.Context, id uuid.UUID, fileName, contentType string) (string, string, error) {
		return "", "", errors.New("credentials expired")
	}
	svc = NewProfileService(&MockProfileRepository{}, testCache(t), failing, zap.NewNop())
	_, err = svc.AvatarUploadURL(context.Background(), userID, &dto.AvatarUploadURLRequest{FileName: "a.png", ContentType: "image/png"})
	requireAppError(t, err, response.ErrCodeInternal)
}

func TestIdentityService_ResolveAdmin(t *testing.T) {
	adminID := uuid.New()
	readerID := uuid.New()
	blockedID := uuid.New()

	profiles := map[uuid.UUID]*domain.Profile{
		adminID:   {ID: adminID, DisplayName: "admin", IsAdmin: true},
		readerID:  {ID: readerID},
		blockedID: {ID: blockedID, IsAdmin: true, IsBlocked: true},
	}
	repo := &MockProfileRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
			if p, ok := profiles[id]; ok {
				return p, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewIdentityService(repo, testCache(t), zap.NewNop())

	tests := []struct {
		name     string
		userID   uuid.UUID
		wantCode string
	}{
		{"admin", adminID, ""},
		{"anonymous", uuid.Nil, response.ErrCodeUnauthorized},
		{"no profile", uuid.New(), response.ErrCodeForbidden},
		{"not an admin", readerID, response.ErrCodeForbidden},
		{"blocked admin", blockedID, response.ErrCodeForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := svc.ResolveAdmin(context.Background(), tt.userID)
			if tt.wantCode != "" {
				requireAppError(t, err, tt.wantCode)
				assert.Nil(t, identity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, adminID, identity.UserID)
			assert.Equal(t, "admin", identity.DisplayName)
		})
	}
}
