package dto

import (
	"time"

	"github.com/google/uuid"
)

// ProfileResponse represents a user profile
type ProfileResponse struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	IsAdmin     bool      `json:"isAdmin"`
	IsBlocked   bool      `json:"isBlocked"`
	Reputation  int       `json:"reputation"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UpdateProfileRequest represents a user's edit of their own profile. All fields are optional.
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName,omitempty" binding:"omitempty,min=1,max=80" example:"Jamie"`
	AvatarURL   *string `json:"avatarUrl,omitempty" binding:"omitempty,max=500"`
}

// AvatarUploadURLRequest asks for a presigned avatar upload URL
type AvatarUploadURLRequest struct {
	FileName    string `json:"fileName" binding:"required,max=255" example:"me.png"`
	ContentType string `json:"contentType" binding:"required,oneof=image/png image/jpeg image/webp image/gif" example:"image/png"`
}

// AvatarUploadURLResponse carries the presigned PUT URL and the URL the avatar
// will be served from once uploaded
type AvatarUploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileKey   string `json:"fileKey"`
	FileURL   string `json:"fileUrl"`
	ExpiresIn int    `json:"expiresIn" example:"300"`
}

// UpdateUserFlagsRequest is an admin change to another user's profile
type UpdateUserFlagsRequest struct {
	IsAdmin         *bool `json:"isAdmin,omitempty"`
	IsBlocked       *bool `json:"isBlocked,omitempty"`
	ReputationDelta *int  `json:"reputationDelta,omitempty"`
}
