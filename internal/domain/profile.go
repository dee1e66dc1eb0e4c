package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the public profile of an auth user. ID equals the auth user id.
type Profile struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DisplayName string    `gorm:"type:varchar(80)" json:"displayName"`
	AvatarURL   string    `gorm:"type:text" json:"avatarUrl,omitempty"`
	IsAdmin     bool      `gorm:"not null;default:false" json:"isAdmin"`
	IsBlocked   bool      `gorm:"not null;default:false" json:"isBlocked"`
	Reputation  int       `gorm:"not null;default:0" json:"reputation"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null" json:"updatedAt"`
}

// TableName specifies the table name for Profile
func (Profile) TableName() string {
	return "profiles"
}
