package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationType represents the kind of notification queued for a user
type NotificationType string

const (
	NotificationCommentApproved NotificationType = "COMMENT_APPROVED"
)

// NotificationStatus is the delivery state of an outbox row
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// Notification is an outbox row delivered to the notification service by the dispatch job
type Notification struct {
	BaseModel
	UserID    uuid.UUID          `gorm:"type:uuid;not null;index:idx_notifications_user_id" json:"userId"`
	Type      NotificationType   `gorm:"type:varchar(40);not null" json:"type"`
	CommentID *uuid.UUID         `gorm:"type:uuid" json:"commentId,omitempty"`
	Payload   datatypes.JSON     `gorm:"type:jsonb" json:"payload"`
	Status    NotificationStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_notifications_status" json:"status"`
	Attempts  int                `gorm:"not null;default:0" json:"attempts"`
	SentAt    *time.Time         `json:"sentAt,omitempty"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
