package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentModeration is one entry of the append-only moderation log.
// A nil ModeratorID means the system acted (auto-flag).
type CommentModeration struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CommentID      uuid.UUID     `gorm:"type:uuid;not null;index:idx_comment_moderation_comment_id" json:"commentId"`
	ModeratorID    *uuid.UUID    `gorm:"type:uuid;index" json:"moderatorId"`
	Action         string        `gorm:"type:varchar(20);not null" json:"action"`
	Reason         string        `gorm:"type:text" json:"reason,omitempty"`
	PreviousStatus CommentStatus `gorm:"type:varchar(20)" json:"previousStatus,omitempty"`
	CreatedAt      time.Time     `gorm:"not null" json:"createdAt"`
}

// TableName specifies the table name for CommentModeration
func (CommentModeration) TableName() string {
	return "comment_moderation"
}

func (m *CommentModeration) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ReportStatus is the review state of a user report
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusReviewed  ReportStatus = "reviewed"
	ReportStatusDismissed ReportStatus = "dismissed"
)

// CommentReport is a user's report against a comment. One per (comment, reporter).
type CommentReport struct {
	BaseModel
	CommentID  uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_comment_reports_comment_reporter" json:"commentId"`
	ReporterID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_comment_reports_comment_reporter" json:"reporterId"`
	Reason     string       `gorm:"type:varchar(50);not null" json:"reason"`
	Details    string       `gorm:"type:text" json:"details,omitempty"`
	Status     ReportStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
}

// TableName specifies the table name for CommentReport
func (CommentReport) TableName() string {
	return "comment_reports"
}
