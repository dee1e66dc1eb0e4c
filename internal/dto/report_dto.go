package dto

import (
	"time"

	"github.com/google/uuid"
)

// ReportCommentRequest represents a user report against a comment
type ReportCommentRequest struct {
	CommentID uuid.UUID `json:"commentId" binding:"required"`
	Reason    string    `json:"reason" binding:"required,oneof=spam harassment hate_speech misinformation off_topic other" example:"spam"`
	Details   string    `json:"details,omitempty" binding:"max=1000"`
}

// ReportResponse represents a stored report
type ReportResponse struct {
	ReportID   uuid.UUID `json:"reportId"`
	CommentID  uuid.UUID `json:"commentId"`
	ReporterID uuid.UUID `json:"reporterId"`
	Reason     string    `json:"reason"`
	Details    string    `json:"details,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ReportCommentResponse is returned after filing a report
type ReportCommentResponse struct {
	Report      ReportResponse `json:"report"`
	ReportCount int64          `json:"reportCount"`
	AutoFlagged bool           `json:"autoFlagged"`
}

// ResolveReportsRequest closes every open report on a comment
type ResolveReportsRequest struct {
	Status string `json:"status" binding:"required,oneof=reviewed dismissed" example:"dismissed"`
}

// ResolveReportsResponse reports how many reports were closed
type ResolveReportsResponse struct {
	CommentID uuid.UUID `json:"commentId"`
	Status    string    `json:"status"`
	Updated   int64     `json:"updated"`
}
