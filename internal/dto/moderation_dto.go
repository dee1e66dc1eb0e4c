package dto

import (
	"time"

	"github.com/google/uuid"
)

// ModerateRequest represents a moderation action on one or more comments
// @Description action is one of approve, reject, flag, unflag, hide, delete, restore
type ModerateRequest struct {
	CommentIDs []uuid.UUID `json:"commentIds" binding:"required,min=1,max=100"`
	Action     string      `json:"action" binding:"required" example:"approve"`
	Reason     string      `json:"reason,omitempty" binding:"max=500" example:"Off-topic"`
}

// ModerateResponse reports how many comments an action changed
type ModerateResponse struct {
	Action     string      `json:"action"`
	Status     string      `json:"status"`
	Updated    int64       `json:"updated"`
	CommentIDs []uuid.UUID `json:"commentIds"`
}

// ModerationQueueQuery is the query string of GET /admin/comments
type ModerationQueueQuery struct {
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// AdminCommentResponse is a comment with the fields only moderators see
type AdminCommentResponse struct {
	CommentResponse
	IsDeleted        bool   `json:"isDeleted"`
	ReportCount      int    `json:"reportCount"`
	ModerationReason string `json:"moderationReason,omitempty"`
}

// ModerationQueueResponse is one page of the moderation queue
type ModerationQueueResponse struct {
	Comments []AdminCommentResponse `json:"comments"`
	Total    int64                  `json:"total"`
	Page     int                    `json:"page"`
	Limit    int                    `json:"limit"`
}

// ModerationLogResponse is one entry of a comment's moderation history
// @Description moderatorId is omitted for actions taken by the system (auto-flag)
type ModerationLogResponse struct {
	ID             uuid.UUID  `json:"id"`
	CommentID      uuid.UUID  `json:"commentId"`
	ModeratorID    *uuid.UUID `json:"moderatorId,omitempty"`
	Action         string     `json:"action"`
	Reason         string     `json:"reason,omitempty"`
	PreviousStatus string     `json:"previousStatus,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// ModerationStatsResponse summarises the moderation workload
type ModerationStatsResponse struct {
	ByStatus       map[string]int64 `json:"byStatus"`
	Total          int64            `json:"total"`
	PendingReports int64            `json:"pendingReports"`
}
