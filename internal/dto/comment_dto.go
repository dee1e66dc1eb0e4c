package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateCommentRequest represents the request to create a comment or reply
// @Description parentId is set for replies. guestName is required when the request carries no bearer token.
type CreateCommentRequest struct {
	ArticleID uuid.UUID  `json:"articleId" binding:"required" example:"539167fb-b599-41ba-9ead-344a6d0b3a2f"`
	ParentID  *uuid.UUID `json:"parentId,omitempty" example:"f47ac10b-58cc-4372-a567-0e02b2c3d479"`
	Content   string     `json:"content" binding:"required" example:"Great write-up, thanks!"`
	GuestName string     `json:"guestName,omitempty" binding:"max=80" example:"Jamie"`
}

// UpdateCommentRequest represents the request to edit a comment body
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required" example:"Edited: great write-up, thanks!"`
}

// ListCommentsQuery is the query string of GET /comments/list
type ListCommentsQuery struct {
	ArticleID string `form:"articleId" binding:"required"`
	Sort      string `form:"sort"`
}

// CommentAuthor is the public part of the author's profile
type CommentAuthor struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
}

// CommentResponse represents a comment and, in thread listings, its replies
type CommentResponse struct {
	CommentID     uuid.UUID         `json:"commentId"`
	ArticleID     uuid.UUID         `json:"articleId"`
	ParentID      *uuid.UUID        `json:"parentId,omitempty"`
	Author        *CommentAuthor    `json:"author,omitempty"`
	GuestName     string            `json:"guestName,omitempty"`
	Content       string            `json:"content"`
	ContentHTML   string            `json:"contentHtml"`
	Status        string            `json:"status" example:"approved"`
	Depth         int               `json:"depth"`
	LikeCount     int               `json:"likeCount"`
	LikedByViewer bool              `json:"likedByViewer"`
	IsEdited      bool              `json:"isEdited"`
	EditedAt      *time.Time        `json:"editedAt,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
	Replies       []CommentResponse `json:"replies"`
}

// CommentThreadResponse is the nested comment list of one article
type CommentThreadResponse struct {
	ArticleID uuid.UUID         `json:"articleId"`
	Sort      string            `json:"sort" example:"newest"`
	Total     int               `json:"total"`
	Comments  []CommentResponse `json:"comments"`
}

// LikeResponse reports the like state after a like or unlike
type LikeResponse struct {
	CommentID uuid.UUID `json:"commentId"`
	Liked     bool      `json:"liked"`
	LikeCount int       `json:"likeCount"`
}
