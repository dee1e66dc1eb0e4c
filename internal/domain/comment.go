package domain

import (
	"time"

	"github.com/google/uuid"
)

// CommentStatus is the moderation state of a comment
type CommentStatus string

const (
	CommentStatusPending      CommentStatus = "pending"
	CommentStatusApproved     CommentStatus = "approved"
	CommentStatusAutoApproved CommentStatus = "auto_approved"
	CommentStatusFlagged      CommentStatus = "flagged"
	CommentStatusHidden       CommentStatus = "hidden"
	CommentStatusRejected     CommentStatus = "rejected"
	CommentStatusDeleted      CommentStatus = "deleted"
)

// AllCommentStatuses lists every status in display order
var AllCommentStatuses = []CommentStatus{
	CommentStatusPending,
	CommentStatusApproved,
	CommentStatusAutoApproved,
	CommentStatusFlagged,
	CommentStatusHidden,
	CommentStatusRejected,
	CommentStatusDeleted,
}

// PublicCommentStatuses are visible to every reader
var PublicCommentStatuses = []CommentStatus{
	CommentStatusApproved,
	CommentStatusAutoApproved,
}

// IsValid reports whether s is a known status
func (s CommentStatus) IsValid() bool {
	for _, status := range AllCommentStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsPublic reports whether comments in this status are shown to everyone
func (s CommentStatus) IsPublic() bool {
	return s == CommentStatusApproved || s == CommentStatusAutoApproved
}

// Comment is a reader comment on an article. Comments are never physically deleted.
type Comment struct {
	BaseModel
	ArticleID        uuid.UUID     `gorm:"type:uuid;not null;index:idx_comments_article_id" json:"articleId"`
	ParentID         *uuid.UUID    `gorm:"type:uuid;index:idx_comments_parent_id" json:"parentId"`
	AuthorID         *uuid.UUID    `gorm:"type:uuid;index:idx_comments_author_id" json:"authorId"`
	GuestName        string        `gorm:"type:varchar(80)" json:"guestName,omitempty"`
	Content          string        `gorm:"type:text;not null" json:"content"`
	Status           CommentStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_comments_status" json:"status"`
	Depth            int           `gorm:"not null;default:0" json:"depth"`
	IsDeleted        bool          `gorm:"not null;default:false" json:"isDeleted"`
	LikeCount        int           `gorm:"not null;default:0" json:"likeCount"`
	ReportCount      int           `gorm:"not null;default:0" json:"reportCount"`
	ModerationReason string        `gorm:"type:varchar(255)" json:"moderationReason,omitempty"`
	EditedAt         *time.Time    `json:"editedAt,omitempty"`

	Author *Profile `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}

// IsGuest reports whether the comment was written without an account
func (c *Comment) IsGuest() bool {
	return c.AuthorID == nil
}

// IsOwnedBy reports whether userID wrote the comment
func (c *Comment) IsOwnedBy(userID uuid.UUID) bool {
	return c.AuthorID != nil && *c.AuthorID == userID
}

// CommentLike records a user liking a comment
type CommentLike struct {
	BaseModel
	CommentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_comment_likes_comment_user" json:"commentId"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_comment_likes_comment_user" json:"userId"`
}

// TableName specifies the table name for CommentLike
func (CommentLike) TableName() string {
	return "comment_likes"
}
