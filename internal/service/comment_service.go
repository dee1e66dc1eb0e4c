package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tinkbyte-api/internal/cache"
	"tinkbyte-api/internal/config"
	"tinkbyte-api/internal/content"
	"tinkbyte-api/internal/domain"
	"tinkbyte-api/internal/dto"
	"tinkbyte-api/internal/metrics"
	"tinkbyte-api/internal/repository"
	"tinkbyte-api/internal/response"
	"tinkbyte-api/internal/thread"
)

// CommentService defines the interface for comment business logic.
// A nil actor or viewer id is an anonymous (guest) caller.
type CommentService interface {
	CreateComment(ctx context.Context, actorID *uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	ListComments(ctx context.Context, viewerID *uuid.UUID, articleID uuid.UUID, sort string) (*dto.CommentThreadResponse, error)
	GetComment(ctx context.Context, viewerID *uuid.UUID, commentID uuid.UUID) (*dto.CommentResponse, error)
	UpdateComment(ctx context.Context, userID, commentID uuid.UUID, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error
	LikeComment(ctx context.Context, userID, commentID uuid.UUID) (*dto.LikeResponse, error)
	UnlikeComment(ctx context.Context, userID, commentID uuid.UUID) (*dto.LikeResponse, error)
}

// commentServiceImpl is the implementation of CommentService
type commentServiceImpl struct {
	commentRepo repository.CommentRepository
	articleRepo repository.ArticleRepository
	likeRepo    repository.LikeRepository
	profiles    *profileLookup
	policy      config.ModerationConfig
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewCommentService creates a new instance of CommentService
func NewCommentService(
	commentRepo repository.CommentRepository,
	articleRepo repository.ArticleRepository,
	likeRepo repository.LikeRepository,
	profileRepo repository.ProfileRepository,
	profileCache cache.ProfileCache,
	policy config.ModerationConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) CommentService {
	return &commentServiceImpl{
		commentRepo: commentRepo,
		articleRepo: articleRepo,
		likeRepo:    likeRepo,
		profiles:    newProfileLookup(profileRepo, profileCache, logger),
		policy:      policy,
		metrics:     m,
		logger:      logger,
	}
}

// CreateComment stores a new comment or reply. Trusted authors are published
// right away, everyone else waits in the moderation queue.
func (s *commentServiceImpl) CreateComment(ctx context.Context, actorID *uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	body, err := s.validateContent(req.Content)
	if err != nil {
		return nil, err
	}

	article, err := s.articleRepo.FindByID(ctx, req.ArticleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Article not found", "")
		}
		return nil, response.NewInternalError("Failed to verify article", err)
	}
	if !article.CommentsEnabled {
		return nil, response.NewForbiddenError("Comments are closed for this article", "")
	}

	comment := &domain.Comment{
		ArticleID: req.ArticleID,
		Content:   body,
		Status:    domain.CommentStatusPending,
	}

	if actorID != nil {
		profile, err := s.profiles.findOrCreate(ctx, *actorID)
		if err != nil {
			return nil, response.NewInternalError("Failed to load profile", err)
		}
		if profile.IsBlocked {
			return nil, response.NewForbiddenError("You are not allowed to comment", "blocked")
		}
		if profile.IsAdmin || profile.Reputation >= s.policy.AutoApproveReputation {
			comment.Status = domain.CommentStatusAutoApproved
		}
		comment.AuthorID = actorID
		comment.Author = profile
	} else {
		guestName := content.Sanitize(req.GuestName)
		if guestName == "" {
			return nil, response.NewValidationError("guestName is required for guest comments", "")
		}
		comment.GuestName = guestName
	}

	if req.ParentID != nil {
		parent, err := s.commentRepo.FindByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewNotFoundError("Parent comment not found", "")
			}
			return nil, response.NewInternalError("Failed to load parent comment", err)
		}
		if parent.ArticleID != req.ArticleID {
			return nil, response.NewValidationError("Parent comment belongs to another article", "")
		}
		if parent.IsDeleted {
			return nil, response.NewValidationError("Cannot reply to a deleted comment", "")
		}
		if parent.Depth+1 > s.policy.MaxDepth {
			return nil, response.NewValidationError("maximum reply depth reached", "")
		}
		comment.ParentID = req.ParentID
		comment.Depth = parent.Depth + 1
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, response.NewInternalError("Failed to create comment", err)
	}

	s.metrics.IncrementCommentCreated(string(comment.Status))
	s.logger.Info("Comment created",
		zap.String("comment_id", comment.ID.String()),
		zap.String("article_id", comment.ArticleID.String()),
		zap.String("status", string(comment.Status)),
		zap.Bool("guest", comment.IsGuest()),
	)

	resp := toCommentResponse(comment, false)
	return &resp, nil
}

// ListComments returns the nested thread of an article as the viewer may see it
func (s *commentServiceImpl) ListComments(ctx context.Context, viewerID *uuid.UUID, articleID uuid.UUID, sort string) (*dto.CommentThreadResponse, error) {
	if _, err := s.articleRepo.FindByID(ctx, articleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Article not found", "")
		}
		return nil, response.NewInternalError("Failed to verify article", err)
	}

	order := repository.ParseCommentSort(sort)
	comments, err := s.commentRepo.FindThread(ctx, articleID, viewerID, order)
	if err != nil {
		return nil, response.NewInternalError("Failed to load comments", err)
	}

	liked := map[uuid.UUID]bool{}
	if viewerID != nil && len(comments) > 0 {
		ids := make([]uuid.UUID, 0, len(comments))
		for _, c := range comments {
			ids = append(ids, c.ID)
		}
		liked, err = s.likeRepo.FindLikedCommentIDs(ctx, *viewerID, ids)
		if err != nil {
			return nil, response.NewInternalError("Failed to load likes", err)
		}
	}

	roots := thread.Build(comments, s.policy.MaxDepth)
	return &dto.CommentThreadResponse{
		ArticleID: articleID,
		Sort:      string(order),
		Total:     len(comments),
		Comments:  toThreadResponses(roots, liked),
	}, nil
}

// GetComment returns a single comment. Comments outside the public statuses are
// only visible to their author.
func (s *commentServiceImpl) GetComment(ctx context.Context, viewerID *uuid.UUID, commentID uuid.UUID) (*dto.CommentResponse, error) {
	comment, err := s.findVisible(ctx, viewerID, commentID)
	if err != nil {
		return nil, err
	}

	liked := false
	if viewerID != nil {
		likes, err := s.likeRepo.FindLikedCommentIDs(ctx, *viewerID, []uuid.UUID{comment.ID})
		if err != nil {
			return nil, response.NewInternalError("Failed to load likes", err)
		}
		liked = likes[comment.ID]
	}

	resp := toCommentResponse(comment, liked)
	return &resp, nil
}

// UpdateComment edits the body of the caller's own comment
func (s *commentServiceImpl) UpdateComment(ctx context.Context, userID, commentID uuid.UUID, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	comment, err := s.findOwned(ctx, userID, commentID)
	if err != nil {
		return nil, err
	}

	body, err := s.validateContent(req.Content)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.commentRepo.UpdateFields(ctx, commentID, map[string]interface{}{
		"content":   body,
		"edited_at": now,
	}); err != nil {
		return nil, response.NewInternalError("Failed to update comment", err)
	}

	comment.Content = body
	comment.EditedAt = &now
	comment.UpdatedAt = now

	resp := toCommentResponse(comment, false)
	return &resp, nil
}

// DeleteComment soft deletes the caller's own comment
func (s *commentServiceImpl) DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error {
	if _, err := s.findOwned(ctx, userID, commentID); err != nil {
		return err
	}

	if err := s.commentRepo.UpdateFields(ctx, commentID, map[string]interface{}{
		"status":     domain.CommentStatusDeleted,
		"is_deleted": true,
	}); err != nil {
		return response.NewInternalError("Failed to delete comment", err)
	}

	s.logger.Info("Comment deleted by author",
		zap.String("comment_id", commentID.String()),
		zap.String("user_id", userID.String()),
	)
	return nil
}

// LikeComment records a like. Liking twice is a no-op.
func (s *commentServiceImpl) LikeComment(ctx context.Context, userID, commentID uuid.UUID) (*dto.LikeResponse, error) {
	comment, err := s.findVisible(ctx, &userID, commentID)
	if err != nil {
		return nil, err
	}

	created, err := s.likeRepo.Create(ctx, &domain.CommentLike{CommentID: commentID, UserID: userID})
	if err != nil {
		return nil, response.NewInternalError("Failed to like comment", err)
	}

	count := comment.LikeCount
	if created {
		if err := s.commentRepo.AdjustLikeCount(ctx, commentID, 1); err != nil {
			return nil, response.NewInternalError("Failed to update like count", err)
		}
		count++
	}

	return &dto.LikeResponse{CommentID: commentID, Liked: true, LikeCount: count}, nil
}

// UnlikeComment removes a like. Unliking a comment that was not liked is a no-op.
func (s *commentServiceImpl) UnlikeComment(ctx context.Context, userID, commentID uuid.UUID) (*dto.LikeResponse, error) {
	comment, err := s.findVisible(ctx, &userID, commentID)
	if err != nil {
		return nil, err
	}

	deleted, err := s.likeRepo.Delete(ctx, commentID, userID)
	if err != nil {
		return nil, response.NewInternalError("Failed to unlike comment", err)
	}

	count := comment.LikeCount
	if deleted {
		if err := s.commentRepo.AdjustLikeCount(ctx, commentID, -1); err != nil {
			return nil, response.NewInternalError("Failed to update like count", err)
		}
		if count > 0 {
			count--
		}
	}

	return &dto.LikeResponse{CommentID: commentID, Liked: false, LikeCount: count}, nil
}

func (s *commentServiceImpl) validateContent(raw string) (string, error) {
	body := strings.TrimSpace(raw)
	if body == "" {
		return "", response.NewValidationError("Comment content cannot be empty", "")
	}
	if utf8.RuneCountInString(body) > s.policy.MaxContentLength {
		return "", response.NewValidationError("Comment content is too long", "")
	}
	return body, nil
}

func (s *commentServiceImpl) findVisible(ctx context.Context, viewerID *uuid.UUID, commentID uuid.UUID) (*domain.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Comment not found", "")
		}
		return nil, response.NewInternalError("Failed to load comment", err)
	}

	if comment.IsDeleted {
		return nil, response.NewNotFoundError("Comment not found", "")
	}
	if !comment.Status.IsPublic() && (viewerID == nil || !comment.IsOwnedBy(*viewerID)) {
		return nil, response.NewNotFoundError("Comment not found", "")
	}
	return comment, nil
}

func (s *commentServiceImpl) findOwned(ctx context.Context, userID, commentID uuid.UUID) (*domain.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Comment not found", "")
		}
		return nil, response.NewInternalError("Failed to load comment", err)
	}
	if comment.IsDeleted {
		return nil, response.NewNotFoundError("Comment not found", "")
	}
	if !comment.IsOwnedBy(userID) {
		return nil, response.NewForbiddenError("You can only change your own comments", "")
	}
	return comment, nil
}

func toCommentResponse(c *domain.Comment, liked bool) dto.CommentResponse {
	resp := dto.CommentResponse{
		CommentID:     c.ID,
		ArticleID:     c.ArticleID,
		ParentID:      c.ParentID,
		GuestName:     c.GuestName,
		Content:       c.Content,
		ContentHTML:   content.Render(c.Content),
		Status:        string(c.Status),
		Depth:         c.Depth,
		LikeCount:     c.LikeCount,
		LikedByViewer: liked,
		IsEdited:      c.EditedAt != nil,
		EditedAt:      c.EditedAt,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
		Replies:       []dto.CommentResponse{},
	}
	if c.Author != nil {
		resp.Author = &dto.CommentAuthor{
			ID:          c.Author.ID,
			DisplayName: c.Author.DisplayName,
			AvatarURL:   c.Author.AvatarURL,
		}
	}
	return resp
}

// toThreadResponses converts tree nodes, using the rendered depth of each node
func toThreadResponses(nodes []*thread.Node, liked map[uuid.UUID]bool) []dto.CommentResponse {
	out := make([]dto.CommentResponse, 0, len(nodes))
	for _, n := range nodes {
		resp := toCommentResponse(n.Comment, liked[n.Comment.ID])
		resp.Depth = n.Depth
		resp.Replies = toThreadResponses(n.Replies, liked)
		out = append(out, resp)
	}
	return out
}
