package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tinkbyte-api/internal/content"
	"tinkbyte-api/internal/domain"
	"tinkbyte-api/internal/dto"
	"tinkbyte-api/internal/metrics"
	"tinkbyte-api/internal/moderation"
	"tinkbyte-api/internal/repository"
	"tinkbyte-api/internal/response"
)

const (
	defaultQueueLimit = 20
	maxQueueLimit     = 100
)

// ModerationService defines the interface for admin moderation
type ModerationService interface {
	Moderate(ctx context.Context, moderatorID uuid.UUID, req *dto.ModerateRequest) (*dto.ModerateResponse, error)
	Queue(ctx context.Context, query *dto.ModerationQueueQuery) (*dto.ModerationQueueResponse, error)
	History(ctx context.Context, commentID uuid.UUID) ([]dto.ModerationLogResponse, error)
	Stats(ctx context.Context) (*dto.ModerationStatsResponse, error)
}

type moderationServiceImpl struct {
	commentRepo      repository.CommentRepository
	moderationRepo   repository.ModerationRepository
	reportRepo       repository.ReportRepository
	notificationRepo repository.NotificationRepository
	metrics          *metrics.Metrics
	logger           *zap.Logger
}

// NewModerationService creates a new instance of ModerationService
func NewModerationService(
	commentRepo repository.CommentRepository,
	moderationRepo repository.ModerationRepository,
	reportRepo repository.ReportRepository,
	notificationRepo repository.NotificationRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) ModerationService {
	return &moderationServiceImpl{
		commentRepo:      commentRepo,
		moderationRepo:   moderationRepo,
		reportRepo:       reportRepo,
		notificationRepo: notificationRepo,
		metrics:          m,
		logger:           logger,
	}
}

// Moderate applies one action to a batch of comments in a single update, then
// appends the moderation log and, on approve, queues author notifications.
// Log and notification failures do not undo the update.
func (s *moderationServiceImpl) Moderate(ctx context.Context, moderatorID uuid.UUID, req *dto.ModerateRequest) (*dto.ModerateResponse, error) {
	update, err := moderation.Resolve(req.Action)
	if err != nil {
		return nil, response.NewValidationError("invalid moderation action", err.Error())
	}

	comments, err := s.commentRepo.FindByIDs(ctx, uniqueIDs(req.CommentIDs))
	if err != nil {
		return nil, response.NewInternalError("Failed to load comments", err)
	}
	if len(comments) == 0 {
		return nil, response.NewNotFoundError("Comments not found", "")
	}

	ids := make([]uuid.UUID, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}

	reason := content.Sanitize(req.Reason)
	updated, err := s.commentRepo.UpdateMany(ctx, ids, update.Columns(reason))
	if err != nil {
		return nil, response.NewInternalError("Failed to moderate comments", err)
	}
	s.metrics.AddModerationActions(string(update.Action), int(updated))

	entries := make([]*domain.CommentModeration, 0, len(comments))
	for _, c := range comments {
		entries = append(entries, &domain.CommentModeration{
			CommentID:      c.ID,
			ModeratorID:    &moderatorID,
			Action:         string(update.Action),
			Reason:         reason,
			PreviousStatus: c.Status,
		})
	}
	if err := s.moderationRepo.CreateBatch(ctx, entries); err != nil {
		s.logger.Error("Failed to write moderation log",
			zap.String("action", string(update.Action)),
			zap.Int("comments", len(entries)),
			zap.Error(err),
		)
	}

	if update.NotifiesAuthor() {
		s.enqueueApprovalNotifications(ctx, comments)
	}

	s.logger.Info("Comments moderated",
		zap.String("moderator_id", moderatorID.String()),
		zap.String("action", string(update.Action)),
		zap.Int64("updated", updated),
	)

	return &dto.ModerateResponse{
		Action:     string(update.Action),
		Status:     string(update.Status),
		Updated:    updated,
		CommentIDs: ids,
	}, nil
}

// enqueueApprovalNotifications queues one notification per approved comment with a registered author
func (s *moderationServiceImpl) enqueueApprovalNotifications(ctx context.Context, comments []*domain.Comment) {
	var notifications []*domain.Notification
	for _, c := range comments {
		if c.AuthorID == nil {
			continue
		}

		payload, err := json.Marshal(map[string]string{
			"commentId": c.ID.String(),
			"articleId": c.ArticleID.String(),
		})
		if err != nil {
			s.logger.Warn("Failed to encode notification payload", zap.String("comment_id", c.ID.String()), zap.Error(err))
			continue
		}

		commentID := c.ID
		notifications = append(notifications, &domain.Notification{
			UserID:    *c.AuthorID,
			Type:      domain.NotificationCommentApproved,
			CommentID: &commentID,
			Payload:   datatypes.JSON(payload),
			Status:    domain.NotificationStatusPending,
		})
	}

	if err := s.notificationRepo.CreateBatch(ctx, notifications); err != nil {
		s.logger.Error("Failed to enqueue approval notifications",
			zap.Int("count", len(notifications)),
			zap.Error(err),
		)
	}
}

// Queue pages through comments awaiting moderation, oldest first
func (s *moderationServiceImpl) Queue(ctx context.Context, query *dto.ModerationQueueQuery) (*dto.ModerationQueueResponse, error) {
	var status *domain.CommentStatus
	if query.Status != "" {
		st := domain.CommentStatus(query.Status)
		if !st.IsValid() {
			return nil, response.NewValidationError("Invalid status filter", query.Status)
		}
		status = &st
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = defaultQueueLimit
	}
	if limit > maxQueueLimit {
		limit = maxQueueLimit
	}

	comments, total, err := s.commentRepo.FindForModeration(ctx, status, (page-1)*limit, limit)
	if err != nil {
		return nil, response.NewInternalError("Failed to load moderation queue", err)
	}

	out := make([]dto.AdminCommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, dto.AdminCommentResponse{
			CommentResponse:  toCommentResponse(c, false),
			IsDeleted:        c.IsDeleted,
			ReportCount:      c.ReportCount,
			ModerationReason: c.ModerationReason,
		})
	}

	return &dto.ModerationQueueResponse{Comments: out, Total: total, Page: page, Limit: limit}, nil
}

// History returns the moderation log of a comment, oldest first
func (s *moderationServiceImpl) History(ctx context.Context, commentID uuid.UUID) ([]dto.ModerationLogResponse, error) {
	if _, err := s.commentRepo.FindByID(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Comment not found", "")
		}
		return nil, response.NewInternalError("Failed to load comment", err)
	}

	entries, err := s.moderationRepo.FindByCommentID(ctx, commentID)
	if err != nil {
		return nil, response.NewInternalError("Failed to load moderation history", err)
	}

	out := make([]dto.ModerationLogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ModerationLogResponse{
			ID:             e.ID,
			CommentID:      e.CommentID,
			ModeratorID:    e.ModeratorID,
			Action:         e.Action,
			Reason:         e.Reason,
			PreviousStatus: string(e.PreviousStatus),
			CreatedAt:      e.CreatedAt,
		})
	}
	return out, nil
}

// Stats counts comments per status and the open reports
func (s *moderationServiceImpl) Stats(ctx context.Context) (*dto.ModerationStatsResponse, error) {
	counts, err := s.commentRepo.CountByStatus(ctx)
	if err != nil {
		return nil, response.NewInternalError("Failed to count comments", err)
	}
	pending, err := s.reportRepo.CountPending(ctx)
	if err != nil {
		return nil, response.NewInternalError("Failed to count reports", err)
	}

	stats := &dto.ModerationStatsResponse{
		ByStatus:       make(map[string]int64, len(counts)),
		PendingReports: pending,
	}
	for status, n := range counts {
		stats.ByStatus[string(status)] = n
		stats.Total += n
	}
	return stats, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
