package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tinkbyte-api/internal/config"
	"tinkbyte-api/internal/content"
	"tinkbyte-api/internal/domain"
	"tinkbyte-api/internal/dto"
	"tinkbyte-api/internal/metrics"
	"tinkbyte-api/internal/moderation"
	"tinkbyte-api/internal/repository"
	"tinkbyte-api/internal/response"
)

// ReportService defines the interface for user reports and auto-flagging
type ReportService interface {
	ReportComment(ctx context.Context, reporterID uuid.UUID, req *dto.ReportCommentRequest) (*dto.ReportCommentResponse, error)
	ListReports(ctx context.Context, commentID uuid.UUID) ([]dto.ReportResponse, error)
	ResolveReports(ctx context.Context, commentID uuid.UUID, req *dto.ResolveReportsRequest) (*dto.ResolveReportsResponse, error)
}

type reportServiceImpl struct {
	commentRepo    repository.CommentRepository
	reportRepo     repository.ReportRepository
	moderationRepo repository.ModerationRepository
	policy         config.ModerationConfig
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

// NewReportService creates a new instance of ReportService
func NewReportService(
	commentRepo repository.CommentRepository,
	reportRepo repository.ReportRepository,
	moderationRepo repository.ModerationRepository,
	policy config.ModerationConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) ReportService {
	return &reportServiceImpl{
		commentRepo:    commentRepo,
		reportRepo:     reportRepo,
		moderationRepo: moderationRepo,
		policy:         policy,
		metrics:        m,
		logger:         logger,
	}
}

// ReportComment files a report. Once ReportThreshold distinct users have
// reported a comment it is flagged for review.
func (s *reportServiceImpl) ReportComment(ctx context.Context, reporterID uuid.UUID, req *dto.ReportCommentRequest) (*dto.ReportCommentResponse, error) {
	comment, err := s.commentRepo.FindByID(ctx, req.CommentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Comment not found", "")
		}
		return nil, response.NewInternalError("Failed to load comment", err)
	}
	if comment.IsDeleted {
		return nil, response.NewNotFoundError("Comment not found", "")
	}

	exists, err := s.reportRepo.Exists(ctx, comment.ID, reporterID)
	if err != nil {
		return nil, response.NewInternalError("Failed to check existing reports", err)
	}
	if exists {
		return nil, response.NewAlreadyExistsError("already reported", "")
	}

	report := &domain.CommentReport{
		CommentID:  comment.ID,
		ReporterID: reporterID,
		Reason:     req.Reason,
		Details:    content.Sanitize(req.Details),
		Status:     domain.ReportStatusPending,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		// lost a race with a concurrent report from the same user
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewAlreadyExistsError("already reported", "")
		}
		return nil, response.NewInternalError("Failed to create report", err)
	}
	s.metrics.IncrementCommentReported()

	// the report row is committed; from here on failures are logged so the
	// threshold check still runs for this report
	if err := s.commentRepo.IncrementReportCount(ctx, comment.ID); err != nil {
		s.logger.Warn("Failed to update report count",
			zap.String("comment_id", comment.ID.String()),
			zap.Error(err),
		)
	}

	count, err := s.reportRepo.CountByCommentID(ctx, comment.ID)
	if err != nil {
		count = int64(comment.ReportCount) + 1
		s.logger.Warn("Failed to count reports, using cached report count",
			zap.String("comment_id", comment.ID.String()),
			zap.Int64("count", count),
			zap.Error(err),
		)
	}

	autoFlagged := false
	if count >= int64(s.policy.ReportThreshold) && comment.Status != domain.CommentStatusFlagged {
		if err := s.autoFlag(ctx, comment); err != nil {
			return nil, err
		}
		autoFlagged = true
	}

	return &dto.ReportCommentResponse{
		Report:      toReportResponse(report),
		ReportCount: count,
		AutoFlagged: autoFlagged,
	}, nil
}

func (s *reportServiceImpl) autoFlag(ctx context.Context, comment *domain.Comment) error {
	update, err := moderation.Resolve(string(moderation.ActionFlag))
	if err != nil {
		return response.NewInternalError("Failed to resolve flag action", err)
	}

	if err := s.commentRepo.UpdateFields(ctx, comment.ID, update.Columns(s.policy.AutoFlagReason)); err != nil {
		return response.NewInternalError("Failed to flag comment", err)
	}
	s.metrics.IncrementCommentAutoFlagged()
	s.logger.Info("Comment auto-flagged",
		zap.String("comment_id", comment.ID.String()),
		zap.String("previous_status", string(comment.Status)),
	)

	entry := &domain.CommentModeration{
		CommentID:      comment.ID,
		Action:         string(moderation.ActionFlag),
		Reason:         s.policy.AutoFlagReason,
		PreviousStatus: comment.Status,
	}
	if err := s.moderationRepo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to record auto-flag in moderation log",
			zap.String("comment_id", comment.ID.String()),
			zap.Error(err),
		)
	}
	return nil
}

// ListReports returns every report filed against a comment
func (s *reportServiceImpl) ListReports(ctx context.Context, commentID uuid.UUID) ([]dto.ReportResponse, error) {
	if _, err := s.commentRepo.FindByID(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Comment not found", "")
		}
		return nil, response.NewInternalError("Failed to load comment", err)
	}

	reports, err := s.reportRepo.FindByCommentID(ctx, commentID)
	if err != nil {
		return nil, response.NewInternalError("Failed to load reports", err)
	}

	out := make([]dto.ReportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, toReportResponse(r))
	}
	return out, nil
}

// ResolveReports closes the open reports on a comment as reviewed or dismissed
func (s *reportServiceImpl) ResolveReports(ctx context.Context, commentID uuid.UUID, req *dto.ResolveReportsRequest) (*dto.ResolveReportsResponse, error) {
	status := domain.ReportStatus(req.Status)
	if status != domain.ReportStatusReviewed && status != domain.ReportStatusDismissed {
		return nil, response.NewValidationError("Invalid report status", req.Status)
	}

	if _, err := s.commentRepo.FindByID(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFoundError("Comment not found", "")
		}
		return nil, response.NewInternalError("Failed to load comment", err)
	}

	updated, err := s.reportRepo.ResolveByCommentID(ctx, commentID, status)
	if err != nil {
		return nil, response.NewInternalError("Failed to resolve reports", err)
	}

	return &dto.ResolveReportsResponse{CommentID: commentID, Status: string(status), Updated: updated}, nil
}

func toReportResponse(r *domain.CommentReport) dto.ReportResponse {
	return dto.ReportResponse{
		ReportID:   r.ID,
		CommentID:  r.CommentID,
		ReporterID: r.ReporterID,
		Reason:     r.Reason,
		Details:    r.Details,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt,
	}
}
