package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tinkbyte-api/internal/domain"
	"tinkbyte-api/internal/dto"
	"tinkbyte-api/internal/repository"
	"tinkbyte-api/internal/response"
	"tinkbyte-api/internal/testutil"
)

func TestReportService_ReportComment(t *testing.T) {
	commentID := uuid.New()
	reporterID := uuid.New()

	approved := func() *domain.Comment {
		return &domain.Comment{BaseModel: domain.BaseModel{ID: commentID}, Status: domain.CommentStatusApproved}
	}

	tests := []struct {
		name           string
		comment        func() (*domain.Comment, error)
		exists         bool
		createErr      error
		count          int64
		incrementErr   error
		countErr       error
		wantCount      int64
		logErr         error
		wantErrCode    string
		wantFlagged    bool
		wantReportRows int
	}{
		{
			name:           "성공: 첫 번째 신고는 플래그하지 않음",
			comment:        func() (*domain.Comment, error) { return approved(), nil },
			count:          1,
			wantReportRows: 1,
		},
		{
			name:           "성공: 세 번째 신고로 자동 플래그",
			comment:        func() (*domain.Comment, error) { return approved(), nil },
			count:          3,
			wantFlagged:    true,
			wantReportRows: 1,
		},
		{
			name:           "성공: 모더레이션 로그 실패는 무시",
			comment:        func() (*domain.Comment, error) { return approved(), nil },
			count:          3,
			logErr:         errors.New("log table unavailable"),
			wantFlagged:    true,
			wantReportRows: 1,
		},
		{
			name: "성공: 이미 플래그된 댓글은 다시 플래그하지 않음",
			comment: func() (*domain.Comment, error) {
				c := approved()
				c.Status = domain.CommentStatusFlagged
				return c, nil
			},
			count:          4,
			wantReportRows: 1,
		},
		{
			name:           "성공: report_count 갱신 실패에도 자동 플래그",
			comment:        func() (*domain.Comment, error) { return approved(), nil },
			count:          3,
			incrementErr:   errors.New("counter update failed"),
			wantFlagged:    true,
			wantReportRows: 1,
		},
		{
			name: "성공: 신고 수 집계 실패 시 캐시된 카운트로 판단",
			comment: func() (*domain.Comment, error) {
				c := approved()
				c.ReportCount = 2
				return c, nil
			},
			countErr:       errors.New("count query failed"),
			wantCount:      3,
			wantFlagged:    true,
			wantReportRows: 1,
		},
		{
			name:        "실패: 같은 사용자의 중복 신고",
			comment:     func() (*domain.Comment, error) { return approved(), nil },
			exists:      true,
			wantErrCode: response.ErrCodeAlreadyExists,
		},
		{
			name:           "실패: 동시 중복 신고 (unique 제약)",
			comment:        func() (*domain.Comment, error) { return approved(), nil },
			createErr:      gorm.ErrDuplicatedKey,
			wantErrCode:    response.ErrCodeAlreadyExists,
			wantReportRows: 1,
		},
		{
			name:        "실패: 존재하지 않는 댓글",
			comment:     func() (*domain.Comment, error) { return nil, gorm.ErrRecordNotFound },
			wantErrCode: response.ErrCodeNotFound,
		},
		{
			name: "실패: 삭제된 댓글",
			comment: func() (*domain.Comment, error) {
				c := approved()
				c.IsDeleted = true
				c.Status = domain.CommentStatusDeleted
				return c, nil
			},
			wantErrCode: response.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var flaggedFields map[string]interface{}
			var logEntry *domain.CommentModeration
			reportRows := 0

			commentRepo := &MockCommentRepository{
				FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
					return tt.comment()
				},
				UpdateFieldsFunc: func(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
					flaggedFields = fields
					return nil
				},
				IncrementReportCountFunc: func(ctx context.Context, id uuid.UUID) error {
					return tt.incrementErr
				},
			}
			reportRepo := &MockReportRepository{
				ExistsFunc: func(ctx context.Context, cID, rID uuid.UUID) (bool, error) {
					return tt.exists, nil
				},
				CreateFunc: func(ctx context.Context, report *domain.CommentReport) error {
					reportRows++
					return tt.createErr
				},
				CountByCommentIDFunc: func(ctx context.Context, cID uuid.UUID) (int64, error) {
					return tt.count, tt.countErr
				},
			}
			moderationRepo := &MockModerationRepository{
				CreateFunc: func(ctx context.Context, entry *domain.CommentModeration) error {
					logEntry = entry
					return tt.logErr
				},
			}

			svc := NewReportService(commentRepo, reportRepo, moderationRepo, testPolicy(), testMetrics(), zap.NewNop())
			resp, err := svc.ReportComment(context.Background(), reporterID, &dto.ReportCommentRequest{
				CommentID: commentID,
				Reason:    "spam",
				Details:   "<b>buy</b> now",
			})

			assert.Equal(t, tt.wantReportRows, reportRows)
			if tt.wantErrCode != "" {
				requireAppError(t, err, tt.wantErrCode)
				assert.Nil(t, flaggedFields, "no status change on failure")
				return
			}

			require.NoError(t, err)
			wantCount := tt.count
			if tt.wantCount != 0 {
				wantCount = tt.wantCount
			}
			assert.Equal(t, wantCount, resp.ReportCount)
			assert.Equal(t, tt.wantFlagged, resp.AutoFlagged)
			assert.Equal(t, "buy now", resp.Report.Details)

			if !tt.wantFlagged {
				assert.Nil(t, flaggedFields)
				assert.Nil(t, logEntry)
				return
			}
			assert.Equal(t, domain.CommentStatusFlagged, flaggedFields["status"])
			assert.Equal(t, "Auto-flagged: reported by multiple users", flaggedFields["moderation_reason"])
			require.NotNil(t, logEntry)
			assert.Nil(t, logEntry.ModeratorID, "auto-flag is a system action")
			assert.Equal(t, "flag", logEntry.Action)
			assert.Equal(t, domain.CommentStatusApproved, logEntry.PreviousStatus)
		})
	}
}

func TestReportService_ThreeDistinctReportersFlag(t *testing.T) {
	db := testutil.NewDB(t)
	article := testutil.CreateArticle(t, db)
	comment := testutil.CreateComment(t, db, article.ID, nil)

	commentRepo := repository.NewCommentRepository(db)
	moderationRepo := repository.NewModerationRepository(db)
	svc := NewReportService(commentRepo, repository.NewReportRepository(db), moderationRepo,
		testPolicy(), testMetrics(), zap.NewNop())
	ctx := context.Background()

	first := uuid.New()
	for i, reporter := range []uuid.UUID{first, uuid.New(), uuid.New()} {
		resp, err := svc.ReportComment(ctx, reporter, &dto.ReportCommentRequest{CommentID: comment.ID, Reason: "spam"})
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), resp.ReportCount)
		assert.Equal(t, i == 2, resp.AutoFlagged)
	}

	_, err := svc.ReportComment(ctx, first, &dto.ReportCommentRequest{CommentID: comment.ID, Reason: "other"})
	appErr := requireAppError(t, err, response.ErrCodeAlreadyExists)
	assert.Equal(t, "already reported", appErr.Message)

	stored, err := commentRepo.FindByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CommentStatusFlagged, stored.Status)
	assert.Equal(t, 3, stored.ReportCount)
	assert.Equal(t, "Auto-flagged: reported by multiple users", stored.ModerationReason)

	history, err := moderationRepo.FindByCommentID(ctx, comment.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Nil(t, history[0].ModeratorID)

	// a fourth reporter does not flag again
	resp, err := svc.ReportComment(ctx, uuid.New(), &dto.ReportCommentRequest{CommentID: comment.ID, Reason: "spam"})
	require.NoError(t, err)
	assert.False(t, resp.AutoFlagged)
	history, err = moderationRepo.FindByCommentID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestReportService_ResolveReports(t *testing.T) {
	commentID := uuid.New()
	var gotStatus domain.ReportStatus

	commentRepo := &MockCommentRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
			return &domain.Comment{BaseModel: domain.BaseModel{ID: id}}, nil
		},
	}
	reportRepo := &MockReportRepository{
		ResolveByCommentIDFunc: func(ctx context.Context, cID uuid.UUID, status domain.ReportStatus) (int64, error) {
			gotStatus = status
			return 2, nil
		},
	}
	svc := NewReportService(commentRepo, reportRepo, &MockModerationRepository{}, testPolicy(), nil, zap.NewNop())

	resp, err := svc.ResolveReports(context.Background(), commentID, &dto.ResolveReportsRequest{Status: "dismissed"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Updated)
	assert.Equal(t, domain.ReportStatusDismissed, gotStatus)

	_, err = svc.ResolveReports(context.Background(), commentID, &dto.ResolveReportsRequest{Status: "pending"})
	requireAppError(t, err, response.ErrCodeValidation)
}

func TestReportService_ListReports_UnknownComment(t *testing.T) {
	svc := NewReportService(&MockCommentRepository{}, &MockReportRepository{}, &MockModerationRepository{},
		testPolicy(), nil, zap.NewNop())

	_, err := svc.ListReports(context.Background(), uuid.New())
	requireAppError(t, err, response.ErrCodeNotFound)
}
