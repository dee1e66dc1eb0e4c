package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tinkbyte-api/internal/dto"
	"tinkbyte-api/internal/middleware"
	"tinkbyte-api/internal/service"
)

// MockCommentService is a mock implementation of CommentService
type MockCommentService struct {
	CreateCommentFunc func(ctx context.Context, actorID *uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	ListCommentsFunc  func(ctx context.Context, viewerID *uuid.UUID, articleID uuid.UUID, sort string) (*dto.CommentThreadResponse, error)
	GetCommentFunc    func(ctx context.Context, viewerID *uuid.UUID, commentID uuid.UUID) (*dto.CommentResponse, error)
	UpdateCommentFunc func(ctx context.Context, userID, commentID uuid.UUID, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	DeleteCommentFunc func(ctx context.Context, userID, commentID uuid.UUID) error
	LikeCommentFunc   func(ctx context.Context, userID, commentID uuid.UUID) (*dto.LikeResponse, error)
	UnlikeCommentFunc func(ctx context.Context, userID, commentID uuid.UUID) (*dto.LikeResponse, error)
}

func (m *MockCommentService) CreateComment(ctx context.Context, actorID *uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if m.CreateCommentFunc != nil {
		return m.CreateCommentFunc(ctx, actorID, req)
	}
	return &dto.CommentResponse{CommentID: uuid.New(), ArticleID: req.ArticleID, Content: req.Content}, nil
}

func (m *MockCommentService) ListComments(ctx context.Context, viewerID *uuid.UUID, articleID uuid.UUID, sort string) (*dto.CommentThreadResponse, error) {
	if m.ListCommentsFunc != nil {
		return m.ListCommentsFunc(ctx, viewerID, articleID, sort)
	}
	return &dto.CommentThreadResponse{ArticleID: articleID, Sort: sort, Comments: []dto.CommentResponse{}}, nil
}

func (m *MockCommentService) GetComment(ctx context.Context, viewerID *uuid.UUID, commentID uuid.UUID) (*dto.CommentResponse, error) {
	if m.GetCommentFunc != nil {
		return m.GetCommentFunc(ctx, viewerID, commentID)
	}
	return &dto.CommentResponse{CommentID: commentID}, nil
}

func (m *MockCommentService) UpdateComment(ctx context.Context, userID, commentID uuid.UUID, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	if m.UpdateCommentFunc != nil {
		return m.UpdateCommentFunc(ctx, userID, commentID, req)
	}
	return &dto.CommentResponse{CommentID: commentID, Content: req.Content}, nil
}

func (m *MockCommentService) DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error {
	if m.DeleteCommentFunc != nil {
		return m.DeleteCommentFunc(ctx, userID, commentID)
	}
	return nil
}

func (m *MockCommentService) LikeComment(ctx context.Context, userID, commentID uuid.UUID) (*dto.LikeResponse, error) {
	if m.LikeCommentFunc != nil {
		return m.LikeCommentFunc(ctx, userID, commentID)
	}
	return &dto.LikeResponse{CommentID: commentID, Liked: true, LikeCount: 1}, nil
}

func (m *MockCommentService) UnlikeComment(ctx context.Context, userID, commentID uuid.UUID) (*dto.LikeResponse, error) {
	if m.UnlikeCommentFunc != nil {
		return m.UnlikeCommentFunc(ctx, userID, commentID)
	}
	return &dto.LikeResponse{CommentID: commentID}, nil
}

// MockReportService is a mock implementation of ReportService
type MockReportService struct {
	ReportCommentFunc  func(ctx context.Context, reporterID uuid.UUID, req *dto.ReportCommentRequest) (*dto.ReportCommentResponse, error)
	ListReportsFunc    func(ctx context.Context, commentID uuid.UUID) ([]dto.ReportResponse, error)
	ResolveReportsFunc func(ctx context.Context, commentID uuid.UUID, req *dto.ResolveReportsRequest) (*dto.ResolveReportsResponse, error)
}

func (m *MockReportService) ReportComment(ctx context.Context, reporterID uuid.UUID, req *dto.ReportCommentRequest) (*dto.ReportCommentResponse, error) {
	if m.ReportCommentFunc != nil {
		return m.ReportCommentFunc(ctx, reporterID, req)
	}
	return &dto.ReportCommentResponse{ReportCount: 1}, nil
}

func (m *MockReportService) ListReports(ctx context.Context, commentID uuid.UUID) ([]dto.ReportResponse, error) {
	if m.ListReportsFunc != nil {
		return m.ListReportsFunc(ctx, commentID)
	}
	return []dto.ReportResponse{}, nil
}

func (m *MockReportService) ResolveReports(ctx context.Context, commentID uuid.UUID, req *dto.ResolveReportsRequest) (*dto.ResolveReportsResponse, error) {
	if m.ResolveReportsFunc != nil {
		return m.ResolveReportsFunc(ctx, commentID, req)
	}
	return &dto.ResolveReportsResponse{CommentID: commentID, Status: req.Status}, nil
}

// MockModerationService is a mock implementation of ModerationService
type MockModerationService struct {
	ModerateFunc func(ctx context.Context, moderatorID uuid.UUID, req *dto.ModerateRequest) (*dto.ModerateResponse, error)
	QueueFunc    func(ctx context.Context, query *dto.ModerationQueueQuery) (*dto.ModerationQueueResponse, error)
	HistoryFunc  func(ctx context.Context, commentID uuid.UUID) ([]dto.ModerationLogResponse, error)
	StatsFunc    func(ctx context.Context) (*dto.ModerationStatsResponse, error)
}

func (m *MockModerationService) Moderate(ctx context.Context, moderatorID uuid.UUID, req *dto.ModerateRequest) (*dto.ModerateResponse, error) {
	if m.ModerateFunc != nil {
		return m.ModerateFunc(ctx, moderatorID, req)
	}
	return &dto.ModerateResponse{Action: req.Action, Updated: int64(len(req.CommentIDs)), CommentIDs: req.CommentIDs}, nil
}

func (m *MockModerationService) Queue(ctx context.Context, query *dto.ModerationQueueQuery) (*dto.ModerationQueueResponse, error) {
	if m.QueueFunc != nil {
		return m.QueueFunc(ctx, query)
	}
	return &dto.ModerationQueueResponse{Comments: []dto.AdminCommentResponse{}}, nil
}

func (m *MockModerationService) History(ctx context.Context, commentID uuid.UUID) ([]dto.ModerationLogResponse, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, commentID)
	}
	return []dto.ModerationLogResponse{}, nil
}

func (m *MockModerationService) Stats(ctx context.Context) (*dto.ModerationStatsResponse, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return &dto.ModerationStatsResponse{ByStatus: map[string]int64{}}, nil
}

// MockProfileService is a mock implementation of ProfileService
type MockProfileService struct {
	GetOrCreateFunc     func(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error)
	UpdateMeFunc        func(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	AvatarUploadURLFunc func(ctx context.Context, userID uuid.UUID, req *dto.AvatarUploadURLRequest) (*dto.AvatarUploadURLResponse, error)
	UpdateFlagsFunc     func(ctx context.Context, userID uuid.UUID, req *dto.UpdateUserFlagsRequest) (*dto.ProfileResponse, error)
}

func (m *MockProfileService) GetOrCreate(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	if m.GetOrCreateFunc != nil {
		return m.GetOrCreateFunc(ctx, userID)
	}
	return &dto.ProfileResponse{ID: userID}, nil
}

func (m *MockProfileService) UpdateMe(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	if m.UpdateMeFunc != nil {
		return m.UpdateMeFunc(ctx, userID, req)
	}
	return &dto.ProfileResponse{ID: userID}, nil
}

func (m *MockProfileService) AvatarUploadURL(ctx context.Context, userID uuid.UUID, req *dto.AvatarUploadURLRequest) (*dto.AvatarUploadURLResponse, error) {
	if m.AvatarUploadURLFunc != nil {
		return m.AvatarUploadURLFunc(ctx, userID, req)
	}
	return &dto.AvatarUploadURLResponse{UploadURL: "https://upload", ExpiresIn: 300}, nil
}

func (m *MockProfileService) UpdateFlags(ctx context.Context, userID uuid.UUID, req *dto.UpdateUserFlagsRequest) (*dto.ProfileResponse, error) {
	if m.UpdateFlagsFunc != nil {
		return m.UpdateFlagsFunc(ctx, userID, req)
	}
	return &dto.ProfileResponse{ID: userID}, nil
}

// withUser stands in for middleware.Auth
func withUser(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	}
}

// withAdmin stands in for middleware.Auth + middleware.RequireAdmin
func withAdmin(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextAdmin, &service.AdminIdentity{UserID: userID, DisplayName: "editor"})
		c.Next()
	}
}

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
}

func decodeEnvelope(w *httptest.ResponseRecorder) envelope {
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return env
}
