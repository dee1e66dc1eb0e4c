package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tinkbyte-api/internal/dto"
	"tinkbyte-api/internal/response"
	"tinkbyte-api/internal/service"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// ReportComment godoc
// @Summary      Report a comment
// @Description  Files one report per reader and comment. Reaching the report threshold flags the comment for moderation.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        request body dto.ReportCommentRequest true "Report"
// @Success      201 {object} response.SuccessResponse{data=dto.ReportCommentResponse} "Reported"
// @Failure      400 {object} response.ErrorResponse "Invalid reason"
// @Failure      404 {object} response.ErrorResponse "Comment not found"
// @Failure      409 {object} response.ErrorResponse "Already reported"
// @Security     BearerAuth
// @Router       /comments/report [post]
func (h *ReportHandler) ReportComment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.ReportCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.reportService.ReportComment(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, result)
}

// ListReports godoc
// @Summary      Reports filed against a comment
// @Tags         admin
// @Produce      json
// @Param        commentId path string true "Comment ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.ReportResponse} "Reports"
// @Failure      401 {object} response.ErrorResponse "Not signed in"
// @Failure      403 {object} response.ErrorResponse "Not an admin"
// @Security     BearerAuth
// @Router       /admin/comments/{commentId}/reports [get]
func (h *ReportHandler) ListReports(c *gin.Context) {
	commentID, ok := parseUUIDParam(c, "commentId", "comment ID")
	if !ok {
		return
	}

	reports, err := h.reportService.ListReports(c.Request.Context(), commentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, reports)
}

// ResolveReports godoc
// @Summary      Resolve pending reports of a comment
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        commentId path string true "Comment ID (UUID)"
// @Param        request body dto.ResolveReportsRequest true "reviewed or dismissed"
// @Success      200 {object} response.SuccessResponse{data=dto.ResolveReportsResponse} "Resolved"
// @Failure      403 {object} response.ErrorResponse "Not an admin"
// @Failure      404 {object} response.ErrorResponse "Comment not found"
// @Security     BearerAuth
// @Router       /admin/comments/{commentId}/reports/resolve [post]
func (h *ReportHandler) ResolveReports(c *gin.Context) {
	commentID, ok := parseUUIDParam(c, "commentId", "comment ID")
	if !ok {
		return
	}

	var req dto.ResolveReportsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.reportService.ResolveReports(c.Request.Context(), commentID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}
