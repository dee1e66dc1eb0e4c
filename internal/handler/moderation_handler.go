package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tinkbyte-api/internal/dto"
	"tinkbyte-api/internal/response"
	"tinkbyte-api/internal/service"
)

type ModerationHandler struct {
	moderationService service.ModerationService
}

func NewModerationHandler(moderationService service.ModerationService) *ModerationHandler {
	return &ModerationHandler{
		moderationService: moderationService,
	}
}

// Moderate godoc
// @Summary      Bulk moderation
// @Description  Applies one action (approve, reject, flag, unflag, hide, delete, restore) to up to 100 comments in a single update.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body dto.ModerateRequest true "Moderation request"
// @Success      200 {object} response.SuccessResponse{data=dto.ModerateResponse} "Applied"
// @Failure      400 {object} response.ErrorResponse "Invalid moderation action"
// @Failure      401 {object} response.ErrorResponse "Not signed in"
// @Failure      403 {object} response.ErrorResponse "Not an admin"
// @Failure      404 {object} response.ErrorResponse "No such comments"
// @Security     BearerAuth
// @Router       /admin/moderate [post]
func (h *ModerationHandler) Moderate(c *gin.Context) {
	admin, ok := requireAdmin(c)
	if !ok {
		return
	}

	var req dto.ModerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.moderationService.Moderate(c.Request.Context(), admin.UserID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}

// Queue godoc
// @Summary      Moderation queue
// @Tags         admin
// @Produce      json
// @Param        status query string false "pending, flagged, approved, auto_approved, rejected or deleted; all when empty"
// @Param        page query int false "Page, from 1"
// @Param        limit query int false "Page size, max 100"
// @Success      200 {object} response.SuccessResponse{data=dto.ModerationQueueResponse} "Queue"
// @Failure      400 {object} response.ErrorResponse "Invalid status"
// @Failure      403 {object} response.ErrorResponse "Not an admin"
// @Security     BearerAuth
// @Router       /admin/comments [get]
func (h *ModerationHandler) Queue(c *gin.Context) {
	var query dto.ModerationQueueQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid query parameters")
		return
	}

	queue, err := h.moderationService.Queue(c.Request.Context(), &query)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, queue)
}

// Stats godoc
// @Summary      Comment counts per status
// @Tags         admin
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=dto.ModerationStatsResponse} "Stats"
// @Failure      403 {object} response.ErrorResponse "Not an admin"
// @Security     BearerAuth
// @Router       /admin/comments/stats [get]
func (h *ModerationHandler) Stats(c *gin.Context) {
	stats, err := h.moderationService.Stats(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, stats)
}

// History godoc
// @Summary      Moderation history of a comment
// @Tags         admin
// @Produce      json
// @Param        commentId path string true "Comment ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.ModerationLogResponse} "History, oldest first"
// @Failure      403 {object} response.ErrorResponse "Not an admin"
// @Security     BearerAuth
// @Router       /admin/comments/{commentId}/history [get]
func (h *ModerationHandler) History(c *gin.Context) {
	commentID, ok := parseUUIDParam(c, "commentId", "comment ID")
	if !ok {
		return
	}

	history, err := h.moderationService.History(c.Request.Context(), commentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, history)
}
