package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tinkbyte-api/internal/dto"
	"tinkbyte-api/internal/response"
	"tinkbyte-api/internal/service"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// ListComments godoc
// @Summary      Article comment thread
// @Description  Returns the nested comment thread of an article. Public comments are shown to everyone; a signed-in reader also sees their own pending and flagged comments.
// @Tags         comments
// @Produce      json
// @Param        articleId query string true "Article ID (UUID)"
// @Param        sort query string false "newest (default), oldest or top"
// @Success      200 {object} response.SuccessResponse{data=dto.CommentThreadResponse} "Thread"
// @Failure      400 {object} response.ErrorResponse "Invalid article ID"
// @Failure      404 {object} response.ErrorResponse "Article not found"
// @Failure      500 {object} response.ErrorResponse "Server error"
// @Router       /comments/list [get]
func (h *CommentHandler) ListComments(c *gin.Context) {
	var query dto.ListCommentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "articleId is required")
		return
	}
	articleID, err := uuid.Parse(query.ArticleID)
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid article ID")
		return
	}

	thread, err := h.commentService.ListComments(c.Request.Context(), optionalUserID(c), articleID, query.Sort)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, thread)
}

// CreateComment godoc
// @Summary      Post a comment
// @Description  Posts a root comment or a reply. Guests must give guestName; guest comments always wait for moderation.
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateCommentRequest true "Comment"
// @Success      201 {object} response.SuccessResponse{data=dto.CommentResponse} "Created"
// @Failure      400 {object} response.ErrorResponse "Invalid content, parent or reply depth"
// @Failure      403 {object} response.ErrorResponse "Comments disabled or user blocked"
// @Failure      404 {object} response.ErrorResponse "Article or parent not found"
// @Failure      500 {object} response.ErrorResponse "Server error"
// @Security     BearerAuth
// @Router       /comments [post]
func (h *CommentHandler) CreateComment(c *gin.Context) {
	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), optionalUserID(c), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, comment)
}

// GetComment godoc
// @Summary      Get a comment
// @Tags         comments
// @Produce      json
// @Param        commentId path string true "Comment ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.CommentResponse} "Comment"
// @Failure      400 {object} response.ErrorResponse "Invalid comment ID"
// @Failure      404 {object} response.ErrorResponse "Comment not found"
// @Router       /comments/{commentId} [get]
func (h *CommentHandler) GetComment(c *gin.Context) {
	commentID, ok := parseUUIDParam(c, "commentId", "comment ID")
	if !ok {
		return
	}

	comment, err := h.commentService.GetComment(c.Request.Context(), optionalUserID(c), commentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, comment)
}

// UpdateComment godoc
// @Summary      Edit own comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        commentId path string true "Comment ID (UUID)"
// @Param        request body dto.UpdateCommentRequest true "New content"
// @Success      200 {object} response.SuccessResponse{data=dto.CommentResponse} "Updated"
// @Failure      400 {object} response.ErrorResponse "Invalid content"
// @Failure      403 {object} response.ErrorResponse "Not the author"
// @Failure      404 {object} response.ErrorResponse "Comment not found"
// @Security     BearerAuth
// @Router       /comments/{commentId} [put]
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	commentID, ok := parseUUIDParam(c, "commentId", "comment ID")
	if !ok {
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	comment, err := h.commentService.UpdateComment(c.Request.Context(), userID, commentID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, comment)
}

// DeleteComment godoc
// @Summary      Delete own comment
// @Tags         comments
// @Produce      json
// @Param        commentId path string true "Comment ID (UUID)"
// @Success      200 {object} response.SuccessResponse "Deleted"
// @Failure      403 {object} response.ErrorResponse "Not the author"
// @Failure      404 {object} response.ErrorResponse "Comment not found"
// @Security     BearerAuth
// @Router       /comments/{commentId} [delete]
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	commentID, ok := parseUUIDParam(c, "commentId", "comment ID")
	if !ok {
		return
	}

	if err := h.commentService.DeleteComment(c.Request.Context(), userID, commentID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccessWithMessage(c, http.StatusOK, nil, "Comment deleted")
}

// LikeComment godoc
// @Summary      Like a comment
// @Description  Idempotent: liking twice keeps a single like.
// @Tags         comments
// @Produce      json
// @Param        commentId path string true "Comment ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.LikeResponse} "Liked"
// @Failure      404 {object} response.ErrorResponse "Comment not found"
// @Security     BearerAuth
// @Router       /comments/{commentId}/like [post]
func (h *CommentHandler) LikeComment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	commentID, ok := parseUUIDParam(c, "commentId", "comment ID")
	if !ok {
		return
	}

	result, err := h.commentService.LikeComment(c.Request.Context(), userID, commentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}

// UnlikeComment godoc
// @Summary      Remove a like
// @Tags         comments
// @Produce      json
// @Param        commentId path string true "Comment ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.LikeResponse} "Unliked"
// @Failure      404 {object} response.ErrorResponse "Comment not found"
// @Security     BearerAuth
// @Router       /comments/{commentId}/like [delete]
func (h *CommentHandler) UnlikeComment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	commentID, ok := parseUUIDParam(c, "commentId", "comment ID")
	if !ok {
		return
	}

	result, err := h.commentService.UnlikeComment(c.Request.Context(), userID, commentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}
