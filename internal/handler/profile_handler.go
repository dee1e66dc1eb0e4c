package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tinkbyte-api/internal/dto"
	"tinkbyte-api/internal/response"
	"tinkbyte-api/internal/service"
)

type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// GetMe godoc
// @Summary      Own profile
// @Description  Returns the caller's profile, creating a default one on first visit.
// @Tags         profiles
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=dto.ProfileResponse} "Profile"
// @Failure      401 {object} response.ErrorResponse "Not signed in"
// @Security     BearerAuth
// @Router       /profiles/me [get]
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetOrCreate(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, profile)
}

// UpdateMe godoc
// @Summary      Update own profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        request body dto.UpdateProfileRequest true "Fields to change"
// @Success      200 {object} response.SuccessResponse{data=dto.ProfileResponse} "Updated"
// @Failure      400 {object} response.ErrorResponse "Invalid display name"
// @Security     BearerAuth
// @Router       /profiles/me [patch]
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	profile, err := h.profileService.UpdateMe(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, profile)
}

// AvatarUploadURL godoc
// @Summary      Presigned avatar upload URL
// @Description  Returns a 5 minute presigned PUT URL. Save the returned fileUrl with PATCH /profiles/me once the upload finished.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        request body dto.AvatarUploadURLRequest true "File"
// @Success      200 {object} response.SuccessResponse{data=dto.AvatarUploadURLResponse} "URL"
// @Failure      400 {object} response.ErrorResponse "Unsupported content type"
// @Security     BearerAuth
// @Router       /profiles/me/avatar-upload-url [post]
func (h *ProfileHandler) AvatarUploadURL(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.AvatarUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.profileService.AvatarUploadURL(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}

// UpdateFlags godoc
// @Summary      Change a user's admin, blocked or reputation state
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        userId path string true "User ID (UUID)"
// @Param        request body dto.UpdateUserFlagsRequest true "Flags"
// @Success      200 {object} response.SuccessResponse{data=dto.ProfileResponse} "Updated"
// @Failure      403 {object} response.ErrorResponse "Not an admin"
// @Failure      404 {object} response.ErrorResponse "Profile not found"
// @Security     BearerAuth
// @Router       /admin/users/{userId} [patch]
func (h *ProfileHandler) UpdateFlags(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "userId", "user ID")
	if !ok {
		return
	}

	var req dto.UpdateUserFlagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	profile, err := h.profileService.UpdateFlags(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, profile)
}
