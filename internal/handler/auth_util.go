package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tinkbyte-api/internal/middleware"
	"tinkbyte-api/internal/response"
	"tinkbyte-api/internal/service"
)

// requireUserID returns the authenticated user or writes a 401
func requireUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(middleware.ContextUserID)
	if !exists {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "User not authenticated")
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid user ID format")
		return uuid.Nil, false
	}
	return userID, true
}

// optionalUserID returns the caller on routes behind OptionalAuth, nil for guests
func optionalUserID(c *gin.Context) *uuid.UUID {
	value, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return nil
	}
	userID, ok := value.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return nil
	}
	return &userID
}

// requireAdmin returns the identity stored by middleware.RequireAdmin
func requireAdmin(c *gin.Context) (*service.AdminIdentity, bool) {
	value, exists := c.Get(middleware.ContextAdmin)
	if !exists {
		response.SendError(c, http.StatusForbidden, response.ErrCodeForbidden, "Admin access required")
		return nil, false
	}
	admin, ok := value.(*service.AdminIdentity)
	if !ok || admin == nil {
		response.SendError(c, http.StatusForbidden, response.ErrCodeForbidden, "Admin access required")
		return nil, false
	}
	return admin, true
}

// parseUUIDParam parses a path parameter or writes a 400
func parseUUIDParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid "+label)
		return uuid.Nil, false
	}
	return id, true
}
