package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"tinkbyte-api/internal/response"
)

const (
	// ContextUserID holds the authenticated uuid.UUID
	ContextUserID = "user_id"
	// ContextToken holds the raw bearer token
	ContextToken = "jwtToken"

	validateTimeout = 5 * time.Second
)

var errNoUserClaim = errors.New("user id not found in token")

// TokenValidator resolves a bearer token to the auth user id
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenStr string) (uuid.UUID, error)
}

// LocalJWTValidator verifies HS256 tokens with the shared secret. It cannot see
// revoked sessions; use client.AuthClient when the auth service is reachable.
type LocalJWTValidator struct {
	secret []byte
}

// NewLocalJWTValidator creates a validator for tokens signed with secret
func NewLocalJWTValidator(secret string) *LocalJWTValidator {
	return &LocalJWTValidator{secret: []byte(secret)}
}

func (v *LocalJWTValidator) ValidateToken(_ context.Context, tokenStr string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return uuid.Nil, err
	}
	if !token.Valid {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	// "user_id" is ours, "sub" is what the hosted auth service issues
	var userIDStr string
	if uid, ok := claims["user_id"].(string); ok {
		userIDStr = uid
	} else if sub, ok := claims["sub"].(string); ok {
		userIDStr = sub
	} else if uid, ok := claims["uid"].(string); ok {
		userIDStr = uid
	} else {
		return uuid.Nil, errNoUserClaim
	}

	return uuid.Parse(userIDStr)
}

// Auth rejects requests without a valid bearer token
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			response.AbortWithError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authorization header is required")
			return
		}
		authenticate(c, validator)
	}
}

// OptionalAuth lets anonymous requests through as guests. A token that is
// present but invalid is still rejected.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		authenticate(c, validator)
	}
}

func authenticate(c *gin.Context, validator TokenValidator) {
	// Extract token from "Bearer <token>"
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		response.AbortWithError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid authorization header format")
		return
	}
	tokenString := strings.TrimSpace(parts[1])

	ctx, cancel := context.WithTimeout(c.Request.Context(), validateTimeout)
	defer cancel()

	userID, err := validator.ValidateToken(ctx, tokenString)
	if err != nil || userID == uuid.Nil {
		response.AbortWithError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid or expired token")
		return
	}

	c.Set(ContextUserID, userID)
	c.Set(ContextToken, tokenString)

	c.Next()
}
