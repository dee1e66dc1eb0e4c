package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tinkbyte-api/internal/metrics"
)

// ErrInvalidToken is returned when the auth service rejects a token
var ErrInvalidToken = errors.New("invalid or expired token")

// AuthClient resolves bearer tokens against the hosted auth service
// (GET {baseURL}/auth/v1/user).
type AuthClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// authUserResponse is the subset of the auth user object the service reads
type authUserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// NewAuthClient creates a new AuthClient
func NewAuthClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *AuthClient {
	return &AuthClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: m,
	}
}

// ValidateToken returns the user id the token belongs to
func (c *AuthClient) ValidateToken(ctx context.Context, tokenStr string) (uuid.UUID, error) {
	url := fmt.Sprintf("%s/auth/v1/user", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+tokenStr)
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	c.metrics.RecordExternalAPICall(url, http.MethodGet, statusCode, duration, err)

	if err != nil {
		c.logger.Error("Failed to validate token", zap.Error(err), zap.Duration("duration", duration))
		return uuid.Nil, fmt.Errorf("failed to validate token: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return uuid.Nil, ErrInvalidToken
	case resp.StatusCode != http.StatusOK:
		return uuid.Nil, fmt.Errorf("token validation failed with status: %d", resp.StatusCode)
	}

	var result authUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return uuid.Nil, fmt.Errorf("failed to decode response: %w", err)
	}

	userID, err := uuid.Parse(result.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse user ID: %w", err)
	}

	return userID, nil
}
