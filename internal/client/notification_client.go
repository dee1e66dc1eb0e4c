package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tinkbyte-api/internal/metrics"
)

// NotificationEvent is one notification delivered to the notification service
type NotificationEvent struct {
	ID           uuid.UUID              `json:"id"`
	Type         string                 `json:"type"`
	TargetUserID uuid.UUID              `json:"targetUserId"`
	ResourceType string                 `json:"resourceType"`
	ResourceID   *uuid.UUID             `json:"resourceId,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	OccurredAt   string                 `json:"occurredAt,omitempty"`
}

// BulkNotificationRequest represents a bulk notification request
type BulkNotificationRequest struct {
	Notifications []NotificationEvent `json:"notifications"`
}

// NotificationClient defines the interface for notification service communication
type NotificationClient interface {
	// SendBulkNotifications delivers events in one request. A non-nil error means
	// none of them should be considered delivered.
	SendBulkNotifications(ctx context.Context, events []NotificationEvent) error
}

// notificationClient implements NotificationClient interface
type notificationClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewNotificationClient creates a new Notification API client
func NewNotificationClient(baseURL string, apiKey string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) NotificationClient {
	return &notificationClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: m,
	}
}

// SendBulkNotifications sends multiple notifications at once
func (c *notificationClient) SendBulkNotifications(ctx context.Context, events []NotificationEvent) error {
	if len(events) == 0 {
		return nil
	}

	url := fmt.Sprintf("%s/api/internal/notifications/bulk", c.baseURL)

	now := time.Now().UTC().Format(time.RFC3339)
	for i := range events {
		if events[i].OccurredAt == "" {
			events[i].OccurredAt = now
		}
	}

	jsonBody, err := json.Marshal(BulkNotificationRequest{Notifications: events})
	if err != nil {
		return fmt.Errorf("failed to marshal notifications: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Internal-API-Key", c.apiKey)

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	c.metrics.RecordExternalAPICall(url, http.MethodPost, statusCode, duration, err)

	if err != nil {
		c.logger.Error("Failed to send bulk notifications",
			zap.Error(err),
			zap.Int("count", len(events)),
			zap.Duration("duration", duration),
		)
		return fmt.Errorf("failed to send notifications: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Notification service returned non-success status for bulk request",
			zap.Int("status_code", resp.StatusCode),
			zap.Int("count", len(events)),
		)
		return fmt.Errorf("notification service returned status %d", resp.StatusCode)
	}

	c.logger.Info("Bulk notifications sent successfully",
		zap.Int("count", len(events)),
		zap.Duration("duration", duration),
	)
	return nil
}

// NoOpNotificationClient is a no-op implementation for when notifications are disabled
type NoOpNotificationClient struct{}

func NewNoOpNotificationClient() NotificationClient {
	return &NoOpNotificationClient{}
}

func (c *NoOpNotificationClient) SendBulkNotifications(ctx context.Context, events []NotificationEvent) error {
	return nil
}
