package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"tinkbyte-api/internal/client"
	"tinkbyte-api/internal/domain"
	"tinkbyte-api/internal/metrics"
	"tinkbyte-api/internal/repository"
)

const (
	// MaxDeliveryAttempts is how often a notification is retried before it is marked failed
	MaxDeliveryAttempts = 5
	// DefaultBatchSize is used when the configured batch size is not positive
	DefaultBatchSize = 50

	dispatchTimeout = 30 * time.Second
)

// NotificationDispatchJob drains the notification outbox into the notification service
type NotificationDispatchJob struct {
	notificationRepo repository.NotificationRepository
	notifier         client.NotificationClient
	batchSize        int
	metrics          *metrics.Metrics
	logger           *zap.Logger
	cron             *cron.Cron
}

// NewNotificationDispatchJob creates a new NotificationDispatchJob instance
func NewNotificationDispatchJob(
	notificationRepo repository.NotificationRepository,
	notifier client.NotificationClient,
	batchSize int,
	m *metrics.Metrics,
	logger *zap.Logger,
) *NotificationDispatchJob {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &NotificationDispatchJob{
		notificationRepo: notificationRepo,
		notifier:         notifier,
		batchSize:        batchSize,
		metrics:          m,
		logger:           logger,
	}
}

// Start schedules Run with a cron spec such as "@every 30s". A run that is still
// in progress when the next tick fires makes that tick skip.
func (j *NotificationDispatchJob) Start(spec string) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddJob(spec, j); err != nil {
		return fmt.Errorf("invalid dispatch schedule %q: %w", spec, err)
	}
	j.cron = c
	c.Start()

	j.logger.Info("Notification dispatch job scheduled", zap.String("schedule", spec))
	return nil
}

// Stop stops the scheduler and waits for a running dispatch to finish
func (j *NotificationDispatchJob) Stop() {
	if j.cron == nil {
		return
	}
	<-j.cron.Stop().Done()
	j.logger.Info("Notification dispatch job stopped")
}

// Run delivers one batch of pending notifications
func (j *NotificationDispatchJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	pending, err := j.notificationRepo.FindPending(ctx, j.batchSize)
	if err != nil {
		j.logger.Error("Failed to load pending notifications", zap.Error(err))
		return
	}
	if len(pending) == 0 {
		return
	}

	ids := make([]uuid.UUID, 0, len(pending))
	events := make([]client.NotificationEvent, 0, len(pending))
	for _, n := range pending {
		ids = append(ids, n.ID)
		events = append(events, toEvent(n))
	}

	if err := j.notifier.SendBulkNotifications(ctx, events); err != nil {
		j.logger.Warn("Notification delivery failed, will retry",
			zap.Int("count", len(pending)),
			zap.Error(err),
		)
		j.metrics.AddNotificationsDispatched("retry", len(pending))
		if err := j.notificationRepo.RecordFailure(ctx, ids, MaxDeliveryAttempts); err != nil {
			j.logger.Error("Failed to record notification failure", zap.Error(err))
		}
		return
	}

	if err := j.notificationRepo.MarkSent(ctx, ids, time.Now().UTC()); err != nil {
		// rows stay pending and will be delivered again on the next run
		j.logger.Error("Failed to mark notifications sent", zap.Int("count", len(ids)), zap.Error(err))
		return
	}
	j.metrics.AddNotificationsDispatched("sent", len(pending))

	j.logger.Info("Notifications dispatched", zap.Int("count", len(pending)))
}

func toEvent(n *domain.Notification) client.NotificationEvent {
	event := client.NotificationEvent{
		ID:           n.ID,
		Type:         string(n.Type),
		TargetUserID: n.UserID,
		ResourceType: "comment",
		ResourceID:   n.CommentID,
		OccurredAt:   n.CreatedAt.UTC().Format(time.RFC3339),
	}
	if len(n.Payload) > 0 {
		var metadata map[string]interface{}
		if err := json.Unmarshal(n.Payload, &metadata); err == nil {
			event.Metadata = metadata
		}
	}
	return event
}
