package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tinkbyte-api/internal/domain"
)

// NotificationRepository is the notification outbox
type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []*domain.Notification) error
	FindPending(ctx context.Context, limit int) ([]*domain.Notification, error)
	MarkSent(ctx context.Context, ids []uuid.UUID, sentAt time.Time) error
	// RecordFailure bumps attempts and marks rows failed once they reach maxAttempts
	RecordFailure(ctx context.Context, ids []uuid.UUID, maxAttempts int) error
}

type notificationRepositoryImpl struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new instance of NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepositoryImpl{db: db}
}

func (r *notificationRepositoryImpl) CreateBatch(ctx context.Context, notifications []*domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notifications).Error
}

// FindPending returns the oldest pending rows first
func (r *notificationRepositoryImpl) FindPending(ctx context.Context, limit int) ([]*domain.Notification, error) {
	var notifications []*domain.Notification
	if err := r.db.WithContext(ctx).
		Where("status = ?", domain.NotificationStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepositoryImpl) MarkSent(ctx context.Context, ids []uuid.UUID, sentAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":  domain.NotificationStatusSent,
			"sent_at": sentAt,
		}).Error
}

func (r *notificationRepositoryImpl) RecordFailure(ctx context.Context, ids []uuid.UUID, maxAttempts int) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Notification{}).
			Where("id IN ?", ids).
			UpdateColumn("attempts", gorm.Expr("attempts + ?", 1)).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Notification{}).
			Where("id IN ? AND attempts >= ?", ids, maxAttempts).
			Update("status", domain.NotificationStatusFailed).Error
	})
}
