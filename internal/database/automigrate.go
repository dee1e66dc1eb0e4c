package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tinkbyte-api/internal/domain"
)

// Models lists every table this service migrates. articles is owned by the CMS
// and only created here when it is missing (local development).
func Models() []interface{} {
	return []interface{}{
		&domain.Profile{},
		&domain.Article{},
		&domain.Comment{},
		&domain.CommentLike{},
		&domain.CommentModeration{},
		&domain.CommentReport{},
		&domain.Notification{},
	}
}

// AutoMigrate creates missing tables, columns and indexes for all models
func AutoMigrate(db *gorm.DB, logger *zap.Logger) error {
	migrator := db.Migrator()

	for _, model := range Models() {
		existed := migrator.HasTable(model)
		if err := db.AutoMigrate(model); err != nil {
			logger.Error("Failed to migrate table",
				zap.String("model", fmt.Sprintf("%T", model)),
				zap.Bool("table_existed", existed),
				zap.Error(err),
			)
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
		logger.Debug("Migrated table",
			zap.String("model", fmt.Sprintf("%T", model)),
			zap.Bool("table_existed", existed),
		)
	}

	logger.Info("Database migrations completed", zap.Int("tables", len(Models())))
	return nil
}
