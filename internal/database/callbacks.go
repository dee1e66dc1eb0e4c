package database

import (
	"time"

	"gorm.io/gorm"
)

// MetricsRecorder is an interface for recording database metrics
type MetricsRecorder interface {
	RecordDBQuery(operation, table string, duration time.Duration, err error)
	UpdateDBStats(stats interface{})
}

const startTimeKey = "metrics:start_time"

type registrar interface {
	Register(name string, fn func(*gorm.DB)) error
}

// RegisterMetricsCallbacks times every query, create, update, delete and raw
// statement issued through db
func RegisterMetricsCallbacks(db *gorm.DB, recorder MetricsRecorder) error {
	cb := db.Callback()
	steps := []error{
		timed(cb.Query().Before("gorm:query"), cb.Query().After("gorm:query"), "select", recorder),
		timed(cb.Create().Before("gorm:create"), cb.Create().After("gorm:create"), "insert", recorder),
		timed(cb.Update().Before("gorm:update"), cb.Update().After("gorm:update"), "update", recorder),
		timed(cb.Delete().Before("gorm:delete"), cb.Delete().After("gorm:delete"), "delete", recorder),
		timed(cb.Raw().Before("gorm:raw"), cb.Raw().After("gorm:raw"), "raw", recorder),
	}
	for _, err := range steps {
		if err != nil {
			return err
		}
	}
	return nil
}

func timed[R registrar](before, after R, operation string, recorder MetricsRecorder) error {
	if err := before.Register("metrics:"+operation+"_before", func(tx *gorm.DB) {
		tx.InstanceSet(startTimeKey, time.Now())
	}); err != nil {
		return err
	}
	return after.Register("metrics:"+operation+"_after", func(tx *gorm.DB) {
		start, ok := tx.InstanceGet(startTimeKey)
		if !ok {
			return
		}
		table := tx.Statement.Table
		if table == "" {
			table = "unknown"
		}
		recorder.RecordDBQuery(operation, table, time.Since(start.(time.Time)), tx.Error)
	})
}

// StartDBStatsCollector reports connection pool stats every interval until the
// returned channel is closed
func StartDBStatsCollector(db *gorm.DB, recorder MetricsRecorder, interval time.Duration) chan struct{} {
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					continue
				}
				recorder.UpdateDBStats(sqlDB.Stats())
			case <-done:
				return
			}
		}
	}()

	return done
}
