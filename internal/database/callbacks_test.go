package database

import (
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type queryRecord struct {
	operation string
	table     string
	duration  time.Duration
	err       error
}

type mockMetricsRecorder struct {
	mu      sync.Mutex
	queries []queryRecord
	stats   []sql.DBStats
}

func (m *mockMetricsRecorder) RecordDBQuery(operation, table string, duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, queryRecord{operation, table, duration, err})
}

func (m *mockMetricsRecorder) UpdateDBStats(stats interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := stats.(sql.DBStats); ok {
		m.stats = append(m.stats, s)
	}
}

func (m *mockMetricsRecorder) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = nil
}

func (m *mockMetricsRecorder) statsCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stats)
}

type testModel struct {
	ID   string `gorm:"type:text;primaryKey"`
	Name string `gorm:"type:varchar(255)"`
}

func (testModel) TableName() string {
	return "test_models"
}

func setupTestDB(t *testing.T) (*gorm.DB, *mockMetricsRecorder) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE TABLE test_models (id TEXT PRIMARY KEY, name VARCHAR(255))`).Error)

	recorder := &mockMetricsRecorder{}
	require.NoError(t, RegisterMetricsCallbacks(db, recorder))
	return db, recorder
}

func TestRegisterMetricsCallbacks(t *testing.T) {
	tests := []struct {
		name      string
		run       func(db *gorm.DB, row *testModel) error
		operation string
		wantErr   bool
	}{
		{"select", func(db *gorm.DB, row *testModel) error {
			var out testModel
			return db.First(&out, "id = ?", row.ID).Error
		}, "select", false},
		{"select miss", func(db *gorm.DB, row *testModel) error {
			var out testModel
			return db.First(&out, "id = ?", uuid.New().String()).Error
		}, "select", true},
		{"insert", func(db *gorm.DB, row *testModel) error {
			return db.Create(&testModel{ID: uuid.New().String(), Name: "new"}).Error
		}, "insert", false},
		{"insert duplicate", func(db *gorm.DB, row *testModel) error {
			return db.Create(&testModel{ID: row.ID, Name: "dup"}).Error
		}, "insert", true},
		{"update", func(db *gorm.DB, row *testModel) error {
			return db.Model(row).Update("name", "updated").Error
		}, "update", false},
		{"delete", func(db *gorm.DB, row *testModel) error {
			return db.Delete(row).Error
		}, "delete", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, recorder := setupTestDB(t)
			row := &testModel{ID: uuid.New().String(), Name: "seed"}
			require.NoError(t, db.Create(row).Error)
			recorder.reset()

			err := tt.run(db, row)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			require.Len(t, recorder.queries, 1)
			q := recorder.queries[0]
			assert.Equal(t, tt.operation, q.operation)
			assert.Equal(t, "test_models", q.table)
			assert.GreaterOrEqual(t, q.duration, time.Duration(0))
			assert.Equal(t, tt.wantErr, q.err != nil)
		})
	}
}

func TestRegisterMetricsCallbacks_Raw(t *testing.T) {
	db, recorder := setupTestDB(t)

	require.NoError(t, db.Exec("UPDATE test_models SET name = ?", "x").Error)

	require.Len(t, recorder.queries, 1)
	assert.Equal(t, "raw", recorder.queries[0].operation)
	assert.Equal(t, "unknown", recorder.queries[0].table)
}

func TestStartDBStatsCollector(t *testing.T) {
	db, recorder := setupTestDB(t)

	done := StartDBStatsCollector(db, recorder, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return recorder.statsCount() > 0 }, time.Second, 5*time.Millisecond)
	close(done)
}
