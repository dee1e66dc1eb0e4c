// Package testutil provides an in-memory SQLite database with the service schema.
package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tinkbyte-api/internal/domain"
)

// schema mirrors the gorm models. AutoMigrate cannot be used on SQLite because
// of the gen_random_uuid() defaults.
var schema = []string{
	`CREATE TABLE profiles (
		id TEXT PRIMARY KEY,
		display_name TEXT,
		avatar_url TEXT,
		is_admin BOOLEAN NOT NULL DEFAULT 0,
		is_blocked BOOLEAN NOT NULL DEFAULT 0,
		reputation INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE articles (
		id TEXT PRIMARY KEY,
		slug TEXT UNIQUE,
		title TEXT,
		comments_enabled BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE comments (
		id TEXT PRIMARY KEY,
		article_id TEXT NOT NULL,
		parent_id TEXT,
		author_id TEXT,
		guest_name TEXT,
		content TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		depth INTEGER NOT NULL DEFAULT 0,
		is_deleted BOOLEAN NOT NULL DEFAULT 0,
		like_count INTEGER NOT NULL DEFAULT 0,
		report_count INTEGER NOT NULL DEFAULT 0,
		moderation_reason TEXT,
		edited_at DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE comment_likes (
		id TEXT PRIMARY KEY,
		comment_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE (comment_id, user_id)
	)`,
	`CREATE TABLE comment_moderation (
		id TEXT PRIMARY KEY,
		comment_id TEXT NOT NULL,
		moderator_id TEXT,
		action TEXT NOT NULL,
		reason TEXT,
		previous_status TEXT,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE comment_reports (
		id TEXT PRIMARY KEY,
		comment_id TEXT NOT NULL,
		reporter_id TEXT NOT NULL,
		reason TEXT NOT NULL,
		details TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE (comment_id, reporter_id)
	)`,
	`CREATE TABLE notifications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		comment_id TEXT,
		payload TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		attempts INTEGER NOT NULL DEFAULT 0,
		sent_at DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
}

// NewDB opens a fresh in-memory database with every table created
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to open test database")

	// every pooled connection would get its own empty :memory: database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, ddl := range schema {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

// CreateArticle inserts an article that accepts comments
func CreateArticle(t testing.TB, db *gorm.DB) *domain.Article {
	t.Helper()
	id := uuid.New()
	article := &domain.Article{
		BaseModel:       domain.BaseModel{ID: id},
		Slug:            "article-" + id.String()[:8],
		Title:           "Test article",
		CommentsEnabled: true,
	}
	require.NoError(t, db.Create(article).Error)
	return article
}

// CreateProfile inserts a profile. mutate may adjust it before the insert.
func CreateProfile(t testing.TB, db *gorm.DB, mutate func(p *domain.Profile)) *domain.Profile {
	t.Helper()
	profile := &domain.Profile{ID: uuid.New(), DisplayName: "reader"}
	if mutate != nil {
		mutate(profile)
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

// CreateComment inserts a comment on article. mutate may adjust it before the insert.
func CreateComment(t testing.TB, db *gorm.DB, articleID uuid.UUID, mutate func(c *domain.Comment)) *domain.Comment {
	t.Helper()
	comment := &domain.Comment{
		ArticleID: articleID,
		Content:   "comment body",
		Status:    domain.CommentStatusApproved,
	}
	if mutate != nil {
		mutate(comment)
	}
	require.NoError(t, db.Omit("Author").Create(comment).Error)
	return comment
}
