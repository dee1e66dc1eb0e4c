package client

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// MockS3Client implements S3ClientInterface for testing without AWS credentials
type MockS3Client struct {
	Bucket string
	Region string

	GeneratePresignedURLFunc func(ctx context.Context, userID uuid.UUID, fileName, contentType string) (string, string, error)
	GetFileURLFunc           func(key string) string
}

// NewMockS3Client creates a new mock S3 client for testing
func NewMockS3Client() *MockS3Client {
	return &MockS3Client{
		Bucket: "test-bucket",
		Region: "ap-northeast-2",
	}
}

func (m *MockS3Client) GenerateAvatarKey(userID uuid.UUID, fileExt string) string {
	return avatarKey(userID, fileExt, time.Now())
}

func (m *MockS3Client) GeneratePresignedURL(ctx context.Context, userID uuid.UUID, fileName, contentType string) (string, string, error) {
	if m.GeneratePresignedURLFunc != nil {
		return m.GeneratePresignedURLFunc(ctx, userID, fileName, contentType)
	}
	key := m.GenerateAvatarKey(userID, filepath.Ext(fileName))
	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s?X-Amz-Expires=300", m.Bucket, m.Region, key)
	return url, key, nil
}

func (m *MockS3Client) GetFileURL(key string) string {
	if m.GetFileURLFunc != nil {
		return m.GetFileURLFunc(key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.Bucket, m.Region, key)
}
