package client

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	appConfig "tinkbyte-api/internal/config"
)

// PresignExpiry is how long an avatar upload URL stays valid
const PresignExpiry = 5 * time.Minute

// S3ClientInterface defines the avatar storage operations
type S3ClientInterface interface {
	GenerateAvatarKey(userID uuid.UUID, fileExt string) string
	GeneratePresignedURL(ctx context.Context, userID uuid.UUID, fileName, contentType string) (string, string, error)
	GetFileURL(key string) string
}

// S3Client wraps the AWS S3 presign client
type S3Client struct {
	presignClient *s3.PresignClient
	bucket        string
	region        string
	endpoint      string // set for MinIO / local S3
}

// NewS3Client creates a new S3 client
func NewS3Client(cfg *appConfig.S3Config) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("S3 region is required")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.Endpoint != "" {
		if cfg.AccessKey == "" || cfg.SecretKey == "" {
			return nil, fmt.Errorf("access key and secret key are required for a custom endpoint")
		}
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	// default credential chain (IAM role, ~/.aws) when no keys are configured
	awsCfg, err := config.LoadDefaultConfig(context.TODO(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Client{
		presignClient: s3.NewPresignClient(s3Client),
		bucket:        cfg.Bucket,
		region:        cfg.Region,
		endpoint:      strings.TrimSuffix(cfg.Endpoint, "/"),
	}, nil
}

// GenerateAvatarKey returns a unique key
// Format: avatars/{userId}/{year}/{month}/{uuid}_{timestamp}.ext
func (c *S3Client) GenerateAvatarKey(userID uuid.UUID, fileExt string) string {
	return avatarKey(userID, fileExt, time.Now())
}

func avatarKey(userID uuid.UUID, fileExt string, now time.Time) string {
	return fmt.Sprintf("avatars/%s/%s/%s/%s_%d%s",
		userID, now.Format("2006"), now.Format("01"), uuid.New(), now.Unix(), strings.ToLower(fileExt))
}

// GeneratePresignedURL returns a presigned PUT URL and the object key
func (c *S3Client) GeneratePresignedURL(ctx context.Context, userID uuid.UUID, fileName, contentType string) (string, string, error) {
	fileKey := c.GenerateAvatarKey(userID, filepath.Ext(fileName))

	presignedReq, err := c.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(fileKey),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = PresignExpiry
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return presignedReq.URL, fileKey, nil
}

// GetFileURL returns the public URL for a key
func (c *S3Client) GetFileURL(key string) string {
	if c.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", c.endpoint, c.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, key)
}
