package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/johnquangdev/meeting-notes/pkg/config"
)

// TranscriptArchive stores raw meeting transcripts as objects
type TranscriptArchive interface {
	PutTranscript(ctx context.Context, meetingID uuid.UUID, transcript string) (string, error)
	BucketInfo(ctx context.Context) (map[string]interface{}, error)
}

// MinIOClient wraps MinIO operations
type MinIOClient struct {
	client *minio.Client
	bucket string
}

var _ TranscriptArchive = (*MinIOClient)(nil)

// NewMinIOClient creates a new MinIO client and makes sure the bucket exists
func NewMinIOClient(ctx context.Context, cfg *config.StorageConfig) (*MinIOClient, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	client := &MinIOClient{
		client: minioClient,
		bucket: cfg.BucketName,
	}

	if err := client.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return client, nil
}

// ensureBucket creates the bucket when missing. Transcripts stay private.
func (m *MinIOClient) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// TranscriptObjectName returns the object key for a meeting transcript
func TranscriptObjectName(meetingID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("transcripts/%s/%s.txt", at.UTC().Format("2006/01"), meetingID)
}

// PutTranscript uploads the transcript text and returns its object key
func (m *MinIOClient) PutTranscript(ctx context.Context, meetingID uuid.UUID, transcript string) (string, error) {
	objectName := TranscriptObjectName(meetingID, time.Now())

	_, err := m.client.PutObject(ctx, m.bucket, objectName, strings.NewReader(transcript), int64(len(transcript)), minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
		UserMetadata: map[string]string{
			"meeting-id": meetingID.String(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload transcript: %w", err)
	}

	return objectName, nil
}

// BucketInfo returns information about the bucket and connection
func (m *MinIOClient) BucketInfo(ctx context.Context) (map[string]interface{}, error) {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}

	return map[string]interface{}{
		"bucket":        m.bucket,
		"bucket_exists": exists,
		"endpoint":      m.client.EndpointURL().String(),
	}, nil
}
