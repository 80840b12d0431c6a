package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/staynest/booking-service/internal/app/config"
	"github.com/staynest/booking-service/internal/platform/logger"
)

// PhotoStorage uploads listing photos and returns a public URL.
type PhotoStorage interface {
	Upload(ctx context.Context, originalFileName string, data []byte) (string, error)
}

type minioStorage struct {
	client *minio.Client
	bucket string
	log    logger.Logger
}

func NewMinioStorage(ctx context.Context, cfg config.StorageConfig, log logger.Logger) (PhotoStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		exists, errBucketExists := client.BucketExists(ctx, cfg.Bucket)
		if errBucketExists != nil || !exists {
			return nil, fmt.Errorf("failed to make/verify bucket %s: (make: %v / exists_check: %v)", cfg.Bucket, err, errBucketExists)
		}
	}

	return &minioStorage{
		client: client,
		bucket: cfg.Bucket,
		log:    log,
	}, nil
}

func (s *minioStorage) Upload(ctx context.Context, originalFileName string, data []byte) (string, error) {
	ext := filepath.Ext(originalFileName)
	objectKey := fmt.Sprintf("photos/%s%s", uuid.New().String(), ext)

	info, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", objectKey, s.bucket, err)
	}
	s.log.Infof("Uploaded photo %s (%d bytes) to bucket %s", info.Key, info.Size, info.Bucket)

	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, objectKey), nil
}
