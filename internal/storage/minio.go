package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/busdepo/marketplace-api/internal/config"
)

// MinIOStorage implements Storage on a MinIO (S3-compatible) backend.
type MinIOStorage struct {
	client        *minio.Client
	publicBaseURL string
}

// NewMinIOStorage connects to MinIO and ensures the listing buckets
// exist.
func NewMinIOStorage(ctx context.Context, cfg config.MinIO) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio.New error: %w", err)
	}

	s := &MinIOStorage{
		client:        client,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}

	for _, bucket := range []string{cfg.VehiclesBucket, cfg.SparesBucket} {
		if err := s.ensureBucket(ctx, bucket, cfg.Region); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *MinIOStorage) ensureBucket(ctx context.Context, bucket, region string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %q: %w", bucket, err)
	}
	if exists {
		return nil
	}
	err = s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region})
	if err != nil {
		return fmt.Errorf("creating bucket %q: %w", bucket, err)
	}
	return nil
}

// Upload stores the object and returns its public URL.
func (s *MinIOStorage) Upload(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"uploaded-at": time.Now().Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", fmt.Errorf("uploading %s/%s: %w", bucket, key, err)
	}
	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, bucket, key), nil
}

// Remove deletes the object. Missing objects are not an error.
func (s *MinIOStorage) Remove(ctx context.Context, bucket, key string) error {
	err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("removing %s/%s: %w", bucket, key, err)
	}
	return nil
}
