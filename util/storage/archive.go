package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/bwise1/love_map/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Archive keeps a copy of every export in an S3 compatible bucket.
type Archive struct {
	client *minio.Client
	bucket string
}

// NewArchive returns nil without an error when no endpoint is configured.
func NewArchive(cfg *config.Config) (*Archive, error) {
	if cfg.MinioEndpoint == "" {
		return nil, nil
	}
	if cfg.MinioAccessKey == "" || cfg.MinioSecretKey == "" {
		return nil, fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when MINIO_ENDPOINT is set")
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %v", err)
	}

	log.Println("[Archive]: using MinIO endpoint", cfg.MinioEndpoint)
	return &Archive{client: client, bucket: cfg.BackupBucket}, nil
}

func (a *Archive) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("error checking bucket existence: %v", err)
	}
	if !exists {
		return a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

// ObjectKey is where a user's backup file lands in the bucket.
func ObjectKey(userID int64, filename string) string {
	return fmt.Sprintf("backups/%d/%s", userID, filename)
}

// PutBackup stores data under key, replacing an earlier export of the same day.
func (a *Archive) PutBackup(ctx context.Context, key string, data []byte) error {
	if err := a.ensureBucket(ctx); err != nil {
		return err
	}
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to store backup in bucket %s: %v", a.bucket, err)
	}
	return nil
}
