package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOConfig holds connection settings for an S3-compatible object store.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL is the base URL clients fetch objects from. Defaults to
	// the endpoint URL.
	PublicURL string
}

// MinIO stores images in an S3-compatible bucket readable by anyone.
type MinIO struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// readPolicy lets anonymous clients fetch car images but not list the bucket.
const readPolicy = `{
  "Version": "2012-10-17",
  "Statement": [{
    "Effect": "Allow",
    "Principal": {"AWS": ["*"]},
    "Action": ["s3:GetObject"],
    "Resource": ["arn:aws:s3:::%s/%s*"]
  }]
}`

// NewMinIO connects to the object store and makes sure the bucket exists
// and is publicly readable.
func NewMinIO(ctx context.Context, cfg MinIOConfig) (*MinIO, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client for %s: %w", cfg.Endpoint, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("creating bucket %s: %w", cfg.Bucket, err)
		}
		slog.Info("created bucket", "bucket", cfg.Bucket)
	}

	policy := fmt.Sprintf(readPolicy, cfg.Bucket, KeyPrefix)
	if err := client.SetBucketPolicy(ctx, cfg.Bucket, policy); err != nil {
		return nil, fmt.Errorf("setting bucket policy: %w", err)
	}

	base := cfg.PublicURL
	if base == "" {
		base = client.EndpointURL().String()
	}

	return &MinIO{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(base, "/") + "/" + cfg.Bucket + "/",
	}, nil
}

// Put implements Storage.
func (s *MinIO) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType:  contentType,
			CacheControl: "public, max-age=31536000, immutable",
		})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}
	return s.baseURL + key, nil
}

// Delete implements Storage.
func (s *MinIO) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

// Key implements Storage.
func (s *MinIO) Key(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, s.baseURL)
	if !ok || !strings.HasPrefix(key, KeyPrefix) {
		return "", false
	}
	return key, true
}
