package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"libraryfront/internal/config"
)

// maxPresignExpiry is the longest validity S3 accepts for a presigned URL.
const maxPresignExpiry = 7 * 24 * time.Hour

// minioStorage implements Storage on MinIO or any other S3-compatible backend.
// It is safe for concurrent use by multiple goroutines.
type minioStorage struct {
	client *minio.Client
	bucket string
	log    zerolog.Logger
}

// CheckConfig reports every missing setting in cfg at once.
func CheckConfig(cfg config.MinIOConfig) error {
	var errs []error
	if cfg.Endpoint == "" {
		errs = append(errs, errors.New("minio endpoint is required"))
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		errs = append(errs, errors.New("minio credentials are required"))
	}
	if cfg.Bucket == "" {
		errs = append(errs, errors.New("minio bucket is required"))
	}
	return errors.Join(errs...)
}

// NewMinIO connects to the object store and creates the report bucket when missing.
func NewMinIO(ctx context.Context, cfg config.MinIOConfig, log zerolog.Logger) (Storage, error) {
	if err := CheckConfig(cfg); err != nil {
		return nil, err
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check report bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create report bucket %q: %w", cfg.Bucket, err)
		}
		log.Info().Str("bucket", cfg.Bucket).Msg("report_bucket_created")
	}

	log.Info().Str("endpoint", cfg.Endpoint).Str("bucket", cfg.Bucket).Msg("report_archive_ready")
	return &minioStorage{client: cli, bucket: cfg.Bucket, log: log}, nil
}

func (m *minioStorage) Put(ctx context.Context, obj Object) (ObjectInfo, error) {
	if err := ValidateKey(obj.Key); err != nil {
		return ObjectInfo{}, err
	}
	info, err := m.client.PutObject(ctx, m.bucket, obj.Key, obj.Body, obj.Size, minio.PutObjectOptions{
		ContentType:        obj.ContentType,
		ContentDisposition: attachment(obj.Key),
		UserMetadata:       obj.Metadata,
	})
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("put %s: %w", obj.Key, err)
	}
	m.log.Debug().Str("key", obj.Key).Int64("size", info.Size).Msg("report_archived")
	return ObjectInfo{
		Key:       obj.Key,
		Size:      info.Size,
		ETag:      info.ETag,
		VersionID: info.VersionID,
		StoredAt:  time.Now(),
	}, nil
}

func (m *minioStorage) Remove(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (m *minioStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	if expiry <= 0 || expiry > maxPresignExpiry {
		return "", fmt.Errorf("presign %s: expiry %s out of range", key, expiry)
	}
	params := url.Values{}
	params.Set("response-content-disposition", attachment(key))
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, expiry, params)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return u.String(), nil
}

// attachment is the Content-Disposition that saves key under its base name.
func attachment(key string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": path.Base(key)})
}
