package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"

	"github.com/foxxcyber/bid-pricing/internal/config"
)

const exportsRoot = "inquiries/"

// ObjectStore is the storage surface used for exports
type ObjectStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (*UploadResult, error)
	GetPresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
	DeleteMultiple(ctx context.Context, keys []string) error
}

// StorageService keeps rendered exports in an S3-compatible bucket. Keys
// passed in are relative; the configured prefix is applied here.
type StorageService struct {
	client        *minio.Client
	bucketName    string
	region        string
	prefix        string
	retentionDays int
}

// UploadResult describes a stored export object
type UploadResult struct {
	Bucket      string
	Key         string
	Size        int64
	ContentType string
	ETag        string
}

// NewStorageService creates an export store from config
func NewStorageService(cfg config.StorageConfig) (*StorageService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	return &StorageService{
		client:        client,
		bucketName:    cfg.Bucket,
		region:        cfg.Region,
		prefix:        normalizePrefix(cfg.Prefix),
		retentionDays: cfg.RetentionDays,
	}, nil
}

// EnsureBucket creates the bucket if needed and applies export retention
func (s *StorageService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	rules := retentionRules(s.objectKey(exportsRoot), s.retentionDays)
	if rules == nil {
		return nil
	}
	if err := s.client.SetBucketLifecycle(ctx, s.bucketName, rules); err != nil {
		return fmt.Errorf("failed to set export retention: %w", err)
	}
	return nil
}

// Upload stores an export so that browsers download it under a readable name
func (s *StorageService) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (*UploadResult, error) {
	info, err := s.client.PutObject(ctx, s.bucketName, s.objectKey(key), reader, size, minio.PutObjectOptions{
		ContentType:        contentType,
		ContentDisposition: attachmentDisposition(key),
		CacheControl:       "private, no-store",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload export: %w", err)
	}

	return &UploadResult{
		Bucket:      info.Bucket,
		Key:         key,
		Size:        info.Size,
		ContentType: contentType,
		ETag:        info.ETag,
	}, nil
}

// GetPresignedURL returns a temporary download link for an export
func (s *StorageService) GetPresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	params := url.Values{}
	params.Set("response-content-disposition", attachmentDisposition(key))

	u, err := s.client.PresignedGetObject(ctx, s.bucketName, s.objectKey(key), expiry, params)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return u.String(), nil
}

// Delete removes one export object
func (s *StorageService) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucketName, s.objectKey(key), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// DeleteMultiple removes the export objects of an inquiry. Every failure is
// reported, not just the first.
func (s *StorageService) DeleteMultiple(ctx context.Context, keys []string) error {
	keys = s.objectKeys(keys)
	if len(keys) == 0 {
		return nil
	}

	objectsCh := make(chan minio.ObjectInfo)
	go func() {
		defer close(objectsCh)
		for _, key := range keys {
			select {
			case objectsCh <- minio.ObjectInfo{Key: key}:
			case <-ctx.Done():
				return
			}
		}
	}()

	var errs []error
	for rerr := range s.client.RemoveObjects(ctx, s.bucketName, objectsCh, minio.RemoveObjectsOptions{}) {
		if rerr.Err != nil {
			errs = append(errs, fmt.Errorf("failed to delete object %s: %w", rerr.ObjectName, rerr.Err))
		}
	}
	return errors.Join(errs...)
}

func (s *StorageService) objectKey(key string) string {
	return s.prefix + strings.TrimLeft(key, "/")
}

// objectKeys prefixes keys, dropping blanks and duplicates
func (s *StorageService) objectKeys(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if strings.TrimSpace(k) == "" {
			continue
		}
		full := s.objectKey(k)
		if seen[full] {
			continue
		}
		seen[full] = true
		out = append(out, full)
	}
	return out
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

// exportFilename turns "inquiries/7/20240305T143000Z.csv" into
// "inquiry-7-20240305T143000Z.csv"
func exportFilename(key string) string {
	parts := strings.Split(strings.Trim(key, "/"), "/")
	if len(parts) == 3 && parts[0]+"/" == exportsRoot {
		return "inquiry-" + parts[1] + "-" + parts[2]
	}
	return path.Base(key)
}

func attachmentDisposition(key string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": exportFilename(key)})
}

// retentionRules expires exports under prefix after days. Nil when retention
// is disabled.
func retentionRules(prefix string, days int) *lifecycle.Configuration {
	if days <= 0 {
		return nil
	}
	cfg := lifecycle.NewConfiguration()
	cfg.Rules = []lifecycle.Rule{{
		ID:         "expire-pricing-exports",
		Status:     "Enabled",
		RuleFilter: lifecycle.Filter{Prefix: prefix},
		Expiration: lifecycle.Expiration{Days: lifecycle.ExpirationDays(days)},
	}}
	return cfg
}
