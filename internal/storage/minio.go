package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"pdfchat/internal/config"
)

// minioStorage implements the Storage interface using an S3-compatible backend (MinIO, AWS S3, etc.).
// It is safe for concurrent use by multiple goroutines.
type minioStorage struct {
	client *minio.Client
	bucket string
}

var (
	_ Storage   = (*minioStorage)(nil)
	_ Presigner = (*minioStorage)(nil)
)

// NewMinIO creates a new S3-compatible storage client backed by MinIO.
// It validates connectivity, ensures the bucket exists (creates it if missing) and,
// when retention is positive, installs an expiration rule for objects under prefix.
func NewMinIO(ctx context.Context, cfg config.MinIOConfig, prefix string, retention time.Duration) (Storage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ms := &minioStorage{client: cli, bucket: cfg.Bucket}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Ensure bucket exists.
	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	if retention > 0 {
		if err := ms.ensureExpiration(ctx, prefix, retention); err != nil {
			return nil, err
		}
	}

	return ms, nil
}

const (
	expirationRuleID = "expire-uploads"

	codeNoSuchKey       = "NoSuchKey"
	codeNoSuchLifecycle = "NoSuchLifecycleConfiguration"
)

// ensureExpiration upserts the uploads expiration rule, keeping every other rule on the bucket.
func (m *minioStorage) ensureExpiration(ctx context.Context, prefix string, retention time.Duration) error {
	existing, err := m.client.GetBucketLifecycle(ctx, m.bucket)
	if err != nil {
		if minio.ToErrorResponse(err).Code != codeNoSuchLifecycle {
			return fmt.Errorf("get bucket lifecycle: %w", err)
		}
		existing = nil
	}
	if err := m.client.SetBucketLifecycle(ctx, m.bucket, withExpirationRule(existing, prefix, retention)); err != nil {
		return fmt.Errorf("set bucket lifecycle: %w", err)
	}
	return nil
}

// withExpirationRule returns a copy of existing with the uploads rule replaced or appended.
func withExpirationRule(existing *lifecycle.Configuration, prefix string, retention time.Duration) *lifecycle.Configuration {
	lc := lifecycle.NewConfiguration()
	if existing != nil {
		for _, r := range existing.Rules {
			if r.ID != expirationRuleID {
				lc.Rules = append(lc.Rules, r)
			}
		}
	}
	lc.Rules = append(lc.Rules, expirationRule(prefix, retention))
	return lc
}

// expirationRule converts retention to whole days, the only granularity S3 lifecycle supports.
func expirationRule(prefix string, retention time.Duration) lifecycle.Rule {
	days := int((retention + 24*time.Hour - 1) / (24 * time.Hour))
	if days < 1 {
		days = 1
	}

	return lifecycle.Rule{
		ID:         expirationRuleID,
		Status:     "Enabled",
		RuleFilter: lifecycle.Filter{Prefix: prefix},
		Expiration: lifecycle.Expiration{Days: lifecycle.ExpirationDays(days)},
	}
}

// mapNotFound turns a NoSuchKey response into ErrObjectNotFound.
func mapNotFound(err error, key string) error {
	if minio.ToErrorResponse(err).Code == codeNoSuchKey {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, key)
	}
	return err
}

// Put uploads an object using streaming I/O only (no local disk).
func (m *minioStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	putOpts := minio.PutObjectOptions{
		ContentType:  opt.ContentType,
		UserMetadata: opt.Metadata,
	}
	info, err := m.client.PutObject(ctx, m.bucket, key, r, opt.Size, putOpts)
	if err != nil {
		return ObjectInfo{}, err
	}
	return ObjectInfo{
		Key:          key,
		Size:         info.Size,
		ETag:         info.ETag,
		ContentType:  opt.ContentType,
		LastModified: time.Now(), // MinIO PutObjectInfo doesn't return LastModified
		Metadata:     opt.Metadata,
	}, nil
}

// Get downloads an object content as a ReadCloser along with basic info.
func (m *minioStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	// Fetch stat to populate info; avoid reading content into memory.
	st, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, ObjectInfo{}, mapNotFound(err, key)
	}
	info := ObjectInfo{
		Key:          key,
		Size:         st.Size,
		ETag:         st.ETag,
		ContentType:  st.ContentType,
		LastModified: st.LastModified,
		Metadata:     st.UserMetadata,
	}
	return obj, info, nil
}

// Delete removes an object by key.
func (m *minioStorage) Delete(ctx context.Context, key string) error {
	return m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
}

// PresignGet generates a pre-signed URL for GET with the specified expiry.
// The object is stat'ed first so an expired upload is reported instead of signed.
func (m *minioStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if _, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{}); err != nil {
		return "", mapNotFound(err, key)
	}
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
