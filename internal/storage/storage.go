package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// Package storage contains blob storage abstractions for uploaded files.
// Two backends exist: S3-compatible object storage (MinIO) and a local directory with a retention janitor.

// ErrInvalidKey is returned when a key would resolve outside the storage root.
var ErrInvalidKey = errors.New("invalid storage key")

// ErrObjectNotFound is returned by Get and PresignGet when no object exists under the key,
// typically because retention already removed it.
var ErrObjectNotFound = errors.New("object not found")

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and the implementation
// will buffer/chunk as supported by the backend.
// ContentType and Metadata are optional.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is a reusable blob storage interface.
// Methods use context and streaming readers; callers never see backend-specific paths.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	// The returned ObjectInfo.Size is the number of bytes actually stored.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
}

// Presigner is implemented by backends that can hand out credential-free download URLs.
type Presigner interface {
	// PresignGet returns a time-limited URL that can be used to download the object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
