// Package filestore is the object storage contract the exporter writes
// metadata documents through. Providers live in sub-packages; callers depend
// only on this package.
//
// Usage:
//
//	cfg := filestore.DefaultConfig("localhost:9000", "minioadmin", "minioadmin")
//	store, err := minio.New(ctx, cfg)
//	if err != nil { ... }
//	defer store.Close()
//
//	info, err := store.PutObject(ctx, "metadata", "orders/metadata.json", r, n, "application/json")
package filestore

import (
	"context"
	"io"
	"time"
)

// Store is the interface storage providers implement.
type Store interface {
	// Ping verifies the storage backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any held resources.
	Close() error

	// BucketExists reports whether bucket exists and is accessible.
	BucketExists(ctx context.Context, bucket string) (bool, error)

	// PutObject uploads size bytes from r to key inside bucket, replacing
	// any existing object.
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) (*ObjectInfo, error)

	// StatObject returns metadata for the object at key inside bucket
	// without downloading its content.
	StatObject(ctx context.Context, bucket, key string) (*ObjectInfo, error)
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Bucket       string    `json:"bucket" yaml:"bucket"`
	Key          string    `json:"key" yaml:"key"`
	Size         int64     `json:"size" yaml:"size"`
	ContentType  string    `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	ETag         string    `json:"etag,omitempty" yaml:"etag,omitempty"`
	LastModified time.Time `json:"last_modified" yaml:"last_modified"`
}
