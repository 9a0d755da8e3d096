package storage

import (
	"context"
	"io"
)

// ObjectStorage defines the interface for object storage operations.
type ObjectStorage interface {
	// Upload uploads an object to storage
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Exists checks if an object exists
	Exists(ctx context.Context, key string) (bool, error)

	// URL returns the public URL for accessing an object
	URL(key string) string
}

// AssetResolver resolves the absolute base URL under which the offline
// fallback assets are reachable. The local backend serves them from the API
// process itself, so the base depends on the incoming request; the S3
// backend serves them from a bucket with a fixed public URL.
type AssetResolver interface {
	// Base returns the asset base URL. requestBase is the scheme://host of
	// the current request and is only consulted by the local backend.
	Base(requestBase string) string
}
