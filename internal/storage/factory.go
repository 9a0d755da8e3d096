package storage

import (
	"fmt"

	"github.com/memelab/memelab/internal/config"
)

// NewResolver creates the asset resolver for the configured backend.
// Parameters:
//   - cfg: storage configuration including backend, endpoint, and credentials.
// Returns:
//   - AssetResolver: resolver for offline asset base URLs.
//   - error: non-nil if the storage client cannot be created.
func NewResolver(cfg *config.StorageConfig) (AssetResolver, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocalResolver(), nil
	case "s3":
		return NewS3Storage(&S3Config{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			UseSSL:    cfg.UseSSL,
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			PublicURL: cfg.PublicURL,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
