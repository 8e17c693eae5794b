// Package factory constructs the configured object storage adapter.
package factory

import (
	"context"
	"fmt"

	"github.com/anshuman444/hacknovation2.0/internal/config"
	"github.com/anshuman444/hacknovation2.0/internal/observability"
	"github.com/anshuman444/hacknovation2.0/internal/storage"
	"github.com/anshuman444/hacknovation2.0/internal/storage/fs"
	"github.com/anshuman444/hacknovation2.0/internal/storage/s3"
)

// New creates the adapter named by cfg.Adapters.Storage. The "none"
// adapter is handled by the caller; asking the factory for it is an
// error.
func New(ctx context.Context, cfg *config.Config, logger observability.Logger) (storage.ObjectStorage, error) {
	switch cfg.Adapters.Storage {
	case "filesystem":
		logger.Info(ctx, "Creating filesystem storage adapter", observability.Fields{
			"path": cfg.Storage.BucketOrPath,
		})
		return fs.New(cfg.Storage.BucketOrPath, logger)

	case "s3":
		logger.Info(ctx, "Creating S3 storage adapter", observability.Fields{
			"bucket": cfg.Storage.BucketOrPath,
			"region": cfg.Storage.S3.Region,
		})
		return s3.New(ctx, &cfg.Storage, logger)

	default:
		return nil, fmt.Errorf("unsupported storage adapter: %s", cfg.Adapters.Storage)
	}
}
