// Package storage defines the object storage port used to archive
// submitted contract source, plus metadata types shared by its adapters.
package storage

import (
	"context"
	"io"
)

// ObjectMetadata describes an object being stored.
type ObjectMetadata struct {
	ContentType string
	Size        int64
}

// ObjectStorage abstracts the underlying object store so deployments can
// choose between the local filesystem and S3.
type ObjectStorage interface {
	// Put stores an object under the given key.
	Put(ctx context.Context, key string, reader io.Reader, metadata ObjectMetadata) error

	// Get retrieves an object by key.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists checks whether an object is present.
	Exists(ctx context.Context, key string) (bool, error)
}
