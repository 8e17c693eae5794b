// Package fs implements object storage on the local filesystem.
package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/anshuman444/hacknovation2.0/internal/observability"
	"github.com/anshuman444/hacknovation2.0/internal/storage"
)

// Storage stores objects as files under a base path.
type Storage struct {
	basePath string
	logger   observability.Logger
}

// New creates the base directory if needed and returns the adapter.
func New(basePath string, logger observability.Logger) (*Storage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base path: %w", err)
	}
	return &Storage{basePath: basePath, logger: logger}, nil
}

var _ storage.ObjectStorage = (*Storage)(nil)

func (s *Storage) Put(ctx context.Context, key string, reader io.Reader, _ storage.ObjectMetadata) error {
	path, err := s.objectPath(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create object file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to write object: %w", err)
	}

	s.logger.Debug(ctx, "Stored object", observability.Fields{"key": key})
	return nil
}

func (s *Storage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := s.objectPath(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open object: %w", err)
	}
	return file, nil
}

func (s *Storage) Exists(_ context.Context, key string) (bool, error) {
	path, err := s.objectPath(key)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// objectPath maps a key onto the base path, rejecting traversal.
func (s *Storage) objectPath(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid object key: %s", key)
	}
	return filepath.Join(s.basePath, clean), nil
}
