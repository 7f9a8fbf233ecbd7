package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/templui/ahorros/internal/config"
)

var ErrNotFound = errors.New("blob not found")

// Store is a flat key/value blob store. The local backend keeps one blob per
// collection and rewrites it on every mutation.
type Store interface {
	// Get returns the blob stored at key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the blob stored at key.
	Put(ctx context.Context, key string, data []byte) error

	// Delete removes the blob at key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// New returns the blob store selected by BLOB_DRIVER.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.BlobDriver {
	case config.BlobS3:
		return NewS3Store(ctx, S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
			Prefix:    cfg.S3Prefix,
		})
	case config.BlobFile, "":
		return NewFileStore(cfg.BlobDir)
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.BlobDriver)
	}
}
