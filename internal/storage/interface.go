package storage

import (
	"context"
	"fmt"

	"github.com/jaki95/media-toolkit/config"
)

// Storage decides where finished downloads end up.
type Storage interface {
	// Publish makes a file that was fully written to localPath available at
	// its final location and returns that location.
	Publish(ctx context.Context, localPath string) (string, error)

	// Exists reports whether a published location is present.
	Exists(ctx context.Context, location string) bool

	Close() error
}

// New builds the storage backend selected by cfg.Type.
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalFileStorage(), nil
	case "gcs":
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("gcs storage requires a bucket")
		}
		return NewGCSStorage(ctx, cfg.Bucket, cfg.ObjectPrefix, cfg.CredentialsFile, cfg.PublicBaseURL)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
