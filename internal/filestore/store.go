// Package filestore defines the read-only object store interface used to
// fetch model documents that live outside the local file system.
//
// Usage:
//
//	cfg := filestore.DefaultConfig("localhost:9000", "minioadmin", "minioadmin")
//	store, err := minio.New(cfg)
//	if err != nil { ... }
//	defer store.Close()
//	if err := store.Ping(ctx); err != nil { ... }
//
//	obj, err := store.GetObject(ctx, "schemas", "db/models.yml")
package filestore

import "context"

// Store is implemented by every object storage provider.
type Store interface {
	// Ping verifies the storage backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any held resources.
	Close() error

	// GetObject opens a streaming handle to the object at key inside bucket.
	// The caller MUST call Object.Close() after reading.
	GetObject(ctx context.Context, bucket, key string) (Object, error)
}
