// Package cache holds the key-value cache adapters and the key layout shared
// by the catalog services and the snapshot updater.
package cache

import "context"

// Cache is a key-value store without expiry. Entries live until deleted.
type Cache interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}
