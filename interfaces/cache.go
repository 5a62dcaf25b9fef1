package interfaces

import (
	"context"
	"time"
)

// Cache represents a TTL-bearing key/value cache with prefix listing.
//
//go:generate moq -stub -out mock/cache.go -pkg mock . Cache
type Cache[T any] interface {
	// WriteValue writes value in cache with the given TTL. A zero TTL means no expiry.
	// Returns:
	// 1) nil on success;
	// 2) internal_server_error when marshalling fails;
	// 3) unavailable when the storage write fails.
	WriteValue(ctx context.Context, key string, item T, ttl time.Duration) error

	// ListValues returns all values whose key starts with keyPrefix.
	// Returns:
	// 1) (items, nil), possibly empty, when listing succeeded; unreadable values are skipped;
	// 2) (nil, unavailable) when listing keys fails.
	ListValues(ctx context.Context, keyPrefix string) ([]T, error)

	// DeleteValue deletes the value for the given key. Deleting an absent key is not an error.
	// Returns:
	// 1) nil on success;
	// 2) unavailable when the storage delete fails.
	DeleteValue(ctx context.Context, key string) error
}
