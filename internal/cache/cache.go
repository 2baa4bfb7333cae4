package cache

import (
	"context"
)

// TokenCache stores issued tokens by key. The token manager keys entries by
// account ID, so the number of entries is bounded by the distinct accounts a
// process acts on.
type TokenCache[T any] interface {
	// Get retrieves a token from the cache.
	// Returns the token, whether it was found, and any error.
	Get(ctx context.Context, key string) (T, bool, error)

	// Set stores a token in the cache, replacing any existing entry.
	Set(ctx context.Context, key string, token T) error

	// Invalidate removes a token from the cache.
	Invalidate(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
