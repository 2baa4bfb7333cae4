package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/valkey-io/valkey-go"
)

// Distributed implements TokenCache on Valkey, so processes using the same
// API key share one token per account. Reads use server-assisted
// client-side caching.
type Distributed[T any] struct {
	client    valkey.Client
	ttl       time.Duration
	keyPrefix string
	strategy  EncryptionStrategy
}

// NewDistributed creates a Valkey-backed cache. Entries expire ttl after
// they are written and are stored under keyPrefix. A nil strategy stores
// values unencrypted.
func NewDistributed[T any](client valkey.Client, ttl time.Duration, keyPrefix string, strategy EncryptionStrategy) *Distributed[T] {
	if strategy == nil {
		strategy = PlaintextStrategy{}
	}
	return &Distributed[T]{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
		strategy:  strategy,
	}
}

// storageKey is the Valkey key for a cache key. The prefix namespaces API
// keys sharing a server; the strategy places the entry within it.
func (d *Distributed[T]) storageKey(key string) string {
	return d.strategy.StorageKey(d.keyPrefix, key)
}

// Get returns the cached token. A value that cannot be decrypted or decoded
// is reported as an error and deleted on a best-effort basis, so the next
// request replaces it.
func (d *Distributed[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var zero T

	storageKey := d.storageKey(key)

	cmd := d.client.B().Get().Key(storageKey).Cache()
	result := d.client.DoCache(ctx, cmd, d.ttl)

	val, err := result.ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("failed to get cached token: %w", err)
	}

	data, err := d.strategy.Open(ctx, storageKey, val)
	if err != nil {
		d.discard(ctx, storageKey)
		return zero, false, fmt.Errorf("cache decryption failure for key %q: %w", key, err)
	}

	var token T
	if err := json.Unmarshal(data, &token); err != nil {
		d.discard(ctx, storageKey)
		return zero, false, fmt.Errorf("failed to unmarshal cached token: %w", err)
	}

	return token, true, nil
}

// Set stores the token as JSON, replacing any existing entry.
func (d *Distributed[T]) Set(ctx context.Context, key string, token T) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	storageKey := d.storageKey(key)

	value, err := d.strategy.Seal(ctx, storageKey, data)
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}

	cmd := d.client.B().Set().Key(storageKey).Value(value).ExSeconds(int64(d.ttl.Seconds())).Build()
	if err := d.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to set cached token: %w", err)
	}
	return nil
}

func (d *Distributed[T]) Invalidate(ctx context.Context, key string) error {
	cmd := d.client.B().Del().Key(d.storageKey(key)).Build()
	if err := d.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to invalidate cached token: %w", err)
	}
	return nil
}

// Close releases the encryption strategy and the Valkey client. Entries
// remain on the server for other processes.
func (d *Distributed[T]) Close() error {
	if err := d.strategy.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing token cache encryption")
	}
	d.client.Close()
	return nil
}

func (d *Distributed[T]) discard(ctx context.Context, storageKey string) {
	err := d.client.Do(ctx, d.client.B().Del().Key(storageKey).Build()).Error()
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("key", storageKey).Msg("failed to remove unreadable token cache entry")
	}
}
