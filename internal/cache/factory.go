package cache

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/moovfinancial/moov-go/internal/cache/encryption"
	"github.com/moovfinancial/moov-go/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/valkey-io/valkey-go"
)

// NewFromConfig creates the instrumented token store selected by
// cacheConfig: in process (memory) or shared through Valkey, optionally
// encrypted.
func NewFromConfig[T any](ctx context.Context, cacheConfig config.CacheConfig) (TokenCache[T], error) {
	err := cacheConfig.Validate()
	if err != nil {
		return nil, err
	}

	if cacheConfig.Type == config.CacheTypeValkey {
		return newValkeyFromConfig[T](ctx, cacheConfig)
	}

	log.Ctx(ctx).Debug().
		Str("cache_type", config.CacheTypeMemory).
		Int("max_size", cacheConfig.MaxSize).
		Dur("max_ttl", cacheConfig.MaxTTL()).
		Msg("initializing in-memory token cache")

	memory, err := NewMemory[T](cacheConfig.MaxTTL(), cacheConfig.MaxSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory cache: %w", err)
	}

	return NewInstrumented(memory, config.CacheTypeMemory), nil
}

func newValkeyFromConfig[T any](ctx context.Context, cacheConfig config.CacheConfig) (TokenCache[T], error) {
	valkeyConfig := cacheConfig.Valkey

	log.Ctx(ctx).Debug().
		Str("cache_type", config.CacheTypeValkey).
		Str("address", valkeyConfig.Address).
		Bool("tls", valkeyConfig.TLS).
		Bool("encryption", cacheConfig.Encryption.Enabled).
		Msg("initializing distributed token cache")

	var strategy EncryptionStrategy
	if cacheConfig.Encryption.Enabled {
		aead, err := encryption.NewRefreshableAEAD(ctx, cacheConfig.Encryption.KeysetURI, cacheConfig.Encryption.KMSEnvelopeKeyURI)
		if err != nil {
			return nil, fmt.Errorf("failed to load token cache keyset: %w", err)
		}
		strategy = NewInstrumentedStrategy(NewAEADStrategy(aead))
	}

	options := valkey.ClientOption{
		InitAddress: []string{valkeyConfig.Address},
	}
	if valkeyConfig.TLS {
		options.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	if valkeyConfig.Username != "" || valkeyConfig.Password != "" {
		options.AuthCredentialsFn = StaticCredentialsFn(valkeyConfig.Username, valkeyConfig.Password)
	}

	client, err := valkey.NewClient(options)
	if err != nil {
		if strategy != nil {
			_ = strategy.Close()
		}
		return nil, fmt.Errorf("failed to create valkey client: %w", err)
	}

	distributed := NewDistributed[T](client, cacheConfig.MaxTTL(), valkeyConfig.KeyPrefix, strategy)

	return NewInstrumented(distributed, config.CacheTypeValkey), nil
}
