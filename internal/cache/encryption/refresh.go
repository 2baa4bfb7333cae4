package encryption

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tink-crypto/tink-go/v2/tink"
)

// DefaultRefreshInterval is how often a refreshable AEAD reloads its keyset.
const DefaultRefreshInterval = 15 * time.Minute

// aeadLoader loads an AEAD from external key material.
type aeadLoader func(ctx context.Context) (tink.AEAD, error)

// RefreshableAEAD wraps a tink.AEAD and reloads its keyset periodically, so
// keys rotated in Secrets Manager are picked up without a restart. A failed
// reload is logged and the current keyset stays in use.
type RefreshableAEAD struct {
	mu     sync.RWMutex
	aead   tink.AEAD
	loader aeadLoader

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// NewRefreshableAEAD loads the keyset at keysetURI (see LoadAEAD) and
// reloads it every DefaultRefreshInterval. The initial load is synchronous:
// on failure no goroutine is started. Call Close to stop refreshing.
func NewRefreshableAEAD(ctx context.Context, keysetURI, kmsEnvelopeKeyURI string, opts ...LoadOption) (*RefreshableAEAD, error) {
	loader := func(ctx context.Context) (tink.AEAD, error) {
		return LoadAEAD(ctx, keysetURI, kmsEnvelopeKeyURI, opts...)
	}

	return newRefreshableAEAD(ctx, loader, DefaultRefreshInterval)
}

// NewRefreshableAEADFromFile is NewRefreshableAEAD for a cleartext keyset
// file.
func NewRefreshableAEADFromFile(ctx context.Context, path string) (*RefreshableAEAD, error) {
	return NewRefreshableAEAD(ctx, fileScheme+path, "")
}

func newRefreshableAEAD(ctx context.Context, loader aeadLoader, interval time.Duration) (*RefreshableAEAD, error) {
	initial, err := loader(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading initial AEAD: %w", err)
	}

	// The refresh loop outlives the constructor's context; Close ends it.
	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	r := &RefreshableAEAD{
		aead:   initial,
		loader: loader,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go r.refreshLoop(loopCtx, interval)

	return r, nil
}

// Encrypt delegates to the current AEAD.
func (r *RefreshableAEAD) Encrypt(plaintext, associatedData []byte) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.aead.Encrypt(plaintext, associatedData)
}

// Decrypt delegates to the current AEAD.
func (r *RefreshableAEAD) Decrypt(ciphertext, associatedData []byte) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.aead.Decrypt(ciphertext, associatedData)
}

// Close stops refreshing, cancelling any reload in progress, and waits for
// the refresh goroutine to exit. It is safe to call more than once.
func (r *RefreshableAEAD) Close() error {
	r.closeOnce.Do(func() {
		r.cancel()
		<-r.done
	})
	return nil
}

func (r *RefreshableAEAD) refreshLoop(ctx context.Context, interval time.Duration) {
	defer close(r.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *RefreshableAEAD) refresh(ctx context.Context) {
	log.Debug().Msg("refreshing token cache keyset")

	next, err := r.loader(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Warn().
			Err(err).
			Msg("failed to refresh token cache keyset, continuing with current keyset")
		return
	}

	r.mu.Lock()
	r.aead = next
	r.mu.Unlock()

	log.Info().Msg("token cache keyset refreshed")
}
