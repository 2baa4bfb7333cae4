package cache

import (
	"context"
	"time"

	"github.com/maypok86/otter/v2"
	"github.com/maypok86/otter/v2/stats"
)

// Memory is an in-memory cache implementation using otter. Entries are
// dropped maxAge after they are written, or earlier when the cache is full.
// Expiry of the cached value itself is the caller's concern.
type Memory[T any] struct {
	cache   *otter.Cache[string, T]
	counter *stats.Counter
}

// NewMemory creates a new in-memory cache with the specified maximum entry
// age and size.
func NewMemory[T any](maxAge time.Duration, maxSize int) (*Memory[T], error) {
	counter := stats.NewCounter()
	cache, err := otter.New(&otter.Options[string, T]{
		MaximumSize:      maxSize,
		StatsRecorder:    counter,
		ExpiryCalculator: otter.ExpiryWriting[string, T](maxAge),
	})
	if err != nil {
		return nil, err
	}

	return &Memory[T]{
		cache:   cache,
		counter: counter,
	}, nil
}

func (m *Memory[T]) Get(ctx context.Context, key string) (T, bool, error) {
	value, ok := m.cache.GetIfPresent(key)
	return value, ok, nil
}

func (m *Memory[T]) Set(ctx context.Context, key string, token T) error {
	m.cache.Set(key, token)
	return nil
}

func (m *Memory[T]) Invalidate(ctx context.Context, key string) error {
	m.cache.Invalidate(key)
	return nil
}

// Close drops all entries.
func (m *Memory[T]) Close() error {
	m.cache.InvalidateAll()
	return nil
}

// Stats reports cumulative hit and miss counts.
func (m *Memory[T]) Stats() (hits, misses uint64) {
	snapshot := m.counter.Snapshot()
	return snapshot.Hits, snapshot.Misses
}
