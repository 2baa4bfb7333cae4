package cache

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	strategyMetricsOnce  sync.Once
	encryptionOperations metric.Int64Counter
	encryptionDuration   metric.Float64Histogram
)

func initStrategyMetrics() {
	strategyMetricsOnce.Do(func() {
		meter := otel.Meter("github.com/moovfinancial/moov-go/internal/cache")

		var err error
		encryptionOperations, err = meter.Int64Counter(
			"moov.token_cache.encryption.operations",
			metric.WithDescription("Total token cache encrypt and decrypt operations"),
		)
		if err != nil {
			otel.Handle(err)
		}

		encryptionDuration, err = meter.Float64Histogram(
			"moov.token_cache.encryption.duration",
			metric.WithDescription("Token cache encrypt and decrypt duration"),
			metric.WithUnit("s"),
		)
		if err != nil {
			otel.Handle(err)
		}
	})
}

// InstrumentedStrategy wraps an EncryptionStrategy, recording metrics and
// span attributes for each seal and open.
type InstrumentedStrategy struct {
	wrapped EncryptionStrategy
}

func NewInstrumentedStrategy(strategy EncryptionStrategy) *InstrumentedStrategy {
	initStrategyMetrics()
	return &InstrumentedStrategy{wrapped: strategy}
}

func (s *InstrumentedStrategy) Seal(ctx context.Context, storageKey string, token []byte) (string, error) {
	start := time.Now()
	result, err := s.wrapped.Seal(ctx, storageKey, token)
	recordEncryption(ctx, "encrypt", err, time.Since(start))
	return result, err
}

func (s *InstrumentedStrategy) Open(ctx context.Context, storageKey string, value string) ([]byte, error) {
	start := time.Now()
	result, err := s.wrapped.Open(ctx, storageKey, value)
	recordEncryption(ctx, "decrypt", err, time.Since(start))
	return result, err
}

func (s *InstrumentedStrategy) StorageKey(namespace, accountID string) string {
	return s.wrapped.StorageKey(namespace, accountID)
}

func (s *InstrumentedStrategy) Close() error {
	return s.wrapped.Close()
}

func recordEncryption(ctx context.Context, operation string, err error, duration time.Duration) {
	status := outcome(err)
	opAttr := attribute.String("encryption.operation", operation)

	if encryptionOperations != nil {
		encryptionOperations.Add(ctx, 1, metric.WithAttributes(opAttr, attribute.String("encryption.outcome", status)))
	}
	if encryptionDuration != nil {
		encryptionDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(opAttr))
	}

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Float64("cache."+operation+".duration", duration.Seconds()),
		attribute.String("cache."+operation+".outcome", status),
	)
}
