// Package observe configures OpenTelemetry for outgoing Moov API calls.
package observe

import (
	"context"
	"net/http"
	"net/http/httptrace"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/httptrace/otelhttptrace"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

type transportConfig struct {
	connectionTrace bool
	tracerProvider  trace.TracerProvider
}

type TransportOption func(*transportConfig)

// WithConnectionTrace adds DNS, connect and TLS timings to client spans.
func WithConnectionTrace(enabled bool) TransportOption {
	return func(c *transportConfig) {
		c.connectionTrace = enabled
	}
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TransportOption {
	return func(c *transportConfig) {
		c.tracerProvider = tp
	}
}

// NewTransport wraps base so that every request produces a client span and
// HTTP client metrics.
func NewTransport(base http.RoundTripper, opts ...TransportOption) http.RoundTripper {
	cfg := &transportConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	otelOpts := []otelhttp.Option{
		otelhttp.WithSpanNameFormatter(SpanName),
	}
	if cfg.tracerProvider != nil {
		otelOpts = append(otelOpts, otelhttp.WithTracerProvider(cfg.tracerProvider))
	}
	if cfg.connectionTrace {
		otelOpts = append(otelOpts, otelhttp.WithClientTrace(func(ctx context.Context) *httptrace.ClientTrace {
			return otelhttptrace.NewClientTrace(ctx)
		}))
	}

	return otelhttp.NewTransport(base, otelOpts...)
}

// SpanName names client spans "moov METHOD route", where route is the path
// with caller supplied IDs replaced by placeholders. The token endpoint is
// named explicitly since its path is shared by every account.
func SpanName(_ string, r *http.Request) string {
	path := r.URL.Path
	if strings.HasSuffix(path, "/oauth2/token") {
		return "moov token"
	}
	return "moov " + r.Method + " " + routeTemplate(path)
}

// idPlaceholders maps a collection segment to the placeholder for the
// segment that follows it.
var idPlaceholders = map[string]string{
	"accounts":        "{accountID}",
	"avatars":         "{uniqueID}",
	"bank-accounts":   "{bankAccountID}",
	"capabilities":    "{capability}",
	"cards":           "{cardID}",
	"institutions":    "{rail}",
	"payment-methods": "{paymentMethodID}",
	"refunds":         "{refundID}",
	"representatives": "{representativeID}",
	"transactions":    "{transactionID}",
	"transfers":       "{transferID}",
	"wallets":         "{walletID}",
}

func routeTemplate(path string) string {
	segments := strings.Split(path, "/")
	for i := 1; i < len(segments); i++ {
		placeholder, ok := idPlaceholders[segments[i-1]]
		if ok && segments[i] != "" {
			segments[i] = placeholder
		}
	}
	return strings.Join(segments, "/")
}
