package moov

import (
	"math"
	"net/http"
	"time"

	"github.com/moovfinancial/moov-go/internal/config"
	"github.com/rs/zerolog"
)

type options struct {
	baseURL    string
	header     http.Header
	userAgent  string
	httpClient *http.Client
	transport  func(http.RoundTripper) http.RoundTripper

	telemetry       bool
	connectionTrace bool

	cache       config.CacheConfig
	deduplicate bool
	now         func() time.Time
	logger      *zerolog.Logger
}

func defaultOptions() *options {
	return &options{
		baseURL:     config.DefaultAPIURL,
		header:      http.Header{},
		userAgent:   "moov-go",
		deduplicate: true,
		now:         time.Now,
		cache: config.CacheConfig{
			Type:          config.CacheTypeMemory,
			MaxSize:       10_000,
			MaxTTLMinutes: 60,
		},
	}
}

// Option customizes a Client.
type Option func(*options)

// WithBaseURL points the client at another API host, such as a sandbox or a
// local mock.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

// WithHeader adds a header to every resource request. Token requests are not
// affected.
func WithHeader(key, value string) Option {
	return func(o *options) {
		o.header.Add(key, value)
	}
}

func WithUserAgent(userAgent string) Option {
	return func(o *options) {
		o.userAgent = userAgent
	}
}

// WithHTTPClient sets the HTTP client shared by token and resource requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithTransport wraps the HTTP client's transport, for example to add
// retries or request logging.
func WithTransport(wrap func(http.RoundTripper) http.RoundTripper) Option {
	return func(o *options) {
		o.transport = wrap
	}
}

// WithTelemetry instruments the transport with OpenTelemetry client spans
// and metrics, using the global providers.
func WithTelemetry(connectionTrace bool) Option {
	return func(o *options) {
		o.telemetry = true
		o.connectionTrace = connectionTrace
	}
}

// WithTokenCacheSize bounds the number of accounts with a cached token.
func WithTokenCacheSize(size int) Option {
	return func(o *options) {
		o.cache.MaxSize = size
	}
}

// WithTokenCacheMaxTTL bounds how long a token is kept, rounded up to the
// minute. Tokens are refreshed at their own expiry when that is sooner.
func WithTokenCacheMaxTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.cache.MaxTTLMinutes = int(math.Ceil(ttl.Minutes()))
	}
}

// ValkeyConfig locates the Valkey server of a shared token cache.
type ValkeyConfig = config.ValkeyConfig

// TokenCacheEncryption locates the Tink keyset that encrypts tokens in a
// shared token cache.
type TokenCacheEncryption = config.CacheEncryptionConfig

// WithSharedTokenCache keeps tokens in Valkey instead of in process, so
// processes using the same API key reuse each other's tokens. Entries are
// namespaced by the key prefix and the API key's public value. When
// encryption is enabled, tokens are encrypted with a Tink AEAD bound to the
// account ID.
func WithSharedTokenCache(valkey ValkeyConfig, encryption TokenCacheEncryption) Option {
	return func(o *options) {
		o.cache.Type = config.CacheTypeValkey
		o.cache.Valkey = valkey
		o.cache.Encryption = encryption
	}
}

// WithDeduplication controls whether concurrent token refreshes for the same
// account share one token request. Enabled by default.
func WithDeduplication(enabled bool) Option {
	return func(o *options) {
		o.deduplicate = enabled
	}
}

// WithClock overrides the time source used to decide token expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithLogger sets the logger used for calls whose context carries none.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}
