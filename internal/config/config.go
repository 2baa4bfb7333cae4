package config

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/moovfinancial/moov-go/internal/apierror"
	"github.com/sethvargo/go-envconfig"
)

// DefaultAPIURL is the production Moov API.
const DefaultAPIURL = "https://api.moov.io"

type Config struct {
	Credentials Credentials
	Secret      SecretConfig
	API         APIConfig
	Cache       CacheConfig
	Observe     ObserveConfig
}

// Credentials are the API key values issued by the Moov Dashboard. They are
// used as HTTP basic auth for token issuance and as the client_id and
// client_secret of the client-credentials grant.
type Credentials struct {
	// AccountID is the facilitator account ID.
	AccountID string `env:"MOOV_ACCOUNT_ID"`
	PublicKey string `env:"MOOV_PUBLIC_KEY"`
	SecretKey string `env:"MOOV_SECRET_KEY"`

	// Domain is one of the domains registered against the API key. It is
	// sent as the origin header of token requests.
	Domain string `env:"MOOV_DOMAIN"`
}

// SecretConfig allows the secret key to be supplied encrypted.
type SecretConfig struct {
	// KMSCiphertext is the base64 encoded AWS KMS ciphertext of the secret
	// key. It is used only when MOOV_SECRET_KEY is not set.
	KMSCiphertext string `env:"MOOV_SECRET_KEY_KMS_CIPHERTEXT"`

	// KMSKeyID is optional for symmetric keys, where the key is recorded in
	// the ciphertext.
	KMSKeyID string `env:"MOOV_SECRET_KEY_KMS_KEY_ID"`
}

type APIConfig struct {
	URL string `env:"MOOV_API_URL, default=https://api.moov.io"`

	TimeoutSeconds              int `env:"MOOV_HTTP_TIMEOUT_SECS, default=30"`
	OutgoingHTTPMaxIdleConns    int `env:"MOOV_HTTP_MAX_IDLE_CONNS, default=100"`
	OutgoingHTTPMaxConnsPerHost int `env:"MOOV_HTTP_MAX_CONNS_PER_HOST, default=20"`
}

// Cache types accepted by MOOV_TOKEN_CACHE_TYPE.
const (
	CacheTypeMemory = "memory"
	CacheTypeValkey = "valkey"
)

// CacheConfig selects and sizes the per-account token cache.
type CacheConfig struct {
	// Type selects the store: "memory" (default) keeps tokens in process,
	// "valkey" shares them between processes using the same API key.
	Type string `env:"MOOV_TOKEN_CACHE_TYPE, default=memory"`

	// MaxSize bounds the number of accounts with a cached token.
	MaxSize int `env:"MOOV_TOKEN_CACHE_MAX_SIZE, default=10000"`

	// MaxTTLMinutes is an upper bound on how long an entry is kept. Tokens
	// are still refreshed at their own expiry when that comes first.
	MaxTTLMinutes int `env:"MOOV_TOKEN_CACHE_MAX_TTL_MINS, default=60"`

	// Deduplicate collapses concurrent refreshes for the same account into
	// a single token request.
	Deduplicate bool `env:"MOOV_TOKEN_CACHE_DEDUPLICATE, default=true"`

	Valkey ValkeyConfig

	// Encryption protects tokens stored in Valkey. Only supported with the
	// valkey cache type.
	Encryption CacheEncryptionConfig
}

// ValkeyConfig specifies the shared token store.
type ValkeyConfig struct {
	// Address is the Valkey server address (host:port).
	Address string `env:"MOOV_VALKEY_ADDRESS"`

	// TLS defaults to true so the secure option is the default.
	TLS bool `env:"MOOV_VALKEY_TLS, default=true"`

	Username string `env:"MOOV_VALKEY_USERNAME"`
	Password string `env:"MOOV_VALKEY_PASSWORD"`

	// KeyPrefix namespaces token entries, so several API keys can share one
	// server.
	KeyPrefix string `env:"MOOV_VALKEY_KEY_PREFIX, default=moov:token:"`
}

// CacheEncryptionConfig locates the Tink keyset used to encrypt cached
// tokens.
type CacheEncryptionConfig struct {
	Enabled bool `env:"MOOV_TOKEN_CACHE_ENCRYPTION_ENABLED, default=false"`

	// KeysetURI locates the keyset. Either a KMS encrypted keyset in Secrets
	// Manager (aws-secretsmanager://secret-name) or a cleartext keyset file
	// (file:///path/to/keyset.json), the latter for local development.
	KeysetURI string `env:"MOOV_TOKEN_CACHE_ENCRYPTION_KEYSET_URI"`

	// KMSEnvelopeKeyURI decrypts a Secrets Manager keyset.
	// Format: aws-kms://arn:aws:kms:region:account:key/key-id
	KMSEnvelopeKeyURI string `env:"MOOV_TOKEN_CACHE_ENCRYPTION_KMS_ENVELOPE_KEY_URI"`
}

type ObserveConfig struct {
	SDKLogLevel                string `env:"OBSERVE_OTEL_LOG_LEVEL, default=info"`
	Enabled                    bool   `env:"OBSERVE_ENABLED, default=false"`
	MetricsEnabled             bool   `env:"OBSERVE_METRICS_ENABLED, default=true"`
	Type                       string `env:"OBSERVE_TYPE, default=grpc"`
	ServiceName                string `env:"OBSERVE_SERVICE_NAME, default=moovctl"`
	TraceBatchTimeoutSeconds   int    `env:"OBSERVE_TRACE_BATCH_TIMEOUT_SECS, default=20"`
	MetricReadIntervalSeconds  int    `env:"OBSERVE_METRIC_READ_INTERVAL_SECS, default=60"`
	HTTPTransportEnabled       bool   `env:"OBSERVE_HTTP_TRANSPORT_ENABLED, default=true"`
	HTTPConnectionTraceEnabled bool   `env:"OBSERVE_CONNECTION_TRACE_ENABLED, default=true"`
}

func Load(ctx context.Context) (Config, error) {
	return load(ctx, nil) // load from OS environment
}

func load(ctx context.Context, lookup envconfig.Lookuper) (Config, error) {
	var cfg Config
	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookup, // nil defaults to OS environment
	})
	if err != nil {
		return cfg, err
	}

	if cfg.Credentials.SecretKey == "" && cfg.Secret.KMSCiphertext == "" {
		return cfg, fmt.Errorf("one of MOOV_SECRET_KEY or MOOV_SECRET_KEY_KMS_CIPHERTEXT is required")
	}

	err = cfg.API.Validate()
	if err != nil {
		return cfg, fmt.Errorf("invalid API configuration: %w", err)
	}

	err = cfg.Cache.Validate()
	if err != nil {
		return cfg, fmt.Errorf("invalid cache configuration: %w", err)
	}

	return cfg, nil
}

// Validate performs the construction-time credential checks. Every failure
// is a *apierror.ConfigurationError.
func (c Credentials) Validate() error {
	if c == (Credentials{}) {
		return &apierror.ConfigurationError{Reason: "missing API key credentials"}
	}
	if strings.TrimSpace(c.AccountID) == "" {
		return &apierror.ConfigurationError{Field: "accountID", Reason: "missing facilitator account ID"}
	}
	if strings.TrimSpace(c.PublicKey) == "" {
		return &apierror.ConfigurationError{Field: "publicKey", Reason: "missing public key"}
	}
	if strings.TrimSpace(c.SecretKey) == "" {
		return &apierror.ConfigurationError{Field: "secretKey", Reason: "missing secret key"}
	}
	if !IsAbsoluteURL(c.Domain) {
		return &apierror.ConfigurationError{Field: "domain", Reason: fmt.Sprintf("%q is not a valid URL", c.Domain)}
	}
	return nil
}

// Validate checks the API endpoint and transport settings.
func (c *APIConfig) Validate() error {
	if !IsAbsoluteURL(c.URL) {
		return fmt.Errorf("MOOV_API_URL %q is not a valid URL", c.URL)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("MOOV_HTTP_TIMEOUT_SECS must not be negative")
	}
	return nil
}

// Timeout is the overall HTTP client timeout; zero disables it.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks the cache type, sizing and the settings the type needs.
func (c *CacheConfig) Validate() error {
	switch c.Type {
	case "", CacheTypeMemory, CacheTypeValkey:
	default:
		return fmt.Errorf("MOOV_TOKEN_CACHE_TYPE %q is not one of %s or %s", c.Type, CacheTypeMemory, CacheTypeValkey)
	}

	if c.MaxSize <= 0 {
		return fmt.Errorf("MOOV_TOKEN_CACHE_MAX_SIZE must be positive")
	}
	if c.MaxTTLMinutes <= 0 {
		return fmt.Errorf("MOOV_TOKEN_CACHE_MAX_TTL_MINS must be positive")
	}

	if c.Type == CacheTypeValkey && c.Valkey.Address == "" {
		return fmt.Errorf("MOOV_VALKEY_ADDRESS required when MOOV_TOKEN_CACHE_TYPE=valkey")
	}

	if c.Encryption.Enabled {
		if c.Type != CacheTypeValkey {
			return fmt.Errorf("token cache encryption requires MOOV_TOKEN_CACHE_TYPE=valkey")
		}
		if c.Encryption.KeysetURI == "" {
			return fmt.Errorf("MOOV_TOKEN_CACHE_ENCRYPTION_KEYSET_URI required when encryption enabled")
		}
		if !strings.HasPrefix(c.Encryption.KeysetURI, "file://") && c.Encryption.KMSEnvelopeKeyURI == "" {
			return fmt.Errorf("MOOV_TOKEN_CACHE_ENCRYPTION_KMS_ENVELOPE_KEY_URI required when encryption enabled")
		}
	}

	return nil
}

func (c CacheConfig) MaxTTL() time.Duration {
	return time.Duration(c.MaxTTLMinutes) * time.Minute
}

// IsAbsoluteURL reports whether s parses as a URL with both a scheme and a
// host.
func IsAbsoluteURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
