// Package moov is a client for the Moov payments API.
//
// A Client is created once from API key credentials and is safe for
// concurrent use. Calls that act on behalf of an account authenticate with
// an OAuth2 token issued for that account; the client requests, caches and
// renews those tokens itself.
package moov

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/moovfinancial/moov-go/internal/apierror"
	"github.com/moovfinancial/moov-go/internal/cache"
	"github.com/moovfinancial/moov-go/internal/config"
	"github.com/moovfinancial/moov-go/internal/observe"
	"github.com/moovfinancial/moov-go/internal/pipeline"
	"github.com/moovfinancial/moov-go/internal/token"
)

// Credentials are the API key values from the Moov Dashboard. AccountID is
// the facilitator account and Domain one of the domains registered against
// the key.
type Credentials = config.Credentials

// Token is an OAuth2 access token. RefreshToken is informational; expired
// tokens are replaced by requesting a new one.
type Token = token.Token

// Client is the Moov API client. The resource services share the client's
// request pipeline and token cache.
type Client struct {
	credentials Credentials
	tokens      *token.Manager
	pipeline    *pipeline.Pipeline

	common service

	Accounts          *AccountsService
	Avatars           *AvatarsService
	BankAccounts      *BankAccountsService
	Capabilities      *CapabilitiesService
	Cards             *CardsService
	EnrichedAddresses *EnrichedAddressesService
	EnrichedProfiles  *EnrichedProfilesService
	Institutions      *InstitutionsService
	PaymentMethods    *PaymentMethodsService
	Representatives   *RepresentativesService
	Transfers         *TransfersService
	Wallets           *WalletsService
}

type service struct {
	client *Client
}

// New validates credentials and creates a client. Invalid credentials fail
// with a *ConfigurationError before any network activity.
func New(credentials Credentials, opts ...Option) (*Client, error) {
	err := credentials.Validate()
	if err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if !config.IsAbsoluteURL(o.baseURL) {
		return nil, &apierror.ConfigurationError{Field: "baseURL", Reason: fmt.Sprintf("%q is not a valid URL", o.baseURL)}
	}
	baseURL, err := url.Parse(o.baseURL)
	if err != nil {
		return nil, &apierror.ConfigurationError{Field: "baseURL", Reason: err.Error()}
	}

	httpClient := configureHTTPClient(o)

	ctx := context.Background()
	if o.logger != nil {
		ctx = o.logger.WithContext(ctx)
	}

	cacheConfig := o.cache
	if cacheConfig.Type == config.CacheTypeValkey {
		cacheConfig.Valkey.KeyPrefix += credentials.PublicKey + ":"
	}

	store, err := cache.NewFromConfig[token.Token](ctx, cacheConfig)
	if err != nil {
		return nil, &apierror.ConfigurationError{Field: "tokenCache", Reason: err.Error()}
	}

	tokens, err := token.NewManager(credentials, baseURL,
		token.WithHTTPClient(httpClient),
		token.WithCache(store),
		token.WithScopes(AllScopes()),
		token.WithDeduplication(o.deduplicate),
		token.WithClock(o.now),
	)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	pipelineOpts := []pipeline.Option{
		pipeline.WithHTTPClient(httpClient),
		pipeline.WithUserAgent(o.userAgent),
	}
	for key, values := range o.header {
		for _, v := range values {
			pipelineOpts = append(pipelineOpts, pipeline.WithHeader(key, v))
		}
	}
	if o.logger != nil {
		pipelineOpts = append(pipelineOpts, pipeline.WithLogger(*o.logger))
	}

	c := &Client{
		credentials: credentials,
		tokens:      tokens,
		pipeline:    pipeline.New(baseURL, pipelineOpts...),
	}
	c.common.client = c
	c.Accounts = (*AccountsService)(&c.common)
	c.Avatars = (*AvatarsService)(&c.common)
	c.BankAccounts = (*BankAccountsService)(&c.common)
	c.Capabilities = (*CapabilitiesService)(&c.common)
	c.Cards = (*CardsService)(&c.common)
	c.EnrichedAddresses = (*EnrichedAddressesService)(&c.common)
	c.EnrichedProfiles = (*EnrichedProfilesService)(&c.common)
	c.Institutions = (*InstitutionsService)(&c.common)
	c.PaymentMethods = (*PaymentMethodsService)(&c.common)
	c.Representatives = (*RepresentativesService)(&c.common)
	c.Transfers = (*TransfersService)(&c.common)
	c.Wallets = (*WalletsService)(&c.common)

	return c, nil
}

func configureHTTPClient(o *options) *http.Client {
	client := &http.Client{}
	if o.httpClient != nil {
		copied := *o.httpClient
		client = &copied
	}

	transport := client.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	if o.transport != nil {
		transport = o.transport(transport)
	}
	if o.telemetry {
		transport = observe.NewTransport(transport, observe.WithConnectionTrace(o.connectionTrace))
	}
	client.Transport = transport

	return client
}

// GenerateToken requests a new token with the given scopes for accountID,
// or for the facilitator account when accountID is empty. Use it to hand
// narrowly scoped tokens to browser code; the client's own calls manage
// their tokens automatically. The result is not cached.
func (c *Client) GenerateToken(ctx context.Context, scopes []Scope, accountID string) (Token, error) {
	return c.tokens.Acquire(c.pipeline.LogContext(ctx), scopes, accountID)
}

// Ping checks connectivity and that the API key is accepted.
func (c *Client) Ping(ctx context.Context) error {
	return c.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodGet,
		Path:   "ping",
		Auth:   c.basicAuth(),
	}, nil)
}

// Close releases the token cache. The client must not be used afterwards.
func (c *Client) Close() error {
	return c.tokens.Close()
}

func (c *Client) basicAuth() pipeline.Authenticator {
	return pipeline.BasicAuth{
		PublicKey: c.credentials.PublicKey,
		SecretKey: c.credentials.SecretKey,
	}
}

// bearerAuth authenticates with a token issued for accountID.
func (c *Client) bearerAuth(accountID string) pipeline.Authenticator {
	return pipeline.BearerAuth{
		Tokens:    c.tokens,
		AccountID: accountID,
	}
}
