// Package token issues and caches OAuth2 bearer tokens for Moov accounts.
package token

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/moovfinancial/moov-go/internal/apierror"
	"github.com/moovfinancial/moov-go/internal/cache"
	"github.com/moovfinancial/moov-go/internal/config"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"
)

// TokenPath is the token endpoint, relative to the API base URL.
const TokenPath = "oauth2/token"

// Manager requests client-credentials tokens and caches one token per
// account ID.
//
// Concurrent refreshes for the same account are collapsed into one token
// request unless deduplication is disabled, in which case each caller that
// observes a missing or stale entry issues its own request and the last
// write wins. Both tokens are valid either way.
type Manager struct {
	credentials config.Credentials
	tokenURL    string
	httpClient  *http.Client
	cache       cache.TokenCache[Token]
	scopes      []string
	group       *singleflight.Group
	now         func() time.Time
}

type managerConfig struct {
	httpClient  *http.Client
	cache       cache.TokenCache[Token]
	scopes      []string
	deduplicate bool
	now         func() time.Time
}

type ManagerOption func(*managerConfig)

// WithHTTPClient sets the client used for token requests. Its transport is
// wrapped to add the origin header.
func WithHTTPClient(client *http.Client) ManagerOption {
	return func(c *managerConfig) {
		c.httpClient = client
	}
}

// WithCache replaces the default in-memory store.
func WithCache(store cache.TokenCache[Token]) ManagerOption {
	return func(c *managerConfig) {
		c.cache = store
	}
}

// WithScopes sets the scope templates requested by Cached.
func WithScopes(scopes []string) ManagerOption {
	return func(c *managerConfig) {
		c.scopes = append([]string(nil), scopes...)
	}
}

func WithDeduplication(enabled bool) ManagerOption {
	return func(c *managerConfig) {
		c.deduplicate = enabled
	}
}

// WithClock overrides the time source used for expiry calculations.
func WithClock(now func() time.Time) ManagerOption {
	return func(c *managerConfig) {
		c.now = now
	}
}

// NewManager creates a manager issuing tokens from baseURL's token
// endpoint. Credentials are expected to be validated by the caller.
func NewManager(credentials config.Credentials, baseURL *url.URL, opts ...ManagerOption) (*Manager, error) {
	cfg := &managerConfig{
		deduplicate: true,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.cache == nil {
		memory, err := cache.NewMemory[Token](time.Hour, 10_000)
		if err != nil {
			return nil, fmt.Errorf("token cache configuration failed: %w", err)
		}
		cfg.cache = cache.NewInstrumented[Token](memory, "memory")
	}

	base := http.DefaultClient
	if cfg.httpClient != nil {
		base = cfg.httpClient
	}

	m := &Manager{
		credentials: credentials,
		tokenURL:    baseURL.JoinPath(TokenPath).String(),
		httpClient:  withKeyPair(base, credentials),
		cache:       cfg.cache,
		scopes:      cfg.scopes,
		now:         cfg.now,
	}
	if cfg.deduplicate {
		m.group = &singleflight.Group{}
	}

	return m, nil
}

// Acquire requests a new token for accountID with the given scope
// templates. An empty accountID means the facilitator account. The result is
// not cached.
func (m *Manager) Acquire(ctx context.Context, scopes []string, accountID string) (Token, error) {
	accountID = m.resolve(accountID)

	rendered, err := RenderScopes(scopes, accountID)
	if err != nil {
		return Token{}, err
	}

	grant := clientcredentials.Config{
		ClientID:     m.credentials.PublicKey,
		ClientSecret: m.credentials.SecretKey,
		TokenURL:     m.tokenURL,
		Scopes:       rendered,
		// Form fields come from the grant; the raw key pair goes on as basic
		// auth in the transport. Header mode would query-escape both halves.
		AuthStyle: oauth2.AuthStyleInParams,
	}

	issuedAt := m.now()
	tok, err := grant.Token(context.WithValue(ctx, oauth2.HTTPClient, m.httpClient))
	if err != nil {
		authErr := &apierror.AuthenticationFailedError{AccountID: accountID, Err: err}

		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			if retrieveErr.Response != nil {
				authErr.StatusCode = retrieveErr.Response.StatusCode
			}
			authErr.Body = retrieveErr.Body
		}

		log.Ctx(ctx).Warn().
			Str("accountID", accountID).
			Int("status", authErr.StatusCode).
			Msg("token request failed")

		return Token{}, authErr
	}

	result := Token{
		AccessToken:  tok.AccessToken,
		Expiry:       issuedAt.Add(expiresIn(tok, issuedAt)),
		RefreshToken: tok.RefreshToken,
	}

	log.Ctx(ctx).Debug().
		Str("accountID", accountID).
		Time("expiry", result.Expiry).
		Int("scopes", len(rendered)).
		Msg("token issued")

	return result, nil
}

// Cached returns the cached token for accountID, requesting a new token with
// the manager's scopes when there is none or it has expired.
func (m *Manager) Cached(ctx context.Context, accountID string) (Token, error) {
	accountID = m.resolve(accountID)

	tok, ok, err := m.lookup(ctx, accountID)
	if err != nil || ok {
		return tok, err
	}

	if m.group == nil {
		return m.refresh(ctx, accountID)
	}

	// The shared request outlives any one caller's cancellation; each caller
	// still stops waiting when its own context ends.
	flightCtx := context.WithoutCancel(ctx)
	ch := m.group.DoChan(accountID, func() (any, error) {
		tok, ok, err := m.lookup(flightCtx, accountID)
		if err != nil || ok {
			return tok, err
		}
		return m.refresh(flightCtx, accountID)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Token{}, res.Err
		}
		if res.Shared {
			log.Ctx(ctx).Debug().Str("accountID", accountID).Msg("shared in-flight token request")
		}
		return res.Val.(Token), nil
	case <-ctx.Done():
		return Token{}, ctx.Err()
	}
}

// Close releases the token store.
func (m *Manager) Close() error {
	return m.cache.Close()
}

func (m *Manager) lookup(ctx context.Context, accountID string) (Token, bool, error) {
	tok, found, err := m.cache.Get(ctx, accountID)
	if err != nil {
		return Token{}, false, fmt.Errorf("token cache lookup failed: %w", err)
	}
	if !found {
		log.Ctx(ctx).Debug().Str("accountID", accountID).Msg("miss: no token cached for account")
		return Token{}, false, nil
	}
	if tok.ExpiredAt(m.now()) {
		log.Ctx(ctx).Debug().Str("accountID", accountID).Time("expiry", tok.Expiry).Msg("stale: cached token expired")
		return Token{}, false, nil
	}
	return tok, true, nil
}

func (m *Manager) refresh(ctx context.Context, accountID string) (Token, error) {
	tok, err := m.Acquire(ctx, m.scopes, accountID)
	if err != nil {
		return Token{}, err
	}

	err = m.cache.Set(ctx, accountID, tok)
	if err != nil {
		return Token{}, fmt.Errorf("token cache store failed: %w", err)
	}

	return tok, nil
}

func (m *Manager) resolve(accountID string) string {
	if accountID == "" {
		return m.credentials.AccountID
	}
	return accountID
}

// expiresIn reads the lifetime reported by the server. A token without one
// is treated as already expired, so it is used once and never served from
// the cache.
func expiresIn(tok *oauth2.Token, issuedAt time.Time) time.Duration {
	switch v := tok.Extra("expires_in").(type) {
	case int64:
		return time.Duration(v) * time.Second
	case float64:
		return time.Duration(v) * time.Second
	case string:
		if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	if !tok.Expiry.IsZero() {
		return tok.Expiry.Sub(issuedAt)
	}
	return 0
}

// withKeyPair returns a copy of client whose requests carry the unescaped key
// pair as basic auth and the origin header registered against the API key.
func withKeyPair(client *http.Client, credentials config.Credentials) *http.Client {
	next := client.Transport
	if next == nil {
		next = http.DefaultTransport
	}

	wrapped := *client
	wrapped.Transport = roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		req = req.Clone(req.Context())
		req.SetBasicAuth(credentials.PublicKey, credentials.SecretKey)
		req.Header.Set("Origin", credentials.Domain)
		return next.RoundTrip(req)
	})
	return &wrapped
}

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
