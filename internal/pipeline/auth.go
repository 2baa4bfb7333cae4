package pipeline

import (
	"context"
	"net/http"

	"github.com/moovfinancial/moov-go/internal/token"
)

// Authenticator adds credentials to an outgoing request. The caller selects
// one per request.
type Authenticator interface {
	Authenticate(ctx context.Context, req *http.Request) error
}

// BasicAuth authenticates with the API key pair directly.
type BasicAuth struct {
	PublicKey string
	SecretKey string
}

func (b BasicAuth) Authenticate(_ context.Context, req *http.Request) error {
	req.SetBasicAuth(b.PublicKey, b.SecretKey)
	return nil
}

// TokenSource supplies a valid bearer token for an account.
type TokenSource interface {
	Cached(ctx context.Context, accountID string) (token.Token, error)
}

// BearerAuth authenticates with a token scoped to AccountID. An empty
// AccountID uses the facilitator account.
type BearerAuth struct {
	Tokens    TokenSource
	AccountID string
}

func (b BearerAuth) Authenticate(ctx context.Context, req *http.Request) error {
	tok, err := b.Tokens.Cached(ctx, b.AccountID)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	return nil
}

// NoAuth sends the request as is, for transports that authenticate on their
// own.
type NoAuth struct{}

func (NoAuth) Authenticate(context.Context, *http.Request) error {
	return nil
}
