package token

import (
	"strings"
	"time"

	"github.com/moovfinancial/moov-go/internal/apierror"
)

// AccountPlaceholder is substituted with the target account ID in scope
// templates such as "/accounts/{accountID}/cards.read".
const AccountPlaceholder = "{accountID}"

// Token is an OAuth2 bearer token issued for a single account.
type Token struct {
	AccessToken string    `json:"token"`
	Expiry      time.Time `json:"expiresOn"`

	// RefreshToken is recorded as issued but never used: renewal always
	// repeats the client-credentials grant.
	RefreshToken string `json:"refreshToken,omitempty"`
}

// ExpiredAt reports whether the token is unusable at the given time. A token
// is stale from its expiry instant onwards.
func (t Token) ExpiredAt(now time.Time) bool {
	return !now.Before(t.Expiry)
}

// RenderScopes substitutes accountID into each scope template. Scopes
// without the placeholder pass through unchanged. An empty list, or any
// blank scope, fails with apierror.ErrMissingScopes.
func RenderScopes(scopes []string, accountID string) ([]string, error) {
	if len(scopes) == 0 {
		return nil, apierror.ErrMissingScopes
	}

	rendered := make([]string, 0, len(scopes))
	for _, scope := range scopes {
		if strings.TrimSpace(scope) == "" {
			return nil, apierror.ErrMissingScopes
		}
		rendered = append(rendered, strings.ReplaceAll(scope, AccountPlaceholder, accountID))
	}

	return rendered, nil
}
