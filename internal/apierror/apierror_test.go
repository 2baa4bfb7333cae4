package apierror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError_DecodesJSONBody(t *testing.T) {
	err := NewAPIError("GET", "accounts/a1", 404, []byte(`{"error":"account not found"}`))

	assert.Equal(t, "account not found", err.Message())
	assert.Equal(t, "moov: GET accounts/a1: 404 Not Found: account not found", err.Error())
}

func TestAPIError_RawBody(t *testing.T) {
	err := NewAPIError("POST", "transfers", 502, []byte("bad gateway\n"))

	assert.Nil(t, err.Details)
	assert.Equal(t, "bad gateway", err.Message())
	assert.Contains(t, err.Error(), "502 Bad Gateway")
}

func TestAPIError_EmptyBody(t *testing.T) {
	err := NewAPIError("DELETE", "accounts/a1/cards/c1", 409, nil)

	assert.Equal(t, "", err.Message())
	assert.Equal(t, "moov: DELETE accounts/a1/cards/c1: 409 Conflict", err.Error())
}

func TestAuthenticationFailedError(t *testing.T) {
	err := &AuthenticationFailedError{
		AccountID:  "acct-1",
		StatusCode: 401,
		Body:       []byte(`{"error":"invalid_client"}`),
	}

	assert.Equal(t, `moov: authentication failed for account acct-1: status 401: {"error":"invalid_client"}`, err.Error())
}

func TestAuthenticationFailedError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("token: %w", &AuthenticationFailedError{Err: cause})

	var authErr *AuthenticationFailedError
	assert.ErrorAs(t, err, &authErr)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestValidationError_Sentinels(t *testing.T) {
	err := fmt.Errorf("list cards: %w", ErrMissingAccountID)

	assert.ErrorIs(t, err, ErrMissingAccountID)
	assert.NotErrorIs(t, err, ErrMissingCardID)
	assert.EqualError(t, ErrMissingAccountID, "moov: missing account ID")
}

func TestConfigurationError(t *testing.T) {
	assert.EqualError(t, &ConfigurationError{Field: "domain", Reason: "must be a valid URL"},
		"moov: invalid configuration: domain: must be a valid URL")
	assert.EqualError(t, &ConfigurationError{Reason: "missing API key credentials"},
		"moov: invalid configuration: missing API key credentials")
}
