package pipeline

import (
	"testing"

	"github.com/moovfinancial/moov-go/internal/apierror"
	"github.com/stretchr/testify/assert"
)

func TestQueryEncode_KeepsInsertionOrder(t *testing.T) {
	q := &Query{}
	q.Add("search", "123 Fake St").
		Add("maxResults", "").
		Add("includeCities", "Springfield")

	assert.Equal(t, "search=123+Fake+St&includeCities=Springfield", q.Encode())
}

func TestQueryEncode_NumericValues(t *testing.T) {
	q := &Query{}
	q.AddInt("count", 0).
		AddInt("skip", 20).
		AddFloat("preferRatio", 0).
		AddFloat("lat", 12.5)

	assert.Equal(t, "skip=20&lat=12.5", q.Encode())
	assert.Equal(t, 2, q.Len())
}

func TestQueryEncode_Empty(t *testing.T) {
	var q *Query
	assert.Equal(t, "", q.Encode())
	assert.Equal(t, 0, q.Len())

	assert.Equal(t, "", (&Query{}).Add("a", "").Encode())
}

func TestQueryEncode_EscapesReservedCharacters(t *testing.T) {
	q := (&Query{}).Add("email", "a+b@example.com").Add("q", "x&y=z")

	assert.Equal(t, "email=a%2Bb%40example.com&q=x%26y%3Dz", q.Encode())
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "accounts/acct-1/bank-accounts", JoinPath("accounts", "acct-1", "bank-accounts"))
	assert.Equal(t, "accounts/a%2Fb", JoinPath("accounts", "a/b"))
	assert.Equal(t, "transfers/t%20x/refunds", JoinPath("transfers", "t x", "refunds"))
	assert.Equal(t, "accounts/acct-1/bank-accounts/%2E%2E", JoinPath("accounts", "acct-1", "bank-accounts", ".."))
	assert.Equal(t, "accounts/%2E/cards", JoinPath("accounts", ".", "cards"))
	assert.Equal(t, "accounts/...x", JoinPath("accounts", "...x"))
}

func TestCheckPath(t *testing.T) {
	assert.NoError(t, checkPath("accounts/acct-1/bank-accounts"))
	assert.NoError(t, checkPath("accounts/...x"))
	assert.ErrorIs(t, checkPath("accounts/acct-1/%2E%2E"), apierror.ErrInvalidPathSegment)
	assert.ErrorIs(t, checkPath("accounts/%2e/cards"), apierror.ErrInvalidPathSegment)
	assert.ErrorIs(t, checkPath("accounts/../ping"), apierror.ErrInvalidPathSegment)
	assert.Error(t, checkPath("accounts/%zz"))
}
