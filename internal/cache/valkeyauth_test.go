package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"
)

func TestStaticCredentialsFn(t *testing.T) {
	fn := StaticCredentialsFn("moov", "hunter2")

	for range 2 {
		creds, err := fn(valkey.AuthCredentialsContext{})
		require.NoError(t, err)
		assert.Equal(t, valkey.AuthCredentials{Username: "moov", Password: "hunter2"}, creds)
	}
}
