package encryption_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/moovfinancial/moov-go/internal/cache/encryption"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tink-crypto/tink-go/v2/aead"
	"github.com/tink-crypto/tink-go/v2/insecurecleartextkeyset"
	"github.com/tink-crypto/tink-go/v2/keyset"
)

func TestAEAD_BindsAssociatedData(t *testing.T) {
	primitive, err := encryption.NewTestAEAD()
	require.NoError(t, err)

	plaintext := []byte(`{"accessToken":"access-token-1","expiresIn":3600}`)

	ct, err := primitive.Encrypt(plaintext, []byte("acct-1"))
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, ct)

	pt, err := primitive.Decrypt(ct, []byte("acct-1"))
	require.NoError(t, err)
	assert.Equal(t, plaintext, pt)

	_, err = primitive.Decrypt(ct, []byte("acct-2"))
	assert.Error(t, err, "ciphertext must not decrypt under another account's key")

	corrupted := append([]byte{}, ct...)
	corrupted[len(corrupted)-1] ^= 0xff
	_, err = primitive.Decrypt(corrupted, []byte("acct-1"))
	assert.Error(t, err)
}

func TestAEAD_DistinctKeysets(t *testing.T) {
	first, err := encryption.NewTestAEAD()
	require.NoError(t, err)
	second, err := encryption.NewTestAEAD()
	require.NoError(t, err)

	ct, err := first.Encrypt([]byte("token"), []byte("acct-1"))
	require.NoError(t, err)

	_, err = second.Decrypt(ct, []byte("acct-1"))
	assert.Error(t, err)
}

// writeCleartextKeyset writes a new keyset as cleartext JSON and returns its
// path.
func writeCleartextKeyset(t *testing.T) string {
	t.Helper()

	handle, err := keyset.NewHandle(aead.AES256GCMKeyTemplate())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "keyset.json")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	require.NoError(t, insecurecleartextkeyset.Write(handle, keyset.NewJSONWriter(f)))
	return path
}

func TestLoadKeysetFromFile(t *testing.T) {
	handle, err := encryption.LoadKeysetFromFile(writeCleartextKeyset(t))
	require.NoError(t, err)

	primitive, err := encryption.NewAEAD(handle)
	require.NoError(t, err)
	assert.NoError(t, encryption.Validate(primitive))
}

func TestLoadKeysetFromFile_Errors(t *testing.T) {
	dir := t.TempDir()
	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte("not json"), 0o600))
	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))

	tests := []struct {
		name     string
		path     string
		contains string
	}{
		{"missing file", filepath.Join(dir, "missing.json"), "opening keyset file"},
		{"invalid json", invalid, "reading cleartext keyset"},
		{"empty file", empty, "reading cleartext keyset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := encryption.LoadKeysetFromFile(tt.path)
			assert.ErrorContains(t, err, tt.contains)
		})
	}
}

func TestLoadAEAD_File(t *testing.T) {
	primitive, err := encryption.LoadAEAD(context.Background(), "file://"+writeCleartextKeyset(t), "")
	require.NoError(t, err)
	assert.NoError(t, encryption.Validate(primitive))
}

func TestNewRefreshableAEADFromFile(t *testing.T) {
	r, err := encryption.NewRefreshableAEADFromFile(t.Context(), writeCleartextKeyset(t))
	require.NoError(t, err)
	defer func() { assert.NoError(t, r.Close()) }()

	ct, err := r.Encrypt([]byte("token"), []byte("acct-1"))
	require.NoError(t, err)

	pt, err := r.Decrypt(ct, []byte("acct-1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("token"), pt)
}

func TestNewRefreshableAEADFromFile_Errors(t *testing.T) {
	invalid := filepath.Join(t.TempDir(), "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte("not a keyset"), 0o600))

	for _, path := range []string{invalid, filepath.Join(t.TempDir(), "missing.json")} {
		r, err := encryption.NewRefreshableAEADFromFile(t.Context(), path)
		assert.Nil(t, r)
		assert.ErrorContains(t, err, "loading initial AEAD")
	}
}
