//go:build integration

package testhelpers

import (
	"context"
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/docker/go-connections/nat"
	"github.com/moovfinancial/moov-go/internal/config"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/log"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/tink-crypto/tink-go/v2/aead"
	"github.com/tink-crypto/tink-go/v2/insecurecleartextkeyset"
	"github.com/tink-crypto/tink-go/v2/keyset"
)

// RunValkeyContainer starts a password protected Valkey container and
// returns a valkey token cache configuration pointing at it. Encryption is
// configured with a fresh cleartext keyset but left disabled. The container
// is terminated when the test ends.
func RunValkeyContainer(t *testing.T) config.CacheConfig {
	t.Helper()
	ctx := context.Background()

	const valkeyPort = "6379/tcp"

	password := rand.Text()

	req := testcontainers.ContainerRequest{
		Image: "valkey/valkey:8-alpine",
		Cmd:   []string{"valkey-server", "--requirepass", password},
		ExposedPorts: []string{
			valkeyPort,
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("Ready to accept connections"),
			wait.ForListeningPort(nat.Port(valkeyPort)),
		),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
		Logger:           log.TestLogger(t),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	port, err := container.MappedPort(ctx, nat.Port(valkeyPort))
	require.NoError(t, err)

	return config.CacheConfig{
		Type:          config.CacheTypeValkey,
		MaxSize:       100,
		MaxTTLMinutes: 5,
		Deduplicate:   true,
		Valkey: config.ValkeyConfig{
			// 127.0.0.1 rather than localhost avoids resolving to IPv6.
			Address:   "127.0.0.1:" + port.Port(),
			TLS:       false,
			Username:  "default",
			Password:  password,
			KeyPrefix: "moov:token:",
		},
		Encryption: config.CacheEncryptionConfig{
			KeysetURI: "file://" + writeTestKeyset(t),
		},
	}
}

// writeTestKeyset writes a new AES256-GCM keyset as cleartext JSON to a
// temporary file.
func writeTestKeyset(t *testing.T) string {
	t.Helper()

	handle, err := keyset.NewHandle(aead.AES256GCMKeyTemplate())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "token-cache-keyset.json")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	err = insecurecleartextkeyset.Write(handle, keyset.NewJSONWriter(f))
	require.NoError(t, err)

	return path
}
