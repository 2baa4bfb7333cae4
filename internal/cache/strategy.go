package cache

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/tink-crypto/tink-go/v2/tink"
)

const (
	// valuePrefix marks sealed values, so a plaintext entry left by a client
	// without encryption is rejected rather than parsed.
	valuePrefix = "moov-enc:"

	// sealVersion follows valuePrefix and names the value layout.
	sealVersion = "v1"

	// sealedNamespace separates sealed entries from plaintext ones sharing a
	// namespace.
	sealedNamespace = "enc:"
)

// EncryptionStrategy controls how an account's token is laid out on the
// server: the key it lives under and the encoding of its value.
type EncryptionStrategy interface {
	// StorageKey places accountID's entry within namespace.
	StorageKey(namespace, accountID string) string

	// Seal encodes token for storage under storageKey.
	Seal(ctx context.Context, storageKey string, token []byte) (string, error)

	// Open decodes a value read from storageKey.
	Open(ctx context.Context, storageKey string, value string) ([]byte, error)

	Close() error
}

// PlaintextStrategy stores token JSON unchanged.
type PlaintextStrategy struct{}

func (PlaintextStrategy) StorageKey(namespace, accountID string) string {
	return namespace + accountID
}

func (PlaintextStrategy) Seal(_ context.Context, _ string, token []byte) (string, error) {
	return string(token), nil
}

func (PlaintextStrategy) Open(_ context.Context, _ string, value string) ([]byte, error) {
	return []byte(value), nil
}

func (PlaintextStrategy) Close() error {
	return nil
}

// AEADStrategy seals tokens with a Tink AEAD. The full storage key is the
// associated data, which carries both the API key namespace and the account
// ID: a value copied to any other entry fails to open.
//
// Sealed values are "moov-enc:v1:" followed by the unpadded base64url
// ciphertext.
type AEADStrategy struct {
	aead tink.AEAD
}

func NewAEADStrategy(aead tink.AEAD) *AEADStrategy {
	return &AEADStrategy{aead: aead}
}

func (s *AEADStrategy) StorageKey(namespace, accountID string) string {
	return namespace + sealedNamespace + accountID
}

func (s *AEADStrategy) Seal(_ context.Context, storageKey string, token []byte) (string, error) {
	ciphertext, err := s.aead.Encrypt(token, associatedData(storageKey))
	if err != nil {
		return "", fmt.Errorf("sealing token: %w", err)
	}
	return valuePrefix + sealVersion + ":" + base64.RawURLEncoding.EncodeToString(ciphertext), nil
}

func (s *AEADStrategy) Open(_ context.Context, storageKey string, value string) ([]byte, error) {
	rest, ok := strings.CutPrefix(value, valuePrefix)
	if !ok {
		return nil, fmt.Errorf("missing %q prefix: value may be unencrypted or corrupted", valuePrefix)
	}

	version, encoded, ok := strings.Cut(rest, ":")
	if !ok || version != sealVersion {
		return nil, fmt.Errorf("unsupported sealed value version %q", version)
	}

	ciphertext, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("base64 decode failed: %w", err)
	}

	token, err := s.aead.Decrypt(ciphertext, associatedData(storageKey))
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}

	return token, nil
}

// Close releases the AEAD when it holds resources, such as the refresh
// goroutine of an encryption.RefreshableAEAD.
func (s *AEADStrategy) Close() error {
	if closer, ok := s.aead.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

func associatedData(storageKey string) []byte {
	return []byte(sealVersion + "|" + storageKey)
}
