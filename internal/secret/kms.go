// Package secret resolves the API secret key when it is supplied as an AWS
// KMS ciphertext rather than in plain text.
package secret

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/moovfinancial/moov-go/internal/config"
	"github.com/rs/zerolog/log"
)

// KMSClient defines the AWS API surface required for decryption.
type KMSClient interface {
	Decrypt(ctx context.Context, in *kms.DecryptInput, optFns ...func(*kms.Options)) (*kms.DecryptOutput, error)
}

// Decrypter turns a KMS ciphertext into the plain secret key.
type Decrypter struct {
	client KMSClient
	keyID  string
}

// NewDecrypter uses the client as is. keyID may be empty for symmetric keys.
func NewDecrypter(client KMSClient, keyID string) *Decrypter {
	return &Decrypter{client: client, keyID: keyID}
}

// NewDecrypterFromEnvironment loads the default AWS configuration chain and
// creates a KMS backed decrypter.
func NewDecrypterFromEnvironment(ctx context.Context, keyID string) (*Decrypter, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return NewDecrypter(kms.NewFromConfig(awsCfg), keyID), nil
}

// Decrypt decodes the base64 ciphertext and decrypts it with KMS.
func (d *Decrypter) Decrypt(ctx context.Context, ciphertext string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(strings.TrimSpace(ciphertext))
	if err != nil {
		return "", fmt.Errorf("secret key ciphertext is not valid base64: %w", err)
	}

	in := &kms.DecryptInput{CiphertextBlob: blob}
	if d.keyID != "" {
		in.KeyId = aws.String(d.keyID)
	}

	out, err := d.client.Decrypt(ctx, in)
	if err != nil {
		return "", fmt.Errorf("KMS decryption failed: %w", err)
	}

	plain := strings.TrimSpace(string(out.Plaintext))
	if plain == "" {
		return "", fmt.Errorf("KMS decryption returned an empty secret key")
	}

	return plain, nil
}

// ResolveCredentials returns cfg's credentials with the secret key filled in.
// A plain MOOV_SECRET_KEY wins; otherwise the ciphertext is decrypted.
func ResolveCredentials(ctx context.Context, cfg config.Config, decrypter *Decrypter) (config.Credentials, error) {
	creds := cfg.Credentials
	if creds.SecretKey != "" {
		return creds, nil
	}
	if cfg.Secret.KMSCiphertext == "" {
		return creds, nil
	}
	if decrypter == nil {
		return creds, fmt.Errorf("secret key is encrypted but no decrypter is configured")
	}

	secretKey, err := decrypter.Decrypt(ctx, cfg.Secret.KMSCiphertext)
	if err != nil {
		return creds, err
	}

	log.Ctx(ctx).Debug().Msg("secret key decrypted with KMS")
	creds.SecretKey = secretKey

	return creds, nil
}
