package encryption

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/tink-crypto/tink-go-awskms/v3/integration/awskms"
	"github.com/tink-crypto/tink-go/v2/aead"
	"github.com/tink-crypto/tink-go/v2/insecurecleartextkeyset"
	"github.com/tink-crypto/tink-go/v2/keyset"
	"github.com/tink-crypto/tink-go/v2/tink"
)

const (
	secretsManagerScheme = "aws-secretsmanager://"
	fileScheme           = "file://"
)

// KMSAPI is the subset of the KMS client used to decrypt a keyset.
type KMSAPI interface {
	Encrypt(ctx context.Context, params *kms.EncryptInput, optFns ...func(*kms.Options)) (*kms.EncryptOutput, error)
	Decrypt(ctx context.Context, params *kms.DecryptInput, optFns ...func(*kms.Options)) (*kms.DecryptOutput, error)
}

// SecretsManagerAPI is the subset of the Secrets Manager client used to read
// a keyset.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

type loadOptions struct {
	kms            KMSAPI
	secretsManager SecretsManagerAPI
}

// LoadOption overrides the AWS clients used by LoadKeysetFromAWS.
type LoadOption func(*loadOptions)

func WithKMSClient(client KMSAPI) LoadOption {
	return func(o *loadOptions) {
		o.kms = client
	}
}

func WithSecretsManagerClient(client SecretsManagerAPI) LoadOption {
	return func(o *loadOptions) {
		o.secretsManager = client
	}
}

// Validate performs a test encryption/decryption cycle to verify the AEAD is
// working. Call this at startup to fail fast if encryption is misconfigured.
func Validate(a tink.AEAD) error {
	testPlaintext := []byte("moov-token-cache-encryption-test")
	testAAD := []byte("validation")

	ciphertext, err := a.Encrypt(testPlaintext, testAAD)
	if err != nil {
		return fmt.Errorf("validation encrypt failed: %w", err)
	}

	decrypted, err := a.Decrypt(ciphertext, testAAD)
	if err != nil {
		return fmt.Errorf("validation decrypt failed: %w", err)
	}

	if !bytes.Equal(testPlaintext, decrypted) {
		return fmt.Errorf("validation round-trip failed: plaintext mismatch")
	}

	return nil
}

// NewAEAD creates the AEAD primitive for a keyset handle.
func NewAEAD(handle *keyset.Handle) (tink.AEAD, error) {
	if handle == nil {
		return nil, fmt.Errorf("creating AEAD primitive: keyset handle is nil")
	}

	primitive, err := aead.New(handle)
	if err != nil {
		return nil, fmt.Errorf("creating AEAD primitive: %w", err)
	}

	return primitive, nil
}

// LoadKeysetFromAWS reads a keyset stored in AWS Secrets Manager and
// decrypts it with an AWS KMS key. KMS is only used here; encrypt and decrypt
// with the resulting keyset are local operations.
//
// keysetURI format: aws-secretsmanager://secret-name
// kmsEnvelopeKeyURI format: aws-kms://arn:aws:kms:region:account:key/key-id
func LoadKeysetFromAWS(ctx context.Context, keysetURI, kmsEnvelopeKeyURI string, opts ...LoadOption) (*keyset.Handle, error) {
	o := loadOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	if o.kms == nil || o.secretsManager == nil {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		if o.kms == nil {
			o.kms = kms.NewFromConfig(cfg)
		}
		if o.secretsManager == nil {
			o.secretsManager = secretsmanager.NewFromConfig(cfg)
		}
	}

	kmsAEAD, err := awskms.NewAEADWithContext(ctx, kmsEnvelopeKeyURI, awskms.WithKMS(o.kms))
	if err != nil {
		return nil, fmt.Errorf("creating KMS AEAD: %w", err)
	}

	reader, err := readKeysetFromSecretsManager(ctx, keysetURI, o.secretsManager)
	if err != nil {
		return nil, fmt.Errorf("reading keyset: %w", err)
	}

	handle, err := keyset.ReadWithContext(ctx, reader, kmsAEAD, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypting keyset: %w", err)
	}

	return handle, nil
}

// LoadKeysetFromFile reads a cleartext JSON keyset. Intended for local
// development where no KMS key is available.
func LoadKeysetFromFile(path string) (*keyset.Handle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening keyset file: %w", err)
	}
	defer func() { _ = f.Close() }()

	handle, err := insecurecleartextkeyset.Read(keyset.NewJSONReader(f))
	if err != nil {
		return nil, fmt.Errorf("reading cleartext keyset: %w", err)
	}

	return handle, nil
}

// LoadAEAD resolves keysetURI to a validated AEAD. Secrets Manager URIs
// need the KMS envelope key; file URIs are read as cleartext keysets.
func LoadAEAD(ctx context.Context, keysetURI, kmsEnvelopeKeyURI string, opts ...LoadOption) (tink.AEAD, error) {
	var (
		handle *keyset.Handle
		err    error
	)

	if path, ok := strings.CutPrefix(keysetURI, fileScheme); ok {
		handle, err = LoadKeysetFromFile(path)
	} else {
		handle, err = LoadKeysetFromAWS(ctx, keysetURI, kmsEnvelopeKeyURI, opts...)
	}
	if err != nil {
		return nil, err
	}

	primitive, err := NewAEAD(handle)
	if err != nil {
		return nil, err
	}

	if err := Validate(primitive); err != nil {
		return nil, fmt.Errorf("validating AEAD: %w", err)
	}

	return primitive, nil
}

// readKeysetFromSecretsManager reads a Tink keyset from AWS Secrets Manager.
// URI format: aws-secretsmanager://secret-name
func readKeysetFromSecretsManager(ctx context.Context, uri string, client SecretsManagerAPI) (*keyset.JSONReader, error) {
	secretName, ok := strings.CutPrefix(uri, secretsManagerScheme)
	if !ok {
		return nil, fmt.Errorf("invalid secrets manager URI %q: must start with %s", uri, secretsManagerScheme)
	}
	if secretName == "" {
		return nil, fmt.Errorf("invalid secrets manager URI %q: secret name is empty", uri)
	}

	result, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &secretName,
	})
	if err != nil {
		return nil, fmt.Errorf("getting secret %q: %w", secretName, err)
	}

	if result.SecretString == nil {
		return nil, fmt.Errorf("secret %q has no string value", secretName)
	}

	return keyset.NewJSONReader(strings.NewReader(*result.SecretString)), nil
}

// NewTestAEAD creates a tink.AEAD for testing without KMS. Keys are neither
// persisted nor protected.
func NewTestAEAD() (tink.AEAD, error) {
	handle, err := keyset.NewHandle(aead.AES256GCMKeyTemplate())
	if err != nil {
		return nil, fmt.Errorf("creating test keyset handle: %w", err)
	}
	return NewAEAD(handle)
}
