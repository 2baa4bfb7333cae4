package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/moovfinancial/moov-go"
	"github.com/moovfinancial/moov-go/internal/config"
	"github.com/moovfinancial/moov-go/internal/lifecycle"
	"github.com/moovfinancial/moov-go/internal/observe"
	"github.com/moovfinancial/moov-go/internal/secret"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app holds what every subcommand shares. The client is created lazily so
// that --help and flag errors need no configuration.
type app struct {
	output string
	client *moov.Client
	hooks  lifecycle.ShutdownHooks
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "moovctl",
		Short: "Moov API command line client",
		Long: `moovctl calls the Moov API using an API key read from the environment.

Required environment:
  MOOV_ACCOUNT_ID   facilitator account ID
  MOOV_PUBLIC_KEY   API key public value
  MOOV_SECRET_KEY   API key secret value, or MOOV_SECRET_KEY_KMS_CIPHERTEXT
  MOOV_DOMAIN       a domain registered against the API key

Set MOOV_TOKEN_CACHE_TYPE=valkey and MOOV_VALKEY_ADDRESS to share tokens
between invocations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return validateOutput(a.output)
		},
	}

	cmd.PersistentFlags().StringVarP(&a.output, "output", "o", outputJSON, "Output format: json or yaml")

	cmd.AddCommand(newPingCommand(a))
	cmd.AddCommand(newTokenCommand(a))
	cmd.AddCommand(newBankAccountsCommand(a))
	cmd.AddCommand(newInstitutionsCommand(a))
	cmd.AddCommand(newEnrichCommand(a))

	return cmd
}

// connect loads configuration and creates the Moov client, registering
// everything that needs releasing with the app's shutdown hooks.
func (a *app) connect(ctx context.Context) (*moov.Client, error) {
	if a.client != nil {
		return a.client, nil
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("configuration load failed: %w", err)
	}

	shutdownTelemetry, err := observe.Configure(ctx, cfg.Observe)
	if err != nil {
		return nil, fmt.Errorf("telemetry bootstrap failed: %w", err)
	}
	a.hooks.Add("telemetry", shutdownTelemetry)

	credentials, err := resolveCredentials(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("credential resolution failed: %w", err)
	}

	opts := []moov.Option{
		moov.WithBaseURL(cfg.API.URL),
		moov.WithUserAgent("moovctl"),
		moov.WithHTTPClient(&http.Client{
			Transport: configureHTTPTransport(cfg.API),
			Timeout:   cfg.API.Timeout(),
		}),
		moov.WithTokenCacheSize(cfg.Cache.MaxSize),
		moov.WithTokenCacheMaxTTL(cfg.Cache.MaxTTL()),
		moov.WithDeduplication(cfg.Cache.Deduplicate),
	}
	if cfg.Cache.Type == config.CacheTypeValkey {
		opts = append(opts, moov.WithSharedTokenCache(cfg.Cache.Valkey, cfg.Cache.Encryption))
	}
	if cfg.Observe.Enabled && cfg.Observe.HTTPTransportEnabled {
		opts = append(opts, moov.WithTelemetry(cfg.Observe.HTTPConnectionTraceEnabled))
	}

	client, err := moov.New(credentials, opts...)
	if err != nil {
		return nil, err
	}
	a.hooks.AddCloser("moov client", client)
	a.client = client

	log.Ctx(ctx).Debug().Str("url", cfg.API.URL).Msg("moov client configured")

	return client, nil
}

func resolveCredentials(ctx context.Context, cfg config.Config) (config.Credentials, error) {
	var decrypter *secret.Decrypter
	if cfg.Credentials.SecretKey == "" && cfg.Secret.KMSCiphertext != "" {
		d, err := secret.NewDecrypterFromEnvironment(ctx, cfg.Secret.KMSKeyID)
		if err != nil {
			return config.Credentials{}, err
		}
		decrypter = d
	}

	return secret.ResolveCredentials(ctx, cfg, decrypter)
}
