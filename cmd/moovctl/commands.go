package main

import (
	"context"
	"fmt"

	"github.com/moovfinancial/moov-go"
	"github.com/spf13/cobra"
)

func newPingCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check connectivity and that the API key is accepted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			if err := client.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("ping failed: %w", err)
			}

			return writeOutput(cmd.OutOrStdout(), a.output, map[string]string{"status": "ok"})
		},
	}
}

func newTokenCommand(a *app) *cobra.Command {
	var (
		scopes    []string
		accountID string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Generate an access token",
		Long: `Generate an access token with the given scopes.

Scopes containing {accountID} are rendered for --account-id, or for the
facilitator account when it is not set.

Examples:
  # Token for browser-side card linking
  moovctl token --account-id acct-1 --scope /accounts/{accountID}/cards.write`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			token, err := client.GenerateToken(cmd.Context(), scopes, accountID)
			if err != nil {
				return fmt.Errorf("token generation failed: %w", err)
			}

			return writeOutput(cmd.OutOrStdout(), a.output, token)
		},
	}

	cmd.Flags().StringSliceVar(&scopes, "scope", []string{moov.ScopePing}, "Scope to request (repeatable)")
	cmd.Flags().StringVar(&accountID, "account-id", "", "Account the token acts for (default: facilitator account)")

	return cmd
}

func newBankAccountsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bank-accounts",
		Short: "Bank account commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list <accountID>",
		Short: "List the bank accounts linked to an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			accounts, err := client.BankAccounts.List(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("listing bank accounts failed: %w", err)
			}

			return writeOutput(cmd.OutOrStdout(), a.output, accounts)
		},
	})

	return cmd
}

func newInstitutionsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "institutions",
		Short: "Search financial institutions",
	}

	cmd.AddCommand(newInstitutionSearchCommand(a, "ach", "Search ACH participants", (*moov.InstitutionsService).GetACH))
	cmd.AddCommand(newInstitutionSearchCommand(a, "wire", "Search wire participants", (*moov.InstitutionsService).GetWire))

	return cmd
}

type institutionSearch func(*moov.InstitutionsService, context.Context, *moov.InstitutionSearchCriteria) (moov.InstitutionParticipants, error)

func newInstitutionSearchCommand(a *app, use, short string, search institutionSearch) *cobra.Command {
	criteria := moov.InstitutionSearchCriteria{}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			participants, err := search(client.Institutions, cmd.Context(), &criteria)
			if err != nil {
				return fmt.Errorf("institution search failed: %w", err)
			}

			return writeOutput(cmd.OutOrStdout(), a.output, participants)
		},
	}

	cmd.Flags().StringVar(&criteria.RoutingNumber, "routing-number", "", "Routing number to match")
	cmd.Flags().StringVar(&criteria.Name, "name", "", "Institution name to match")
	cmd.Flags().IntVar(&criteria.Count, "count", 0, "Maximum number of results")
	cmd.MarkFlagsOneRequired("routing-number", "name")

	return cmd
}

func newEnrichCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Address autocompletion and profile enrichment",
	}

	cmd.AddCommand(newEnrichAddressCommand(a))
	cmd.AddCommand(newEnrichProfileCommand(a))

	return cmd
}

func newEnrichAddressCommand(a *app) *cobra.Command {
	criteria := moov.AddressSearchCriteria{}

	cmd := &cobra.Command{
		Use:   "address",
		Short: "Suggest addresses matching a partial address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			address, err := client.EnrichedAddresses.Get(cmd.Context(), &criteria)
			if err != nil {
				return fmt.Errorf("address search failed: %w", err)
			}

			return writeOutput(cmd.OutOrStdout(), a.output, address)
		},
	}

	cmd.Flags().StringVar(&criteria.Search, "search", "", "Partial address to complete (required)")
	cmd.Flags().IntVar(&criteria.MaxResults, "max-results", 0, "Maximum number of suggestions")
	cmd.Flags().StringVar(&criteria.IncludeStates, "include-states", "", "Only suggest addresses in these states")
	_ = cmd.MarkFlagRequired("search")

	return cmd
}

func newEnrichProfileCommand(a *app) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Look up public profile details for an email address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			profile, err := client.EnrichedProfiles.Get(cmd.Context(), email)
			if err != nil {
				return fmt.Errorf("profile enrichment failed: %w", err)
			}

			return writeOutput(cmd.OutOrStdout(), a.output, profile)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address to enrich (required)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
