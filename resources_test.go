package moov_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/moovfinancial/moov-go"
	"github.com/moovfinancial/moov-go/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidation_FailsBeforeNetwork(t *testing.T) {
	validBank := &moov.BankAccountDetails{
		AccountNumber: "0004321567000",
		RoutingNumber: "123456789",
		HolderName:    "Jules Jackson",
		HolderType:    moov.BankAccountHolderTypeIndividual,
	}
	withBank := func(change func(d *moov.BankAccountDetails)) moov.BankAccountLink {
		d := *validBank
		change(&d)
		return moov.BankAccountLink{Account: &d}
	}

	tests := []struct {
		name string
		call func(ctx context.Context, c *moov.Client) error
		want error
	}{
		{
			name: "create account without payload",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.Accounts.Create(ctx, nil)
				return err
			},
			want: moov.ErrMissingAccount,
		},
		{
			name: "get account without ID",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.Accounts.Get(ctx, " ")
				return err
			},
			want: moov.ErrMissingAccountID,
		},
		{
			name: "update account without payload",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.Accounts.Update(ctx, "acct-1", nil)
				return err
			},
			want: moov.ErrMissingAccount,
		},
		{
			name: "avatar without unique ID",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.Avatars.Get(ctx, "")
				return err
			},
			want: moov.ErrMissingUniqueID,
		},
		{
			name: "link bank account without payload",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.BankAccounts.Link(ctx, "acct-1", moov.BankAccountLink{})
				return err
			},
			want: moov.ErrMissingBankPayload,
		},
		{
			name: "link bank account without account number",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.BankAccounts.Link(ctx, "acct-1", withBank(func(d *moov.BankAccountDetails) { d.AccountNumber = "" }))
				return err
			},
			want: moov.ErrMissingBankAccountNumber,
		},
		{
			name: "link bank account without routing number",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.BankAccounts.Link(ctx, "acct-1", withBank(func(d *moov.BankAccountDetails) { d.RoutingNumber = "" }))
				return err
			},
			want: moov.ErrMissingBankAccountRoutingNumber,
		},
		{
			name: "link bank account with short routing number",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.BankAccounts.Link(ctx, "acct-1", withBank(func(d *moov.BankAccountDetails) { d.RoutingNumber = "12345678" }))
				return err
			},
			want: moov.ErrInvalidBankAccountRoutingNumber,
		},
		{
			name: "link bank account with non-numeric routing number",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.BankAccounts.Link(ctx, "acct-1", withBank(func(d *moov.BankAccountDetails) { d.RoutingNumber = "12345678x" }))
				return err
			},
			want: moov.ErrInvalidBankAccountRoutingNumber,
		},
		{
			name: "link bank account without holder name",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.BankAccounts.Link(ctx, "acct-1", withBank(func(d *moov.BankAccountDetails) { d.HolderName = "" }))
				return err
			},
			want: moov.ErrMissingBankAccountHolderName,
		},
		{
			name: "link bank account without holder type",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.BankAccounts.Link(ctx, "acct-1", withBank(func(d *moov.BankAccountDetails) { d.HolderType = "" }))
				return err
			},
			want: moov.ErrMissingBankAccountHolderType,
		},
		{
			name: "link bank account without account ID",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.BankAccounts.Link(ctx, "", moov.BankAccountLink{Account: validBank})
				return err
			},
			want: moov.ErrMissingAccountID,
		},
		{
			name: "get bank account without ID",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.BankAccounts.Get(ctx, "acct-1", "")
				return err
			},
			want: moov.ErrMissingBankAccountID,
		},
		{
			name: "complete micro-deposits without amounts",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.BankAccounts.CompleteMicroDeposits(ctx, "acct-1", "ba-1", nil)
				return err
			},
			want: moov.ErrMissingAmounts,
		},
		{
			name: "request no capabilities",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.Capabilities.Request(ctx, "acct-1", nil)
				return err
			},
			want: moov.ErrMissingCapability,
		},
		{
			name: "request blank capability",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.Capabilities.Request(ctx, "acct-1", []string{moov.CapabilityTransfers, " "})
				return err
			},
			want: moov.ErrMissingCapability,
		},
		{
			name: "disable capability without name",
			call: func(ctx context.Context, c *moov.Client) error {
				return c.Capabilities.Disable(ctx, "acct-1", "")
			},
			want: moov.ErrMissingCapability,
		},
		{
			name: "link card without payload",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.Cards.Link(ctx, "acct-1", nil)
				return err
			},
			want: moov.ErrMissingCard,
		},
		{
			name: "disable card without ID",
			call: func(ctx context.Context, c *moov.Client) error {
				return c.Cards.Disable(ctx, "acct-1", "")
			},
			want: moov.ErrMissingCardID,
		},
		{
			name: "enrich address without criteria",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.EnrichedAddresses.Get(ctx, nil)
				return err
			},
			want: moov.ErrMissingCriteria,
		},
		{
			name: "enrich address without search",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.EnrichedAddresses.Get(ctx, &moov.AddressSearchCriteria{MaxResults: 5})
				return err
			},
			want: moov.ErrMissingEnrichAddressSearch,
		},
		{
			name: "enrich profile without email",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.EnrichedProfiles.Get(ctx, "")
				return err
			},
			want: moov.ErrMissingEmail,
		},
		{
			name: "institution search without criteria",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.Institutions.GetACH(ctx, nil)
				return err
			},
			want: moov.ErrMissingCriteria,
		},
		{
			name: "institution search without name or routing number",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.Institutions.GetWire(ctx, &moov.InstitutionSearchCriteria{Count: 10})
				return err
			},
			want: moov.ErrMissingInstitutionNameOrRouting,
		},
		{
			name: "payment method without ID",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.PaymentMethods.Get(ctx, "acct-1", "")
				return err
			},
			want: moov.ErrMissingPaymentMethodID,
		},
		{
			name: "create representative without payload",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.Representatives.Create(ctx, "acct-1", nil)
				return err
			},
			want: moov.ErrMissingRepresentative,
		},
		{
			name: "delete representative without ID",
			call: func(ctx context.Context, c *moov.Client) error {
				return c.Representatives.Delete(ctx, "acct-1", "")
			},
			want: moov.ErrMissingRepresentativeID,
		},
		{
			name: "create transfer without payload",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.Transfers.Create(ctx, nil)
				return err
			},
			want: moov.ErrMissingTransfer,
		},
		{
			name: "create transfer without destination",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.Transfers.Create(ctx, &moov.TransferRequest{
					Source: moov.TransferEndpoint{PaymentMethodID: "pm-1"},
				})
				return err
			},
			want: moov.ErrMissingTransfer,
		},
		{
			name: "transfer options without amount",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.Transfers.TransferOptions(ctx, &moov.TransferOptionsRequest{
					Source:      moov.TransferOptionsParty{AccountID: "acct-1"},
					Destination: moov.TransferOptionsParty{AccountID: "acct-2"},
				})
				return err
			},
			want: moov.ErrMissingTransferOptionsPaymentData,
		},
		{
			name: "refund without transfer ID",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.Transfers.Refund(ctx, "", nil)
				return err
			},
			want: moov.ErrMissingTransferID,
		},
		{
			name: "get refund without ID",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.Transfers.GetRefund(ctx, "t-1", "")
				return err
			},
			want: moov.ErrMissingRefundID,
		},
		{
			name: "wallet without ID",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.Wallets.Get(ctx, "acct-1", "")
				return err
			},
			want: moov.ErrMissingWalletID,
		},
		{
			name: "wallet transaction without ID",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.Wallets.GetTransaction(ctx, "acct-1", "w-1", "")
				return err
			},
			want: moov.ErrMissingTransactionID,
		},
		{
			name: "bank account ID of parent directory",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.BankAccounts.Get(ctx, "acct-1", "..")
				return err
			},
			want: moov.ErrInvalidPathSegment,
		},
		{
			name: "account ID of current directory",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.Cards.Get(ctx, ".", "card-1")
				return err
			},
			want: moov.ErrInvalidPathSegment,
		},
		{
			name: "transfer ID of parent directory",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.Transfers.Get(ctx, "..")
				return err
			},
			want: moov.ErrInvalidPathSegment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testhelpers.SetupMockMoovServer(t)
			client := newClient(t, mock)

			err := tt.call(context.Background(), client)

			assert.ErrorIs(t, err, tt.want)
			var validationErr *moov.ValidationError
			assert.ErrorAs(t, err, &validationErr)
			assert.Empty(t, mock.Requests())
		})
	}
}

func TestRoutes(t *testing.T) {
	tests := []struct {
		name   string
		route  string
		bearer bool
		call   func(ctx context.Context, c *moov.Client) error
	}{
		{
			name:  "create account",
			route: "POST /accounts",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.Accounts.Create(ctx, &moov.AccountRequest{AccountType: moov.AccountTypeIndividual})
				return err
			},
		},
		{
			name:  "update account",
			route: "PATCH /accounts/acct-1",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.Accounts.Update(ctx, "acct-1", &moov.AccountRequest{ForeignID: "f-1"})
				return err
			},
		},
		{
			name:   "disable bank account",
			route:  "DELETE /accounts/acct-1/bank-accounts/ba-1",
			bearer: true,
			call: func(ctx context.Context, c *moov.Client) error {
				return c.BankAccounts.Disable(ctx, "acct-1", "ba-1")
			},
		},
		{
			name:   "start micro-deposits",
			route:  "POST /accounts/acct-1/bank-accounts/ba-1/micro-deposits",
			bearer: true,
			call: func(ctx context.Context, c *moov.Client) error {
				return c.BankAccounts.InitMicroDeposits(ctx, "acct-1", "ba-1")
			},
		},
		{
			name:   "get capability",
			route:  "GET /accounts/acct-1/capabilities/transfers",
			bearer: true,
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.Capabilities.Get(ctx, "acct-1", moov.CapabilityTransfers)
				return err
			},
		},
		{
			name:   "list cards",
			route:  "GET /accounts/acct-1/cards",
			bearer: true,
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.Cards.List(ctx, "acct-1")
				return err
			},
		},
		{
			name:   "list payment methods",
			route:  "GET /accounts/acct-1/payment-methods",
			bearer: true,
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.PaymentMethods.List(ctx, "acct-1")
				return err
			},
		},
		{
			name:   "update representative",
			route:  "PATCH /accounts/acct-1/representatives/rep-1",
			bearer: true,
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.Representatives.Update(ctx, "acct-1", "rep-1", &moov.RepresentativeRequest{Email: "jules@example.com"})
				return err
			},
		},
		{
			name:   "get wallet transaction",
			route:  "GET /accounts/acct-1/wallets/w-1/transactions/tx-1",
			bearer: true,
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.Wallets.GetTransaction(ctx, "acct-1", "w-1", "tx-1")
				return err
			},
		},
		{
			name:  "get transfer",
			route: "GET /transfers/t-1",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.Transfers.Get(ctx, "t-1")
				return err
			},
		},
		{
			name:  "get refund",
			route: "GET /transfers/t-1/refunds/r-1",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.Transfers.GetRefund(ctx, "t-1", "r-1")
				return err
			},
		},
		{
			name:  "list refunds",
			route: "GET /transfers/t-1/refunds",
			call: func(ctx context.Context, c *moov.Client) error {
				_, err := c.Transfers.ListRefunds(ctx, "t-1")
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testhelpers.SetupMockMoovServer(t)
			mock.Handle(tt.route, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("null"))
			})
			client := newClient(t, mock)

			err := tt.call(context.Background(), client)
			require.NoError(t, err)

			method, path, _ := strings.Cut(tt.route, " ")
			req, ok := mock.Last(method, path)
			require.True(t, ok)

			if tt.bearer {
				assert.Equal(t, "Bearer access-token-1", req.Authorization)
				assert.Len(t, mock.TokenRequests(), 1)
			} else {
				assert.True(t, strings.HasPrefix(req.Authorization, "Basic "))
				assert.Empty(t, mock.TokenRequests())
			}
		})
	}
}

func TestAccountsList_Query(t *testing.T) {
	mock := testhelpers.SetupMockMoovServer(t)
	mock.HandleJSON("GET /accounts", http.StatusOK, []map[string]string{{"accountID": "acct-1"}})
	client := newClient(t, mock)

	accounts, err := client.Accounts.List(context.Background(), &moov.AccountListCriteria{
		Email: "a+b@example.com",
		Type:  moov.AccountTypeBusiness,
		Count: 20,
	})
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "acct-1", accounts[0].AccountID)

	req, ok := mock.Last(http.MethodGet, "/accounts")
	require.True(t, ok)
	assert.Equal(t, "email=a%2Bb%40example.com&type=business&count=20", req.RawQuery)
}

func TestAvatarsGet_ReturnsImage(t *testing.T) {
	mock := testhelpers.SetupMockMoovServer(t)
	mock.Handle("GET /avatars/u-1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	})
	client := newClient(t, mock)

	data, err := client.Avatars.Get(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestBankAccountsLink_Payloads(t *testing.T) {
	tests := []struct {
		name string
		link moov.BankAccountLink
		want string
	}{
		{
			name: "account numbers",
			link: moov.BankAccountLink{Account: &moov.BankAccountDetails{
				AccountNumber: "0004321567000",
				RoutingNumber: "123456789",
				HolderName:    "Jules Jackson",
				HolderType:    moov.BankAccountHolderTypeIndividual,
			}},
			want: `{"account":{"accountNumber":"0004321567000","routingNumber":"123456789","holderName":"Jules Jackson","holderType":"individual"}}`,
		},
		{
			name: "plaid",
			link: moov.BankAccountLink{PlaidToken: "plaid-token"},
			want: `{"plaid":{"token":"plaid-token"}}`,
		},
		{
			name: "mx",
			link: moov.BankAccountLink{MXAuthorizationCode: "mx-code"},
			want: `{"mx":{"authorizationCode":"mx-code"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testhelpers.SetupMockMoovServer(t)
			mock.HandleJSON("POST /accounts/acct-1/bank-accounts", http.StatusOK, map[string]string{"bankAccountID": "ba-1"})
			client := newClient(t, mock)

			account, err := client.BankAccounts.Link(context.Background(), "acct-1", tt.link)
			require.NoError(t, err)
			assert.Equal(t, "ba-1", account.BankAccountID)

			req, ok := mock.Last(http.MethodPost, "/accounts/acct-1/bank-accounts")
			require.True(t, ok)
			assert.JSONEq(t, tt.want, string(req.Body))
		})
	}
}

func TestBankAccountsCompleteMicroDeposits(t *testing.T) {
	mock := testhelpers.SetupMockMoovServer(t)
	mock.HandleJSON("PUT /accounts/acct-1/bank-accounts/ba-1/micro-deposits", http.StatusOK, map[string]string{"status": "verified"})
	client := newClient(t, mock)

	status, err := client.BankAccounts.CompleteMicroDeposits(context.Background(), "acct-1", "ba-1", []int{22, 21})
	require.NoError(t, err)
	assert.Equal(t, "verified", status.Status)

	req, ok := mock.Last(http.MethodPut, "/accounts/acct-1/bank-accounts/ba-1/micro-deposits")
	require.True(t, ok)
	assert.JSONEq(t, `{"amounts":[22,21]}`, string(req.Body))
}

func TestCapabilitiesRequest(t *testing.T) {
	mock := testhelpers.SetupMockMoovServer(t)
	mock.HandleJSON("POST /accounts/acct-1/capabilities", http.StatusOK, []map[string]string{
		{"capability": "transfers", "status": "pending"},
	})
	client := newClient(t, mock)

	capabilities, err := client.Capabilities.Request(context.Background(), "acct-1", []string{moov.CapabilityTransfers})
	require.NoError(t, err)
	require.Len(t, capabilities, 1)
	assert.Equal(t, "pending", capabilities[0].Status)

	req, ok := mock.Last(http.MethodPost, "/accounts/acct-1/capabilities")
	require.True(t, ok)
	assert.JSONEq(t, `{"capabilities":["transfers"]}`, string(req.Body))
}

func TestEnrichedAddressesGet_QueryOrder(t *testing.T) {
	mock := testhelpers.SetupMockMoovServer(t)
	mock.HandleJSON("GET /enrichment/address", http.StatusOK, map[string]any{
		"suggestions": []map[string]string{{"addressLine1": "123 Fake St", "city": "Springfield"}},
	})
	client := newClient(t, mock)

	address, err := client.EnrichedAddresses.Get(context.Background(), &moov.AddressSearchCriteria{
		Search:        "123 Fake St",
		IncludeCities: "Springfield",
		MaxResults:    3,
		Source:        "all",
	})
	require.NoError(t, err)
	require.Len(t, address.Suggestions, 1)
	assert.Equal(t, "Springfield", address.Suggestions[0].City)

	req, ok := mock.Last(http.MethodGet, "/enrichment/address")
	require.True(t, ok)
	assert.Equal(t, "search=123+Fake+St&maxResults=3&includeCities=Springfield&source=all", req.RawQuery)
	assert.True(t, strings.HasPrefix(req.Authorization, "Basic "))
}

func TestEnrichedProfilesGet(t *testing.T) {
	mock := testhelpers.SetupMockMoovServer(t)
	mock.HandleJSON("GET /enrichment/profile", http.StatusOK, map[string]any{
		"business": map[string]any{
			"legalBusinessName": "Whole Body Fitness LLC",
			"industryCodes":     map[string]string{"naics": "713940"},
		},
	})
	client := newClient(t, mock)

	profile, err := client.EnrichedProfiles.Get(context.Background(), "owner@example.com")
	require.NoError(t, err)
	require.NotNil(t, profile.Business)
	assert.Equal(t, "Whole Body Fitness LLC", profile.Business.LegalBusinessName)
	assert.Equal(t, "713940", profile.Business.IndustryCodes.NAICS)

	req, ok := mock.Last(http.MethodGet, "/enrichment/profile")
	require.True(t, ok)
	assert.Equal(t, "email=owner%40example.com", req.RawQuery)
}

func TestInstitutionsSearch(t *testing.T) {
	mock := testhelpers.SetupMockMoovServer(t)
	mock.HandleJSON("GET /institutions/ach/search", http.StatusOK, map[string]any{
		"achParticipants": []map[string]string{{"routingNumber": "123456789", "customerName": "First Bank"}},
	})
	mock.HandleJSON("GET /institutions/wire/search", http.StatusOK, map[string]any{
		"wireParticipants": []map[string]string{{"routingNumber": "123456789", "telegraphicName": "FIRST BANK"}},
	})
	client := newClient(t, mock)
	ctx := context.Background()

	ach, err := client.Institutions.GetACH(ctx, &moov.InstitutionSearchCriteria{RoutingNumber: "123456789"})
	require.NoError(t, err)
	require.Len(t, ach.ACHParticipants, 1)
	assert.Equal(t, "First Bank", ach.ACHParticipants[0].CustomerName)

	wire, err := client.Institutions.GetWire(ctx, &moov.InstitutionSearchCriteria{Name: "First Bank", Count: 5})
	require.NoError(t, err)
	require.Len(t, wire.WireParticipants, 1)

	req, ok := mock.Last(http.MethodGet, "/institutions/ach/search")
	require.True(t, ok)
	assert.Equal(t, "routingNumber=123456789", req.RawQuery)

	req, ok = mock.Last(http.MethodGet, "/institutions/wire/search")
	require.True(t, ok)
	assert.Equal(t, "name=First+Bank&count=5", req.RawQuery)
}

func TestWalletsListTransactions_Query(t *testing.T) {
	mock := testhelpers.SetupMockMoovServer(t)
	mock.HandleJSON("GET /accounts/acct-1/wallets/w-1/transactions", http.StatusOK, []map[string]any{
		{"transactionID": "tx-1", "netAmount": 950},
	})
	client := newClient(t, mock)

	transactions, err := client.Wallets.ListTransactions(context.Background(), "acct-1", "w-1", &moov.WalletTransactionCriteria{
		Status:               "completed",
		CreatedStartDateTime: time.Date(2024, 5, 1, 9, 0, 0, 0, time.FixedZone("AEST", 10*60*60)),
		Skip:                 10,
	})
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.EqualValues(t, 950, transactions[0].NetAmount)

	req, ok := mock.Last(http.MethodGet, "/accounts/acct-1/wallets/w-1/transactions")
	require.True(t, ok)
	assert.Equal(t, "status=completed&createdStartDateTime=2024-04-30T23%3A00%3A00Z&skip=10", req.RawQuery)
	assert.Equal(t, "Bearer access-token-1", req.Authorization)
}

func TestTransfersCreate_IdempotencyKey(t *testing.T) {
	mock := testhelpers.SetupMockMoovServer(t)
	mock.HandleJSON("POST /transfers", http.StatusOK, map[string]string{"transferID": "t-1", "status": moov.TransferStatusCreated})
	client := newClient(t, mock)
	ctx := context.Background()

	request := &moov.TransferRequest{
		Source:         moov.TransferEndpoint{PaymentMethodID: "pm-src"},
		Destination:    moov.TransferEndpoint{PaymentMethodID: "pm-dst"},
		Amount:         moov.Amount{Currency: "USD", Value: 1204},
		IdempotencyKey: "create-1",
	}

	transfer, err := client.Transfers.Create(ctx, request)
	require.NoError(t, err)
	assert.Equal(t, "t-1", transfer.TransferID)

	req, ok := mock.Last(http.MethodPost, "/transfers")
	require.True(t, ok)
	assert.Equal(t, "create-1", req.Header.Get("X-Idempotency-Key"))
	assert.JSONEq(t, `{
		"source": {"paymentMethodID": "pm-src"},
		"destination": {"paymentMethodID": "pm-dst"},
		"amount": {"currency": "USD", "value": 1204}
	}`, string(req.Body))

	request.IdempotencyKey = ""
	_, err = client.Transfers.Create(ctx, request)
	require.NoError(t, err)

	req, ok = mock.Last(http.MethodPost, "/transfers")
	require.True(t, ok)
	_, err = uuid.Parse(req.Header.Get("X-Idempotency-Key"))
	assert.NoError(t, err)
}

func TestTransfersList_Query(t *testing.T) {
	mock := testhelpers.SetupMockMoovServer(t)
	mock.HandleJSON("GET /transfers", http.StatusOK, []any{})
	client := newClient(t, mock)

	_, err := client.Transfers.List(context.Background(), &moov.TransferListCriteria{
		AccountIDs:    []string{"acct-1", "acct-2"},
		Status:        moov.TransferStatusPending,
		StartDateTime: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Count:         50,
	})
	require.NoError(t, err)

	req, ok := mock.Last(http.MethodGet, "/transfers")
	require.True(t, ok)
	assert.Equal(t, "accountIDs=acct-1%2Cacct-2&status=pending&startDateTime=2024-05-01T00%3A00%3A00Z&count=50", req.RawQuery)
}

func TestTransfersUpdateMetadata(t *testing.T) {
	mock := testhelpers.SetupMockMoovServer(t)
	mock.HandleJSON("PATCH /transfers/t-1", http.StatusOK, map[string]any{"transferID": "t-1"})
	client := newClient(t, mock)
	ctx := context.Background()

	_, err := client.Transfers.UpdateMetadata(ctx, "t-1", map[string]string{"order": "1001"})
	require.NoError(t, err)
	req, ok := mock.Last(http.MethodPatch, "/transfers/t-1")
	require.True(t, ok)
	assert.JSONEq(t, `{"metadata":{"order":"1001"}}`, string(req.Body))

	_, err = client.Transfers.UpdateMetadata(ctx, "t-1", nil)
	require.NoError(t, err)
	req, ok = mock.Last(http.MethodPatch, "/transfers/t-1")
	require.True(t, ok)
	assert.JSONEq(t, `{"metadata":{}}`, string(req.Body))
}

func TestTransfersRefund(t *testing.T) {
	mock := testhelpers.SetupMockMoovServer(t)
	mock.HandleJSON("POST /transfers/t-1/refunds", http.StatusOK, map[string]any{
		"refundID": "r-1",
		"amount":   map[string]any{"currency": "USD", "value": 500},
	})
	client := newClient(t, mock)
	ctx := context.Background()

	refund, err := client.Transfers.Refund(ctx, "t-1", &moov.RefundRequest{Amount: 500, IdempotencyKey: "refund-1"})
	require.NoError(t, err)
	assert.Equal(t, "r-1", refund.RefundID)
	assert.EqualValues(t, 500, refund.Amount.Value)

	req, ok := mock.Last(http.MethodPost, "/transfers/t-1/refunds")
	require.True(t, ok)
	assert.Equal(t, "refund-1", req.Header.Get("X-Idempotency-Key"))
	assert.JSONEq(t, `{"amount":500}`, string(req.Body))

	// a full refund sends no body
	_, err = client.Transfers.Refund(ctx, "t-1", nil)
	require.NoError(t, err)

	req, ok = mock.Last(http.MethodPost, "/transfers/t-1/refunds")
	require.True(t, ok)
	assert.Empty(t, req.Body)
	assert.NotEmpty(t, req.Header.Get("X-Idempotency-Key"))
}

func TestTransfersTransferOptions(t *testing.T) {
	mock := testhelpers.SetupMockMoovServer(t)
	mock.HandleJSON("POST /transfer-options", http.StatusOK, map[string]any{
		"sourceOptions":      []map[string]string{{"paymentMethodID": "pm-1", "paymentMethodType": moov.PaymentMethodTypeMoovWallet}},
		"destinationOptions": []map[string]string{},
	})
	client := newClient(t, mock)

	options, err := client.Transfers.TransferOptions(context.Background(), &moov.TransferOptionsRequest{
		Source:      moov.TransferOptionsParty{AccountID: "acct-1"},
		Destination: moov.TransferOptionsParty{PaymentMethodID: "pm-2"},
		Amount:      moov.Amount{Currency: "USD", Value: 100},
	})
	require.NoError(t, err)
	require.Len(t, options.SourceOptions, 1)
	assert.Equal(t, "pm-1", options.SourceOptions[0].PaymentMethodID)
}
