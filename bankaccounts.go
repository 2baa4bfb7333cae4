package moov

import (
	"context"
	"net/http"
	"strings"

	"github.com/moovfinancial/moov-go/internal/pipeline"
)

// BankAccountsService links and verifies bank accounts. Calls authenticate
// with a token issued for the target account.
type BankAccountsService service

const (
	BankAccountStatusNew                = "new"
	BankAccountStatusVerified           = "verified"
	BankAccountStatusVerificationFailed = "verificationFailed"
	BankAccountStatusPending            = "pending"
	BankAccountStatusErrored            = "errored"
)

const (
	BankAccountHolderTypeIndividual = "individual"
	BankAccountHolderTypeBusiness   = "business"

	BankAccountTypeChecking = "checking"
	BankAccountTypeSavings  = "savings"
)

const routingNumberLength = 9

type BankAccount struct {
	BankAccountID         string `json:"bankAccountID"`
	Fingerprint           string `json:"fingerprint"`
	Status                string `json:"status"`
	HolderName            string `json:"holderName"`
	HolderType            string `json:"holderType"`
	BankName              string `json:"bankName"`
	BankAccountType       string `json:"bankAccountType"`
	RoutingNumber         string `json:"routingNumber"`
	LastFourAccountNumber string `json:"lastFourAccountNumber"`
}

// BankAccountDetails are the account and routing numbers of a bank account
// linked directly.
type BankAccountDetails struct {
	AccountNumber   string `json:"accountNumber"`
	RoutingNumber   string `json:"routingNumber"`
	HolderName      string `json:"holderName"`
	HolderType      string `json:"holderType"`
	BankAccountType string `json:"bankAccountType,omitempty"`
}

// BankAccountLink selects how a bank account is linked. The first non-empty
// of Account, PlaidToken and MXAuthorizationCode is used.
type BankAccountLink struct {
	Account             *BankAccountDetails
	PlaidToken          string
	MXAuthorizationCode string
}

type plaidLink struct {
	Token string `json:"token"`
}

type mxLink struct {
	AuthorizationCode string `json:"authorizationCode"`
}

type bankAccountLinkPayload struct {
	Account *BankAccountDetails `json:"account,omitempty"`
	Plaid   *plaidLink          `json:"plaid,omitempty"`
	MX      *mxLink             `json:"mx,omitempty"`
}

// MicroDepositStatus is the outcome of completing micro-deposit
// verification.
type MicroDepositStatus struct {
	Status string `json:"status"`
}

func (l BankAccountLink) payload() (bankAccountLinkPayload, error) {
	switch {
	case l.Account != nil:
		a := l.Account
		switch {
		case strings.TrimSpace(a.AccountNumber) == "":
			return bankAccountLinkPayload{}, ErrMissingBankAccountNumber
		case strings.TrimSpace(a.RoutingNumber) == "":
			return bankAccountLinkPayload{}, ErrMissingBankAccountRoutingNumber
		case !isRoutingNumber(a.RoutingNumber):
			return bankAccountLinkPayload{}, ErrInvalidBankAccountRoutingNumber
		case strings.TrimSpace(a.HolderName) == "":
			return bankAccountLinkPayload{}, ErrMissingBankAccountHolderName
		case strings.TrimSpace(a.HolderType) == "":
			return bankAccountLinkPayload{}, ErrMissingBankAccountHolderType
		}
		return bankAccountLinkPayload{Account: a}, nil
	case l.PlaidToken != "":
		return bankAccountLinkPayload{Plaid: &plaidLink{Token: l.PlaidToken}}, nil
	case l.MXAuthorizationCode != "":
		return bankAccountLinkPayload{MX: &mxLink{AuthorizationCode: l.MXAuthorizationCode}}, nil
	default:
		return bankAccountLinkPayload{}, ErrMissingBankPayload
	}
}

func isRoutingNumber(s string) bool {
	if len(s) != routingNumberLength {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Link attaches a bank account to accountID.
func (s *BankAccountsService) Link(ctx context.Context, accountID string, link BankAccountLink) (BankAccount, error) {
	if strings.TrimSpace(accountID) == "" {
		return BankAccount{}, ErrMissingAccountID
	}
	payload, err := link.payload()
	if err != nil {
		return BankAccount{}, err
	}

	var result BankAccount
	err = s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodPost,
		Path:   pipeline.JoinPath("accounts", accountID, "bank-accounts"),
		Body:   payload,
		Auth:   s.client.bearerAuth(accountID),
	}, &result)
	return result, err
}

func (s *BankAccountsService) Get(ctx context.Context, accountID, bankAccountID string) (BankAccount, error) {
	if strings.TrimSpace(accountID) == "" {
		return BankAccount{}, ErrMissingAccountID
	}
	if strings.TrimSpace(bankAccountID) == "" {
		return BankAccount{}, ErrMissingBankAccountID
	}

	var result BankAccount
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodGet,
		Path:   pipeline.JoinPath("accounts", accountID, "bank-accounts", bankAccountID),
		Auth:   s.client.bearerAuth(accountID),
	}, &result)
	return result, err
}

func (s *BankAccountsService) List(ctx context.Context, accountID string) ([]BankAccount, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, ErrMissingAccountID
	}

	var result []BankAccount
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodGet,
		Path:   pipeline.JoinPath("accounts", accountID, "bank-accounts"),
		Auth:   s.client.bearerAuth(accountID),
	}, &result)
	return result, err
}

// Disable unlinks the bank account.
func (s *BankAccountsService) Disable(ctx context.Context, accountID, bankAccountID string) error {
	if strings.TrimSpace(accountID) == "" {
		return ErrMissingAccountID
	}
	if strings.TrimSpace(bankAccountID) == "" {
		return ErrMissingBankAccountID
	}

	return s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodDelete,
		Path:   pipeline.JoinPath("accounts", accountID, "bank-accounts", bankAccountID),
		Auth:   s.client.bearerAuth(accountID),
	}, nil)
}

// InitMicroDeposits sends the two verification deposits.
func (s *BankAccountsService) InitMicroDeposits(ctx context.Context, accountID, bankAccountID string) error {
	if strings.TrimSpace(accountID) == "" {
		return ErrMissingAccountID
	}
	if strings.TrimSpace(bankAccountID) == "" {
		return ErrMissingBankAccountID
	}

	return s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodPost,
		Path:   pipeline.JoinPath("accounts", accountID, "bank-accounts", bankAccountID, "micro-deposits"),
		Auth:   s.client.bearerAuth(accountID),
	}, nil)
}

// CompleteMicroDeposits verifies the account with the deposited amounts, in
// cents.
func (s *BankAccountsService) CompleteMicroDeposits(ctx context.Context, accountID, bankAccountID string, amounts []int) (MicroDepositStatus, error) {
	if strings.TrimSpace(accountID) == "" {
		return MicroDepositStatus{}, ErrMissingAccountID
	}
	if strings.TrimSpace(bankAccountID) == "" {
		return MicroDepositStatus{}, ErrMissingBankAccountID
	}
	if len(amounts) == 0 {
		return MicroDepositStatus{}, ErrMissingAmounts
	}

	var result MicroDepositStatus
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodPut,
		Path:   pipeline.JoinPath("accounts", accountID, "bank-accounts", bankAccountID, "micro-deposits"),
		Body:   map[string][]int{"amounts": amounts},
		Auth:   s.client.bearerAuth(accountID),
	}, &result)
	return result, err
}
