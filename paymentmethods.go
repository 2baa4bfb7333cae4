package moov

import (
	"context"
	"net/http"
	"strings"

	"github.com/moovfinancial/moov-go/internal/pipeline"
)

// PaymentMethodsService lists the ways an account can send or receive funds.
// Calls authenticate with a token issued for the target account.
type PaymentMethodsService service

const (
	PaymentMethodTypeMoovWallet        = "moov-wallet"
	PaymentMethodTypeACHDebitFund      = "ach-debit-fund"
	PaymentMethodTypeACHDebitCollect   = "ach-debit-collect"
	PaymentMethodTypeACHCreditStandard = "ach-credit-standard"
	PaymentMethodTypeACHCreditSameDay  = "ach-credit-same-day"
	PaymentMethodTypeCard              = "card-payment"
)

// PaymentMethod carries one of Wallet, BankAccount or Card depending on
// PaymentMethodType.
type PaymentMethod struct {
	PaymentMethodID   string       `json:"paymentMethodID"`
	PaymentMethodType string       `json:"paymentMethodType"`
	Wallet            *Wallet      `json:"wallet,omitempty"`
	BankAccount       *BankAccount `json:"bankAccount,omitempty"`
	Card              *Card        `json:"card,omitempty"`
}

func (s *PaymentMethodsService) Get(ctx context.Context, accountID, paymentMethodID string) (PaymentMethod, error) {
	if strings.TrimSpace(accountID) == "" {
		return PaymentMethod{}, ErrMissingAccountID
	}
	if strings.TrimSpace(paymentMethodID) == "" {
		return PaymentMethod{}, ErrMissingPaymentMethodID
	}

	var result PaymentMethod
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodGet,
		Path:   pipeline.JoinPath("accounts", accountID, "payment-methods", paymentMethodID),
		Auth:   s.client.bearerAuth(accountID),
	}, &result)
	return result, err
}

func (s *PaymentMethodsService) List(ctx context.Context, accountID string) ([]PaymentMethod, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, ErrMissingAccountID
	}

	var result []PaymentMethod
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodGet,
		Path:   pipeline.JoinPath("accounts", accountID, "payment-methods"),
		Auth:   s.client.bearerAuth(accountID),
	}, &result)
	return result, err
}
