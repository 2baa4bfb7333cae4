package moov

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/moovfinancial/moov-go/internal/pipeline"
)

// WalletsService reads Moov wallet balances and transactions. Calls
// authenticate with a token issued for the target account.
type WalletsService service

type Wallet struct {
	WalletID         string  `json:"walletID"`
	AvailableBalance Balance `json:"availableBalance"`
}

type Balance struct {
	Currency     string `json:"currency"`
	Value        int64  `json:"value"`
	ValueDecimal string `json:"valueDecimal,omitempty"`
}

type WalletTransaction struct {
	WalletID         string     `json:"walletID"`
	TransactionID    string     `json:"transactionID"`
	TransactionType  string     `json:"transactionType"`
	SourceType       string     `json:"sourceType"`
	SourceID         string     `json:"sourceID"`
	Status           string     `json:"status"`
	Memo             string     `json:"memo,omitempty"`
	CreatedOn        time.Time  `json:"createdOn"`
	CompletedOn      *time.Time `json:"completedOn,omitempty"`
	Currency         string     `json:"currency"`
	GrossAmount      int64      `json:"grossAmount"`
	Fee              int64      `json:"fee"`
	NetAmount        int64      `json:"netAmount"`
	AvailableBalance int64      `json:"availableBalance"`
}

// WalletTransactionCriteria filters ListTransactions. Zero fields are not
// sent.
type WalletTransactionCriteria struct {
	TransactionType      string
	SourceType           string
	SourceID             string
	Status               string
	CreatedStartDateTime time.Time
	CreatedEndDateTime   time.Time
	Count                int
	Skip                 int
}

func (s *WalletsService) List(ctx context.Context, accountID string) ([]Wallet, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, ErrMissingAccountID
	}

	var result []Wallet
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodGet,
		Path:   pipeline.JoinPath("accounts", accountID, "wallets"),
		Auth:   s.client.bearerAuth(accountID),
	}, &result)
	return result, err
}

func (s *WalletsService) Get(ctx context.Context, accountID, walletID string) (Wallet, error) {
	if strings.TrimSpace(accountID) == "" {
		return Wallet{}, ErrMissingAccountID
	}
	if strings.TrimSpace(walletID) == "" {
		return Wallet{}, ErrMissingWalletID
	}

	var result Wallet
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodGet,
		Path:   pipeline.JoinPath("accounts", accountID, "wallets", walletID),
		Auth:   s.client.bearerAuth(accountID),
	}, &result)
	return result, err
}

// ListTransactions returns the wallet's transactions. criteria may be nil.
func (s *WalletsService) ListTransactions(ctx context.Context, accountID, walletID string, criteria *WalletTransactionCriteria) ([]WalletTransaction, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, ErrMissingAccountID
	}
	if strings.TrimSpace(walletID) == "" {
		return nil, ErrMissingWalletID
	}

	query := &pipeline.Query{}
	if criteria != nil {
		query.Add("transactionType", criteria.TransactionType).
			Add("sourceType", criteria.SourceType).
			Add("sourceID", criteria.SourceID).
			Add("status", criteria.Status).
			Add("createdStartDateTime", formatTime(criteria.CreatedStartDateTime)).
			Add("createdEndDateTime", formatTime(criteria.CreatedEndDateTime)).
			AddInt("count", criteria.Count).
			AddInt("skip", criteria.Skip)
	}

	var result []WalletTransaction
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodGet,
		Path:   pipeline.JoinPath("accounts", accountID, "wallets", walletID, "transactions"),
		Query:  query,
		Auth:   s.client.bearerAuth(accountID),
	}, &result)
	return result, err
}

func (s *WalletsService) GetTransaction(ctx context.Context, accountID, walletID, transactionID string) (WalletTransaction, error) {
	if strings.TrimSpace(accountID) == "" {
		return WalletTransaction{}, ErrMissingAccountID
	}
	if strings.TrimSpace(walletID) == "" {
		return WalletTransaction{}, ErrMissingWalletID
	}
	if strings.TrimSpace(transactionID) == "" {
		return WalletTransaction{}, ErrMissingTransactionID
	}

	var result WalletTransaction
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodGet,
		Path:   pipeline.JoinPath("accounts", accountID, "wallets", walletID, "transactions", transactionID),
		Auth:   s.client.bearerAuth(accountID),
	}, &result)
	return result, err
}

// formatTime renders t as RFC 3339, or "" for the zero time so the
// parameter is omitted.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
