package moov

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/moovfinancial/moov-go/internal/pipeline"
)

// TransfersService moves money between payment methods.
type TransfersService service

const idempotencyKeyHeader = "X-Idempotency-Key"

const (
	TransferStatusCreated   = "created"
	TransferStatusPending   = "pending"
	TransferStatusCompleted = "completed"
	TransferStatusFailed    = "failed"
	TransferStatusReversed  = "reversed"
)

// Amount is a quantity in the currency's smallest unit, e.g. cents.
type Amount struct {
	Currency string `json:"currency"`
	Value    int64  `json:"value"`
}

type Transfer struct {
	TransferID     string            `json:"transferID"`
	CreatedOn      time.Time         `json:"createdOn"`
	CompletedOn    *time.Time        `json:"completedOn,omitempty"`
	Status         string            `json:"status"`
	FailureReason  string            `json:"failureReason,omitempty"`
	Amount         Amount            `json:"amount"`
	Description    string            `json:"description,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	FacilitatorFee *FacilitatorFee   `json:"facilitatorFee,omitempty"`
	MoovFee        int64             `json:"moovFee,omitempty"`
	Source         TransferParty     `json:"source"`
	Destination    TransferParty     `json:"destination"`
	RefundedAmount *Amount           `json:"refundedAmount,omitempty"`
}

type FacilitatorFee struct {
	Total  int64 `json:"total,omitempty"`
	Markup int64 `json:"markup,omitempty"`
}

// TransferParty is the source or destination of a transfer as reported by
// the API.
type TransferParty struct {
	TransferID        string           `json:"transferID,omitempty"`
	PaymentMethodID   string           `json:"paymentMethodID"`
	PaymentMethodType string           `json:"paymentMethodType"`
	Account           *TransferAccount `json:"account,omitempty"`
	BankAccount       *BankAccount     `json:"bankAccount,omitempty"`
	Wallet            *Wallet          `json:"wallet,omitempty"`
	Card              *Card            `json:"card,omitempty"`
}

type TransferAccount struct {
	AccountID   string `json:"accountID"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// TransferRequest is the payload for creating a transfer. The source is a
// payment method or, for transfer groups, a previous transfer.
type TransferRequest struct {
	Source         TransferEndpoint  `json:"source"`
	Destination    TransferEndpoint  `json:"destination"`
	Amount         Amount            `json:"amount"`
	FacilitatorFee *FacilitatorFee   `json:"facilitatorFee,omitempty"`
	Description    string            `json:"description,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`

	// IdempotencyKey makes retries of the same create safe. A random key is
	// used when empty.
	IdempotencyKey string `json:"-"`
}

type TransferEndpoint struct {
	PaymentMethodID string `json:"paymentMethodID,omitempty"`
	TransferID      string `json:"transferID,omitempty"`
}

// TransferListCriteria filters List. Zero fields are not sent.
type TransferListCriteria struct {
	AccountIDs    []string
	Status        string
	StartDateTime time.Time
	EndDateTime   time.Time
	GroupID       string
	Count         int
	Skip          int
}

// TransferOptionsRequest asks which payment methods can fund or receive a
// transfer between two accounts.
type TransferOptionsRequest struct {
	Source      TransferOptionsParty `json:"source"`
	Destination TransferOptionsParty `json:"destination"`
	Amount      Amount               `json:"amount"`
}

// TransferOptionsParty identifies one side by account or payment method.
type TransferOptionsParty struct {
	AccountID       string `json:"accountID,omitempty"`
	PaymentMethodID string `json:"paymentMethodID,omitempty"`
}

type TransferOptions struct {
	SourceOptions      []PaymentMethod `json:"sourceOptions"`
	DestinationOptions []PaymentMethod `json:"destinationOptions"`
}

type Refund struct {
	RefundID    string    `json:"refundID"`
	CreatedOn   time.Time `json:"createdOn"`
	UpdatedOn   time.Time `json:"updatedOn"`
	Status      string    `json:"status"`
	FailureCode string    `json:"failureCode,omitempty"`
	Amount      Amount    `json:"amount"`
}

// RefundRequest refunds part of a card transfer. A nil request refunds the
// full amount.
type RefundRequest struct {
	Amount         int64  `json:"amount"`
	IdempotencyKey string `json:"-"`
}

// Create starts a transfer.
func (s *TransfersService) Create(ctx context.Context, transfer *TransferRequest) (Transfer, error) {
	if transfer == nil {
		return Transfer{}, ErrMissingTransfer
	}
	if transfer.Source.PaymentMethodID == "" && transfer.Source.TransferID == "" {
		return Transfer{}, ErrMissingTransfer
	}
	if transfer.Destination.PaymentMethodID == "" {
		return Transfer{}, ErrMissingTransfer
	}

	var result Transfer
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodPost,
		Path:   "transfers",
		Body:   transfer,
		Header: idempotencyHeader(transfer.IdempotencyKey),
		Auth:   s.client.basicAuth(),
	}, &result)
	return result, err
}

// List returns transfers matching criteria, which may be nil.
func (s *TransfersService) List(ctx context.Context, criteria *TransferListCriteria) ([]Transfer, error) {
	query := &pipeline.Query{}
	if criteria != nil {
		query.Add("accountIDs", strings.Join(criteria.AccountIDs, ",")).
			Add("status", criteria.Status).
			Add("startDateTime", formatTime(criteria.StartDateTime)).
			Add("endDateTime", formatTime(criteria.EndDateTime)).
			Add("groupID", criteria.GroupID).
			AddInt("count", criteria.Count).
			AddInt("skip", criteria.Skip)
	}

	var result []Transfer
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodGet,
		Path:   "transfers",
		Query:  query,
		Auth:   s.client.basicAuth(),
	}, &result)
	return result, err
}

func (s *TransfersService) Get(ctx context.Context, transferID string) (Transfer, error) {
	if strings.TrimSpace(transferID) == "" {
		return Transfer{}, ErrMissingTransferID
	}

	var result Transfer
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodGet,
		Path:   pipeline.JoinPath("transfers", transferID),
		Auth:   s.client.basicAuth(),
	}, &result)
	return result, err
}

// UpdateMetadata replaces the transfer's metadata.
func (s *TransfersService) UpdateMetadata(ctx context.Context, transferID string, metadata map[string]string) (Transfer, error) {
	if strings.TrimSpace(transferID) == "" {
		return Transfer{}, ErrMissingTransferID
	}
	if metadata == nil {
		metadata = map[string]string{}
	}

	var result Transfer
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodPatch,
		Path:   pipeline.JoinPath("transfers", transferID),
		Body:   map[string]map[string]string{"metadata": metadata},
		Auth:   s.client.basicAuth(),
	}, &result)
	return result, err
}

// TransferOptions lists the payment methods usable for a transfer.
func (s *TransfersService) TransferOptions(ctx context.Context, req *TransferOptionsRequest) (TransferOptions, error) {
	if req == nil ||
		(req.Source.AccountID == "" && req.Source.PaymentMethodID == "") ||
		(req.Destination.AccountID == "" && req.Destination.PaymentMethodID == "") ||
		req.Amount.Value <= 0 {
		return TransferOptions{}, ErrMissingTransferOptionsPaymentData
	}

	var result TransferOptions
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodPost,
		Path:   "transfer-options",
		Body:   req,
		Auth:   s.client.basicAuth(),
	}, &result)
	return result, err
}

// Refund refunds a card transfer. refund may be nil for a full refund.
func (s *TransfersService) Refund(ctx context.Context, transferID string, refund *RefundRequest) (Refund, error) {
	if strings.TrimSpace(transferID) == "" {
		return Refund{}, ErrMissingTransferID
	}

	req := pipeline.Request{
		Method: http.MethodPost,
		Path:   pipeline.JoinPath("transfers", transferID, "refunds"),
		Header: idempotencyHeader(""),
		Auth:   s.client.basicAuth(),
	}
	if refund != nil {
		req.Body = refund
		req.Header = idempotencyHeader(refund.IdempotencyKey)
	}

	var result Refund
	err := s.client.pipeline.JSON(ctx, req, &result)
	return result, err
}

func (s *TransfersService) ListRefunds(ctx context.Context, transferID string) ([]Refund, error) {
	if strings.TrimSpace(transferID) == "" {
		return nil, ErrMissingTransferID
	}

	var result []Refund
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodGet,
		Path:   pipeline.JoinPath("transfers", transferID, "refunds"),
		Auth:   s.client.basicAuth(),
	}, &result)
	return result, err
}

func (s *TransfersService) GetRefund(ctx context.Context, transferID, refundID string) (Refund, error) {
	if strings.TrimSpace(transferID) == "" {
		return Refund{}, ErrMissingTransferID
	}
	if strings.TrimSpace(refundID) == "" {
		return Refund{}, ErrMissingRefundID
	}

	var result Refund
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodGet,
		Path:   pipeline.JoinPath("transfers", transferID, "refunds", refundID),
		Auth:   s.client.basicAuth(),
	}, &result)
	return result, err
}

func idempotencyHeader(key string) http.Header {
	if key == "" {
		key = uuid.NewString()
	}
	h := http.Header{}
	h.Set(idempotencyKeyHeader, key)
	return h
}
