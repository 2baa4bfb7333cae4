package moov

import (
	"context"
	"net/http"
	"strings"

	"github.com/moovfinancial/moov-go/internal/pipeline"
)

// CardsService links and manages payment cards. Calls authenticate with a
// token issued for the target account.
type CardsService service

const (
	CardBrandAmex       = "American Express"
	CardBrandDiscover   = "Discover"
	CardBrandMasterCard = "MasterCard"
	CardBrandVisa       = "Visa"
)

const (
	CardTypeDebit   = "debit"
	CardTypeCredit  = "credit"
	CardTypePrepaid = "prepaid"
	CardTypeUnknown = "unknown"
)

const (
	CardVerificationNoMatch     = "noMatch"
	CardVerificationMatch       = "match"
	CardVerificationNotChecked  = "notChecked"
	CardVerificationUnavailable = "unavailable"
)

type Card struct {
	CardID             string           `json:"cardID"`
	Fingerprint        string           `json:"fingerprint"`
	Brand              string           `json:"brand"`
	CardType           string           `json:"cardType"`
	LastFourCardNumber string           `json:"lastFourCardNumber"`
	Bin                string           `json:"bin"`
	Expiration         CardExpiration   `json:"expiration"`
	HolderName         string           `json:"holderName"`
	BillingAddress     Address          `json:"billingAddress"`
	CardVerification   CardVerification `json:"cardVerification"`
	Issuer             string           `json:"issuer"`
	IssuerCountry      string           `json:"issuerCountry"`
}

// CardExpiration holds a two digit month and year.
type CardExpiration struct {
	Month string `json:"month"`
	Year  string `json:"year"`
}

type CardVerification struct {
	CVV          string `json:"cvv"`
	AddressLine1 string `json:"addressLine1"`
	PostalCode   string `json:"postalCode"`
}

// CardDetails is the payload for linking a card.
type CardDetails struct {
	CardNumber     string         `json:"cardNumber"`
	CardCVV        string         `json:"cardCvv"`
	Expiration     CardExpiration `json:"expiration"`
	HolderName     string         `json:"holderName,omitempty"`
	BillingAddress *Address       `json:"billingAddress,omitempty"`
}

func (s *CardsService) Get(ctx context.Context, accountID, cardID string) (Card, error) {
	if strings.TrimSpace(accountID) == "" {
		return Card{}, ErrMissingAccountID
	}
	if strings.TrimSpace(cardID) == "" {
		return Card{}, ErrMissingCardID
	}

	var result Card
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodGet,
		Path:   pipeline.JoinPath("accounts", accountID, "cards", cardID),
		Auth:   s.client.bearerAuth(accountID),
	}, &result)
	return result, err
}

func (s *CardsService) List(ctx context.Context, accountID string) ([]Card, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, ErrMissingAccountID
	}

	var result []Card
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodGet,
		Path:   pipeline.JoinPath("accounts", accountID, "cards"),
		Auth:   s.client.bearerAuth(accountID),
	}, &result)
	return result, err
}

// Link attaches a card to accountID.
func (s *CardsService) Link(ctx context.Context, accountID string, card *CardDetails) (Card, error) {
	if strings.TrimSpace(accountID) == "" {
		return Card{}, ErrMissingAccountID
	}
	if card == nil {
		return Card{}, ErrMissingCard
	}

	var result Card
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodPost,
		Path:   pipeline.JoinPath("accounts", accountID, "cards"),
		Body:   card,
		Auth:   s.client.bearerAuth(accountID),
	}, &result)
	return result, err
}

func (s *CardsService) Disable(ctx context.Context, accountID, cardID string) error {
	if strings.TrimSpace(accountID) == "" {
		return ErrMissingAccountID
	}
	if strings.TrimSpace(cardID) == "" {
		return ErrMissingCardID
	}

	return s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodDelete,
		Path:   pipeline.JoinPath("accounts", accountID, "cards", cardID),
		Auth:   s.client.bearerAuth(accountID),
	}, nil)
}
