package moov

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/moovfinancial/moov-go/internal/pipeline"
)

// AccountsService manages Moov accounts connected to the facilitator.
type AccountsService service

const (
	AccountTypeIndividual = "individual"
	AccountTypeBusiness   = "business"
)

type Account struct {
	AccountID   string            `json:"accountID"`
	Mode        string            `json:"mode,omitempty"`
	AccountType string            `json:"accountType"`
	DisplayName string            `json:"displayName,omitempty"`
	Profile     Profile           `json:"profile"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	ForeignID   string            `json:"foreignID,omitempty"`
	CreatedOn   time.Time         `json:"createdOn"`
	UpdatedOn   time.Time         `json:"updatedOn"`
	DisabledOn  *time.Time        `json:"disabledOn,omitempty"`
}

// Profile holds exactly one of Individual or Business.
type Profile struct {
	Individual *IndividualProfile `json:"individual,omitempty"`
	Business   *BusinessProfile   `json:"business,omitempty"`
}

type IndividualProfile struct {
	Name                 Name     `json:"name"`
	Phone                *Phone   `json:"phone,omitempty"`
	Email                string   `json:"email,omitempty"`
	Address              *Address `json:"address,omitempty"`
	BirthDateProvided    bool     `json:"birthDateProvided,omitempty"`
	GovernmentIDProvided bool     `json:"governmentIDProvided,omitempty"`
}

type BusinessProfile struct {
	LegalBusinessName string   `json:"legalBusinessName"`
	DoingBusinessAs   string   `json:"doingBusinessAs,omitempty"`
	BusinessType      string   `json:"businessType,omitempty"`
	Address           *Address `json:"address,omitempty"`
	Phone             *Phone   `json:"phone,omitempty"`
	Email             string   `json:"email,omitempty"`
	Website           string   `json:"website,omitempty"`
	Description       string   `json:"description,omitempty"`
	TaxIDProvided     bool     `json:"taxIDProvided,omitempty"`
}

type Name struct {
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName,omitempty"`
	LastName   string `json:"lastName"`
	Suffix     string `json:"suffix,omitempty"`
}

type Phone struct {
	Number      string `json:"number"`
	CountryCode string `json:"countryCode"`
}

type Address struct {
	AddressLine1    string `json:"addressLine1"`
	AddressLine2    string `json:"addressLine2,omitempty"`
	City            string `json:"city"`
	StateOrProvince string `json:"stateOrProvince"`
	PostalCode      string `json:"postalCode"`
	Country         string `json:"country"`
}

// AccountRequest is the payload for creating or updating an account. On
// update, zero fields are left unchanged.
type AccountRequest struct {
	AccountType  string            `json:"accountType,omitempty"`
	Profile      *Profile          `json:"profile,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	ForeignID    string            `json:"foreignID,omitempty"`
	Capabilities []string          `json:"capabilities,omitempty"`
}

// AccountListCriteria filters List. Empty fields are not sent.
type AccountListCriteria struct {
	Name      string
	Email     string
	Type      string
	ForeignID string
	Count     int
	Skip      int
}

// Create creates a new account.
func (s *AccountsService) Create(ctx context.Context, account *AccountRequest) (Account, error) {
	if account == nil {
		return Account{}, ErrMissingAccount
	}

	var result Account
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodPost,
		Path:   "accounts",
		Body:   account,
		Auth:   s.client.basicAuth(),
	}, &result)
	return result, err
}

// List returns the accounts connected to the facilitator. criteria may be
// nil.
func (s *AccountsService) List(ctx context.Context, criteria *AccountListCriteria) ([]Account, error) {
	query := &pipeline.Query{}
	if criteria != nil {
		query.Add("name", criteria.Name).
			Add("email", criteria.Email).
			Add("type", criteria.Type).
			Add("foreignID", criteria.ForeignID).
			AddInt("count", criteria.Count).
			AddInt("skip", criteria.Skip)
	}

	var result []Account
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodGet,
		Path:   "accounts",
		Query:  query,
		Auth:   s.client.basicAuth(),
	}, &result)
	return result, err
}

func (s *AccountsService) Get(ctx context.Context, accountID string) (Account, error) {
	if strings.TrimSpace(accountID) == "" {
		return Account{}, ErrMissingAccountID
	}

	var result Account
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodGet,
		Path:   pipeline.JoinPath("accounts", accountID),
		Auth:   s.client.basicAuth(),
	}, &result)
	return result, err
}

// Update patches the account with the non-zero fields of account.
func (s *AccountsService) Update(ctx context.Context, accountID string, account *AccountRequest) (Account, error) {
	if strings.TrimSpace(accountID) == "" {
		return Account{}, ErrMissingAccountID
	}
	if account == nil {
		return Account{}, ErrMissingAccount
	}

	var result Account
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodPatch,
		Path:   pipeline.JoinPath("accounts", accountID),
		Body:   account,
		Auth:   s.client.basicAuth(),
	}, &result)
	return result, err
}
