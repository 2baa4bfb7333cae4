package moov

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/moovfinancial/moov-go/internal/pipeline"
)

// RepresentativesService manages the owners and controllers of business
// accounts. Calls authenticate with a token issued for the target account.
type RepresentativesService service

type Representative struct {
	RepresentativeID     string            `json:"representativeID"`
	Name                 Name              `json:"name"`
	Phone                *Phone            `json:"phone,omitempty"`
	Email                string            `json:"email,omitempty"`
	Address              *Address          `json:"address,omitempty"`
	BirthDateProvided    bool              `json:"birthDateProvided"`
	GovernmentIDProvided bool              `json:"governmentIDProvided"`
	Responsibilities     *Responsibilities `json:"responsibilities,omitempty"`
	CreatedOn            time.Time         `json:"createdOn"`
	UpdatedOn            time.Time         `json:"updatedOn"`
	DisabledOn           *time.Time        `json:"disabledOn,omitempty"`
}

type Responsibilities struct {
	IsController        bool    `json:"isController"`
	IsOwner             bool    `json:"isOwner"`
	OwnershipPercentage float64 `json:"ownershipPercentage"`
	JobTitle            string  `json:"jobTitle,omitempty"`
}

type BirthDate struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// GovernmentID carries either a full number or its last four digits.
type GovernmentID struct {
	SSN  *IDNumber `json:"ssn,omitempty"`
	ITIN *IDNumber `json:"itin,omitempty"`
}

type IDNumber struct {
	Full     string `json:"full,omitempty"`
	LastFour string `json:"lastFour,omitempty"`
}

// RepresentativeRequest is the payload for creating or updating a
// representative. On update, nil fields are left unchanged.
type RepresentativeRequest struct {
	Name             *Name             `json:"name,omitempty"`
	Phone            *Phone            `json:"phone,omitempty"`
	Email            string            `json:"email,omitempty"`
	Address          *Address          `json:"address,omitempty"`
	BirthDate        *BirthDate        `json:"birthDate,omitempty"`
	GovernmentID     *GovernmentID     `json:"governmentID,omitempty"`
	Responsibilities *Responsibilities `json:"responsibilities,omitempty"`
}

func (s *RepresentativesService) Create(ctx context.Context, accountID string, representative *RepresentativeRequest) (Representative, error) {
	if strings.TrimSpace(accountID) == "" {
		return Representative{}, ErrMissingAccountID
	}
	if representative == nil {
		return Representative{}, ErrMissingRepresentative
	}

	var result Representative
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodPost,
		Path:   pipeline.JoinPath("accounts", accountID, "representatives"),
		Body:   representative,
		Auth:   s.client.bearerAuth(accountID),
	}, &result)
	return result, err
}

func (s *RepresentativesService) List(ctx context.Context, accountID string) ([]Representative, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, ErrMissingAccountID
	}

	var result []Representative
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodGet,
		Path:   pipeline.JoinPath("accounts", accountID, "representatives"),
		Auth:   s.client.bearerAuth(accountID),
	}, &result)
	return result, err
}

func (s *RepresentativesService) Get(ctx context.Context, accountID, representativeID string) (Representative, error) {
	if strings.TrimSpace(accountID) == "" {
		return Representative{}, ErrMissingAccountID
	}
	if strings.TrimSpace(representativeID) == "" {
		return Representative{}, ErrMissingRepresentativeID
	}

	var result Representative
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodGet,
		Path:   pipeline.JoinPath("accounts", accountID, "representatives", representativeID),
		Auth:   s.client.bearerAuth(accountID),
	}, &result)
	return result, err
}

func (s *RepresentativesService) Delete(ctx context.Context, accountID, representativeID string) error {
	if strings.TrimSpace(accountID) == "" {
		return ErrMissingAccountID
	}
	if strings.TrimSpace(representativeID) == "" {
		return ErrMissingRepresentativeID
	}

	return s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodDelete,
		Path:   pipeline.JoinPath("accounts", accountID, "representatives", representativeID),
		Auth:   s.client.bearerAuth(accountID),
	}, nil)
}

func (s *RepresentativesService) Update(ctx context.Context, accountID, representativeID string, representative *RepresentativeRequest) (Representative, error) {
	if strings.TrimSpace(accountID) == "" {
		return Representative{}, ErrMissingAccountID
	}
	if strings.TrimSpace(representativeID) == "" {
		return Representative{}, ErrMissingRepresentativeID
	}
	if representative == nil {
		return Representative{}, ErrMissingRepresentative
	}

	var result Representative
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodPatch,
		Path:   pipeline.JoinPath("accounts", accountID, "representatives", representativeID),
		Body:   representative,
		Auth:   s.client.bearerAuth(accountID),
	}, &result)
	return result, err
}
