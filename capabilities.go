package moov

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/moovfinancial/moov-go/internal/pipeline"
)

// CapabilitiesService requests and inspects what an account is permitted to
// do. Calls authenticate with a token issued for the target account.
type CapabilitiesService service

const (
	CapabilityTransfers    = "transfers"
	CapabilitySendFunds    = "send-funds"
	CapabilityCollectFunds = "collect-funds"
	CapabilityWallet       = "wallet"
	CapabilityCardIssuing  = "card-issuing"
)

const (
	CapabilityStatusEnabled  = "enabled"
	CapabilityStatusDisabled = "disabled"
	CapabilityStatusPending  = "pending"
	CapabilityStatusInReview = "in-review"
)

type Capability struct {
	Capability     string                  `json:"capability"`
	AccountID      string                  `json:"accountID"`
	Status         string                  `json:"status"`
	Requirements   *CapabilityRequirements `json:"requirements,omitempty"`
	DisabledReason string                  `json:"disabledReason,omitempty"`
	CreatedOn      time.Time               `json:"createdOn"`
	UpdatedOn      time.Time               `json:"updatedOn"`
	DisabledOn     *time.Time              `json:"disabledOn,omitempty"`
}

// CapabilityRequirements lists the information still needed before the
// capability is enabled.
type CapabilityRequirements struct {
	CurrentlyDue []string           `json:"currentlyDue,omitempty"`
	Errors       []RequirementError `json:"errors,omitempty"`
}

type RequirementError struct {
	Requirement string `json:"requirement"`
	ErrorCode   string `json:"errorCode"`
}

func (s *CapabilitiesService) List(ctx context.Context, accountID string) ([]Capability, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, ErrMissingAccountID
	}

	var result []Capability
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodGet,
		Path:   pipeline.JoinPath("accounts", accountID, "capabilities"),
		Auth:   s.client.bearerAuth(accountID),
	}, &result)
	return result, err
}

// Request asks for one or more capabilities to be enabled.
func (s *CapabilitiesService) Request(ctx context.Context, accountID string, capabilities []string) ([]Capability, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, ErrMissingAccountID
	}
	if len(capabilities) == 0 {
		return nil, ErrMissingCapability
	}
	for _, c := range capabilities {
		if strings.TrimSpace(c) == "" {
			return nil, ErrMissingCapability
		}
	}

	var result []Capability
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodPost,
		Path:   pipeline.JoinPath("accounts", accountID, "capabilities"),
		Body:   map[string][]string{"capabilities": capabilities},
		Auth:   s.client.bearerAuth(accountID),
	}, &result)
	return result, err
}

func (s *CapabilitiesService) Get(ctx context.Context, accountID, capability string) (Capability, error) {
	if strings.TrimSpace(accountID) == "" {
		return Capability{}, ErrMissingAccountID
	}
	if strings.TrimSpace(capability) == "" {
		return Capability{}, ErrMissingCapability
	}

	var result Capability
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodGet,
		Path:   pipeline.JoinPath("accounts", accountID, "capabilities", capability),
		Auth:   s.client.bearerAuth(accountID),
	}, &result)
	return result, err
}

func (s *CapabilitiesService) Disable(ctx context.Context, accountID, capability string) error {
	if strings.TrimSpace(accountID) == "" {
		return ErrMissingAccountID
	}
	if strings.TrimSpace(capability) == "" {
		return ErrMissingCapability
	}

	return s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodDelete,
		Path:   pipeline.JoinPath("accounts", accountID, "capabilities", capability),
		Auth:   s.client.bearerAuth(accountID),
	}, nil)
}
