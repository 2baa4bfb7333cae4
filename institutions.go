package moov

import (
	"context"
	"net/http"
	"strings"

	"github.com/moovfinancial/moov-go/internal/pipeline"
)

// InstitutionsService looks up financial institutions in the Federal Reserve
// directories.
type InstitutionsService service

// InstitutionSearchCriteria needs a Name or a RoutingNumber.
type InstitutionSearchCriteria struct {
	Name          string
	RoutingNumber string
	Count         int
	Skip          int
}

// InstitutionParticipants holds the matches for the searched rail.
type InstitutionParticipants struct {
	ACHParticipants  []ACHInstitution  `json:"achParticipants,omitempty"`
	WireParticipants []WireInstitution `json:"wireParticipants,omitempty"`
}

type ACHInstitution struct {
	RoutingNumber      string                 `json:"routingNumber"`
	OfficeCode         string                 `json:"officeCode"`
	ServicingFRBNumber string                 `json:"servicingFRBNumber"`
	RecordTypeCode     string                 `json:"recordTypeCode"`
	Revised            string                 `json:"revised"`
	NewRoutingNumber   string                 `json:"newRoutingNumber"`
	CustomerName       string                 `json:"customerName"`
	PhoneNumber        string                 `json:"phoneNumber"`
	StatusCode         string                 `json:"statusCode"`
	ViewCode           string                 `json:"viewCode"`
	Location           ACHInstitutionLocation `json:"location"`
}

type ACHInstitutionLocation struct {
	Address             string `json:"address"`
	City                string `json:"city"`
	State               string `json:"state"`
	PostalCode          string `json:"postalCode"`
	PostalCodeExtension string `json:"postalCodeExtension"`
}

type WireInstitution struct {
	RoutingNumber                     string                  `json:"routingNumber"`
	TelegraphicName                   string                  `json:"telegraphicName"`
	CustomerName                      string                  `json:"customerName"`
	Location                          WireInstitutionLocation `json:"location"`
	FundsTransferStatus               string                  `json:"fundsTransferStatus"`
	FundsSettlementOnlyStatus         string                  `json:"fundsSettlementOnlyStatus"`
	BookEntrySecuritiesTransferStatus string                  `json:"bookEntrySecuritiesTransferStatus"`
	Date                              string                  `json:"date"`
}

type WireInstitutionLocation struct {
	City  string `json:"city"`
	State string `json:"state"`
}

// GetACH searches ACH participants.
func (s *InstitutionsService) GetACH(ctx context.Context, criteria *InstitutionSearchCriteria) (InstitutionParticipants, error) {
	return s.search(ctx, criteria, "ach")
}

// GetWire searches wire participants.
func (s *InstitutionsService) GetWire(ctx context.Context, criteria *InstitutionSearchCriteria) (InstitutionParticipants, error) {
	return s.search(ctx, criteria, "wire")
}

func (s *InstitutionsService) search(ctx context.Context, criteria *InstitutionSearchCriteria, rail string) (InstitutionParticipants, error) {
	if criteria == nil {
		return InstitutionParticipants{}, ErrMissingCriteria
	}
	if strings.TrimSpace(criteria.Name) == "" && strings.TrimSpace(criteria.RoutingNumber) == "" {
		return InstitutionParticipants{}, ErrMissingInstitutionNameOrRouting
	}

	query := &pipeline.Query{}
	query.Add("routingNumber", criteria.RoutingNumber).
		Add("name", criteria.Name).
		AddInt("count", criteria.Count).
		AddInt("skip", criteria.Skip)

	var result InstitutionParticipants
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodGet,
		Path:   pipeline.JoinPath("institutions", rail, "search"),
		Query:  query,
		Auth:   s.client.basicAuth(),
	}, &result)
	return result, err
}
