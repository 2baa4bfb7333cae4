package moov

import (
	"context"
	"net/http"
	"strings"

	"github.com/moovfinancial/moov-go/internal/pipeline"
)

// EnrichedAddressesService provides address autocompletion.
type EnrichedAddressesService service

// EnrichedProfilesService looks up public profile details by email.
type EnrichedProfilesService service

// AddressSearchCriteria filters an address search. Search is required;
// empty optional fields are not sent.
type AddressSearchCriteria struct {
	Search            string
	MaxResults        int
	IncludeCities     string
	IncludeStates     string
	IncludeZipcodes   string
	ExcludeStates     string
	PreferCities      string
	PreferStates      string
	PreferZipcodes    string
	PreferRatio       int
	PreferGeolocation string
	Selected          string
	Source            string
}

type EnrichedAddress struct {
	Suggestions []AddressSuggestion `json:"suggestions"`
}

type AddressSuggestion struct {
	AddressLine1    string `json:"addressLine1"`
	AddressLine2    string `json:"addressLine2,omitempty"`
	City            string `json:"city"`
	StateOrProvince string `json:"stateOrProvince"`
	PostalCode      string `json:"postalCode"`
	Entries         int    `json:"entries,omitempty"`
}

type EnrichedProfile struct {
	Individual *EnrichedIndividual `json:"individual,omitempty"`
	Business   *EnrichedBusiness   `json:"business,omitempty"`
}

type EnrichedIndividual struct {
	Name    Name     `json:"name"`
	Email   string   `json:"email,omitempty"`
	Phone   *Phone   `json:"phone,omitempty"`
	Address *Address `json:"address,omitempty"`
}

type EnrichedBusiness struct {
	LegalBusinessName string         `json:"legalBusinessName"`
	Email             string         `json:"email,omitempty"`
	Phone             *Phone         `json:"phone,omitempty"`
	Address           *Address       `json:"address,omitempty"`
	Website           string         `json:"website,omitempty"`
	IndustryCodes     *IndustryCodes `json:"industryCodes,omitempty"`
}

type IndustryCodes struct {
	NAICS string `json:"naics,omitempty"`
	SIC   string `json:"sic,omitempty"`
	MCC   string `json:"mcc,omitempty"`
}

// query renders the criteria in the order the API documents them.
func (c *AddressSearchCriteria) query() *pipeline.Query {
	q := &pipeline.Query{}
	q.Add("search", c.Search).
		AddInt("maxResults", c.MaxResults).
		Add("includeCities", c.IncludeCities).
		Add("includeStates", c.IncludeStates).
		Add("includeZipcodes", c.IncludeZipcodes).
		Add("excludeStates", c.ExcludeStates).
		Add("preferCities", c.PreferCities).
		Add("preferStates", c.PreferStates).
		Add("preferZipcodes", c.PreferZipcodes).
		AddInt("preferRatio", c.PreferRatio).
		Add("preferGeolocation", c.PreferGeolocation).
		Add("selected", c.Selected).
		Add("source", c.Source)
	return q
}

// Get returns address suggestions matching criteria.
func (s *EnrichedAddressesService) Get(ctx context.Context, criteria *AddressSearchCriteria) (EnrichedAddress, error) {
	if criteria == nil {
		return EnrichedAddress{}, ErrMissingCriteria
	}
	if strings.TrimSpace(criteria.Search) == "" {
		return EnrichedAddress{}, ErrMissingEnrichAddressSearch
	}

	var result EnrichedAddress
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodGet,
		Path:   "enrichment/address",
		Query:  criteria.query(),
		Auth:   s.client.basicAuth(),
	}, &result)
	return result, err
}

// Get returns what is publicly known about the owner of email.
func (s *EnrichedProfilesService) Get(ctx context.Context, email string) (EnrichedProfile, error) {
	if strings.TrimSpace(email) == "" {
		return EnrichedProfile{}, ErrMissingEmail
	}

	var result EnrichedProfile
	err := s.client.pipeline.JSON(ctx, pipeline.Request{
		Method: http.MethodGet,
		Path:   "enrichment/profile",
		Query:  (&pipeline.Query{}).Add("email", email),
		Auth:   s.client.basicAuth(),
	}, &result)
	return result, err
}
