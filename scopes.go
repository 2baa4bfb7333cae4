package moov

// Scope is an OAuth permission requested when generating a token. Scopes
// containing "{accountID}" are rendered for the target account.
type Scope = string

const (
	ScopeAccountsCreate        Scope = "/accounts.write"
	ScopeAccountsRead          Scope = "/accounts.read"
	ScopeBankAccountsRead      Scope = "/accounts/{accountID}/bank-accounts.read"
	ScopeBankAccountsWrite     Scope = "/accounts/{accountID}/bank-accounts.write"
	ScopeCardsRead             Scope = "/accounts/{accountID}/cards.read"
	ScopeCardsWrite            Scope = "/accounts/{accountID}/cards.write"
	ScopeCapabilitiesRead      Scope = "/accounts/{accountID}/capabilities.read"
	ScopeCapabilitiesWrite     Scope = "/accounts/{accountID}/capabilities.write"
	ScopeDocumentsRead         Scope = "/accounts/{accountID}/documents.read"
	ScopeDocumentsWrite        Scope = "/accounts/{accountID}/documents.write"
	ScopePaymentMethodsRead    Scope = "/accounts/{accountID}/payment-methods.read"
	ScopeProfileEnrichmentRead Scope = "/profile-enrichment.read"
	ScopeProfileRead           Scope = "/accounts/{accountID}/profile.read"
	ScopeProfileWrite          Scope = "/accounts/{accountID}/profile.write"
	ScopeRepresentativeRead    Scope = "/accounts/{accountID}/representatives.read"
	ScopeRepresentativeWrite   Scope = "/accounts/{accountID}/representatives.write"
	ScopeTransfersRead         Scope = "/accounts/{accountID}/transfers.read"
	ScopeTransfersWrite        Scope = "/accounts/{accountID}/transfers.write"
	ScopeWalletsRead           Scope = "/accounts/{accountID}/wallets.read"
	ScopeFedRead               Scope = "/fed.read"
	ScopePing                  Scope = "/ping.read"
)

// AllScopes is the scope set used for tokens the client generates for its
// own calls. Tokens handed to browser code should request fewer.
func AllScopes() []Scope {
	return []Scope{
		ScopeAccountsCreate,
		ScopeAccountsRead,
		ScopeBankAccountsRead,
		ScopeBankAccountsWrite,
		ScopeCardsRead,
		ScopeCardsWrite,
		ScopeCapabilitiesRead,
		ScopeCapabilitiesWrite,
		ScopeDocumentsRead,
		ScopeDocumentsWrite,
		ScopePaymentMethodsRead,
		ScopeProfileEnrichmentRead,
		ScopeProfileRead,
		ScopeProfileWrite,
		ScopeRepresentativeRead,
		ScopeRepresentativeWrite,
		ScopeTransfersRead,
		ScopeTransfersWrite,
		ScopeWalletsRead,
		ScopeFedRead,
		ScopePing,
	}
}
