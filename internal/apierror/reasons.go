package apierror

// Named validation failures. Resource handles return these directly so
// callers can match them with errors.Is.
var (
	ErrMissingScopes = NewValidationError("missing scopes")

	// ErrInvalidPathSegment rejects IDs that would be resolved as "." or
	// ".." and address a different route.
	ErrInvalidPathSegment = NewValidationError(`path segment cannot be "." or ".."`)

	ErrMissingAccountID  = NewValidationError("missing account ID")
	ErrMissingAccount    = NewValidationError("missing account")
	ErrMissingCriteria   = NewValidationError("missing criteria")
	ErrMissingUniqueID   = NewValidationError("missing unique ID")
	ErrMissingEmail      = NewValidationError("missing email")
	ErrMissingCapability = NewValidationError("missing capability")

	ErrMissingBankAccountID              = NewValidationError("missing bank account ID")
	ErrMissingBankPayload                = NewValidationError("missing bank account, plaid token or mx authorization code")
	ErrMissingBankAccountNumber          = NewValidationError("missing bank account number")
	ErrMissingBankAccountRoutingNumber   = NewValidationError("missing bank account routing number")
	ErrInvalidBankAccountRoutingNumber   = NewValidationError("bank account routing number must be 9 digits")
	ErrMissingBankAccountHolderName      = NewValidationError("missing bank account holder name")
	ErrMissingBankAccountHolderType      = NewValidationError("missing bank account holder type")
	ErrMissingAmounts                    = NewValidationError("missing micro-deposit amounts")
	ErrMissingCardID                     = NewValidationError("missing card ID")
	ErrMissingCard                       = NewValidationError("missing card")
	ErrMissingEnrichAddressSearch        = NewValidationError("missing address search")
	ErrMissingInstitutionNameOrRouting   = NewValidationError("missing institution name or routing number")
	ErrMissingPaymentMethodID            = NewValidationError("missing payment method ID")
	ErrMissingRepresentativeID           = NewValidationError("missing representative ID")
	ErrMissingRepresentative             = NewValidationError("missing representative")
	ErrMissingTransferID                 = NewValidationError("missing transfer ID")
	ErrMissingTransfer                   = NewValidationError("missing transfer")
	ErrMissingRefundID                   = NewValidationError("missing refund ID")
	ErrMissingWalletID                   = NewValidationError("missing wallet ID")
	ErrMissingTransactionID              = NewValidationError("missing wallet transaction ID")
	ErrMissingTransferOptionsPaymentData = NewValidationError("missing source, destination or amount for transfer options")
)
