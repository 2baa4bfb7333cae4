package moov

import "github.com/moovfinancial/moov-go/internal/apierror"

type (
	// ConfigurationError is returned by New for unusable credentials.
	ConfigurationError = apierror.ConfigurationError

	// ValidationError is returned before any request is sent when an
	// argument is missing or malformed.
	ValidationError = apierror.ValidationError

	// AuthenticationFailedError is returned when a token cannot be issued.
	AuthenticationFailedError = apierror.AuthenticationFailedError

	// APIError is any non-2xx response from the API.
	APIError = apierror.APIError
)

var (
	ErrMissingScopes      = apierror.ErrMissingScopes
	ErrInvalidPathSegment = apierror.ErrInvalidPathSegment

	ErrMissingAccountID  = apierror.ErrMissingAccountID
	ErrMissingAccount    = apierror.ErrMissingAccount
	ErrMissingCriteria   = apierror.ErrMissingCriteria
	ErrMissingUniqueID   = apierror.ErrMissingUniqueID
	ErrMissingEmail      = apierror.ErrMissingEmail
	ErrMissingCapability = apierror.ErrMissingCapability

	ErrMissingBankAccountID              = apierror.ErrMissingBankAccountID
	ErrMissingBankPayload                = apierror.ErrMissingBankPayload
	ErrMissingBankAccountNumber          = apierror.ErrMissingBankAccountNumber
	ErrMissingBankAccountRoutingNumber   = apierror.ErrMissingBankAccountRoutingNumber
	ErrInvalidBankAccountRoutingNumber   = apierror.ErrInvalidBankAccountRoutingNumber
	ErrMissingBankAccountHolderName      = apierror.ErrMissingBankAccountHolderName
	ErrMissingBankAccountHolderType      = apierror.ErrMissingBankAccountHolderType
	ErrMissingAmounts                    = apierror.ErrMissingAmounts
	ErrMissingCardID                     = apierror.ErrMissingCardID
	ErrMissingCard                       = apierror.ErrMissingCard
	ErrMissingEnrichAddressSearch        = apierror.ErrMissingEnrichAddressSearch
	ErrMissingInstitutionNameOrRouting   = apierror.ErrMissingInstitutionNameOrRouting
	ErrMissingPaymentMethodID            = apierror.ErrMissingPaymentMethodID
	ErrMissingRepresentativeID           = apierror.ErrMissingRepresentativeID
	ErrMissingRepresentative             = apierror.ErrMissingRepresentative
	ErrMissingTransferID                 = apierror.ErrMissingTransferID
	ErrMissingTransfer                   = apierror.ErrMissingTransfer
	ErrMissingRefundID                   = apierror.ErrMissingRefundID
	ErrMissingWalletID                   = apierror.ErrMissingWalletID
	ErrMissingTransactionID              = apierror.ErrMissingTransactionID
	ErrMissingTransferOptionsPaymentData = apierror.ErrMissingTransferOptionsPaymentData
)
