package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrBillboardNotFound indicates that a billboard with the given ID does not exist.
	ErrBillboardNotFound = errors.New("billboard not found")

	// ErrPartnerNotFound indicates that a partner with the given ID does not exist.
	ErrPartnerNotFound = errors.New("partner not found")

	// ErrPricingCompanyNotFound indicates that a pricing company with the given ID does not exist.
	ErrPricingCompanyNotFound = errors.New("pricing company not found")

	// ErrNoDraft indicates that no partnership draft is open for the billboard.
	ErrNoDraft = errors.New("no partnership draft")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrNotAPartnership indicates that revenue or a statement was requested for a
	// billboard that has no saved partnership.
	ErrNotAPartnership = errors.New("billboard is not a partnership")

	// ErrPartnerInUse indicates that a partner cannot be deleted while it holds shares.
	ErrPartnerInUse = errors.New("partner holds billboard shares")

	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrNegativeAmount indicates that an amount field has an invalid negative value.
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrInvalidTargetTotal indicates a manual total that cannot be spread over the size groups.
	ErrInvalidTargetTotal = errors.New("target total must be positive and the company must have units")

	// ErrUnsupportedFormat indicates an export format other than pdf or xlsx.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrSecretsDisabled indicates that bank details were supplied without a SECRET_KEY configured.
	ErrSecretsDisabled = errors.New("bank details cannot be stored without a secret key")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	// Billboard operation errors
	ErrFailedToRetrieveBillboards = errors.New("failed to retrieve billboards")
	ErrFailedToRetrieveBillboard  = errors.New("failed to retrieve billboard")
	ErrFailedToCreateBillboard    = errors.New("failed to create billboard")
	ErrFailedToImportBillboards   = errors.New("failed to import billboards")

	// Partner operation errors
	ErrFailedToRetrievePartners = errors.New("failed to retrieve partners")
	ErrFailedToRetrievePartner  = errors.New("failed to retrieve partner")
	ErrFailedToSavePartner      = errors.New("failed to save partner")
	ErrFailedToDeletePartner    = errors.New("failed to delete partner")

	// Partnership operation errors
	ErrFailedToRetrievePartnership = errors.New("failed to retrieve partnership")
	ErrFailedToUpdateDraft         = errors.New("failed to update partnership draft")
	ErrFailedToSavePartnership     = errors.New("failed to save partnership")
	ErrFailedToDeactivate          = errors.New("failed to deactivate partnership")

	// Revenue operation errors
	ErrFailedToPostRevenue       = errors.New("failed to post revenue")
	ErrFailedToRetrievePostings  = errors.New("failed to retrieve revenue postings")
	ErrFailedToRetrieveSnapshots = errors.New("failed to retrieve partnership history")

	// Pricing operation errors
	ErrFailedToRetrievePricing = errors.New("failed to retrieve pricing")
	ErrFailedToApplyTotal      = errors.New("failed to apply manual total")

	// Statement operation errors
	ErrFailedToRenderStatement = errors.New("failed to render statement")
	ErrFailedToSaveSettings    = errors.New("failed to save statement settings")

	// System operation errors
	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
)
