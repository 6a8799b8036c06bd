package model

// Legal bases recognised for TCF processing. Declaration rows carrying any
// other legal basis are filtered out before aggregation.
const (
	LegalBasisConsent             = "Consent"
	LegalBasisLegitimateInterests = "Legitimate interests"
)

// DeclarationRow is one privacy declaration joined with its owning system.
// Multiple rows may reference the same system, and multiple systems may
// share a vendor id.
type DeclarationRow struct {
	SystemID          string
	SystemName        string
	SystemDescription string
	VendorID          *string
	DataUse           string
	LegalBasis        *string
	Features          []string
}

// PublisherOverride is a per-deployment rule for a single TCF purpose:
// it can exclude the purpose from aggregation entirely, or force a
// specific legal basis on every declaration row mapping to it.
type PublisherOverride struct {
	ID                 string
	Purpose            int
	IsIncluded         bool
	RequiredLegalBasis *string
}

// PublisherOverrideRequest is the API payload for one override entry.
type PublisherOverrideRequest struct {
	Purpose            int     `json:"purpose"`
	IsIncluded         bool    `json:"is_included"`
	RequiredLegalBasis *string `json:"required_legal_basis,omitempty"`
}

// PublisherOverrideResponse is the API representation of a stored override.
type PublisherOverrideResponse struct {
	ID                 string  `json:"id"`
	Purpose            int     `json:"purpose"`
	IsIncluded         bool    `json:"is_included"`
	RequiredLegalBasis *string `json:"required_legal_basis,omitempty"`
}
