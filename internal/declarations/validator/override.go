package validator

import (
	"fmt"

	"github.com/consentio/tcf-consent-api/internal/declarations/model"
)

// ValidatePublisherOverrideRequests checks a replacement set of publisher
// overrides: every purpose must be a known GVL purpose, purposes must not
// repeat, and a required legal basis must be a TCF legal basis and only
// appear on included purposes.
func ValidatePublisherOverrideRequests(requests []model.PublisherOverrideRequest, validPurposes map[int]bool) error {
	seen := make(map[int]bool, len(requests))
	for _, req := range requests {
		if !validPurposes[req.Purpose] {
			return fmt.Errorf("purpose %d is not a valid TCF purpose", req.Purpose)
		}
		if seen[req.Purpose] {
			return fmt.Errorf("purpose %d appears more than once", req.Purpose)
		}
		seen[req.Purpose] = true

		if req.RequiredLegalBasis != nil {
			if !req.IsIncluded {
				return fmt.Errorf("purpose %d is excluded and cannot carry a required legal basis", req.Purpose)
			}
			basis := *req.RequiredLegalBasis
			if basis != model.LegalBasisConsent && basis != model.LegalBasisLegitimateInterests {
				return fmt.Errorf("required legal basis %q is not a TCF legal basis", basis)
			}
		}
	}
	return nil
}
