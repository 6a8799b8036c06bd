package declarations

import (
	"context"

	"github.com/consentio/tcf-consent-api/internal/declarations/model"
	"github.com/consentio/tcf-consent-api/internal/gvl"
	"github.com/consentio/tcf-consent-api/internal/system/config"
	"github.com/consentio/tcf-consent-api/internal/system/stores"
)

// Source yields the declaration rows relevant to a TCF aggregation run.
// Rows are filtered to the Consent and Legitimate interests legal bases
// and, when enabled, adjusted by the deployment's publisher overrides
// before they reach the aggregation.
type Source interface {
	MatchingDeclarations(ctx context.Context, dataUses []string) ([]model.DeclarationRow, error)
}

// declarationSource implements the Source interface
type declarationSource struct {
	stores *stores.StoreRegistry
	lookup gvl.Lookup
}

// NewSource creates a declaration source backed by the store registry
func NewSource(registry *stores.StoreRegistry, lookup gvl.Lookup) Source {
	return &declarationSource{
		stores: registry,
		lookup: lookup,
	}
}

// MatchingDeclarations returns the declaration rows whose data use is in the
// given set, restricted to TCF legal bases and adjusted by publisher
// overrides when tcf.override_vendor_purposes is enabled.
func (s *declarationSource) MatchingDeclarations(ctx context.Context, dataUses []string) ([]model.DeclarationRow, error) {
	declarationStore := s.stores.Declarations.(DeclarationStore)

	legalBases := []string{model.LegalBasisConsent, model.LegalBasisLegitimateInterests}
	rows, err := declarationStore.GetMatchingDeclarations(dataUses, legalBases)
	if err != nil {
		return nil, err
	}

	if !config.Get().TCF.OverrideVendorPurposes {
		return rows, nil
	}

	overrideStore := s.stores.PublisherOverride.(PublisherOverrideStore)
	overrides, err := overrideStore.ListOverrides()
	if err != nil {
		return nil, err
	}
	if len(overrides) == 0 {
		return rows, nil
	}

	return applyOverrides(rows, overrides, s.lookup), nil
}

// applyOverrides drops rows whose purpose is excluded and rewrites the legal
// basis on rows whose purpose carries a required one. Overrides apply to
// regular purposes only; special purpose rows pass through unchanged.
func applyOverrides(rows []model.DeclarationRow, overrides []model.PublisherOverride, lookup gvl.Lookup) []model.DeclarationRow {
	byPurpose := make(map[int]model.PublisherOverride, len(overrides))
	for _, override := range overrides {
		byPurpose[override.Purpose] = override
	}

	adjusted := make([]model.DeclarationRow, 0, len(rows))
	for _, row := range rows {
		purpose, special := lookup.DataUseToPurpose(row.DataUse)
		if purpose == nil || special {
			adjusted = append(adjusted, row)
			continue
		}

		override, ok := byPurpose[purpose.ID]
		if !ok {
			adjusted = append(adjusted, row)
			continue
		}
		if !override.IsIncluded {
			continue
		}
		if override.RequiredLegalBasis != nil {
			basis := *override.RequiredLegalBasis
			row.LegalBasis = &basis
		}
		adjusted = append(adjusted, row)
	}

	return adjusted
}
