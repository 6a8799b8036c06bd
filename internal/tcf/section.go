package tcf

import (
	"sort"

	declmodel "github.com/consentio/tcf-consent-api/internal/declarations/model"
	"github.com/consentio/tcf-consent-api/internal/gvl"
	"github.com/consentio/tcf-consent-api/internal/tcf/model"
)

// buildSection runs one aggregation pass for a single component kind over
// the declaration rows, returning the top-level section keyed by GVL id.
//
// systemMap is mutated in place: vendor/system records are created on first
// sight and their kind-specific sub-lists grow as rows resolve. The same
// map instance threads across the four sequential passes of one aggregation
// run and must never be shared between runs.
//
// Legal basis handling is deliberately asymmetric. The top-level record
// accumulates the union of every system's contribution. The copy embedded
// under a vendor/system starts from exactly the current row's contribution,
// and only grows when another row maps to the same record id under the same
// vendor, which happens when several systems share a vendor id.
func buildSection(
	kind ComponentKind,
	relevant map[string]bool,
	rows []declmodel.DeclarationRow,
	systemMap map[string]*model.VendorRecord,
	lookup gvl.Lookup,
) map[int]*model.TopLevelRecord {
	section := make(map[int]*model.TopLevelRecord)

	for _, row := range rows {
		hasVendorID := row.VendorID != nil && *row.VendorID != ""
		systemIdentifier := row.SystemID
		if hasVendorID {
			systemIdentifier = *row.VendorID
		}

		vendorRecord, ok := systemMap[systemIdentifier]
		if !ok {
			vendorRecord = &model.VendorRecord{
				ID:              systemIdentifier,
				Name:            row.SystemName,
				Description:     row.SystemDescription,
				HasVendorID:     hasVendorID,
				Purposes:        []model.EmbeddedRecord{},
				SpecialPurposes: []model.EmbeddedRecord{},
				Features:        []model.EmbeddedRecord{},
				SpecialFeatures: []model.EmbeddedRecord{},
			}
			systemMap[systemIdentifier] = vendorRecord
		}

		attributes := kind.relevantAttributes(row, relevant)
		if len(attributes) == 0 {
			continue
		}

		var contribution []string
		if kind.isPurposeKind() && row.LegalBasis != nil && *row.LegalBasis != "" {
			contribution = []string{*row.LegalBasis}
		}

		for _, attribute := range attributes {
			resolved := kind.resolve(lookup, attribute)
			if resolved == nil {
				continue
			}

			top, ok := section[resolved.ID]
			if !ok {
				top = resolved
				section[top.ID] = top
			}
			top.LegalBases = extendLegalBases(top.LegalBases, contribution)

			reference := model.EmbeddedVendor{ID: systemIdentifier, Name: vendorRecord.Name}
			if hasVendorID {
				top.Vendors = appendVendorReference(top.Vendors, reference)
			} else {
				top.Systems = appendVendorReference(top.Systems, reference)
			}

			subList := kind.vendorSubList(vendorRecord)
			if embedded := findEmbedded(*subList, top.ID); embedded != nil {
				embedded.LegalBases = extendLegalBases(embedded.LegalBases, contribution)
			} else {
				clone := model.EmbeddedRecord{ID: top.ID, Name: top.Name}
				clone.LegalBases = extendLegalBases(nil, contribution)
				*subList = append(*subList, clone)
			}
		}
	}

	return section
}

// extendLegalBases unions the contribution into existing, deduplicated and
// sorted. Existing entries are never replaced.
func extendLegalBases(existing []string, contribution []string) []string {
	if len(contribution) == 0 {
		return existing
	}
	seen := make(map[string]bool, len(existing)+len(contribution))
	merged := existing
	for _, basis := range existing {
		seen[basis] = true
	}
	for _, basis := range contribution {
		if !seen[basis] {
			seen[basis] = true
			merged = append(merged, basis)
		}
	}
	sort.Strings(merged)
	return merged
}

// appendVendorReference inserts a vendor/system reference deduplicated by
// id, keeping the list sorted by name.
func appendVendorReference(references []model.EmbeddedVendor, reference model.EmbeddedVendor) []model.EmbeddedVendor {
	for _, existing := range references {
		if existing.ID == reference.ID {
			return references
		}
	}
	references = append(references, reference)
	sort.SliceStable(references, func(i, j int) bool {
		if references[i].Name != references[j].Name {
			return references[i].Name < references[j].Name
		}
		return references[i].ID < references[j].ID
	})
	return references
}

// findEmbedded returns a pointer to the embedded record with the given id,
// or nil.
func findEmbedded(records []model.EmbeddedRecord, id int) *model.EmbeddedRecord {
	for i := range records {
		if records[i].ID == id {
			return &records[i]
		}
	}
	return nil
}
