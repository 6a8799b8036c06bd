package tcf

import (
	declmodel "github.com/consentio/tcf-consent-api/internal/declarations/model"
	"github.com/consentio/tcf-consent-api/internal/gvl"
	"github.com/consentio/tcf-consent-api/internal/tcf/model"
)

// ComponentKind identifies which TCF section a builder pass assembles.
// The set is closed: each kind carries its own GVL resolution rule and
// its own sub-list on the vendor record.
type ComponentKind int

const (
	KindPurpose ComponentKind = iota
	KindSpecialPurpose
	KindFeature
	KindSpecialFeature
)

// String returns the section name for the kind.
func (k ComponentKind) String() string {
	switch k {
	case KindPurpose:
		return "purposes"
	case KindSpecialPurpose:
		return "special_purposes"
	case KindFeature:
		return "features"
	case KindSpecialFeature:
		return "special_features"
	}
	return "unknown"
}

// isPurposeKind reports whether the kind matches declaration rows by data
// use. Feature kinds match by feature name instead, and never carry legal
// bases.
func (k ComponentKind) isPurposeKind() bool {
	return k == KindPurpose || k == KindSpecialPurpose
}

// relevantAttributes returns the attributes a declaration row contributes
// for this kind: the row's data use for purpose kinds, or the intersection
// of the row's features with the relevant set for feature kinds.
func (k ComponentKind) relevantAttributes(row declmodel.DeclarationRow, relevant map[string]bool) []string {
	if k.isPurposeKind() {
		if relevant[row.DataUse] {
			return []string{row.DataUse}
		}
		return nil
	}

	var matched []string
	for _, feature := range row.Features {
		if relevant[feature] {
			matched = append(matched, feature)
		}
	}
	return matched
}

// resolve maps an attribute to its top-level record via the GVL lookup.
// Unmapped attributes, and attributes that resolve to the other purpose or
// feature variant, return nil and are skipped by the builder.
func (k ComponentKind) resolve(lookup gvl.Lookup, attribute string) *model.TopLevelRecord {
	switch k {
	case KindPurpose, KindSpecialPurpose:
		purpose, special := lookup.DataUseToPurpose(attribute)
		if purpose == nil || special != (k == KindSpecialPurpose) {
			return nil
		}
		return &model.TopLevelRecord{
			ID:          purpose.ID,
			Name:        purpose.Name,
			Description: purpose.Description,
			DataUses:    purpose.DataUses,
			Vendors:     []model.EmbeddedVendor{},
			Systems:     []model.EmbeddedVendor{},
		}
	case KindFeature, KindSpecialFeature:
		feature, special := lookup.FeatureNameToFeature(attribute)
		if feature == nil || special != (k == KindSpecialFeature) {
			return nil
		}
		return &model.TopLevelRecord{
			ID:          feature.ID,
			Name:        feature.Name,
			Description: feature.Description,
			Vendors:     []model.EmbeddedVendor{},
			Systems:     []model.EmbeddedVendor{},
		}
	}
	return nil
}

// vendorSubList returns the sub-list on a vendor record that this kind's
// embedded copies belong to.
func (k ComponentKind) vendorSubList(record *model.VendorRecord) *[]model.EmbeddedRecord {
	switch k {
	case KindPurpose:
		return &record.Purposes
	case KindSpecialPurpose:
		return &record.SpecialPurposes
	case KindFeature:
		return &record.Features
	case KindSpecialFeature:
		return &record.SpecialFeatures
	}
	return nil
}
