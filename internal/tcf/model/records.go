package model

// CurrentTCFVersion is the Transparency & Consent Framework version the
// aggregated experience contents conform to.
const CurrentTCFVersion = "2.2"

// EmbeddedVendor is a sparse vendor/system reference embedded under a
// top-level purpose or feature record.
type EmbeddedVendor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EmbeddedRecord is a sparse purpose/feature reference embedded under a
// vendor/system record. Legal bases are only populated for purpose kinds
// and reflect the contributions of that vendor's systems alone.
type EmbeddedRecord struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	LegalBases []string `json:"legal_bases,omitempty"`
}

// TopLevelRecord is one entry in a purpose/feature section of the
// experience contents. LegalBases is the consolidated union across every
// system that declared the purpose; it is empty for feature kinds.
type TopLevelRecord struct {
	ID          int              `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	DataUses    []string         `json:"data_uses,omitempty"`
	LegalBases  []string         `json:"legal_bases,omitempty"`
	Vendors     []EmbeddedVendor `json:"vendors"`
	Systems     []EmbeddedVendor `json:"systems"`
}

// VendorRecord is one entry in the tcf_vendors or tcf_systems section. Its
// id is the vendor identifier when the underlying system declares one,
// otherwise the system's own identifier; HasVendorID records which and
// drives the final partition.
type VendorRecord struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	HasVendorID     bool             `json:"has_vendor_id"`
	Purposes        []EmbeddedRecord `json:"purposes"`
	SpecialPurposes []EmbeddedRecord `json:"special_purposes"`
	Features        []EmbeddedRecord `json:"features"`
	SpecialFeatures []EmbeddedRecord `json:"special_features"`
}

// TCFExperienceContents is the aggregated, fully sorted TCF experience
// returned to the presentation layer.
type TCFExperienceContents struct {
	TCFVersion         string           `json:"tcf_version"`
	TCFPurposes        []TopLevelRecord `json:"tcf_purposes"`
	TCFSpecialPurposes []TopLevelRecord `json:"tcf_special_purposes"`
	TCFVendors         []VendorRecord   `json:"tcf_vendors"`
	TCFFeatures        []TopLevelRecord `json:"tcf_features"`
	TCFSpecialFeatures []TopLevelRecord `json:"tcf_special_features"`
	TCFSystems         []VendorRecord   `json:"tcf_systems"`
}
