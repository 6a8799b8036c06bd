package tcf

import (
	"context"
	"sort"

	"github.com/consentio/tcf-consent-api/internal/declarations"
	"github.com/consentio/tcf-consent-api/internal/gvl"
	"github.com/consentio/tcf-consent-api/internal/tcf/model"
)

// BuildExperienceContents runs the full aggregation: it gathers the
// declaration rows relevant to any GVL purpose, runs the section builder
// four times threading one system map forward, then partitions and sorts
// the result. The output depends only on the source's rows and the lookup,
// so callers may cache it safely.
func BuildExperienceContents(ctx context.Context, source declarations.Source, lookup gvl.Lookup) (*model.TCFExperienceContents, error) {
	purposeUses := dataUsesOf(lookup.Purposes())
	specialPurposeUses := dataUsesOf(lookup.SpecialPurposes())

	rows, err := source.MatchingDeclarations(ctx, unionUses(purposeUses, specialPurposeUses))
	if err != nil {
		return nil, err
	}

	featureNames := namesOf(lookup.Features())
	specialFeatureNames := namesOf(lookup.SpecialFeatures())

	systemMap := make(map[string]*model.VendorRecord)

	purposes := buildSection(KindPurpose, toSet(purposeUses), rows, systemMap, lookup)
	specialPurposes := buildSection(KindSpecialPurpose, toSet(specialPurposeUses), rows, systemMap, lookup)
	features := buildSection(KindFeature, toSet(featureNames), rows, systemMap, lookup)
	specialFeatures := buildSection(KindSpecialFeature, toSet(specialFeatureNames), rows, systemMap, lookup)

	vendors, systems := partitionSystemMap(systemMap)

	return &model.TCFExperienceContents{
		TCFVersion:         model.CurrentTCFVersion,
		TCFPurposes:        sortSection(purposes),
		TCFSpecialPurposes: sortSection(specialPurposes),
		TCFVendors:         vendors,
		TCFFeatures:        sortSection(features),
		TCFSpecialFeatures: sortSection(specialFeatures),
		TCFSystems:         systems,
	}, nil
}

// dataUsesOf flattens the data uses of a purpose catalog, preserving
// catalog order.
func dataUsesOf(purposes []gvl.Purpose) []string {
	var uses []string
	for _, purpose := range purposes {
		uses = append(uses, purpose.DataUses...)
	}
	return uses
}

func namesOf(features []gvl.Feature) []string {
	names := make([]string, 0, len(features))
	for _, feature := range features {
		names = append(names, feature.Name)
	}
	return names
}

func unionUses(first []string, second []string) []string {
	seen := make(map[string]bool, len(first)+len(second))
	union := make([]string, 0, len(first)+len(second))
	for _, use := range first {
		if !seen[use] {
			seen[use] = true
			union = append(union, use)
		}
	}
	for _, use := range second {
		if !seen[use] {
			seen[use] = true
			union = append(union, use)
		}
	}
	return union
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, value := range values {
		set[value] = true
	}
	return set
}

// sortSection flattens a section map into a slice sorted ascending by id.
func sortSection(section map[int]*model.TopLevelRecord) []model.TopLevelRecord {
	records := make([]model.TopLevelRecord, 0, len(section))
	for _, record := range section {
		records = append(records, *record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].ID < records[j].ID
	})
	return records
}

// partitionSystemMap splits the accumulated vendor records into the vendors
// and systems sections, each sorted by name, with every embedded sub-list
// sorted by id.
func partitionSystemMap(systemMap map[string]*model.VendorRecord) ([]model.VendorRecord, []model.VendorRecord) {
	vendors := make([]model.VendorRecord, 0, len(systemMap))
	systems := make([]model.VendorRecord, 0)

	for _, record := range systemMap {
		sortEmbedded(record.Purposes)
		sortEmbedded(record.SpecialPurposes)
		sortEmbedded(record.Features)
		sortEmbedded(record.SpecialFeatures)
		if record.HasVendorID {
			vendors = append(vendors, *record)
		} else {
			systems = append(systems, *record)
		}
	}

	sortByName(vendors)
	sortByName(systems)
	return vendors, systems
}

func sortEmbedded(records []model.EmbeddedRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].ID < records[j].ID
	})
}

func sortByName(records []model.VendorRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Name != records[j].Name {
			return records[i].Name < records[j].Name
		}
		return records[i].ID < records[j].ID
	})
}
