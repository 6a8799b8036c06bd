package tcf

import (
	"context"
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	declmodel "github.com/consentio/tcf-consent-api/internal/declarations/model"
	"github.com/consentio/tcf-consent-api/internal/gvl"
	"github.com/consentio/tcf-consent-api/internal/tcf/model"
)

type fakeSource struct {
	rows        []declmodel.DeclarationRow
	gotDataUses []string
}

func (f *fakeSource) MatchingDeclarations(ctx context.Context, dataUses []string) ([]declmodel.DeclarationRow, error) {
	f.gotDataUses = dataUses
	return f.rows, nil
}

func strPtr(s string) *string { return &s }

func row(systemID, systemName string, vendorID *string, dataUse, basis string, features ...string) declmodel.DeclarationRow {
	var basisPtr *string
	if basis != "" {
		basisPtr = &basis
	}
	return declmodel.DeclarationRow{
		SystemID:   systemID,
		SystemName: systemName,
		VendorID:   vendorID,
		DataUse:    dataUse,
		LegalBasis: basisPtr,
		Features:   features,
	}
}

func build(t *testing.T, rows []declmodel.DeclarationRow) *model.TCFExperienceContents {
	t.Helper()
	contents, err := BuildExperienceContents(context.Background(), &fakeSource{rows: rows}, gvl.Default())
	require.NoError(t, err)
	return contents
}

// TestBuildExperienceContents_Determinism tests that repeated runs over the
// same rows produce byte-identical output
func TestBuildExperienceContents_Determinism(t *testing.T) {
	rows := []declmodel.DeclarationRow{
		row("sys-a", "Analytics Hub", strPtr("gvl.42"), "analytics.reporting.campaign_insights", declmodel.LegalBasisConsent, "Link different devices"),
		row("sys-b", "Ad Server", strPtr("gvl.42"), "marketing.advertising.serving", declmodel.LegalBasisLegitimateInterests),
		row("sys-c", "CMS", nil, "functional.storage", declmodel.LegalBasisConsent, "Use precise geolocation data"),
	}

	first, err := json.Marshal(build(t, rows))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		next, err := json.Marshal(build(t, rows))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(next))
	}
}

// TestBuildExperienceContents_VendorCollapsing tests that rows sharing a
// vendor id collapse into one vendor whose embedded legal bases are the
// union of both systems' contributions
func TestBuildExperienceContents_VendorCollapsing(t *testing.T) {
	rows := []declmodel.DeclarationRow{
		row("sys-a", "System A", strPtr("gvl.42"), "analytics.reporting.campaign_insights", declmodel.LegalBasisConsent),
		row("sys-b", "System B", strPtr("gvl.42"), "analytics.reporting.campaign_insights", declmodel.LegalBasisLegitimateInterests),
	}

	contents := build(t, rows)

	require.Len(t, contents.TCFVendors, 1)
	assert.Empty(t, contents.TCFSystems)

	vendor := contents.TCFVendors[0]
	assert.Equal(t, "gvl.42", vendor.ID)
	assert.True(t, vendor.HasVendorID)
	require.Len(t, vendor.Purposes, 1)
	assert.Equal(t, 9, vendor.Purposes[0].ID)
	assert.Equal(t, []string{declmodel.LegalBasisConsent, declmodel.LegalBasisLegitimateInterests}, vendor.Purposes[0].LegalBases)

	require.Len(t, contents.TCFPurposes, 1)
	purpose := contents.TCFPurposes[0]
	assert.Equal(t, 9, purpose.ID)
	assert.Equal(t, []string{declmodel.LegalBasisConsent, declmodel.LegalBasisLegitimateInterests}, purpose.LegalBases)
	require.Len(t, purpose.Vendors, 1)
	assert.Equal(t, "gvl.42", purpose.Vendors[0].ID)
}

// TestBuildExperienceContents_EmbeddedOverrideSemantics tests that distinct
// vendors each show only their own legal basis on the embedded copy while
// the top-level record carries the union
func TestBuildExperienceContents_EmbeddedOverrideSemantics(t *testing.T) {
	rows := []declmodel.DeclarationRow{
		row("sys-a", "System A", strPtr("gvl.1"), "analytics.reporting.campaign_insights", declmodel.LegalBasisConsent),
		row("sys-b", "System B", strPtr("gvl.2"), "analytics.reporting.campaign_insights", declmodel.LegalBasisLegitimateInterests),
	}

	contents := build(t, rows)

	require.Len(t, contents.TCFPurposes, 1)
	assert.Equal(t, []string{declmodel.LegalBasisConsent, declmodel.LegalBasisLegitimateInterests}, contents.TCFPurposes[0].LegalBases)

	require.Len(t, contents.TCFVendors, 2)
	byID := make(map[string]model.VendorRecord)
	for _, vendor := range contents.TCFVendors {
		byID[vendor.ID] = vendor
	}
	require.Len(t, byID["gvl.1"].Purposes, 1)
	assert.Equal(t, []string{declmodel.LegalBasisConsent}, byID["gvl.1"].Purposes[0].LegalBases)
	require.Len(t, byID["gvl.2"].Purposes, 1)
	assert.Equal(t, []string{declmodel.LegalBasisLegitimateInterests}, byID["gvl.2"].Purposes[0].LegalBases)
}

// TestBuildExperienceContents_Partitioning tests that rows without a vendor
// id never land in tcf_vendors
func TestBuildExperienceContents_Partitioning(t *testing.T) {
	rows := []declmodel.DeclarationRow{
		row("sys-a", "Plain System", nil, "functional.storage", declmodel.LegalBasisConsent),
	}

	contents := build(t, rows)

	assert.Empty(t, contents.TCFVendors)
	require.Len(t, contents.TCFSystems, 1)
	system := contents.TCFSystems[0]
	assert.Equal(t, "sys-a", system.ID)
	assert.False(t, system.HasVendorID)

	require.Len(t, contents.TCFPurposes, 1)
	assert.Empty(t, contents.TCFPurposes[0].Vendors)
	require.Len(t, contents.TCFPurposes[0].Systems, 1)
	assert.Equal(t, "sys-a", contents.TCFPurposes[0].Systems[0].ID)
}

// TestBuildExperienceContents_BidirectionalEmbedding tests that every
// purpose→vendor link has a matching vendor→purpose link and vice versa
func TestBuildExperienceContents_BidirectionalEmbedding(t *testing.T) {
	rows := []declmodel.DeclarationRow{
		row("sys-a", "Analytics Hub", strPtr("gvl.42"), "analytics.reporting.campaign_insights", declmodel.LegalBasisConsent, "Link different devices"),
		row("sys-a", "Analytics Hub", strPtr("gvl.42"), "functional.storage", declmodel.LegalBasisConsent),
		row("sys-b", "Personalizer", strPtr("gvl.7"), "personalize.content", declmodel.LegalBasisConsent),
		row("sys-c", "CMS", nil, "functional.storage", declmodel.LegalBasisLegitimateInterests),
	}

	contents := build(t, rows)

	vendorPurposes := make(map[string]map[int]bool)
	for _, vendor := range contents.TCFVendors {
		vendorPurposes[vendor.ID] = make(map[int]bool)
		for _, embedded := range vendor.Purposes {
			vendorPurposes[vendor.ID][embedded.ID] = true
		}
	}

	purposeVendors := make(map[int]map[string]bool)
	for _, purpose := range contents.TCFPurposes {
		purposeVendors[purpose.ID] = make(map[string]bool)
		for _, reference := range purpose.Vendors {
			purposeVendors[purpose.ID][reference.ID] = true
		}
	}

	for purposeID, vendorIDs := range purposeVendors {
		for vendorID := range vendorIDs {
			assert.True(t, vendorPurposes[vendorID][purposeID],
				"purpose %d references vendor %s but the reverse link is missing", purposeID, vendorID)
		}
	}
	for vendorID, purposeIDs := range vendorPurposes {
		for purposeID := range purposeIDs {
			assert.True(t, purposeVendors[purposeID][vendorID],
				"vendor %s references purpose %d but the reverse link is missing", vendorID, purposeID)
		}
	}
}

// TestBuildExperienceContents_Sortedness tests the ordering guarantees of
// every section and embedded list
func TestBuildExperienceContents_Sortedness(t *testing.T) {
	rows := []declmodel.DeclarationRow{
		row("sys-z", "Zeta", strPtr("gvl.9"), "personalize.content", declmodel.LegalBasisConsent, "Use precise geolocation data", "Match and combine data from other data sources"),
		row("sys-z", "Zeta", strPtr("gvl.9"), "functional.storage", declmodel.LegalBasisConsent),
		row("sys-a", "Alpha", strPtr("gvl.3"), "analytics.reporting.campaign_insights", declmodel.LegalBasisLegitimateInterests, "Link different devices"),
		row("sys-m", "Midway", nil, "essential.fraud_detection", declmodel.LegalBasisLegitimateInterests),
		row("sys-b", "Beta", nil, "marketing.advertising.serving", declmodel.LegalBasisConsent),
	}

	contents := build(t, rows)

	assertSectionSorted := func(records []model.TopLevelRecord, name string) {
		sorted := sort.SliceIsSorted(records, func(i, j int) bool {
			return records[i].ID < records[j].ID
		})
		assert.True(t, sorted, "%s is not sorted by id", name)
	}
	assertSectionSorted(contents.TCFPurposes, "tcf_purposes")
	assertSectionSorted(contents.TCFSpecialPurposes, "tcf_special_purposes")
	assertSectionSorted(contents.TCFFeatures, "tcf_features")
	assertSectionSorted(contents.TCFSpecialFeatures, "tcf_special_features")

	assertVendorsSorted := func(records []model.VendorRecord, name string) {
		sorted := sort.SliceIsSorted(records, func(i, j int) bool {
			return records[i].Name < records[j].Name
		})
		assert.True(t, sorted, "%s is not sorted by name", name)
		for _, record := range records {
			for listName, embedded := range map[string][]model.EmbeddedRecord{
				"purposes":         record.Purposes,
				"special_purposes": record.SpecialPurposes,
				"features":         record.Features,
				"special_features": record.SpecialFeatures,
			} {
				sorted := sort.SliceIsSorted(embedded, func(i, j int) bool {
					return embedded[i].ID < embedded[j].ID
				})
				assert.True(t, sorted, "%s of %s is not sorted by id", listName, record.ID)
			}
		}
	}
	assertVendorsSorted(contents.TCFVendors, "tcf_vendors")
	assertVendorsSorted(contents.TCFSystems, "tcf_systems")
}

// TestBuildExperienceContents_SectionsPopulated tests that purposes, special
// purposes, features, and special features all land in their own sections
func TestBuildExperienceContents_SectionsPopulated(t *testing.T) {
	rows := []declmodel.DeclarationRow{
		row("sys-a", "System A", strPtr("gvl.42"), "analytics.reporting.campaign_insights", declmodel.LegalBasisConsent,
			"Link different devices", "Use precise geolocation data"),
		row("sys-a", "System A", strPtr("gvl.42"), "essential.fraud_detection", declmodel.LegalBasisLegitimateInterests),
	}

	contents := build(t, rows)

	assert.Equal(t, model.CurrentTCFVersion, contents.TCFVersion)

	require.Len(t, contents.TCFPurposes, 1)
	assert.Equal(t, 9, contents.TCFPurposes[0].ID)
	assert.Equal(t, []string{"analytics.reporting.campaign_insights"}, contents.TCFPurposes[0].DataUses)

	require.Len(t, contents.TCFSpecialPurposes, 1)
	assert.Equal(t, 1, contents.TCFSpecialPurposes[0].ID)

	require.Len(t, contents.TCFFeatures, 1)
	assert.Equal(t, 2, contents.TCFFeatures[0].ID)
	assert.Empty(t, contents.TCFFeatures[0].LegalBases)

	require.Len(t, contents.TCFSpecialFeatures, 1)
	assert.Equal(t, 1, contents.TCFSpecialFeatures[0].ID)

	require.Len(t, contents.TCFVendors, 1)
	vendor := contents.TCFVendors[0]
	assert.Len(t, vendor.Purposes, 1)
	assert.Len(t, vendor.SpecialPurposes, 1)
	assert.Len(t, vendor.Features, 1)
	assert.Len(t, vendor.SpecialFeatures, 1)
	assert.Empty(t, vendor.Features[0].LegalBases)
}

// TestBuildExperienceContents_UnmappedDataUseSkipped tests that rows with
// unmapped data uses contribute no top-level records
func TestBuildExperienceContents_UnmappedDataUseSkipped(t *testing.T) {
	rows := []declmodel.DeclarationRow{
		row("sys-a", "System A", nil, "essential.legal_obligation", declmodel.LegalBasisConsent),
	}

	contents := build(t, rows)

	assert.Empty(t, contents.TCFPurposes)
	assert.Empty(t, contents.TCFSpecialPurposes)
	// The system still appears in tcf_systems with empty sub-lists.
	require.Len(t, contents.TCFSystems, 1)
	assert.Empty(t, contents.TCFSystems[0].Purposes)
}

// TestBuildExperienceContents_RequestedDataUses tests that the source is
// asked for the union of purpose and special purpose data uses
func TestBuildExperienceContents_RequestedDataUses(t *testing.T) {
	source := &fakeSource{}
	_, err := BuildExperienceContents(context.Background(), source, gvl.Default())
	require.NoError(t, err)

	assert.Contains(t, source.gotDataUses, "functional.storage")
	assert.Contains(t, source.gotDataUses, "essential.fraud_detection")
	assert.Contains(t, source.gotDataUses, "marketing.advertising.serving")

	seen := make(map[string]bool)
	for _, use := range source.gotDataUses {
		assert.False(t, seen[use], "data use %s requested twice", use)
		seen[use] = true
	}
}
