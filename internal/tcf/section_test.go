package tcf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	declmodel "github.com/consentio/tcf-consent-api/internal/declarations/model"
	"github.com/consentio/tcf-consent-api/internal/gvl"
	"github.com/consentio/tcf-consent-api/internal/tcf/model"
)

// TestBuildSection_VendorReferencesSortedByName tests that embedded vendor
// references stay name-sorted as rows arrive in arbitrary order
func TestBuildSection_VendorReferencesSortedByName(t *testing.T) {
	rows := []declmodel.DeclarationRow{
		row("sys-z", "Zeta", strPtr("gvl.1"), "functional.storage", declmodel.LegalBasisConsent),
		row("sys-a", "Alpha", strPtr("gvl.2"), "functional.storage", declmodel.LegalBasisConsent),
		row("sys-m", "Midway", strPtr("gvl.3"), "functional.storage", declmodel.LegalBasisConsent),
	}

	systemMap := make(map[string]*model.VendorRecord)
	section := buildSection(KindPurpose, map[string]bool{"functional.storage": true}, rows, systemMap, gvl.Default())

	require.Contains(t, section, 1)
	vendors := section[1].Vendors
	require.Len(t, vendors, 3)
	assert.Equal(t, "Alpha", vendors[0].Name)
	assert.Equal(t, "Midway", vendors[1].Name)
	assert.Equal(t, "Zeta", vendors[2].Name)
}

// TestBuildSection_DuplicateRowsDeduplicated tests that the same system
// declaring the same data use twice produces no duplicate references
func TestBuildSection_DuplicateRowsDeduplicated(t *testing.T) {
	rows := []declmodel.DeclarationRow{
		row("sys-a", "System A", nil, "functional.storage", declmodel.LegalBasisConsent),
		row("sys-a", "System A", nil, "functional.storage", declmodel.LegalBasisConsent),
	}

	systemMap := make(map[string]*model.VendorRecord)
	section := buildSection(KindPurpose, map[string]bool{"functional.storage": true}, rows, systemMap, gvl.Default())

	require.Contains(t, section, 1)
	assert.Len(t, section[1].Systems, 1)
	assert.Equal(t, []string{declmodel.LegalBasisConsent}, section[1].LegalBases)

	require.Len(t, systemMap, 1)
	assert.Len(t, systemMap["sys-a"].Purposes, 1)
}

// TestBuildSection_SystemMapThreadsAcrossKinds tests that one system map
// accumulates sub-lists across sequential builder passes
func TestBuildSection_SystemMapThreadsAcrossKinds(t *testing.T) {
	rows := []declmodel.DeclarationRow{
		row("sys-a", "System A", nil, "functional.storage", declmodel.LegalBasisConsent, "Link different devices"),
	}

	systemMap := make(map[string]*model.VendorRecord)
	buildSection(KindPurpose, map[string]bool{"functional.storage": true}, rows, systemMap, gvl.Default())
	buildSection(KindFeature, map[string]bool{"Link different devices": true}, rows, systemMap, gvl.Default())

	require.Len(t, systemMap, 1)
	record := systemMap["sys-a"]
	require.Len(t, record.Purposes, 1)
	assert.Equal(t, 1, record.Purposes[0].ID)
	require.Len(t, record.Features, 1)
	assert.Equal(t, 2, record.Features[0].ID)
}

// TestExtendLegalBases tests union, deduplication, and sorting
func TestExtendLegalBases(t *testing.T) {
	assert.Nil(t, extendLegalBases(nil, nil))
	assert.Equal(t, []string{"Consent"}, extendLegalBases(nil, []string{"Consent"}))
	assert.Equal(t, []string{"Consent"}, extendLegalBases([]string{"Consent"}, []string{"Consent"}))
	assert.Equal(t,
		[]string{"Consent", "Legitimate interests"},
		extendLegalBases([]string{"Legitimate interests"}, []string{"Consent"}))
}

// TestComponentKind_Resolve tests kind-specific GVL resolution
func TestComponentKind_Resolve(t *testing.T) {
	lookup := gvl.Default()

	record := KindPurpose.resolve(lookup, "analytics.reporting.campaign_insights")
	require.NotNil(t, record)
	assert.Equal(t, 9, record.ID)

	// A special purpose data use does not resolve for the purpose kind.
	assert.Nil(t, KindPurpose.resolve(lookup, "essential.fraud_detection"))
	record = KindSpecialPurpose.resolve(lookup, "essential.fraud_detection")
	require.NotNil(t, record)
	assert.Equal(t, 1, record.ID)

	assert.Nil(t, KindFeature.resolve(lookup, "Use precise geolocation data"))
	record = KindSpecialFeature.resolve(lookup, "Use precise geolocation data")
	require.NotNil(t, record)
	assert.Equal(t, 1, record.ID)

	assert.Nil(t, KindPurpose.resolve(lookup, "not.a.data.use"))
}
