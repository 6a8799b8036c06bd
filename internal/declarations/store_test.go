package declarations

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consentio/tcf-consent-api/internal/declarations/model"
	"github.com/consentio/tcf-consent-api/internal/system/database/provider"
)

// TestGetMatchingDeclarations_MapsRows tests row mapping including nullable
// vendor ids and the JSON-encoded features column
func TestGetMatchingDeclarations_MapsRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"SYSTEM_ID", "NAME", "DESCRIPTION", "VENDOR_ID", "DATA_USE", "LEGAL_BASIS", "FEATURES"}).
		AddRow("sys-a", "System A", "First system", "gvl.42", "analytics.reporting.campaign_insights", "Consent", `["Link different devices"]`).
		AddRow("sys-b", "System B", "Second system", nil, "functional.storage", "Legitimate interests", nil)
	mock.ExpectQuery("SELECT S.SYSTEM_ID, S.NAME, S.DESCRIPTION, S.VENDOR_ID, D.DATA_USE, D.LEGAL_BASIS, D.FEATURES FROM SYSTEM_RESOURCE S").
		WithArgs("analytics.reporting.campaign_insights", "functional.storage", "Consent", "Legitimate interests").
		WillReturnRows(rows)

	store := newDeclarationStore(provider.NewDBClient(db, "mysql"))

	declarations, err := store.GetMatchingDeclarations(
		[]string{"analytics.reporting.campaign_insights", "functional.storage"},
		[]string{model.LegalBasisConsent, model.LegalBasisLegitimateInterests})
	require.NoError(t, err)
	require.Len(t, declarations, 2)

	first := declarations[0]
	assert.Equal(t, "sys-a", first.SystemID)
	assert.Equal(t, "System A", first.SystemName)
	require.NotNil(t, first.VendorID)
	assert.Equal(t, "gvl.42", *first.VendorID)
	require.NotNil(t, first.LegalBasis)
	assert.Equal(t, model.LegalBasisConsent, *first.LegalBasis)
	assert.Equal(t, []string{"Link different devices"}, first.Features)

	second := declarations[1]
	assert.Nil(t, second.VendorID)
	assert.Empty(t, second.Features)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestGetMatchingDeclarations_EmptyInputs tests that empty filter sets skip
// the query entirely
func TestGetMatchingDeclarations_EmptyInputs(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := newDeclarationStore(provider.NewDBClient(db, "mysql"))

	declarations, err := store.GetMatchingDeclarations(nil, []string{model.LegalBasisConsent})
	require.NoError(t, err)
	assert.Empty(t, declarations)
}

// TestListOverrides_MapsRows tests publisher override row mapping
func TestListOverrides_MapsRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"OVERRIDE_ID", "PURPOSE", "IS_INCLUDED", "REQUIRED_LEGAL_BASIS"}).
		AddRow("ovr-1", int64(3), int64(0), nil).
		AddRow("ovr-2", int64(9), int64(1), "Legitimate interests")
	mock.ExpectQuery("SELECT OVERRIDE_ID, PURPOSE, IS_INCLUDED, REQUIRED_LEGAL_BASIS FROM TCF_PUBLISHER_OVERRIDE").
		WillReturnRows(rows)

	store := newPublisherOverrideStore(provider.NewDBClient(db, "mysql"))

	overrides, err := store.ListOverrides()
	require.NoError(t, err)
	require.Len(t, overrides, 2)

	assert.Equal(t, 3, overrides[0].Purpose)
	assert.False(t, overrides[0].IsIncluded)
	assert.Nil(t, overrides[0].RequiredLegalBasis)

	assert.Equal(t, 9, overrides[1].Purpose)
	assert.True(t, overrides[1].IsIncluded)
	require.NotNil(t, overrides[1].RequiredLegalBasis)
	assert.Equal(t, model.LegalBasisLegitimateInterests, *overrides[1].RequiredLegalBasis)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestPlaceholders tests placeholder list construction
func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}
