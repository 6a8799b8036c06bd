package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/consentio/tcf-consent-api/internal/preferences/model"
)

func strPtr(s string) *string { return &s }

// TestValidateIdentity tests the at-least-one-channel rule
func TestValidateIdentity(t *testing.T) {
	assert.NoError(t, ValidateIdentity(strPtr("identity-1"), nil))
	assert.NoError(t, ValidateIdentity(nil, strPtr("device-1")))
	assert.NoError(t, ValidateIdentity(strPtr("identity-1"), strPtr("device-1")))
	assert.Error(t, ValidateIdentity(nil, nil))
	assert.Error(t, ValidateIdentity(strPtr(""), strPtr("")))
}

// TestValidateSavePreferencesRequest tests save payload validation
func TestValidateSavePreferencesRequest(t *testing.T) {
	valid := model.SavePreferencesRequest{
		DeviceIdentityID: strPtr("device-1"),
		Preferences: []model.PreferenceItem{
			{NoticeHistoryID: strPtr("notice-1"), Preference: model.PreferenceOptIn},
			{DataUse: strPtr("analytics"), Preference: model.PreferenceOptOut},
		},
	}
	assert.NoError(t, ValidateSavePreferencesRequest(valid))

	noItems := valid
	noItems.Preferences = nil
	assert.Error(t, ValidateSavePreferencesRequest(noItems))

	twoKeys := valid
	twoKeys.Preferences = []model.PreferenceItem{
		{NoticeHistoryID: strPtr("notice-1"), DataUse: strPtr("analytics"), Preference: model.PreferenceOptIn},
	}
	assert.Error(t, ValidateSavePreferencesRequest(twoKeys))

	noKeys := valid
	noKeys.Preferences = []model.PreferenceItem{
		{Preference: model.PreferenceOptIn},
	}
	assert.Error(t, ValidateSavePreferencesRequest(noKeys))

	badPreference := valid
	badPreference.Preferences = []model.PreferenceItem{
		{Feature: strPtr("1"), Preference: "maybe"},
	}
	assert.Error(t, ValidateSavePreferencesRequest(badPreference))
}

// TestValidateNoticesServedRequest tests served payload validation
func TestValidateNoticesServedRequest(t *testing.T) {
	valid := model.NoticesServedRequest{
		ProvidedIdentityID: strPtr("identity-1"),
		ServingComponent:   model.ServingComponentTCFOverlay,
		NoticesServed: []model.ServedItem{
			{Vendor: strPtr("gvl.42")},
		},
	}
	assert.NoError(t, ValidateNoticesServedRequest(valid))

	badComponent := valid
	badComponent.ServingComponent = "billboard"
	assert.Error(t, ValidateNoticesServedRequest(badComponent))

	noItems := valid
	noItems.NoticesServed = nil
	assert.Error(t, ValidateNoticesServedRequest(noItems))

	twoKeys := valid
	twoKeys.NoticesServed = []model.ServedItem{
		{Vendor: strPtr("gvl.42"), Feature: strPtr("2")},
	}
	assert.Error(t, ValidateNoticesServedRequest(twoKeys))
}
