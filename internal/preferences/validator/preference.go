package validator

import (
	"fmt"

	"github.com/consentio/tcf-consent-api/internal/preferences/model"
)

var validPreferences = map[string]bool{
	model.PreferenceOptIn:       true,
	model.PreferenceOptOut:      true,
	model.PreferenceAcknowledge: true,
}

var validServingComponents = map[string]bool{
	model.ServingComponentOverlay:       true,
	model.ServingComponentBanner:        true,
	model.ServingComponentPrivacyCenter: true,
	model.ServingComponentTCFOverlay:    true,
	model.ServingComponentTCFBanner:     true,
}

// ValidateIdentity checks that at least one identity channel is supplied
func ValidateIdentity(providedIdentityID, deviceIdentityID *string) error {
	if isSet(providedIdentityID) || isSet(deviceIdentityID) {
		return nil
	}
	return fmt.Errorf("at least one of provided_identity_id or device_identity_id is required")
}

// ValidateSavePreferencesRequest checks a save-preferences payload
func ValidateSavePreferencesRequest(req model.SavePreferencesRequest) error {
	if err := ValidateIdentity(req.ProvidedIdentityID, req.DeviceIdentityID); err != nil {
		return err
	}
	if len(req.Preferences) == 0 {
		return fmt.Errorf("preferences must not be empty")
	}
	for i, item := range req.Preferences {
		if err := validateExactlyOneKey(item.NoticeHistoryID, item.DataUse, item.Vendor, item.Feature); err != nil {
			return fmt.Errorf("preferences[%d]: %w", i, err)
		}
		if !validPreferences[item.Preference] {
			return fmt.Errorf("preferences[%d]: preference must be one of opt_in, opt_out, acknowledge", i)
		}
	}
	return nil
}

// ValidateNoticesServedRequest checks a notices-served payload
func ValidateNoticesServedRequest(req model.NoticesServedRequest) error {
	if err := ValidateIdentity(req.ProvidedIdentityID, req.DeviceIdentityID); err != nil {
		return err
	}
	if !validServingComponents[req.ServingComponent] {
		return fmt.Errorf("serving_component %q is not recognised", req.ServingComponent)
	}
	if len(req.NoticesServed) == 0 {
		return fmt.Errorf("notices_served must not be empty")
	}
	for i, item := range req.NoticesServed {
		if err := validateExactlyOneKey(item.NoticeHistoryID, item.DataUse, item.Vendor, item.Feature); err != nil {
			return fmt.Errorf("notices_served[%d]: %w", i, err)
		}
	}
	return nil
}

// validateExactlyOneKey enforces the mutual exclusion of the four
// preference keys.
func validateExactlyOneKey(noticeHistoryID, dataUse, vendor, feature *string) error {
	count := 0
	for _, value := range []*string{noticeHistoryID, dataUse, vendor, feature} {
		if isSet(value) {
			count++
		}
	}
	if count != 1 {
		return fmt.Errorf("exactly one of privacy_notice_history_id, data_use, vendor, feature must be set")
	}
	return nil
}

func isSet(value *string) bool {
	return value != nil && *value != ""
}
