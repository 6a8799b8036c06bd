package model

import "fmt"

// CurrentTCFVersion is stamped on TCF-keyed preference records so reports
// can tell which framework version a preference was captured under.
const CurrentTCFVersion = "2.2"

// PreferenceKey identifies which of the four mutually exclusive consent
// keys a record is saved against.
type PreferenceKey string

const (
	KeyNoticeHistory PreferenceKey = "privacy_notice_history_id"
	KeyDataUse       PreferenceKey = "data_use"
	KeyVendor        PreferenceKey = "vendor"
	KeyFeature       PreferenceKey = "feature"
)

// IsTCFKey reports whether the key belongs to the TCF surface rather than
// a privacy notice.
func (k PreferenceKey) IsTCFKey() bool {
	return k == KeyDataUse || k == KeyVendor || k == KeyFeature
}

// User preference values.
const (
	PreferenceOptIn       = "opt_in"
	PreferenceOptOut      = "opt_out"
	PreferenceAcknowledge = "acknowledge"
)

// Serving components for notice-served events.
const (
	ServingComponentOverlay       = "overlay"
	ServingComponentBanner        = "banner"
	ServingComponentPrivacyCenter = "privacy_center"
	ServingComponentTCFOverlay    = "tcf_overlay"
	ServingComponentTCFBanner     = "tcf_banner"
)

// HistoricalRecord is the immutable append-only row created for every
// preference save or notice-served event. Exactly one of NoticeHistoryID,
// DataUse, Vendor, Feature is set, and at least one identity channel.
type HistoricalRecord struct {
	ID                 string
	CreatedTime        int64
	ProvidedIdentityID *string
	DeviceIdentityID   *string
	NoticeHistoryID    *string
	DataUse            *string
	Vendor             *string
	Feature            *string
	Preference         *string
	ConsentMethod      *string
	RequestOrigin      *string
	UserGeography      *string
	ServingComponent   *string
	TCFVersion         *string
}

// PreferenceKeyField returns which preference key is set on the record and
// its value. It errors unless exactly one key is set.
func (h *HistoricalRecord) PreferenceKeyField() (PreferenceKey, string, error) {
	var key PreferenceKey
	var value string
	count := 0

	if h.NoticeHistoryID != nil {
		key, value = KeyNoticeHistory, *h.NoticeHistoryID
		count++
	}
	if h.DataUse != nil {
		key, value = KeyDataUse, *h.DataUse
		count++
	}
	if h.Vendor != nil {
		key, value = KeyVendor, *h.Vendor
		count++
	}
	if h.Feature != nil {
		key, value = KeyFeature, *h.Feature
		count++
	}

	if count != 1 {
		return "", "", fmt.Errorf("exactly one preference key must be set, got %d", count)
	}
	return key, value, nil
}

// CurrentRecord is the single canonical row per (identity, preference key)
// pair, pointing at the historical record that last touched it.
type CurrentRecord struct {
	ID                 string
	CreatedTime        int64
	UpdatedTime        int64
	ProvidedIdentityID *string
	DeviceIdentityID   *string
	NoticeHistoryID    *string
	DataUse            *string
	Vendor             *string
	Feature            *string
	Preference         *string
	HistoryID          string
	TCFVersion         *string
}

// CurrentRecordData carries the fields written onto a current record during
// reconciliation, whether it is updated in place or freshly created.
type CurrentRecordData struct {
	ProvidedIdentityID *string
	DeviceIdentityID   *string
	NoticeHistoryID    *string
	DataUse            *string
	Vendor             *string
	Feature            *string
	Preference         *string
	HistoryID          string
	UpdatedTime        int64
	TCFVersion         *string
}

// ApplyTo writes the data onto a current record.
func (d CurrentRecordData) ApplyTo(record *CurrentRecord) {
	if d.ProvidedIdentityID != nil {
		record.ProvidedIdentityID = d.ProvidedIdentityID
	}
	if d.DeviceIdentityID != nil {
		record.DeviceIdentityID = d.DeviceIdentityID
	}
	record.NoticeHistoryID = d.NoticeHistoryID
	record.DataUse = d.DataUse
	record.Vendor = d.Vendor
	record.Feature = d.Feature
	record.Preference = d.Preference
	record.HistoryID = d.HistoryID
	record.UpdatedTime = d.UpdatedTime
	record.TCFVersion = d.TCFVersion
}

// PreferenceItem is one entry of a save-preferences request.
type PreferenceItem struct {
	NoticeHistoryID *string `json:"privacy_notice_history_id,omitempty"`
	DataUse         *string `json:"data_use,omitempty"`
	Vendor          *string `json:"vendor,omitempty"`
	Feature         *string `json:"feature,omitempty"`
	Preference      string  `json:"preference"`
}

// ServedItem is one entry of a notices-served request.
type ServedItem struct {
	NoticeHistoryID *string `json:"privacy_notice_history_id,omitempty"`
	DataUse         *string `json:"data_use,omitempty"`
	Vendor          *string `json:"vendor,omitempty"`
	Feature         *string `json:"feature,omitempty"`
}

// SavePreferencesRequest is the API payload for saving user preferences.
type SavePreferencesRequest struct {
	ProvidedIdentityID *string          `json:"provided_identity_id,omitempty"`
	DeviceIdentityID   *string          `json:"device_identity_id,omitempty"`
	ConsentMethod      *string          `json:"consent_method,omitempty"`
	RequestOrigin      *string          `json:"request_origin,omitempty"`
	UserGeography      *string          `json:"user_geography,omitempty"`
	Preferences        []PreferenceItem `json:"preferences"`
}

// NoticesServedRequest is the API payload for recording served notices.
type NoticesServedRequest struct {
	ProvidedIdentityID *string      `json:"provided_identity_id,omitempty"`
	DeviceIdentityID   *string      `json:"device_identity_id,omitempty"`
	ServingComponent   string       `json:"serving_component"`
	RequestOrigin      *string      `json:"request_origin,omitempty"`
	UserGeography      *string      `json:"user_geography,omitempty"`
	NoticesServed      []ServedItem `json:"notices_served"`
}

// CurrentRecordResponse is the API representation of a current record.
type CurrentRecordResponse struct {
	ID                 string  `json:"id"`
	ProvidedIdentityID *string `json:"provided_identity_id,omitempty"`
	DeviceIdentityID   *string `json:"device_identity_id,omitempty"`
	NoticeHistoryID    *string `json:"privacy_notice_history_id,omitempty"`
	DataUse            *string `json:"data_use,omitempty"`
	Vendor             *string `json:"vendor,omitempty"`
	Feature            *string `json:"feature,omitempty"`
	Preference         *string `json:"preference,omitempty"`
	HistoryID          string  `json:"history_id"`
	TCFVersion         *string `json:"tcf_version,omitempty"`
	CreatedTime        int64   `json:"created_time"`
	UpdatedTime        int64   `json:"updated_time"`
}

// ToResponse converts a current record to its API representation.
func (r *CurrentRecord) ToResponse() CurrentRecordResponse {
	return CurrentRecordResponse{
		ID:                 r.ID,
		ProvidedIdentityID: r.ProvidedIdentityID,
		DeviceIdentityID:   r.DeviceIdentityID,
		NoticeHistoryID:    r.NoticeHistoryID,
		DataUse:            r.DataUse,
		Vendor:             r.Vendor,
		Feature:            r.Feature,
		Preference:         r.Preference,
		HistoryID:          r.HistoryID,
		TCFVersion:         r.TCFVersion,
		CreatedTime:        r.CreatedTime,
		UpdatedTime:        r.UpdatedTime,
	}
}
