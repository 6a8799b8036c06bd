package preferences

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consentio/tcf-consent-api/internal/preferences/model"
	dbmodel "github.com/consentio/tcf-consent-api/internal/system/database/model"
)

// memoryRecords is an in-memory currentRecordAccess for reconciler tests.
type memoryRecords struct {
	records map[RecordKind]map[string]*model.CurrentRecord
}

func newMemoryRecords() *memoryRecords {
	return &memoryRecords{
		records: map[RecordKind]map[string]*model.CurrentRecord{
			RecordKindPreference: {},
			RecordKindServed:     {},
		},
	}
}

func keyValueOf(record *model.CurrentRecord, key model.PreferenceKey) *string {
	switch key {
	case model.KeyDataUse:
		return record.DataUse
	case model.KeyVendor:
		return record.Vendor
	case model.KeyFeature:
		return record.Feature
	default:
		return record.NoticeHistoryID
	}
}

func (m *memoryRecords) GetCurrentRecord(tx dbmodel.TxInterface, kind RecordKind, channel IdentityChannel, identityID string, key model.PreferenceKey, value string) (*model.CurrentRecord, error) {
	for _, record := range m.records[kind] {
		var identity *string
		if channel == ChannelProvided {
			identity = record.ProvidedIdentityID
		} else {
			identity = record.DeviceIdentityID
		}
		if identity == nil || *identity != identityID {
			continue
		}
		if keyValue := keyValueOf(record, key); keyValue != nil && *keyValue == value {
			copied := *record
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memoryRecords) CreateCurrentRecord(tx dbmodel.TxInterface, kind RecordKind, record *model.CurrentRecord) error {
	if _, exists := m.records[kind][record.ID]; exists {
		return fmt.Errorf("duplicate record id %s", record.ID)
	}
	copied := *record
	m.records[kind][record.ID] = &copied
	return nil
}

func (m *memoryRecords) UpdateCurrentRecord(tx dbmodel.TxInterface, kind RecordKind, record *model.CurrentRecord) error {
	if _, exists := m.records[kind][record.ID]; !exists {
		return fmt.Errorf("record %s not found", record.ID)
	}
	copied := *record
	m.records[kind][record.ID] = &copied
	return nil
}

func (m *memoryRecords) DeleteCurrentRecord(tx dbmodel.TxInterface, kind RecordKind, recordID string) error {
	delete(m.records[kind], recordID)
	return nil
}

func strPtr(s string) *string { return &s }

func historicalFor(provided, device *string, dataUse string) *model.HistoricalRecord {
	return &model.HistoricalRecord{
		ID:                 "hist-1",
		CreatedTime:        1000,
		ProvidedIdentityID: provided,
		DeviceIdentityID:   device,
		DataUse:            strPtr(dataUse),
		Preference:         strPtr(model.PreferenceOptOut),
	}
}

func dataFor(historical *model.HistoricalRecord, updated int64) model.CurrentRecordData {
	return model.CurrentRecordData{
		ProvidedIdentityID: historical.ProvidedIdentityID,
		DeviceIdentityID:   historical.DeviceIdentityID,
		DataUse:            historical.DataUse,
		Preference:         historical.Preference,
		HistoryID:          historical.ID,
		UpdatedTime:        updated,
	}
}

// TestUpsertCurrentRecord_CreatesWhenAbsent tests the create branch
func TestUpsertCurrentRecord_CreatesWhenAbsent(t *testing.T) {
	records := newMemoryRecords()
	historical := historicalFor(strPtr("identity-verified"), nil, "analytics")

	saved, err := upsertCurrentRecord(nil, records, RecordKindPreference, historical, dataFor(historical, 1000))
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, int64(1000), saved.CreatedTime)
	assert.Equal(t, "hist-1", saved.HistoryID)
	assert.Len(t, records.records[RecordKindPreference], 1)
}

// TestUpsertCurrentRecord_IdempotentResave tests that saving the same
// preference twice updates the single record in place
func TestUpsertCurrentRecord_IdempotentResave(t *testing.T) {
	records := newMemoryRecords()
	historical := historicalFor(strPtr("identity-verified"), nil, "analytics")

	first, err := upsertCurrentRecord(nil, records, RecordKindPreference, historical, dataFor(historical, 1000))
	require.NoError(t, err)

	historical.ID = "hist-2"
	historical.Preference = strPtr(model.PreferenceOptIn)
	second, err := upsertCurrentRecord(nil, records, RecordKindPreference, historical, dataFor(historical, 2000))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, records.records[RecordKindPreference], 1)

	stored := records.records[RecordKindPreference][first.ID]
	assert.Equal(t, "hist-2", stored.HistoryID)
	assert.Equal(t, int64(2000), stored.UpdatedTime)
	require.NotNil(t, stored.Preference)
	assert.Equal(t, model.PreferenceOptIn, *stored.Preference)
}

// TestUpsertCurrentRecord_ConsolidatesChannels tests that a save carrying
// both identity channels deletes the device-keyed duplicate and updates the
// verified-identity record
func TestUpsertCurrentRecord_ConsolidatesChannels(t *testing.T) {
	records := newMemoryRecords()

	// Record A keyed by the verified identity.
	byVerified := historicalFor(strPtr("identity-verified"), nil, "analytics")
	recordA, err := upsertCurrentRecord(nil, records, RecordKindPreference, byVerified, dataFor(byVerified, 1000))
	require.NoError(t, err)

	// Record B keyed by the device identity only.
	byDevice := historicalFor(nil, strPtr("identity-device"), "analytics")
	recordB, err := upsertCurrentRecord(nil, records, RecordKindPreference, byDevice, dataFor(byDevice, 1100))
	require.NoError(t, err)
	require.NotEqual(t, recordA.ID, recordB.ID)
	require.Len(t, records.records[RecordKindPreference], 2)

	// A save supplying both channels consolidates to the verified record.
	both := historicalFor(strPtr("identity-verified"), strPtr("identity-device"), "analytics")
	both.ID = "hist-3"
	target, err := upsertCurrentRecord(nil, records, RecordKindPreference, both, dataFor(both, 1200))
	require.NoError(t, err)

	assert.Equal(t, recordA.ID, target.ID)
	require.Len(t, records.records[RecordKindPreference], 1)

	// Lookup by the device identity now resolves to the consolidated record.
	found, err := records.GetCurrentRecord(nil, RecordKindPreference, ChannelDevice, "identity-device", model.KeyDataUse, "analytics")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, recordA.ID, found.ID)
	assert.Equal(t, "hist-3", found.HistoryID)
}

// TestUpsertCurrentRecord_SameRecordBothChannels tests that no delete
// happens when both channels resolve to the same record
func TestUpsertCurrentRecord_SameRecordBothChannels(t *testing.T) {
	records := newMemoryRecords()

	both := historicalFor(strPtr("identity-verified"), strPtr("identity-device"), "analytics")
	first, err := upsertCurrentRecord(nil, records, RecordKindPreference, both, dataFor(both, 1000))
	require.NoError(t, err)

	both.ID = "hist-2"
	second, err := upsertCurrentRecord(nil, records, RecordKindPreference, both, dataFor(both, 2000))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, records.records[RecordKindPreference], 1)
}

// TestUpsertCurrentRecord_KindsAreIndependent tests that preference and
// served records reconcile in separate collections
func TestUpsertCurrentRecord_KindsAreIndependent(t *testing.T) {
	records := newMemoryRecords()
	historical := historicalFor(strPtr("identity-verified"), nil, "analytics")

	_, err := upsertCurrentRecord(nil, records, RecordKindPreference, historical, dataFor(historical, 1000))
	require.NoError(t, err)
	_, err = upsertCurrentRecord(nil, records, RecordKindServed, historical, dataFor(historical, 1000))
	require.NoError(t, err)

	assert.Len(t, records.records[RecordKindPreference], 1)
	assert.Len(t, records.records[RecordKindServed], 1)
}

// TestUpsertCurrentRecord_RejectsAmbiguousKey tests that a historical
// record violating the exactly-one-key precondition errors out
func TestUpsertCurrentRecord_RejectsAmbiguousKey(t *testing.T) {
	records := newMemoryRecords()
	historical := historicalFor(strPtr("identity-verified"), nil, "analytics")
	historical.Vendor = strPtr("gvl.42")

	_, err := upsertCurrentRecord(nil, records, RecordKindPreference, historical, model.CurrentRecordData{})
	assert.Error(t, err)
	assert.Empty(t, records.records[RecordKindPreference])
}
