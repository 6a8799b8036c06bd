package preferences

import (
	"github.com/consentio/tcf-consent-api/internal/preferences/model"
	dbmodel "github.com/consentio/tcf-consent-api/internal/system/database/model"
	"github.com/consentio/tcf-consent-api/internal/system/utils"
)

// currentRecordAccess is the slice of store operations the reconciler
// needs. PreferenceStore satisfies it; tests substitute an in-memory fake.
type currentRecordAccess interface {
	GetCurrentRecord(tx dbmodel.TxInterface, kind RecordKind, channel IdentityChannel, identityID string, key model.PreferenceKey, value string) (*model.CurrentRecord, error)
	CreateCurrentRecord(tx dbmodel.TxInterface, kind RecordKind, record *model.CurrentRecord) error
	UpdateCurrentRecord(tx dbmodel.TxInterface, kind RecordKind, record *model.CurrentRecord) error
	DeleteCurrentRecord(tx dbmodel.TxInterface, kind RecordKind, recordID string) error
}

// upsertCurrentRecord reconciles the single canonical current record for
// the identity and preference key carried by a historical record.
//
// The record is looked up independently through the verified-identity and
// device-identity channels. When both lookups hit different rows, the save
// event supplying both channels is taken as proof the identities belong to
// the same user, and the device-keyed duplicate is deleted in favour of the
// verified-identity row.
//
// Runs entirely inside the caller's transaction. Uniqueness violations from
// concurrent saves surface unchanged; retrying is the caller's decision.
func upsertCurrentRecord(
	tx dbmodel.TxInterface,
	records currentRecordAccess,
	kind RecordKind,
	historical *model.HistoricalRecord,
	data model.CurrentRecordData,
) (*model.CurrentRecord, error) {
	key, value, err := historical.PreferenceKeyField()
	if err != nil {
		return nil, err
	}

	var byProvided, byDevice *model.CurrentRecord
	if historical.ProvidedIdentityID != nil {
		byProvided, err = records.GetCurrentRecord(tx, kind, ChannelProvided, *historical.ProvidedIdentityID, key, value)
		if err != nil {
			return nil, err
		}
	}
	if historical.DeviceIdentityID != nil {
		byDevice, err = records.GetCurrentRecord(tx, kind, ChannelDevice, *historical.DeviceIdentityID, key, value)
		if err != nil {
			return nil, err
		}
	}

	if byProvided != nil && byDevice != nil && byProvided.ID != byDevice.ID {
		if err := records.DeleteCurrentRecord(tx, kind, byDevice.ID); err != nil {
			return nil, err
		}
		byDevice = nil
	}

	target := byProvided
	if target == nil {
		target = byDevice
	}

	if target != nil {
		data.ApplyTo(target)
		if err := records.UpdateCurrentRecord(tx, kind, target); err != nil {
			return nil, err
		}
		return target, nil
	}

	created := &model.CurrentRecord{
		ID:          utils.GenerateUUID(),
		CreatedTime: data.UpdatedTime,
	}
	data.ApplyTo(created)
	if err := records.CreateCurrentRecord(tx, kind, created); err != nil {
		return nil, err
	}
	return created, nil
}
