package preferences

import (
	"database/sql"
	"fmt"

	"github.com/consentio/tcf-consent-api/internal/preferences/model"
	dbmodel "github.com/consentio/tcf-consent-api/internal/system/database/model"
	"github.com/consentio/tcf-consent-api/internal/system/database/provider"
)

// RecordKind selects which pair of tables a save event acts on: preference
// saves or notice-served events. The reconciliation protocol is identical
// for both.
type RecordKind int

const (
	RecordKindPreference RecordKind = iota
	RecordKindServed
)

func (k RecordKind) historyTable() string {
	if k == RecordKindServed {
		return "SERVED_NOTICE_HISTORY"
	}
	return "PRIVACY_PREFERENCE_HISTORY"
}

func (k RecordKind) currentTable() string {
	if k == RecordKindServed {
		return "LAST_SERVED_NOTICE"
	}
	return "CURRENT_PRIVACY_PREFERENCE"
}

// IdentityChannel selects which identity column a current-record lookup
// constrains on.
type IdentityChannel int

const (
	ChannelProvided IdentityChannel = iota
	ChannelDevice
)

func (c IdentityChannel) column() string {
	if c == ChannelDevice {
		return "DEVICE_IDENTITY_ID"
	}
	return "PROVIDED_IDENTITY_ID"
}

// keyColumn maps a preference key to its constraint column. The key set is
// closed, so the generated SQL only ever contains these four columns.
func keyColumn(key model.PreferenceKey) string {
	switch key {
	case model.KeyDataUse:
		return "DATA_USE"
	case model.KeyVendor:
		return "VENDOR"
	case model.KeyFeature:
		return "FEATURE"
	default:
		return "NOTICE_HISTORY_ID"
	}
}

const currentRecordColumns = "RECORD_ID, CREATED_TIME, UPDATED_TIME, PROVIDED_IDENTITY_ID, DEVICE_IDENTITY_ID, " +
	"NOTICE_HISTORY_ID, DATA_USE, VENDOR, FEATURE, PREFERENCE, HISTORY_ID, TCF_VERSION"

// DBQuery objects for non-transactional preference reads
var (
	QueryCheckNoticeHistoryExists = dbmodel.DBQuery{
		ID:    "CHECK_NOTICE_HISTORY_EXISTS",
		Query: "SELECT COUNT(*) as count FROM PRIVACY_NOTICE_HISTORY WHERE NOTICE_HISTORY_ID = ?",
	}

	QueryListCurrentPreferencesByIdentity = dbmodel.DBQuery{
		ID: "LIST_CURRENT_PREFERENCES_BY_IDENTITY",
		Query: "SELECT " + currentRecordColumns + " FROM CURRENT_PRIVACY_PREFERENCE " +
			"WHERE PROVIDED_IDENTITY_ID = ? OR DEVICE_IDENTITY_ID = ? ORDER BY UPDATED_TIME DESC",
	}
)

// PreferenceStore defines the interface for preference persistence. The
// transactional methods run against the caller's transaction so the
// reconciler's read-then-write sequence stays inside one boundary.
type PreferenceStore interface {
	CreateHistoricalRecord(tx dbmodel.TxInterface, kind RecordKind, record *model.HistoricalRecord) error
	GetCurrentRecord(tx dbmodel.TxInterface, kind RecordKind, channel IdentityChannel, identityID string, key model.PreferenceKey, value string) (*model.CurrentRecord, error)
	CreateCurrentRecord(tx dbmodel.TxInterface, kind RecordKind, record *model.CurrentRecord) error
	UpdateCurrentRecord(tx dbmodel.TxInterface, kind RecordKind, record *model.CurrentRecord) error
	DeleteCurrentRecord(tx dbmodel.TxInterface, kind RecordKind, recordID string) error

	NoticeHistoryExists(noticeHistoryID string) (bool, error)
	ListCurrentPreferencesByIdentity(identityID string) ([]model.CurrentRecord, error)
}

// preferenceStore implements the PreferenceStore interface
type preferenceStore struct {
	dbClient provider.DBClientInterface
}

func newPreferenceStore(dbClient provider.DBClientInterface) PreferenceStore {
	return &preferenceStore{
		dbClient: dbClient,
	}
}

// CreateHistoricalRecord inserts an immutable history row within a transaction
func (s *preferenceStore) CreateHistoricalRecord(tx dbmodel.TxInterface, kind RecordKind, record *model.HistoricalRecord) error {
	query := fmt.Sprintf(
		"INSERT INTO %s (HISTORY_ID, CREATED_TIME, PROVIDED_IDENTITY_ID, DEVICE_IDENTITY_ID, NOTICE_HISTORY_ID, "+
			"DATA_USE, VENDOR, FEATURE, PREFERENCE, CONSENT_METHOD, REQUEST_ORIGIN, USER_GEOGRAPHY, SERVING_COMPONENT, TCF_VERSION) "+
			"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		kind.historyTable())
	_, err := tx.Exec(query,
		record.ID, record.CreatedTime, record.ProvidedIdentityID, record.DeviceIdentityID, record.NoticeHistoryID,
		record.DataUse, record.Vendor, record.Feature, record.Preference, record.ConsentMethod,
		record.RequestOrigin, record.UserGeography, record.ServingComponent, record.TCFVersion)
	return err
}

// GetCurrentRecord looks up the current record for one identity channel and
// preference key within a transaction. Returns nil when absent.
func (s *preferenceStore) GetCurrentRecord(tx dbmodel.TxInterface, kind RecordKind, channel IdentityChannel, identityID string, key model.PreferenceKey, value string) (*model.CurrentRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? AND %s = ?",
		currentRecordColumns, kind.currentTable(), channel.column(), keyColumn(key))

	rows, err := tx.Query(query, identityID, value)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	record, err := scanCurrentRecord(rows)
	if err != nil {
		return nil, err
	}
	return record, rows.Err()
}

// CreateCurrentRecord inserts a current record within a transaction
func (s *preferenceStore) CreateCurrentRecord(tx dbmodel.TxInterface, kind RecordKind, record *model.CurrentRecord) error {
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		kind.currentTable(), currentRecordColumns)
	_, err := tx.Exec(query,
		record.ID, record.CreatedTime, record.UpdatedTime, record.ProvidedIdentityID, record.DeviceIdentityID,
		record.NoticeHistoryID, record.DataUse, record.Vendor, record.Feature, record.Preference,
		record.HistoryID, record.TCFVersion)
	return err
}

// UpdateCurrentRecord updates a current record in place within a transaction
func (s *preferenceStore) UpdateCurrentRecord(tx dbmodel.TxInterface, kind RecordKind, record *model.CurrentRecord) error {
	query := fmt.Sprintf(
		"UPDATE %s SET UPDATED_TIME = ?, PROVIDED_IDENTITY_ID = ?, DEVICE_IDENTITY_ID = ?, NOTICE_HISTORY_ID = ?, "+
			"DATA_USE = ?, VENDOR = ?, FEATURE = ?, PREFERENCE = ?, HISTORY_ID = ?, TCF_VERSION = ? WHERE RECORD_ID = ?",
		kind.currentTable())
	_, err := tx.Exec(query,
		record.UpdatedTime, record.ProvidedIdentityID, record.DeviceIdentityID, record.NoticeHistoryID,
		record.DataUse, record.Vendor, record.Feature, record.Preference, record.HistoryID, record.TCFVersion,
		record.ID)
	return err
}

// DeleteCurrentRecord removes a current record within a transaction
func (s *preferenceStore) DeleteCurrentRecord(tx dbmodel.TxInterface, kind RecordKind, recordID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE RECORD_ID = ?", kind.currentTable())
	_, err := tx.Exec(query, recordID)
	return err
}

// NoticeHistoryExists checks whether a privacy notice history row exists
func (s *preferenceStore) NoticeHistoryExists(noticeHistoryID string) (bool, error) {
	rows, err := s.dbClient.Query(&QueryCheckNoticeHistoryExists, noticeHistoryID)
	if err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, nil
	}
	if count, ok := rows[0]["count"].(int64); ok {
		return count > 0, nil
	}
	return false, nil
}

// ListCurrentPreferencesByIdentity retrieves the current preference records
// visible to an identity through either channel
func (s *preferenceStore) ListCurrentPreferencesByIdentity(identityID string) ([]model.CurrentRecord, error) {
	rows, err := s.dbClient.Query(&QueryListCurrentPreferencesByIdentity, identityID, identityID)
	if err != nil {
		return nil, err
	}

	records := make([]model.CurrentRecord, 0, len(rows))
	for _, row := range rows {
		record := mapToCurrentRecord(row)
		if record != nil {
			records = append(records, *record)
		}
	}
	return records, nil
}

// scanCurrentRecord scans one row of currentRecordColumns from a
// transactional query.
func scanCurrentRecord(rows *sql.Rows) (*model.CurrentRecord, error) {
	var record model.CurrentRecord
	var provided, device, notice, dataUse, vendor, feature, preference, tcfVersion sql.NullString

	err := rows.Scan(&record.ID, &record.CreatedTime, &record.UpdatedTime, &provided, &device,
		&notice, &dataUse, &vendor, &feature, &preference, &record.HistoryID, &tcfVersion)
	if err != nil {
		return nil, err
	}

	record.ProvidedIdentityID = nullableString(provided)
	record.DeviceIdentityID = nullableString(device)
	record.NoticeHistoryID = nullableString(notice)
	record.DataUse = nullableString(dataUse)
	record.Vendor = nullableString(vendor)
	record.Feature = nullableString(feature)
	record.Preference = nullableString(preference)
	record.TCFVersion = nullableString(tcfVersion)
	return &record, nil
}

func nullableString(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	s := value.String
	return &s
}

// Mapper functions

func mapToCurrentRecord(row map[string]interface{}) *model.CurrentRecord {
	if row == nil {
		return nil
	}

	record := &model.CurrentRecord{}

	if id, ok := row["RECORD_ID"].(string); ok {
		record.ID = id
	}
	if created, ok := row["CREATED_TIME"].(int64); ok {
		record.CreatedTime = created
	}
	if updated, ok := row["UPDATED_TIME"].(int64); ok {
		record.UpdatedTime = updated
	}
	if provided, ok := row["PROVIDED_IDENTITY_ID"].(string); ok {
		record.ProvidedIdentityID = &provided
	}
	if device, ok := row["DEVICE_IDENTITY_ID"].(string); ok {
		record.DeviceIdentityID = &device
	}
	if notice, ok := row["NOTICE_HISTORY_ID"].(string); ok {
		record.NoticeHistoryID = &notice
	}
	if dataUse, ok := row["DATA_USE"].(string); ok {
		record.DataUse = &dataUse
	}
	if vendor, ok := row["VENDOR"].(string); ok {
		record.Vendor = &vendor
	}
	if feature, ok := row["FEATURE"].(string); ok {
		record.Feature = &feature
	}
	if preference, ok := row["PREFERENCE"].(string); ok {
		record.Preference = &preference
	}
	if historyID, ok := row["HISTORY_ID"].(string); ok {
		record.HistoryID = historyID
	}
	if version, ok := row["TCF_VERSION"].(string); ok {
		record.TCFVersion = &version
	}

	return record
}
