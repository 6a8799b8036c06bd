package preferences

import (
	"context"

	"github.com/go-sql-driver/mysql"

	"github.com/consentio/tcf-consent-api/internal/preferences/model"
	"github.com/consentio/tcf-consent-api/internal/preferences/validator"
	dbmodel "github.com/consentio/tcf-consent-api/internal/system/database/model"
	"github.com/consentio/tcf-consent-api/internal/system/error/codes"
	"github.com/consentio/tcf-consent-api/internal/system/error/serviceerror"
	"github.com/consentio/tcf-consent-api/internal/system/log"
	"github.com/consentio/tcf-consent-api/internal/system/stores"
	"github.com/consentio/tcf-consent-api/internal/system/utils"
)

var (
	errIdentityMissing = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             codes.IdentityMissing,
		Error:            "identity_missing",
		ErrorDescription: "At least one identity channel is required",
	}

	errPreferenceRequestInvalid = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             codes.PreferenceKeyInvalid,
		Error:            "invalid_preference_request",
		ErrorDescription: "The preference request is invalid",
	}

	errNoticeHistoryNotFound = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             codes.NoticeHistoryNotFound,
		Error:            "notice_history_not_found",
		ErrorDescription: "The referenced privacy notice history does not exist",
	}

	errCurrentRecordConflict = serviceerror.ServiceError{
		Type:             serviceerror.ClientErrorType,
		Code:             codes.CurrentRecordConflict,
		Error:            "current_record_conflict",
		ErrorDescription: "A concurrent save produced a conflicting current record",
	}

	errPreferenceSaveFailed = serviceerror.ServiceError{
		Type:             serviceerror.ServerErrorType,
		Code:             codes.PreferenceSaveFailed,
		Error:            "preference_save_failed",
		ErrorDescription: "Failed to save privacy preferences",
	}

	errServedRecordSaveFailed = serviceerror.ServiceError{
		Type:             serviceerror.ServerErrorType,
		Code:             codes.ServedRecordSaveFailed,
		Error:            "served_record_save_failed",
		ErrorDescription: "Failed to record served notices",
	}
)

// PreferenceService defines the exported service interface for consent
// preference saves, notice-served events, and current-preference reads.
type PreferenceService interface {
	SavePrivacyPreferences(ctx context.Context, req model.SavePreferencesRequest) ([]model.CurrentRecordResponse, *serviceerror.ServiceError)
	RecordNoticesServed(ctx context.Context, req model.NoticesServedRequest) ([]model.CurrentRecordResponse, *serviceerror.ServiceError)
	GetCurrentPreferences(ctx context.Context, identityID string) ([]model.CurrentRecordResponse, *serviceerror.ServiceError)
}

// preferenceService implements the PreferenceService interface
type preferenceService struct {
	stores *stores.StoreRegistry
	logger *log.Logger
}

// newPreferenceService creates a new preference service
func newPreferenceService(registry *stores.StoreRegistry) PreferenceService {
	return &preferenceService{
		stores: registry,
		logger: log.GetLogger().With(log.String(log.LoggerKeyComponentName, "PreferenceService")),
	}
}

// SavePrivacyPreferences creates one historical record per preference item
// and reconciles the matching current record, each in its own transaction.
func (s *preferenceService) SavePrivacyPreferences(ctx context.Context, req model.SavePreferencesRequest) ([]model.CurrentRecordResponse, *serviceerror.ServiceError) {
	normalizeSaveRequest(&req)

	if err := validator.ValidateIdentity(req.ProvidedIdentityID, req.DeviceIdentityID); err != nil {
		return nil, serviceerror.CustomServiceError(errIdentityMissing, err.Error())
	}
	if err := validator.ValidateSavePreferencesRequest(req); err != nil {
		return nil, serviceerror.CustomServiceError(errPreferenceRequestInvalid, err.Error())
	}

	store := s.stores.Preferences.(PreferenceStore)
	now := utils.GetCurrentTimeMillis()

	responses := make([]model.CurrentRecordResponse, 0, len(req.Preferences))
	for _, item := range req.Preferences {
		if item.NoticeHistoryID != nil {
			exists, err := store.NoticeHistoryExists(*item.NoticeHistoryID)
			if err != nil {
				s.logger.Error("Failed to check notice history", log.Error(err))
				return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, "failed to check notice history")
			}
			if !exists {
				return nil, serviceerror.CustomServiceError(errNoticeHistoryNotFound, *item.NoticeHistoryID)
			}
		}

		preference := item.Preference
		historical := &model.HistoricalRecord{
			ID:                 utils.GenerateUUID(),
			CreatedTime:        now,
			ProvidedIdentityID: req.ProvidedIdentityID,
			DeviceIdentityID:   req.DeviceIdentityID,
			NoticeHistoryID:    item.NoticeHistoryID,
			DataUse:            item.DataUse,
			Vendor:             item.Vendor,
			Feature:            item.Feature,
			Preference:         &preference,
			ConsentMethod:      req.ConsentMethod,
			RequestOrigin:      req.RequestOrigin,
			UserGeography:      req.UserGeography,
		}
		stampTCFVersion(historical)

		saved, svcErr := s.saveRecord(RecordKindPreference, store, historical, now)
		if svcErr != nil {
			return nil, svcErr
		}
		responses = append(responses, saved.ToResponse())
	}

	s.logger.Info("Saved privacy preferences", log.Int("count", len(responses)))
	return responses, nil
}

// RecordNoticesServed creates one served-notice history record per item and
// reconciles the matching last-served record, each in its own transaction.
func (s *preferenceService) RecordNoticesServed(ctx context.Context, req model.NoticesServedRequest) ([]model.CurrentRecordResponse, *serviceerror.ServiceError) {
	normalizeServedRequest(&req)

	if err := validator.ValidateIdentity(req.ProvidedIdentityID, req.DeviceIdentityID); err != nil {
		return nil, serviceerror.CustomServiceError(errIdentityMissing, err.Error())
	}
	if err := validator.ValidateNoticesServedRequest(req); err != nil {
		return nil, serviceerror.CustomServiceError(errPreferenceRequestInvalid, err.Error())
	}

	store := s.stores.Preferences.(PreferenceStore)
	now := utils.GetCurrentTimeMillis()
	servingComponent := req.ServingComponent

	responses := make([]model.CurrentRecordResponse, 0, len(req.NoticesServed))
	for _, item := range req.NoticesServed {
		if item.NoticeHistoryID != nil {
			exists, err := store.NoticeHistoryExists(*item.NoticeHistoryID)
			if err != nil {
				s.logger.Error("Failed to check notice history", log.Error(err))
				return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, "failed to check notice history")
			}
			if !exists {
				return nil, serviceerror.CustomServiceError(errNoticeHistoryNotFound, *item.NoticeHistoryID)
			}
		}

		historical := &model.HistoricalRecord{
			ID:                 utils.GenerateUUID(),
			CreatedTime:        now,
			ProvidedIdentityID: req.ProvidedIdentityID,
			DeviceIdentityID:   req.DeviceIdentityID,
			NoticeHistoryID:    item.NoticeHistoryID,
			DataUse:            item.DataUse,
			Vendor:             item.Vendor,
			Feature:            item.Feature,
			RequestOrigin:      req.RequestOrigin,
			UserGeography:      req.UserGeography,
			ServingComponent:   &servingComponent,
		}
		stampTCFVersion(historical)

		saved, svcErr := s.saveRecord(RecordKindServed, store, historical, now)
		if svcErr != nil {
			return nil, svcErr
		}
		responses = append(responses, saved.ToResponse())
	}

	s.logger.Info("Recorded served notices", log.Int("count", len(responses)))
	return responses, nil
}

// GetCurrentPreferences returns the current preference records reachable
// from an identity through either channel.
func (s *preferenceService) GetCurrentPreferences(ctx context.Context, identityID string) ([]model.CurrentRecordResponse, *serviceerror.ServiceError) {
	if identityID == "" {
		return nil, serviceerror.CustomServiceError(errIdentityMissing, "identity is required")
	}

	store := s.stores.Preferences.(PreferenceStore)
	records, err := store.ListCurrentPreferencesByIdentity(identityID)
	if err != nil {
		s.logger.Error("Failed to list current preferences", log.Error(err))
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, "failed to list current preferences")
	}

	responses := make([]model.CurrentRecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, records[i].ToResponse())
	}
	return responses, nil
}

// saveRecord runs the history insert and the current-record reconciliation
// in one transaction and returns the reconciled record.
func (s *preferenceService) saveRecord(kind RecordKind, store PreferenceStore, historical *model.HistoricalRecord, now int64) (*model.CurrentRecord, *serviceerror.ServiceError) {
	data := model.CurrentRecordData{
		ProvidedIdentityID: historical.ProvidedIdentityID,
		DeviceIdentityID:   historical.DeviceIdentityID,
		NoticeHistoryID:    historical.NoticeHistoryID,
		DataUse:            historical.DataUse,
		Vendor:             historical.Vendor,
		Feature:            historical.Feature,
		Preference:         historical.Preference,
		HistoryID:          historical.ID,
		UpdatedTime:        now,
		TCFVersion:         historical.TCFVersion,
	}

	var saved *model.CurrentRecord
	queries := []func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error {
			return store.CreateHistoricalRecord(tx, kind, historical)
		},
		func(tx dbmodel.TxInterface) error {
			record, err := upsertCurrentRecord(tx, store, kind, historical, data)
			if err != nil {
				return err
			}
			saved = record
			return nil
		},
	}

	if err := s.stores.ExecuteTransaction(queries); err != nil {
		if isDuplicateKeyError(err) {
			return nil, serviceerror.CustomServiceError(errCurrentRecordConflict, err.Error())
		}
		s.logger.Error("Failed to save record", log.Error(err))
		if kind == RecordKindServed {
			return nil, serviceerror.CustomServiceError(errServedRecordSaveFailed, "transaction failed")
		}
		return nil, serviceerror.CustomServiceError(errPreferenceSaveFailed, "transaction failed")
	}
	return saved, nil
}

// stampTCFVersion records the framework version on TCF-keyed records.
func stampTCFVersion(historical *model.HistoricalRecord) {
	if key, _, err := historical.PreferenceKeyField(); err == nil && key.IsTCFKey() {
		version := model.CurrentTCFVersion
		historical.TCFVersion = &version
	}
}

// isDuplicateKeyError detects a MySQL unique-constraint violation, which
// signals two concurrent saves racing on the same identity and key.
func isDuplicateKeyError(err error) bool {
	if mysqlErr, ok := err.(*mysql.MySQLError); ok {
		return mysqlErr.Number == 1062
	}
	return false
}

func normalizeSaveRequest(req *model.SavePreferencesRequest) {
	req.ProvidedIdentityID = emptyToNil(req.ProvidedIdentityID)
	req.DeviceIdentityID = emptyToNil(req.DeviceIdentityID)
	for i := range req.Preferences {
		item := &req.Preferences[i]
		item.NoticeHistoryID = emptyToNil(item.NoticeHistoryID)
		item.DataUse = emptyToNil(item.DataUse)
		item.Vendor = emptyToNil(item.Vendor)
		item.Feature = emptyToNil(item.Feature)
	}
}

func normalizeServedRequest(req *model.NoticesServedRequest) {
	req.ProvidedIdentityID = emptyToNil(req.ProvidedIdentityID)
	req.DeviceIdentityID = emptyToNil(req.DeviceIdentityID)
	for i := range req.NoticesServed {
		item := &req.NoticesServed[i]
		item.NoticeHistoryID = emptyToNil(item.NoticeHistoryID)
		item.DataUse = emptyToNil(item.DataUse)
		item.Vendor = emptyToNil(item.Vendor)
		item.Feature = emptyToNil(item.Feature)
	}
}

func emptyToNil(value *string) *string {
	if value != nil && *value == "" {
		return nil
	}
	return value
}
