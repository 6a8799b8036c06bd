package declarations

import (
	"context"

	"github.com/consentio/tcf-consent-api/internal/declarations/model"
	"github.com/consentio/tcf-consent-api/internal/declarations/validator"
	"github.com/consentio/tcf-consent-api/internal/gvl"
	dbmodel "github.com/consentio/tcf-consent-api/internal/system/database/model"
	"github.com/consentio/tcf-consent-api/internal/system/error/codes"
	"github.com/consentio/tcf-consent-api/internal/system/error/serviceerror"
	"github.com/consentio/tcf-consent-api/internal/system/log"
	"github.com/consentio/tcf-consent-api/internal/system/stores"
	"github.com/consentio/tcf-consent-api/internal/system/utils"
)

var errPublisherOverrideInvalid = serviceerror.ServiceError{
	Type:             serviceerror.ClientErrorType,
	Code:             codes.PublisherOverrideInvalid,
	Error:            "invalid_publisher_override",
	ErrorDescription: "The publisher override set is invalid",
}

// PublisherOverrideService defines the exported service interface for
// managing the deployment's publisher overrides.
type PublisherOverrideService interface {
	ListOverrides(ctx context.Context) ([]model.PublisherOverrideResponse, *serviceerror.ServiceError)
	ReplaceOverrides(ctx context.Context, requests []model.PublisherOverrideRequest) ([]model.PublisherOverrideResponse, *serviceerror.ServiceError)
}

// publisherOverrideService implements the PublisherOverrideService interface
type publisherOverrideService struct {
	stores   *stores.StoreRegistry
	lookup   gvl.Lookup
	onChange func()
	logger   *log.Logger
}

// newPublisherOverrideService creates a new publisher override service.
// onChange is invoked after every successful replacement so the caller can
// drop cached aggregation results.
func newPublisherOverrideService(registry *stores.StoreRegistry, lookup gvl.Lookup, onChange func()) PublisherOverrideService {
	return &publisherOverrideService{
		stores:   registry,
		lookup:   lookup,
		onChange: onChange,
		logger:   log.GetLogger().With(log.String(log.LoggerKeyComponentName, "PublisherOverrideService")),
	}
}

// ListOverrides returns all stored publisher overrides ordered by purpose
func (s *publisherOverrideService) ListOverrides(ctx context.Context) ([]model.PublisherOverrideResponse, *serviceerror.ServiceError) {
	overrideStore := s.stores.PublisherOverride.(PublisherOverrideStore)

	overrides, err := overrideStore.ListOverrides()
	if err != nil {
		s.logger.Error("Failed to list publisher overrides", log.Error(err))
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, "failed to list publisher overrides")
	}

	return toOverrideResponses(overrides), nil
}

// ReplaceOverrides replaces the full publisher override set in a single
// transaction and returns the stored entries.
func (s *publisherOverrideService) ReplaceOverrides(ctx context.Context, requests []model.PublisherOverrideRequest) ([]model.PublisherOverrideResponse, *serviceerror.ServiceError) {
	validPurposes := make(map[int]bool)
	for _, purpose := range s.lookup.Purposes() {
		validPurposes[purpose.ID] = true
	}
	if err := validator.ValidatePublisherOverrideRequests(requests, validPurposes); err != nil {
		return nil, serviceerror.CustomServiceError(errPublisherOverrideInvalid, err.Error())
	}

	overrideStore := s.stores.PublisherOverride.(PublisherOverrideStore)

	overrides := make([]model.PublisherOverride, 0, len(requests))
	for _, req := range requests {
		overrides = append(overrides, model.PublisherOverride{
			ID:                 utils.GenerateUUID(),
			Purpose:            req.Purpose,
			IsIncluded:         req.IsIncluded,
			RequiredLegalBasis: req.RequiredLegalBasis,
		})
	}

	queries := []func(tx dbmodel.TxInterface) error{
		func(tx dbmodel.TxInterface) error {
			return overrideStore.DeleteAllOverrides(tx)
		},
	}
	for i := range overrides {
		override := &overrides[i]
		queries = append(queries, func(tx dbmodel.TxInterface) error {
			return overrideStore.CreateOverride(tx, override)
		})
	}

	if err := s.stores.ExecuteTransaction(queries); err != nil {
		s.logger.Error("Failed to replace publisher overrides", log.Error(err))
		return nil, serviceerror.CustomServiceError(serviceerror.DatabaseError, "failed to replace publisher overrides")
	}

	s.logger.Info("Replaced publisher overrides", log.Int("count", len(overrides)))
	if s.onChange != nil {
		s.onChange()
	}

	return toOverrideResponses(overrides), nil
}

func toOverrideResponses(overrides []model.PublisherOverride) []model.PublisherOverrideResponse {
	responses := make([]model.PublisherOverrideResponse, 0, len(overrides))
	for _, override := range overrides {
		responses = append(responses, model.PublisherOverrideResponse{
			ID:                 override.ID,
			Purpose:            override.Purpose,
			IsIncluded:         override.IsIncluded,
			RequiredLegalBasis: override.RequiredLegalBasis,
		})
	}
	return responses
}
