package tcf

import (
	"context"

	"github.com/consentio/tcf-consent-api/internal/declarations"
	"github.com/consentio/tcf-consent-api/internal/gvl"
	"github.com/consentio/tcf-consent-api/internal/system/config"
	"github.com/consentio/tcf-consent-api/internal/system/error/codes"
	"github.com/consentio/tcf-consent-api/internal/system/error/serviceerror"
	"github.com/consentio/tcf-consent-api/internal/system/log"
	"github.com/consentio/tcf-consent-api/internal/tcf/model"
)

var errExperienceBuildFailed = serviceerror.ServiceError{
	Type:             serviceerror.ServerErrorType,
	Code:             codes.ExperienceBuildFailed,
	Error:            "experience_build_failed",
	ErrorDescription: "Failed to build the TCF experience contents",
}

// TCFService defines the exported service interface for the aggregated
// TCF experience.
type TCFService interface {
	GetExperience(ctx context.Context) (*model.TCFExperienceContents, *serviceerror.ServiceError)
	RefreshExperience(ctx context.Context) (*model.TCFExperienceContents, *serviceerror.ServiceError)
}

// tcfService implements the TCFService interface
type tcfService struct {
	source declarations.Source
	lookup gvl.Lookup
	cache  *ContentsCache
	logger *log.Logger
}

// newTCFService creates a new TCF experience service
func newTCFService(source declarations.Source, lookup gvl.Lookup, cache *ContentsCache) TCFService {
	return &tcfService{
		source: source,
		lookup: lookup,
		cache:  cache,
		logger: log.GetLogger().With(log.String(log.LoggerKeyComponentName, "TCFService")),
	}
}

// GetExperience returns the aggregated experience contents, serving from
// the cache when enabled and populated.
func (s *tcfService) GetExperience(ctx context.Context) (*model.TCFExperienceContents, *serviceerror.ServiceError) {
	cacheEnabled := config.Get().TCF.CacheEnabled
	if cacheEnabled {
		if contents, ok := s.cache.Get(); ok {
			return contents, nil
		}
	}

	contents, err := BuildExperienceContents(ctx, s.source, s.lookup)
	if err != nil {
		s.logger.Error("Failed to build experience contents", log.Error(err))
		return nil, serviceerror.CustomServiceError(errExperienceBuildFailed, err.Error())
	}

	if cacheEnabled {
		s.cache.Set(contents)
	}
	s.logger.Debug("Built experience contents",
		log.Int("vendors", len(contents.TCFVendors)),
		log.Int("systems", len(contents.TCFSystems)))
	return contents, nil
}

// RefreshExperience drops any cached contents and rebuilds them.
func (s *tcfService) RefreshExperience(ctx context.Context) (*model.TCFExperienceContents, *serviceerror.ServiceError) {
	s.cache.Invalidate()
	return s.GetExperience(ctx)
}
