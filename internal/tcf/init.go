package tcf

import (
	"github.com/gin-gonic/gin"

	"github.com/consentio/tcf-consent-api/internal/declarations"
	"github.com/consentio/tcf-consent-api/internal/gvl"
)

// Initialize sets up the TCF experience module and registers its routes.
// The cache is created by the caller so other modules can invalidate it
// when the underlying declaration data changes.
func Initialize(v1 *gin.RouterGroup, source declarations.Source, lookup gvl.Lookup, cache *ContentsCache) TCFService {
	service := newTCFService(source, lookup, cache)
	handler := newTCFHandler(service)

	v1.GET("/tcf/experience", handler.getExperience)
	v1.POST("/tcf/experience/refresh", handler.refreshExperience)

	return service
}
