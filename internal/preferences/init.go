package preferences

import (
	"github.com/gin-gonic/gin"

	"github.com/consentio/tcf-consent-api/internal/system/database/provider"
	"github.com/consentio/tcf-consent-api/internal/system/stores"
)

// NewStore creates and returns a new preference store (exported for registry)
func NewStore(dbClient provider.DBClientInterface) interface{} {
	return newPreferenceStore(dbClient)
}

// Initialize sets up the preferences module and registers its routes
func Initialize(v1 *gin.RouterGroup, registry *stores.StoreRegistry) PreferenceService {
	service := newPreferenceService(registry)
	handler := newPreferenceHandler(service)

	v1.POST("/privacy-preferences", handler.savePreferences)
	v1.GET("/privacy-preferences/current", handler.getCurrentPreferences)
	v1.POST("/notices-served", handler.recordNoticesServed)

	return service
}
