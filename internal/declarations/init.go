package declarations

import (
	"github.com/gin-gonic/gin"

	"github.com/consentio/tcf-consent-api/internal/gvl"
	"github.com/consentio/tcf-consent-api/internal/system/database/provider"
	"github.com/consentio/tcf-consent-api/internal/system/stores"
)

// NewStore creates and returns a new declaration store (exported for registry)
func NewStore(dbClient provider.DBClientInterface) interface{} {
	return newDeclarationStore(dbClient)
}

// NewOverrideStore creates and returns a new publisher override store
// (exported for registry)
func NewOverrideStore(dbClient provider.DBClientInterface) interface{} {
	return newPublisherOverrideStore(dbClient)
}

// Initialize sets up the declarations module, registers the publisher
// override routes, and returns the declaration source used by aggregation.
// onOverrideChange is called after every successful override replacement.
func Initialize(v1 *gin.RouterGroup, registry *stores.StoreRegistry, lookup gvl.Lookup, onOverrideChange func()) Source {
	service := newPublisherOverrideService(registry, lookup, onOverrideChange)
	handler := newPublisherOverrideHandler(service)

	v1.GET("/tcf/publisher-overrides", handler.getPublisherOverrides)
	v1.PUT("/tcf/publisher-overrides", handler.putPublisherOverrides)

	return NewSource(registry, lookup)
}
