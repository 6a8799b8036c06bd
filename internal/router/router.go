package router

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/consentio/tcf-consent-api/internal/declarations"
	"github.com/consentio/tcf-consent-api/internal/gvl"
	"github.com/consentio/tcf-consent-api/internal/preferences"
	"github.com/consentio/tcf-consent-api/internal/system/config"
	"github.com/consentio/tcf-consent-api/internal/system/constants"
	"github.com/consentio/tcf-consent-api/internal/system/middleware"
	"github.com/consentio/tcf-consent-api/internal/system/stores"
	"github.com/consentio/tcf-consent-api/internal/tcf"
)

// SetupRouter configures all API routes and wires the feature modules
// together. The experience cache is created here so the publisher override
// module can invalidate it when overrides change.
func SetupRouter(registry *stores.StoreRegistry) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CorrelationIDMiddleware())

	cfg := config.Get()
	if cfg.CORS.Enabled {
		router.Use(middleware.CORSMiddleware(middleware.CORSOptions{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   strings.Join(cfg.CORS.AllowedMethods, ", "),
			AllowedHeaders:   strings.Join(cfg.CORS.AllowedHeaders, ", "),
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAgeSeconds:    cfg.CORS.MaxAge,
		}))
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	// API v1 routes
	v1 := router.Group(constants.APIBasePath)

	lookup := gvl.Default()
	cache := tcf.NewContentsCache()

	source := declarations.Initialize(v1, registry, lookup, cache.Invalidate)
	tcf.Initialize(v1, source, lookup, cache)
	preferences.Initialize(v1, registry)

	return router
}
