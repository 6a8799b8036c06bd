package declarations

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/consentio/tcf-consent-api/internal/declarations/model"
	"github.com/consentio/tcf-consent-api/internal/system/utils"
)

// publisherOverrideHandler handles publisher override HTTP requests
type publisherOverrideHandler struct {
	service PublisherOverrideService
}

func newPublisherOverrideHandler(service PublisherOverrideService) *publisherOverrideHandler {
	return &publisherOverrideHandler{
		service: service,
	}
}

// getPublisherOverrides handles GET /tcf/publisher-overrides
func (h *publisherOverrideHandler) getPublisherOverrides(c *gin.Context) {
	overrides, svcErr := h.service.ListOverrides(c.Request.Context())
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, overrides)
}

// putPublisherOverrides handles PUT /tcf/publisher-overrides
func (h *publisherOverrideHandler) putPublisherOverrides(c *gin.Context) {
	var requests []model.PublisherOverrideRequest
	if err := c.ShouldBindJSON(&requests); err != nil {
		utils.SendValidationError(c, "request body must be a JSON array of publisher overrides")
		return
	}

	overrides, svcErr := h.service.ReplaceOverrides(c.Request.Context(), requests)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, overrides)
}
