package preferences

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/consentio/tcf-consent-api/internal/preferences/model"
	"github.com/consentio/tcf-consent-api/internal/system/utils"
)

// preferenceHandler handles consent preference HTTP requests
type preferenceHandler struct {
	service PreferenceService
}

func newPreferenceHandler(service PreferenceService) *preferenceHandler {
	return &preferenceHandler{
		service: service,
	}
}

// savePreferences handles POST /privacy-preferences
func (h *preferenceHandler) savePreferences(c *gin.Context) {
	var req model.SavePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "invalid request body")
		return
	}

	saved, svcErr := h.service.SavePrivacyPreferences(c.Request.Context(), req)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// recordNoticesServed handles POST /notices-served
func (h *preferenceHandler) recordNoticesServed(c *gin.Context) {
	var req model.NoticesServedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "invalid request body")
		return
	}

	served, svcErr := h.service.RecordNoticesServed(c.Request.Context(), req)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, served)
}

// getCurrentPreferences handles GET /privacy-preferences/current
func (h *preferenceHandler) getCurrentPreferences(c *gin.Context) {
	identityID := c.Query("identity_id")

	records, svcErr := h.service.GetCurrentPreferences(c.Request.Context(), identityID)
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, records)
}
