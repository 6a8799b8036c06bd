package tcf

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/consentio/tcf-consent-api/internal/system/utils"
)

// tcfHandler handles TCF experience HTTP requests
type tcfHandler struct {
	service TCFService
}

func newTCFHandler(service TCFService) *tcfHandler {
	return &tcfHandler{
		service: service,
	}
}

// getExperience handles GET /tcf/experience
func (h *tcfHandler) getExperience(c *gin.Context) {
	contents, svcErr := h.service.GetExperience(c.Request.Context())
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, contents)
}

// refreshExperience handles POST /tcf/experience/refresh
func (h *tcfHandler) refreshExperience(c *gin.Context) {
	contents, svcErr := h.service.RefreshExperience(c.Request.Context())
	if svcErr != nil {
		utils.SendError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, contents)
}
