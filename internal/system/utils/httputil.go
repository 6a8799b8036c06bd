package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/consentio/tcf-consent-api/internal/system/error/apierror"
	"github.com/consentio/tcf-consent-api/internal/system/error/codes"
	"github.com/consentio/tcf-consent-api/internal/system/error/serviceerror"
)

// SendError writes a ServiceError as an HTTP response with the status code
// implied by its error code.
func SendError(c *gin.Context, err *serviceerror.ServiceError) {
	statusCode := http.StatusInternalServerError
	if err.Type == serviceerror.ClientErrorType {
		switch err.Code {
		case codes.ResourceNotFound:
			statusCode = http.StatusNotFound
		case codes.ConflictError, codes.CurrentRecordConflict:
			statusCode = http.StatusConflict
		default:
			statusCode = http.StatusBadRequest
		}
	}

	c.JSON(statusCode, apierror.ErrorResponse{
		Code:        err.Error,
		Description: err.ErrorDescription,
	})
}

// SendValidationError writes a 400 response with a validation error body
func SendValidationError(c *gin.Context, description string) {
	c.JSON(http.StatusBadRequest, apierror.ErrorResponse{
		Code:        "validation_error",
		Description: description,
	})
}
