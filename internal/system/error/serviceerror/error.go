package serviceerror

import "github.com/consentio/tcf-consent-api/internal/system/error/codes"

// ServiceErrorType distinguishes caller mistakes from server-side failures.
type ServiceErrorType string

const (
	ClientErrorType ServiceErrorType = "client_error"
	ServerErrorType ServiceErrorType = "server_error"
)

// ServiceError is the error shape services return to handlers. Code carries
// the stable machine-readable identifier; Error is the short snake_case
// name exposed in HTTP responses.
type ServiceError struct {
	Code             string           `json:"code"`
	Type             ServiceErrorType `json:"type"`
	Error            string           `json:"error"`
	ErrorDescription string           `json:"error_description,omitempty"`
}

// Shared base errors. Feature packages define their own specific errors and
// fall back to these for infrastructure failures.
var (
	DatabaseError = ServiceError{
		Type:             ServerErrorType,
		Code:             codes.DatabaseError,
		Error:            "database_error",
		ErrorDescription: "A database error occurred",
	}

	ResourceNotFoundError = ServiceError{
		Type:             ClientErrorType,
		Code:             codes.ResourceNotFound,
		Error:            "resource_not_found",
		ErrorDescription: "Resource not found",
	}

	ConflictError = ServiceError{
		Type:             ClientErrorType,
		Code:             codes.ConflictError,
		Error:            "conflict",
		ErrorDescription: "Request conflicts with current state",
	}
)

// CustomServiceError returns a copy of the base error carrying a
// request-specific description.
func CustomServiceError(baseError ServiceError, description string) *ServiceError {
	return &ServiceError{
		Type:             baseError.Type,
		Code:             baseError.Code,
		Error:            baseError.Error,
		ErrorDescription: description,
	}
}
