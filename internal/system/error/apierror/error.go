// Package apierror defines the error body returned on API failures.
package apierror

// ErrorResponse is the JSON error payload. Code is the short snake_case
// error name, not the CSE code.
type ErrorResponse struct {
	Code        string `json:"error"`
	Description string `json:"error_description"`
}
