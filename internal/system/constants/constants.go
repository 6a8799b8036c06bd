package constants

const (
	// CorrelationIDHeaderName is the response header carrying the request
	// correlation ID.
	CorrelationIDHeaderName = "X-Correlation-ID"

	// APIBasePath is the prefix for all versioned API routes.
	APIBasePath = "/api/v1"
)
