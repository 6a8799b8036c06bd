package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// CORSOptions configures the CORS middleware. Method and header lists are
// pre-joined strings since they go out verbatim as header values.
type CORSOptions struct {
	AllowedOrigins   []string
	AllowedMethods   string
	AllowedHeaders   string
	AllowCredentials bool
	MaxAgeSeconds    int
}

// CORSMiddleware writes CORS headers for allowed origins and short-circuits
// preflight requests.
func CORSMiddleware(opts CORSOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && isOriginAllowed(origin, opts.AllowedOrigins) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", opts.AllowedMethods)
			c.Header("Access-Control-Allow-Headers", opts.AllowedHeaders)
			if opts.AllowCredentials {
				c.Header("Access-Control-Allow-Credentials", "true")
			}
			if opts.MaxAgeSeconds > 0 {
				c.Header("Access-Control-Max-Age", strconv.Itoa(opts.MaxAgeSeconds))
			}
			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
		}
		c.Next()
	}
}

func isOriginAllowed(origin string, allowedOrigins []string) bool {
	for _, allowed := range allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
