package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

var devOrigins = []string{
	"http://localhost:4200",
	"http://127.0.0.1:4200",
}

// AllowedOrigins is the Angular dev server origins plus extra, which is
// usually CORS_ALLOWED_ORIGINS.
func AllowedOrigins(extra []string) []string {
	out := append([]string{}, devOrigins...)
	for _, o := range extra {
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

// CORS reflects allowed origins.
func CORS(extra []string) gin.HandlerFunc {
	allowedOrigins := map[string]bool{}
	for _, o := range AllowedOrigins(extra) {
		allowedOrigins[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		if origin != "" && allowedOrigins[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, Content-Length, Authorization, Accept, Origin, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods",
			"GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Max-Age", "600")

		// Preflight must finish before auth middleware runs.
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
