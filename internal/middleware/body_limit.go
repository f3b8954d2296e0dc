package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// BodySizeLimit caps the request body size. Deploy payloads carry whole
// page trees, so the cap is per-route rather than global.
func BodySizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet ||
			c.Request.Method == http.MethodHead ||
			c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error":     "Request body too large",
				"code":      "PAYLOAD_TOO_LARGE",
				"errorType": "ValidationError",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// DeployBodyLimit allows 10MB for page-content payloads.
func DeployBodyLimit() gin.HandlerFunc {
	return BodySizeLimit(10 << 20)
}

// AuthBodyLimit allows 64KB for credential payloads.
func AuthBodyLimit() gin.HandlerFunc {
	return BodySizeLimit(64 << 10)
}
