// Package handlers implements the HTTP surface for deployment and
// authentication requests.
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
)

// timestamp returns the RFC3339 timestamp carried on every response body.
func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// respondError writes the shared JSON error envelope:
// {error, code, details?, errorType, timestamp}.
func respondError(c *gin.Context, status int, code, message, details, errorType string) {
	body := gin.H{
		"error":     message,
		"code":      code,
		"errorType": errorType,
		"timestamp": timestamp(),
	}
	if details != "" {
		body["details"] = details
	}
	c.JSON(status, body)
}
