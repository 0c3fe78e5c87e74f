// Package middleware provides HTTP middleware for the dashboard REST API:
// response headers, panic recovery, request logging and metrics.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const jsonContentType = "application/json; charset=utf-8"

// APIHeaders marks every response under prefix as JSON readable from any origin.
// The headers are set before the handler runs, so they survive aborts and panics.
func APIHeaders(prefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, prefix) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Content-Type", jsonContentType)
		}
		c.Next()
	}
}
