package middleware

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jroosing/dnsfilter-dashboard/internal/api/models"
)

// Recovery turns a panic anywhere in the chain into 500 {"error":"Internal server error"}.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, err any) {
		if logger != nil {
			logger.Error("server error",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", fmt.Sprint(err),
			)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	})
}

// NotFound answers unmatched routes with 404 {"error":"Endpoint not found"}.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Endpoint not found"})
	}
}
