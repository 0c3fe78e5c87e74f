package handlers

import (
	"github.com/gin-gonic/gin"
)

// BlockedLogs godoc
// @Summary Recent blocked queries
// @Description Returns the most recent blocked queries, newest first.
// @Tags logs
// @Produce json
// @Param limit query int false "Maximum number of results" default(100)
// @Success 200 {array} models.QueryLogEntry
// @Router /logs/blocked [get]
func (h *Handler) BlockedLogs(c *gin.Context) {
	limit := h.queryLimit(c, h.cfg.Limits.Logs)
	h.list(c, "blocked logs", func() any {
		return toQueryLogs(h.reporter.BlockedLogs(c.Request.Context(), limit))
	})
}

// AllowedLogs godoc
// @Summary Recent allowed queries
// @Description Returns the most recent allowed queries, newest first.
// @Tags logs
// @Produce json
// @Param limit query int false "Maximum number of results" default(100)
// @Success 200 {array} models.QueryLogEntry
// @Router /logs/allowed [get]
func (h *Handler) AllowedLogs(c *gin.Context) {
	limit := h.queryLimit(c, h.cfg.Limits.Logs)
	h.list(c, "allowed logs", func() any {
		return toQueryLogs(h.reporter.AllowedLogs(c.Request.Context(), limit))
	})
}
