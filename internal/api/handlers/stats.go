package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jroosing/dnsfilter-dashboard/internal/api/models"
)

// Stats godoc
// @Summary Dashboard statistics
// @Description Returns the blocked domain count and the blocked, allowed and total query counts. All counts are zero while the store is unreachable.
// @Tags dashboard
// @Produce json
// @Success 200 {object} models.StatsResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /stats [get]
func (h *Handler) Stats(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("stats error", "error", fmt.Sprint(r))
			c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch statistics"})
		}
	}()

	s := h.reporter.Stats(c.Request.Context())
	c.JSON(http.StatusOK, models.StatsResponse{
		TotalBlockedDomains: s.TotalBlockedDomains,
		BlockedQueries:      s.BlockedQueries,
		AllowedQueries:      s.AllowedQueries,
		TotalQueries:        s.TotalQueries,
	})
}

// TopBlocked godoc
// @Summary Top blocked domains
// @Description Returns domains ranked by blocked query count, highest first. Ties are ordered by domain.
// @Tags dashboard
// @Produce json
// @Param limit query int false "Maximum number of results" default(10)
// @Success 200 {array} models.TopBlockedEntry
// @Router /top-blocked [get]
func (h *Handler) TopBlocked(c *gin.Context) {
	limit := h.queryLimit(c, h.cfg.Limits.TopBlocked)
	h.list(c, "top blocked", func() any {
		return toTopBlocked(h.reporter.TopBlocked(c.Request.Context(), limit))
	})
}

// Domains godoc
// @Summary Blocked domains
// @Description Returns the blocked domain list in ascending order.
// @Tags dashboard
// @Produce json
// @Param limit query int false "Maximum number of results" default(1000)
// @Success 200 {array} string
// @Router /domains [get]
func (h *Handler) Domains(c *gin.Context) {
	limit := h.queryLimit(c, h.cfg.Limits.Domains)
	h.list(c, "domains", func() any {
		domains := h.reporter.AllDomains(c.Request.Context(), limit)
		if domains == nil {
			domains = []string{}
		}
		return domains
	})
}

// list writes the result of fetch, or an empty array if fetch panics.
func (h *Handler) list(c *gin.Context, name string, fetch func() any) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error(name+" error", "error", fmt.Sprint(r))
			c.JSON(http.StatusOK, []any{})
		}
	}()

	c.JSON(http.StatusOK, fetch())
}
