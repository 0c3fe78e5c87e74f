package handlers

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jroosing/dnsfilter-dashboard/internal/api/models"
	"github.com/jroosing/dnsfilter-dashboard/internal/helpers"
	"github.com/shirou/gopsutil/v3/process"
)

const healthTimeout = 3 * time.Second

// Health godoc
// @Summary Health check
// @Description Reports whether the store is reachable, along with process runtime figures
// @Tags system
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	uptime := time.Since(h.startTime)

	resp := models.HealthResponse{
		Status:        "ok",
		Store:         "reachable",
		Driver:        h.cfg.Database.Driver,
		Uptime:        uptime.Round(time.Second).String(),
		UptimeSeconds: int64(uptime.Seconds()),
		StartTime:     h.startTime,
		GoRoutines:    runtime.NumGoroutine(),
		MemoryAllocMB: float64(m.Alloc) / 1024 / 1024,
		RSSMB:         residentMB(),
		NumCPU:        runtime.NumCPU(),
	}

	code := http.StatusOK
	if err := h.reporter.Healthy(ctx); err != nil {
		h.logger.Warn("store health check failed", "error", err)
		resp.Status = "degraded"
		resp.Store = "unreachable"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, resp)
}

// residentMB returns the resident set size of this process, or 0 if unavailable.
func residentMB() float64 {
	p, err := process.NewProcess(helpers.ClampIntToInt32(os.Getpid()))
	if err != nil {
		return 0
	}
	mi, err := p.MemoryInfo()
	if err != nil || mi == nil {
		return 0
	}
	return float64(mi.RSS) / 1024 / 1024
}
