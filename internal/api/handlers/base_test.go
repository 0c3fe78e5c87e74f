package handlers_test

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/jroosing/dnsfilter-dashboard/internal/api/handlers"
	"github.com/jroosing/dnsfilter-dashboard/internal/database"
	"github.com/jroosing/dnsfilter-dashboard/internal/report"
)

var errUnreachable = errors.New("connection refused")

// fakeReporter records the limits it is asked for and returns canned data.
type fakeReporter struct {
	stats   report.StatsSnapshot
	top     []database.DomainCount
	blocked []database.QueryLog
	allowed []database.QueryLog
	domains []string
	health  error
	panics  bool

	lastLimit int
}

func (f *fakeReporter) Stats(context.Context) report.StatsSnapshot {
	if f.panics {
		panic("stats exploded")
	}
	return f.stats
}

func (f *fakeReporter) TopBlocked(_ context.Context, limit int) []database.DomainCount {
	f.lastLimit = limit
	if f.panics {
		panic("top blocked exploded")
	}
	return f.top
}

func (f *fakeReporter) BlockedLogs(_ context.Context, limit int) []database.QueryLog {
	f.lastLimit = limit
	return f.blocked
}

func (f *fakeReporter) AllowedLogs(_ context.Context, limit int) []database.QueryLog {
	f.lastLimit = limit
	return f.allowed
}

func (f *fakeReporter) AllDomains(_ context.Context, limit int) []string {
	f.lastLimit = limit
	if f.panics {
		panic("domains exploded")
	}
	return f.domains
}

func (f *fakeReporter) Healthy(context.Context) error {
	return f.health
}

func setupTestRouter(h *handlers.Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	api := r.Group("/api")
	api.GET("/stats", h.Stats)
	api.GET("/top-blocked", h.TopBlocked)
	api.GET("/logs/blocked", h.BlockedLogs)
	api.GET("/logs/allowed", h.AllowedLogs)
	api.GET("/domains", h.Domains)
	api.GET("/health", h.Health)

	return r
}
