// Package handlers implements the REST API endpoint handlers for the DNS filter dashboard.
//
// REST API Endpoints:
//
// Dashboard data:
//   - GET /api/stats - Headline counts (blocked domains, blocked/allowed/total queries)
//   - GET /api/top-blocked - Most frequently blocked domains
//   - GET /api/logs/blocked - Most recent blocked queries
//   - GET /api/logs/allowed - Most recent allowed queries
//   - GET /api/domains - Blocked domain list
//
// System:
//   - GET /api/health - Store reachability and process runtime figures
//
// Every read endpoint answers 200 even while the store is down; the data
// endpoints then return zeroed counts or empty lists. Use /api/health to tell
// an outage apart from an empty store.
//
// @title DNS Filter Dashboard API
// @version 1.0
// @description Read-only REST API over the statistics and query logs written by the DNS filtering engine.
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @BasePath /api
package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jroosing/dnsfilter-dashboard/internal/api/models"
	"github.com/jroosing/dnsfilter-dashboard/internal/config"
	"github.com/jroosing/dnsfilter-dashboard/internal/database"
	"github.com/jroosing/dnsfilter-dashboard/internal/helpers"
	"github.com/jroosing/dnsfilter-dashboard/internal/report"
)

// Reporter is the data source behind the handlers. *report.Reporter implements it.
type Reporter interface {
	Stats(ctx context.Context) report.StatsSnapshot
	TopBlocked(ctx context.Context, limit int) []database.DomainCount
	BlockedLogs(ctx context.Context, limit int) []database.QueryLog
	AllowedLogs(ctx context.Context, limit int) []database.QueryLog
	AllDomains(ctx context.Context, limit int) []string
	Healthy(ctx context.Context) error
}

var _ Reporter = (*report.Reporter)(nil)

// Handler contains dependencies for API handlers.
type Handler struct {
	cfg       *config.Config
	reporter  Reporter
	logger    *slog.Logger
	startTime time.Time
}

// New creates a new Handler serving data from reporter.
func New(cfg *config.Config, reporter Reporter, logger *slog.Logger) *Handler {
	if cfg == nil {
		panic("handlers.New: cfg is nil")
	}
	if reporter == nil {
		panic("handlers.New: reporter is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		cfg:       cfg,
		reporter:  reporter,
		logger:    logger,
		startTime: time.Now(),
	}
}

// queryLimit reads the "limit" query parameter.
//
// A missing, non-numeric or non-positive value falls back to def. Values above
// the configured ceiling are clamped to it.
func (h *Handler) queryLimit(c *gin.Context, def int) int {
	return helpers.ParseLimit(c.Query("limit"), def, h.cfg.Limits.Max)
}

func toTopBlocked(rows []database.DomainCount) []models.TopBlockedEntry {
	out := make([]models.TopBlockedEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.TopBlockedEntry{Domain: r.Domain, Count: r.Count})
	}
	return out
}

func toQueryLogs(rows []database.QueryLog) []models.QueryLogEntry {
	out := make([]models.QueryLogEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.QueryLogEntry{
			Timestamp:    r.Timestamp,
			ClientIP:     r.ClientIP,
			Domain:       r.Domain,
			QueryType:    r.QueryType,
			Action:       string(r.Action),
			ResponseTime: r.ResponseTime,
		})
	}
	return out
}
