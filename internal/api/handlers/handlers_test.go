// Package handlers_test provides behavior tests for the API handlers package.
package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jroosing/dnsfilter-dashboard/internal/api/handlers"
	"github.com/jroosing/dnsfilter-dashboard/internal/api/models"
	"github.com/jroosing/dnsfilter-dashboard/internal/config"
	"github.com/jroosing/dnsfilter-dashboard/internal/database"
	"github.com/jroosing/dnsfilter-dashboard/internal/logging"
	"github.com/jroosing/dnsfilter-dashboard/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func createTestHandler(_ *testing.T, rep *fakeReporter) *handlers.Handler {
	cfg := config.Default()
	return handlers.New(&cfg, rep, logging.Discard())
}

func performRequest(r http.Handler, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ============================================================================
// Constructor Tests
// ============================================================================

func TestNew_PanicsOnNilDependencies(t *testing.T) {
	cfg := config.Default()
	assert.Panics(t, func() { handlers.New(nil, &fakeReporter{}, nil) })
	assert.Panics(t, func() { handlers.New(&cfg, nil, nil) })
}

// ============================================================================
// Stats Endpoint Tests
// ============================================================================

func TestStats_ReturnsSnapshot(t *testing.T) {
	rep := &fakeReporter{stats: report.StatsSnapshot{
		TotalBlockedDomains: 3,
		BlockedQueries:      2,
		AllowedQueries:      5,
		TotalQueries:        7,
	}}
	router := setupTestRouter(createTestHandler(t, rep))

	w := performRequest(router, http.MethodGet, "/api/stats")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"total_blocked_domains":3,"blocked_queries":2,"allowed_queries":5,"total_queries":7}`, w.Body.String())
}

func TestStats_ZeroSnapshot(t *testing.T) {
	router := setupTestRouter(createTestHandler(t, &fakeReporter{}))

	w := performRequest(router, http.MethodGet, "/api/stats")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"total_blocked_domains":0,"blocked_queries":0,"allowed_queries":0,"total_queries":0}`, w.Body.String())
}

func TestStats_PanicReturns500(t *testing.T) {
	router := setupTestRouter(createTestHandler(t, &fakeReporter{panics: true}))

	w := performRequest(router, http.MethodGet, "/api/stats")

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to fetch statistics", resp.Error)
}

// ============================================================================
// List Endpoint Tests
// ============================================================================

func TestTopBlocked_ReturnsRanking(t *testing.T) {
	rep := &fakeReporter{top: []database.DomainCount{
		{Domain: "ads.example", Count: 2},
		{Domain: "tracker.example", Count: 1},
	}}
	router := setupTestRouter(createTestHandler(t, rep))

	w := performRequest(router, http.MethodGet, "/api/top-blocked")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"domain":"ads.example","count":2},{"domain":"tracker.example","count":1}]`, w.Body.String())
	assert.Equal(t, 10, rep.lastLimit)
}

func TestTopBlocked_EmptyIsArray(t *testing.T) {
	router := setupTestRouter(createTestHandler(t, &fakeReporter{}))

	w := performRequest(router, http.MethodGet, "/api/top-blocked")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestTopBlocked_PanicReturnsEmptyArray(t *testing.T) {
	router := setupTestRouter(createTestHandler(t, &fakeReporter{panics: true}))

	w := performRequest(router, http.MethodGet, "/api/top-blocked")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestLimitParsing(t *testing.T) {
	tests := []struct {
		name string
		path string
		want int
	}{
		{name: "top-blocked default", path: "/api/top-blocked", want: 10},
		{name: "top-blocked explicit", path: "/api/top-blocked?limit=3", want: 3},
		{name: "top-blocked non-numeric", path: "/api/top-blocked?limit=abc", want: 10},
		{name: "top-blocked zero", path: "/api/top-blocked?limit=0", want: 10},
		{name: "blocked logs default", path: "/api/logs/blocked", want: 100},
		{name: "blocked logs negative", path: "/api/logs/blocked?limit=-4", want: 100},
		{name: "allowed logs explicit", path: "/api/logs/allowed?limit=5", want: 5},
		{name: "domains default", path: "/api/domains", want: 1000},
		{name: "domains clamped", path: "/api/domains?limit=999999", want: 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := &fakeReporter{}
			router := setupTestRouter(createTestHandler(t, rep))

			w := performRequest(router, http.MethodGet, tt.path)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, rep.lastLimit)
		})
	}
}

func TestLogs_MapsRecords(t *testing.T) {
	rt := 3.25
	rep := &fakeReporter{
		blocked: []database.QueryLog{{
			Timestamp:    "2024-05-01 10:00:00",
			ClientIP:     "192.168.1.10",
			Domain:       "ads.example",
			QueryType:    "A",
			Action:       database.ActionBlocked,
			ResponseTime: &rt,
		}},
		allowed: []database.QueryLog{{Domain: "example.com", Action: database.ActionAllowed}},
	}
	router := setupTestRouter(createTestHandler(t, rep))

	w := performRequest(router, http.MethodGet, "/api/logs/blocked")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{
		"timestamp": "2024-05-01 10:00:00",
		"client_ip": "192.168.1.10",
		"domain": "ads.example",
		"query_type": "A",
		"action": "blocked",
		"response_time": 3.25
	}]`, w.Body.String())

	w = performRequest(router, http.MethodGet, "/api/logs/allowed")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"domain":"example.com","action":"allowed"}]`, w.Body.String())
}

func TestDomains_ReturnsList(t *testing.T) {
	rep := &fakeReporter{domains: []string{"ads.example", "tracker.example"}}
	router := setupTestRouter(createTestHandler(t, rep))

	w := performRequest(router, http.MethodGet, "/api/domains?limit=2")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["ads.example","tracker.example"]`, w.Body.String())
	assert.Equal(t, 2, rep.lastLimit)
}

func TestDomains_PanicReturnsEmptyArray(t *testing.T) {
	router := setupTestRouter(createTestHandler(t, &fakeReporter{panics: true}))

	w := performRequest(router, http.MethodGet, "/api/domains")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}
