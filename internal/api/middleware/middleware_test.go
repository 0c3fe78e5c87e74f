// Package middleware_test provides behavior tests for the API middleware package.
package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jroosing/dnsfilter-dashboard/internal/api/middleware"
	"github.com/jroosing/dnsfilter-dashboard/internal/metrics"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(r http.Handler, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ============================================================================
// APIHeaders Middleware Tests
// ============================================================================

func TestAPIHeaders_SetOnAPIRoutes(t *testing.T) {
	router := gin.New()
	router.Use(middleware.APIHeaders("/api"))
	router.GET("/api/test", func(c *gin.Context) {
		c.String(http.StatusOK, "raw")
	})

	w := performRequest(router, http.MethodGet, "/api/test")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
}

func TestAPIHeaders_SkipsOtherRoutes(t *testing.T) {
	router := gin.New()
	router.Use(middleware.APIHeaders("/api"))
	router.GET("/metrics", func(c *gin.Context) {
		c.String(http.StatusOK, "raw")
	})

	w := performRequest(router, http.MethodGet, "/metrics")

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
}

func TestAPIHeaders_SurviveAbort(t *testing.T) {
	router := gin.New()
	router.Use(middleware.APIHeaders("/api"))
	router.GET("/api/test", func(c *gin.Context) {
		c.AbortWithStatus(http.StatusTeapot)
	})

	w := performRequest(router, http.MethodGet, "/api/test")

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

// ============================================================================
// Recovery and NotFound Tests
// ============================================================================

func TestRecovery_PanicReturns500(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.APIHeaders("/api"))
	router.GET("/api/boom", func(_ *gin.Context) {
		panic("boom")
	})

	w := performRequest(router, http.MethodGet, "/api/boom")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, buf.String(), `"error":"boom"`)
}

func TestRecovery_NilLogger(t *testing.T) {
	router := gin.New()
	router.Use(middleware.Recovery(nil))
	router.GET("/boom", func(_ *gin.Context) {
		panic("boom")
	})

	w := performRequest(router, http.MethodGet, "/boom")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestNotFound(t *testing.T) {
	router := gin.New()
	router.NoRoute(middleware.NotFound())

	w := performRequest(router, http.MethodGet, "/api/nope")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Endpoint not found"}`, w.Body.String())
}

// ============================================================================
// SlogRequestLogger Middleware Tests
// ============================================================================

func TestSlogRequestLogger_NilLogger(t *testing.T) {
	router := gin.New()
	router.Use(middleware.SlogRequestLogger(nil))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := performRequest(router, http.MethodGet, "/test")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSlogRequestLogger_Levels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusNotFound, "WARN"},
		{http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			router := gin.New()
			router.Use(middleware.SlogRequestLogger(logger))
			router.GET("/test", func(c *gin.Context) {
				c.Status(tt.status)
			})

			performRequest(router, http.MethodGet, "/test?limit=5")

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, "api request", entry["msg"])
			assert.Equal(t, "/test", entry["path"])
			assert.Equal(t, "limit=5", entry["query"])
			assert.InDelta(t, float64(tt.status), entry["status"], 0)
		})
	}
}

// ============================================================================
// Metrics Middleware Tests
// ============================================================================

func requestCount(t *testing.T, method, route, status string) float64 {
	t.Helper()

	var m dto.Metric
	require.NoError(t, metrics.HTTPRequests.WithLabelValues(method, route, status).Write(&m))
	return m.GetCounter().GetValue()
}

func TestMetrics_CountsByRouteTemplate(t *testing.T) {
	router := gin.New()
	router.Use(middleware.Metrics())
	router.GET("/items/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.NoRoute(middleware.NotFound())

	before := requestCount(t, http.MethodGet, "/items/:id", "200")
	beforeUnmatched := requestCount(t, http.MethodGet, "unmatched", "404")

	performRequest(router, http.MethodGet, "/items/1")
	performRequest(router, http.MethodGet, "/items/2")
	performRequest(router, http.MethodGet, "/nowhere")

	assert.InDelta(t, before+2, requestCount(t, http.MethodGet, "/items/:id", "200"), 0)
	assert.InDelta(t, beforeUnmatched+1, requestCount(t, http.MethodGet, "unmatched", "404"), 0)
}
