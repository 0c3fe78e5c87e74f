package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/jroosing/dnsfilter-dashboard/internal/api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth_Reachable(t *testing.T) {
	router := setupTestRouter(createTestHandler(t, &fakeReporter{}))

	w := performRequest(router, http.MethodGet, "/api/health")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "reachable", resp.Store)
	assert.Equal(t, "mongodb", resp.Driver)
	assert.NotEmpty(t, resp.Uptime)
	assert.GreaterOrEqual(t, resp.GoRoutines, 1)
	assert.Positive(t, resp.NumCPU)
}

func TestHealth_Unreachable(t *testing.T) {
	router := setupTestRouter(createTestHandler(t, &fakeReporter{health: errUnreachable}))

	w := performRequest(router, http.MethodGet, "/api/health")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "unreachable", resp.Store)
}
