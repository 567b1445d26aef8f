package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mixd/internal/models"
)

func TestHealth_ReturnsStoreStats(t *testing.T) {
	store := &mockStore{combos: []models.Combo{
		{ID: "c1", Votes: 3},
		{ID: "c2", Votes: 4},
	}}
	hc := NewHealthController(store)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	hc.Health(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "brand-mixologist", body["service"])
	assert.Equal(t, float64(2), body["combos_count"])
	assert.Equal(t, float64(7), body["total_votes"])
	assert.GreaterOrEqual(t, body["uptime_seconds"], float64(0))
}

func TestHealth_RejectsPost(t *testing.T) {
	hc := NewHealthController(&mockStore{})

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rr := httptest.NewRecorder()
	hc.Health(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{0, "0h0m0s"},
		{90 * time.Second, "0h1m30s"},
		{time.Hour + 5*time.Minute + 9*time.Second, "1h5m9s"},
		{25 * time.Hour, "25h0m0s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatDuration(tt.d))
	}
}
