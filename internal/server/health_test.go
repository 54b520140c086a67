package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServerContext(t *testing.T, opts Options) *ServerContext {
	t.Helper()
	sc, err := NewServerContext(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func serve(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthChecker_Liveness(t *testing.T) {
	h := NewHealthChecker(nil)
	h.SetReady(false)

	rec := serve(t, h.LivenessHandler(), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestHealthChecker_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		shutdown   bool
		wantCode   int
		wantChecks map[string]string
	}{
		{
			name:     "ready",
			ready:    true,
			wantCode: http.StatusOK,
			wantChecks: map[string]string{
				"ready":    "ok",
				"shutdown": "ok",
				"schedule": "ok",
			},
		},
		{
			name:     "not ready",
			ready:    false,
			wantCode: http.StatusServiceUnavailable,
			wantChecks: map[string]string{
				"ready":    "not ready",
				"shutdown": "ok",
				"schedule": "ok",
			},
		},
		{
			name:     "shutting down",
			ready:    true,
			shutdown: true,
			wantCode: http.StatusServiceUnavailable,
			wantChecks: map[string]string{
				"ready":    "ok",
				"shutdown": "shutting down",
				"schedule": "ok",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newTestServerContext(t, Options{})
			if tt.shutdown {
				require.NoError(t, sc.Shutdown())
			}
			h := NewHealthChecker(sc)
			h.SetReady(tt.ready)

			rec := serve(t, h.ReadinessHandler(), "/readyz")
			assert.Equal(t, tt.wantCode, rec.Code)

			var resp HealthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantChecks, resp.Checks)
		})
	}
}

func TestHealthChecker_ReadinessWithoutContext(t *testing.T) {
	h := NewHealthChecker(nil)
	rec := serve(t, h.ReadinessHandler(), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotContains(t, resp.Checks, "schedule")
}

func TestHealthChecker_Detailed(t *testing.T) {
	sc := newTestServerContext(t, Options{ReadOnly: true})
	h := NewHealthChecker(sc)

	rec := serve(t, h.DetailedHealthHandler(), "/healthz/detailed")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp DetailedHealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Uptime)
	assert.True(t, resp.ReadOnly)
	require.NotNil(t, resp.Schedule)
	assert.Equal(t, 7, resp.Schedule.HostDates)
	assert.Equal(t, 7, resp.Schedule.CoachingDays)

	h.SetReady(false)
	rec = serve(t, h.DetailedHealthHandler(), "/healthz/detailed")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthChecker_RegisterHealthEndpoints(t *testing.T) {
	mux := http.NewServeMux()
	NewHealthChecker(newTestServerContext(t, Options{})).RegisterHealthEndpoints(mux)

	for _, path := range []string{"/healthz", "/readyz", "/healthz/detailed"} {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, http.StatusOK, serve(t, mux, path).Code)
		})
	}
}
