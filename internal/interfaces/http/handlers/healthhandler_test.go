package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velorie/ticketarchive/internal/interfaces/http/handlers/testutil"
)

func TestHealthHandler_HealthCheck(t *testing.T) {
	ok := PingerFunc(func(context.Context) error { return nil })
	down := PingerFunc(func(context.Context) error { return errors.New("dial tcp: connection refused") })

	tests := []struct {
		name       string
		checks     map[string]Pinger
		wantStatus int
		wantChecks map[string]string
	}{
		{
			name:       "all reachable",
			checks:     map[string]Pinger{"storage": ok},
			wantStatus: http.StatusOK,
			wantChecks: map[string]string{"storage": "ok"},
		},
		{
			name:       "redis down",
			checks:     map[string]Pinger{"storage": ok, "redis": down},
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"storage": "ok", "redis": "unavailable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.checks, testutil.NewMockLogger())
			c, w := testutil.NewTestContext(http.MethodGet, "/api/health", nil)
			h.HealthCheck(c)

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			assert.Equal(t, tt.wantStatus == http.StatusOK, resp.Success)

			var health HealthResponse
			require.NoError(t, json.Unmarshal(resp.Data, &health))
			assert.Equal(t, tt.wantChecks, health.Checks)
			assert.NotContains(t, string(resp.Data), "connection refused")
		})
	}
}
