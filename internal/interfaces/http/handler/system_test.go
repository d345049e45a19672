package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDatabase struct {
	pingErr error
	stats   persistence.ConnectionStats
}

func (s stubDatabase) Ping() error { return s.pingErr }

func (s stubDatabase) Stats() (persistence.ConnectionStats, error) { return s.stats, nil }

type stubCounter int

func (s stubCounter) Count() int { return int(s) }

func TestSystemHandler_Health(t *testing.T) {
	h := NewSystemHandler(stubDatabase{stats: persistence.ConnectionStats{OpenConnections: 3}}, stubCounter(2), "1.2.0")

	c, w := newTestContext(http.MethodGet, "/health")
	h.Health(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp APIResponse[HealthResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "ok", resp.Data.Status)
	assert.Equal(t, "ok", resp.Data.Database)
	require.NotNil(t, resp.Data.Pool)
	assert.Equal(t, 3, resp.Data.Pool.OpenConnections)
	assert.Equal(t, 2, resp.Data.Subscribers)

	_, err := time.Parse(time.RFC3339, resp.Data.Timestamp)
	assert.NoError(t, err)
}

func TestSystemHandler_Health_DatabaseDown(t *testing.T) {
	h := NewSystemHandler(stubDatabase{pingErr: errors.New("connection refused")}, nil, "1.2.0")

	c, w := newTestContext(http.MethodGet, "/health")
	h.Health(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeServiceUnavailable, resp.Error.Code)
	assert.NotContains(t, w.Body.String(), "refused")
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler(stubDatabase{}, nil, "1.2.0")

	c, w := newTestContext(http.MethodGet, "/system/info")
	h.GetSystemInfo(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp APIResponse[SystemInfoResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Storefront API", resp.Data.Name)
	assert.Equal(t, "1.2.0", resp.Data.Version)
	assert.NotEmpty(t, resp.Data.GoVersion)
	assert.NotEmpty(t, resp.Data.Uptime)
}
