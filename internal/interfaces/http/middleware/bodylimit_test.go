package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoLengthRouter reports how many body bytes the handler managed to read
func echoLengthRouter(limit int64) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), BodyLimit(limit))
	router.POST("/orders", func(c *gin.Context) {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, "read %d", len(data))
			return
		}
		c.String(http.StatusOK, "read %d", len(data))
	})
	return router
}

func TestBodyLimit(t *testing.T) {
	tests := []struct {
		name     string
		limit    int64
		body     string
		chunked  bool
		wantCode int
		wantBody string
	}{
		{"under limit", 64, `{"email":"ana@example.com"}`, false, http.StatusOK, "read 27"},
		{"exactly at limit", 8, "12345678", false, http.StatusOK, "read 8"},
		{"empty body", 8, "", false, http.StatusOK, "read 0"},
		{"chunked under limit", 64, "short", true, http.StatusOK, "read 5"},
		{"chunked over limit is cut while reading", 16, strings.Repeat("x", 64), true, http.StatusRequestEntityTooLarge, "read 16"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(tt.body))
			if tt.chunked {
				req.ContentLength = -1
			}
			w := httptest.NewRecorder()
			echoLengthRouter(tt.limit).ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestBodyLimit_DeclaredLengthRejectedUpFront(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(strings.Repeat("x", 200)))
	req.Header.Set(RequestIDHeader, "req-big")
	w := httptest.NewRecorder()
	echoLengthRouter(100).ServeHTTP(w, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeRequestTooLarge, resp.Error.Code)
	assert.Equal(t, "req-big", resp.Error.RequestID)
}

func TestBodyLimit_NonPositiveUsesDefault(t *testing.T) {
	for _, limit := range []int64{0, -1} {
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(strings.Repeat("x", int(DefaultBodyLimit)+1)))
		w := httptest.NewRecorder()
		echoLengthRouter(limit).ServeHTTP(w, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	}
}
