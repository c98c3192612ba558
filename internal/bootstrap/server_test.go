package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/transferbooking/config"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHandler struct {
	path string
}

func (s stubHandler) Register(router *gin.RouterGroup) {
	router.GET("", func(c *gin.Context) { c.String(http.StatusOK, s.path) })
	router.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
		c.Status(http.StatusInternalServerError)
	})
}

func newTestRouter(t *testing.T, checks ...HealthCheck) (*gin.Engine, *test.Hook) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger, hook := test.NewNullLogger()
	cfg := &config.Config{HTTP: config.HTTPConfig{Address: ":0"}}
	router := NewRouter(cfg, logger, Handlers{
		Routes:           stubHandler{"routes"},
		Options:          stubHandler{"options"},
		TransferBookings: stubHandler{"transfer-bookings"},
		CartItems:        stubHandler{"cart-items"},
	}, checks...)
	return router, hook
}

func TestNewRouter_MountsGroups(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"routes", "options", "transfer-bookings", "cart-items"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/"+path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, path, w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		checks     []HealthCheck
		wantStatus int
		wantState  string
	}{
		{"no checks", nil, http.StatusOK, "healthy"},
		{"all ok", []HealthCheck{
			{Name: "postgres", Check: func(context.Context) error { return nil }},
			{Name: "redis", Check: func(context.Context) error { return nil }},
		}, http.StatusOK, "healthy"},
		{"redis down", []HealthCheck{
			{Name: "postgres", Check: func(context.Context) error { return nil }},
			{Name: "redis", Check: func(context.Context) error { return errors.New("connection refused") }},
		}, http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newTestRouter(t, tt.checks...)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantState, body.Status)
			assert.Len(t, body.Checks, len(tt.checks))
		})
	}
}

func TestRequestID(t *testing.T) {
	router, hook := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/routes", nil))
	generated := w.Header().Get(requestIDHeader)
	assert.NotEmpty(t, generated)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, generated, hook.LastEntry().Data["request_id"])

	req := httptest.NewRequest(http.MethodGet, "/api/v1/routes", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestRequestLogger_LogsHandlerErrors(t *testing.T) {
	router, hook := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/routes/fail", nil))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, http.StatusInternalServerError, entry.Data["status"])
	assert.Contains(t, entry.Data["errors"], "boom")
}

func TestCorsConfig(t *testing.T) {
	open := corsConfig(config.HTTPConfig{})
	assert.True(t, open.AllowAllOrigins)

	restricted := corsConfig(config.HTTPConfig{AllowedOrigins: []string{"https://example.com"}})
	assert.False(t, restricted.AllowAllOrigins)
	assert.Equal(t, []string{"https://example.com"}, restricted.AllowOrigins)
	assert.NoError(t, restricted.Validate())
}
