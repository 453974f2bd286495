package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-otp-auth/config"
	"github.com/oksasatya/go-otp-auth/internal/container"
	"github.com/oksasatya/go-otp-auth/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func newTestEngine(t *testing.T, metricsEnabled bool) *gin.Engine {
	t.Helper()
	cfg := &config.Config{
		AppName:            "test",
		Env:                config.EnvDevelopment,
		StoreDriver:        container.DriverMemory,
		OTPStoreDriver:     container.DriverMemory,
		OTPTTL:             5 * time.Minute,
		JWTSecret:          "k",
		SessionTTL:         24 * time.Hour,
		CORSAllowedOrigins: "http://localhost:5173",
		MetricsEnabled:     metricsEnabled,
	}
	c, err := container.Build(context.Background(), cfg, helpers.NewDiscardLogger())
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return NewEngine(c)
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRoutesMounted(t *testing.T) {
	r := newTestEngine(t, true)

	cases := []struct {
		method, path, body string
		status             int
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodPost, "/api/auth/signup", `{"username":"a","email":"a@x.com","password":"secret1"}`, http.StatusOK},
		{http.MethodPost, "/api/auth/login", `{"email":"a@x.com","password":"secret1"}`, http.StatusOK},
		{http.MethodPost, "/api/auth/resend-otp", `{"email":"a@x.com"}`, http.StatusOK},
		{http.MethodPost, "/api/auth/verify-otp", `{"email":"a@x.com","otp":"abcdef"}`, http.StatusBadRequest},
		{http.MethodGet, "/api/auth/logout", "", http.StatusOK},
		{http.MethodGet, "/api/auth/authcheck", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		rec := serve(r, tc.method, tc.path, tc.body)
		assert.Equal(t, tc.status, rec.Code, "%s %s", tc.method, tc.path)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	}

	rec := serve(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `otpauth_otp_issued_total{purpose="signup"} 1`)
	assert.Contains(t, rec.Body.String(), `otpauth_http_requests_total`)
}

func TestMetricsRouteAbsentWhenDisabled(t *testing.T) {
	r := newTestEngine(t, false)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/metrics", "").Code)
}
