package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgserver "github.com/DjordjeVuckovic/news-aggregator/pkg/server"
)

type downChecker struct{}

func (downChecker) Healthy(context.Context) bool { return false }

func newTestServer(t *testing.T, hc pkgserver.HealthChecker) *Server {
	t.Helper()
	s := New(&Config{Port: "0", CorsOrigins: []string{"*"}, ShutdownTimeout: DefaultShutdownTimeout}, hc).
		SetupHealthChecks("/health").
		SetupMiddlewares().
		SetupErrorHandler()
	t.Cleanup(s.stop)
	return s
}

func TestHealthCheck(t *testing.T) {
	cases := []struct {
		name    string
		checker pkgserver.HealthChecker
		want    int
	}{
		{name: "healthy", checker: pkgserver.NewOkHealthChecker(), want: http.StatusOK},
		{name: "unhealthy", checker: downChecker{}, want: http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t, tc.checker)
			rec := httptest.NewRecorder()
			s.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestErrorHandler_UnknownRoute(t *testing.T) {
	s := newTestServer(t, pkgserver.NewOkHealthChecker())
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("USE_HTTP2", "true")
	t.Setenv("SHUTDOWN_TIMEOUT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.UseHttp2)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CorsOrigins)
	assert.Equal(t, DefaultShutdownTimeout, cfg.ShutdownTimeout)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("PORT", "70000")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("PORT", "8080")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	_, err = LoadConfig()
	assert.Error(t, err)
}
