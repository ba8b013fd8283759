package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ainstein-ai-api/internal/config"
	"ainstein-ai-api/internal/interfaces/http/handler"
)

type okChecker struct{}

func (okChecker) HealthCheck(context.Context) error { return nil }

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.App.Name = "ainstein-ai-api"
	cfg.App.Version = "v-test"
	cfg.Observability.Metrics.Enabled = true
	cfg.Security.Tenant.HeaderName = "X-Tenant-ID"

	return New(cfg, Handlers{
		Health:     handler.NewHealthHandler("v-test", okChecker{}, okChecker{}),
		Prompt:     handler.NewPromptHandler(nil),
		Generation: handler.NewGenerationHandler(nil, handler.GenerationOptions{}),
		Usage:      handler.NewUsageHandler(nil),
		Settings:   handler.NewSettingsHandler(nil, nil),
	}, nil, nil)
}

func serve(r *Router, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.Engine().ServeHTTP(w, req)
	return w
}

func TestRoutesRegistered(t *testing.T) {
	r := newTestRouter(t)

	got := map[string]bool{}
	for _, ri := range r.Engine().Routes() {
		got[ri.Method+" "+ri.Path] = true
	}

	for _, want := range []string{
		"GET /health",
		"GET /ready",
		"GET /live",
		"GET /metrics",
		"GET /swagger/*any",
		"GET /v1/prompts",
		"POST /v1/prompts",
		"POST /v1/prompts/detect-variables",
		"GET /v1/prompts/:id",
		"PUT /v1/prompts/:id",
		"DELETE /v1/prompts/:id",
		"POST /v1/prompts/:id/duplicate",
		"GET /v1/generations",
		"POST /v1/generations",
		"GET /v1/generations/:id",
		"POST /v1/generations/:id/retry",
		"POST /v1/generations/meta-title",
		"POST /v1/generations/meta-description",
		"POST /v1/generations/blog-article",
		"GET /v1/usage",
		"GET /v1/admin/settings",
		"GET /v1/admin/settings/models",
		"POST /v1/admin/settings/validate-key",
		"PUT /v1/admin/settings/:key",
		"DELETE /v1/admin/settings/:key",
	} {
		assert.True(t, got[want], "missing route %s", want)
	}
}

func TestHealthAndReady(t *testing.T) {
	r := newTestRouter(t)

	w := serve(r, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "v-test")

	w = serve(r, http.MethodGet, "/ready")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTenantRoutesRequireTenant(t *testing.T) {
	r := newTestRouter(t)

	w := serve(r, http.MethodGet, "/v1/usage")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/v1/usage", nil)
	req.Header.Set("X-Tenant-ID", "acme")
	w = httptest.NewRecorder()
	r.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "tenant id must be a UUID")
}

func TestSwaggerDoc(t *testing.T) {
	r := newTestRouter(t)

	w := serve(r, http.MethodGet, "/swagger/doc.json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ainstein AI API")
	assert.Contains(t, w.Body.String(), "/v1/generations/{id}/retry")
	assert.Contains(t, w.Body.String(), "v-test")
}
