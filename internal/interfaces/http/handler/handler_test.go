package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ainstein-ai-api/internal/application/generation"
	"ainstein-ai-api/internal/application/prompt"
	"ainstein-ai-api/internal/application/quota"
	"ainstein-ai-api/internal/domain/entity"
	"ainstein-ai-api/internal/domain/repository"
	"ainstein-ai-api/internal/interfaces/http/dto"
	"ainstein-ai-api/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		ErrorCode string `json:"error_code"`
		Details   string `json:"details"`
	} `json:"error"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func withTenant(tenantID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("tenant_id", tenantID)
		c.Next()
	}
}

type fakeGenerations struct {
	lastReq  *generation.Request
	lastMode entity.ExecutionMode
	record   *entity.GenerationRecord
	err      error
}

func (f *fakeGenerations) Generate(_ context.Context, req *generation.Request) (*entity.GenerationRecord, error) {
	f.lastReq = req
	f.lastMode = entity.ExecutionModeSync
	return f.record, f.err
}

func (f *fakeGenerations) Submit(_ context.Context, req *generation.Request) (*entity.GenerationRecord, error) {
	f.lastReq = req
	f.lastMode = entity.ExecutionModeAsync
	return f.record, f.err
}

func (f *fakeGenerations) Retry(_ context.Context, _, _ string, mode entity.ExecutionMode) (*entity.GenerationRecord, error) {
	f.lastMode = mode
	return f.record, f.err
}

func (f *fakeGenerations) Get(_ context.Context, tenantID, id string) (*entity.GenerationRecord, error) {
	if f.record == nil || f.record.ID != id || f.record.TenantID != tenantID {
		return nil, errors.ErrGenerationNotFound
	}
	return f.record, nil
}

func (f *fakeGenerations) List(_ context.Context, _ string, _ *repository.GenerationFilter, p repository.Pagination) (*repository.PagedResult[*entity.GenerationRecord], error) {
	return repository.NewPagedResult([]*entity.GenerationRecord{f.record}, 1, p), nil
}

func (f *fakeGenerations) GenerateMetaTitle(context.Context, string, string, string) (*entity.GenerationRecord, error) {
	return f.record, f.err
}

func (f *fakeGenerations) GenerateMetaDescription(context.Context, string, string, string) (*entity.GenerationRecord, error) {
	return f.record, f.err
}

func (f *fakeGenerations) GenerateBlogArticle(context.Context, string, string, int) (*entity.GenerationRecord, error) {
	return f.record, f.err
}

func generationRouter(svc GenerationService, opts GenerationOptions) *gin.Engine {
	h := NewGenerationHandler(svc, opts)
	r := gin.New()
	r.Use(withTenant("t1"))
	r.POST("/v1/generations", h.CreateGeneration)
	r.GET("/v1/generations/:id", h.GetGeneration)
	r.POST("/v1/generations/:id/retry", h.RetryGeneration)
	r.POST("/v1/generations/meta-title", h.GenerateMetaTitle)
	return r
}

func completedRecord() *entity.GenerationRecord {
	rec := entity.NewGenerationRecord("t1", nil, "Write about shoes", entity.ExecutionModeSync)
	rec.ID = "g1"
	rec.Complete("# Title\n\nBody", "gpt-4o-mini", 42, 0.000084)
	return rec
}

func TestCreateGenerationSync(t *testing.T) {
	svc := &fakeGenerations{record: completedRecord()}
	r := generationRouter(svc, GenerationOptions{})

	w, env := doJSON(t, r, http.MethodPost, "/v1/generations", map[string]any{
		"prompt":    "Write about {{topic}}",
		"variables": map[string]string{"topic": "shoes"},
		"page_context": map[string]string{
			"keyword": "running shoes",
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, entity.ExecutionModeSync, svc.lastMode)
	require.NotNil(t, svc.lastReq)
	assert.Equal(t, "t1", svc.lastReq.TenantID)
	assert.Equal(t, "shoes", svc.lastReq.Variables["topic"])
	require.NotNil(t, svc.lastReq.Page)
	assert.Equal(t, "running shoes", svc.lastReq.Page.Keyword)

	var resp struct {
		ID         string `json:"id"`
		Status     string `json:"status"`
		TokensUsed int    `json:"tokens_used"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "g1", resp.ID)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, 42, resp.TokensUsed)
}

func TestCreateGenerationAsync(t *testing.T) {
	rec := entity.NewGenerationRecord("t1", nil, "p", entity.ExecutionModeAsync)
	rec.ID = "g2"
	svc := &fakeGenerations{record: rec}
	r := generationRouter(svc, GenerationOptions{})

	w, _ := doJSON(t, r, http.MethodPost, "/v1/generations", map[string]any{"prompt": "p", "mode": "async"})
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, entity.ExecutionModeAsync, svc.lastMode)
}

func TestCreateGenerationDefaultModeFromConfig(t *testing.T) {
	svc := &fakeGenerations{record: completedRecord()}
	r := generationRouter(svc, GenerationOptions{DefaultMode: "async"})

	w, _ := doJSON(t, r, http.MethodPost, "/v1/generations", map[string]any{"prompt": "p"})
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestCreateGenerationErrors(t *testing.T) {
	r := generationRouter(&fakeGenerations{}, GenerationOptions{})
	w, _ := doJSON(t, r, http.MethodPost, "/v1/generations", map[string]any{"prompt": "p", "mode": "later"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc := &fakeGenerations{record: completedRecord(), err: errors.ErrQuotaExceeded.WithDetail("g1")}
	r = generationRouter(svc, GenerationOptions{})
	w, env := doJSON(t, r, http.MethodPost, "/v1/generations", map[string]any{"prompt": "p"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, string(errors.CodeQuotaExceeded), env.Error.ErrorCode)

	svc = &fakeGenerations{err: assert.AnError}
	r = generationRouter(svc, GenerationOptions{})
	w, env = doJSON(t, r, http.MethodPost, "/v1/generations", map[string]any{"prompt": "p"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "failed to generate content", env.Message)
}

func TestGetGenerationWithPreview(t *testing.T) {
	svc := &fakeGenerations{record: completedRecord()}
	r := generationRouter(svc, GenerationOptions{RenderPreview: true})

	w, env := doJSON(t, r, http.MethodGet, "/v1/generations/g1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		ResolvedPrompt string `json:"resolved_prompt"`
		HTMLPreview    string `json:"html_preview"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "Write about shoes", resp.ResolvedPrompt)
	assert.Contains(t, resp.HTMLPreview, "<h1>Title</h1>")

	w, _ = doJSON(t, r, http.MethodGet, "/v1/generations/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRetryGeneration(t *testing.T) {
	svc := &fakeGenerations{record: completedRecord()}
	r := generationRouter(svc, GenerationOptions{})

	w, _ := doJSON(t, r, http.MethodPost, "/v1/generations/g1/retry", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, entity.ExecutionModeSync, svc.lastMode)

	w, _ = doJSON(t, r, http.MethodPost, "/v1/generations/g1/retry", map[string]string{"mode": "async"})
	assert.Equal(t, http.StatusAccepted, w.Code)

	svc.err = errors.ErrInvalidState
	w, _ = doJSON(t, r, http.MethodPost, "/v1/generations/g1/retry", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCatalogGenerationRequiresKeyword(t *testing.T) {
	r := generationRouter(&fakeGenerations{record: completedRecord()}, GenerationOptions{})

	w, _ := doJSON(t, r, http.MethodPost, "/v1/generations/meta-title", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/v1/generations/meta-title", map[string]string{"keyword": "shoes"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

type fakePrompts struct {
	created prompt.Input
	err     error
}

func (f *fakePrompts) Create(_ context.Context, tenantID string, in prompt.Input) (*entity.PromptTemplate, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = in
	tid := tenantID
	return &entity.PromptTemplate{ID: "p1", TenantID: &tid, Name: *in.Name, Body: *in.Body, Variables: prompt.DetectVariables(*in.Body)}, nil
}

func (f *fakePrompts) Update(context.Context, string, string, prompt.Input) (*entity.PromptTemplate, error) {
	return nil, errors.ErrSystemTemplate
}

func (f *fakePrompts) Get(context.Context, string, string) (*entity.PromptTemplate, error) {
	return nil, errors.ErrTemplateNotFound
}

func (f *fakePrompts) List(_ context.Context, _ string, q prompt.ListQuery) (*repository.PagedResult[*entity.PromptTemplate], error) {
	return repository.NewPagedResult([]*entity.PromptTemplate{}, 0, q.Pagination), nil
}

func (f *fakePrompts) Delete(context.Context, string, string) error { return nil }

func (f *fakePrompts) Duplicate(context.Context, string, string) (*entity.PromptTemplate, error) {
	return &entity.PromptTemplate{ID: "p2", Name: "Blog (Copy)"}, nil
}

func (f *fakePrompts) DetectVariables(body string) []string {
	return prompt.DetectVariables(body)
}

func promptRouter(svc PromptService) *gin.Engine {
	h := NewPromptHandler(svc)
	r := gin.New()
	r.Use(withTenant("t1"))
	r.GET("/v1/prompts", h.ListPrompts)
	r.POST("/v1/prompts", h.CreatePrompt)
	r.POST("/v1/prompts/detect-variables", h.DetectVariables)
	r.GET("/v1/prompts/:id", h.GetPrompt)
	r.PUT("/v1/prompts/:id", h.UpdatePrompt)
	r.DELETE("/v1/prompts/:id", h.DeletePrompt)
	r.POST("/v1/prompts/:id/duplicate", h.DuplicatePrompt)
	return r
}

func TestPromptHandlers(t *testing.T) {
	svc := &fakePrompts{}
	r := promptRouter(svc)

	w, env := doJSON(t, r, http.MethodPost, "/v1/prompts", map[string]any{
		"name": "Blog", "template": "Write {{words}} words about {{topic}}", "category": "blog",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.created.Category)
	assert.Equal(t, entity.PromptCategoryBlog, *svc.created.Category)
	var created struct {
		Variables []string `json:"variables"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, []string{"words", "topic"}, created.Variables)

	w, _ = doJSON(t, r, http.MethodPost, "/v1/prompts", map[string]any{"name": "missing body"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/v1/prompts/x", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, r, http.MethodPut, "/v1/prompts/x", map[string]any{"name": "n"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, r, http.MethodDelete, "/v1/prompts/x", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/v1/prompts/x/duplicate", nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/v1/prompts?include_system=false&sort=-name", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = doJSON(t, r, http.MethodPost, "/v1/prompts/detect-variables", map[string]string{"template": "{{a}} {{b}} {{a}}"})
	assert.Equal(t, http.StatusOK, w.Code)
	var detected struct {
		Variables []string `json:"variables"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detected))
	assert.Equal(t, []string{"a", "b"}, detected.Variables)

	w, env = doJSON(t, r, http.MethodPost, "/v1/prompts/detect-variables", map[string]any{
		"template":  "{{keyword}} for {{audience}} in {{tone}}",
		"variables": map[string]string{"keyword": "running shoes"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	var withMissing dto.DetectVariablesResponse
	require.NoError(t, json.Unmarshal(env.Data, &withMissing))
	assert.Equal(t, []string{"audience", "tone"}, withMissing.Missing)
	assert.NotContains(t, string(env.Data), `"missing":null`)
}

type fakeUsage struct{}

func (fakeUsage) Stats(_ context.Context, tenantID string) (*quota.Stats, error) {
	if tenantID != "t1" {
		return nil, errors.ErrTenantNotFound
	}
	return &quota.Stats{MonthlyLimit: 1000, TokensUsedCurrent: 250, RemainingTokens: 750, UsagePercentage: 25}, nil
}

func TestGetUsage(t *testing.T) {
	h := NewUsageHandler(fakeUsage{})
	r := gin.New()
	r.Use(withTenant("t1"))
	r.GET("/v1/usage", h.GetUsage)

	w, env := doJSON(t, r, http.MethodGet, "/v1/usage", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		TenantID        string  `json:"tenant_id"`
		UsagePercentage float64 `json:"usage_percentage"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "t1", resp.TenantID)
	assert.Equal(t, 25.0, resp.UsagePercentage)
}

type fakeSettings struct {
	values map[string]string
}

func (f *fakeSettings) List(context.Context) ([]*entity.PlatformSetting, error) {
	out := make([]*entity.PlatformSetting, 0, len(f.values))
	for k, v := range f.values {
		out = append(out, &entity.PlatformSetting{Key: k, Value: v})
	}
	return out, nil
}

func (f *fakeSettings) Set(_ context.Context, key, value string) (*entity.PlatformSetting, error) {
	if key == "bogus" {
		return nil, errors.ErrSettingInvalid
	}
	f.values[key] = value
	return &entity.PlatformSetting{Key: key, Value: value}, nil
}

func (f *fakeSettings) Delete(_ context.Context, key string) error {
	delete(f.values, key)
	return nil
}

type fakeReloader struct {
	calls int
	err   error
}

func (f *fakeReloader) Reload(context.Context) error {
	f.calls++
	return f.err
}

func (f *fakeReloader) GeneratorName() string { return "mock" }

func (f *fakeReloader) AvailableModels(context.Context) (*generation.ModelCatalog, error) {
	return &generation.ModelCatalog{Generator: "openai", Models: []string{"gpt-4o", "gpt-4o-mini"}}, nil
}

func (f *fakeReloader) ValidateKey(_ context.Context, provider, apiKey string) (*generation.KeyCheck, error) {
	if apiKey == "sk-good" {
		return &generation.KeyCheck{Valid: true, Generator: provider}, nil
	}
	return &generation.KeyCheck{Valid: false, Generator: provider, Error: "401 invalid api key"}, nil
}

func TestSettingsHandlers(t *testing.T) {
	store := &fakeSettings{values: map[string]string{}}
	reloader := &fakeReloader{}
	h := NewSettingsHandler(store, reloader)
	r := gin.New()
	r.GET("/v1/admin/settings", h.ListSettings)
	r.PUT("/v1/admin/settings/:key", h.SetSetting)
	r.DELETE("/v1/admin/settings/:key", h.DeleteSetting)

	w, env := doJSON(t, r, http.MethodPut, "/v1/admin/settings/llm.api_key", map[string]string{"value": "sk-live-abcdef"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, reloader.calls)
	var setting struct {
		Value string `json:"value"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &setting))
	assert.Equal(t, "sk-l****", setting.Value)

	w, _ = doJSON(t, r, http.MethodPut, "/v1/admin/settings/bogus", map[string]string{"value": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 1, reloader.calls)

	w, env = doJSON(t, r, http.MethodGet, "/v1/admin/settings", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var list struct {
		AllowedKeys []string `json:"allowed_keys"`
		Generator   string   `json:"active_generator"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Contains(t, list.AllowedKeys, "llm.provider")
	assert.Equal(t, "mock", list.Generator)

	reloader.err = errors.ErrConfiguration
	w, _ = doJSON(t, r, http.MethodDelete, "/v1/admin/settings/llm.api_key", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSettingsModelsAndKeyValidation(t *testing.T) {
	h := NewSettingsHandler(&fakeSettings{values: map[string]string{}}, &fakeReloader{})
	r := gin.New()
	r.GET("/v1/admin/settings/models", h.ListModels)
	r.POST("/v1/admin/settings/validate-key", h.ValidateKey)

	w, env := doJSON(t, r, http.MethodGet, "/v1/admin/settings/models", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var models dto.ModelListResponse
	require.NoError(t, json.Unmarshal(env.Data, &models))
	assert.Equal(t, []string{"gpt-4o", "gpt-4o-mini"}, models.Models)
	assert.False(t, models.Fallback)

	w, env = doJSON(t, r, http.MethodPost, "/v1/admin/settings/validate-key", map[string]string{"api_key": "sk-good", "provider": "openai"})
	assert.Equal(t, http.StatusOK, w.Code)
	var check dto.ValidateKeyResponse
	require.NoError(t, json.Unmarshal(env.Data, &check))
	assert.True(t, check.Valid)
	assert.Equal(t, "openai", check.Generator)

	w, env = doJSON(t, r, http.MethodPost, "/v1/admin/settings/validate-key", map[string]string{"api_key": "sk-bad"})
	assert.Equal(t, http.StatusOK, w.Code)
	check = dto.ValidateKeyResponse{}
	require.NoError(t, json.Unmarshal(env.Data, &check))
	assert.False(t, check.Valid)
	assert.Contains(t, check.Error, "401")

	w, _ = doJSON(t, r, http.MethodPost, "/v1/admin/settings/validate-key", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettingsModelsWithoutGenerator(t *testing.T) {
	h := NewSettingsHandler(&fakeSettings{values: map[string]string{}}, nil)
	r := gin.New()
	r.GET("/v1/admin/settings/models", h.ListModels)

	w, env := doJSON(t, r, http.MethodGet, "/v1/admin/settings/models", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var models dto.ModelListResponse
	require.NoError(t, json.Unmarshal(env.Data, &models))
	assert.True(t, models.Fallback)
	assert.Equal(t, []string{"gpt-3.5-turbo", "gpt-4", "gpt-4o"}, models.Models)
}

type stubChecker struct{ err error }

func (s stubChecker) HealthCheck(context.Context) error { return s.err }

func TestReadiness(t *testing.T) {
	r := gin.New()
	ok := NewHealthHandler("1.0.0", stubChecker{}, stubChecker{})
	r.GET("/ready", ok.Ready)
	r.GET("/health", ok.Health)

	w, _ := doJSON(t, r, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	r2 := gin.New()
	bad := NewHealthHandler("1.0.0", stubChecker{}, stubChecker{err: assert.AnError})
	r2.GET("/ready", bad.Ready)
	w = httptest.NewRecorder()
	r2.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "not_ready")
}
