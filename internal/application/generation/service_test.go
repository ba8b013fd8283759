package generation

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ainstein-ai-api/internal/config"
	"ainstein-ai-api/internal/domain/entity"
	"ainstein-ai-api/internal/domain/repository"
	"ainstein-ai-api/internal/domain/service"
	"ainstein-ai-api/internal/infrastructure/llm"
	"ainstein-ai-api/internal/infrastructure/messaging"
	"ainstein-ai-api/pkg/errors"
)

// memRecordRepo 模拟 status = 'pending' 条件更新
type memRecordRepo struct {
	mu    sync.Mutex
	items map[string]*entity.GenerationRecord
}

func newMemRecordRepo() *memRecordRepo {
	return &memRecordRepo{items: map[string]*entity.GenerationRecord{}}
}

func (r *memRecordRepo) Create(_ context.Context, rec *entity.GenerationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rec
	r.items[rec.ID] = &cp
	return nil
}

func (r *memRecordRepo) GetByID(_ context.Context, id string) (*entity.GenerationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.items[id]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, nil
}

func (r *memRecordRepo) ListByTenant(_ context.Context, tenantID string, _ *repository.GenerationFilter, p repository.Pagination) (*repository.PagedResult[*entity.GenerationRecord], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.GenerationRecord
	for _, rec := range r.items {
		if rec.TenantID == tenantID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return repository.NewPagedResult(out, int64(len(out)), p), nil
}

func (r *memRecordRepo) MarkStarted(_ context.Context, id string, startedAt time.Time, reserved int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.items[id]; ok && rec.Status == entity.GenerationStatusPending {
		rec.StartedAt = &startedAt
		rec.TokensReserved = reserved
	}
	return nil
}

func (r *memRecordRepo) finish(rec *entity.GenerationRecord) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[rec.ID]
	if !ok || cur.Status != entity.GenerationStatusPending {
		return false, nil
	}
	cp := *rec
	r.items[rec.ID] = &cp
	return true, nil
}

func (r *memRecordRepo) MarkCompleted(_ context.Context, rec *entity.GenerationRecord) (bool, error) {
	return r.finish(rec)
}

func (r *memRecordRepo) MarkFailed(_ context.Context, rec *entity.GenerationRecord) (bool, error) {
	return r.finish(rec)
}

func (r *memRecordRepo) GetTokenUsage(context.Context, string, time.Time, time.Time) (int64, error) {
	return 0, nil
}

func (r *memRecordRepo) get(id string) *entity.GenerationRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id]
}

type fakeQuota struct {
	mu    sync.Mutex
	used  int64
	limit int64
	err   error
}

func (q *fakeQuota) CheckAndReserve(_ context.Context, _ string, tokens int64) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return false, q.err
	}
	if q.used+tokens > q.limit {
		return false, nil
	}
	q.used += tokens
	return true, nil
}

func (q *fakeQuota) Settle(_ context.Context, _ string, delta int64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.used += delta
	if q.used < 0 {
		q.used = 0
	}
	return nil
}

func (q *fakeQuota) Release(ctx context.Context, tenantID string, tokens int64) error {
	return q.Settle(ctx, tenantID, -tokens)
}

func (q *fakeQuota) value() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.used
}

type fakeTemplates struct {
	items map[string]*entity.PromptTemplate
}

func (f *fakeTemplates) Get(_ context.Context, tenantID, id string) (*entity.PromptTemplate, error) {
	if t, ok := f.items[id]; ok && t.VisibleTo(tenantID) {
		return t, nil
	}
	return nil, errors.ErrTemplateNotFound
}

func (f *fakeTemplates) GetByAlias(_ context.Context, tenantID, alias string) (*entity.PromptTemplate, error) {
	for _, t := range f.items {
		if t.AliasValue() == alias && t.VisibleTo(tenantID) {
			return t, nil
		}
	}
	return nil, errors.ErrTemplateNotFound
}

type fakePublisher struct {
	jobs []*messaging.GenerationJobMessage
	err  error
}

func (p *fakePublisher) PublishGenerationJob(_ context.Context, job *messaging.GenerationJobMessage) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.jobs = append(p.jobs, job)
	return "1-0", nil
}

type fakeUsage struct {
	mu     sync.Mutex
	inputs []service.LLMUsageInput
}

func (u *fakeUsage) Record(_ context.Context, in service.LLMUsageInput) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.inputs = append(u.inputs, in)
	return nil
}

type staticSettings struct {
	s   llm.Settings
	err error
}

func (s *staticSettings) LLMSettings(context.Context) (llm.Settings, error) {
	return s.s, s.err
}

// scriptedGenerator 按预设结果返回，并统计调用次数
type scriptedGenerator struct {
	mu     sync.Mutex
	result *llm.GenerationResult
	calls  int
	last   string
	opts   llm.Options
}

func (g *scriptedGenerator) Name() string { return "scripted" }

func (g *scriptedGenerator) Generate(_ context.Context, prompt string, opts llm.Options) *llm.GenerationResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.last = prompt
	g.opts = opts
	cp := *g.result
	return &cp
}

func okResult(content string, tokens int) *llm.GenerationResult {
	return &llm.GenerationResult{Content: &content, TokensUsed: tokens, PromptTokens: tokens / 2, CompletionTokens: tokens - tokens/2, Model: "gpt-4o-mini", Provider: "openai", Cost: float64(tokens) * 0.000002, Success: true}
}

type fixture struct {
	svc       *Service
	records   *memRecordRepo
	quota     *fakeQuota
	publisher *fakePublisher
	usage     *fakeUsage
	templates *fakeTemplates
	gen       llm.Generator
}

func newFixture(t *testing.T, gen llm.Generator) *fixture {
	t.Helper()
	f := &fixture{
		records:   newMemRecordRepo(),
		quota:     &fakeQuota{limit: 100000},
		publisher: &fakePublisher{},
		usage:     &fakeUsage{},
		templates: &fakeTemplates{items: map[string]*entity.PromptTemplate{}},
		gen:       gen,
	}
	build := func(context.Context, llm.Settings) (llm.Generator, error) { return f.gen, nil }
	svc, err := NewService(context.Background(), f.templates, f.records, f.quota, f.usage, f.publisher,
		&staticSettings{s: llm.Settings{APIKey: "sk-test", MaxTokens: 1000}}, build,
		config.GenerationConfig{MaxInstructionChars: 2000, JobTimeout: time.Minute})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *fixture) addTemplate(id, tenantID, body string, active bool) {
	tid := tenantID
	alias := id + "-alias"
	f.templates.items[id] = &entity.PromptTemplate{ID: id, TenantID: &tid, Alias: &alias, Body: body, IsActive: active}
}

func TestGenerateWithMockCompletesRecord(t *testing.T) {
	f := newFixture(t, llm.NewMockGenerator("gpt-4o-mini"))
	f.addTemplate("tpl-1", "t1", "Write a product description for {{product_name}} aimed at {{audience}}.", true)

	rec, err := f.svc.Generate(context.Background(), &Request{
		TenantID:   "t1",
		TemplateID: "tpl-1",
		Variables:  map[string]string{"product_name": "Trail Runner 3"},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.GenerationStatusCompleted, rec.Status)
	assert.Contains(t, rec.GeneratedContent, "Trail Runner 3")
	assert.Equal(t, "Write a product description for Trail Runner 3 aimed at [VARIABLE_NOT_PROVIDED].", rec.ResolvedPrompt)
	assert.Equal(t, llm.EstimateTokens(rec.ResolvedPrompt), rec.TokensUsed)
	assert.Zero(t, rec.Cost)
	assert.Equal(t, entity.ExecutionModeSync, rec.ExecutionMode)
	require.NotNil(t, rec.TemplateID)
	assert.Equal(t, "tpl-1", *rec.TemplateID)
	assert.Equal(t, "tpl-1-alias", rec.PromptType)
	assert.NotNil(t, rec.CompletedAt)

	stored := f.records.get(rec.ID)
	assert.Equal(t, entity.GenerationStatusCompleted, stored.Status)

	// 预占按实际用量结算
	assert.Equal(t, int64(rec.TokensUsed), f.quota.value())
	require.Len(t, f.usage.inputs, 1)
	assert.Equal(t, rec.ID, f.usage.inputs[0].GenerationID)
}

func TestGenerateAppendsPageContextAndInstructions(t *testing.T) {
	gen := &scriptedGenerator{result: okResult("done", 120)}
	f := newFixture(t, gen)

	rec, err := f.svc.Generate(context.Background(), &Request{
		TenantID: "t1",
		Body:     "Write about {{keyword}}",
		Variables: map[string]string{
			"keyword": "{{keyword}}",
		},
		Page:                   &PageContext{URLPath: "/shoes", Keyword: "running shoes"},
		AdditionalInstructions: "Use British English.",
		MaxTokens:              300,
	})
	require.NoError(t, err)

	// 替换值不会被再次解析
	assert.Equal(t, "Write about {{keyword}}\n\nPage Context:\nURL Path: /shoes\nTarget Keyword: running shoes", rec.ResolvedPrompt)
	assert.Equal(t, rec.ResolvedPrompt, gen.last)
	assert.Equal(t, "Use British English.", gen.opts.AdditionalInstructions)
	assert.Equal(t, 300, gen.opts.MaxTokens)
	assert.Equal(t, "custom", rec.PromptType)
	assert.Equal(t, int64(120), f.quota.value())
}

func TestGenerateQuotaExceeded(t *testing.T) {
	gen := &scriptedGenerator{result: okResult("x", 10)}
	f := newFixture(t, gen)
	f.quota.used, f.quota.limit = 9900, 10000

	rec, err := f.svc.Generate(context.Background(), &Request{TenantID: "t1", Body: "hello"})
	assert.ErrorIs(t, err, errors.ErrQuotaExceeded)
	require.NotNil(t, rec)
	assert.Equal(t, entity.GenerationStatusFailed, rec.Status)
	assert.Equal(t, "token quota exceeded", rec.ErrorMessage)
	assert.Equal(t, entity.GenerationStatusFailed, f.records.get(rec.ID).Status)
	assert.Equal(t, int64(9900), f.quota.value())
	assert.Zero(t, gen.calls)
}

func TestGenerateProviderFailureReleasesReservation(t *testing.T) {
	gen := &scriptedGenerator{result: &llm.GenerationResult{Success: false, Error: "LLM request timed out after 60s"}}
	f := newFixture(t, gen)

	rec, err := f.svc.Generate(context.Background(), &Request{TenantID: "t1", Body: "hello"})
	require.NoError(t, err)
	assert.Equal(t, entity.GenerationStatusFailed, rec.Status)
	assert.Equal(t, "LLM request timed out after 60s", rec.ErrorMessage)
	assert.Empty(t, rec.GeneratedContent)
	assert.Zero(t, rec.TokensUsed)
	assert.Zero(t, f.quota.value())
	assert.Empty(t, f.usage.inputs)
}

func TestGenerateValidation(t *testing.T) {
	f := newFixture(t, &scriptedGenerator{result: okResult("x", 1)})
	f.addTemplate("off", "t1", "body", false)
	ctx := context.Background()

	_, err := f.svc.Generate(ctx, &Request{TenantID: "t1", TemplateID: "off"})
	assert.ErrorIs(t, err, errors.ErrTemplateInactive)

	_, err = f.svc.Generate(ctx, &Request{TenantID: "t2", TemplateID: "missing"})
	assert.ErrorIs(t, err, errors.ErrTemplateNotFound)

	_, err = f.svc.Generate(ctx, &Request{TenantID: "t1", Body: "x", AdditionalInstructions: strings.Repeat("a", 2001)})
	assert.ErrorIs(t, err, errors.ErrInvalidParam)

	_, err = f.svc.Generate(ctx, &Request{TenantID: "t1"})
	assert.ErrorIs(t, err, errors.ErrInvalidParam)

	hot := 2.5
	_, err = f.svc.Generate(ctx, &Request{TenantID: "t1", Body: "x", Temperature: &hot})
	assert.ErrorIs(t, err, errors.ErrInvalidParam)

	assert.Empty(t, f.records.items)
}

func TestSubmitPublishesJob(t *testing.T) {
	gen := &scriptedGenerator{result: okResult("async content", 50)}
	f := newFixture(t, gen)
	ctx := context.Background()

	rec, err := f.svc.Submit(ctx, &Request{TenantID: "t1", Body: "about {{keyword}}", Variables: map[string]string{"keyword": "tea"}})
	require.NoError(t, err)
	assert.Equal(t, entity.GenerationStatusPending, rec.Status)
	assert.Equal(t, entity.ExecutionModeAsync, rec.ExecutionMode)
	require.Len(t, f.publisher.jobs, 1)
	assert.Equal(t, rec.ID, f.publisher.jobs[0].GenerationID)
	assert.Equal(t, "tea", f.publisher.jobs[0].Variables["keyword"])
	assert.Zero(t, gen.calls)

	done, err := f.svc.Execute(ctx, rec.ID, f.publisher.jobs[0].Variables)
	require.NoError(t, err)
	assert.Equal(t, entity.GenerationStatusCompleted, done.Status)
	assert.Equal(t, "async content", done.GeneratedContent)

	// 重复投递不会再次调用生成器
	again, err := f.svc.Execute(ctx, rec.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.GenerationStatusCompleted, again.Status)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, int64(50), f.quota.value())
}

func TestSubmitPublishFailureMarksFailed(t *testing.T) {
	f := newFixture(t, &scriptedGenerator{result: okResult("x", 1)})
	f.publisher.err = stderrors.New("redis down")

	rec, err := f.svc.Submit(context.Background(), &Request{TenantID: "t1", Body: "x"})
	assert.ErrorIs(t, err, errors.ErrServiceUnavailable)
	require.NotNil(t, rec)
	assert.Equal(t, entity.GenerationStatusFailed, f.records.get(rec.ID).Status)
}

func TestExecuteReleasesStaleReservation(t *testing.T) {
	gen := &scriptedGenerator{result: okResult("x", 40)}
	f := newFixture(t, gen)
	ctx := context.Background()

	rec, err := f.svc.Submit(ctx, &Request{TenantID: "t1", Body: "x"})
	require.NoError(t, err)

	// 模拟上一次执行在预占后崩溃
	f.quota.used = 500
	require.NoError(t, f.records.MarkStarted(ctx, rec.ID, time.Now(), 500))

	done, err := f.svc.Execute(ctx, rec.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.GenerationStatusCompleted, done.Status)
	assert.Equal(t, int64(40), f.quota.value())
}

func TestExecuteQuotaRejectionIsTerminal(t *testing.T) {
	gen := &scriptedGenerator{result: okResult("x", 10)}
	f := newFixture(t, gen)
	ctx := context.Background()

	rec, err := f.svc.Submit(ctx, &Request{TenantID: "t1", Body: "hello"})
	require.NoError(t, err)
	f.quota.used, f.quota.limit = 9900, 10000

	done, err := f.svc.Execute(ctx, rec.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, done)
	assert.Equal(t, entity.GenerationStatusFailed, done.Status)
	assert.Equal(t, "token quota exceeded", f.records.get(rec.ID).ErrorMessage)
	assert.Zero(t, gen.calls)

	// 再次投递直接跳过
	again, err := f.svc.Execute(ctx, rec.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.GenerationStatusFailed, again.Status)
	assert.Zero(t, gen.calls)
}

func TestExecuteUnknownRecord(t *testing.T) {
	f := newFixture(t, &scriptedGenerator{result: okResult("x", 1)})
	_, err := f.svc.Execute(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, errors.ErrGenerationNotFound)
}

func TestExecuteSkipsTerminalRecord(t *testing.T) {
	gen := &scriptedGenerator{result: okResult("first", 30)}
	f := newFixture(t, gen)
	ctx := context.Background()

	rec, err := f.svc.Generate(ctx, &Request{TenantID: "t1", Body: "x"})
	require.NoError(t, err)
	require.Equal(t, entity.GenerationStatusCompleted, rec.Status)
	used := f.quota.value()

	// 重复投递的任务不会再次调用生成器或改动记录
	gen.result = okResult("second", 99)
	again, err := f.svc.Execute(ctx, rec.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "first", again.GeneratedContent)
	assert.Equal(t, used, f.quota.value())
}

func TestAbandonFailsPendingRecord(t *testing.T) {
	f := newFixture(t, &scriptedGenerator{result: okResult("x", 1)})
	ctx := context.Background()

	rec, err := f.svc.Submit(ctx, &Request{TenantID: "t1", Body: "x"})
	require.NoError(t, err)
	f.quota.used = 200
	require.NoError(t, f.records.MarkStarted(ctx, rec.ID, time.Now(), 200))

	require.NoError(t, f.svc.Abandon(ctx, rec.ID, "db unavailable"))
	stored := f.records.get(rec.ID)
	assert.Equal(t, entity.GenerationStatusFailed, stored.Status)
	assert.Contains(t, stored.ErrorMessage, "maximum retry attempts")
	assert.Zero(t, f.quota.value())

	// 终态记录不受影响
	require.NoError(t, f.svc.Abandon(ctx, rec.ID, "again"))
	assert.Equal(t, stored.ErrorMessage, f.records.get(rec.ID).ErrorMessage)
}

func TestRetryCreatesNewRecord(t *testing.T) {
	gen := &scriptedGenerator{result: &llm.GenerationResult{Success: false, Error: "boom"}}
	f := newFixture(t, gen)
	f.addTemplate("tpl-1", "t1", "Topic: {{keyword}}", true)
	ctx := context.Background()

	failed, err := f.svc.Generate(ctx, &Request{TenantID: "t1", TemplateID: "tpl-1", Variables: map[string]string{"keyword": "tea"}})
	require.NoError(t, err)
	require.Equal(t, entity.GenerationStatusFailed, failed.Status)

	gen.result = okResult("second time lucky", 30)
	retried, err := f.svc.Retry(ctx, "t1", failed.ID, entity.ExecutionModeSync)
	require.NoError(t, err)
	assert.NotEqual(t, failed.ID, retried.ID)
	assert.Equal(t, entity.GenerationStatusCompleted, retried.Status)
	require.NotNil(t, retried.RetryOf)
	assert.Equal(t, failed.ID, *retried.RetryOf)
	assert.Equal(t, failed.ResolvedPrompt, retried.ResolvedPrompt)
	assert.Equal(t, *failed.TemplateID, *retried.TemplateID)

	// 原记录保持失败
	assert.Equal(t, entity.GenerationStatusFailed, f.records.get(failed.ID).Status)

	_, err = f.svc.Retry(ctx, "t1", retried.ID, entity.ExecutionModeSync)
	assert.ErrorIs(t, err, errors.ErrInvalidState)
	_, err = f.svc.Retry(ctx, "t2", failed.ID, entity.ExecutionModeSync)
	assert.ErrorIs(t, err, errors.ErrGenerationNotFound)
}

func TestRetryAsyncPublishes(t *testing.T) {
	gen := &scriptedGenerator{result: &llm.GenerationResult{Success: false, Error: "boom"}}
	f := newFixture(t, gen)
	ctx := context.Background()

	failed, err := f.svc.Generate(ctx, &Request{TenantID: "t1", Body: "x"})
	require.NoError(t, err)

	retried, err := f.svc.Retry(ctx, "t1", failed.ID, entity.ExecutionModeAsync)
	require.NoError(t, err)
	assert.Equal(t, entity.GenerationStatusPending, retried.Status)
	require.Len(t, f.publisher.jobs, 1)
	assert.Equal(t, retried.ID, f.publisher.jobs[0].GenerationID)
}

func TestCatalogWrappers(t *testing.T) {
	gen := &scriptedGenerator{result: okResult("titles", 10)}
	f := newFixture(t, gen)
	ctx := context.Background()

	rec, err := f.svc.GenerateMetaTitle(ctx, "t1", "organic coffee", "")
	require.NoError(t, err)
	assert.Contains(t, rec.ResolvedPrompt, "'organic coffee' in the general category")
	assert.Equal(t, "meta-title", rec.PromptType)
	assert.Nil(t, rec.TemplateID)

	rec, err = f.svc.GenerateMetaDescription(ctx, "t1", "organic coffee", "food")
	require.NoError(t, err)
	assert.Contains(t, rec.ResolvedPrompt, "in the food category")

	rec, err = f.svc.GenerateBlogArticle(ctx, "t1", "organic coffee", 0)
	require.NoError(t, err)
	assert.Contains(t, rec.ResolvedPrompt, "approximately 800 words")
	assert.NotContains(t, rec.ResolvedPrompt, "[VARIABLE_NOT_PROVIDED]")

	_, err = f.svc.GenerateMetaTitle(ctx, "t1", " ", "")
	assert.ErrorIs(t, err, errors.ErrInvalidParam)
}

func TestNewServiceConfigurationError(t *testing.T) {
	build := func(ctx context.Context, s llm.Settings) (llm.Generator, error) {
		return llm.NewGenerator(ctx, s, nil)
	}
	_, err := NewService(context.Background(), &fakeTemplates{}, newMemRecordRepo(), &fakeQuota{}, nil, &fakePublisher{},
		&staticSettings{s: llm.Settings{}}, build, config.GenerationConfig{})
	assert.ErrorIs(t, err, errors.ErrConfiguration)
}

func TestReloadSwapsGenerator(t *testing.T) {
	settings := &staticSettings{s: llm.Settings{APIKey: "sk-test"}}
	build := func(ctx context.Context, s llm.Settings) (llm.Generator, error) {
		return llm.NewGenerator(ctx, s, nil)
	}
	svc, err := NewService(context.Background(), &fakeTemplates{}, newMemRecordRepo(), &fakeQuota{limit: 1000}, nil, &fakePublisher{},
		settings, build, config.GenerationConfig{})
	require.NoError(t, err)
	assert.Equal(t, "mock", svc.GeneratorName())

	// 新配置不可用时保留原生成器
	settings.s = llm.Settings{}
	assert.ErrorIs(t, svc.Reload(context.Background()), errors.ErrConfiguration)
	assert.Equal(t, "mock", svc.GeneratorName())
}

func TestPageContextBlock(t *testing.T) {
	var nilPage *PageContext
	assert.Empty(t, nilPage.Block())
	assert.Empty(t, (&PageContext{URLPath: "  "}).Block())
	assert.Equal(t,
		"\n\nPage Context:\nMeta Title: Shoes\nContent Brief: short",
		(&PageContext{MetaTitle: "Shoes", ContentBrief: "short"}).Block())
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML("# Title\n\n- one\n- two")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Title</h1>")
	assert.Contains(t, html, "<li>one</li>")

	html, err = RenderHTML("")
	require.NoError(t, err)
	assert.Empty(t, html)
}
