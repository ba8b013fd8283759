package generation

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"ainstein-ai-api/internal/application/prompt"
	"ainstein-ai-api/internal/config"
	"ainstein-ai-api/internal/domain/entity"
	"ainstein-ai-api/internal/domain/repository"
	"ainstein-ai-api/internal/domain/service"
	"ainstein-ai-api/internal/infrastructure/llm"
	"ainstein-ai-api/internal/infrastructure/messaging"
	"ainstein-ai-api/pkg/errors"
	"ainstein-ai-api/pkg/logger"
	"ainstein-ai-api/pkg/metrics"
)

var tracer = otel.Tracer("application.generation")

const (
	msgQuotaExceeded = "token quota exceeded"
	msgEnqueueFailed = "failed to enqueue generation"

	defaultBlogWordCount = 800
)

// TemplateSource 模板读取（由 prompt.Service 实现）
type TemplateSource interface {
	Get(ctx context.Context, tenantID, id string) (*entity.PromptTemplate, error)
	GetByAlias(ctx context.Context, tenantID, alias string) (*entity.PromptTemplate, error)
}

// QuotaAccountant 配额记账（由 quota.Accountant 实现）
type QuotaAccountant interface {
	CheckAndReserve(ctx context.Context, tenantID string, tokens int64) (bool, error)
	Settle(ctx context.Context, tenantID string, delta int64) error
	Release(ctx context.Context, tenantID string, tokens int64) error
}

// SettingsSource 生效配置来源（由 settings.Resolver 实现）
type SettingsSource interface {
	LLMSettings(ctx context.Context) (llm.Settings, error)
}

// JobPublisher 异步任务投递（由 messaging.Producer 实现）
type JobPublisher interface {
	PublishGenerationJob(ctx context.Context, job *messaging.GenerationJobMessage) (string, error)
}

// GeneratorBuilder 按配置构造生成器
type GeneratorBuilder func(ctx context.Context, s llm.Settings) (llm.Generator, error)

// active 当前生效的生成器与其配置，整体原子替换
type active struct {
	gen      llm.Generator
	settings llm.Settings
}

// Service 内容生成服务
type Service struct {
	templates TemplateSource
	records   repository.GenerationRepository
	quota     QuotaAccountant
	usage     service.LLMUsageRecorder
	publisher JobPublisher
	settings  SettingsSource
	build     GeneratorBuilder
	cfg       config.GenerationConfig

	current atomic.Pointer[active]
	now     func() time.Time
}

// NewService 创建生成服务并立即构造生成器；配置不可用时返回 ErrConfiguration
func NewService(
	ctx context.Context,
	templates TemplateSource,
	records repository.GenerationRepository,
	quota QuotaAccountant,
	usage service.LLMUsageRecorder,
	publisher JobPublisher,
	settings SettingsSource,
	build GeneratorBuilder,
	cfg config.GenerationConfig,
) (*Service, error) {
	if cfg.MaxInstructionChars <= 0 {
		cfg.MaxInstructionChars = DefaultMaxInstructionChars
	}
	s := &Service{
		templates: templates,
		records:   records,
		quota:     quota,
		usage:     usage,
		publisher: publisher,
		settings:  settings,
		build:     build,
		cfg:       cfg,
		now:       time.Now,
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload 重新解析配置并原子替换生成器；失败时保留原生成器
func (s *Service) Reload(ctx context.Context) error {
	settings, err := s.settings.LLMSettings(ctx)
	if err != nil {
		return err
	}
	gen, err := s.build(ctx, settings)
	if err != nil {
		return err
	}
	s.current.Store(&active{gen: gen, settings: settings.WithDefaults()})
	logger.Info(ctx, "generator reloaded", "generator", gen.Name(), "model", settings.Model)
	return nil
}

// GeneratorName 当前生成器名称
func (s *Service) GeneratorName() string {
	if a := s.current.Load(); a != nil {
		return a.gen.Name()
	}
	return ""
}

// Generate 同步生成：返回已处于终态的记录。
// 配额不足时记录为 failed 并返回 ErrQuotaExceeded。
func (s *Service) Generate(ctx context.Context, req *Request) (*entity.GenerationRecord, error) {
	ctx, span := tracer.Start(ctx, "generation.Service.Generate")
	defer span.End()

	rec, err := s.prepare(ctx, req, entity.ExecutionModeSync)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("generation.id", rec.ID))
	return s.run(ctx, rec, req.Variables)
}

// Submit 异步生成：创建 pending 记录并投递到队列
func (s *Service) Submit(ctx context.Context, req *Request) (*entity.GenerationRecord, error) {
	ctx, span := tracer.Start(ctx, "generation.Service.Submit")
	defer span.End()

	rec, err := s.prepare(ctx, req, entity.ExecutionModeAsync)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := s.enqueue(ctx, rec, req.Variables); err != nil {
		span.RecordError(err)
		return rec, err
	}
	return rec, nil
}

// Execute 由 worker 调用：执行 pending 记录。终态记录直接跳过，不会被修改
func (s *Service) Execute(ctx context.Context, recordID string, variables map[string]string) (*entity.GenerationRecord, error) {
	ctx, span := tracer.Start(ctx, "generation.Service.Execute")
	span.SetAttributes(attribute.String("generation.id", recordID))
	defer span.End()

	if s.cfg.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.JobTimeout)
		defer cancel()
	}

	rec, err := s.records.GetByID(ctx, recordID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if rec == nil {
		return nil, errors.ErrGenerationNotFound.WithDetail(recordID)
	}
	if rec.IsTerminal() {
		logger.Info(ctx, "generation already terminal, skipping", "generation_id", rec.ID, "status", string(rec.Status))
		return rec, nil
	}

	// 上一次执行中断时遗留的预占需先归还
	if rec.TokensReserved > 0 {
		if err := s.quota.Release(ctx, rec.TenantID, int64(rec.TokensReserved)); err != nil {
			return nil, err
		}
		rec.TokensReserved = 0
		if err := s.records.MarkStarted(ctx, rec.ID, s.now(), 0); err != nil {
			return nil, err
		}
	}

	rec, err = s.run(ctx, rec, variables)
	// 配额拒绝已将记录写为 failed，队列重试无意义
	if err != nil && errors.AsAppError(err).Code == errors.CodeQuotaExceeded {
		logger.Warn(ctx, "generation rejected by quota", "generation_id", rec.ID, "tenant_id", rec.TenantID)
		return rec, nil
	}
	return rec, err
}

// Abandon 队列任务重试耗尽后调用：仍为 pending 的记录标记为 failed 并归还预占
func (s *Service) Abandon(ctx context.Context, recordID, reason string) error {
	rec, err := s.records.GetByID(ctx, recordID)
	if err != nil {
		return err
	}
	if rec == nil || rec.IsTerminal() {
		return nil
	}
	if rec.TokensReserved > 0 {
		s.release(ctx, rec.TenantID, int64(rec.TokensReserved))
	}
	s.fail(ctx, rec, "job failed after maximum retry attempts: "+reason)
	metrics.GenerationTotal.WithLabelValues(string(rec.ExecutionMode), string(rec.Status)).Inc()
	return nil
}

// Retry 基于失败记录创建新记录；原记录保持不变
func (s *Service) Retry(ctx context.Context, tenantID, recordID string, mode entity.ExecutionMode) (*entity.GenerationRecord, error) {
	ctx, span := tracer.Start(ctx, "generation.Service.Retry")
	defer span.End()

	src, err := s.Get(ctx, tenantID, recordID)
	if err != nil {
		return nil, err
	}
	if !src.CanRetry() {
		return nil, errors.ErrInvalidState.WithDetail("only failed generations can be retried")
	}

	rec := src.NewRetry(mode)
	rec.ID = uuid.NewString()
	if err := s.records.Create(ctx, rec); err != nil {
		span.RecordError(err)
		return nil, err
	}
	logger.Info(ctx, "generation retry created", "generation_id", rec.ID, "retry_of", src.ID)

	if mode == entity.ExecutionModeAsync {
		return rec, s.enqueue(ctx, rec, nil)
	}
	return s.run(ctx, rec, nil)
}

// Get 获取租户的生成记录
func (s *Service) Get(ctx context.Context, tenantID, id string) (*entity.GenerationRecord, error) {
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.TenantID != tenantID {
		return nil, errors.ErrGenerationNotFound
	}
	return rec, nil
}

// List 列出租户的生成记录
func (s *Service) List(ctx context.Context, tenantID string, filter *repository.GenerationFilter, p repository.Pagination) (*repository.PagedResult[*entity.GenerationRecord], error) {
	return s.records.ListByTenant(ctx, tenantID, filter, p)
}

// GenerateMetaTitle 生成 3 个 meta title
func (s *Service) GenerateMetaTitle(ctx context.Context, tenantID, keyword, category string) (*entity.GenerationRecord, error) {
	return s.generateCatalog(ctx, tenantID, prompt.CatalogMetaTitle, map[string]string{
		"keyword":  keyword,
		"category": categoryOrDefault(category),
	})
}

// GenerateMetaDescription 生成 2 个 meta description
func (s *Service) GenerateMetaDescription(ctx context.Context, tenantID, keyword, category string) (*entity.GenerationRecord, error) {
	return s.generateCatalog(ctx, tenantID, prompt.CatalogMetaDescription, map[string]string{
		"keyword":  keyword,
		"category": categoryOrDefault(category),
	})
}

// GenerateBlogArticle 生成博客文章；wordCount <= 0 时为 800
func (s *Service) GenerateBlogArticle(ctx context.Context, tenantID, keyword string, wordCount int) (*entity.GenerationRecord, error) {
	if wordCount <= 0 {
		wordCount = defaultBlogWordCount
	}
	return s.generateCatalog(ctx, tenantID, prompt.CatalogBlogArticle, map[string]string{
		"keyword":    keyword,
		"word_count": strconv.Itoa(wordCount),
	})
}

func (s *Service) generateCatalog(ctx context.Context, tenantID string, id prompt.CatalogID, vars map[string]string) (*entity.GenerationRecord, error) {
	if strings.TrimSpace(vars["keyword"]) == "" {
		return nil, errors.ErrInvalidParam.WithDetail("keyword is required")
	}
	body, err := prompt.CatalogBody(id)
	if err != nil {
		return nil, err
	}
	return s.Generate(ctx, &Request{
		TenantID:   tenantID,
		Body:       body,
		Variables:  vars,
		PromptType: string(id),
	})
}

func categoryOrDefault(c string) string {
	if c = strings.TrimSpace(c); c == "" {
		return string(entity.PromptCategoryGeneral)
	}
	return c
}

// prepare 解析提示词并创建 pending 记录
func (s *Service) prepare(ctx context.Context, req *Request, mode entity.ExecutionMode) (*entity.GenerationRecord, error) {
	if req == nil {
		return nil, errors.ErrInvalidParam.WithDetail("request is required")
	}
	if err := req.Validate(s.cfg.MaxInstructionChars); err != nil {
		return nil, err
	}

	body := req.Body
	promptType := strings.TrimSpace(req.PromptType)
	var templateID *string

	if req.TemplateID != "" || req.TemplateAlias != "" {
		var (
			tpl *entity.PromptTemplate
			err error
		)
		if req.TemplateID != "" {
			tpl, err = s.templates.Get(ctx, req.TenantID, req.TemplateID)
		} else {
			tpl, err = s.templates.GetByAlias(ctx, req.TenantID, req.TemplateAlias)
		}
		if err != nil {
			return nil, err
		}
		if !tpl.IsActive {
			return nil, errors.ErrTemplateInactive.WithDetail(tpl.ID)
		}
		id := tpl.ID
		templateID = &id
		body = tpl.Body
		if promptType == "" {
			promptType = tpl.AliasValue()
		}
	}
	if promptType == "" {
		promptType = "custom"
	}

	if missing := prompt.MissingVariables(body, req.Variables); len(missing) > 0 {
		logger.Info(ctx, "prompt variables not provided",
			"tenant_id", req.TenantID, "prompt_type", promptType, "missing", strings.Join(missing, ","))
		metrics.PromptVariablesMissing.Add(float64(len(missing)))
	}
	resolved := prompt.Resolve(body, req.Variables) + req.Page.Block()

	rec := entity.NewGenerationRecord(req.TenantID, templateID, resolved, mode)
	rec.ID = uuid.NewString()
	rec.PromptType = promptType
	rec.Instructions = strings.TrimSpace(req.AdditionalInstructions)
	rec.Model = strings.TrimSpace(req.Model)
	rec.MaxTokens = req.MaxTokens
	rec.Temperature = req.Temperature

	if err := s.records.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) enqueue(ctx context.Context, rec *entity.GenerationRecord, vars map[string]string) error {
	job := &messaging.GenerationJobMessage{
		GenerationID: rec.ID,
		TenantID:     rec.TenantID,
		Variables:    vars,
	}
	if _, err := s.publisher.PublishGenerationJob(ctx, job); err != nil {
		logger.Error(ctx, "failed to publish generation job", err, "generation_id", rec.ID)
		if rec.Fail(msgEnqueueFailed) {
			if _, mErr := s.records.MarkFailed(ctx, rec); mErr != nil {
				logger.Error(ctx, "failed to mark generation failed", mErr, "generation_id", rec.ID)
			}
		}
		metrics.GenerationTotal.WithLabelValues(string(rec.ExecutionMode), string(entity.GenerationStatusFailed)).Inc()
		return errors.ErrServiceUnavailable.WithDetail(msgEnqueueFailed).WithError(err)
	}
	logger.Info(ctx, "generation queued", "generation_id", rec.ID)
	return nil
}

// run 预占配额 -> 调用生成器 -> 结算并写入终态
func (s *Service) run(ctx context.Context, rec *entity.GenerationRecord, vars map[string]string) (*entity.GenerationRecord, error) {
	cur := s.current.Load()
	start := s.now()
	defer func() {
		metrics.GenerationDuration.WithLabelValues(string(rec.ExecutionMode)).Observe(time.Since(start).Seconds())
		metrics.GenerationTotal.WithLabelValues(string(rec.ExecutionMode), string(rec.Status)).Inc()
	}()

	maxTokens := rec.MaxTokens
	if maxTokens <= 0 {
		maxTokens = cur.settings.MaxTokens
	}
	estimate := int64(llm.EstimateTokens(rec.ResolvedPrompt+rec.Instructions) + maxTokens)

	ok, err := s.quota.CheckAndReserve(ctx, rec.TenantID, estimate)
	if err != nil {
		s.fail(ctx, rec, "quota check failed: "+err.Error())
		return rec, err
	}
	if !ok {
		s.fail(ctx, rec, msgQuotaExceeded)
		return rec, errors.ErrQuotaExceeded.WithDetail(rec.ID)
	}

	rec.Start()
	rec.TokensReserved = int(estimate)
	if err := s.records.MarkStarted(ctx, rec.ID, *rec.StartedAt, rec.TokensReserved); err != nil {
		s.release(ctx, rec.TenantID, estimate)
		return rec, err
	}

	res := cur.gen.Generate(service.WithWorkflow(ctx, rec.PromptType), rec.ResolvedPrompt, llm.Options{
		Model:                  rec.Model,
		MaxTokens:              maxTokens,
		Temperature:            rec.Temperature,
		AdditionalInstructions: rec.Instructions,
		Variables:              vars,
	})

	if !res.Success {
		s.fail(ctx, rec, res.Error)
		s.release(ctx, rec.TenantID, estimate)
		return rec, nil
	}

	rec.Complete(res.Text(), res.Model, res.TokensUsed, res.Cost)
	updated, err := s.records.MarkCompleted(ctx, rec)
	if err != nil {
		s.release(ctx, rec.TenantID, estimate)
		return rec, err
	}
	if !updated {
		// 并发执行已写入终态
		s.release(ctx, rec.TenantID, estimate)
		latest, err := s.records.GetByID(ctx, rec.ID)
		if err != nil || latest == nil {
			return rec, err
		}
		return latest, nil
	}

	if err := s.quota.Settle(ctx, rec.TenantID, int64(res.TokensUsed)-estimate); err != nil {
		logger.Error(ctx, "failed to settle token quota", err, "generation_id", rec.ID)
	}
	if s.usage != nil {
		_ = s.usage.Record(ctx, service.LLMUsageInput{
			TenantID:         rec.TenantID,
			GenerationID:     rec.ID,
			Workflow:         rec.PromptType,
			Provider:         res.Provider,
			Model:            res.Model,
			PromptTokens:     res.PromptTokens,
			CompletionTokens: res.CompletionTokens,
			TotalTokens:      res.TokensUsed,
			Cost:             res.Cost,
			DurationMs:       res.DurationMs,
		})
	}

	logger.Info(ctx, "generation completed",
		"generation_id", rec.ID,
		"tokens_used", rec.TokensUsed,
		"model", rec.Model,
		"duration_ms", rec.GenerationTimeMs,
	)
	return rec, nil
}

func (s *Service) fail(ctx context.Context, rec *entity.GenerationRecord, msg string) {
	if strings.TrimSpace(msg) == "" {
		msg = "generation failed"
	}
	if !rec.Fail(msg) {
		return
	}
	if _, err := s.records.MarkFailed(ctx, rec); err != nil {
		logger.Error(ctx, "failed to mark generation failed", err, "generation_id", rec.ID)
		return
	}
	logger.Warn(ctx, "generation failed", "generation_id", rec.ID, "error", msg)
}

func (s *Service) release(ctx context.Context, tenantID string, tokens int64) {
	if err := s.quota.Release(ctx, tenantID, tokens); err != nil {
		logger.Error(ctx, "failed to release token reservation", err, "tenant_id", tenantID, "tokens", tokens)
	}
}
