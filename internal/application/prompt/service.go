package prompt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"ainstein-ai-api/internal/domain/entity"
	"ainstein-ai-api/internal/domain/repository"
	"ainstein-ai-api/pkg/errors"
	"ainstein-ai-api/pkg/logger"
)

var tracer = otel.Tracer("application.prompt")

const (
	maxNameLen  = 255
	maxAliasLen = 100
	maxBodyLen  = 20000
)

// TemplateCache 模板读缓存（由 redis.Cache 实现）
type TemplateCache interface {
	GetOrLoadSafe(ctx context.Context, key string, ttl time.Duration, loader func() (interface{}, error)) ([]byte, error)
	Delete(ctx context.Context, keys ...string) error
}

// CacheKeyFunc 构造模板缓存键
type CacheKeyFunc func(id string) string

// Input 创建/更新模板的输入；更新时 nil 字段保持不变
type Input struct {
	Name        *string
	Alias       *string
	Description *string
	Body        *string
	Category    *entity.PromptCategory
	IsActive    *bool
}

// ListQuery 列表查询参数
type ListQuery struct {
	Filter     repository.PromptTemplateFilter
	Sort       repository.Sort
	Pagination repository.Pagination
}

// Service 提示词模板服务
type Service struct {
	repo     repository.PromptTemplateRepository
	cache    TemplateCache
	cacheKey CacheKeyFunc
	ttl      time.Duration
}

// NewService 创建模板服务；cache 可为 nil（直接读库）
func NewService(repo repository.PromptTemplateRepository, cache TemplateCache, cacheKey CacheKeyFunc, ttl time.Duration) *Service {
	if cacheKey == nil {
		cacheKey = func(id string) string { return "prompt:tpl:" + id }
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Service{repo: repo, cache: cache, cacheKey: cacheKey, ttl: ttl}
}

// Create 创建租户模板
func (s *Service) Create(ctx context.Context, tenantID string, in Input) (*entity.PromptTemplate, error) {
	ctx, span := tracer.Start(ctx, "prompt.Service.Create")
	defer span.End()

	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, errors.ErrInvalidParam.WithDetail("name is required")
	}
	if in.Body == nil || strings.TrimSpace(*in.Body) == "" {
		return nil, errors.ErrInvalidParam.WithDetail("body is required")
	}

	tid := tenantID
	tpl := &entity.PromptTemplate{
		ID:       uuid.NewString(),
		TenantID: &tid,
		Category: entity.PromptCategoryGeneral,
		IsActive: true,
	}
	if err := s.apply(ctx, tenantID, tpl, in); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, tpl); err != nil {
		span.RecordError(err)
		return nil, err
	}

	logger.Info(ctx, "prompt template created", "template_id", tpl.ID, "variables", len(tpl.Variables))
	return tpl, nil
}

// Update 更新租户模板；系统模板不可由租户修改
func (s *Service) Update(ctx context.Context, tenantID, id string, in Input) (*entity.PromptTemplate, error) {
	ctx, span := tracer.Start(ctx, "prompt.Service.Update")
	defer span.End()

	tpl, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tpl == nil || !tpl.VisibleTo(tenantID) {
		return nil, errors.ErrTemplateNotFound
	}
	if !tpl.OwnedBy(tenantID) {
		return nil, errors.ErrSystemTemplate
	}

	if err := s.apply(ctx, tenantID, tpl, in); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, tpl); err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.invalidate(ctx, id)
	return tpl, nil
}

// Get 读取模板（Read-Through 缓存），仅返回对租户可见的模板
func (s *Service) Get(ctx context.Context, tenantID, id string) (*entity.PromptTemplate, error) {
	ctx, span := tracer.Start(ctx, "prompt.Service.Get")
	span.SetAttributes(attribute.String("template.id", id))
	defer span.End()

	tpl, err := s.load(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if tpl == nil || !tpl.VisibleTo(tenantID) {
		return nil, errors.ErrTemplateNotFound
	}
	return tpl, nil
}

// GetByAlias 按别名查找模板：先查租户模板，再查系统模板
func (s *Service) GetByAlias(ctx context.Context, tenantID, alias string) (*entity.PromptTemplate, error) {
	tpl, err := s.repo.GetByAlias(ctx, tenantID, alias)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		tpl, err = s.repo.GetByAlias(ctx, "", alias)
		if err != nil {
			return nil, err
		}
	}
	if tpl == nil {
		return nil, errors.ErrTemplateNotFound.WithDetail(alias)
	}
	return tpl, nil
}

// List 列出租户可见模板
func (s *Service) List(ctx context.Context, tenantID string, q ListQuery) (*repository.PagedResult[*entity.PromptTemplate], error) {
	ctx, span := tracer.Start(ctx, "prompt.Service.List")
	defer span.End()

	q.Sort = normalizeSort(q.Sort)
	return s.repo.List(ctx, tenantID, &q.Filter, q.Sort, q.Pagination)
}

// Delete 删除租户模板；系统模板不可删除
func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	ctx, span := tracer.Start(ctx, "prompt.Service.Delete")
	defer span.End()

	tpl, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if tpl == nil || !tpl.VisibleTo(tenantID) {
		return errors.ErrTemplateNotFound
	}
	if !tpl.OwnedBy(tenantID) {
		return errors.ErrSystemTemplate
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}
	s.invalidate(ctx, id)
	logger.Info(ctx, "prompt template deleted", "template_id", id)
	return nil
}

// Duplicate 复制可见模板为租户自有模板
func (s *Service) Duplicate(ctx context.Context, tenantID, id string) (*entity.PromptTemplate, error) {
	ctx, span := tracer.Start(ctx, "prompt.Service.Duplicate")
	defer span.End()

	src, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	cp := src.Copy(tenantID)
	cp.ID = uuid.NewString()
	if err := s.repo.Create(ctx, cp); err != nil {
		span.RecordError(err)
		return nil, err
	}
	logger.Info(ctx, "prompt template duplicated", "source_id", id, "template_id", cp.ID)
	return cp, nil
}

// DetectVariables 供前端构建动态表单
func (s *Service) DetectVariables(body string) []string {
	return DetectVariables(body)
}

// SeedCatalog 将内置模板写入为系统模板；按别名幂等
func (s *Service) SeedCatalog(ctx context.Context) (int, error) {
	created := 0
	for _, id := range CatalogIDs() {
		existing, err := s.repo.GetByAlias(ctx, "", string(id))
		if err != nil {
			return created, err
		}
		tpl, err := CatalogTemplate(id)
		if err != nil {
			return created, err
		}
		if existing != nil {
			existing.Body = tpl.Body
			existing.Variables = tpl.Variables
			existing.Description = tpl.Description
			if err := s.repo.Update(ctx, existing); err != nil {
				return created, err
			}
			s.invalidate(ctx, existing.ID)
			continue
		}
		tpl.ID = uuid.NewString()
		if err := s.repo.Create(ctx, tpl); err != nil {
			return created, fmt.Errorf("failed to seed prompt %s: %w", id, err)
		}
		created++
	}
	return created, nil
}

func (s *Service) apply(ctx context.Context, tenantID string, tpl *entity.PromptTemplate, in Input) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" || len(name) > maxNameLen {
			return errors.ErrInvalidParam.WithDetail("name must be 1-255 characters")
		}
		tpl.Name = name
	}
	if in.Body != nil {
		body := *in.Body
		if strings.TrimSpace(body) == "" || len(body) > maxBodyLen {
			return errors.ErrInvalidParam.WithDetail("body must be non-empty and at most 20000 characters")
		}
		tpl.Body = body
		tpl.Variables = DetectVariables(body)
	}
	if in.Description != nil {
		tpl.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		if !in.Category.IsValid() {
			return errors.ErrInvalidParam.WithDetail("unknown category: " + string(*in.Category))
		}
		tpl.Category = *in.Category
	}
	if in.IsActive != nil {
		tpl.IsActive = *in.IsActive
	}
	if in.Alias != nil {
		alias := strings.TrimSpace(*in.Alias)
		if alias == "" {
			tpl.Alias = nil
		} else {
			if len(alias) > maxAliasLen {
				return errors.ErrInvalidParam.WithDetail("alias must be at most 100 characters")
			}
			exists, err := s.repo.ExistsByAlias(ctx, tenantID, alias, tpl.ID)
			if err != nil {
				return err
			}
			if exists {
				return errors.ErrConflict.WithDetail("alias already in use: " + alias)
			}
			tpl.Alias = &alias
		}
	}
	return nil
}

func (s *Service) load(ctx context.Context, id string) (*entity.PromptTemplate, error) {
	if s.cache == nil {
		return s.repo.GetByID(ctx, id)
	}

	data, err := s.cache.GetOrLoadSafe(ctx, s.cacheKey(id), s.ttl, func() (interface{}, error) {
		tpl, err := s.repo.GetByID(ctx, id)
		if err != nil || tpl == nil {
			return nil, err
		}
		return tpl, nil
	})
	if err != nil {
		// 缓存不可用时降级读库
		logger.Warn(ctx, "template cache unavailable, falling back to database", "error", err.Error())
		return s.repo.GetByID(ctx, id)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var tpl entity.PromptTemplate
	if err := json.Unmarshal(data, &tpl); err != nil {
		return nil, fmt.Errorf("failed to decode cached template: %w", err)
	}
	return &tpl, nil
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.cacheKey(id)); err != nil {
		logger.Warn(ctx, "failed to invalidate template cache", "template_id", id, "error", err.Error())
	}
}

var sortFields = map[string]struct{}{
	"created_at": {},
	"name":       {},
	"category":   {},
}

func normalizeSort(s repository.Sort) repository.Sort {
	if _, ok := sortFields[s.Field]; !ok {
		s.Field = "created_at"
	}
	if s.Order != repository.SortOrderAsc {
		s.Order = repository.SortOrderDesc
	}
	return s
}
