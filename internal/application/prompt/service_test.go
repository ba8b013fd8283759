package prompt

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ainstein-ai-api/internal/domain/entity"
	"ainstein-ai-api/internal/domain/repository"
	"ainstein-ai-api/pkg/errors"
)

type memTemplateRepo struct {
	mu    sync.Mutex
	items map[string]*entity.PromptTemplate
	gets  int
}

func newMemTemplateRepo() *memTemplateRepo {
	return &memTemplateRepo{items: map[string]*entity.PromptTemplate{}}
}

func clone(t *entity.PromptTemplate) *entity.PromptTemplate {
	cp := *t
	return &cp
}

func (r *memTemplateRepo) Create(_ context.Context, tpl *entity.PromptTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[tpl.ID] = clone(tpl)
	return nil
}

func (r *memTemplateRepo) GetByID(_ context.Context, id string) (*entity.PromptTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	if t, ok := r.items[id]; ok {
		return clone(t), nil
	}
	return nil, nil
}

func (r *memTemplateRepo) GetByAlias(_ context.Context, tenantID, alias string) (*entity.PromptTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.items {
		if t.AliasValue() != alias {
			continue
		}
		if tenantID == "" && t.TenantID == nil {
			return clone(t), nil
		}
		if tenantID != "" && t.TenantID != nil && *t.TenantID == tenantID {
			return clone(t), nil
		}
	}
	return nil, nil
}

func (r *memTemplateRepo) Update(_ context.Context, tpl *entity.PromptTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[tpl.ID] = clone(tpl)
	return nil
}

func (r *memTemplateRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *memTemplateRepo) List(_ context.Context, tenantID string, filter *repository.PromptTemplateFilter, _ repository.Sort, p repository.Pagination) (*repository.PagedResult[*entity.PromptTemplate], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.PromptTemplate
	for _, t := range r.items {
		if t.IsSystem && !filter.IncludeSystem {
			continue
		}
		if !t.VisibleTo(tenantID) {
			continue
		}
		out = append(out, clone(t))
	}
	return repository.NewPagedResult(out, int64(len(out)), p), nil
}

func (r *memTemplateRepo) ExistsByAlias(_ context.Context, tenantID, alias, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.items {
		if t.ID != excludeID && t.AliasValue() == alias && t.TenantID != nil && *t.TenantID == tenantID {
			return true, nil
		}
	}
	return false, nil
}

type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deletes []string
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) GetOrLoadSafe(_ context.Context, key string, _ time.Duration, loader func() (interface{}, error)) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	v, err := loader()
	if err != nil || v == nil {
		return nil, err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	c.data[key] = b
	return b, nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
		c.deletes = append(c.deletes, k)
	}
	return nil
}

func strPtr(s string) *string { return &s }

func newTestService() (*Service, *memTemplateRepo, *memCache) {
	repo := newMemTemplateRepo()
	cache := newMemCache()
	return NewService(repo, cache, nil, time.Minute), repo, cache
}

func TestServiceCreateDetectsVariables(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	tpl, err := svc.Create(ctx, "t1", Input{
		Name:  strPtr("Landing"),
		Alias: strPtr("landing"),
		Body:  strPtr("Write about {{ topic }} for {{audience}} and {{topic}}"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tpl.ID)
	assert.Equal(t, []string{"topic", "audience"}, []string(tpl.Variables))
	assert.Equal(t, entity.PromptCategoryGeneral, tpl.Category)
	assert.True(t, tpl.IsActive)
	assert.False(t, tpl.IsSystem)
	require.NotNil(t, tpl.TenantID)
	assert.Equal(t, "t1", *tpl.TenantID)
}

func TestServiceCreateValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "t1", Input{Body: strPtr("x")})
	assert.ErrorIs(t, err, errors.ErrInvalidParam)

	_, err = svc.Create(ctx, "t1", Input{Name: strPtr("n"), Body: strPtr("   ")})
	assert.ErrorIs(t, err, errors.ErrInvalidParam)

	bad := entity.PromptCategory("poetry")
	_, err = svc.Create(ctx, "t1", Input{Name: strPtr("n"), Body: strPtr("b"), Category: &bad})
	assert.ErrorIs(t, err, errors.ErrInvalidParam)
}

func TestServiceAliasUniquePerTenant(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "t1", Input{Name: strPtr("a"), Alias: strPtr("dup"), Body: strPtr("b")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "t1", Input{Name: strPtr("b"), Alias: strPtr("dup"), Body: strPtr("b")})
	assert.ErrorIs(t, err, errors.ErrConflict)

	// 其他租户可复用同一别名
	_, err = svc.Create(ctx, "t2", Input{Name: strPtr("c"), Alias: strPtr("dup"), Body: strPtr("b")})
	assert.NoError(t, err)
}

func TestServiceGetVisibilityAndCache(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	tpl, err := svc.Create(ctx, "t1", Input{Name: strPtr("a"), Body: strPtr("{{x}}")})
	require.NoError(t, err)

	got, err := svc.Get(ctx, "t1", tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, tpl.ID, got.ID)

	before := repo.gets
	_, err = svc.Get(ctx, "t1", tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, before, repo.gets, "second read should be served from cache")

	_, err = svc.Get(ctx, "t2", tpl.ID)
	assert.ErrorIs(t, err, errors.ErrTemplateNotFound)

	_, err = svc.Get(ctx, "t1", "missing")
	assert.ErrorIs(t, err, errors.ErrTemplateNotFound)
}

func TestServiceUpdateInvalidatesCache(t *testing.T) {
	svc, _, cache := newTestService()
	ctx := context.Background()

	tpl, err := svc.Create(ctx, "t1", Input{Name: strPtr("a"), Body: strPtr("{{x}}")})
	require.NoError(t, err)
	_, err = svc.Get(ctx, "t1", tpl.ID)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "t1", tpl.ID, Input{Body: strPtr("{{y}} {{z}}")})
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "z"}, []string(updated.Variables))
	assert.Contains(t, cache.deletes, "prompt:tpl:"+tpl.ID)

	got, err := svc.Get(ctx, "t1", tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "{{y}} {{z}}", got.Body)
}

func TestServiceSystemTemplatesAreReadOnly(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	n, err := svc.SeedCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	sys, err := svc.GetByAlias(ctx, "t1", string(CatalogMetaTitle))
	require.NoError(t, err)
	assert.True(t, sys.IsSystem)

	_, err = svc.Update(ctx, "t1", sys.ID, Input{Name: strPtr("mine")})
	assert.ErrorIs(t, err, errors.ErrSystemTemplate)
	assert.ErrorIs(t, svc.Delete(ctx, "t1", sys.ID), errors.ErrSystemTemplate)

	// 重复播种不新增
	n, err = svc.SeedCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, repo.items, 5)
}

func TestServiceDuplicate(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	_, err := svc.SeedCatalog(ctx)
	require.NoError(t, err)

	sys, err := svc.GetByAlias(ctx, "t1", string(CatalogBlogArticle))
	require.NoError(t, err)

	cp, err := svc.Duplicate(ctx, "t1", sys.ID)
	require.NoError(t, err)
	assert.NotEqual(t, sys.ID, cp.ID)
	assert.Equal(t, "Blog Article (Copy)", cp.Name)
	assert.Nil(t, cp.Alias)
	assert.False(t, cp.IsSystem)
	assert.Equal(t, sys.Body, cp.Body)
	require.NotNil(t, cp.TenantID)
	assert.Equal(t, "t1", *cp.TenantID)

	// 副本归属租户，可编辑
	_, err = svc.Update(ctx, "t1", cp.ID, Input{Name: strPtr("My Blog")})
	assert.NoError(t, err)
}

func TestServiceDelete(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	tpl, err := svc.Create(ctx, "t1", Input{Name: strPtr("a"), Body: strPtr("b")})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, "t2", tpl.ID), errors.ErrTemplateNotFound)
	require.NoError(t, svc.Delete(ctx, "t1", tpl.ID))
	assert.Empty(t, repo.items)
}

func TestNormalizeSort(t *testing.T) {
	s := normalizeSort(repository.Sort{Field: "body; drop table", Order: "sideways"})
	assert.Equal(t, "created_at", s.Field)
	assert.Equal(t, repository.SortOrderDesc, s.Order)

	s = normalizeSort(repository.Sort{Field: "name", Order: repository.SortOrderAsc})
	assert.Equal(t, "name", s.Field)
	assert.Equal(t, repository.SortOrderAsc, s.Order)
}
