// Package settings 合并管理员覆盖与静态配置，构造显式的 LLM 配置对象
package settings

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"ainstein-ai-api/internal/config"
	"ainstein-ai-api/internal/domain/entity"
	"ainstein-ai-api/internal/domain/repository"
	"ainstein-ai-api/internal/infrastructure/llm"
	"ainstein-ai-api/pkg/errors"
	"ainstein-ai-api/pkg/logger"
)

var tracer = otel.Tracer("application.settings")

// 允许管理员覆盖的配置键
const (
	KeyProvider     = "llm.provider"
	KeyAPIKey       = "llm.api_key"
	KeyBaseURL      = "llm.base_url"
	KeyDefaultModel = "llm.default_model"
	KeyMaxTokens    = "llm.max_tokens"
	KeyTemperature  = "llm.temperature"
	KeyTimeout      = "llm.timeout"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindDuration
)

var allowedKeys = map[string]valueKind{
	KeyProvider:     kindString,
	KeyAPIKey:       kindString,
	KeyBaseURL:      kindString,
	KeyDefaultModel: kindString,
	KeyMaxTokens:    kindInt,
	KeyTemperature:  kindFloat,
	KeyTimeout:      kindDuration,
}

// AllowedKeys 返回可覆盖的配置键（有序）
func AllowedKeys() []string {
	keys := make([]string, 0, len(allowedKeys))
	for k := range allowedKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

const overridesCacheKey = "settings:overrides"

// LocalCache 进程内缓存（由 cache.Local 实现）
type LocalCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

// Resolver 配置解析器：管理员覆盖 > 静态配置 > 内置默认值
type Resolver struct {
	repo   repository.PlatformSettingRepository
	static config.LLMConfig
	cache  LocalCache
	ttl    time.Duration
}

// NewResolver 创建解析器；cache 可为 nil
func NewResolver(repo repository.PlatformSettingRepository, static config.LLMConfig, cache LocalCache, ttl time.Duration) *Resolver {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &Resolver{repo: repo, static: static, cache: cache, ttl: ttl}
}

// LLMSettings 计算当前生效的 LLM 配置
func (r *Resolver) LLMSettings(ctx context.Context) (llm.Settings, error) {
	ctx, span := tracer.Start(ctx, "settings.Resolver.LLMSettings")
	defer span.End()

	overrides, err := r.overrides(ctx)
	if err != nil {
		span.RecordError(err)
		return llm.Settings{}, err
	}

	provider := r.static.DefaultProvider
	if v := overrides[KeyProvider]; v != "" {
		provider = v
	}
	var pc config.ProviderConfig
	if r.static.Providers != nil {
		pc = r.static.Providers[provider]
	}

	s := llm.Settings{
		Provider:     provider,
		APIKey:       pc.APIKey,
		BaseURL:      pc.BaseURL,
		Model:        pc.Model,
		MaxTokens:    pc.MaxTokens,
		Temperature:  llm.DefaultTemperature,
		Timeout:      pc.Timeout,
		SystemPrompt: r.static.SystemPrompt,
		CostPerToken: r.static.CostPerToken,
		ModelRates:   r.static.CostPerTokenModels,
		Breaker:      r.static.Breaker,
	}
	if pc.Temperature != nil {
		s.Temperature = *pc.Temperature
	}

	if v := overrides[KeyAPIKey]; v != "" {
		s.APIKey = v
	}
	if v := overrides[KeyBaseURL]; v != "" {
		s.BaseURL = v
	}
	if v := overrides[KeyDefaultModel]; v != "" {
		s.Model = v
	}
	if v, ok := overrides[KeyMaxTokens]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.MaxTokens = n
		}
	}
	if v, ok := overrides[KeyTemperature]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			s.Temperature = f
		}
	}
	if v, ok := overrides[KeyTimeout]; ok {
		if d, err := parseDuration(v); err == nil {
			s.Timeout = d
		}
	}

	return s.WithDefaults(), nil
}

// Set 写入管理员覆盖；校验键名与值类型
func (r *Resolver) Set(ctx context.Context, key, value string) (*entity.PlatformSetting, error) {
	ctx, span := tracer.Start(ctx, "settings.Resolver.Set")
	defer span.End()

	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if err := Validate(key, value); err != nil {
		return nil, err
	}

	setting := &entity.PlatformSetting{Key: key, Value: value, UpdatedAt: time.Now()}
	if err := r.repo.Upsert(ctx, setting); err != nil {
		span.RecordError(err)
		return nil, err
	}
	r.invalidate(ctx)
	logger.Info(ctx, "platform setting updated", "key", key)
	return setting, nil
}

// Delete 删除管理员覆盖，回落到静态配置
func (r *Resolver) Delete(ctx context.Context, key string) error {
	ctx, span := tracer.Start(ctx, "settings.Resolver.Delete")
	defer span.End()

	if _, ok := allowedKeys[key]; !ok {
		return errors.ErrSettingInvalid.WithDetail("unknown setting key: " + key)
	}
	if err := r.repo.Delete(ctx, key); err != nil {
		span.RecordError(err)
		return err
	}
	r.invalidate(ctx)
	logger.Info(ctx, "platform setting deleted", "key", key)
	return nil
}

// List 列出全部覆盖项，密钥脱敏
func (r *Resolver) List(ctx context.Context) ([]*entity.PlatformSetting, error) {
	items, err := r.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.PlatformSetting, 0, len(items))
	for _, it := range items {
		cp := *it
		if cp.Key == KeyAPIKey {
			cp.Value = MaskSecret(cp.Value)
		}
		out = append(out, &cp)
	}
	return out, nil
}

// Validate 校验配置键与值
func Validate(key, value string) error {
	kind, ok := allowedKeys[key]
	if !ok {
		return errors.ErrSettingInvalid.WithDetail("unknown setting key: " + key)
	}
	if value == "" {
		return errors.ErrSettingInvalid.WithDetail(key + " must not be empty")
	}

	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return errors.ErrSettingInvalid.WithDetail(key + " must be a positive integer")
		}
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 || f > 2 {
			return errors.ErrSettingInvalid.WithDetail(key + " must be a number between 0 and 2")
		}
	case kindDuration:
		d, err := parseDuration(value)
		if err != nil || d <= 0 {
			return errors.ErrSettingInvalid.WithDetail(key + " must be a positive duration")
		}
	}
	return nil
}

// MaskSecret 仅保留前 4 位
func MaskSecret(v string) string {
	if len(v) <= 4 {
		return "****"
	}
	return v[:4] + "****"
}

// parseDuration 支持 "60s" 形式，纯数字按秒处理
func parseDuration(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}

func (r *Resolver) overrides(ctx context.Context) (map[string]string, error) {
	if r.cache != nil {
		if data, ok := r.cache.Get(ctx, overridesCacheKey); ok {
			var m map[string]string
			if err := json.Unmarshal(data, &m); err == nil {
				return m, nil
			}
		}
	}

	items, err := r.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(items))
	for _, it := range items {
		if _, ok := allowedKeys[it.Key]; ok {
			m[it.Key] = strings.TrimSpace(it.Value)
		}
	}

	if r.cache != nil {
		if data, err := json.Marshal(m); err == nil {
			r.cache.Set(ctx, overridesCacheKey, data, r.ttl)
		}
	}
	return m, nil
}

func (r *Resolver) invalidate(ctx context.Context) {
	if r.cache != nil {
		r.cache.Delete(ctx, overridesCacheKey)
	}
}
