package wire

import (
	"context"

	"ainstein-ai-api/internal/application/generation"
	"ainstein-ai-api/internal/application/prompt"
	"ainstein-ai-api/internal/application/quota"
	"ainstein-ai-api/internal/application/settings"
	"ainstein-ai-api/internal/config"
	"ainstein-ai-api/internal/domain/repository"
	"ainstein-ai-api/internal/infrastructure/cache"
	"ainstein-ai-api/internal/infrastructure/llm"
	"ainstein-ai-api/internal/infrastructure/messaging"
	"ainstein-ai-api/internal/infrastructure/persistence/postgres"
	"ainstein-ai-api/internal/infrastructure/persistence/redis"
	"ainstein-ai-api/internal/interfaces/http/handler"
	"ainstein-ai-api/internal/interfaces/http/router"
)

// App api-gateway 依赖容器
type App struct {
	Router     *router.Router
	Generation *generation.Service
}

// Worker job-worker 依赖容器
type Worker struct {
	Redis      *redis.Client
	Generation *generation.Service
}

// PostgresOnlyDataLayer 仅包含 PostgreSQL 的数据层（用于 bootstrap）
type PostgresOnlyDataLayer struct {
	PgClient   *postgres.Client
	TxManager  *postgres.TxManager
	TenantRepo *postgres.TenantRepository
	Prompts    *prompt.Service
}

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideMessagingProducer 提供消息生产者
func ProvideMessagingProducer(redisClient *redis.Client, cfg *config.Config) *messaging.Producer {
	return messaging.NewProducer(redisClient.Redis(), int64(cfg.Messaging.RedisStream.MaxLen))
}

// ProvideLocalCache 提供进程内 L1 缓存
func ProvideLocalCache(cfg *config.Config) (*cache.Local, func(), error) {
	local, err := cache.NewLocal(cfg.Cache.Local.MaxCost)
	if err != nil {
		return nil, nil, err
	}
	return local, local.Close, nil
}

// ProvideSettingsResolver 提供配置解析器（管理员覆盖 > 静态配置 > 默认值）
func ProvideSettingsResolver(repo repository.PlatformSettingRepository, local *cache.Local, cfg *config.Config) *settings.Resolver {
	return settings.NewResolver(repo, cfg.LLM, local, cfg.Cache.Local.SettingTTL)
}

// ProvidePromptService 提供带 Redis 读缓存的模板服务
func ProvidePromptService(repo repository.PromptTemplateRepository, c *redis.Cache, cfg *config.Config) *prompt.Service {
	return prompt.NewService(repo, c, redis.TemplateKey, cfg.Generation.TemplateCacheTTL)
}

// ProvideUncachedPromptService 直接读库的模板服务（bootstrap 无 Redis）
func ProvideUncachedPromptService(repo repository.PromptTemplateRepository, cfg *config.Config) *prompt.Service {
	return prompt.NewService(repo, nil, nil, cfg.Generation.TemplateCacheTTL)
}

// ProvideGeneratorBuilder 提供生成器构造函数，所有重建共享同一提供商工厂
func ProvideGeneratorBuilder() generation.GeneratorBuilder {
	factory := llm.NewProviderFactory()
	return func(ctx context.Context, s llm.Settings) (llm.Generator, error) {
		return llm.NewGenerator(ctx, s, factory)
	}
}

// ProvideGenerationService 提供生成服务；LLM 配置无效时返回 ErrConfiguration
func ProvideGenerationService(
	ctx context.Context,
	templates generation.TemplateSource,
	records repository.GenerationRepository,
	accountant generation.QuotaAccountant,
	usage *quota.LLMUsageRecorder,
	publisher generation.JobPublisher,
	source generation.SettingsSource,
	build generation.GeneratorBuilder,
	cfg *config.Config,
) (*generation.Service, error) {
	return generation.NewService(ctx, templates, records, accountant, usage, publisher, source, build, cfg.Generation)
}

// ProvideGenerationOptions 提供生成接口的处理选项
func ProvideGenerationOptions(cfg *config.Config) handler.GenerationOptions {
	return handler.GenerationOptions{
		DefaultMode:   cfg.Generation.DefaultMode,
		RenderPreview: cfg.Generation.RenderPreview,
	}
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(cfg *config.Config, pg *postgres.Client, rc *redis.Client) *handler.HealthHandler {
	return handler.NewHealthHandler(cfg.App.Version, pg, rc)
}
