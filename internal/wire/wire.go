//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"ainstein-ai-api/internal/application/generation"
	"ainstein-ai-api/internal/application/prompt"
	"ainstein-ai-api/internal/application/quota"
	"ainstein-ai-api/internal/application/settings"
	"ainstein-ai-api/internal/config"
	"ainstein-ai-api/internal/domain/repository"
	"ainstein-ai-api/internal/infrastructure/messaging"
	"ainstein-ai-api/internal/infrastructure/persistence/postgres"
	"ainstein-ai-api/internal/infrastructure/persistence/redis"
	"ainstein-ai-api/internal/interfaces/http/handler"
	"ainstein-ai-api/internal/interfaces/http/middleware"
	"ainstein-ai-api/internal/interfaces/http/router"
)

// InitializeApp 初始化 api-gateway（路由器 + 生成服务）
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		MessagingSet,
		GenerationSet,
		RouterSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}

// InitializeWorker 初始化 job-worker
func InitializeWorker(ctx context.Context, cfg *config.Config) (*Worker, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		MessagingSet,
		GenerationSet,
		wire.Struct(new(Worker), "*"),
	)
	return nil, nil, nil
}

// InitializePostgresOnly 仅初始化 PostgreSQL 数据层（用于 bootstrap）
func InitializePostgresOnly(ctx context.Context, cfg *config.Config) (*PostgresOnlyDataLayer, func(), error) {
	wire.Build(
		RepoSet,
		ProvideUncachedPromptService,
		wire.Struct(new(PostgresOnlyDataLayer), "*"),
	)
	return nil, nil, nil
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewTenantRepository,
	postgres.NewPromptTemplateRepository,
	postgres.NewGenerationRepository,
	postgres.NewLLMUsageEventRepository,
	postgres.NewPlatformSettingRepository,
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = wire.NewSet(
	PostgresSet,
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.TenantRepository), new(*postgres.TenantRepository)),
	wire.Bind(new(repository.PromptTemplateRepository), new(*postgres.PromptTemplateRepository)),
	wire.Bind(new(repository.GenerationRepository), new(*postgres.GenerationRepository)),
	wire.Bind(new(repository.LLMUsageEventRepository), new(*postgres.LLMUsageEventRepository)),
	wire.Bind(new(repository.PlatformSettingRepository), new(*postgres.PlatformSettingRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
	redis.NewRateLimiter,
	wire.Bind(new(middleware.RateLimiter), new(*redis.RateLimiter)),
)

// MessagingSet 消息队列提供者集合
var MessagingSet = wire.NewSet(
	ProvideMessagingProducer,
	wire.Bind(new(generation.JobPublisher), new(*messaging.Producer)),
)

// GenerationSet 模板、配额、配置与生成服务
var GenerationSet = wire.NewSet(
	ProvideLocalCache,
	ProvideSettingsResolver,
	ProvidePromptService,
	quota.NewAccountant,
	quota.NewLLMUsageRecorder,
	ProvideGeneratorBuilder,
	ProvideGenerationService,
	wire.Bind(new(generation.TemplateSource), new(*prompt.Service)),
	wire.Bind(new(generation.QuotaAccountant), new(*quota.Accountant)),
	wire.Bind(new(generation.SettingsSource), new(*settings.Resolver)),
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideGenerationOptions,
	ProvideHealthHandler,
	handler.NewPromptHandler,
	handler.NewGenerationHandler,
	handler.NewUsageHandler,
	handler.NewSettingsHandler,
	wire.Bind(new(handler.PromptService), new(*prompt.Service)),
	wire.Bind(new(handler.GenerationService), new(*generation.Service)),
	wire.Bind(new(handler.UsageService), new(*quota.Accountant)),
	wire.Bind(new(handler.SettingsService), new(*settings.Resolver)),
	wire.Bind(new(handler.GeneratorAdmin), new(*generation.Service)),
	wire.Bind(new(middleware.TenantLookup), new(*postgres.TenantRepository)),
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)
