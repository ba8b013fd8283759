// Package main 初始化数据库：执行迁移、创建默认租户并写入内置提示词模板
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"ainstein-ai-api/internal/config"
	"ainstein-ai-api/internal/domain/entity"
	"ainstein-ai-api/internal/infrastructure/persistence/postgres"
	"ainstein-ai-api/internal/wire"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting system bootstrap...")

	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. 执行数据库迁移
	dsn := postgres.DSN(&cfg.Database.Postgres)
	if err := postgres.RunMigrations(ctx, dsn); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	version, err := postgres.MigrationVersion(ctx, dsn)
	if err != nil {
		log.Fatalf("failed to read migration version: %v", err)
	}
	fmt.Printf("Database schema at version %d\n", version)

	// 3. 初始化数据层（仅 PostgreSQL）
	dataLayer, cleanup, err := wire.InitializePostgresOnly(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize data layer: %v", err)
	}
	defer cleanup()

	slug := os.Getenv("BOOTSTRAP_TENANT_SLUG")
	if slug == "" {
		slug = "default-tenant"
	}
	var limit int64
	if v := os.Getenv("BOOTSTRAP_TENANT_TOKEN_LIMIT"); v != "" {
		if limit, err = strconv.ParseInt(v, 10, 64); err != nil {
			log.Fatalf("invalid BOOTSTRAP_TENANT_TOKEN_LIMIT: %v", err)
		}
	}

	// 4. 默认租户与系统模板在同一事务中写入
	err = dataLayer.TxManager.WithTransaction(ctx, func(txCtx context.Context) error {
		tenant, err := dataLayer.TenantRepo.GetBySlug(txCtx, slug)
		if err != nil {
			return fmt.Errorf("failed to get existing tenant: %w", err)
		}
		if tenant == nil {
			fmt.Printf("Creating default tenant: %s...\n", slug)
			tenant = entity.NewTenant("Default Tenant", slug, limit)
			if err := dataLayer.TenantRepo.Create(txCtx, tenant); err != nil {
				return fmt.Errorf("failed to create default tenant: %w", err)
			}
			fmt.Printf("Default tenant created with ID: %s\n", tenant.ID)
		} else {
			fmt.Printf("Default tenant already exists with ID: %s\n", tenant.ID)
		}

		created, err := dataLayer.Prompts.SeedCatalog(txCtx)
		if err != nil {
			return fmt.Errorf("failed to seed prompt catalog: %w", err)
		}
		fmt.Printf("System prompt templates seeded: %d new\n", created)
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Bootstrap completed successfully.")
}
