package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ainstein-ai-api/internal/domain/entity"
	"ainstein-ai-api/internal/domain/repository"
)

// GenerationRepository 生成记录仓储实现
type GenerationRepository struct {
	client *Client
}

// NewGenerationRepository 创建生成记录仓储
func NewGenerationRepository(client *Client) *GenerationRepository {
	return &GenerationRepository{client: client}
}

// Create 创建记录
func (r *GenerationRepository) Create(ctx context.Context, record *entity.GenerationRecord) error {
	ctx, span := tracer.Start(ctx, "postgres.GenerationRepository.Create")
	defer span.End()

	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	db := getDB(ctx, r.client.db)
	if err := db.Create(record).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create generation record: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取记录
func (r *GenerationRepository) GetByID(ctx context.Context, id string) (*entity.GenerationRecord, error) {
	ctx, span := tracer.Start(ctx, "postgres.GenerationRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var record entity.GenerationRecord
	if err := db.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get generation record: %w", err)
	}
	return &record, nil
}

// ListByTenant 获取租户记录列表
func (r *GenerationRepository) ListByTenant(ctx context.Context, tenantID string, filter *repository.GenerationFilter, pagination repository.Pagination) (*repository.PagedResult[*entity.GenerationRecord], error) {
	ctx, span := tracer.Start(ctx, "postgres.GenerationRepository.ListByTenant")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.GenerationRecord{}).Where("tenant_id = ?", tenantID)

	if filter != nil {
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.TemplateID != "" {
			query = query.Where("template_id = ?", filter.TemplateID)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count generation records: %w", err)
	}

	var records []*entity.GenerationRecord
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&records).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list generation records: %w", err)
	}

	return repository.NewPagedResult(records, total, pagination), nil
}

// MarkStarted 记录开始时间与预占 Token 数
func (r *GenerationRepository) MarkStarted(ctx context.Context, id string, startedAt time.Time, tokensReserved int) error {
	ctx, span := tracer.Start(ctx, "postgres.GenerationRepository.MarkStarted")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Model(&entity.GenerationRecord{}).
		Where("id = ? AND status = ?", id, entity.GenerationStatusPending).
		Updates(map[string]interface{}{
			"started_at":      startedAt,
			"tokens_reserved": tokensReserved,
		}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to mark generation started: %w", err)
	}
	return nil
}

// MarkCompleted 仅当记录仍为 pending 时写入结果
func (r *GenerationRepository) MarkCompleted(ctx context.Context, record *entity.GenerationRecord) (bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.GenerationRepository.MarkCompleted")
	defer span.End()

	return r.finish(ctx, record, map[string]interface{}{
		"status":             entity.GenerationStatusCompleted,
		"generated_content":  record.GeneratedContent,
		"model":              record.Model,
		"tokens_used":        record.TokensUsed,
		"tokens_reserved":    0,
		"cost":               record.Cost,
		"error_message":      "",
		"generation_time_ms": record.GenerationTimeMs,
		"completed_at":       record.CompletedAt,
	})
}

// MarkFailed 仅当记录仍为 pending 时写入失败原因
func (r *GenerationRepository) MarkFailed(ctx context.Context, record *entity.GenerationRecord) (bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.GenerationRepository.MarkFailed")
	defer span.End()

	return r.finish(ctx, record, map[string]interface{}{
		"status":             entity.GenerationStatusFailed,
		"tokens_reserved":    0,
		"error_message":      record.ErrorMessage,
		"generation_time_ms": record.GenerationTimeMs,
		"completed_at":       record.CompletedAt,
	})
}

func (r *GenerationRepository) finish(ctx context.Context, record *entity.GenerationRecord, values map[string]interface{}) (bool, error) {
	db := getDB(ctx, r.client.db)
	res := db.Model(&entity.GenerationRecord{}).
		Where("id = ? AND status = ?", record.ID, entity.GenerationStatusPending).
		Updates(values)
	if res.Error != nil {
		return false, fmt.Errorf("failed to finish generation record: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// GetTokenUsage 统计已完成生成的 Token 用量；startInclusive 为零值时不设下界
func (r *GenerationRepository) GetTokenUsage(ctx context.Context, tenantID string, startInclusive, endExclusive time.Time) (int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.GenerationRepository.GetTokenUsage")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.GenerationRecord{}).
		Where("tenant_id = ? AND status = ? AND created_at < ?", tenantID, entity.GenerationStatusCompleted, endExclusive)
	if !startInclusive.IsZero() {
		query = query.Where("created_at >= ?", startInclusive)
	}

	var total int64
	if err := query.Select("COALESCE(SUM(tokens_used), 0)").Scan(&total).Error; err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to get generation token usage: %w", err)
	}
	return total, nil
}
