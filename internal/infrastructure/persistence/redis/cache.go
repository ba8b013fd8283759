package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"ainstein-ai-api/pkg/metrics"
)

var cacheTracer = otel.Tracer("redis.cache")

const templateKeyPrefix = "prompt:tpl:"

// TemplateKey 提示词模板缓存键；模板更新或删除时按同一键失效
func TemplateKey(id string) string {
	return templateKeyPrefix + id
}

// Cache 模板读穿缓存。值为 JSON，同一键的并发未命中只回源一次。
type Cache struct {
	client *Client
	group  singleflight.Group
}

func NewCache(client *Client) *Cache {
	return &Cache{client: client}
}

// GetOrLoadSafe 命中直接返回；未命中时经 singleflight 调用 loader 并回填。
// loader 返回 nil（记录不存在）时不回填，结果为 nil 字节。
func (c *Cache) GetOrLoadSafe(ctx context.Context, key string, ttl time.Duration, loader func() (interface{}, error)) ([]byte, error) {
	ctx, span := cacheTracer.Start(ctx, "redis.Cache.GetOrLoadSafe",
		trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	if val, err := c.lookup(ctx, key); err != nil || val != nil {
		if err != nil {
			span.RecordError(err)
		}
		span.SetAttributes(attribute.Bool("cache.hit", val != nil))
		return val, err
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		// 等待期间可能已被其他调用方回填
		if val, err := c.client.rdb.Get(ctx, key).Bytes(); err == nil {
			return val, nil
		}

		data, err := loader()
		if err != nil || data == nil {
			return []byte(nil), err
		}
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode cache value: %w", err)
		}
		if err := c.client.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
			// 回填失败只影响下次命中率
			span.RecordError(err)
		}
		return raw, nil
	})
	span.SetAttributes(attribute.Bool("cache.shared", shared))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return v.([]byte), nil
}

// lookup 命中返回值；未命中返回 nil, nil
func (c *Cache) lookup(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		metrics.CacheRequests.WithLabelValues("redis", "hit").Inc()
		return val, nil
	case IsNil(err):
		metrics.CacheRequests.WithLabelValues("redis", "miss").Inc()
		return nil, nil
	default:
		return nil, err
	}
}

// Delete 失效指定键
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx, span := cacheTracer.Start(ctx, "redis.Cache.Delete",
		trace.WithAttributes(attribute.Int("cache.key_count", len(keys))))
	defer span.End()

	if err := c.client.rdb.Del(ctx, keys...).Err(); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}
