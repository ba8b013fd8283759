// Package cache 提供进程内 L1 缓存
package cache

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"ainstein-ai-api/pkg/metrics"
)

// Local 基于 ristretto 的进程内缓存，值为原始字节
type Local struct {
	c *ristretto.Cache[string, []byte]
}

// NewLocal 创建本地缓存；maxCost 为缓存值总字节上限
func NewLocal(maxCost int64) (*Local, error) {
	if maxCost <= 0 {
		maxCost = 1 << 20
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxCost / 100 * 10, // 约 10 倍预期条目数
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Local{c: c}, nil
}

// Get 读取缓存
func (l *Local) Get(_ context.Context, key string) ([]byte, bool) {
	val, found := l.c.Get(key)
	if !found {
		metrics.CacheRequests.WithLabelValues("local", "miss").Inc()
		return nil, false
	}
	metrics.CacheRequests.WithLabelValues("local", "hit").Inc()
	return val, true
}

// Set 写入缓存；写入后等待缓冲区落地，保证随后的 Get 可见
func (l *Local) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	cost := int64(len(value))
	if cost == 0 {
		cost = 1
	}
	l.c.SetWithTTL(key, value, cost, ttl)
	l.c.Wait()
}

// Delete 删除缓存
func (l *Local) Delete(_ context.Context, key string) {
	l.c.Del(key)
}

// Close 释放缓存资源
func (l *Local) Close() {
	l.c.Close()
}
