package redis

import (
	"context"
	"fmt"
	"time"

	"conduit/internal/config"
	"conduit/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewClient 创建 Redis 客户端并在 timeout 内完成连通性检查
func NewClient(cfg *config.RedisConfig, timeout time.Duration) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis %s: %w", cfg.Addr(), err)
	}

	logger.Info("Redis connected",
		zap.String("addr", cfg.Addr()),
		zap.Int("db", cfg.DB),
		zap.Int("pool_size", cfg.PoolSize),
	)
	return client, nil
}

// NewTagCache 连接 Redis 并返回热门标签缓存，关闭函数释放连接
func NewTagCache(cfg *config.RedisConfig) (*JSONCache, func() error, error) {
	client, err := NewClient(cfg, 5*time.Second)
	if err != nil {
		return nil, nil, err
	}
	return NewJSONCache(client, cfg.TagTTLDuration()), client.Close, nil
}
