package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// JSONCache 以 hash 形式缓存 JSON 值，整组可一次失效
type JSONCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewJSONCache(client *redis.Client, ttl time.Duration) *JSONCache {
	return &JSONCache{client: client, ttl: ttl}
}

// Get 读取 key 下 field 的值并反序列化到 dst，未命中返回 false
func (c *JSONCache) Get(ctx context.Context, key, field string, dst interface{}) (bool, error) {
	data, err := c.client.HGet(ctx, key, field).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis hget %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode cached %s/%s: %w", key, field, err)
	}
	return true, nil
}

// Set 写入 key 下 field 的值，并刷新整组的过期时间
func (c *JSONCache) Set(ctx context.Context, key, field string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, field, data)
	if c.ttl > 0 {
		pipe.Expire(ctx, key, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis hset %s: %w", key, err)
	}
	return nil
}

// Invalidate 删除整组缓存
func (c *JSONCache) Invalidate(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
