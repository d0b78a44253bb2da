package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"MindBalance/storage/redis"
)

// ProtectedCache 经过熔断器的 JSON 值缓存
type ProtectedCache struct {
	keyPrefix string
	ttl       time.Duration
	breaker   *CircuitBreaker
}

// NewProtectedCache 创建受保护的缓存实例
func NewProtectedCache(keyPrefix string, ttl time.Duration, breaker *CircuitBreaker) *ProtectedCache {
	return &ProtectedCache{
		keyPrefix: keyPrefix,
		ttl:       ttl,
		breaker:   breaker,
	}
}

// Set 序列化后写入
func (pc *ProtectedCache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	return pc.breaker.Call(func() error {
		return redis.Client().Set(ctx, redis.Key(pc.keyPrefix, key), data, pc.ttl).Err()
	})
}

// Get 读取并反序列化，未命中返回 false
func (pc *ProtectedCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	var data []byte
	err := pc.breaker.Call(func() error {
		var getErr error
		data, getErr = redis.Client().Get(ctx, redis.Key(pc.keyPrefix, key)).Bytes()
		if errors.Is(getErr, goredis.Nil) {
			return nil
		}
		return getErr
	})
	if err != nil {
		return false, fmt.Errorf("failed to get cache: %w", err)
	}
	if data == nil {
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

// Delete 删除缓存
func (pc *ProtectedCache) Delete(ctx context.Context, key string) error {
	return pc.breaker.Call(func() error {
		return redis.Client().Del(ctx, redis.Key(pc.keyPrefix, key)).Err()
	})
}
