package cache

import (
	"context"
	"sync"
	"time"

	"MindBalance/storage/redis"
)

// RedisDeduper 基于 SETNX 的去重，多个 worker 实例共享
type RedisDeduper struct {
	prefix string
}

// NewRedisDeduper 创建去重器，prefix 区分消息去重和告警去重
func NewRedisDeduper(prefix string) *RedisDeduper {
	return &RedisDeduper{prefix: prefix}
}

// TryMark 首次标记返回 true，ttl 内重复标记返回 false
func (d *RedisDeduper) TryMark(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	var first bool
	err := RedisBreaker.Call(func() error {
		var setErr error
		first, setErr = redis.Client().SetNX(ctx, redis.Key(d.prefix, key), 1, ttl).Result()
		return setErr
	})
	return first, err
}

// Release 删除标记，处理失败需要重投时调用
func (d *RedisDeduper) Release(ctx context.Context, key string) error {
	return RedisBreaker.Call(func() error {
		return redis.Client().Del(ctx, redis.Key(d.prefix, key)).Err()
	})
}

// LocalDeduper 进程内去重，Redis 未启用时使用
type LocalDeduper struct {
	mu   sync.Mutex
	seen map[string]time.Time
	now  func() time.Time
}

func NewLocalDeduper() *LocalDeduper {
	return &LocalDeduper{seen: make(map[string]time.Time), now: time.Now}
}

func (d *LocalDeduper) TryMark(_ context.Context, key string, ttl time.Duration) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for k, exp := range d.seen {
		if !now.Before(exp) {
			delete(d.seen, k)
		}
	}

	if _, ok := d.seen[key]; ok {
		return false, nil
	}
	d.seen[key] = now.Add(ttl)
	return true, nil
}

func (d *LocalDeduper) Release(_ context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.seen, key)
	return nil
}
