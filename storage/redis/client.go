package redis

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"MindBalance/config"
	"MindBalance/pkg/logger"
	redisotel "MindBalance/pkg/redis"
)

var (
	client *redis.Client
	once   sync.Once
	err    error
)

// Init 建立 Redis 连接；REDIS_ENABLED=false 时不做任何事
func Init() error {
	if !config.Cfg.RedisEnabled {
		return nil
	}

	once.Do(func() {
		cfg := config.Cfg

		c := redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			MinIdleConns: 5,
			MaxRetries:   3,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err = c.Ping(ctx).Err(); err != nil {
			c.Close()
			return
		}

		if cfg.OTelEnabled {
			if hookErr := redisotel.InstrumentClient(c, cfg.ServiceName, cfg.RedisDB); hookErr != nil {
				logger.Logger.Warn("Failed to instrument Redis tracing", zap.Error(hookErr))
			}
		}
		client = c
	})

	return err
}

// Enabled Redis 是否可用
func Enabled() bool {
	return client != nil
}

func Client() *redis.Client {
	if client == nil {
		panic("Redis client not init")
	}
	return client
}

func Close(ctx context.Context) error {
	if client == nil {
		return nil
	}

	return client.Close()
}

// Key 拼接带前缀的键，空片段会被跳过
func Key(parts ...string) string {
	prefix := config.Cfg.RedisPrefix
	if prefix == "" {
		prefix = "mb"
	}

	var sb strings.Builder
	sb.WriteString(prefix)
	for _, part := range parts {
		if part != "" {
			sb.WriteString(":")
			sb.WriteString(part)
		}
	}

	return sb.String()
}
