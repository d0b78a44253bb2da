package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"MindBalance/config"
	"MindBalance/pkg/errors"
	"MindBalance/pkg/logger"
	"MindBalance/pkg/response"
	"MindBalance/storage/redis"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	// 时间窗口（秒）
	Window int
	// 时间窗口内最大请求数
	MaxRequests int
	// 限流键前缀
	KeyPrefix string
	// 是否按用户 ID 限流（需要认证）
	ByUserID bool
	// 是否按 IP 限流
	ByIP bool
	// 超过限制后禁止访问的时长（秒）
	BlockDuration int
}

// DefaultRateLimitConfig 已认证接口的通用限流
var DefaultRateLimitConfig = RateLimitConfig{
	Window:        60,
	MaxRequests:   120,
	KeyPrefix:     "rate:limit",
	ByUserID:      true,
	ByIP:          true,
	BlockDuration: 300,
}

// AuthRateLimitConfig 登录接口按 IP 限流
var AuthRateLimitConfig = RateLimitConfig{
	Window:        60,
	MaxRequests:   5,
	KeyPrefix:     "auth:rate",
	ByIP:          true,
	BlockDuration: 900,
}

// RateLimiter 基于 zset 的滑动窗口限流器
type RateLimiter struct {
	config RateLimitConfig
	now    func() time.Time
}

func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	return &RateLimiter{config: config, now: time.Now}
}

// identifier 优先按用户，其次按 IP
func (rl *RateLimiter) identifier(ctx context.Context, c *app.RequestContext) string {
	if rl.config.ByUserID {
		if userID, exists := GetUserID(ctx, c); exists {
			return "user:" + userID
		}
	}
	if rl.config.ByIP {
		return "ip:" + c.ClientIP()
	}
	return "global"
}

func (rl *RateLimiter) windowKey(id string) string {
	return redis.Key(rl.config.KeyPrefix, id)
}

func (rl *RateLimiter) blockKey(id string) string {
	return redis.Key(rl.config.KeyPrefix, "block", id)
}

// Allow 记录本次请求并返回窗口内的请求数
func (rl *RateLimiter) Allow(ctx context.Context, id string) (bool, int, error) {
	key := rl.windowKey(id)
	now := rl.now()
	windowStart := now.Add(-time.Duration(rl.config.Window) * time.Second)

	pipe := redis.Client().Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	pipe.ZAdd(ctx, key, redislib.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})
	zcardCmd := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, time.Duration(rl.config.Window+10)*time.Second)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("failed to execute pipeline: %w", err)
	}

	count := int(zcardCmd.Val())
	return count <= rl.config.MaxRequests, count, nil
}

func (rl *RateLimiter) Block(ctx context.Context, id string) error {
	return redis.Client().Set(ctx, rl.blockKey(id), "1", time.Duration(rl.config.BlockDuration)*time.Second).Err()
}

func (rl *RateLimiter) IsBlocked(ctx context.Context, id string) (bool, error) {
	n, err := redis.Client().Exists(ctx, rl.blockKey(id)).Result()
	return n > 0, err
}

// RateLimitMiddleware 创建限流中间件；Redis 未启用时直接放行，Redis 出错时放行并告警
func RateLimitMiddleware(cfg RateLimitConfig) app.HandlerFunc {
	if !config.Cfg.RateLimitEnabled || !redis.Enabled() {
		return func(ctx context.Context, c *app.RequestContext) { c.Next(ctx) }
	}

	limiter := NewRateLimiter(cfg)

	return func(ctx context.Context, c *app.RequestContext) {
		id := limiter.identifier(ctx, c)

		blocked, err := limiter.IsBlocked(ctx, id)
		if err != nil {
			logger.Logger.Warn("Failed to check block status", zap.Error(err))
			c.Next(ctx)
			return
		}
		if blocked {
			response.Error(ctx, c, errors.TooManyRequests)
			c.Abort()
			return
		}

		allowed, count, err := limiter.Allow(ctx, id)
		if err != nil {
			logger.Logger.Warn("Failed to check rate limit", zap.Error(err))
			c.Next(ctx)
			return
		}

		remaining := cfg.MaxRequests - count
		if remaining < 0 {
			remaining = 0
		}
		c.Response.Header.Set("X-RateLimit-Limit", strconv.Itoa(cfg.MaxRequests))
		c.Response.Header.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Response.Header.Set("X-RateLimit-Reset", strconv.FormatInt(limiter.now().Add(time.Duration(cfg.Window)*time.Second).Unix(), 10))

		if !allowed {
			if err := limiter.Block(ctx, id); err != nil {
				logger.Logger.Warn("Failed to block client", zap.Error(err))
			}
			logger.Logger.Info("Rate limit exceeded",
				zap.String("key_prefix", cfg.KeyPrefix),
				zap.String("identifier", id),
				zap.Int("count", count),
			)
			response.Error(ctx, c, errors.TooManyRequests)
			c.Abort()
			return
		}

		c.Next(ctx)
	}
}

// GeneralRateLimitMiddleware 通用限流中间件（适用于所有需要认证的路由）
func GeneralRateLimitMiddleware() app.HandlerFunc {
	return RateLimitMiddleware(DefaultRateLimitConfig)
}

// AuthRateLimitMiddleware 登录限流
func AuthRateLimitMiddleware() app.HandlerFunc {
	return RateLimitMiddleware(AuthRateLimitConfig)
}
