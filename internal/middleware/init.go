package middleware

import (
	"fmt"

	"go.uber.org/zap"

	"MindBalance/config"
	"MindBalance/pkg/logger"
	"MindBalance/storage/redis"
)

// Init 初始化需要共享状态的中间件，需在 token.Init 之后调用
func Init() error {
	if err := initAuthMiddleware(); err != nil {
		return fmt.Errorf("failed to initialize auth middleware: %w", err)
	}

	// 提前注册 HTTP 指标，避免首个请求承担创建开销
	getServerMetrics()

	logger.Logger.Info("Middlewares initialized",
		zap.Bool("rate_limit", config.Cfg.RateLimitEnabled && redis.Enabled()),
		zap.Strings("cors_allow_origins", config.Cfg.CORSAllowOrigins),
	)
	return nil
}
