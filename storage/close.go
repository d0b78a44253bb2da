package storage

import (
	"context"
	"time"

	"go.uber.org/zap"

	"MindBalance/pkg/logger"
	"MindBalance/storage/database"
	"MindBalance/storage/mq"
	"MindBalance/storage/redis"
)

type closer struct {
	name    string
	enabled func() bool
	close   func(ctx context.Context) error
}

// 关闭顺序：MQ -> Redis -> Database，先停止收发消息再断开数据源
func defaultClosers() []closer {
	return []closer{
		{name: "rabbitmq", enabled: mq.Enabled, close: mq.Close},
		{name: "redis", enabled: redis.Enabled, close: redis.Close},
		{name: "database", enabled: func() bool { return database.DB() != nil }, close: database.Close},
	}
}

// Close 关闭 Init 实际建立的连接，未启用的存储跳过
func Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	closed := closeAll(ctx, defaultClosers())
	logger.Logger.Info("Storage connections closed", zap.Strings("closed", closed))
}

func closeAll(ctx context.Context, closers []closer) []string {
	closed := make([]string, 0, len(closers))
	for _, c := range closers {
		if !c.enabled() {
			continue
		}
		if err := c.close(ctx); err != nil {
			logger.Logger.Error("Failed to close storage connection",
				zap.String("store", c.name),
				zap.Error(err),
			)
			continue
		}
		closed = append(closed, c.name)
	}
	return closed
}
