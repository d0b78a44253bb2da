package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"MindBalance/config"
	"MindBalance/internal/cache"
	"MindBalance/internal/queue"
	"MindBalance/internal/service"
	"MindBalance/pkg/logger"
	"MindBalance/pkg/snowflake"
	"MindBalance/storage"
	"MindBalance/storage/mq"
	"MindBalance/storage/redis"
)

func main() {
	logger.Init()
	defer logger.Sync()

	if err := config.Validate(); err != nil {
		logger.Logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	if !mq.Enabled() {
		logger.Logger.Fatal("Worker requires RabbitMQ, set RABBITMQ_ENABLED=true")
	}

	store, err := storage.NewStore(ctx)
	if err != nil {
		logger.Logger.Fatal("Failed to initialize store", zap.Error(err))
	}

	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	// 多个 worker 实例共享 Redis 去重，单实例时退回进程内去重
	var deduper queue.Deduper = cache.NewLocalDeduper()
	if redis.Enabled() {
		deduper = cache.NewRedisDeduper("dedupe")
	}

	service.Setup(service.Dependencies{
		Store:   store,
		Deduper: deduper,
	})

	logger.Logger.Info("Worker service starting",
		zap.String("service", config.Cfg.ServiceName+"-worker"),
		zap.String("environment", config.Cfg.Environment),
	)

	queue.NewConsumers(service.Alert(), deduper).StartAll(ctx)

	logger.Logger.Info("Worker service shutting down gracefully")
}
