package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"MindBalance/config"
	"MindBalance/internal/repository"
	"MindBalance/pkg/logger"
	"MindBalance/storage/database"
	"MindBalance/storage/mq"
	"MindBalance/storage/redis"
)

// Init 按配置初始化存储层：数据库仅在非 jsonfile 驱动时连接，Redis、RabbitMQ 按开关连接
func Init() error {
	if config.Cfg.StorageDriver != "jsonfile" {
		if err := database.Init(); err != nil {
			return err
		}
	}

	if err := redis.Init(); err != nil {
		return fmt.Errorf("failed to init redis: %w", err)
	}

	if err := mq.Init(); err != nil {
		return fmt.Errorf("failed to init rabbitmq: %w", err)
	}

	return nil
}

// NewStore 构造仓储实现，jsonfile 为默认驱动
func NewStore(ctx context.Context) (repository.Store, error) {
	if config.Cfg.StorageDriver == "jsonfile" {
		store, err := repository.NewJSONStore(config.Cfg.DataDir)
		if err != nil {
			return nil, err
		}
		logger.Logger.Info("Using JSON file store", zap.String("data_dir", config.Cfg.DataDir))
		return store, nil
	}

	db := database.DB()
	if db == nil {
		return nil, fmt.Errorf("database is not initialized")
	}

	store := repository.NewGormStore(db)
	if err := store.SeedDefaults(ctx); err != nil {
		return nil, err
	}
	return store, nil
}
