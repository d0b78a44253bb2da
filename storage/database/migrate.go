package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"MindBalance/internal/model"
	"MindBalance/pkg/logger"
)

// Migrate 运行数据库迁移，创建所有表
func Migrate() error {
	return MigrateDB(DB())
}

// MigrateDB 对指定连接执行迁移，测试中直接传入 sqlite 连接
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return gorm.ErrInvalidDB
	}

	logger.Logger.Info("Starting database migration...")

	err := db.AutoMigrate(
		&model.User{},
		&model.CheckIn{},
		&model.Resource{},
	)
	if err != nil {
		logger.Logger.Error("Database migration failed", zap.Error(err))
		return err
	}

	logger.Logger.Info("Database migration completed successfully")
	return nil
}
