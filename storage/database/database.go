package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"MindBalance/config"
	dbotel "MindBalance/pkg/database"
	"MindBalance/pkg/logger"
)

var (
	db     *gorm.DB
	dbOnce sync.Once
	dbErr  error
)

// Init 按 STORAGE_DRIVER 打开 postgres 或 sqlite，并完成迁移
func Init() error {
	dbOnce.Do(func() {
		cfg := config.Cfg

		var gormDB *gorm.DB
		gormDB, dbErr = open(cfg)
		if dbErr != nil {
			logger.Logger.Error("Failed to open database",
				zap.String("driver", cfg.StorageDriver),
				zap.Error(dbErr),
			)
			return
		}

		if cfg.OTelEnabled {
			if err := dbotel.WithDefaultOTELPlugin(gormDB, cfg.ServiceName, cfg.StorageDriver); err != nil {
				logger.Logger.Warn("Failed to register gorm tracing plugin", zap.Error(err))
			}
		}

		sqlDB, err := gormDB.DB()
		if err != nil {
			dbErr = err
			logger.Logger.Error("Failed to get sql.DB from gorm", zap.Error(err))
			return
		}

		configureConnectionPool(sqlDB, cfg.StorageDriver)

		if err := sqlDB.Ping(); err != nil {
			dbErr = err
			logger.Logger.Error("Failed to ping database", zap.Error(err))
			return
		}

		db = gormDB
		if err := Migrate(); err != nil {
			dbErr = fmt.Errorf("failed to run database migration: %w", err)
			return
		}
		logger.Logger.Info("Database initialized successfully", zap.String("driver", cfg.StorageDriver))
	})

	return dbErr
}

func open(cfg config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
		SkipDefaultTransaction:                   true,
	}

	switch cfg.StorageDriver {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite dir: %w", err)
		}
		return gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
	case "postgres":
		gormCfg.PrepareStmt = true
		gormDB, err := gorm.Open(postgres.Open(cfg.GetDSN()), gormCfg)
		if err != nil {
			return nil, err
		}
		if err := registerReplicas(gormDB, cfg.PostgreSQLReplicas); err != nil {
			return nil, err
		}
		return gormDB, nil
	default:
		return nil, fmt.Errorf("storage driver %q does not use a database", cfg.StorageDriver)
	}
}

// registerReplicas 只读查询走副本，写入仍走主库
func registerReplicas(gormDB *gorm.DB, dsns []string) error {
	if len(dsns) == 0 {
		return nil
	}

	replicas := make([]gorm.Dialector, 0, len(dsns))
	for _, dsn := range dsns {
		replicas = append(replicas, postgres.Open(dsn))
	}

	err := gormDB.Use(dbresolver.Register(dbresolver.Config{
		Replicas: replicas,
		Policy:   dbresolver.RandomPolicy{},
	}))
	if err != nil {
		return fmt.Errorf("failed to register read replicas: %w", err)
	}

	logger.Logger.Info("Read replicas registered", zap.Int("count", len(dsns)))
	return nil
}

func DB() *gorm.DB {
	return db
}

func Close(ctx context.Context) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- sqlDB.Close()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func configureConnectionPool(sqlDB *sql.DB, driver string) {
	if driver == "sqlite" {
		// SQLite 单写者
		sqlDB.SetMaxOpenConns(1)
		return
	}

	cfg := config.Cfg
	sqlDB.SetMaxIdleConns(cfg.PostgreSQLMaxIdle)
	sqlDB.SetMaxOpenConns(cfg.PostgreSQLMaxOpen)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	sqlDB.SetConnMaxLifetime(2 * time.Hour)
}
