package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/config"
	"go.uber.org/zap"

	appconfig "MindBalance/config"
	"MindBalance/internal/cache"
	"MindBalance/internal/middleware"
	"MindBalance/internal/queue"
	"MindBalance/internal/router"
	"MindBalance/internal/service"
	"MindBalance/internal/wellbeing"
	"MindBalance/pkg/logger"
	"MindBalance/pkg/metrics"
	"MindBalance/pkg/otel"
	"MindBalance/pkg/snowflake"
	"MindBalance/pkg/token"
	"MindBalance/storage"
	"MindBalance/storage/mq"
	"MindBalance/storage/redis"
)

func main() {
	// 日志部分
	logger.Init()
	defer logger.Sync()

	if err := appconfig.Validate(); err != nil {
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

	shutdownOTel := initOTel(ctx)
	defer shutdownOTel()

	// 初始化存储层，记得关闭外部连接
	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	store, err := storage.NewStore(ctx)
	if err != nil {
		logger.Logger.Fatal("Failed to initialize store", zap.Error(err))
	}

	if err := snowflake.Init(appconfig.Cfg.SnowflakeMachineID, appconfig.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	if err := token.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize token package", zap.Error(err))
	} // token 在中间件前初始化，middleware 依赖 token

	service.Setup(service.Dependencies{
		Store:     store,
		Matcher:   wellbeing.NewMatcher(loadRules()),
		Cache:     dashboardCache(),
		Publisher: eventPublisher(),
		Deduper:   deduper(),
	})

	// 初始化中间件
	if err := middleware.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize middlewares", zap.Error(err))
	}

	logger.Logger.Info("Server starting",
		zap.String("service", appconfig.Cfg.ServiceName),
		zap.String("port", appconfig.Cfg.ServerPort),
		zap.String("environment", appconfig.Cfg.Environment),
		zap.String("storage", appconfig.Cfg.StorageDriver),
	)

	addr := net.JoinHostPort(appconfig.Cfg.ServerHost, appconfig.Cfg.ServerPort)
	opts := []config.Option{server.WithHostPorts(addr)}

	var tracingMiddleware app.HandlerFunc
	if appconfig.Cfg.OTelEnabled {
		var tracer config.Option
		tracer, tracingMiddleware = middleware.NewServerTracerConfig()
		opts = append(opts, tracer)
	}

	h := server.Default(opts...)
	if tracingMiddleware != nil {
		h.Use(tracingMiddleware)
	}

	router.Register(h.Engine)

	// 优雅关闭：在单独的 goroutine 中监听关闭信号并调用 Shutdown
	go func() {
		<-ctx.Done()
		logger.Logger.Info("Initiating graceful shutdown...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := h.Shutdown(shutdownCtx); err != nil {
			logger.Logger.Error("Failed to shutdown HTTP server", zap.Error(err))
		}
	}()

	logger.Logger.Info("HTTP server listening", zap.String("addr", addr))

	h.Spin()

	logger.Logger.Info("Server shutting down gracefully")
}

// initOTel 按开关初始化链路追踪与指标，返回清理函数
func initOTel(ctx context.Context) func() {
	if !appconfig.Cfg.OTelEnabled {
		return func() {}
	}

	shutdown, err := otel.InitOpenTelemetry(ctx, otel.Config{
		ServiceName:    appconfig.Cfg.ServiceName,
		ServiceVersion: appconfig.Cfg.ServiceVersion,
		Environment:    appconfig.Cfg.Environment,
		OTLPEndpoint:   appconfig.Cfg.OTelEndpoint,
		SampleRatio:    appconfig.Cfg.OTelSampleRatio,
	})
	if err != nil {
		logger.Logger.Warn("Failed to initialize OpenTelemetry, telemetry disabled", zap.Error(err))
		return func() {}
	}

	if err := metrics.InitMetrics(); err != nil {
		logger.Logger.Warn("Failed to initialize metrics", zap.Error(err))
	}

	return func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Logger.Warn("Failed to shutdown OpenTelemetry", zap.Error(err))
		}
	}
}

// loadRules 读取规则表文件，读取失败时退回内置规则
func loadRules() *wellbeing.RuleTable {
	path := appconfig.Cfg.RulesPath()
	rules, err := wellbeing.LoadRuleTable(path)
	if err != nil {
		logger.Logger.Warn("Failed to load suggestion rules, using built-in table",
			zap.String("path", path),
			zap.Error(err),
		)
		return wellbeing.DefaultRuleTable()
	}
	return rules
}

func dashboardCache() service.DashboardCache {
	if !redis.Enabled() {
		return cache.NoopDashboardCache{}
	}
	return cache.NewDashboardCache(time.Duration(appconfig.Cfg.DashboardCacheSeconds) * time.Second)
}

func eventPublisher() service.EventPublisher {
	if !mq.Enabled() {
		return service.NoopPublisher{}
	}
	return queue.NewPublisher()
}

func deduper() service.Deduper {
	if !redis.Enabled() {
		return cache.NewLocalDeduper()
	}
	return cache.NewRedisDeduper("dedupe")
}
