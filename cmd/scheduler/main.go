package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"MindBalance/config"
	"MindBalance/internal/queue"
	"MindBalance/internal/schedule"
	"MindBalance/pkg/logger"
	"MindBalance/pkg/snowflake"
	"MindBalance/storage"
	"MindBalance/storage/mq"
)

func main() {
	logger.Init()
	defer logger.Sync()

	if err := config.Validate(); err != nil {
		logger.Logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Logger.Info("Scheduler received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage for scheduler", zap.Error(err))
	}
	defer storage.Close()

	if !mq.Enabled() {
		logger.Logger.Fatal("Scheduler requires RabbitMQ, set RABBITMQ_ENABLED=true")
	}

	// 考虑与 worker 和 server 作区分
	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake for scheduler", zap.Error(err))
	}

	logger.Logger.Info("Scheduler service starting",
		zap.String("service", config.Cfg.ServiceName+"-scheduler"),
		zap.String("environment", config.Cfg.Environment),
		zap.Int("team_scan_hour", config.Cfg.TeamScanHour),
	)

	go runTeamScanLoop(ctx, schedule.NewTeamScanScheduler(queue.NewPublisher()))

	<-ctx.Done()

	logger.Logger.Info("Scheduler service shutting down gracefully")
}

// runTeamScanLoop 每天 TeamScanHour 点投递一次团队扫描任务
func runTeamScanLoop(ctx context.Context, s *schedule.TeamScanScheduler) {
	// development 环境下每 1 分钟执行一次，方便本地调试
	if config.Cfg.IsDevelopment() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		logger.Logger.Info("Team scan scheduler running in development mode with 1m interval")

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runScan(ctx, s)
			}
		}
	}

	for {
		now := time.Now()
		next := schedule.NextRun(now, config.Cfg.TeamScanHour)
		delay := time.Until(next)
		logger.Logger.Info("Scheduled next team scan run",
			zap.Time("now", now),
			zap.Time("next_run", next),
			zap.Duration("delay", delay),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			runScan(ctx, s)
		}
	}
}

func runScan(ctx context.Context, s *schedule.TeamScanScheduler) {
	runCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	if err := s.ScheduleTeamScan(runCtx); err != nil {
		logger.Logger.Error("Team scan scheduler run failed", zap.Error(err))
	}
}
