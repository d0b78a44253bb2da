package schedule

// 团队风险调度器：每天 TeamScanHour 点投递一次 team.scan 任务，由 worker 复算所有部门

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"MindBalance/internal/model"
	"MindBalance/pkg/logger"
	"MindBalance/pkg/snowflake"
)

// ScanPublisher 由 queue.Publisher 实现
type ScanPublisher interface {
	PublishTeamScan(ctx context.Context, msg model.TeamScanMessage) error
}

type TeamScanScheduler struct {
	publisher ScanPublisher
	now       func() time.Time
	nextID    func(prefix string) (string, error)

	mu      sync.Mutex
	running bool
	lastRun time.Time
}

func NewTeamScanScheduler(publisher ScanPublisher) *TeamScanScheduler {
	return &TeamScanScheduler{
		publisher: publisher,
		now:       time.Now,
		nextID:    snowflake.NextPrefixed,
	}
}

// NextRun 返回 now 之后最近一次 hour:00 的时间
func NextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// ScheduleTeamScan 投递当天的扫描任务；上一次仍在执行时跳过
func (s *TeamScanScheduler) ScheduleTeamScan(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		logger.Logger.Info("Team scan job already running, skipping")
		return nil
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	now := s.now()
	messageID, err := s.nextID(snowflake.PrefixMessage)
	if err != nil {
		return fmt.Errorf("failed to generate message ID: %w", err)
	}

	msg := model.TeamScanMessage{
		MessageID:   messageID,
		Date:        now.Format(model.DateLayout),
		ScheduledAt: now.Unix(),
	}
	if err := s.publisher.PublishTeamScan(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish team scan: %w", err)
	}

	s.mu.Lock()
	s.lastRun = now
	s.mu.Unlock()

	logger.Logger.Info("Team scan scheduled",
		zap.String("message_id", messageID),
		zap.String("date", msg.Date),
	)
	return nil
}

// LastRun 最近一次成功投递的时间
func (s *TeamScanScheduler) LastRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}
